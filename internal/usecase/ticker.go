package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"StockAssistant/internal/ports"
)

// TickerSentinel is returned when no company can be recognized in a query.
const TickerSentinel = "N/A"

const tickerPromptTemplate = `You are a financial data assistant.

Task:
Extract the official stock ticker symbol(s) for any company or organization
mentioned in the user's question below.

Rules:
- Output only ticker symbols (e.g., AAPL, TSLA, GOOGL, MSFT, TCS.NS)
- If multiple tickers, return comma-separated (no spaces)
- If unsure, infer from company name (e.g., Google -> GOOG, TCS -> TCS.NS)
- If no company is found, return exactly: N/A
- Do NOT include explanations or text, only tickers.

User question:
%s

Answer:`

// TickerExtractor turns free text into a normalized ticker set using the
// generator. Never fails: any generator problem degrades to the sentinel.
type TickerExtractor struct {
	generator ports.Generator
	logger    *slog.Logger
}

// NewTickerExtractor wires the generator dependency.
func NewTickerExtractor(generator ports.Generator, logger *slog.Logger) *TickerExtractor {
	return &TickerExtractor{generator: generator, logger: logger}
}

// Extract asks the generator for ticker symbols and normalizes the output.
func (t *TickerExtractor) Extract(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return TickerSentinel
	}

	prompt := fmt.Sprintf(tickerPromptTemplate, query)
	raw, err := t.generator.Generate(ctx, prompt, ports.GenerateOptions{
		Temperature: 0.1,
		MaxTokens:   20,
	})
	if err != nil {
		t.warn("ticker extraction failed", "error", err)
		return TickerSentinel
	}

	ticker := NormalizeTickers(raw)
	t.debug("extracted tickers", "query", query, "ticker", ticker)
	return ticker
}

// NormalizeTickers cleans raw generator output into a comma-joined,
// deduplicated, sorted, uppercase ticker set, or the sentinel when nothing
// survives. Normalization is idempotent.
func NormalizeTickers(raw string) string {
	cleaned := strings.NewReplacer(`"`, "", "'", "", " ", "", "\n", "").Replace(raw)
	cleaned = strings.ToUpper(cleaned)

	// The generator sometimes still emits label prefixes like "Ticker: AAPL".
	cleaned = strings.ReplaceAll(cleaned, "TICKER:", "")
	cleaned = strings.ReplaceAll(cleaned, "SYMBOL:", "")
	cleaned = strings.Trim(cleaned, ",")

	seen := map[string]struct{}{}
	var tickers []string
	for _, token := range strings.Split(cleaned, ",") {
		if token == "" || token == TickerSentinel {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tickers = append(tickers, token)
	}

	if len(tickers) == 0 {
		return TickerSentinel
	}

	sort.Strings(tickers)
	return strings.Join(tickers, ",")
}

func (t *TickerExtractor) warn(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}

func (t *TickerExtractor) debug(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}
