package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// contextBudget bounds the text block handed to the generator. The cut is
// a hard one at the byte boundary, not sentence-aware.
const contextBudget = 7000

// NoRelevantData is the deterministic empty-result answer on the retrieval
// path; the generator is instructed to reply with it verbatim when the
// context does not cover the question.
const NoRelevantData = "No relevant data found."

// SummaryItem is one entry of the context block handed to the generator.
type SummaryItem struct {
	Title string
	Text  string
	Link  string
}

// Summarizer builds a bounded context from documents or articles and asks
// the generator for a summary. It never fails: empty input and generator
// errors both yield a deterministic "no data" answer.
type Summarizer struct {
	generator ports.Generator
	logger    *slog.Logger
}

// NewSummarizer wires the generator dependency.
func NewSummarizer(generator ports.Generator, logger *slog.Logger) *Summarizer {
	return &Summarizer{generator: generator, logger: logger}
}

// Summarize produces a natural-language summary of the items scoped to the
// subject. Empty items short-circuit without any generator call.
func (s *Summarizer) Summarize(ctx context.Context, items []SummaryItem, subject string, source domain.Source) string {
	if len(items) == 0 {
		return emptyAnswer(subject, source)
	}

	prompt := buildPrompt(buildContext(items), subject, source)

	answer, err := s.generator.Generate(ctx, prompt, ports.GenerateOptions{Temperature: 0.2})
	if err != nil {
		s.warn("summarization failed", "subject", subject, "error", err)
		return emptyAnswer(subject, source)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return emptyAnswer(subject, source)
	}

	return answer
}

// buildContext concatenates indexed item blocks, truncated to the budget.
func buildContext(items []SummaryItem) string {
	var blocks []string
	for i, item := range items {
		fields := []string{fmt.Sprintf("[%d] %s", i+1, item.Title)}
		if item.Text != "" {
			fields = append(fields, item.Text)
		}
		if item.Link != "" {
			fields = append(fields, item.Link)
		}
		blocks = append(blocks, strings.Join(fields, "\n"))
	}

	block := strings.Join(blocks, "\n\n")
	if len(block) > contextBudget {
		block = block[:contextBudget]
	}
	return block
}

func buildPrompt(contextBlock, subject string, source domain.Source) string {
	if source == domain.SourceRAG {
		return fmt.Sprintf(`You are a financial assistant. Answer the question only using the following context.
If the context is irrelevant to the question, reply EXACTLY: %q

Context:
%s

Question: %s
Answer:`, NoRelevantData, contextBlock, subject)
	}

	sourceName := strings.ReplaceAll(string(source), "_", " ")
	return fmt.Sprintf(`You are a financial assistant.
Summarize the following %s articles about %s.
Highlight market updates, analyst opinions, and investor sentiment.

Articles:
%s

Summary:`, sourceName, subject, contextBlock)
}

func emptyAnswer(subject string, source domain.Source) string {
	if source == domain.SourceRAG {
		return NoRelevantData
	}
	return fmt.Sprintf("No recent articles found for %s.", subject)
}

func (s *Summarizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
