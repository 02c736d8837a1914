package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockAssistant/internal/config"
	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// Client queries the Yahoo Finance search endpoint for recent news. A
// comma-joined ticker string is split and fetched per symbol; individual
// symbol failures are logged and skipped so partial results still flow.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	scraper    ports.PageScraper
	logger     *slog.Logger
}

var _ ports.NewsProvider = (*Client)(nil)

// NewClient builds the primary news client.
func NewClient(client *http.Client, cfg config.NewsConfig, userAgent string, scraper ports.PageScraper, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    cfg.APIURL,
		userAgent:  userAgent,
		httpClient: client,
		scraper:    scraper,
		logger:     logger,
	}
}

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Link                string `json:"link"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// Fetch returns normalized articles for the requested tickers. Each article
// carries a best-effort scraped body and a summary capped at 500 characters.
func (c *Client) Fetch(ctx context.Context, tickers string, limit int) ([]domain.Article, error) {
	var articles []domain.Article

	for _, symbol := range splitTickers(tickers) {
		items, err := c.fetchSymbol(ctx, symbol, limit)
		if err != nil {
			c.warn("primary news fetch failed", "ticker", symbol, "error", err)
			continue
		}
		articles = append(articles, items...)
	}

	return articles, nil
}

func (c *Client) fetchSymbol(ctx context.Context, symbol string, limit int) ([]domain.Article, error) {
	endpoint, err := buildSearchURL(c.baseURL, symbol, limit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news service returned %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	var articles []domain.Article
	for _, item := range parsed.News {
		if item.Link == "" {
			continue
		}

		title := item.Title
		if title == "" {
			title = "Untitled"
		}

		article := domain.Article{
			Ticker: symbol,
			Title:  title,
			Link:   item.Link,
		}
		if item.ProviderPublishTime > 0 {
			article.PublishedAt = time.Unix(item.ProviderPublishTime, 0).UTC()
		}

		if c.scraper != nil {
			article.FullText = c.scraper.Scrape(ctx, item.Link)
		}
		article.Summary = excerpt(article.FullText, 500)

		articles = append(articles, article)
	}

	return articles, nil
}

func buildSearchURL(base, symbol string, limit int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid news api url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("q", symbol)
	query.Set("newsCount", strconv.Itoa(limit))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func splitTickers(tickers string) []string {
	var symbols []string
	for _, token := range strings.Split(tickers, ",") {
		if symbol := strings.ToUpper(strings.TrimSpace(token)); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

func excerpt(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
