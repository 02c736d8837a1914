package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"StockAssistant/internal/config"
	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// Reader pulls recent entries from the ticker-parameterized RSS feed and
// scrapes each entry's page for a full body.
//
// The feed URL accepts a single ticker symbol; a comma-joined multi-ticker
// string is interpolated as-is, so multi-entity queries degrade on this
// path (observed upstream behavior, kept).
type Reader struct {
	parser   *gofeed.Parser
	scraper  ports.PageScraper
	template string
	region   string
	language string
	logger   *slog.Logger
}

var _ ports.FeedReader = (*Reader)(nil)

// NewReader wires a gofeed parser with the configured HTTP client.
func NewReader(client *http.Client, cfg config.RSSConfig, scraper ports.PageScraper, logger *slog.Logger) *Reader {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &Reader{
		parser:   parser,
		scraper:  scraper,
		template: cfg.URLTemplate,
		region:   cfg.Region,
		language: cfg.Language,
		logger:   logger,
	}
}

// Fetch parses the feed for the ticker and returns up to limit articles.
// Scrape failures per entry fall back to the entry's own summary text.
func (r *Reader) Fetch(ctx context.Context, ticker string, limit int) ([]domain.Article, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	feedURL := fmt.Sprintf(r.template, symbol, r.region, r.language)

	parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed for %s: %w", symbol, err)
	}

	var articles []domain.Article
	for _, item := range parsed.Items {
		if len(articles) >= limit {
			break
		}
		if item.Title == "" || item.Link == "" {
			continue
		}

		article := domain.Article{
			Ticker:  symbol,
			Title:   item.Title,
			Link:    item.Link,
			Summary: strings.TrimSpace(item.Description),
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = *item.PublishedParsed
		}

		article.FullText = article.Summary
		if r.scraper != nil {
			if body := r.scraper.Scrape(ctx, item.Link); body != "" {
				article.FullText = body
			}
		}

		articles = append(articles, article)
	}

	r.debug("feed fetched", "ticker", symbol, "entries", len(parsed.Items), "articles", len(articles))
	return articles, nil
}

func (r *Reader) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
