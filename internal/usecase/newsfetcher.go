package usecase

import (
	"context"
	"log/slog"

	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// NewsFetcher acquires recent articles for a ticker through an ordered
// fallback chain: primary news service first, then the RSS feed. Each
// stage's errors are swallowed and treated as empty so the chain always
// makes forward progress.
type NewsFetcher struct {
	primary  ports.NewsProvider
	fallback ports.FeedReader
	limit    int
	logger   *slog.Logger
}

// NewNewsFetcher wires the fallback chain in order.
func NewNewsFetcher(primary ports.NewsProvider, fallback ports.FeedReader, limit int, logger *slog.Logger) *NewsFetcher {
	return &NewsFetcher{
		primary:  primary,
		fallback: fallback,
		limit:    limit,
		logger:   logger,
	}
}

// FetchNews tries each source in order and returns the first nonempty
// result together with its provenance tag. A missing or sentinel ticker
// short-circuits to an empty result with SourceNone.
func (f *NewsFetcher) FetchNews(ctx context.Context, ticker string) ([]domain.Article, domain.Source) {
	if ticker == "" || ticker == TickerSentinel {
		f.warn("no ticker available, skipping news fetch")
		return nil, domain.SourceNone
	}

	articles, err := f.primary.Fetch(ctx, ticker, f.limit)
	if err != nil {
		f.warn("primary news source failed", "ticker", ticker, "error", err)
	}
	if len(articles) > 0 {
		f.debug("primary news source succeeded", "ticker", ticker, "count", len(articles))
		return articles, domain.SourceYahooAPI
	}

	articles, err = f.fallback.Fetch(ctx, ticker, f.limit)
	if err != nil {
		f.warn("rss fallback failed", "ticker", ticker, "error", err)
	}
	if len(articles) > 0 {
		f.debug("rss fallback succeeded", "ticker", ticker, "count", len(articles))
		return articles, domain.SourceRSSFeed
	}

	f.warn("all news sources exhausted", "ticker", ticker)
	return nil, domain.SourceNone
}

func (f *NewsFetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}

func (f *NewsFetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
