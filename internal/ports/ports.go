package ports

import (
	"context"

	"StockAssistant/internal/domain"
)

// GenerateOptions tune a single generation call.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Generator produces text for a prompt (ChatGPT-compatible APIs).
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Embedder encodes text into a fixed-dimension vector matching the
// vector store's configured dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DocumentSearcher is the read-only query surface of the vector store.
// Matches come back ordered by descending similarity.
type DocumentSearcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]domain.Document, error)
}

// NewsProvider queries the primary news service. Accepts a comma-joined
// multi-ticker string and fetches per symbol.
type NewsProvider interface {
	Fetch(ctx context.Context, tickers string, limit int) ([]domain.Article, error)
}

// FeedReader pulls RSS entries for a single ticker symbol.
type FeedReader interface {
	Fetch(ctx context.Context, ticker string, limit int) ([]domain.Article, error)
}

// PageScraper extracts a best-effort article body from a URL. An empty
// result means no body is available; scraping is never fatal.
type PageScraper interface {
	Scrape(ctx context.Context, url string) string
}
