package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// ErrRetrievalUnavailable marks store or embedder connectivity failures.
// Retrieval is advisory: the orchestrator logs this and continues down the
// live-fetch path instead of failing the query.
var ErrRetrievalUnavailable = errors.New("retrieval unavailable")

// Retriever performs semantic search over the vector store and applies the
// relevance threshold.
type Retriever struct {
	embedder  ports.Embedder
	searcher  ports.DocumentSearcher
	topK      int
	threshold float64
	logger    *slog.Logger
}

// NewRetriever wires embedder and store query surface.
func NewRetriever(embedder ports.Embedder, searcher ports.DocumentSearcher, topK int, threshold float64, logger *slog.Logger) *Retriever {
	return &Retriever{
		embedder:  embedder,
		searcher:  searcher,
		topK:      topK,
		threshold: threshold,
		logger:    logger,
	}
}

// Retrieve encodes the query, asks for the nearest neighbors, and discards
// matches below the threshold. A nil result with nil error means "searched
// but nothing passed" — distinct from an error, and never an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.Document, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrRetrievalUnavailable, err)
	}

	matches, err := r.searcher.Search(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: search documents: %v", ErrRetrievalUnavailable, err)
	}

	var docs []domain.Document
	for _, doc := range matches {
		if doc.Score >= r.threshold {
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		r.debug("no documents passed threshold", "query", query, "matches", len(matches))
		return nil, nil
	}

	return docs, nil
}

func (r *Retriever) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
