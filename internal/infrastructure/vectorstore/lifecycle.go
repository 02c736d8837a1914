package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"StockAssistant/internal/ports"
)

// seedDocument mirrors one record of the JSON dataset file.
type seedDocument struct {
	Title    string `json:"title"`
	Ticker   string `json:"ticker"`
	FullText string `json:"full_text"`
}

// EnsureSchema creates the pgvector extension, the embeddings table, and a
// cosine index when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY,
			title text NOT NULL DEFAULT '',
			ticker text NOT NULL DEFAULT '',
			full_text text NOT NULL DEFAULT '',
			embedding vector(%d) NOT NULL
		)`, s.table, s.dimension),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)",
			s.table, s.table),
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// Seed bulk-loads a JSON dataset file (a list of {title, ticker, full_text}
// records), embedding title and body together. Skips when the table already
// holds documents.
func (s *Store) Seed(ctx context.Context, embedder ports.Embedder, path string) error {
	var count int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.pool.QueryRow(ctx, countQuery).Scan(&count); err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		s.log("seed skipped, table already populated", "table", s.table, "count", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var docs []seedDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	inserted := 0
	for _, doc := range docs {
		text := strings.TrimSpace(doc.Title + " " + doc.FullText)
		if text == "" {
			continue
		}

		vector, err := embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embed document %q: %w", doc.Title, err)
		}

		query, args, err := s.builder.
			Insert(s.table).
			Columns("id", "title", "ticker", "full_text", "embedding").
			Values(uuid.NewString(), doc.Title, doc.Ticker, doc.FullText, pgvector.NewVector(vector)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert document %q: %w", doc.Title, err)
		}
		inserted++
	}

	s.log("seed complete", "table", s.table, "inserted", inserted)
	return nil
}

func (s *Store) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
