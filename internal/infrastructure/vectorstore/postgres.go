package vectorstore

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"StockAssistant/internal/config"
	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// Store queries news documents stored with pgvector embeddings. Cosine
// distance (<=>) is converted to a similarity in [0,1] as 1 - distance.
type Store struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
	builder   sq.StatementBuilderType
	logger    *slog.Logger
}

var _ ports.DocumentSearcher = (*Store)(nil)

// Connect opens a pgx pool with pgvector types registered on every
// connection. The pool is a process-wide singleton reused by all queries.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return pool, nil
}

// New wires a store over an existing pool.
func New(pool *pgxpool.Pool, cfg config.DatabaseConfig, dimension int, logger *slog.Logger) *Store {
	return &Store{
		pool:      pool,
		table:     cfg.Table,
		dimension: dimension,
		builder:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:    logger,
	}
}

// Search returns the nearest documents to the query vector, best first.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]domain.Document, error) {
	query, args, err := s.builder.
		Select("title", "ticker", "full_text").
		Column(sq.Expr("1 - (embedding <=> ?) AS score", pgvector.NewVector(vector))).
		From(s.table).
		OrderByClause("embedding <=> ?", pgvector.NewVector(vector)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.Title, &doc.Ticker, &doc.FullText, &doc.Score); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return docs, nil
}
