package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"StockAssistant/internal/config"
	"StockAssistant/internal/domain"
	"StockAssistant/internal/infrastructure/embedding"
	"StockAssistant/internal/infrastructure/feed"
	"StockAssistant/internal/infrastructure/llm"
	"StockAssistant/internal/infrastructure/news"
	"StockAssistant/internal/infrastructure/scrape"
	"StockAssistant/internal/infrastructure/vectorstore"
	"StockAssistant/internal/logging"
	"StockAssistant/internal/usecase"
)

// Application wires configuration to shared clients and the per-query
// pipeline. Clients are opened once and reused by every query.
type Application struct {
	cfg          config.Config
	pool         *pgxpool.Pool
	store        *vectorstore.Store
	embedder     *embedding.Client
	orchestrator *usecase.Orchestrator
	logger       *slog.Logger
}

// New builds a runnable application instance with all singletons connected.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	pool, err := vectorstore.Connect(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	embedder := embedding.NewClient(cfg.Embedding)
	generator := llm.NewClient(cfg.Generator)
	store := vectorstore.New(pool, cfg.Database, cfg.Embedding.Dimension,
		baseLogger.With("component", "vectorstore"))

	httpClient := &http.Client{Timeout: cfg.Scrape.Timeout}
	scraper := scrape.NewArticleScraper(httpClient, cfg.Scrape,
		baseLogger.With("component", "scraper"))

	newsClient := news.NewClient(httpClient, cfg.News, cfg.Scrape.UserAgent, scraper,
		baseLogger.With("component", "news"))
	feedReader := feed.NewReader(httpClient, cfg.RSS, scraper,
		baseLogger.With("component", "feed"))

	retriever := usecase.NewRetriever(embedder, store,
		cfg.Retrieval.TopK, cfg.Retrieval.Threshold,
		baseLogger.With("component", "retriever"))
	extractor := usecase.NewTickerExtractor(generator,
		baseLogger.With("component", "ticker"))
	fetcher := usecase.NewNewsFetcher(newsClient, feedReader, cfg.News.ArticleCount,
		baseLogger.With("component", "newsfetcher"))
	summarizer := usecase.NewSummarizer(generator,
		baseLogger.With("component", "summarizer"))

	orchestrator := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Retriever:  retriever,
		Extractor:  extractor,
		Fetcher:    fetcher,
		Summarizer: summarizer,
		Feed:       feedReader,
		FeedLimit:  cfg.RSS.ArticleCount,
		Logger:     baseLogger.With("component", "orchestrator"),
	})

	return &Application{
		cfg:          cfg,
		pool:         pool,
		store:        store,
		embedder:     embedder,
		orchestrator: orchestrator,
		logger:       baseLogger,
	}, nil
}

// Answer runs the pipeline for a single query.
func (a *Application) Answer(ctx context.Context, query string) domain.PipelineState {
	return a.orchestrator.Answer(ctx, query)
}

// Seed creates the vector-store schema and loads the dataset file.
func (a *Application) Seed(ctx context.Context, path string) error {
	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}
	return a.store.Seed(ctx, a.embedder, path)
}

// Close releases shared resources.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
