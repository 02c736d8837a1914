package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// State identifies a node of the answer pipeline.
type State string

const (
	StateSemanticSearch   State = "semantic_search"
	StateSummarizeRAG     State = "summarize_rag"
	StateExtractTicker    State = "extract_ticker"
	StateFetchNews        State = "fetch_news"
	StateSummarizeFetched State = "summarize_fetched"
	StateFetchRSS         State = "fetch_rss"
	StateDone             State = "done"
)

// node couples a stage function with the routing predicate applied to its
// output. Stages are pure value-in/value-out over PipelineState.
type node struct {
	run  func(ctx context.Context, st domain.PipelineState) domain.PipelineState
	next func(st domain.PipelineState) State
}

// Orchestrator sequences retrieval, live fetch, and summarization into one
// answer per query. Execution is strictly sequential; no state is
// re-entered, and exactly one path runs per query.
type Orchestrator struct {
	retriever  *Retriever
	extractor  *TickerExtractor
	fetcher    *NewsFetcher
	summarizer *Summarizer
	feed       ports.FeedReader
	feedLimit  int
	logger     *slog.Logger
	nodes      map[State]node
}

// OrchestratorDeps wires all stage dependencies.
type OrchestratorDeps struct {
	Retriever  *Retriever
	Extractor  *TickerExtractor
	Fetcher    *NewsFetcher
	Summarizer *Summarizer
	Feed       ports.FeedReader
	FeedLimit  int
	Logger     *slog.Logger
}

// NewOrchestrator builds the state machine table.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	o := &Orchestrator{
		retriever:  deps.Retriever,
		extractor:  deps.Extractor,
		fetcher:    deps.Fetcher,
		summarizer: deps.Summarizer,
		feed:       deps.Feed,
		feedLimit:  deps.FeedLimit,
		logger:     deps.Logger,
	}
	if o.feedLimit <= 0 {
		o.feedLimit = 5
	}

	o.nodes = map[State]node{
		StateSemanticSearch:   {run: o.semanticSearch, next: routeAfterSearch},
		StateSummarizeRAG:     {run: o.summarizeRAG, next: terminal},
		StateExtractTicker:    {run: o.extractTicker, next: always(StateFetchNews)},
		StateFetchNews:        {run: o.fetchNews, next: routeAfterFetch},
		StateSummarizeFetched: {run: o.summarizeFetched, next: terminal},
		StateFetchRSS:         {run: o.fetchRSS, next: terminal},
	}

	return o
}

// Answer runs the pipeline for a single query and returns the terminal
// state, with Answer and Source guaranteed set.
func (o *Orchestrator) Answer(ctx context.Context, query string) domain.PipelineState {
	st := domain.PipelineState{Query: query, Source: domain.SourceUnknown}

	current := StateSemanticSearch
	for current != StateDone {
		n, ok := o.nodes[current]
		if !ok {
			o.warn("unknown pipeline state", "state", string(current))
			break
		}
		o.debug("enter state", "state", string(current))
		st = n.run(ctx, st)
		current = n.next(st)
	}

	if st.Source == domain.SourceUnknown {
		st.Source = domain.SourceNone
	}
	return st
}

// Routing predicates. Pure functions over state, independently testable.

func routeAfterSearch(st domain.PipelineState) State {
	if len(st.RetrievedDocs) > 0 {
		return StateSummarizeRAG
	}
	return StateExtractTicker
}

func routeAfterFetch(st domain.PipelineState) State {
	if st.Source == domain.SourceYahooAPI && len(st.FetchedArticles) > 0 {
		return StateSummarizeFetched
	}
	return StateFetchRSS
}

func terminal(domain.PipelineState) State {
	return StateDone
}

func always(next State) func(domain.PipelineState) State {
	return func(domain.PipelineState) State { return next }
}

// Stage functions.

func (o *Orchestrator) semanticSearch(ctx context.Context, st domain.PipelineState) domain.PipelineState {
	docs, err := o.retriever.Retrieve(ctx, st.Query)
	if err != nil {
		o.warn("retrieval unavailable, continuing to live fetch", "error", err)
		docs = nil
	}
	st.RetrievedDocs = docs
	return st
}

func (o *Orchestrator) summarizeRAG(ctx context.Context, st domain.PipelineState) domain.PipelineState {
	items := make([]SummaryItem, 0, len(st.RetrievedDocs))
	for _, doc := range st.RetrievedDocs {
		items = append(items, SummaryItem{
			Title: fmt.Sprintf("%s (%s)", doc.Title, doc.Ticker),
			Text:  doc.FullText,
		})
	}

	st.Answer = o.summarizer.Summarize(ctx, items, st.Query, domain.SourceRAG)
	if strings.Contains(st.Answer, NoRelevantData) {
		st.Source = domain.SourceRAGEmpty
	} else {
		st.Source = domain.SourceRAG
	}
	return st
}

func (o *Orchestrator) extractTicker(ctx context.Context, st domain.PipelineState) domain.PipelineState {
	st.Ticker = o.extractor.Extract(ctx, st.Query)
	return st
}

func (o *Orchestrator) fetchNews(ctx context.Context, st domain.PipelineState) domain.PipelineState {
	st.FetchedArticles, st.Source = o.fetcher.FetchNews(ctx, st.Ticker)
	return st
}

func (o *Orchestrator) summarizeFetched(ctx context.Context, st domain.PipelineState) domain.PipelineState {
	st.Answer = o.summarizer.Summarize(ctx, articleItems(st.FetchedArticles), st.Ticker, st.Source)
	return st
}

// fetchRSS is the explicit RSS-only terminal branch. It re-fetches the feed
// even when the news fetcher already fell back to RSS internally, matching
// the source system's routing.
func (o *Orchestrator) fetchRSS(ctx context.Context, st domain.PipelineState) domain.PipelineState {
	var articles []domain.Article
	if st.Ticker != "" && st.Ticker != TickerSentinel && o.feed != nil {
		var err error
		articles, err = o.feed.Fetch(ctx, st.Ticker, o.feedLimit)
		if err != nil {
			o.warn("rss terminal branch failed", "ticker", st.Ticker, "error", err)
			articles = nil
		}
	}

	st.FetchedArticles = articles
	if len(articles) == 0 {
		st.Source = domain.SourceNone
		st.Answer = o.summarizer.Summarize(ctx, nil, st.Ticker, st.Source)
		return st
	}

	st.Source = domain.SourceRSSFeed
	st.Answer = o.summarizer.Summarize(ctx, articleItems(articles), st.Ticker, st.Source)
	return st
}

func articleItems(articles []domain.Article) []SummaryItem {
	items := make([]SummaryItem, 0, len(articles))
	for _, a := range articles {
		text := a.Summary
		if a.FullText != "" && a.FullText != a.Summary {
			if text != "" {
				text += "\n"
			}
			text += a.FullText
		}
		items = append(items, SummaryItem{Title: a.Title, Text: text, Link: a.Link})
	}
	return items
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}

func (o *Orchestrator) debug(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}
