package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"StockAssistant/internal/domain"
)

type orchestratorFixture struct {
	gen      *fakeGenerator
	searcher *fakeSearcher
	primary  *fakeNewsProvider
	feed     *fakeFeedReader
}

func newOrchestrator(f orchestratorFixture) *Orchestrator {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	retriever := NewRetriever(embedder, f.searcher, 3, 0.5, nil)
	extractor := NewTickerExtractor(f.gen, nil)
	fetcher := NewNewsFetcher(f.primary, f.feed, 5, nil)
	summarizer := NewSummarizer(f.gen, nil)

	return NewOrchestrator(OrchestratorDeps{
		Retriever:  retriever,
		Extractor:  extractor,
		Fetcher:    fetcher,
		Summarizer: summarizer,
		Feed:       f.feed,
		FeedLimit:  5,
	})
}

func TestRouteAfterSearch(t *testing.T) {
	t.Parallel()

	withDocs := domain.PipelineState{RetrievedDocs: []domain.Document{{Title: "doc", Score: 0.9}}}
	if got := routeAfterSearch(withDocs); got != StateSummarizeRAG {
		t.Fatalf("nonempty docs must route to summarize_rag, got %s", got)
	}

	if got := routeAfterSearch(domain.PipelineState{}); got != StateExtractTicker {
		t.Fatalf("absent docs must route to extract_ticker, got %s", got)
	}
}

func TestRouteAfterFetch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		state domain.PipelineState
		want  State
	}{
		{
			"yahoo with articles",
			domain.PipelineState{Source: domain.SourceYahooAPI, FetchedArticles: []domain.Article{{Title: "a"}}},
			StateSummarizeFetched,
		},
		{
			"yahoo without articles",
			domain.PipelineState{Source: domain.SourceYahooAPI},
			StateFetchRSS,
		},
		{
			"rss source",
			domain.PipelineState{Source: domain.SourceRSSFeed, FetchedArticles: []domain.Article{{Title: "a"}}},
			StateFetchRSS,
		},
		{
			"no source",
			domain.PipelineState{Source: domain.SourceNone},
			StateFetchRSS,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := routeAfterFetch(tc.state); got != tc.want {
				t.Fatalf("routeAfterFetch = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAnswerRAGPath(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(orchestratorFixture{
		gen: &fakeGenerator{replies: []string{"Apple raised guidance last quarter."}},
		searcher: &fakeSearcher{docs: []domain.Document{
			{Title: "Apple earnings", Ticker: "AAPL", FullText: "Guidance raised.", Score: 0.9},
			{Title: "Unrelated", Ticker: "XYZ", FullText: "noise", Score: 0.3},
		}},
		primary: &fakeNewsProvider{},
		feed:    &fakeFeedReader{},
	})

	result := o.Answer(context.Background(), "What's new about AAPL?")
	if result.Source != domain.SourceRAG {
		t.Fatalf("expected rag source, got %s", result.Source)
	}
	if result.Answer != "Apple raised guidance last quarter." {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
	if len(result.RetrievedDocs) != 1 {
		t.Fatalf("expected 1 retrieved doc after threshold, got %d", len(result.RetrievedDocs))
	}
}

func TestAnswerRAGEmptySignal(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(orchestratorFixture{
		gen: &fakeGenerator{replies: []string{NoRelevantData}},
		searcher: &fakeSearcher{docs: []domain.Document{
			{Title: "Weather report", Ticker: "AAPL", FullText: "Sunny.", Score: 0.7},
		}},
		primary: &fakeNewsProvider{},
		feed:    &fakeFeedReader{},
	})

	result := o.Answer(context.Background(), "What's new about AAPL?")
	if result.Source != domain.SourceRAGEmpty {
		t.Fatalf("expected rag_empty source, got %s", result.Source)
	}
}

// Scenario: no matching documents, primary source returns articles.
func TestAnswerLiveFetchViaPrimary(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{replies: []string{"AAPL", "Apple had a strong week."}}
	o := newOrchestrator(orchestratorFixture{
		gen:      gen,
		searcher: &fakeSearcher{},
		primary: &fakeNewsProvider{articles: []domain.Article{
			{Ticker: "AAPL", Title: "one", Link: "https://example.org/1"},
			{Ticker: "AAPL", Title: "two", Link: "https://example.org/2"},
			{Ticker: "AAPL", Title: "three", Link: "https://example.org/3"},
		}},
		feed: &fakeFeedReader{},
	})

	result := o.Answer(context.Background(), "What's new about AAPL?")
	if result.Source != domain.SourceYahooAPI {
		t.Fatalf("expected yahoo_api source, got %s", result.Source)
	}
	if result.Ticker != "AAPL" {
		t.Fatalf("expected AAPL ticker, got %q", result.Ticker)
	}
	if result.Answer == "" {
		t.Fatalf("expected nonempty answer")
	}
	if gen.calls != 2 {
		t.Fatalf("expected exactly two generator calls (extract + summarize), got %d", gen.calls)
	}
}

// Scenario: primary empty, RSS feed delivers entries.
func TestAnswerLiveFetchViaRSS(t *testing.T) {
	t.Parallel()

	feed := &fakeFeedReader{articles: []domain.Article{
		{Ticker: "AAPL", Title: "rss one", Summary: "excerpt one", FullText: "excerpt one"},
		{Ticker: "AAPL", Title: "rss two", Summary: "excerpt two", FullText: "excerpt two"},
	}}
	o := newOrchestrator(orchestratorFixture{
		gen:      &fakeGenerator{replies: []string{"AAPL", "Summary from feed entries."}},
		searcher: &fakeSearcher{},
		primary:  &fakeNewsProvider{},
		feed:     feed,
	})

	result := o.Answer(context.Background(), "What's new about AAPL?")
	if result.Source != domain.SourceRSSFeed {
		t.Fatalf("expected rss_feed source, got %s", result.Source)
	}
	if len(result.FetchedArticles) != 2 {
		t.Fatalf("expected 2 fetched articles, got %d", len(result.FetchedArticles))
	}
	if result.Answer != "Summary from feed entries." {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
}

// Scenario: no recognizable company anywhere.
func TestAnswerNoTickerFound(t *testing.T) {
	t.Parallel()

	primary := &fakeNewsProvider{}
	feed := &fakeFeedReader{}
	o := newOrchestrator(orchestratorFixture{
		gen:      &fakeGenerator{replies: []string{"N/A"}},
		searcher: &fakeSearcher{},
		primary:  primary,
		feed:     feed,
	})

	result := o.Answer(context.Background(), "hello")
	if result.Source != domain.SourceNone {
		t.Fatalf("expected none source, got %s", result.Source)
	}
	if result.Ticker != TickerSentinel {
		t.Fatalf("expected sentinel ticker, got %q", result.Ticker)
	}
	if !strings.Contains(result.Answer, "No recent articles found") {
		t.Fatalf("expected deterministic no-data answer, got %q", result.Answer)
	}
	if primary.calls != 0 || feed.calls != 0 {
		t.Fatalf("live sources must not be queried without a ticker")
	}
}

func TestAnswerRetrievalUnavailableContinues(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(orchestratorFixture{
		gen:      &fakeGenerator{replies: []string{"AAPL", "Summary despite store outage."}},
		searcher: &fakeSearcher{err: errors.New("connection refused")},
		primary:  &fakeNewsProvider{articles: []domain.Article{{Ticker: "AAPL", Title: "a"}}},
		feed:     &fakeFeedReader{},
	})

	result := o.Answer(context.Background(), "What's new about AAPL?")
	if result.Source != domain.SourceYahooAPI {
		t.Fatalf("store outage must not stop the live-fetch path, got source %s", result.Source)
	}
	if result.Answer != "Summary despite store outage." {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
}

func TestAnswerSourceAlwaysSet(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(orchestratorFixture{
		gen:      &fakeGenerator{err: errors.New("generator down")},
		searcher: &fakeSearcher{},
		primary:  &fakeNewsProvider{},
		feed:     &fakeFeedReader{},
	})

	result := o.Answer(context.Background(), "anything")
	if result.Source == domain.SourceUnknown || result.Source == "" {
		t.Fatalf("terminal state must carry a provenance tag, got %q", result.Source)
	}
	if result.Answer == "" {
		t.Fatalf("terminal state must carry an answer")
	}
}
