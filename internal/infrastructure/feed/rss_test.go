package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockAssistant/internal/config"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>AAPL Headlines</title>
    <item>
      <title>Apple unveils new chip</title>
      <link>https://example.org/chip</link>
      <description>A short excerpt about the chip.</description>
      <pubDate>Mon, 25 Aug 2025 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Apple supplier update</title>
      <link>https://example.org/supplier</link>
      <description>Supply chain excerpt.</description>
    </item>
    <item>
      <title></title>
      <link>https://example.org/untitled</link>
    </item>
  </channel>
</rss>`

type fakeScraper struct {
	body  string
	calls int
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) string {
	f.calls++
	return f.body
}

func newTestReader(t *testing.T, handler http.HandlerFunc, scraper *fakeScraper) *Reader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.RSSConfig{
		URLTemplate:  server.URL + "/rss?s=%s&region=%s&lang=%s",
		Region:       "US",
		Language:     "en-US",
		ArticleCount: 5,
	}
	return NewReader(server.Client(), cfg, scraper, nil)
}

func TestFetchParsesEntries(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{body: "Full scraped article body."}
	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "AAPL" {
			t.Errorf("expected s=AAPL, got %q", got)
		}
		fmt.Fprint(w, feedXML)
	}, scraper)

	articles, err := reader.Fetch(context.Background(), "aapl", 5)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (untitled dropped), got %d", len(articles))
	}
	if articles[0].Title != "Apple unveils new chip" {
		t.Fatalf("unexpected title: %q", articles[0].Title)
	}
	if articles[0].Ticker != "AAPL" {
		t.Fatalf("unexpected ticker: %q", articles[0].Ticker)
	}
	if articles[0].Summary != "A short excerpt about the chip." {
		t.Fatalf("unexpected summary: %q", articles[0].Summary)
	}
	if articles[0].FullText != "Full scraped article body." {
		t.Fatalf("unexpected full text: %q", articles[0].FullText)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Fatalf("expected publish time parsed")
	}
}

func TestFetchScrapeFailureFallsBackToSummary(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{body: ""}
	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}, scraper)

	articles, err := reader.Fetch(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if articles[0].FullText != articles[0].Summary {
		t.Fatalf("empty scrape must fall back to the feed summary, got %q", articles[0].FullText)
	}
	if scraper.calls == 0 {
		t.Fatalf("expected scraper to be attempted")
	}
}

func TestFetchRespectsLimit(t *testing.T) {
	t.Parallel()

	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}, &fakeScraper{})

	articles, err := reader.Fetch(context.Background(), "AAPL", 1)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected limit applied, got %d articles", len(articles))
	}
}

func TestFetchBadFeed(t *testing.T) {
	t.Parallel()

	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, &fakeScraper{})

	if _, err := reader.Fetch(context.Background(), "AAPL", 5); err == nil {
		t.Fatalf("expected error for unreachable feed")
	}
}

func TestFetchKeepsRawMultiTickerString(t *testing.T) {
	t.Parallel()

	var seen string
	reader := newTestReader(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query().Get("s")
		fmt.Fprint(w, feedXML)
	}, &fakeScraper{})

	if _, err := reader.Fetch(context.Background(), "aapl,tsla", 5); err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if seen != "AAPL,TSLA" {
		t.Fatalf("multi-ticker string must pass through unsplit, got %q", seen)
	}
}
