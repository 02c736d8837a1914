package domain

import "time"

// Source records which data path produced the final answer.
type Source string

const (
	SourceRAG      Source = "rag"
	SourceRAGEmpty Source = "rag_empty"
	SourceYahooAPI Source = "yahoo_api"
	SourceRSSFeed  Source = "rss_feed"
	SourceNone     Source = "none"
	SourceUnknown  Source = "unknown"
)

// Document is a vector-store match with its similarity score in [0,1].
type Document struct {
	Title    string
	Ticker   string
	FullText string
	Score    float64
}

// Article is a news item acquired from a live source. Summary is a short
// excerpt; FullText is the best-effort scraped body and may fall back to
// the summary when scraping yields nothing.
type Article struct {
	Ticker      string
	Title       string
	Link        string
	Summary     string
	FullText    string
	PublishedAt time.Time
}

// PipelineState is created fresh per query, threaded through exactly one
// pipeline pass, and discarded once the answer is delivered.
//
// RetrievedDocs uses nil to signal "retrieval path exhausted" — distinct
// from an empty slice, which never occurs: the retriever either returns a
// nonempty, score-ordered list or nothing at all.
type PipelineState struct {
	Query           string
	RetrievedDocs   []Document
	Ticker          string
	FetchedArticles []Article
	Source          Source
	Answer          string
}
