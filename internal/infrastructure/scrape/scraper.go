package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"StockAssistant/internal/config"
	"StockAssistant/internal/ports"
)

// ArticleScraper extracts a best-effort article body from a URL. Every
// failure degrades to an empty string; callers substitute whatever summary
// snippet they already have.
type ArticleScraper struct {
	client        *http.Client
	userAgent     string
	maxParagraphs int
	minBodyLength int
	logger        *slog.Logger
}

var _ ports.PageScraper = (*ArticleScraper)(nil)

// NewArticleScraper wires an HTTP client bounded by the configured timeout.
func NewArticleScraper(client *http.Client, cfg config.ScrapeConfig, logger *slog.Logger) *ArticleScraper {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ArticleScraper{
		client:        client,
		userAgent:     cfg.UserAgent,
		maxParagraphs: cfg.MaxParagraphs,
		minBodyLength: cfg.MinBodyLength,
		logger:        logger,
	}
}

// Scrape fetches the page and concatenates paragraph text, preferring
// paragraphs inside an <article> container. Bodies shorter than the
// configured floor fall back to the page's meta description.
func (s *ArticleScraper) Scrape(ctx context.Context, pageURL string) string {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		s.debug("scrape failed", "url", pageURL, "error", err)
		return ""
	}

	paragraphs := doc.Find("article p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	var parts []string
	paragraphs.EachWithBreak(func(i int, p *goquery.Selection) bool {
		if i >= s.maxParagraphs {
			return false
		}
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
		return true
	})

	text := strings.Join(parts, " ")
	if len(text) < s.minBodyLength {
		if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
			text = desc
		}
	}

	return strings.TrimSpace(text)
}

func (s *ArticleScraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (s *ArticleScraper) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
