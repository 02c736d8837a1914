package usecase

import (
	"context"
	"errors"

	"StockAssistant/internal/domain"
	"StockAssistant/internal/ports"
)

// fakeGenerator replays scripted replies in order; the last reply repeats.
type fakeGenerator struct {
	replies []string
	err     error
	calls   int
	prompts []string
	opts    []ports.GenerateOptions
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	idx := f.calls - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	return f.replies[idx], nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeSearcher struct {
	docs  []domain.Document
	err   error
	limit int
}

func (f *fakeSearcher) Search(ctx context.Context, vector []float32, limit int) ([]domain.Document, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeNewsProvider struct {
	articles []domain.Article
	err      error
	calls    int
	tickers  string
}

func (f *fakeNewsProvider) Fetch(ctx context.Context, tickers string, limit int) ([]domain.Article, error) {
	f.calls++
	f.tickers = tickers
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type fakeFeedReader struct {
	articles []domain.Article
	err      error
	calls    int
	ticker   string
}

func (f *fakeFeedReader) Fetch(ctx context.Context, ticker string, limit int) ([]domain.Article, error) {
	f.calls++
	f.ticker = ticker
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}
