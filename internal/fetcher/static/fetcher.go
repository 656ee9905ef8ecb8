// Package static fetches pages over plain HTTP using Colly, without a
// browser. It powers the metadata-only mode: review lists need JavaScript,
// but the listing page and detail-page metadata render server-side.
package static

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/filberthamijoyo/CinematicAI/internal/scrape"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher wraps a base Colly collector; every fetch clones it so requests
// stay independent.
type Fetcher struct {
	cfg    Config
	base   *colly.Collector
	logger *zap.Logger
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// colly v2.1.0's Async option ignores its argument and always enables
	// async mode; synchronous is the default, so pass no option.
	c := colly.NewCollector()
	// The browser path never consults robots.txt; the static path matches.
	c.IgnoreRobotsTxt = true
	return &Fetcher{
		cfg:    cfg,
		base:   c,
		logger: logger,
	}
}

// Fetch executes a single HTTP GET and returns the response body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	collector := f.base.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("static fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("static fetch %s: %w", url, err)
		}
		if fetchErr != nil {
			return "", fmt.Errorf("static fetch %s: %w", url, fetchErr)
		}
	}
	return string(body), nil
}

// ScrapeMetadata fetches a detail page without JavaScript and emits a
// single metadata-only record; review fields carry sentinels.
func (f *Fetcher) ScrapeMetadata(ctx context.Context, url string) ([]scrape.Review, error) {
	html, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	meta := scrape.ExtractMetadata(doc)
	f.logger.Debug("metadata fetched", zap.String("url", url), zap.String("title", meta.Title))
	return []scrape.Review{{
		Movie:      meta,
		UserRating: scrape.Sentinel,
		Text:       "",
		Helpful:    "0/0",
	}}, nil
}
