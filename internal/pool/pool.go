// Package pool fans detail scrapes out over a fixed-size worker pool.
package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/filberthamijoyo/CinematicAI/internal/metrics"
	"github.com/filberthamijoyo/CinematicAI/internal/scrape"
)

// ScrapeFunc turns one detail-page URL into its reviews.
type ScrapeFunc func(ctx context.Context, url string) ([]scrape.Review, error)

// Writer consumes completed reviews. The pool serializes all calls to it;
// implementations need no locking of their own.
type Writer interface {
	WriteReview(scrape.Review) error
}

// Config bounds the fan-out.
type Config struct {
	// Workers is the number of concurrent sessions. Kept small to limit
	// detectable automated load.
	Workers int
	// NavQPS throttles scrape starts across all workers. Zero disables it.
	NavQPS float64
}

// Summary reports what a run produced.
type Summary struct {
	Succeeded int
	Failed    int
	Rows      int
}

// Pool runs a ScrapeFunc over a link list with bounded concurrency. Each
// worker runs one link to completion before picking up the next; results
// are drained by a single consumer which is the only writer.
type Pool struct {
	cfg     Config
	scrape  ScrapeFunc
	writer  Writer
	limiter *rate.Limiter
	logger  *zap.Logger
}

type result struct {
	url     string
	reviews []scrape.Review
	err     error
}

// New builds a Pool.
func New(cfg Config, fn ScrapeFunc, w Writer, logger *zap.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if cfg.NavQPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.NavQPS), 1)
	}
	return &Pool{
		cfg:     cfg,
		scrape:  fn,
		writer:  w,
		limiter: limiter,
		logger:  logger,
	}
}

// Run blocks until every link has been processed or the context ends.
// A failing link is logged with a truncated message and skipped; it never
// aborts the batch. Rows stream to the writer as results complete, not in
// submission order.
func (p *Pool) Run(ctx context.Context, links []string) Summary {
	logger := p.logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("fan-out started",
		zap.Int("links", len(links)),
		zap.Int("workers", p.cfg.Workers))

	urls := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range urls {
				results <- p.process(ctx, u)
			}
		}()
	}

	go func() {
		defer close(urls)
		for _, u := range links {
			select {
			case urls <- u:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var sum Summary
	for res := range results {
		if res.err != nil {
			sum.Failed++
			metrics.ObservePage("error")
			logger.Error("scrape failed",
				zap.String("url", res.url),
				zap.String("error", truncate(res.err.Error(), 80)))
			continue
		}
		sum.Succeeded++
		metrics.ObservePage("ok")
		metrics.AddReviews(len(res.reviews))
		for _, r := range res.reviews {
			if err := p.writer.WriteReview(r); err != nil {
				logger.Error("write row failed",
					zap.String("url", res.url),
					zap.Error(err))
				break
			}
			sum.Rows++
		}
		logger.Info("link processed",
			zap.String("url", res.url),
			zap.Int("reviews", len(res.reviews)))
	}

	logger.Info("fan-out finished",
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Int("rows", sum.Rows))
	return sum
}

func (p *Pool) process(ctx context.Context, url string) result {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return result{url: url, err: fmt.Errorf("politeness wait: %w", err)}
		}
	}
	start := time.Now()
	reviews, err := p.scrape(ctx, url)
	metrics.ObserveScrapeDuration(time.Since(start))
	return result{url: url, reviews: reviews, err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
