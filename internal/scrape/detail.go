package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/filberthamijoyo/CinematicAI/internal/browser"
)

// ErrPageLoadTimeout indicates the primary heading never appeared, so the
// page cannot be trusted to have rendered. It aborts the scrape for that
// URL only.
var ErrPageLoadTimeout = errors.New("page load timeout")

// DetailConfig bounds the waits inside a single detail scrape.
type DetailConfig struct {
	// HeadingTimeout bounds the wait for the title page's h1.
	HeadingTimeout time.Duration
	// ExpandTimeout bounds the wait for the "All Reviews" control.
	ExpandTimeout time.Duration
	// ReviewCap short-circuits review loading once this many containers
	// are present. Zero disables the cap.
	ReviewCap int
}

// DetailScraper turns one detail-page URL into the movie's reviews.
type DetailScraper struct {
	cfg    DetailConfig
	loader *Loader
	logger *zap.Logger
}

// NewDetailScraper builds a DetailScraper.
func NewDetailScraper(cfg DetailConfig, loader *Loader, logger *zap.Logger) *DetailScraper {
	if cfg.HeadingTimeout <= 0 {
		cfg.HeadingTimeout = 20 * time.Second
	}
	if cfg.ExpandTimeout <= 0 {
		cfg.ExpandTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = NewLoader(0, 0, 0, logger)
	}
	return &DetailScraper{
		cfg:    cfg,
		loader: loader,
		logger: logger,
	}
}

// Scrape acquires a fresh session for the URL and releases it on every exit
// path. Metadata fields degrade to sentinels individually; only a failed
// navigation or a missing heading aborts the whole URL.
func (d *DetailScraper) Scrape(ctx context.Context, factory browser.Factory, url string) ([]Review, error) {
	sess, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Close()
	return d.scrape(ctx, sess, url)
}

func (d *DetailScraper) scrape(ctx context.Context, sess *browser.Session, url string) ([]Review, error) {
	if err := sess.Navigate(ctx, url); err != nil {
		return nil, err
	}
	if err := sess.WaitVisible(ctx, "h1", d.cfg.HeadingTimeout); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPageLoadTimeout, url)
	}

	meta, err := d.pageMetadata(ctx, sess, url)
	if err != nil {
		return nil, err
	}

	reviewsURL := strings.TrimRight(url, "/") + "/reviews/"
	if err := sess.Navigate(ctx, reviewsURL); err != nil {
		return nil, err
	}

	// The expansion control is absent on short review lists; proceed
	// without it.
	if err := sess.Click(ctx, allReviewsSelector, d.cfg.ExpandTimeout); err != nil {
		d.logger.Debug("all-reviews control not clickable",
			zap.String("url", reviewsURL),
			zap.String("error", truncate(err.Error(), 60)))
	} else {
		d.loader.pause(ctx)
	}

	d.loader.LoadReviews(ctx, sess, ReviewContainerSelector, d.cfg.ReviewCap)
	d.expandSpoilers(ctx, sess)

	snapshot, err := sess.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot reviews %s: %w", reviewsURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return nil, fmt.Errorf("parse reviews %s: %w", reviewsURL, err)
	}

	reviews := ExtractReviews(doc, meta)
	d.logger.Debug("detail page scraped",
		zap.String("url", url),
		zap.Int("reviews", len(reviews)))
	return reviews, nil
}

func (d *DetailScraper) pageMetadata(ctx context.Context, sess *browser.Session, url string) (MovieMetadata, error) {
	snapshot, err := sess.HTML(ctx)
	if err != nil {
		return MovieMetadata{}, fmt.Errorf("snapshot %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return MovieMetadata{}, fmt.Errorf("parse %s: %w", url, err)
	}
	return ExtractMetadata(doc), nil
}

// expandSpoilers clicks every collapsed spoiler body so the text is present
// in the final snapshot. Absence of spoiler controls is not an error.
func (d *DetailScraper) expandSpoilers(ctx context.Context, sess *browser.Session) {
	n, err := sess.ClickAll(ctx, spoilerSelector)
	if err != nil {
		d.logger.Debug("spoiler expansion failed", zap.String("error", truncate(err.Error(), 60)))
		return
	}
	if n > 0 {
		// Give the collapsed bodies a beat to render.
		t := time.NewTimer(500 * time.Millisecond)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}
}
