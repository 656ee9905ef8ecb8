// Package metrics exposes Prometheus collectors for the scraper.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesTotal            *prometheus.CounterVec
	reviewsTotal          prometheus.Counter
	linksTotal            prometheus.Counter
	scrapeDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		pagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pages_total",
				Help: "Total number of detail pages processed, labeled by outcome.",
			},
			[]string{"status"},
		)

		reviewsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_reviews_total",
				Help: "Total number of reviews extracted.",
			},
		)

		linksTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_links_total",
				Help: "Total number of detail-page links collected from listings.",
			},
		)

		scrapeDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_detail_duration_seconds",
				Help:    "Wall-clock duration of one detail-page scrape.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		)
	})
}

// ObservePage counts one processed detail page by outcome ("ok"/"error").
func ObservePage(status string) {
	if pagesTotal != nil {
		pagesTotal.WithLabelValues(status).Inc()
	}
}

// AddReviews counts extracted reviews.
func AddReviews(n int) {
	if reviewsTotal != nil && n > 0 {
		reviewsTotal.Add(float64(n))
	}
}

// AddLinks counts collected listing links.
func AddLinks(n int) {
	if linksTotal != nil && n > 0 {
		linksTotal.Add(float64(n))
	}
}

// ObserveScrapeDuration records one detail scrape's duration.
func ObserveScrapeDuration(d time.Duration) {
	if scrapeDurationSeconds != nil {
		scrapeDurationSeconds.Observe(d.Seconds())
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
