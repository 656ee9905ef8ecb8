package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filberthamijoyo/CinematicAI/internal/browser"
	"github.com/filberthamijoyo/CinematicAI/internal/config"
	"github.com/filberthamijoyo/CinematicAI/internal/fetcher/static"
	"github.com/filberthamijoyo/CinematicAI/internal/logging"
	"github.com/filberthamijoyo/CinematicAI/internal/metrics"
	"github.com/filberthamijoyo/CinematicAI/internal/ops"
	"github.com/filberthamijoyo/CinematicAI/internal/pool"
	"github.com/filberthamijoyo/CinematicAI/internal/scrape"
	"github.com/filberthamijoyo/CinematicAI/internal/sink"
)

// newScrapeCmd creates and configures the 'scrape' subcommand, which runs
// the full pipeline: listing load, link extraction, fan-out, CSV output.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrapes movie metadata and reviews into a CSV file",
		Long: `Loads the configured IMDB search listing, expands all results,
then scrapes every movie's detail and reviews pages with a bounded pool of
browser sessions, streaming one CSV row per review.`,

		RunE: runScrapeCommand,
	}
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.L
	metrics.Init()

	ctx := cmd.Context()

	if cfg.OpsAddr != "" {
		srv := ops.New(cfg.OpsAddr, logger)
		srv.Start()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Warn("ops shutdown failed", zap.Error(err))
			}
		}()
	}

	links, err := collectLinks(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("collect listing links: %w", err)
	}
	metrics.AddLinks(len(links))
	logger.Info("movies found", zap.Int("count", len(links)))

	out, err := sink.NewCSV(cfg.OutputPath, logger)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("close output failed", zap.Error(err))
		}
	}()

	p := pool.New(
		pool.Config{Workers: cfg.Workers, NavQPS: cfg.NavQPS},
		buildScrapeFunc(cfg, logger),
		out,
		logger,
	)
	sum := p.Run(ctx, links)

	logger.Info("scrape finished",
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Int("rows", sum.Rows),
		zap.String("output", cfg.OutputPath))
	return nil
}

// collectLinks loads the listing page and returns the detail-page URLs.
// With rendering enabled it drives a browser through the infinite scroll;
// otherwise it takes whatever the server-side HTML carries.
func collectLinks(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]string, error) {
	if !cfg.RenderEnabled {
		fetcher := static.New(static.Config{UserAgent: cfg.UserAgent, Timeout: cfg.NavTimeout}, logger)
		html, err := fetcher.Fetch(ctx, cfg.ListingURL)
		if err != nil {
			return nil, err
		}
		return scrape.ExtractLinks(html, cfg.BaseURL)
	}

	sess, err := browser.New(ctx, browser.Options{
		Headless:   cfg.Headless,
		UserAgent:  cfg.UserAgent,
		NavTimeout: cfg.NavTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("start listing session: %w", err)
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, cfg.ListingURL); err != nil {
		return nil, err
	}

	loader := scrape.NewLoader(cfg.ScrollRetries, cfg.ScrollWait, cfg.ScrollJitter, logger)
	loader.LoadAll(ctx, sess, scrape.TitleItemSelector, scrape.SeeMoreSelector)

	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return scrape.ExtractLinks(html, cfg.BaseURL)
}

// buildScrapeFunc picks the per-link scraper: full browser-driven review
// scraping, or the colly-backed metadata-only fast path.
func buildScrapeFunc(cfg config.Config, logger *zap.Logger) pool.ScrapeFunc {
	if !cfg.RenderEnabled {
		fetcher := static.New(static.Config{UserAgent: cfg.UserAgent, Timeout: cfg.NavTimeout}, logger)
		return fetcher.ScrapeMetadata
	}

	loader := scrape.NewLoader(cfg.ScrollRetries, cfg.ScrollWait, cfg.ScrollJitter, logger)
	detail := scrape.NewDetailScraper(scrape.DetailConfig{
		HeadingTimeout: cfg.HeadingTimeout,
		ExpandTimeout:  cfg.ExpandTimeout,
		ReviewCap:      cfg.ReviewCap,
	}, loader, logger)

	factory := func(ctx context.Context) (*browser.Session, error) {
		return browser.New(ctx, browser.Options{
			Headless:   cfg.Headless,
			UserAgent:  cfg.UserAgent,
			NavTimeout: cfg.NavTimeout,
		})
	}

	return func(ctx context.Context, url string) ([]scrape.Review, error) {
		return detail.Scrape(ctx, factory, url)
	}
}
