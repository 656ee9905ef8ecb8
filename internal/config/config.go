// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultListingURL is the search query the scraper walks when no override
// is configured: releases since 1995, rating >= 6, at least 50k votes.
const DefaultListingURL = "https://www.imdb.com/search/title/?release_date=1995-01-01,&user_rating=6,10&num_votes=50000,"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config captures every configuration knob that influences a scrape run.
// All values originate from Viper so the scraper can be configured via
// files, env vars, or CLI flags.
type Config struct {
	ListingURL     string
	BaseURL        string
	UserAgent      string
	Headless       bool
	RenderEnabled  bool
	Workers        int
	NavTimeout     time.Duration
	HeadingTimeout time.Duration
	ExpandTimeout  time.Duration
	ScrollRetries  int
	ScrollWait     time.Duration
	ScrollJitter   time.Duration
	ReviewCap      int
	NavQPS         float64
	OutputPath     string
	OpsAddr        string
	Development    bool
}

// Init registers defaults, config file search paths, and env bindings on
// the global Viper. Designed to be called once from cobra.OnInitialize.
func Init(cfgFile string) {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.imdbscraper")
	}

	SetDefaults(v)

	v.SetEnvPrefix("IMDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config files are fine; defaults and env vars carry the run.
	_ = v.ReadInConfig()
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scraper.listing_url", DefaultListingURL)
	v.SetDefault("scraper.base_url", "https://www.imdb.com")
	v.SetDefault("scraper.user_agent", defaultUserAgent)
	v.SetDefault("scraper.headless", true)
	v.SetDefault("scraper.render_enabled", true)
	v.SetDefault("scraper.workers", 3)
	v.SetDefault("scraper.nav_timeout", "45s")
	v.SetDefault("scraper.heading_timeout", "20s")
	v.SetDefault("scraper.expand_timeout", "15s")
	v.SetDefault("scraper.scroll_retries", 5)
	v.SetDefault("scraper.scroll_wait", "2s")
	v.SetDefault("scraper.scroll_jitter", "1s")
	v.SetDefault("scraper.review_cap", 25)
	v.SetDefault("scraper.nav_qps", 0.0)
	v.SetDefault("scraper.output_path", "reviews.csv")
	v.SetDefault("ops.addr", "")
	v.SetDefault("logging.development", true)
}

// Load constructs a Config by reading from Viper.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		ListingURL:     v.GetString("scraper.listing_url"),
		BaseURL:        v.GetString("scraper.base_url"),
		UserAgent:      v.GetString("scraper.user_agent"),
		Headless:       v.GetBool("scraper.headless"),
		RenderEnabled:  v.GetBool("scraper.render_enabled"),
		Workers:        v.GetInt("scraper.workers"),
		NavTimeout:     v.GetDuration("scraper.nav_timeout"),
		HeadingTimeout: v.GetDuration("scraper.heading_timeout"),
		ExpandTimeout:  v.GetDuration("scraper.expand_timeout"),
		ScrollRetries:  v.GetInt("scraper.scroll_retries"),
		ScrollWait:     v.GetDuration("scraper.scroll_wait"),
		ScrollJitter:   v.GetDuration("scraper.scroll_jitter"),
		ReviewCap:      v.GetInt("scraper.review_cap"),
		NavQPS:         v.GetFloat64("scraper.nav_qps"),
		OutputPath:     v.GetString("scraper.output_path"),
		OpsAddr:        v.GetString("ops.addr"),
		Development:    v.GetBool("logging.development"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.ListingURL == "" {
		return fmt.Errorf("scraper.listing_url must be set")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("scraper.base_url must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("scraper.user_agent must be set")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("scraper.workers must be > 0")
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("scraper.nav_timeout must be > 0")
	}
	if c.HeadingTimeout <= 0 {
		return fmt.Errorf("scraper.heading_timeout must be > 0")
	}
	if c.ExpandTimeout <= 0 {
		return fmt.Errorf("scraper.expand_timeout must be > 0")
	}
	if c.ScrollRetries <= 0 {
		return fmt.Errorf("scraper.scroll_retries must be > 0")
	}
	if c.ScrollWait <= 0 {
		return fmt.Errorf("scraper.scroll_wait must be > 0")
	}
	if c.ScrollJitter < 0 {
		return fmt.Errorf("scraper.scroll_jitter must be >= 0")
	}
	if c.ReviewCap < 0 {
		return fmt.Errorf("scraper.review_cap must be >= 0")
	}
	if c.NavQPS < 0 {
		return fmt.Errorf("scraper.nav_qps must be >= 0")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("scraper.output_path must be set")
	}
	return nil
}
