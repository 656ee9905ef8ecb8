package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	require.Equal(t, DefaultListingURL, cfg.ListingURL)
	require.Equal(t, "https://www.imdb.com", cfg.BaseURL)
	require.True(t, cfg.Headless)
	require.True(t, cfg.RenderEnabled)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, 45*time.Second, cfg.NavTimeout)
	require.Equal(t, 20*time.Second, cfg.HeadingTimeout)
	require.Equal(t, 15*time.Second, cfg.ExpandTimeout)
	require.Equal(t, 5, cfg.ScrollRetries)
	require.Equal(t, 2*time.Second, cfg.ScrollWait)
	require.Equal(t, time.Second, cfg.ScrollJitter)
	require.Equal(t, 25, cfg.ReviewCap)
	require.Equal(t, "reviews.csv", cfg.OutputPath)
	require.NotEmpty(t, cfg.UserAgent)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	v := newViper(t)
	v.Set("scraper.workers", 8)
	v.Set("scraper.headless", false)
	v.Set("scraper.output_path", "/tmp/out.csv")

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Workers)
	require.False(t, cfg.Headless)
	require.Equal(t, "/tmp/out.csv", cfg.OutputPath)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "empty listing url", key: "scraper.listing_url", value: ""},
		{name: "empty user agent", key: "scraper.user_agent", value: ""},
		{name: "zero workers", key: "scraper.workers", value: 0},
		{name: "negative workers", key: "scraper.workers", value: -1},
		{name: "zero nav timeout", key: "scraper.nav_timeout", value: "0s"},
		{name: "zero scroll retries", key: "scraper.scroll_retries", value: 0},
		{name: "negative qps", key: "scraper.nav_qps", value: -1.0},
		{name: "empty output path", key: "scraper.output_path", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			require.Error(t, err)
		})
	}
}
