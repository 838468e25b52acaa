package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	v := NewViper()

	cfg, err := NewConfig(v)
	require.NoError(t, err)

	require.Equal(t, "https://fashion-studio.dicoding.dev/", cfg.Crawl.BaseURL)
	require.Equal(t, "index.html", cfg.Crawl.IndexPath)
	require.Equal(t, "page%d.html", cfg.Crawl.PagePattern)
	require.Equal(t, 1, cfg.Crawl.StartPage)
	require.Equal(t, 2*time.Second, cfg.Crawl.PageDelay)
	require.Equal(t, float64(16000), cfg.Transform.ExchangeRate)
	require.Equal(t, "$", cfg.Transform.CurrencySymbol)
	require.Equal(t, "fashion", cfg.SQL.Table)
	require.Equal(t, "Sheet1", cfg.Sheets.SheetName)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EXCHANGE_RATE", "15500.5")
	t.Setenv("PAGE_DELAY", "250ms")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := NewConfig(NewViper())
	require.NoError(t, err)
	require.Equal(t, 15500.5, cfg.Transform.ExchangeRate)
	require.Equal(t, 250*time.Millisecond, cfg.Crawl.PageDelay)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestNewConfig_RejectsNonPositiveRate(t *testing.T) {
	v := NewViper()
	v.Set("EXCHANGE_RATE", 0)

	_, err := NewConfig(v)
	require.Error(t, err)
}

func TestNewConfig_RejectsBadLogLevel(t *testing.T) {
	v := NewViper()
	v.Set("LOG_LEVEL", "loud")

	_, err := NewConfig(v)
	require.Error(t, err)
}

func TestNewConfig_RejectsPagePatternWithoutVerb(t *testing.T) {
	v := NewViper()
	v.Set("PAGE_PATTERN", "page.html")

	_, err := NewConfig(v)
	require.Error(t, err)
}

func TestNewConfig_CORSOriginsAndPreview(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")
	t.Setenv("PREVIEW_ROWS", "5")

	cfg, err := NewConfig(NewViper())
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 5, cfg.PreviewRows)
}
