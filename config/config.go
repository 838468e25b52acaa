package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env string

const (
	Dev        Env = "development"
	Test       Env = "test"
	Preview    Env = "preview"
	Production Env = "production"
)

type Config struct {
	AppName string
	ENV     Env
	AppPort int `validate:"gt=0,lte=65535"`

	// CORSOrigins are allowed to call the serve API from a browser.
	CORSOrigins []string

	LogLevel string `validate:"oneof=debug info warn warning error critical"`
	LogDir   string

	// PreviewRows > 0 prints that many clean rows to stdout after normalizing.
	PreviewRows int `validate:"gte=0"`

	Crawl     CrawlConfig
	Transform TransformConfig
	CSV       CSVConfig
	Sheets    SheetsConfig
	SQL       SQLConfig
	Redis     RedisConfig
}

type CrawlConfig struct {
	BaseURL     string        `validate:"required,url"`
	IndexPath   string        `validate:"required"`
	PagePattern string        `validate:"required,contains=%d"`
	StartPage   int           `validate:"gte=1"`
	PageDelay   time.Duration `validate:"gte=0"`
	Timeout     time.Duration `validate:"gt=0"`
	UserAgent   string        `validate:"required"`
}

type TransformConfig struct {
	ExchangeRate   float64 `validate:"gt=0"`
	CurrencySymbol string
}

type CSVConfig struct {
	Path string `validate:"required"`
}

// Sheets and SQL settings are checked by their sinks at write time so a
// missing credential only fails that sink.
type SheetsConfig struct {
	Enabled         bool
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
}

type SQLConfig struct {
	Enabled   bool
	URL       string
	AuthToken string
	Table     string `validate:"required"`
	DumpPath  string
}

// Redis backs the optional page cache (enabled only when Host is set).
type RedisConfig struct {
	User     string
	Password string
	Host     string
	Port     int `validate:"gt=0,lte=65535"`
	Scheme   string
	PageTTL  time.Duration
}

func NewViper() *viper.Viper {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "fashion-etl")
	v.SetDefault("APP_ENV", string(Dev))
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("PREVIEW_ROWS", 0)

	v.SetDefault("BASE_URL", "https://fashion-studio.dicoding.dev/")
	v.SetDefault("INDEX_PATH", "index.html")
	v.SetDefault("PAGE_PATTERN", "page%d.html")
	v.SetDefault("START_PAGE", 1)
	v.SetDefault("PAGE_DELAY", 2*time.Second)
	v.SetDefault("HTTP_TIMEOUT", 30*time.Second)
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36")

	v.SetDefault("EXCHANGE_RATE", 16000)
	v.SetDefault("CURRENCY_SYMBOL", "$")

	v.SetDefault("CSV_PATH", "fashion.csv")

	v.SetDefault("GSHEET_ENABLED", true)
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "google-sheets-api.json")
	v.SetDefault("SHEET_NAME", "Sheet1")

	v.SetDefault("SQL_ENABLED", true)
	v.SetDefault("SQL_TABLE", "fashion")

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")
	v.SetDefault("REDIS_PAGE_TTL", 10*time.Minute)

	return v
}

func NewConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName: v.GetString("APP_NAME"),
		ENV:     Env(strings.ToLower(v.GetString("APP_ENV"))),
		AppPort: v.GetInt("APP_PORT"),

		CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogDir:   v.GetString("LOG_DIR"),

		PreviewRows: v.GetInt("PREVIEW_ROWS"),

		Crawl: CrawlConfig{
			BaseURL:     v.GetString("BASE_URL"),
			IndexPath:   v.GetString("INDEX_PATH"),
			PagePattern: v.GetString("PAGE_PATTERN"),
			StartPage:   v.GetInt("START_PAGE"),
			PageDelay:   v.GetDuration("PAGE_DELAY"),
			Timeout:     v.GetDuration("HTTP_TIMEOUT"),
			UserAgent:   v.GetString("USER_AGENT"),
		},
		Transform: TransformConfig{
			ExchangeRate:   v.GetFloat64("EXCHANGE_RATE"),
			CurrencySymbol: v.GetString("CURRENCY_SYMBOL"),
		},
		CSV: CSVConfig{
			Path: v.GetString("CSV_PATH"),
		},
		Sheets: SheetsConfig{
			Enabled:         v.GetBool("GSHEET_ENABLED"),
			CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
			SpreadsheetID:   v.GetString("SPREADSHEET_ID"),
			SheetName:       v.GetString("SHEET_NAME"),
		},
		SQL: SQLConfig{
			Enabled:   v.GetBool("SQL_ENABLED"),
			URL:       v.GetString("DATABASE_URL"),
			AuthToken: v.GetString("SQL_AUTH_TOKEN"),
			Table:     v.GetString("SQL_TABLE"),
			DumpPath:  v.GetString("SQL_DUMP_PATH"),
		},
		Redis: RedisConfig{
			User:     v.GetString("REDIS_USER"),
			Password: v.GetString("REDIS_PASSWORD"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Scheme:   v.GetString("REDIS_SCHEME"),
			PageTTL:  v.GetDuration("REDIS_PAGE_TTL"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
