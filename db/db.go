package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fashion-etl/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var ErrUnsupportedDatabaseURL = errors.New("unsupported database url")

// Dialect carries what differs between the supported backends: the
// database/sql driver, the goose dialect and the column types.
type Dialect struct {
	Name        string
	Driver      string
	GooseName   string
	TextType    string
	RealType    string
	IntegerType string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Driver:      "pgx",
		GooseName:   "postgres",
		TextType:    "TEXT",
		RealType:    "DOUBLE PRECISION",
		IntegerType: "BIGINT",
	}
	SQLite = Dialect{
		Name:        "sqlite",
		Driver:      "sqlite",
		GooseName:   "sqlite3",
		TextType:    "TEXT",
		RealType:    "REAL",
		IntegerType: "INTEGER",
	}
	LibSQL = Dialect{
		Name:        "libsql",
		Driver:      "libsql",
		GooseName:   "turso",
		TextType:    "TEXT",
		RealType:    "REAL",
		IntegerType: "INTEGER",
	}
)

// ResolveURL picks the dialect for a database URL and rewrites the URL into
// the DSN its driver expects.
//
//	postgres://, postgresql://, postgresql+psycopg2:// -> pgx
//	libsql://                                         -> libsql (authToken appended)
//	sqlite:///rel.db, sqlite:////abs.db, file:x.db     -> modernc sqlite
func ResolveURL(raw, authToken string) (Dialect, string, error) {
	raw = strings.TrimSpace(raw)
	scheme, rest, ok := strings.Cut(raw, ":")
	if !ok || raw == "" {
		return Dialect{}, "", fmt.Errorf("%w: %q", ErrUnsupportedDatabaseURL, raw)
	}

	scheme = strings.ToLower(scheme)
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}

	switch scheme {
	case "postgres", "postgresql":
		return Postgres, "postgres:" + rest, nil
	case "libsql":
		return LibSQL, ensureAuthTokenQuery(raw, authToken), nil
	case "sqlite":
		path := strings.TrimPrefix(rest, "//")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return Dialect{}, "", fmt.Errorf("%w: %q has no path", ErrUnsupportedDatabaseURL, raw)
		}
		return SQLite, path, nil
	case "file":
		return SQLite, raw, nil
	default:
		return Dialect{}, "", fmt.Errorf("%w: scheme %q", ErrUnsupportedDatabaseURL, scheme)
	}
}

// Open resolves rawURL and opens (without connecting) the matching database.
func Open(rawURL, authToken string) (*sqlx.DB, Dialect, error) {
	dialect, dsn, err := ResolveURL(rawURL, authToken)
	if err != nil {
		return nil, Dialect{}, err
	}
	db, err := sqlx.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("open %s: %w", dialect.Name, err)
	}
	if dialect == SQLite {
		// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, dialect, nil
}

// Database is the configured SQL target. DB is nil when the SQL sink is
// disabled or no DATABASE_URL is set; Err then explains why.
type Database struct {
	DB      *sqlx.DB
	Dialect Dialect
	Err     error
}

var ErrDatabaseDisabled = errors.New("sql disabled: set DATABASE_URL")

// NewDatabase opens the configured database. An unusable URL is reported
// through Database.Err rather than failing app start, so the other sinks
// still run.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) *Database {
	if !cfg.SQL.Enabled || strings.TrimSpace(cfg.SQL.URL) == "" {
		log.Infow("sql_disabled", "enabled", cfg.SQL.Enabled)
		return &Database{Err: ErrDatabaseDisabled}
	}

	db, dialect, err := Open(cfg.SQL.URL, cfg.SQL.AuthToken)
	if err != nil {
		log.Warnw("sql_open_failed", "err", err)
		return &Database{Err: err}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				log.Warnw("sql_ping_failed", "dialect", dialect.Name, "err", err)
				return nil
			}
			log.Infow("sql_connected", dsnLogFields(cfg.SQL.URL, dialect)...)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				log.Warnw("sql_close_failed", "err", err)
			}
			return nil
		},
	})

	return &Database{DB: db, Dialect: dialect}
}

func ensureAuthTokenQuery(dsn, token string) string {
	if token == "" {
		return dsn
	}

	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return dsn
	}

	q := u.Query()
	if q.Get("authToken") != "" {
		return dsn
	}

	q.Set("authToken", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func dsnLogFields(raw string, d Dialect) []any {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return []any{"dialect", d.Name}
	}
	return []any{"dialect", d.Name, "host", u.Host}
}
