package sink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"fashion-etl/db"
	"fashion-etl/internal/record"
)

var ErrDumpNotPostgres = errors.New("pg_dump needs a postgres database url")

// Command runs an external program with extra environment variables.
type Command func(ctx context.Context, env []string, name string, args ...string) error

func execCommand(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// PGDump writes a plain SQL dump of the postgres database with pg_dump.
type PGDump struct {
	databaseURL string
	outPath     string
	run         Command
	logger      *zap.SugaredLogger
}

func NewPGDump(databaseURL, outPath string, logger *zap.SugaredLogger) *PGDump {
	return &PGDump{databaseURL: databaseURL, outPath: outPath, run: execCommand, logger: logger}
}

func (p *PGDump) Name() string { return "pg_dump" }

// Write ignores the table and dumps the database the SQL sink wrote to.
func (p *PGDump) Write(ctx context.Context, _ record.Table) error {
	return p.Dump(ctx)
}

func (p *PGDump) Dump(ctx context.Context) error {
	args, password, err := DumpArgs(p.databaseURL, p.outPath)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(p.outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	var env []string
	if password != "" {
		env = append(env, "PGPASSWORD="+password)
	}
	p.logger.Infow("pg_dump_start", "out", p.outPath, "args", args)
	if err := p.run(ctx, env, "pg_dump", args...); err != nil {
		return err
	}
	p.logger.Infow("pg_dump_done", "out", p.outPath)
	return nil
}

// DumpArgs builds the pg_dump argument list for a postgres URL. The password
// is returned separately so it never appears on the command line.
func DumpArgs(databaseURL, outPath string) ([]string, string, error) {
	dialect, dsn, err := db.ResolveURL(databaseURL, "")
	if err != nil {
		return nil, "", err
	}
	if dialect != db.Postgres {
		return nil, "", fmt.Errorf("%w: got %s", ErrDumpNotPostgres, dialect.Name)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return nil, "", fmt.Errorf("parse database url: %w", err)
	}

	dbname := strings.TrimPrefix(u.Path, "/")
	if dbname == "" {
		return nil, "", fmt.Errorf("%w: missing database name", ErrDumpNotPostgres)
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	abs, err := filepath.Abs(outPath)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", outPath, err)
	}

	args := []string{"-h", u.Hostname(), "-p", port}
	if user := u.User.Username(); user != "" {
		args = append(args, "-U", user)
	}
	args = append(args, "-F", "p", "-f", abs, dbname)

	password, _ := u.User.Password()
	return args, password, nil
}
