package logs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fashion-etl/config"
)

// NewLogger logs to stderr and, when LogDir is set, to a daily etl_YYYYMMDD.log file.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(levelFromString(cfg.LogLevel))
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	if dir := strings.TrimSpace(cfg.LogDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		zcfg.OutputPaths = append(zcfg.OutputPaths, dailyLogFile(dir, time.Now()))
	}

	return zcfg.Build()
}

func NewSugaredLogger(l *zap.Logger) *zap.SugaredLogger {
	return l.Sugar()
}

func RegisterLifecycle(lc fx.Lifecycle, l *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
}

func dailyLogFile(dir string, now time.Time) string {
	return filepath.Join(dir, "etl_"+now.Format("20060102")+".log")
}

func levelFromString(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error", "critical":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
