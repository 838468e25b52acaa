// Package normalizer turns the scraped records into the clean product table by
// running a fixed sequence of named stages over it.
package normalizer

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"fashion-etl/config"
	"fashion-etl/internal/metrics"
	"fashion-etl/internal/record"
)

var rawValidator = validator.New()

// NewTable builds the working table from raw records. A record that breaks the
// RawRecord contract fails the whole build.
func NewTable(raws []record.RawRecord) (record.Table, error) {
	rows := make([]record.Row, 0, len(raws))
	for i, raw := range raws {
		if err := rawValidator.Struct(raw); err != nil {
			return record.Table{}, fmt.Errorf("raw record %d: %w", i, err)
		}
		rows = append(rows, record.RowFromRaw(raw))
	}
	return record.NewTable(rows), nil
}

// Result is the outcome of a normalization run. When Partial is set, Table is
// the table as it stood before FailedStage and Err says why that stage failed.
type Result struct {
	Table       record.Table
	Partial     bool
	FailedStage string
	Err         error
}

type Normalizer struct {
	stages  []Stage
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

func New(stages []Stage, logger *zap.SugaredLogger, m *metrics.Metrics) *Normalizer {
	return &Normalizer{stages: stages, logger: logger, metrics: m}
}

func NewFromConfig(cfg *config.Config, logger *zap.SugaredLogger, m *metrics.Metrics) *Normalizer {
	return New(Stages(cfg.Transform.ExchangeRate, cfg.Transform.CurrencySymbol), logger, m)
}

// WithLogger returns a copy of n that logs through logger.
func (n *Normalizer) WithLogger(logger *zap.SugaredLogger) *Normalizer {
	cp := *n
	cp.logger = logger
	return &cp
}

func (n *Normalizer) Normalize(ctx context.Context, table record.Table) Result {
	current := table
	for _, stage := range n.stages {
		if err := ctx.Err(); err != nil {
			return n.partial(current, stage.Name, err)
		}

		next, err := runStage(stage, current)
		if err != nil {
			return n.partial(current, stage.Name, err)
		}

		if dropped := current.Len() - next.Len(); dropped > 0 {
			n.metrics.RowsDropped.WithLabelValues(stage.Name).Add(float64(dropped))
			n.logger.Debugw("normalize_stage_dropped",
				"stage", stage.Name,
				"dropped", dropped,
				"remaining", next.Len(),
			)
		}
		current = next
	}

	n.logger.Infow("normalize_finished", "rows_in", table.Len(), "rows_out", current.Len())
	return Result{Table: current}
}

func (n *Normalizer) partial(t record.Table, stage string, err error) Result {
	n.logger.Errorw("normalize_stage_failed",
		"stage", stage,
		"rows", t.Len(),
		"err", err,
	)
	return Result{Table: t, Partial: true, FailedStage: stage, Err: err}
}

func runStage(stage Stage, t record.Table) (out record.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s panicked: %v", stage.Name, r)
		}
	}()
	return stage.Apply(t)
}
