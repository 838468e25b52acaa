// Package pipeline runs one extract, normalize and load pass.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fashion-etl/internal/collector"
	"fashion-etl/internal/metrics"
	"fashion-etl/internal/normalizer"
	"fashion-etl/internal/sink"
)

var ErrNoRecords = errors.New("collector returned no records")

type SinkResult struct {
	Sink  string `json:"sink"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type Summary struct {
	RunID       string       `json:"run_id"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	RawCount    int          `json:"raw_count"`
	CleanRows   int          `json:"clean_rows"`
	Columns     []string     `json:"columns"`
	Partial     bool         `json:"partial"`
	FailedStage string       `json:"failed_stage,omitempty"`
	SinkResults []SinkResult `json:"sink_results"`
}

// Failed returns the results of the sinks that returned an error.
func (s Summary) Failed() []SinkResult {
	var out []SinkResult
	for _, r := range s.SinkResults {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}

type Pipeline struct {
	collector  *collector.Collector
	normalizer *normalizer.Normalizer
	sinks      []sink.Sink
	logger     *zap.SugaredLogger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func New(
	c *collector.Collector,
	n *normalizer.Normalizer,
	sinks []sink.Sink,
	logger *zap.SugaredLogger,
	m *metrics.Metrics,
) *Pipeline {
	return &Pipeline{
		collector:  c,
		normalizer: n,
		sinks:      sinks,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// Run crawls, normalizes and writes to every sink in order. Sink failures are
// recorded in the summary and never stop later sinks; only a failed crawl, an
// empty crawl or an invalid raw record fails the run.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	sum := Summary{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
	}
	log := p.logger.With("run_id", sum.RunID)
	log.Infow("run_start")

	raws, err := p.collector.WithLogger(log).Crawl(ctx)
	sum.RawCount = len(raws)
	if err != nil {
		return p.fail(log, sum, fmt.Errorf("crawl: %w", err))
	}
	if len(raws) == 0 {
		p.metrics.Runs.WithLabelValues("empty").Inc()
		sum.FinishedAt = p.now()
		log.Errorw("run_no_records")
		return sum, ErrNoRecords
	}

	table, err := normalizer.NewTable(raws)
	if err != nil {
		return p.fail(log, sum, fmt.Errorf("build table: %w", err))
	}

	res := p.normalizer.WithLogger(log).Normalize(ctx, table)
	sum.Partial = res.Partial
	sum.FailedStage = res.FailedStage
	sum.CleanRows = res.Table.Len()
	sum.Columns = res.Table.Header()
	if res.Partial {
		log.Warnw("run_partial_table",
			"failed_stage", res.FailedStage,
			"rows", res.Table.Len(),
			"err", res.Err,
		)
	}

	for _, s := range p.sinks {
		r := SinkResult{Sink: s.Name(), OK: true}
		if err := s.Write(ctx, res.Table); err != nil {
			r.OK = false
			r.Error = err.Error()
			p.metrics.SinkWrites.WithLabelValues(s.Name(), "error").Inc()
			log.Warnw("sink_write_failed", "sink", s.Name(), "err", err)
		} else {
			p.metrics.SinkWrites.WithLabelValues(s.Name(), "ok").Inc()
			log.Infow("sink_write_done", "sink", s.Name(), "rows", res.Table.Len())
		}
		sum.SinkResults = append(sum.SinkResults, r)
	}

	status := "ok"
	if res.Partial {
		status = "partial"
	}
	p.metrics.Runs.WithLabelValues(status).Inc()
	sum.FinishedAt = p.now()
	log.Infow("run_finished",
		"status", status,
		"raw", sum.RawCount,
		"clean", sum.CleanRows,
		"sink_failures", len(sum.Failed()),
		"took", sum.FinishedAt.Sub(sum.StartedAt),
	)
	return sum, nil
}

func (p *Pipeline) fail(log *zap.SugaredLogger, sum Summary, err error) (Summary, error) {
	p.metrics.Runs.WithLabelValues("failed").Inc()
	sum.FinishedAt = p.now()
	log.Errorw("run_failed", "err", err)
	return sum, err
}
