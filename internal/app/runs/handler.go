// Package runs exposes the ETL pipeline over HTTP.
package runs

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fashion-etl/internal/pipeline"
	"fashion-etl/internal/pkg/render"
)

var ErrRunInProgress = errors.New("an etl run is already in progress")

type Runner interface {
	Run(ctx context.Context) (pipeline.Summary, error)
}

type runResponse struct {
	Summary pipeline.Summary `json:"summary"`
	Error   string           `json:"error,omitempty"`
}

// Handler runs one pipeline pass per POST. A request that arrives while a
// run is in flight is refused rather than queued.
type Handler struct {
	runner Runner
	logger *zap.SugaredLogger
	mu     sync.Mutex
}

func NewHandler(runner *pipeline.Pipeline, logger *zap.SugaredLogger) *Handler {
	return newHandler(runner, logger)
}

func newHandler(runner Runner, logger *zap.SugaredLogger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/runs", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.mu.TryLock() {
		render.ChiErr(w, r, http.StatusConflict, ErrRunInProgress)
		return
	}
	defer h.mu.Unlock()

	sum, err := h.runner.Run(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrNoRecords) {
			status = http.StatusBadGateway
		}
		h.logger.Warnw("http_run_failed", "run_id", sum.RunID, "err", err)
		render.ChiJSON(w, r, status, runResponse{Summary: sum, Error: err.Error()})
		return
	}

	render.ChiJSON(w, r, http.StatusOK, runResponse{Summary: sum})
}
