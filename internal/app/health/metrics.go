package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fashion-etl/internal/metrics"
)

// MetricsHandler exposes the pipeline counters for Prometheus to scrape.
type MetricsHandler struct {
	h http.Handler
}

func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{h: m.Handler()}
}

func (h *MetricsHandler) RegisterRoute(r *chi.Mux) {
	r.Get("/metrics", h.Handle)
}

func (h *MetricsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.h.ServeHTTP(w, r)
}
