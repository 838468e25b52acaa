package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fashion-etl/config"
)

// NewHTTPServer serves the mux on APP_PORT. POST /v1/runs answers only once a
// whole crawl has finished, so the write timeout is sized for a run.
func NewHTTPServer(cfg *config.Config, mux *chi.Mux) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
}
