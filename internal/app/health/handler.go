package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fashion-etl/config"
	"fashion-etl/internal/pkg/render"
)

type Handler struct {
	app string
	env config.Env
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{app: cfg.AppName, env: cfg.ENV}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/health", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	render.ChiJSON(w, r, http.StatusOK, map[string]any{
		"ok":  true,
		"app": h.app,
		"env": h.env,
	})
}
