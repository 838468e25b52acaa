package fx

import (
	"net/http"
	"slices"
	"time"

	"fashion-etl/config"
	"fashion-etl/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var CoreRouterOptions = fx.Options(
	fx.Provide(NewMux),
)

type muxParams struct {
	fx.In

	Cfg      *config.Config
	Logger   *zap.SugaredLogger
	Handlers []router.Handler `group:"handlers"`
}

func NewMux(p muxParams) *chi.Mux {
	r := chi.NewRouter()

	allowedOrigins := allowedOrigins(p.Cfg)
	corsEnabled := len(allowedOrigins) > 0
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(zapRequestLogger(p.Logger))

	if corsEnabled {
		r.Options("/*", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}

	router.Mount(r, p.Handlers)
	return r
}

// allowedOrigins is CORS_ALLOWED_ORIGINS plus the local dashboard in dev and test.
func allowedOrigins(cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}
	out := slices.Clone(cfg.CORSOrigins)
	switch cfg.ENV {
	case config.Dev, config.Test:
		out = append(out, "http://localhost:5173", "http://127.0.0.1:5173")
	}
	return out
}

func zapRequestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Infow("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(start),
			)
		})
	}
}
