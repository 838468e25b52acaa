// Package router collects the HTTP handlers that fx provides into the
// "handlers" group.
package router

import (
	"net/http"

	"go.uber.org/fx"

	"github.com/go-chi/chi/v5"
)

type Handler interface {
	RegisterRoute(r *chi.Mux)
	Handle(w http.ResponseWriter, r *http.Request)
}

// AsRoute annotates a handler constructor so its result joins the
// "handlers" group as a Handler.
func AsRoute(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Handler)),
		fx.ResultTags(`group:"handlers"`),
	)
}

// Mount registers every handler on r.
func Mount(r *chi.Mux, handlers []Handler) {
	for _, h := range handlers {
		h.RegisterRoute(r)
	}
}
