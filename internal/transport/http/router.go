// Package httptransport assembles the public HTTP surface: domain handlers,
// health and metrics.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certvault/internal/transport/http/shared"
)

// Registrar is anything that can attach its routes to the router. Both domain
// handlers implement it.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints. Domain handlers carry their own
// middleware chains; health and metrics stay bare.
func NewRouter(handlers ...Registrar) http.Handler {
	router := chi.NewRouter()

	router.Get("/healthz", handleHealth)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(router)
	}
	return router
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
