package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all expiry routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expiry", func(r chi.Router) {
		r.Get("/contracts", h.HandleListContracts)
		r.Get("/{market}/{product}", func(w http.ResponseWriter, r *http.Request) {
			market := chi.URLParam(r, "market")
			product := chi.URLParam(r, "product")
			h.HandleResolve(w, r, market, product)
		})
	})
}
