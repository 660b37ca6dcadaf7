package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers all calendar routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/holidays", h.HandleGetHolidays)
		r.Get("/exchanges", h.HandleGetExchanges)
	})
}
