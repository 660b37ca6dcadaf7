// Package handlers provides HTTP handlers for holiday calendar queries.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/expiryd/internal/modules/calendar"
	"github.com/rs/zerolog"
)

// Handler handles calendar HTTP requests
type Handler struct {
	service *calendar.Service
	log     zerolog.Logger
}

// NewHandler creates a new calendar handler
func NewHandler(service *calendar.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "calendar").Logger(),
	}
}

// HandleGetHolidays handles GET /api/calendar/holidays?exchange=&product=&year=
// Returns the holiday dates of one calendar for a year.
func (h *Handler) HandleGetHolidays(w http.ResponseWriter, r *http.Request) {
	exchange := r.URL.Query().Get("exchange")
	if exchange == "" {
		http.Error(w, "exchange parameter is required", http.StatusBadRequest)
		return
	}
	product := r.URL.Query().Get("product")

	year := time.Now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1900 || parsed > 2200 {
			http.Error(w, "year must be a valid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	dates, err := h.service.Holidays(exchange, product, year)
	if err != nil {
		h.log.Warn().Err(err).Str("exchange", exchange).Str("product", product).Msg("Calendar not found")
		http.Error(w, "no calendar for exchange/product", http.StatusNotFound)
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format("2006-01-02"))
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"exchange": exchange,
			"product":  product,
			"year":     year,
			"holidays": formatted,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetExchanges handles GET /api/calendar/exchanges
// Returns the exchange codes with a generated or curated calendar.
func (h *Handler) HandleGetExchanges(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"exchanges": h.service.Exchanges(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
