// Package handlers provides HTTP handlers for expiry resolution.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/expiryd/internal/modules/expiry"
	"github.com/rs/zerolog"
)

// Handler handles expiry HTTP requests
type Handler struct {
	service *expiry.Service
	log     zerolog.Logger
}

// NewHandler creates a new expiry handler
func NewHandler(service *expiry.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "expiry").Logger(),
	}
}

// HandleResolve handles GET /api/expiry/{market}/{product}?month=YYYY-MM&type=future
// Returns the final trading timestamp for the contract and delivery month.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request, market, product string) {
	monthParam := r.URL.Query().Get("month")
	if monthParam == "" {
		http.Error(w, "month parameter is required", http.StatusBadRequest)
		return
	}

	secType := expiry.SecurityType(r.URL.Query().Get("type"))
	if secType == "" {
		secType = expiry.Future
	}

	month, err := expiry.ParseDeliveryMonth(monthParam)
	if err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	id := expiry.ContractID{Product: product, Market: market, Type: secType}
	ts, err := h.service.ResolveExpiry(id, month)
	if err != nil {
		h.writeResolveError(w, id, err)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"market":   id.Market,
			"product":  id.Product,
			"type":     string(id.Type),
			"month":    month.String(),
			"expiry":   ts.Format("2006-01-02T15:04:05"),
			"timezone": "exchange-local",
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleListContracts handles GET /api/expiry/contracts
// Returns every registered contract with its rule description.
func (h *Handler) HandleListContracts(w http.ResponseWriter, r *http.Request) {
	infos := h.service.Contracts()

	contracts := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		calendars := make([]string, 0, len(info.Calendars))
		for _, key := range info.Calendars {
			if key.Product == "" {
				calendars = append(calendars, key.Exchange)
			} else {
				calendars = append(calendars, key.Exchange+"/"+key.Product)
			}
		}
		contracts = append(contracts, map[string]interface{}{
			"market":    info.ID.Market,
			"product":   info.ID.Product,
			"type":      string(info.ID.Type),
			"rule":      info.Rule,
			"calendars": calendars,
		})
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"contracts": contracts,
			"count":     len(contracts),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeResolveError maps engine errors onto HTTP statuses. All three error
// kinds are configuration or input faults; none is retryable.
func (h *Handler) writeResolveError(w http.ResponseWriter, id expiry.ContractID, err error) {
	switch {
	case errors.Is(err, expiry.ErrUnsupportedContract):
		h.log.Warn().Str("contract", id.String()).Msg("Unsupported contract requested")
		http.Error(w, "unsupported contract", http.StatusNotFound)
	case errors.Is(err, expiry.ErrInvalidDeliveryMonth):
		http.Error(w, "invalid delivery month", http.StatusBadRequest)
	case errors.Is(err, expiry.ErrCalendarUnavailable):
		h.log.Error().Err(err).Str("contract", id.String()).Msg("Holiday calendar unavailable")
		http.Error(w, "holiday calendar unavailable", http.StatusServiceUnavailable)
	default:
		h.log.Error().Err(err).Str("contract", id.String()).Msg("Failed to resolve expiry")
		http.Error(w, "failed to resolve expiry", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
