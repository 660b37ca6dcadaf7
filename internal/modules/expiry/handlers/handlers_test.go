package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/expiryd/internal/modules/expiry"
)

// stubCalendars serves the 2024 US schedule for every exchange except GB,
// which gets the matching UK one.
type stubCalendars struct{}

func (stubCalendars) GetHolidays(exchange, product string) (expiry.HolidaySet, error) {
	switch exchange {
	case "CME", "CBOT", "NYMEX", "COMEX", "ICE":
		return expiry.MustParseHolidaySet(
			"2024-01-01", "2024-01-15", "2024-02-19", "2024-03-29",
			"2024-05-27", "2024-06-19", "2024-07-04", "2024-09-02",
			"2024-11-28", "2024-12-25",
		), nil
	case "GB":
		return expiry.MustParseHolidaySet(
			"2024-01-01", "2024-03-29", "2024-04-01", "2024-05-06",
			"2024-05-27", "2024-08-26", "2024-12-25", "2024-12-26",
		), nil
	}
	return nil, fmt.Errorf("no holiday calendar for %s/%s", exchange, product)
}

// brokenCalendars fails every lookup.
type brokenCalendars struct{}

func (brokenCalendars) GetHolidays(exchange, product string) (expiry.HolidaySet, error) {
	return nil, fmt.Errorf("calendar store offline")
}

func newTestRouter(t *testing.T, calendars expiry.HolidayProvider) *chi.Mux {
	t.Helper()
	registry, err := expiry.NewRegistry(expiry.DefaultRegistrations())
	require.NoError(t, err)
	svc := expiry.NewService(registry, calendars, zerolog.Nop())

	r := chi.NewRouter()
	NewHandler(svc, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func get(t *testing.T, router *chi.Mux, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleResolve(t *testing.T) {
	router := newTestRouter(t, stubCalendars{})

	rec := get(t, router, "/expiry/CME/ES?month=2024-06")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Market   string `json:"market"`
			Product  string `json:"product"`
			Type     string `json:"type"`
			Month    string `json:"month"`
			Expiry   string `json:"expiry"`
			Timezone string `json:"timezone"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CME", body.Data.Market)
	assert.Equal(t, "ES", body.Data.Product)
	assert.Equal(t, "future", body.Data.Type)
	assert.Equal(t, "2024-06", body.Data.Month)
	assert.Equal(t, "2024-06-21T09:30:00", body.Data.Expiry)
	assert.Equal(t, "exchange-local", body.Data.Timezone)
}

func TestHandleResolveErrors(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		calendars expiry.HolidayProvider
		wantCode  int
	}{
		{"missing month parameter", "/expiry/CME/ES", stubCalendars{}, http.StatusBadRequest},
		{"malformed month", "/expiry/CME/ES?month=June-2024", stubCalendars{}, http.StatusBadRequest},
		{"out-of-range month", "/expiry/CME/ES?month=2024-13", stubCalendars{}, http.StatusBadRequest},
		{"unregistered contract", "/expiry/CME/XX?month=2024-06", stubCalendars{}, http.StatusNotFound},
		{"unknown security type", "/expiry/CME/ES?month=2024-06&type=option", stubCalendars{}, http.StatusNotFound},
		{"calendar store failure", "/expiry/CME/ES?month=2024-06", brokenCalendars{}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.calendars)
			rec := get(t, router, tt.url)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandleListContracts(t *testing.T) {
	router := newTestRouter(t, stubCalendars{})

	rec := get(t, router, "/expiry/contracts")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Count     int `json:"count"`
			Contracts []struct {
				Market    string   `json:"market"`
				Product   string   `json:"product"`
				Rule      string   `json:"rule"`
				Calendars []string `json:"calendars"`
			} `json:"contracts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 28, body.Data.Count)
	require.Len(t, body.Data.Contracts, 28)

	// Ordered by market then product; CBOT/ZB comes before CME entries.
	assert.Equal(t, "CBOT", body.Data.Contracts[0].Market)
	for _, c := range body.Data.Contracts {
		assert.NotEmpty(t, c.Rule, "%s/%s should describe its rule", c.Market, c.Product)
	}
}
