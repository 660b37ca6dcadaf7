package expiry

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// HolidayProvider supplies holiday calendars keyed by exchange and product.
// Implementations must return immutable snapshots: the engine holds the
// returned sets for the duration of a call and never copies them. A missing
// calendar must be reported as an error, not an empty set.
type HolidayProvider interface {
	GetHolidays(exchange, product string) (HolidaySet, error)
}

// Service is the engine's single external operation: resolve a contract and
// delivery month to an expiration timestamp. It is stateless beyond the
// immutable registry and safe for concurrent use.
type Service struct {
	registry  *Registry
	calendars HolidayProvider
	log       zerolog.Logger
}

// NewService wires the registry with the holiday-calendar collaborator.
func NewService(registry *Registry, calendars HolidayProvider, log zerolog.Logger) *Service {
	return &Service{
		registry:  registry,
		calendars: calendars,
		log:       log.With().Str("service", "expiry").Logger(),
	}
}

// ResolveExpiry computes the final trading timestamp for a contract and
// delivery month. The result is exchange-local wall-clock time. Failures
// are non-retryable: they indicate missing configuration (unregistered
// contract, absent calendar) or bad input, never a transient fault.
func (s *Service) ResolveExpiry(id ContractID, m DeliveryMonth) (time.Time, error) {
	if err := m.Validate(); err != nil {
		return time.Time{}, err
	}

	reg, err := s.registry.Resolve(id)
	if err != nil {
		return time.Time{}, err
	}

	holidays := make([]HolidaySet, 0, len(reg.Calendars))
	for _, key := range reg.Calendars {
		set, err := s.calendars.GetHolidays(key.Exchange, key.Product)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s/%s for %s: %v",
				ErrCalendarUnavailable, key.Exchange, key.Product, id, err)
		}
		holidays = append(holidays, set)
	}

	ts, err := reg.Rule.Expiry(m, holidays)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolving expiry for %s %s: %w", id, m, err)
	}
	return ts, nil
}

// ContractInfo describes one registration for the listing endpoint.
type ContractInfo struct {
	ID        ContractID
	Rule      string
	Calendars []CalendarKey
}

// Contracts returns every registered contract with its rule description, in
// stable order.
func (s *Service) Contracts() []ContractInfo {
	ids := s.registry.Contracts()
	out := make([]ContractInfo, 0, len(ids))
	for _, id := range ids {
		reg, err := s.registry.Resolve(id)
		if err != nil {
			continue // unreachable: ids came from the registry
		}
		desc := "custom rule"
		if str, ok := reg.Rule.(fmt.Stringer); ok {
			desc = str.String()
		}
		out = append(out, ContractInfo{ID: id, Rule: desc, Calendars: reg.Calendars})
	}
	return out
}
