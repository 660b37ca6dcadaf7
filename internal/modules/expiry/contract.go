// Package expiry computes the final-trading timestamp for futures contracts.
//
// The package is a pure rule engine: a registry maps a contract identifier to
// an expiry rule, and each rule composes a handful of calendar primitives
// (ordinal weekdays, nth/nth-last business days, business-day walks,
// delivery-cycle filters and curated publication tables). Holiday data is
// supplied by the caller through the HolidayProvider collaborator; the engine
// never fetches or caches calendar data itself.
package expiry

import (
	"errors"
	"fmt"
	"time"
)

// SecurityType tags the instrument kind a contract identifier refers to.
type SecurityType string

const (
	// Future is the only security type the engine currently computes
	// expiries for. The tag exists so identifiers stay unambiguous once
	// options on futures are registered alongside.
	Future SecurityType = "future"
)

var (
	// ErrUnsupportedContract is returned when an identifier was never
	// registered. The engine never falls back to a generic rule.
	ErrUnsupportedContract = errors.New("unsupported contract")

	// ErrCalendarUnavailable is returned when the holiday-calendar
	// collaborator cannot supply data a rule requires. Missing calendar
	// data is a configuration fault and must not be treated as "no
	// holidays".
	ErrCalendarUnavailable = errors.New("calendar unavailable")

	// ErrInvalidDeliveryMonth is returned for malformed or out-of-range
	// delivery month inputs.
	ErrInvalidDeliveryMonth = errors.New("invalid delivery month")
)

// ContractID identifies a futures product. Equality is structural; the
// zero value is not a valid identifier.
type ContractID struct {
	Product string       // root symbol, e.g. "ES", "CL"
	Market  string       // listing exchange code, e.g. "CME", "NYMEX"
	Type    SecurityType // instrument kind
}

// String renders the identifier for logs and error messages.
func (id ContractID) String() string {
	return fmt.Sprintf("%s:%s:%s", id.Market, id.Product, id.Type)
}

// DeliveryMonth is the calendar month a contract nominally delivers in.
// Day-of-month and time-of-day on the input are irrelevant: any date within
// a month normalizes to the same delivery month.
type DeliveryMonth struct {
	Year  int
	Month time.Month
}

// DeliveryMonthOf normalizes an arbitrary timestamp to its delivery month.
func DeliveryMonthOf(t time.Time) DeliveryMonth {
	return DeliveryMonth{Year: t.Year(), Month: t.Month()}
}

// Validate rejects malformed months. Years far outside the range curated
// calendars can cover are rejected rather than silently computed against
// empty holiday sets.
func (m DeliveryMonth) Validate() error {
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidDeliveryMonth, int(m.Month))
	}
	if m.Year < 1900 || m.Year > 2200 {
		return fmt.Errorf("%w: year %d", ErrInvalidDeliveryMonth, m.Year)
	}
	return nil
}

// Time returns midnight on the first day of the month. Expiry timestamps
// are exchange-local wall-clock values; the engine performs no timezone
// conversion, so UTC here is just a neutral carrier location.
func (m DeliveryMonth) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts the delivery month by a signed number of months.
func (m DeliveryMonth) AddMonths(n int) DeliveryMonth {
	t := m.Time().AddDate(0, n, 0)
	return DeliveryMonth{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is strictly earlier than other.
func (m DeliveryMonth) Before(other DeliveryMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// String renders the month as YYYY-MM.
func (m DeliveryMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseDeliveryMonth parses a YYYY-MM string.
func ParseDeliveryMonth(s string) (DeliveryMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return DeliveryMonth{}, fmt.Errorf("%w: %q", ErrInvalidDeliveryMonth, s)
	}
	m := DeliveryMonthOf(t)
	if err := m.Validate(); err != nil {
		return DeliveryMonth{}, err
	}
	return m, nil
}
