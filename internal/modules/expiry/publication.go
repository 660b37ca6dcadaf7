package expiry

import (
	"fmt"
	"sort"
	"time"
)

// PublicationTable is an externally-curated calendar of irregularly spaced
// publication dates (a government price report, a pipeline operator's
// notice-of-shipment schedule) keyed by nominal delivery month. Entries are
// finite and maintained out of band; the table is read-only at evaluation
// time.
//
// Months absent from the table are not errors. The documented fallback
// assumes the publication lands on a fixed day of a fixed month offset from
// the requested one (the 25th of the prior month for shipment notices, the
// 5th of the following month for the milk report) and walks backward to the
// nearest business day. That keeps the engine usable for months beyond the
// curated horizon at the cost of an approximate date.
type PublicationTable struct {
	name           string
	fallbackMonths int
	fallbackDay    int
	dates          map[DeliveryMonth]time.Time
}

// NewPublicationTable builds a table from curated entries. fallbackMonths
// and fallbackDay place the assumed publication date relative to a month
// with no curated entry.
func NewPublicationTable(name string, fallbackMonths, fallbackDay int, entries map[DeliveryMonth]time.Time) (*PublicationTable, error) {
	if name == "" {
		return nil, fmt.Errorf("expiry: publication table needs a name")
	}
	if fallbackMonths < -3 || fallbackMonths > 3 {
		return nil, fmt.Errorf("expiry: publication table %s: fallback month offset %d out of range", name, fallbackMonths)
	}
	if fallbackDay < 1 || fallbackDay > 28 {
		return nil, fmt.Errorf("expiry: publication table %s: fallback day %d out of range", name, fallbackDay)
	}
	dates := make(map[DeliveryMonth]time.Time, len(entries))
	for m, d := range entries {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("expiry: publication table %s: %w", name, err)
		}
		dates[m] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return &PublicationTable{
		name:           name,
		fallbackMonths: fallbackMonths,
		fallbackDay:    fallbackDay,
		dates:          dates,
	}, nil
}

// Name returns the table's identifier for logs and errors.
func (t *PublicationTable) Name() string { return t.name }

// Len returns the number of curated entries.
func (t *PublicationTable) Len() int { return len(t.dates) }

// Months returns the curated months in ascending order.
func (t *PublicationTable) Months() []DeliveryMonth {
	out := make([]DeliveryMonth, 0, len(t.dates))
	for m := range t.dates {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Lookup returns the curated date for a month, if present.
func (t *PublicationTable) Lookup(m DeliveryMonth) (time.Time, bool) {
	d, ok := t.dates[m]
	return d, ok
}

// Date returns the publication date for a month, applying the fallback
// heuristic when the month is not curated: the table's fixed day-of-month
// in the offset month, walked backward to a business day under the supplied
// calendars.
func (t *PublicationTable) Date(m DeliveryMonth, holidays ...HolidaySet) time.Time {
	if d, ok := t.dates[m]; ok {
		return d
	}
	offset := m.AddMonths(t.fallbackMonths)
	assumed := time.Date(offset.Year, offset.Month, t.fallbackDay, 0, 0, 0, 0, time.UTC)
	return nearestBusinessDay(assumed, true, holidays...)
}
