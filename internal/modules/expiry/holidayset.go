package expiry

import "time"

// dateKey is the canonical day-resolution key for holiday membership.
const dateKey = "2006-01-02"

// HolidaySet is an unordered set of dates treated as non-business days.
// Sets are day-resolution: time-of-day and location on a queried timestamp
// are ignored. Sets are built once and treated as immutable snapshots for
// the duration of a rule evaluation.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from explicit dates.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[d.Format(dateKey)] = struct{}{}
	}
	return s
}

// MustParseHolidaySet builds a set from YYYY-MM-DD strings. It panics on a
// malformed literal, which makes it suitable only for the hand-curated
// per-rule date lists compiled into the product table.
func MustParseHolidaySet(dates ...string) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateKey, d); err != nil {
			panic("expiry: bad holiday literal " + d)
		}
		s[d] = struct{}{}
	}
	return s
}

// Contains reports whether the date part of t is in the set.
func (s HolidaySet) Contains(t time.Time) bool {
	_, ok := s[t.Format(dateKey)]
	return ok
}

// Add inserts the date part of t. Only calendar loaders mutate sets; once
// handed to the engine a set must not change.
func (s HolidaySet) Add(t time.Time) {
	s[t.Format(dateKey)] = struct{}{}
}

// Dates returns the set's members as midnight-UTC timestamps, unordered.
func (s HolidaySet) Dates() []time.Time {
	out := make([]time.Time, 0, len(s))
	for k := range s {
		t, _ := time.Parse(dateKey, k)
		out = append(out, t)
	}
	return out
}

// isWeekend reports Saturday or Sunday.
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// isBusinessDay reports whether t is a weekday absent from every supplied
// holiday set. A day appearing in any one set disqualifies it.
func isBusinessDay(t time.Time, holidays ...HolidaySet) bool {
	if isWeekend(t) {
		return false
	}
	for _, set := range holidays {
		if set.Contains(t) {
			return false
		}
	}
	return true
}
