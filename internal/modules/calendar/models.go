// Package calendar supplies exchange holiday calendars to the expiry
// engine. Calendars come from two places: curated rows in the calendar
// database (authoritative where present) and generated rule sets for the
// exchanges whose holiday schedules follow fixed patterns. Everything is
// loaded once at startup into immutable snapshots.
package calendar

import "time"

// CalendarType selects the computus used for Easter-derived holidays.
type CalendarType int

const (
	// Gregorian computus (Western exchanges).
	Gregorian CalendarType = iota
	// Julian computus (Orthodox-calendar exchanges).
	Julian
)

// FixedDateHoliday is a holiday on a fixed month/day. When ObserveOnWeekday
// is set, a Saturday occurrence is observed on Friday and a Sunday
// occurrence on Monday.
type FixedDateHoliday struct {
	Month            time.Month
	Day              int
	ObserveOnWeekday bool
}

// RuleBasedHoliday is an nth-weekday holiday; N = -1 means the last
// occurrence of the weekday in the month.
type RuleBasedHoliday struct {
	Month   time.Month
	Weekday time.Weekday
	N       int
}

// EasterBasedHoliday is a holiday at a fixed offset from Easter Sunday.
type EasterBasedHoliday struct {
	DaysOffset int
}

// RuleSet defines one exchange's generated holiday schedule.
type RuleSet struct {
	Easter      CalendarType
	FixedDate   []FixedDateHoliday
	RuleBased   []RuleBasedHoliday
	EasterBased []EasterBasedHoliday
}
