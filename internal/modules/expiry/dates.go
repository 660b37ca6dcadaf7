package expiry

import (
	"fmt"
	"time"
)

// NthWeekdayOfMonth returns the date of the n-th occurrence of weekday in
// the given month, counting from day 1. n must be at least 1; months have
// four or five occurrences of each weekday, so n > 5 always fails.
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) (time.Time, error) {
	if n < 1 {
		return time.Time{}, fmt.Errorf("expiry: weekday ordinal must be >= 1, got %d", n)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(weekday - first.Weekday())
	if offset < 0 {
		offset += 7
	}
	d := first.AddDate(0, 0, offset+(n-1)*7)
	if d.Month() != month {
		return time.Time{}, fmt.Errorf("expiry: no %s #%d in %04d-%02d", weekday, n, year, int(month))
	}
	return d, nil
}

// LastWeekdayOfMonth returns the last occurrence of weekday in the month.
func LastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	back := int(last.Weekday() - weekday)
	if back < 0 {
		back += 7
	}
	return last.AddDate(0, 0, -back)
}

// NthBusinessDay returns the n-th business day of the month, counting from
// day 1 under the supplied holiday sets.
func NthBusinessDay(year int, month time.Month, n int, holidays ...HolidaySet) (time.Time, error) {
	if n < 1 {
		return time.Time{}, fmt.Errorf("expiry: business-day ordinal must be >= 1, got %d", n)
	}
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for d.Month() == month {
		if isBusinessDay(d, holidays...) {
			count++
			if count == n {
				return d, nil
			}
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("expiry: fewer than %d business days in %04d-%02d", n, year, int(month))
}

// NthLastBusinessDay counts backward from the final day of the month: n=1
// is the last business day, n=2 the one before it, and so on.
func NthLastBusinessDay(year int, month time.Month, n int, holidays ...HolidaySet) (time.Time, error) {
	if n < 1 {
		return time.Time{}, fmt.Errorf("expiry: business-day ordinal must be >= 1, got %d", n)
	}
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	count := 0
	for d.Month() == month {
		if isBusinessDay(d, holidays...) {
			count++
			if count == n {
				return d, nil
			}
		}
		d = d.AddDate(0, 0, -1)
	}
	return time.Time{}, fmt.Errorf("expiry: fewer than %d business days in %04d-%02d", n, year, int(month))
}

// AddBusinessDays walks date forward (delta > 0) or backward (delta < 0)
// one calendar day at a time, counting only days that are business days
// under the union of the supplied holiday sets, until |delta| qualifying
// days have been traversed. delta == 0 returns date unchanged, even if
// date itself is not a business day.
func AddBusinessDays(date time.Time, delta int, holidays ...HolidaySet) time.Time {
	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}
	d := date
	for traversed := 0; traversed < delta; {
		d = d.AddDate(0, 0, step)
		if isBusinessDay(d, holidays...) {
			traversed++
		}
	}
	return d
}

// nearestBusinessDay shifts d one calendar day at a time in the given
// direction until it lands on a business day. A date that already
// qualifies is returned unchanged.
func nearestBusinessDay(d time.Time, backward bool, holidays ...HolidaySet) time.Time {
	step := 1
	if backward {
		step = -1
	}
	for !isBusinessDay(d, holidays...) {
		d = d.AddDate(0, 0, step)
	}
	return d
}
