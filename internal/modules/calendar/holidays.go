package calendar

import "time"

// Easter returns Easter Sunday for a year under the given computus. Julian
// results are converted to the Gregorian calendar (valid 1900-2099, which
// covers every delivery month the engine accepts from curated data).
func Easter(year int, calendarType CalendarType) time.Time {
	if calendarType == Julian {
		return julianEaster(year)
	}
	return gregorianEaster(year)
}

// gregorianEaster implements the anonymous Gregorian computus.
func gregorianEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451

	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// julianEaster implements the Julian computus and shifts the result by the
// 13-day Julian/Gregorian difference that holds for 1900-2099.
func julianEaster(year int) time.Time {
	a := year % 19
	b := year % 4
	c := year % 7
	d := (19*a + 15) % 30
	e := (2*b + 4*c + 6*d + 6) % 7

	day := 22 + d + e
	month := time.March
	if day > 31 {
		day -= 31
		month = time.April
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 13)
}

// nthWeekday returns the nth occurrence of a weekday in a month; n = -1
// returns the last occurrence.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	if n == -1 {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		back := int(last.Weekday() - weekday)
		if back < 0 {
			back += 7
		}
		return last.AddDate(0, 0, -back)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	forward := int(weekday - first.Weekday())
	if forward < 0 {
		forward += 7
	}
	return first.AddDate(0, 0, forward+(n-1)*7)
}

// observed moves a weekend holiday to its observed weekday: Saturday is
// observed on Friday, Sunday on Monday.
func observed(date time.Time) time.Time {
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, -1)
	case time.Sunday:
		return date.AddDate(0, 0, 1)
	default:
		return date
	}
}

// Generate expands a rule set into concrete holiday dates for one year.
func (rs RuleSet) Generate(year int) []time.Time {
	out := make([]time.Time, 0, len(rs.FixedDate)+len(rs.RuleBased)+len(rs.EasterBased))

	for _, h := range rs.FixedDate {
		d := time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
		if h.ObserveOnWeekday {
			d = observed(d)
		}
		out = append(out, d)
	}
	for _, h := range rs.RuleBased {
		out = append(out, nthWeekday(year, h.Month, h.Weekday, h.N))
	}
	easter := Easter(year, rs.Easter)
	for _, h := range rs.EasterBased {
		out = append(out, easter.AddDate(0, 0, h.DaysOffset))
	}

	return out
}
