package calendar

import "time"

// usMarketRules is the schedule shared by the US derivatives venues: what
// differs between CME, CBOT, NYMEX and COMEX is curated in the database,
// not generated here.
var usMarketRules = RuleSet{
	Easter: Gregorian,
	FixedDate: []FixedDateHoliday{
		{Month: time.January, Day: 1, ObserveOnWeekday: true},   // New Year's Day
		{Month: time.June, Day: 19, ObserveOnWeekday: true},     // Juneteenth
		{Month: time.July, Day: 4, ObserveOnWeekday: true},      // Independence Day
		{Month: time.December, Day: 25, ObserveOnWeekday: true}, // Christmas
	},
	RuleBased: []RuleBasedHoliday{
		{Month: time.January, Weekday: time.Monday, N: 3},     // MLK Day
		{Month: time.February, Weekday: time.Monday, N: 3},    // Presidents Day
		{Month: time.May, Weekday: time.Monday, N: -1},        // Memorial Day
		{Month: time.September, Weekday: time.Monday, N: 1},   // Labor Day
		{Month: time.November, Weekday: time.Thursday, N: 4},  // Thanksgiving
	},
	EasterBased: []EasterBasedHoliday{
		{DaysOffset: -2}, // Good Friday
	},
}

// ukRules covers London business days for products that settle off the UK
// bank holiday schedule.
var ukRules = RuleSet{
	Easter: Gregorian,
	FixedDate: []FixedDateHoliday{
		{Month: time.January, Day: 1, ObserveOnWeekday: true},   // New Year's Day
		{Month: time.December, Day: 25, ObserveOnWeekday: true}, // Christmas
		{Month: time.December, Day: 26, ObserveOnWeekday: true}, // Boxing Day
	},
	RuleBased: []RuleBasedHoliday{
		{Month: time.May, Weekday: time.Monday, N: 1},     // Early May Bank Holiday
		{Month: time.May, Weekday: time.Monday, N: -1},    // Spring Bank Holiday
		{Month: time.August, Weekday: time.Monday, N: -1}, // Summer Bank Holiday
	},
	EasterBased: []EasterBasedHoliday{
		{DaysOffset: -2}, // Good Friday
		{DaysOffset: 1},  // Easter Monday
	},
}

// builtinRules maps calendar exchange codes to generated rule sets. Keys
// match the CalendarKey.Exchange values the product table uses.
var builtinRules = map[string]RuleSet{
	"CME":   usMarketRules,
	"CBOT":  usMarketRules,
	"NYMEX": usMarketRules,
	"COMEX": usMarketRules,
	"ICE":   usMarketRules,
	"GB":    ukRules,
}
