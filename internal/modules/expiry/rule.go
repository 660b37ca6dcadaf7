package expiry

import (
	"fmt"
	"strings"
	"time"
)

// Rule maps a delivery month to the contract's final trading timestamp,
// given the holiday sets resolved for the contract. Implementations must be
// referentially transparent: identical inputs always produce identical
// output. The returned timestamp is exchange-local wall-clock time carried
// in UTC; no timezone conversion is performed anywhere in the engine.
type Rule interface {
	Expiry(m DeliveryMonth, holidays []HolidaySet) (time.Time, error)
}

// RuleFunc adapts a plain function to Rule. Reserved for the few genuinely
// irregular products whose logic does not decompose into the declarative
// anchor/adjust/offset pipeline.
type RuleFunc func(m DeliveryMonth, holidays []HolidaySet) (time.Time, error)

// Expiry implements Rule.
func (f RuleFunc) Expiry(m DeliveryMonth, holidays []HolidaySet) (time.Time, error) {
	return f(m, holidays)
}

type anchorKind int

const (
	anchorNone anchorKind = iota
	anchorFixedDay
	anchorNthBusinessDay
	anchorNthLastBusinessDay
	anchorNthWeekday
	anchorLastWeekday
	anchorPublication
)

type adjustDirection int

const (
	adjustNone adjustDirection = iota
	adjustBackward
	adjustForward
)

// ruleSpec is the declarative rule object produced by the builder. The
// evaluation pipeline is fixed: cycle filter, month offset, anchor
// selection, holiday adjustment, business-day walk, time-of-day offset.
type ruleSpec struct {
	cycle       Cycle
	monthOffset int

	kind    anchorKind
	day     int
	n       int
	weekday time.Weekday
	table   *PublicationTable

	adjust    adjustDirection
	walk      int // signed business days applied after adjustment
	timeOfDay time.Duration

	extra HolidaySet // rule-specific ad hoc holidays, unioned in
}

// Expiry implements Rule.
func (r *ruleSpec) Expiry(m DeliveryMonth, holidays []HolidaySet) (time.Time, error) {
	if err := m.Validate(); err != nil {
		return time.Time{}, err
	}

	listed, err := NextCycleMonth(m, r.cycle)
	if err != nil {
		return time.Time{}, err
	}
	anchor := listed.AddMonths(r.monthOffset)

	sets := holidays
	if len(r.extra) > 0 {
		sets = make([]HolidaySet, 0, len(holidays)+1)
		sets = append(sets, holidays...)
		sets = append(sets, r.extra)
	}

	var candidate time.Time
	switch r.kind {
	case anchorFixedDay:
		candidate = time.Date(anchor.Year, anchor.Month, r.day, 0, 0, 0, 0, time.UTC)
	case anchorNthBusinessDay:
		candidate, err = NthBusinessDay(anchor.Year, anchor.Month, r.n, sets...)
	case anchorNthLastBusinessDay:
		candidate, err = NthLastBusinessDay(anchor.Year, anchor.Month, r.n, sets...)
	case anchorNthWeekday:
		candidate, err = NthWeekdayOfMonth(anchor.Year, anchor.Month, r.weekday, r.n)
	case anchorLastWeekday:
		candidate = LastWeekdayOfMonth(anchor.Year, anchor.Month, r.weekday)
	case anchorPublication:
		candidate = r.table.Date(anchor, sets...)
	default:
		return time.Time{}, fmt.Errorf("expiry: rule has no anchor")
	}
	if err != nil {
		return time.Time{}, err
	}

	switch r.adjust {
	case adjustBackward:
		candidate = nearestBusinessDay(candidate, true, sets...)
	case adjustForward:
		candidate = nearestBusinessDay(candidate, false, sets...)
	}

	if r.walk != 0 {
		candidate = AddBusinessDays(candidate, r.walk, sets...)
	}

	return candidate.Add(r.timeOfDay), nil
}

// String renders a human-readable description of the rule, used by the
// contract listing endpoint so rule configurations stay inspectable.
func (r *ruleSpec) String() string {
	var b strings.Builder

	switch r.kind {
	case anchorFixedDay:
		fmt.Fprintf(&b, "day %d", r.day)
	case anchorNthBusinessDay:
		fmt.Fprintf(&b, "business day %d", r.n)
	case anchorNthLastBusinessDay:
		fmt.Fprintf(&b, "%s-last business day", ordinal(r.n))
	case anchorNthWeekday:
		fmt.Fprintf(&b, "%s %s", ordinal(r.n), r.weekday)
	case anchorLastWeekday:
		fmt.Fprintf(&b, "last %s", r.weekday)
	case anchorPublication:
		fmt.Fprintf(&b, "publication date (%s)", r.table.Name())
	}

	switch {
	case r.monthOffset < 0:
		fmt.Fprintf(&b, " of %d month(s) before the contract month", -r.monthOffset)
	case r.monthOffset > 0:
		fmt.Fprintf(&b, " of %d month(s) after the contract month", r.monthOffset)
	default:
		b.WriteString(" of the contract month")
	}

	switch r.adjust {
	case adjustBackward:
		b.WriteString(", moved back to a business day")
	case adjustForward:
		b.WriteString(", moved forward to a business day")
	}
	switch {
	case r.walk < 0:
		fmt.Fprintf(&b, ", minus %d business day(s)", -r.walk)
	case r.walk > 0:
		fmt.Fprintf(&b, ", plus %d business day(s)", r.walk)
	}
	if r.timeOfDay > 0 {
		anchor := time.Time{}.Add(r.timeOfDay)
		fmt.Fprintf(&b, ", at %s local", anchor.Format("15:04"))
	}
	if len(r.cycle) > 0 && len(r.cycle) < 12 {
		months := make([]string, len(r.cycle))
		for i, m := range r.cycle {
			months[i] = m.String()[:3]
		}
		fmt.Fprintf(&b, " (cycle %s)", strings.Join(months, "/"))
	}
	return b.String()
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// RuleBuilder assembles a declarative rule. Misconfiguration surfaces at
// Build time so the product table fails fast at process start rather than
// on first resolution.
type RuleBuilder struct {
	spec ruleSpec
	err  error
}

// NewRule starts a builder. The zero configuration has no cycle filter, no
// month offset, no adjustment and no time offset; an anchor is mandatory.
func NewRule() *RuleBuilder {
	return &RuleBuilder{}
}

func (b *RuleBuilder) fail(format string, args ...interface{}) *RuleBuilder {
	if b.err == nil {
		b.err = fmt.Errorf("expiry: "+format, args...)
	}
	return b
}

// InCycle restricts the product to a fixed set of listed months. Requested
// months outside the cycle advance to the next listed month before the
// anchor is applied.
func (b *RuleBuilder) InCycle(c Cycle) *RuleBuilder {
	b.spec.cycle = c
	return b
}

// Quarterly is shorthand for the Mar/Jun/Sep/Dec cycle.
func (b *RuleBuilder) Quarterly() *RuleBuilder {
	return b.InCycle(CycleQuarterly)
}

// MonthsBack anchors the rule n months before the (cycle-adjusted) contract
// month, e.g. crude oil expiring in the month prior to delivery.
func (b *RuleBuilder) MonthsBack(n int) *RuleBuilder {
	if n < 0 {
		return b.fail("MonthsBack(%d): n must be >= 0", n)
	}
	b.spec.monthOffset = -n
	return b
}

func (b *RuleBuilder) setAnchor(k anchorKind) *RuleBuilder {
	if b.spec.kind != anchorNone {
		return b.fail("rule already has an anchor")
	}
	b.spec.kind = k
	return b
}

// OnDay anchors on a fixed calendar day of the anchor month.
func (b *RuleBuilder) OnDay(day int) *RuleBuilder {
	if day < 1 || day > 31 {
		return b.fail("OnDay(%d): day out of range", day)
	}
	b.spec.day = day
	return b.setAnchor(anchorFixedDay)
}

// OnNthBusinessDay anchors on the n-th business day of the anchor month.
func (b *RuleBuilder) OnNthBusinessDay(n int) *RuleBuilder {
	if n < 1 {
		return b.fail("OnNthBusinessDay(%d): n must be >= 1", n)
	}
	b.spec.n = n
	return b.setAnchor(anchorNthBusinessDay)
}

// OnNthLastBusinessDay anchors counting backward from month end; n=1 is the
// last business day.
func (b *RuleBuilder) OnNthLastBusinessDay(n int) *RuleBuilder {
	if n < 1 {
		return b.fail("OnNthLastBusinessDay(%d): n must be >= 1", n)
	}
	b.spec.n = n
	return b.setAnchor(anchorNthLastBusinessDay)
}

// OnNthWeekday anchors on the n-th occurrence of a weekday.
func (b *RuleBuilder) OnNthWeekday(n int, wd time.Weekday) *RuleBuilder {
	if n < 1 || n > 5 {
		return b.fail("OnNthWeekday(%d, %s): n must be 1..5", n, wd)
	}
	b.spec.n = n
	b.spec.weekday = wd
	return b.setAnchor(anchorNthWeekday)
}

// OnLastWeekday anchors on the final occurrence of a weekday.
func (b *RuleBuilder) OnLastWeekday(wd time.Weekday) *RuleBuilder {
	b.spec.weekday = wd
	return b.setAnchor(anchorLastWeekday)
}

// OnPublication anchors on a curated publication table entry, falling back
// to the table's documented heuristic for uncurated months.
func (b *RuleBuilder) OnPublication(t *PublicationTable) *RuleBuilder {
	if t == nil {
		return b.fail("OnPublication(nil)")
	}
	b.spec.table = t
	return b.setAnchor(anchorPublication)
}

// AdjustBackward shifts the anchored date one business day at a time toward
// the past while it falls on a weekend or holiday.
func (b *RuleBuilder) AdjustBackward() *RuleBuilder {
	b.spec.adjust = adjustBackward
	return b
}

// AdjustForward is the forward-direction counterpart of AdjustBackward.
func (b *RuleBuilder) AdjustForward() *RuleBuilder {
	b.spec.adjust = adjustForward
	return b
}

// MinusBusinessDays walks the candidate n business days into the past after
// any holiday adjustment.
func (b *RuleBuilder) MinusBusinessDays(n int) *RuleBuilder {
	if n < 0 {
		return b.fail("MinusBusinessDays(%d): n must be >= 0", n)
	}
	b.spec.walk = -n
	return b
}

// PlusBusinessDays walks the candidate n business days forward after any
// holiday adjustment.
func (b *RuleBuilder) PlusBusinessDays(n int) *RuleBuilder {
	if n < 0 {
		return b.fail("PlusBusinessDays(%d): n must be >= 0", n)
	}
	b.spec.walk = n
	return b
}

// At sets the time-of-day the contract stops trading, as exchange-local
// wall-clock hour and minute. Rules without an At expire at midnight.
func (b *RuleBuilder) At(hour, minute int) *RuleBuilder {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return b.fail("At(%d, %d): out of range", hour, minute)
	}
	b.spec.timeOfDay = time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
	return b
}

// WithHolidays adds rule-specific ad hoc holiday dates (YYYY-MM-DD) that are
// unioned with whatever calendars the contract's registration supplies.
func (b *RuleBuilder) WithHolidays(dates ...string) *RuleBuilder {
	for _, d := range dates {
		if _, err := time.Parse(dateKey, d); err != nil {
			return b.fail("WithHolidays: bad date %q", d)
		}
	}
	if b.spec.extra == nil {
		b.spec.extra = make(HolidaySet, len(dates))
	}
	for _, d := range dates {
		b.spec.extra[d] = struct{}{}
	}
	return b
}

// Build finalizes the rule.
func (b *RuleBuilder) Build() (Rule, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.spec.kind == anchorNone {
		return nil, fmt.Errorf("expiry: rule has no anchor")
	}
	spec := b.spec
	return &spec, nil
}

// MustBuild is Build for the compiled-in product table, where a
// misconfigured rule is a programming error caught at startup.
func (b *RuleBuilder) MustBuild() Rule {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}
