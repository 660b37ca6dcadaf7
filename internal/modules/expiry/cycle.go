package expiry

import (
	"fmt"
	"time"
)

// Cycle is the fixed subset of calendar months in which a product lists
// contracts. A nil or empty cycle means every month is listed.
type Cycle []time.Month

// Common listing cycles.
var (
	// CycleQuarterly lists March, June, September and December.
	CycleQuarterly = Cycle{time.March, time.June, time.September, time.December}

	// CycleAllMonths lists every calendar month. Equivalent to a nil
	// cycle; spelled out where the product table reads better with it.
	CycleAllMonths = Cycle{
		time.January, time.February, time.March, time.April,
		time.May, time.June, time.July, time.August,
		time.September, time.October, time.November, time.December,
	}
)

// contains reports whether the cycle lists the given month. Empty cycles
// list everything.
func (c Cycle) contains(m time.Month) bool {
	if len(c) == 0 {
		return true
	}
	for _, allowed := range c {
		if allowed == m {
			return true
		}
	}
	return false
}

// NextCycleMonth returns the smallest delivery month >= m whose calendar
// month belongs to the cycle, advancing the year where needed. A month
// that already qualifies is returned unchanged. At most twelve candidates
// are examined; an unreachable cycle (impossible for valid months) is
// reported rather than looped on.
func NextCycleMonth(m DeliveryMonth, cycle Cycle) (DeliveryMonth, error) {
	candidate := m
	for i := 0; i < 12; i++ {
		if cycle.contains(candidate.Month) {
			return candidate, nil
		}
		candidate = candidate.AddMonths(1)
	}
	return DeliveryMonth{}, fmt.Errorf("expiry: cycle %v lists no months", cycle)
}
