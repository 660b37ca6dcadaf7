package expiry

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNthWeekdayOfMonth(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		weekday time.Weekday
		n       int
		want    time.Time
		wantErr bool
	}{
		{
			name:    "third Friday of March 2024",
			year:    2024, month: time.March, weekday: time.Friday, n: 3,
			want: date(2024, time.March, 15),
		},
		{
			name:    "first Friday falls on day 1",
			year:    2024, month: time.March, weekday: time.Friday, n: 1,
			want: date(2024, time.March, 1),
		},
		{
			name:    "fifth Friday exists in March 2024",
			year:    2024, month: time.March, weekday: time.Friday, n: 5,
			want: date(2024, time.March, 29),
		},
		{
			name:    "fifth Monday missing in March 2024",
			year:    2024, month: time.March, weekday: time.Monday, n: 5,
			wantErr: true,
		},
		{
			name:    "third Friday of June 2024",
			year:    2024, month: time.June, weekday: time.Friday, n: 3,
			want: date(2024, time.June, 21),
		},
		{
			name:    "ordinal below one rejected",
			year:    2024, month: time.March, weekday: time.Friday, n: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NthWeekdayOfMonth(tt.year, tt.month, tt.weekday, tt.n)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLastWeekdayOfMonth(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		weekday time.Weekday
		want    time.Time
	}{
		{"last Thursday of March 2024", 2024, time.March, time.Thursday, date(2024, time.March, 28)},
		{"last Sunday is the final day", 2024, time.March, time.Sunday, date(2024, time.March, 31)},
		{"last Thursday of leap February", 2024, time.February, time.Thursday, date(2024, time.February, 29)},
		{"last Friday of June 2024", 2024, time.June, time.Friday, date(2024, time.June, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastWeekdayOfMonth(tt.year, tt.month, tt.weekday)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNthBusinessDay(t *testing.T) {
	holidays := MustParseHolidaySet("2024-03-01")

	tests := []struct {
		name     string
		n        int
		holidays []HolidaySet
		want     time.Time
		wantErr  bool
	}{
		{"first business day with no holidays", 1, nil, date(2024, time.March, 1), false},
		{"holiday on day one pushes to Monday", 1, []HolidaySet{holidays}, date(2024, time.March, 4), false},
		{"fifth business day skips the weekend", 5, nil, date(2024, time.March, 7), false},
		{"ordinal past month end", 25, nil, time.Time{}, true},
		{"zero ordinal rejected", 0, nil, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NthBusinessDay(2024, time.March, tt.n, tt.holidays...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNthLastBusinessDay(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		holidays []HolidaySet
		want     time.Time
	}{
		{"last business day of March 2024", 1, nil, date(2024, time.March, 29)},
		{"third-last business day", 3, nil, date(2024, time.March, 27)},
		{
			"third-last with a mid-count holiday",
			3,
			[]HolidaySet{MustParseHolidaySet("2024-03-27")},
			date(2024, time.March, 26),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NthLastBusinessDay(2024, time.March, tt.n, tt.holidays...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("ordinal past month start", func(t *testing.T) {
		if _, err := NthLastBusinessDay(2024, time.March, 25); err == nil {
			t.Error("expected error for ordinal beyond business-day count")
		}
	})
}

func TestAddBusinessDays(t *testing.T) {
	holidays := MustParseHolidaySet("2024-03-14")

	tests := []struct {
		name     string
		start    time.Time
		delta    int
		holidays []HolidaySet
		want     time.Time
	}{
		{"zero delta returns input unchanged", date(2024, time.March, 16), 0, nil, date(2024, time.March, 16)},
		{"forward over a weekend", date(2024, time.March, 15), 1, nil, date(2024, time.March, 18)},
		{"backward two days", date(2024, time.March, 15), -2, nil, date(2024, time.March, 13)},
		{"backward skips a holiday", date(2024, time.March, 15), -2, []HolidaySet{holidays}, date(2024, time.March, 12)},
		{"backward from a weekend counts only business days", date(2024, time.March, 17), -1, nil, date(2024, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddBusinessDays(tt.start, tt.delta, tt.holidays...)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestBusinessDay(t *testing.T) {
	holidays := MustParseHolidaySet("2024-03-29")

	tests := []struct {
		name     string
		start    time.Time
		backward bool
		holidays []HolidaySet
		want     time.Time
	}{
		{"business day returned unchanged", date(2024, time.March, 15), true, nil, date(2024, time.March, 15)},
		{"Sunday backward lands on Friday", date(2024, time.March, 31), true, nil, date(2024, time.March, 29)},
		{"Sunday forward lands on Monday", date(2024, time.March, 31), false, nil, date(2024, time.April, 1)},
		{"holiday Friday walks through the prior Thursday", date(2024, time.March, 31), true, []HolidaySet{holidays}, date(2024, time.March, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nearestBusinessDay(tt.start, tt.backward, tt.holidays...)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHolidaySet(t *testing.T) {
	set := NewHolidaySet(date(2024, time.December, 25))

	if !set.Contains(time.Date(2024, time.December, 25, 15, 30, 0, 0, time.UTC)) {
		t.Error("membership should ignore time of day")
	}
	if set.Contains(date(2024, time.December, 26)) {
		t.Error("unexpected member")
	}

	set.Add(date(2024, time.December, 26))
	if !set.Contains(date(2024, time.December, 26)) {
		t.Error("Add should insert the date")
	}
	if len(set.Dates()) != 2 {
		t.Errorf("expected 2 dates, got %d", len(set.Dates()))
	}
}

func TestMustParseHolidaySetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on malformed literal")
		}
	}()
	MustParseHolidaySet("25-12-2024")
}
