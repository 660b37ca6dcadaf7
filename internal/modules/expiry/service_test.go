package expiry

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves fixed holiday sets and records lookups.
type fakeProvider struct {
	sets    map[CalendarKey]HolidaySet
	lookups []CalendarKey
}

func (f *fakeProvider) GetHolidays(exchange, product string) (HolidaySet, error) {
	key := CalendarKey{Exchange: exchange, Product: product}
	f.lookups = append(f.lookups, key)
	set, ok := f.sets[key]
	if !ok {
		return nil, fmt.Errorf("no holiday calendar for %s/%s", exchange, product)
	}
	return set, nil
}

func newTestService(t *testing.T, regs []Registration, provider HolidayProvider) *Service {
	t.Helper()
	registry, err := NewRegistry(regs)
	require.NoError(t, err)
	return NewService(registry, provider, zerolog.Nop())
}

func TestServiceResolveExpiry(t *testing.T) {
	id := ContractID{Product: "ES", Market: "CME", Type: Future}
	provider := &fakeProvider{sets: map[CalendarKey]HolidaySet{
		{Exchange: "CME"}: MustParseHolidaySet("2024-06-19"),
	}}
	svc := newTestService(t, []Registration{{
		ID:        id,
		Rule:      NewRule().Quarterly().OnNthWeekday(3, time.Friday).AdjustBackward().At(9, 30).MustBuild(),
		Calendars: []CalendarKey{{Exchange: "CME"}},
	}}, provider)

	got, err := svc.ResolveExpiry(id, DeliveryMonth{2024, time.June})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 21, 9, 30, 0, 0, time.UTC), got)
	assert.Equal(t, []CalendarKey{{Exchange: "CME"}}, provider.lookups)
}

func TestServiceResolveExpiryHolidayOnAnchor(t *testing.T) {
	id := ContractID{Product: "ES", Market: "CME", Type: Future}
	provider := &fakeProvider{sets: map[CalendarKey]HolidaySet{
		{Exchange: "CME"}: MustParseHolidaySet("2024-06-21"),
	}}
	svc := newTestService(t, []Registration{{
		ID:        id,
		Rule:      NewRule().Quarterly().OnNthWeekday(3, time.Friday).AdjustBackward().At(9, 30).MustBuild(),
		Calendars: []CalendarKey{{Exchange: "CME"}},
	}}, provider)

	got, err := svc.ResolveExpiry(id, DeliveryMonth{2024, time.June})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 20, 9, 30, 0, 0, time.UTC), got)
}

func TestServiceResolveExpiryErrors(t *testing.T) {
	id := ContractID{Product: "B", Market: "ICE", Type: Future}
	provider := &fakeProvider{sets: map[CalendarKey]HolidaySet{
		{Exchange: "ICE"}: NewHolidaySet(),
	}}
	svc := newTestService(t, []Registration{{
		ID:        id,
		Rule:      NewRule().OnNthLastBusinessDay(1).MustBuild(),
		Calendars: []CalendarKey{{Exchange: "ICE"}, {Exchange: "GB"}},
	}}, provider)

	t.Run("unregistered contract", func(t *testing.T) {
		_, err := svc.ResolveExpiry(ContractID{Product: "XX", Market: "ICE", Type: Future}, DeliveryMonth{2024, time.June})
		assert.ErrorIs(t, err, ErrUnsupportedContract)
	})

	t.Run("invalid delivery month", func(t *testing.T) {
		_, err := svc.ResolveExpiry(id, DeliveryMonth{2024, 0})
		assert.ErrorIs(t, err, ErrInvalidDeliveryMonth)
	})

	t.Run("missing calendar surfaces as calendar unavailable", func(t *testing.T) {
		// The ICE set exists but the GB one does not.
		_, err := svc.ResolveExpiry(id, DeliveryMonth{2024, time.June})
		assert.ErrorIs(t, err, ErrCalendarUnavailable)
		assert.Contains(t, err.Error(), "GB")
	})
}

func TestServiceResolveExpiryNoCalendars(t *testing.T) {
	// A registration without calendar keys evaluates against weekends only;
	// the provider must never be consulted.
	id := ContractID{Product: "CLB", Market: "NYMEX", Type: Future}
	provider := &fakeProvider{}
	svc := newTestService(t, []Registration{{
		ID:   id,
		Rule: NewRule().OnNthLastBusinessDay(1).MustBuild(),
	}}, provider)

	got, err := svc.ResolveExpiry(id, DeliveryMonth{2024, time.March})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC), got)
	assert.Empty(t, provider.lookups)
}

func TestServiceResolveExpiryIsPure(t *testing.T) {
	id := ContractID{Product: "CL", Market: "NYMEX", Type: Future}
	provider := &fakeProvider{sets: map[CalendarKey]HolidaySet{
		{Exchange: "NYMEX"}: MustParseHolidaySet("2024-05-27"),
	}}
	svc := newTestService(t, []Registration{{
		ID:        id,
		Rule:      NewRule().MonthsBack(1).OnDay(25).AdjustBackward().MinusBusinessDays(3).At(14, 30).MustBuild(),
		Calendars: []CalendarKey{{Exchange: "NYMEX"}},
	}}, provider)

	first, err := svc.ResolveExpiry(id, DeliveryMonth{2024, time.July})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.ResolveExpiry(id, DeliveryMonth{2024, time.July})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestServiceContracts(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(t, []Registration{
		{
			ID:        ContractID{Product: "ES", Market: "CME", Type: Future},
			Rule:      NewRule().Quarterly().OnNthWeekday(3, time.Friday).AdjustBackward().At(9, 30).MustBuild(),
			Calendars: []CalendarKey{{Exchange: "CME"}},
		},
		{
			ID:   ContractID{Product: "GF", Market: "CME", Type: Future},
			Rule: RuleFunc(func(m DeliveryMonth, holidays []HolidaySet) (time.Time, error) { return time.Time{}, nil }),
		},
	}, provider)

	infos := svc.Contracts()
	require.Len(t, infos, 2)
	assert.Equal(t, "ES", infos[0].ID.Product)
	assert.Contains(t, infos[0].Rule, "3rd Friday")
	assert.Equal(t, "custom rule", infos[1].Rule)
}
