package expiry

import "time"

// Calendar sources, one per listing venue plus the UK country calendar for
// products that settle off London business days. Which source a product
// consults is deliberately per-product configuration: similar products use
// different calendars in practice, and unifying them silently would change
// computed dates. See DESIGN.md.
var (
	calCME   = []CalendarKey{{Exchange: "CME"}}
	calCBOT  = []CalendarKey{{Exchange: "CBOT"}}
	calNYMEX = []CalendarKey{{Exchange: "NYMEX"}}
	calCOMEX = []CalendarKey{{Exchange: "COMEX"}}
	calICE   = []CalendarKey{{Exchange: "ICE"}}
	calUK    = []CalendarKey{{Exchange: "GB"}}
)

func future(product, market string) ContractID {
	return ContractID{Product: product, Market: market, Type: Future}
}

// DefaultRegistrations enumerates the supported products. This table is the
// one-time registry build input; each entry binds a product to exactly one
// rule and the calendars that rule consults.
func DefaultRegistrations() []Registration {
	var (
		// Equity index futures settle to the opening print on the
		// third Friday of the quarterly contract month.
		equityIndex = NewRule().Quarterly().
				OnNthWeekday(3, time.Friday).
				AdjustBackward().
				At(9, 30).
				MustBuild()

		// FX futures stop trading two business days before the third
		// Wednesday, mid-morning local time.
		fxMajor = NewRule().
			OnNthWeekday(3, time.Wednesday).
			MinusBusinessDays(2).
			At(9, 16).
			MustBuild()

		// Short-term rate futures use the same third-Wednesday anchor
		// but count London business days, hence the UK calendar on
		// their registrations below.
		shortRate = NewRule().Quarterly().
				OnNthWeekday(3, time.Wednesday).
				MinusBusinessDays(2).
				At(11, 0).
				MustBuild()

		// Grain futures: the business day prior to the 15th calendar
		// day of the contract month.
		grain = NewRule().
			OnDay(15).
			MinusBusinessDays(1).
			At(12, 0).
			MustBuild()

		// Treasury futures: seventh-last business day of the quarterly
		// contract month.
		treasury = NewRule().Quarterly().
				OnNthLastBusinessDay(7).
				At(12, 1).
				MustBuild()

		// Metals: third-last business day of the delivery month.
		metal = NewRule().
			OnNthLastBusinessDay(3).
			At(13, 30).
			MustBuild()

		// WTI crude: three business days before the 25th of the month
		// prior to delivery; a 25th on a weekend or holiday first
		// settles back onto a business day.
		wtiCrude = NewRule().
				MonthsBack(1).
				OnDay(25).
				AdjustBackward().
				MinusBusinessDays(3).
				At(14, 30).
				MustBuild()

		// Natural gas: three business days before the first calendar
		// day of the delivery month.
		natGas = NewRule().
			OnDay(1).
			MinusBusinessDays(3).
			At(14, 30).
			MustBuild()

		// Refined products: last business day of the month prior.
		refined = NewRule().
			MonthsBack(1).
			OnNthLastBusinessDay(1).
			At(14, 30).
			MustBuild()

		// Balance-of-month crude: expires with its own month, on the
		// last business day. The product consults a hard-coded closure
		// list rather than the exchange calendar; the two disagree in
		// the source data and the discrepancy is preserved on purpose.
		balmoCrude = NewRule().
				OnNthLastBusinessDay(1).
				WithHolidays("2024-12-24", "2025-12-24").
				At(14, 30).
				MustBuild()

		// Class III milk: trading stops the business day before the
		// USDA announces the month's price.
		milk = NewRule().
			OnPublication(DairyReportDates).
			MinusBusinessDays(1).
			At(12, 10).
			MustBuild()

		// Pipeline-indexed Canadian crude: one business day before the
		// operator's notice-of-shipment date for the delivery month.
		pipelineCrude = NewRule().
				OnPublication(ShipmentNoticeDates).
				MinusBusinessDays(1).
				At(14, 30).
				MustBuild()

		// Brent: last business day of the second month preceding
		// delivery, on London business days.
		brent = NewRule().
			MonthsBack(2).
			OnNthLastBusinessDay(1).
			At(19, 30).
			MustBuild()

		// Live cattle: last business day of the contract month, noon.
		liveCattle = NewRule().
				InCycle(Cycle{time.February, time.April, time.June, time.August, time.October, time.December}).
				OnNthLastBusinessDay(1).
				At(12, 0).
				MustBuild()

		sugar = NewRule().
			InCycle(Cycle{time.March, time.May, time.July, time.October}).
			MonthsBack(1).
			OnNthLastBusinessDay(1).
			MustBuild()

		coffee = NewRule().
			InCycle(Cycle{time.March, time.May, time.July, time.September, time.December}).
			OnNthLastBusinessDay(9).
			MustBuild()

		cotton = NewRule().
			InCycle(Cycle{time.March, time.May, time.July, time.October, time.December}).
			OnNthLastBusinessDay(17).
			MustBuild()

		goldCycle   = Cycle{time.February, time.April, time.June, time.August, time.October, time.December}
		silverCycle = Cycle{time.January, time.March, time.May, time.July, time.September, time.December}
	)

	gold := NewRule().InCycle(goldCycle).OnNthLastBusinessDay(3).At(13, 30).MustBuild()
	silver := NewRule().InCycle(silverCycle).OnNthLastBusinessDay(3).At(13, 25).MustBuild()

	return []Registration{
		// CME equity index
		{ID: future("ES", "CME"), Rule: equityIndex, Calendars: calCME},
		{ID: future("NQ", "CME"), Rule: equityIndex, Calendars: calCME},
		{ID: future("RTY", "CME"), Rule: equityIndex, Calendars: calCME},

		// CME FX
		{ID: future("6E", "CME"), Rule: fxMajor, Calendars: calCME},
		{ID: future("6J", "CME"), Rule: fxMajor, Calendars: calCME},
		{ID: future("6B", "CME"), Rule: fxMajor, Calendars: calCME},

		// CME rates settle off London business days, not exchange ones.
		{ID: future("SR3", "CME"), Rule: shortRate, Calendars: calUK},

		// CME livestock and dairy
		{ID: future("LE", "CME"), Rule: liveCattle, Calendars: calCME},
		{ID: future("GF", "CME"), Rule: RuleFunc(feederCattleExpiry), Calendars: calCME},
		{ID: future("DC", "CME"), Rule: milk, Calendars: calCME},

		// CBOT grains and treasuries
		{ID: future("ZC", "CBOT"), Rule: grain, Calendars: calCBOT},
		{ID: future("ZW", "CBOT"), Rule: grain, Calendars: calCBOT},
		{ID: future("ZS", "CBOT"), Rule: grain, Calendars: calCBOT},
		{ID: future("ZN", "CBOT"), Rule: treasury, Calendars: calCBOT},
		{ID: future("ZB", "CBOT"), Rule: treasury, Calendars: calCBOT},

		// NYMEX energy
		{ID: future("CL", "NYMEX"), Rule: wtiCrude, Calendars: calNYMEX},
		{ID: future("NG", "NYMEX"), Rule: natGas, Calendars: calNYMEX},
		{ID: future("RB", "NYMEX"), Rule: refined, Calendars: calNYMEX},
		{ID: future("HO", "NYMEX"), Rule: refined, Calendars: calNYMEX},
		{ID: future("CLB", "NYMEX"), Rule: balmoCrude}, // ad hoc closure list only
		{ID: future("WCC", "NYMEX"), Rule: pipelineCrude, Calendars: calNYMEX},

		// COMEX metals
		{ID: future("GC", "COMEX"), Rule: gold, Calendars: calCOMEX},
		{ID: future("SI", "COMEX"), Rule: silver, Calendars: calCOMEX},
		{ID: future("HG", "COMEX"), Rule: metal, Calendars: calCOMEX},

		// ICE
		{ID: future("B", "ICE"), Rule: brent, Calendars: append(append([]CalendarKey{}, calICE...), calUK...)},
		{ID: future("SB", "ICE"), Rule: sugar, Calendars: calICE},
		{ID: future("KC", "ICE"), Rule: coffee, Calendars: calICE},
		{ID: future("CT", "ICE"), Rule: cotton, Calendars: calICE},
	}
}

// feederCattleExpiry is one of the hand-written rules: feeder cattle settles
// on the last Thursday of the contract month, except when that Thursday is
// an exchange holiday (Thanksgiving in November), in which case trading
// stops on the Thursday before it. The declarative pipeline cannot express
// the jump-a-full-week behavior, so the product keeps a function rule.
func feederCattleExpiry(m DeliveryMonth, holidays []HolidaySet) (time.Time, error) {
	if err := m.Validate(); err != nil {
		return time.Time{}, err
	}
	d := LastWeekdayOfMonth(m.Year, m.Month, time.Thursday)
	if !isBusinessDay(d, holidays...) {
		d = d.AddDate(0, 0, -7)
		d = nearestBusinessDay(d, true, holidays...)
	}
	return d.Add(13 * time.Hour), nil
}
