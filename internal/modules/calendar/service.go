package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/expiryd/internal/modules/expiry"
	"github.com/rs/zerolog"
)

// Config controls snapshot construction. Years outside [StartYear, EndYear]
// are simply absent from generated calendars; curated rows are loaded
// whatever their year.
type Config struct {
	Repo      *Repository // nil runs on generated rule sets alone
	StartYear int
	EndYear   int
}

// Service holds the immutable holiday snapshots and implements the expiry
// engine's HolidayProvider. It is built single-threaded at startup and only
// read afterwards, so lookups need no locking.
type Service struct {
	sets map[Key]expiry.HolidaySet
	log  zerolog.Logger
}

// NewService builds the snapshots: generated rule sets first, then curated
// database rows layered on top (a curated closure adds to the generated
// schedule; the union is the calendar).
func NewService(cfg Config, log zerolog.Logger) (*Service, error) {
	if cfg.StartYear == 0 {
		cfg.StartYear = 2000
	}
	if cfg.EndYear == 0 {
		cfg.EndYear = 2050
	}
	if cfg.EndYear < cfg.StartYear {
		return nil, fmt.Errorf("calendar: end year %d before start year %d", cfg.EndYear, cfg.StartYear)
	}

	s := &Service{
		sets: make(map[Key]expiry.HolidaySet, len(builtinRules)),
		log:  log.With().Str("service", "calendar").Logger(),
	}

	for exchange, rules := range builtinRules {
		set := make(expiry.HolidaySet)
		for year := cfg.StartYear; year <= cfg.EndYear; year++ {
			for _, d := range rules.Generate(year) {
				set.Add(d)
			}
		}
		s.sets[Key{Exchange: exchange}] = set
	}

	if cfg.Repo != nil {
		keys, err := cfg.Repo.Keys()
		if err != nil {
			return nil, fmt.Errorf("calendar: loading curated keys: %w", err)
		}
		for _, key := range keys {
			dates, err := cfg.Repo.Holidays(key)
			if err != nil {
				return nil, fmt.Errorf("calendar: loading curated rows: %w", err)
			}
			set, ok := s.sets[key]
			if !ok {
				set = make(expiry.HolidaySet, len(dates))
				s.sets[key] = set
			}
			for _, d := range dates {
				set.Add(d)
			}
			s.log.Debug().
				Str("exchange", key.Exchange).
				Str("product", key.Product).
				Int("dates", len(dates)).
				Msg("Loaded curated calendar")
		}
	}

	s.log.Info().Int("calendars", len(s.sets)).Msg("Calendar snapshots built")
	return s, nil
}

// GetHolidays implements expiry.HolidayProvider. Product-specific calendars
// take precedence; a product with no dedicated calendar falls back to its
// exchange-wide one. An exchange with neither curated nor generated data is
// an error, never an empty set.
func (s *Service) GetHolidays(exchange, product string) (expiry.HolidaySet, error) {
	if product != "" {
		if set, ok := s.sets[Key{Exchange: exchange, Product: product}]; ok {
			return set, nil
		}
	}
	if set, ok := s.sets[Key{Exchange: exchange}]; ok {
		return set, nil
	}
	return nil, fmt.Errorf("no holiday calendar for %s/%s", exchange, product)
}

// Holidays returns the dates of one calendar falling in a year, ascending.
// Used by the HTTP surface; rule evaluation goes through GetHolidays.
func (s *Service) Holidays(exchange, product string, year int) ([]time.Time, error) {
	set, err := s.GetHolidays(exchange, product)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for _, d := range set.Dates() {
		if d.Year() == year {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// Exchanges returns the exchange codes with generated or curated calendars.
func (s *Service) Exchanges() []string {
	seen := make(map[string]struct{})
	for key := range s.sets {
		seen[key.Exchange] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
