package calendar

import (
	"fmt"
	"time"

	"database/sql"

	"github.com/aristath/expiryd/internal/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Key identifies one curated calendar in the database. Product is empty for
// exchange-wide calendars.
type Key struct {
	Exchange string
	Product  string
}

// Repository reads and writes curated holiday rows in the calendar
// database. Curation happens out of band (an import tool or manual SQL);
// at runtime the service only reads, once, at startup.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a calendar repository.
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "calendar").Logger(),
	}
}

// Keys returns every (exchange, product) pair with curated rows.
func (r *Repository) Keys() ([]Key, error) {
	rows, err := r.db.Query(`SELECT DISTINCT exchange, product FROM holidays ORDER BY exchange, product`)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar keys: %w", err)
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Exchange, &k.Product); err != nil {
			return nil, fmt.Errorf("failed to scan calendar key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Holidays returns the curated dates for one calendar, ascending.
func (r *Repository) Holidays(key Key) ([]time.Time, error) {
	rows, err := r.db.Query(
		`SELECT date FROM holidays WHERE exchange = ? AND product = ? ORDER BY date`,
		key.Exchange, key.Product,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays for %s/%s: %w", key.Exchange, key.Product, err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan holiday row: %w", err)
		}
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("bad holiday date %q for %s/%s: %w", raw, key.Exchange, key.Product, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Import replaces the curated rows for one calendar inside a single
// transaction and records the import in the audit table. It returns the
// import identifier.
func (r *Repository) Import(key Key, source string, dates []time.Time) (string, error) {
	importID := uuid.New().String()

	err := database.WithTransaction(r.db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`DELETE FROM holidays WHERE exchange = ? AND product = ?`,
			key.Exchange, key.Product,
		); err != nil {
			return fmt.Errorf("failed to clear holidays for %s/%s: %w", key.Exchange, key.Product, err)
		}

		stmt, err := tx.Prepare(
			`INSERT INTO holidays (exchange, product, date, import_id) VALUES (?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("failed to prepare holiday insert: %w", err)
		}
		defer stmt.Close()

		for _, d := range dates {
			if _, err := stmt.Exec(key.Exchange, key.Product, d.Format("2006-01-02"), importID); err != nil {
				return fmt.Errorf("failed to insert holiday %s: %w", d.Format("2006-01-02"), err)
			}
		}

		if _, err := tx.Exec(
			`INSERT INTO calendar_imports (import_id, exchange, product, source, imported_at, row_count)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			importID, key.Exchange, key.Product, source,
			time.Now().UTC().Format(time.RFC3339), len(dates),
		); err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	r.log.Info().
		Str("exchange", key.Exchange).
		Str("product", key.Product).
		Str("import_id", importID).
		Int("rows", len(dates)).
		Msg("Imported calendar")

	return importID, nil
}
