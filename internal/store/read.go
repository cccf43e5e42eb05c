package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/bpdiary/internal/reading"
)

const recordColumns = `id, date, time_slot, systolic, diastolic, pulse, notes, created_at`

// FetchAll returns every reading, most recent first.
// Ordering comes from the by_createdAt index: ORDER BY created_at DESC, id DESC.
//
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) FetchAll(ctx context.Context) ([]reading.Reading, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch all: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records INDEXED BY by_createdAt
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, unavailable("fetch all", err)
	}
	return collectReadings(rows, "fetch all")
}

// FetchByDateRange returns readings whose date lies in [start, end], both
// inclusive, using the by_date index. Results use the same ordering as
// FetchAll.
//
// start after end yields an empty slice. Bounds are compared as text, so a
// malformed bound gives a best-effort result rather than an error.
func (s *Store) FetchByDateRange(ctx context.Context, start, end reading.Date) ([]reading.Reading, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch by date range: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records INDEXED BY by_date
		WHERE date BETWEEN ? AND ?
		ORDER BY created_at DESC, id DESC
	`, string(start), string(end))
	if err != nil {
		return nil, unavailable("fetch by date range", err)
	}
	return collectReadings(rows, "fetch by date range")
}

// Count returns the number of stored readings.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("count readings: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, unavailable("count readings", err)
	}
	return n, nil
}

// collectReadings drains rows into a slice and closes them.
func collectReadings(rows *sql.Rows, op string) ([]reading.Reading, error) {
	defer rows.Close()

	readings := []reading.Reading{}
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable(op+": iterate", err)
	}

	return readings, nil
}

// scanReading scans a row into a Reading.
func scanReading(rows *sql.Rows) (reading.Reading, error) {
	var r reading.Reading
	var date, slot string
	var pulse sql.NullInt64
	var notes sql.NullString

	if err := rows.Scan(
		&r.ID, &date, &slot, &r.Systolic, &r.Diastolic, &pulse, &notes, &r.CreatedAt,
	); err != nil {
		return reading.Reading{}, fmt.Errorf("scan reading: %w", err)
	}

	r.Date = reading.Date(date)
	r.TimeSlot = reading.TimeSlot(slot)
	if pulse.Valid {
		r.Pulse = reading.IntPtr(int(pulse.Int64))
	}
	if notes.Valid {
		r.Notes = notes.String
	}

	return r, nil
}
