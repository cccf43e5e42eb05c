package store

import (
	"context"
	"fmt"

	"github.com/roach88/bpdiary/internal/reading"
)

// Insert stamps the draft with created_at and its derived id, then writes it.
//
// Uses ON CONFLICT(id) DO NOTHING and reports zero affected rows as
// ErrWriteConflict rather than dropping the reading silently. Within one
// handle created_at is strictly increasing, so a conflict needs a second
// writer stamping the same millisecond for the same date and slot.
//
// No range validation happens here; see reading.Draft.Validate.
func (s *Store) Insert(ctx context.Context, draft reading.Draft) (reading.Reading, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return reading.Reading{}, fmt.Errorf("insert reading: %w", err)
	}

	r := draft.Stamp(s.nextStamp())

	result, err := db.ExecContext(ctx, `
		INSERT INTO records
		(id, date, time_slot, systolic, diastolic, pulse, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID,
		string(r.Date),
		string(r.TimeSlot),
		r.Systolic,
		r.Diastolic,
		nullableInt(r.Pulse),
		nullableString(r.Notes),
		r.CreatedAt,
	)
	if err != nil {
		return reading.Reading{}, unavailable("insert reading", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return reading.Reading{}, unavailable("insert reading: rows affected", err)
	}
	if rowsAffected == 0 {
		return reading.Reading{}, fmt.Errorf("insert reading: %w: id %q already exists", ErrWriteConflict, r.ID)
	}

	s.logger.Debug("reading inserted", "id", r.ID, "date", r.Date, "slot", r.TimeSlot)
	return r, nil
}

// DeleteByID removes the reading with the given id. Deleting an id that does
// not exist succeeds.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return unavailable("delete reading", err)
	}

	// Only used for the log line; a missing row is not an error.
	deleted, _ := result.RowsAffected()
	s.logger.Debug("reading deleted", "id", id, "found", deleted > 0)
	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
