package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/bpdiary/internal/reading"
	"github.com/roach88/bpdiary/internal/testutil"
)

// testEpoch is 2024-01-10 08:00 UTC.
var testEpoch = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

// createTestStore creates a new file-backed store for testing whose clock
// starts at testEpoch and advances one second per insert.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	clock := testutil.NewStepClock(testEpoch, time.Second)
	return createTestStoreWithClock(t, clock.Now)
}

func createTestStoreWithClock(t *testing.T, now func() time.Time) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), path, WithClock(now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestDraft creates a draft with minimal required fields.
func createTestDraft(date string, slot reading.TimeSlot, systolic, diastolic int) reading.Draft {
	return reading.Draft{
		Date:      reading.Date(date),
		TimeSlot:  slot,
		Systolic:  systolic,
		Diastolic: diastolic,
	}
}

// mustInsert inserts a draft or fails the test.
func mustInsert(t *testing.T, s *Store, d reading.Draft) reading.Reading {
	t.Helper()
	r, err := s.Insert(context.Background(), d)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	return r
}

func ids(readings []reading.Reading) []string {
	out := make([]string, len(readings))
	for i, r := range readings {
		out[i] = r.ID
	}
	return out
}
