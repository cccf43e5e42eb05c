package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/bpdiary/internal/reading"
)

// SortOrder orders days by calendar date.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder accepts "asc" or "desc" in any case.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case Ascending, Descending:
		return order, nil
	}
	return "", fmt.Errorf("unknown sort order %q: must be asc or desc", s)
}

// Slot is one time slot of one day.
type Slot struct {
	// Reading is the representative reading, nil when the slot is empty.
	Reading *reading.Reading `json:"reading"`

	// Shadowed holds earlier readings for the same slot that Reading
	// displaced, in input order.
	Shadowed []reading.Reading `json:"shadowed,omitempty"`
}

// Empty reports whether the slot has no readings at all.
func (s Slot) Empty() bool {
	return s.Reading == nil
}

// Day is every reading filed under one date, split by slot.
type Day struct {
	Date    reading.Date `json:"date"`
	Morning Slot         `json:"morning"`
	Evening Slot         `json:"evening"`
}

// Slot returns the day's slot for ts.
func (d Day) Slot(ts reading.TimeSlot) Slot {
	if ts == reading.Evening {
		return d.Evening
	}
	return d.Morning
}

// GroupByDay buckets records by date and orders the days by order.
//
// Within a day each slot is represented by the last matching record in input
// order; earlier matches land in that slot's Shadowed list, so every record
// with a morning or evening time slot appears in exactly one slot of the
// result. Records with any other time slot are dropped.
// Empty input yields an empty, non-nil slice.
func GroupByDay(records []reading.Reading, order SortOrder) []Day {
	idx := indexBySlot(records)

	days := make([]Day, 0, len(idx))
	for date := range idx {
		days = append(days, Day{
			Date:    date,
			Morning: buildSlot(idx[date][reading.Morning]),
			Evening: buildSlot(idx[date][reading.Evening]),
		})
	}

	slices.SortFunc(days, func(a, b Day) int {
		if order == Ascending {
			return strings.Compare(string(a.Date), string(b.Date))
		}
		return strings.Compare(string(b.Date), string(a.Date))
	})

	return days
}

func buildSlot(readings []reading.Reading) Slot {
	if len(readings) == 0 {
		return Slot{}
	}
	last := readings[len(readings)-1]
	slot := Slot{Reading: &last}
	if len(readings) > 1 {
		slot.Shadowed = slices.Clone(readings[:len(readings)-1])
	}
	return slot
}
