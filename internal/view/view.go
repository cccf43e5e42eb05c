// Package view turns an in-memory list of readings into the shapes the
// presentation layer draws: a day-by-day history and a fixed-width chart
// series.
//
// Every function here is pure and safe for concurrent use.
//
// # Duplicate Policy
//
// Nothing stops two readings sharing a date and time slot. Both GroupByDay
// and BuildChartSeries resolve that the same way: the reading that comes last
// in the input order represents the slot. GroupByDay also keeps the readings
// it displaced, so none are lost from the history. Readings whose time slot
// is neither morning nor evening belong to no slot and are left out of both.
package view

import (
	"github.com/roach88/bpdiary/internal/reading"
)

// slotIndex maps date -> slot -> readings in input order.
type slotIndex map[reading.Date]map[reading.TimeSlot][]reading.Reading

func indexBySlot(records []reading.Reading) slotIndex {
	idx := make(slotIndex)
	for _, r := range records {
		if !r.TimeSlot.Valid() {
			continue
		}
		day, ok := idx[r.Date]
		if !ok {
			day = make(map[reading.TimeSlot][]reading.Reading, len(reading.TimeSlots))
			idx[r.Date] = day
		}
		day[r.TimeSlot] = append(day[r.TimeSlot], r)
	}
	return idx
}

// pick returns the representative reading for a slot: the last in input
// order, or nil when the slot is empty.
func (idx slotIndex) pick(date reading.Date, slot reading.TimeSlot) *reading.Reading {
	readings := idx[date][slot]
	if len(readings) == 0 {
		return nil
	}
	r := readings[len(readings)-1]
	return &r
}
