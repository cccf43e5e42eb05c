package reading

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DateLayout is the storage and wire layout of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form.
//
// Valid dates compare lexically in chronological order, which is what the
// by_date index relies on.
type Date string

// ParseDate validates s as a real calendar day.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns midnight UTC of the day. Day arithmetic is done in UTC so
// daylight-saving transitions never shift a day.
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", string(d))
	}
	return t, nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) (Date, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return DateOf(t.AddDate(0, 0, n)), nil
}

func (d Date) String() string {
	return string(d)
}

// TimeSlot is the coarse part of the day a reading was taken in.
type TimeSlot string

const (
	Morning TimeSlot = "morning"
	Evening TimeSlot = "evening"
)

// TimeSlots lists every slot in display order.
var TimeSlots = []TimeSlot{Morning, Evening}

// ParseTimeSlot accepts "morning" or "evening" in any case.
func ParseTimeSlot(s string) (TimeSlot, error) {
	slot := TimeSlot(strings.ToLower(strings.TrimSpace(s)))
	if !slot.Valid() {
		return "", fmt.Errorf("invalid time slot %q: must be one of %v", s, TimeSlots)
	}
	return slot, nil
}

// Valid reports whether the slot is morning or evening.
func (s TimeSlot) Valid() bool {
	return s == Morning || s == Evening
}

// Label is the human-readable slot name used in listings and reports.
func (s TimeSlot) Label() string {
	switch s {
	case Morning:
		return "Morning"
	case Evening:
		return "Evening"
	default:
		return string(s)
	}
}

// SlotAt picks the slot a new reading defaults to: morning before noon,
// evening from noon on.
func SlotAt(t time.Time) TimeSlot {
	if t.Hour() < 12 {
		return Morning
	}
	return Evening
}

// Reading is one persisted blood-pressure measurement.
//
// ID, Date, TimeSlot and CreatedAt never change after insertion.
type Reading struct {
	ID        string   `json:"id"`
	Date      Date     `json:"date"`
	TimeSlot  TimeSlot `json:"time_slot"`
	Systolic  int      `json:"systolic"`
	Diastolic int      `json:"diastolic"`
	Pulse     *int     `json:"pulse,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	CreatedAt int64    `json:"created_at"`
}

// Status classifies the reading's pressure.
func (r Reading) Status() Status {
	return Classify(r.Systolic, r.Diastolic)
}

// Draft is a reading before insertion: everything except ID and CreatedAt.
type Draft struct {
	Date      Date     `json:"date"`
	TimeSlot  TimeSlot `json:"time_slot"`
	Systolic  int      `json:"systolic"`
	Diastolic int      `json:"diastolic"`
	Pulse     *int     `json:"pulse,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Stamp turns the draft into a Reading created at createdAt (epoch ms).
// Notes are normalized on the way.
func (d Draft) Stamp(createdAt int64) Reading {
	var pulse *int
	if d.Pulse != nil {
		p := *d.Pulse
		pulse = &p
	}
	return Reading{
		ID:        ID(d.Date, d.TimeSlot, createdAt),
		Date:      d.Date,
		TimeSlot:  d.TimeSlot,
		Systolic:  d.Systolic,
		Diastolic: d.Diastolic,
		Pulse:     pulse,
		Notes:     NormalizeNotes(d.Notes),
		CreatedAt: createdAt,
	}
}

// ID derives a reading identifier from its date, slot and creation stamp.
//
// Format: "2024-01-10-morning-1704873600000"
func ID(date Date, slot TimeSlot, createdAt int64) string {
	return fmt.Sprintf("%s-%s-%d", date, slot, createdAt)
}

// NormalizeNotes trims surrounding whitespace and applies Unicode NFC so the
// same text typed on different keyboards stores identically. Whitespace-only
// notes become empty, which means absent.
func NormalizeNotes(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// IntPtr returns a pointer to v. Convenience for optional fields.
func IntPtr(v int) *int {
	return &v
}
