package view

import (
	"time"

	"github.com/roach88/bpdiary/internal/reading"
)

const (
	// DefaultWindow is the chart width in days.
	DefaultWindow = 30

	// MaxWindow caps the chart width at roughly ten years of days.
	MaxWindow = 3660
)

// Point is one day of the chart. A nil value means no reading for that
// slot; it is never reported as zero.
type Point struct {
	Date             reading.Date `json:"date"`
	MorningSystolic  *int         `json:"morning_systolic"`
	MorningDiastolic *int         `json:"morning_diastolic"`
	EveningSystolic  *int         `json:"evening_systolic"`
	EveningDiastolic *int         `json:"evening_diastolic"`
}

// HasData reports whether any of the four values is present.
func (p Point) HasData() bool {
	return p.MorningSystolic != nil || p.MorningDiastolic != nil ||
		p.EveningSystolic != nil || p.EveningDiastolic != nil
}

// Series is a chart window, oldest day first.
type Series struct {
	Points []Point `json:"points"`

	// Empty is set when there were no records at all, as opposed to records
	// that all fall outside the window.
	Empty bool `json:"empty"`
}

// ChartWindowEnd returns the default window end: the calendar day of now in
// now's location.
func ChartWindowEnd(now time.Time) reading.Date {
	return reading.DateOf(now)
}

// BuildChartSeries lays records onto size consecutive days ending at end,
// inclusive, oldest first.
//
// The window always has exactly size points regardless of how sparse the
// records are, so the chart axis never shifts. size <= 0 means
// DefaultWindow and size is clamped to MaxWindow. An unparsable end yields a
// series with no points.
func BuildChartSeries(records []reading.Reading, end reading.Date, size int) Series {
	if size <= 0 {
		size = DefaultWindow
	}
	size = min(size, MaxWindow)

	series := Series{Points: []Point{}, Empty: len(records) == 0}

	first, err := end.AddDays(-(size - 1))
	if err != nil {
		return series
	}
	start, err := first.Time()
	if err != nil {
		return series
	}

	idx := indexBySlot(records)

	series.Points = make([]Point, size)
	for i := range series.Points {
		date := reading.DateOf(start.AddDate(0, 0, i))
		p := Point{Date: date}
		if m := idx.pick(date, reading.Morning); m != nil {
			p.MorningSystolic = reading.IntPtr(m.Systolic)
			p.MorningDiastolic = reading.IntPtr(m.Diastolic)
		}
		if e := idx.pick(date, reading.Evening); e != nil {
			p.EveningSystolic = reading.IntPtr(e.Systolic)
			p.EveningDiastolic = reading.IntPtr(e.Diastolic)
		}
		series.Points[i] = p
	}

	return series
}
