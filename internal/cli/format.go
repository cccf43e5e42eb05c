package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/bpdiary/internal/reading"
	"github.com/roach88/bpdiary/internal/report"
	"github.com/roach88/bpdiary/internal/view"
)

// Text renderings shared by the listing commands. Absent values print as
// the report's placeholder so every surface shows gaps the same way.

func pressureText(systolic, diastolic int) string {
	return fmt.Sprintf("%d/%d", systolic, diastolic)
}

func optionalInt(v *int) string {
	if v == nil {
		return report.Placeholder
	}
	return strconv.Itoa(*v)
}

func notesText(notes string) string {
	if notes == "" {
		return report.Placeholder
	}
	return notes
}

// writeReadingLine prints one reading on one line, id first so it can be
// copied into `bpdiary delete`.
func writeReadingLine(w io.Writer, r reading.Reading) {
	fmt.Fprintf(w, "%-32s  %s  %-7s  %7s  %5s  %-8s  %s\n",
		r.ID, r.Date, r.TimeSlot.Label(),
		pressureText(r.Systolic, r.Diastolic), optionalInt(r.Pulse),
		r.Status().Label(), notesText(r.Notes))
}

func writeDay(w io.Writer, day view.Day) {
	fmt.Fprintln(w, day.Date)
	for _, ts := range reading.TimeSlots {
		slot := day.Slot(ts)
		if slot.Empty() {
			fmt.Fprintf(w, "  %-7s  %s\n", ts.Label(), report.Placeholder)
			continue
		}
		r := slot.Reading
		fmt.Fprintf(w, "  %-7s  %7s  %5s  %-8s  %s\n",
			ts.Label(), pressureText(r.Systolic, r.Diastolic), optionalInt(r.Pulse),
			r.Status().Label(), notesText(r.Notes))
		if n := len(slot.Shadowed); n > 0 {
			fmt.Fprintf(w, "  %-7s  +%d more reading(s) in this slot\n", "", n)
		}
	}
}

func writeChart(w io.Writer, series view.Series) {
	if series.Empty {
		fmt.Fprintln(w, "No readings recorded yet.")
	}
	fmt.Fprintf(w, "%-10s  %7s  %7s\n", "DATE", "MORNING", "EVENING")
	for _, p := range series.Points {
		fmt.Fprintf(w, "%-10s  %7s  %7s\n", p.Date,
			chartCell(p.MorningSystolic, p.MorningDiastolic),
			chartCell(p.EveningSystolic, p.EveningDiastolic))
	}
}

func chartCell(systolic, diastolic *int) string {
	if systolic == nil || diastolic == nil {
		return report.Placeholder
	}
	return pressureText(*systolic, *diastolic)
}
