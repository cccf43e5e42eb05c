// Package report renders a list of readings as a standalone HTML page for
// saving or printing outside the diary.
package report

import (
	"bytes"
	"cmp"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/bpdiary/internal/reading"
)

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "Blood pressure diary"

// Placeholder is shown for an absent pulse or note.
const Placeholder = "-"

const (
	rowDateLayout       = "2 Jan 2006"
	generatedAtLayout   = "2 January 2006 15:04 MST"
	reportNamespaceName = "https://github.com/roach88/bpdiary/report"
)

// reportNamespace scopes report ids so they never collide with other
// name-based UUIDs.
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(reportNamespaceName))

var page = template.Must(template.New("report").Parse(pageTemplate))

// Options controls the page header.
type Options struct {
	Title       string
	GeneratedAt time.Time

	// Location renders GeneratedAt; nil keeps GeneratedAt's own location.
	Location *time.Location
}

// Snapshot is the data behind one rendered page.
type Snapshot struct {
	Title       string
	GeneratedAt string
	Total       int
	ReportID    string
	Rows        []Row
}

// Row is one reading as displayed.
type Row struct {
	Status    reading.Status
	Date      string
	Slot      string
	Systolic  int
	Diastolic int
	Pulse     string
	Notes     string
}

// Export renders records as a self-contained HTML document.
//
// Rows are ordered by created_at descending, ties by id descending, whatever
// order records arrive in. Given the same records and the same
// GeneratedAt, the output is byte-identical.
func Export(records []reading.Reading, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, Build(records, opts)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render writes the snapshot as HTML to w.
func Render(w io.Writer, snap Snapshot) error {
	if err := page.Execute(w, snap); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// Build sorts records and prepares the page data without rendering it.
func Build(records []reading.Reading, opts Options) Snapshot {
	sorted := Sorted(records)

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	generated := opts.GeneratedAt
	if opts.Location != nil {
		generated = generated.In(opts.Location)
	}

	rows := make([]Row, len(sorted))
	for i, r := range sorted {
		rows[i] = toRow(r)
	}

	return Snapshot{
		Title:       title,
		GeneratedAt: generated.Format(generatedAtLayout),
		Total:       len(sorted),
		ReportID:    ReportID(sorted),
		Rows:        rows,
	}
}

// Sorted returns a copy of records ordered most recent first.
func Sorted(records []reading.Reading) []reading.Reading {
	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b reading.Reading) int {
		if c := cmp.Compare(b.CreatedAt, a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return sorted
}

// ReportID is a name-based UUID over the sorted readings. Two exports of the
// same data share an id; any change to the data changes it. The generation
// time does not take part. String fields are quoted so free-text notes
// cannot blur the boundary between fields or rows.
func ReportID(sorted []reading.Reading) string {
	var b strings.Builder
	for _, r := range sorted {
		fmt.Fprintf(&b, "%q %q %q %d %d %q %q %d\n",
			r.ID, r.Date, r.TimeSlot, r.Systolic, r.Diastolic, pulseText(r.Pulse), r.Notes, r.CreatedAt)
	}
	return uuid.NewSHA1(reportNamespace, []byte(b.String())).String()
}

func toRow(r reading.Reading) Row {
	notes := r.Notes
	if notes == "" {
		notes = Placeholder
	}
	return Row{
		Status:    r.Status(),
		Date:      formatDate(r.Date),
		Slot:      r.TimeSlot.Label(),
		Systolic:  r.Systolic,
		Diastolic: r.Diastolic,
		Pulse:     pulseText(r.Pulse),
		Notes:     notes,
	}
}

func formatDate(d reading.Date) string {
	t, err := d.Time()
	if err != nil {
		return string(d)
	}
	return t.Format(rowDateLayout)
}

func pulseText(p *int) string {
	if p == nil {
		return Placeholder
	}
	return strconv.Itoa(*p)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #1f2933; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #cbd2d9; padding: 4px 8px; text-align: left; }
th { background: #f5f7fa; }
tr.elevated td { color: #c62828; }
tr.low td { color: #b26a00; }
.meta { color: #52606d; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
<p>generated at {{.GeneratedAt}}</p>
<p>total records: {{.Total}}</p>
<p>report id: {{.ReportID}}</p>
</div>
<table>
<thead>
<tr><th>Date</th><th>Time-of-day</th><th>Systolic</th><th>Diastolic</th><th>Pulse</th><th>Notes</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr class="{{.Status}}"><td>{{.Date}}</td><td>{{.Slot}}</td><td>{{.Systolic}}</td><td>{{.Diastolic}}</td><td>{{.Pulse}}</td><td>{{.Notes}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`
