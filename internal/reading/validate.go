package reading

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed draft.cue
var draftSchema string

// ValidationError lists every problem found in a draft.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid reading: " + strings.Join(e.Problems, "; ")
}

// Validate checks a draft against the input ranges the diary accepts.
//
// The store itself never range-checks; this is for the presentation layer to
// call before Insert. Each call builds its own CUE context, so Validate is
// safe for concurrent use.
func (d Draft) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(draftSchema, cue.Filename("draft.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile draft schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Draft"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Draft: %w", err)
	}

	v := def.Unify(ctx.Encode(d.fields()))

	var problems []string
	if err := v.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, e.Error())
		}
	}

	// The pattern only checks shape; 2024-02-30 still needs rejecting.
	if _, err := ParseDate(string(d.Date)); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: dedupe(problems)}
	}
	return nil
}

// fields returns the draft as a plain map, omitting absent optionals so the
// schema sees them as missing rather than null.
func (d Draft) fields() map[string]any {
	m := map[string]any{
		"date":      string(d.Date),
		"time_slot": string(d.TimeSlot),
		"systolic":  d.Systolic,
		"diastolic": d.Diastolic,
	}
	if d.Pulse != nil {
		m["pulse"] = *d.Pulse
	}
	if notes := NormalizeNotes(d.Notes); notes != "" {
		m["notes"] = notes
	}
	return m
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
