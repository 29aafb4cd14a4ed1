package history

import (
	"fmt"
	"slices"
	"strings"
)

// Entry records one resolved choice.
type Entry struct {
	Scenario string   `json:"scenario"`
	Choice   string   `json:"choice"`
	Effects  []string `json:"effects,omitempty"`
}

// String renders the entry on one line for summaries.
func (e Entry) String() string {
	if len(e.Effects) == 0 {
		return fmt.Sprintf("%s -> %s", e.Scenario, e.Choice)
	}
	return fmt.Sprintf("%s -> %s (%s)", e.Scenario, e.Choice, strings.Join(e.Effects, ", "))
}

// Recorder is an append-only log of entries.
type Recorder struct {
	entries []Entry
}

// NewRecorder returns a recorder seeded with entries, e.g. from a stored
// session. The slice is copied.
func NewRecorder(entries ...Entry) *Recorder {
	r := &Recorder{}
	for _, e := range entries {
		r.Append(e)
	}
	return r
}

// Append adds an entry. The entry's effects are copied so later changes by
// the caller do not leak into the log.
func (r *Recorder) Append(e Entry) {
	e.Effects = slices.Clone(e.Effects)
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the log in insertion order.
func (r *Recorder) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		e.Effects = slices.Clone(e.Effects)
		out[i] = e
	}
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	return len(r.entries)
}
