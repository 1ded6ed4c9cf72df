package form

import (
	"github.com/carelog/carelog/internal/api"
)

// Buffer is a step's scratch copy of field values. It is seeded from the
// accumulated record when the step is entered and merged back on any
// navigation away, so revisiting a step shows what was typed before and a
// later merge never clobbers fields the step does not carry.
type Buffer map[string]string

// NewBuffer seeds a buffer for the given step from the record. Photo fields
// are excluded, the capture screen owns those.
func NewBuffer(step Step, rec api.Record) Buffer {
	buf := make(Buffer)
	for _, f := range step.Fields() {
		if f.Kind == KindPhoto {
			continue
		}
		buf[f.ID] = rec.String(f.ID)
	}
	return buf
}

// Values returns the buffer as merge input for the session record.
func (b Buffer) Values() map[string]string {
	out := make(map[string]string, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Toggle flips a 0/1 flag value. Anything other than "1" counts as off.
func (b Buffer) Toggle(id string) {
	if b[id] == "1" {
		b[id] = "0"
	} else {
		b[id] = "1"
	}
}

// On reports whether a flag field is set.
func (b Buffer) On(id string) bool {
	return b[id] == "1"
}
