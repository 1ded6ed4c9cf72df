// Package session holds the in-progress registration state shared by the
// multi-step form, the photo capture screen and the detail view. A single
// Session value lives for the lifetime of the program; steps merge their
// buffers into it and read back previously entered values when revisited.
package session

import (
	"github.com/carelog/carelog/internal/api"
)

// Session is the mutable working state of the client. The zero value is
// usable and represents "nothing selected, nothing in progress".
type Session struct {
	// Record accumulates field values across form steps. During an edit it
	// is pre-populated from the server copy so untouched fields survive the
	// round trip.
	Record api.Record

	// SelectedID is the record currently shown on the detail screen.
	// Zero means no selection.
	SelectedID int64

	// EditingID is non-zero while the form is revising an existing record.
	// Zero means the form is registering a new one.
	EditingID int64
}

// New returns an empty session.
func New() *Session {
	return &Session{Record: api.NewRecord()}
}

// Clear resets everything, typically after a completed registration or a
// deletion.
func (s *Session) Clear() {
	s.Record = api.NewRecord()
	s.SelectedID = 0
	s.EditingID = 0
}

// StartRegistration prepares the session for a fresh multi-step entry.
// Leftover state from a previous flow must never leak into a new one.
func (s *Session) StartRegistration() {
	s.Clear()
}

// StartEdit seeds the session from an existing record so the form shows the
// current values and untouched fields are preserved on save.
func (s *Session) StartEdit(rec api.Record) {
	s.Record = rec.Clone()
	s.EditingID = rec.ID()
	delete(s.Record, api.FieldID)
	delete(s.Record, api.FieldCreatedAt)
}

// Merge folds a step's buffered values into the accumulated record. Only the
// keys present in values change; everything else is left alone.
func (s *Session) Merge(values map[string]string) {
	if s.Record == nil {
		s.Record = api.NewRecord()
	}
	s.Record.MergeValues(values)
}

// SetPhoto stores a photo reference (data URI or uploaded URL).
func (s *Session) SetPhoto(ref string) {
	if s.Record == nil {
		s.Record = api.NewRecord()
	}
	s.Record.Set(api.FieldPhotoPath, ref)
}

// Photo returns the current photo reference, empty when none is set.
func (s *Session) Photo() string {
	if s.Record == nil {
		return ""
	}
	return s.Record.String(api.FieldPhotoPath)
}

// ClearPhoto removes any stored photo reference.
func (s *Session) ClearPhoto() {
	if s.Record != nil {
		delete(s.Record, api.FieldPhotoPath)
	}
}

// Editing reports whether the form is revising an existing record.
func (s *Session) Editing() bool {
	return s.EditingID != 0
}
