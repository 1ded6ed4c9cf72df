package session

import (
	"testing"

	"github.com/carelog/carelog/internal/api"
)

func TestMergeAccumulatesAcrossSteps(t *testing.T) {
	s := New()
	s.StartRegistration()

	// Step 1 then step 2, the way the form submits them.
	s.Merge(map[string]string{
		api.FieldName: "田中太郎",
		api.FieldAge:  "70",
	})
	s.Merge(map[string]string{
		api.FieldDiseaseName: "高血圧",
	})

	if s.Record.String(api.FieldName) != "田中太郎" {
		t.Error("step 1 value lost after step 2 merge")
	}
	if s.Record.String(api.FieldDiseaseName) != "高血圧" {
		t.Error("step 2 value missing")
	}
}

func TestStartEditSeedsFromRecord(t *testing.T) {
	rec := api.NewRecord()
	rec.Set(api.FieldID, int64(7))
	rec.Set(api.FieldCreatedAt, "2026-08-01 10:00:00")
	rec.SetString(api.FieldName, "田中太郎")

	s := New()
	s.StartEdit(rec)

	if !s.Editing() || s.EditingID != 7 {
		t.Errorf("EditingID = %d, want 7", s.EditingID)
	}
	if s.Record.String(api.FieldName) != "田中太郎" {
		t.Error("seed value missing")
	}
	if _, ok := s.Record[api.FieldID]; ok {
		t.Error("server-managed id should not be part of the payload")
	}
	if _, ok := s.Record[api.FieldCreatedAt]; ok {
		t.Error("server-managed created_at should not be part of the payload")
	}

	// Editing a copy, not the caller's record.
	s.Merge(map[string]string{api.FieldName: "佐藤花子"})
	if rec.String(api.FieldName) != "田中太郎" {
		t.Error("StartEdit should clone, not alias, the source record")
	}
}

func TestPhotoLifecycle(t *testing.T) {
	s := New()
	if s.Photo() != "" {
		t.Error("new session should have no photo")
	}

	s.SetPhoto("data:image/png;base64,aGVsbG8=")
	if s.Photo() != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("Photo() = %q", s.Photo())
	}

	s.ClearPhoto()
	if s.Photo() != "" {
		t.Error("ClearPhoto should remove the reference")
	}
}

func TestClearResetsEverything(t *testing.T) {
	s := New()
	s.SelectedID = 7
	s.EditingID = 7
	s.Merge(map[string]string{api.FieldName: "田中太郎"})

	s.Clear()

	if s.SelectedID != 0 || s.EditingID != 0 {
		t.Error("ids should be reset")
	}
	if len(s.Record) != 0 {
		t.Error("record should be empty")
	}
}

func TestZeroValueIsUsable(t *testing.T) {
	var s Session
	s.Merge(map[string]string{api.FieldName: "田中太郎"})
	if s.Record.String(api.FieldName) != "田中太郎" {
		t.Error("merge into zero-value session failed")
	}
	s.SetPhoto("x")
	s.ClearPhoto()
}
