package tui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/session"
)

func fieldIndex(m FormModel, id string) int {
	for i, f := range m.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func TestFormNextMergesBuffer(t *testing.T) {
	sess := session.New()
	m := NewFormModel(0, api.NewClient("http://127.0.0.1:0"), sess)

	m.inputs[fieldIndex(m, api.FieldName)].SetValue("田中太郎")
	m.inputs[fieldIndex(m, api.FieldAge)].SetValue("70")

	m, cmd := m.goNext()
	if cmd == nil {
		t.Fatal("goNext should navigate")
	}
	nav, ok := cmd().(navigateMsg)
	if !ok || nav.screen != ScreenStep2 {
		t.Fatalf("goNext should navigate to step2, got %#v", nav)
	}

	if sess.Record.String(api.FieldName) != "田中太郎" {
		t.Error("name not merged into session")
	}
	if sess.Record.String(api.FieldAge) != "70" {
		t.Error("age not merged into session")
	}
}

func TestFormNumberFieldRejectsLetters(t *testing.T) {
	sess := session.New()
	m := NewFormModel(0, api.NewClient("http://127.0.0.1:0"), sess)

	age := m.inputs[fieldIndex(m, api.FieldAge)]
	if age.Validate == nil {
		t.Fatal("number field should carry a validator")
	}
	if err := age.Validate("70"); err != nil {
		t.Errorf("Validate(70) = %v, want accepted", err)
	}
	if err := age.Validate(""); err != nil {
		t.Errorf("Validate(\"\") = %v, optional field must accept empty", err)
	}
	if err := age.Validate("七十"); err == nil {
		t.Error("Validate should reject non-digit input")
	}
	if err := age.Validate("70a"); err == nil {
		t.Error("Validate should reject mixed input")
	}

	// Free-text fields stay unconstrained.
	if name := m.inputs[fieldIndex(m, api.FieldName)]; name.Validate != nil {
		t.Error("text field should not carry the digit validator")
	}
}

func TestFormRoundTripKeepsAllSteps(t *testing.T) {
	sess := session.New()
	client := api.NewClient("http://127.0.0.1:0")

	// Step 1: enter a name, go forward.
	step1 := NewFormModel(0, client, sess)
	step1.inputs[fieldIndex(step1, api.FieldName)].SetValue("田中太郎")
	step1.goNext()

	// Step 2: enter a disease, go back.
	step2 := NewFormModel(1, client, sess)
	step2.inputs[fieldIndex(step2, api.FieldDiseaseName)].SetValue("高血圧")
	step2.goPrev()

	// Step 1 again: previously entered value must be visible and editing
	// it must not drop step 2's data.
	again := NewFormModel(0, client, sess)
	idx := fieldIndex(again, api.FieldName)
	if got := again.inputs[idx].Value(); got != "田中太郎" {
		t.Errorf("revisited step shows %q, want 田中太郎", got)
	}
	again.inputs[idx].SetValue("田中次郎")
	again.goNext()

	if sess.Record.String(api.FieldName) != "田中次郎" {
		t.Error("edited name not merged")
	}
	if sess.Record.String(api.FieldDiseaseName) != "高血圧" {
		t.Error("other step's value lost")
	}
}

func TestFormPhotoTriggerMergesBeforeNavigating(t *testing.T) {
	sess := session.New()
	m := NewFormModel(0, api.NewClient("http://127.0.0.1:0"), sess)

	m.inputs[fieldIndex(m, api.FieldName)].SetValue("田中太郎")
	m.Focus = fieldIndex(m, api.FieldPhotoPath)
	m.focusCurrent()

	m, cmd := m.updateKey(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("photo trigger should navigate")
	}
	nav, ok := cmd().(navigateMsg)
	if !ok || nav.screen != ScreenPhotoCapture {
		t.Fatalf("photo trigger should open the capture screen, got %#v", nav)
	}
	if sess.Record.String(api.FieldName) != "田中太郎" {
		t.Error("step values must be merged before opening the capture screen")
	}
}

func TestFormToggle(t *testing.T) {
	sess := session.New()
	m := NewFormModel(2, api.NewClient("http://127.0.0.1:0"), sess)

	idx := fieldIndex(m, api.FieldHasSupport)
	if idx < 0 {
		t.Fatal("has_support missing from step 3")
	}
	m.Focus = idx
	m, _ = m.updateKey(keyMsg("enter"))
	if !m.Buffer.On(api.FieldHasSupport) {
		t.Error("toggle should flip to on")
	}

	m.goNext()
	if !sess.Record.Flag(api.FieldHasSupport) {
		t.Error("toggle value not merged as a flag")
	}
}

func TestFormSaveCreateClearsSessionAndReturnsToMenu(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/register_user" {
			t.Errorf("path = %s, want /register_user", r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","message":"User registered successfully","user_id":42}`))
	}))
	defer srv.Close()

	sess := session.New()
	sess.Merge(map[string]string{api.FieldName: "田中太郎"})
	m := NewFormModel(3, api.NewClient(srv.URL), sess)

	m, cmd := m.save()
	if !m.Saving {
		t.Error("save should enter the saving state")
	}

	// Run the batched save command by invoking the API directly through
	// the message the command produces.
	msg := findSaveMsg(t, cmd())
	m, navCmd := m.Update(msg)
	if navCmd == nil {
		t.Fatal("successful save should navigate")
	}
	nav, ok := navCmd().(navigateMsg)
	if !ok || nav.screen != ScreenMenu {
		t.Fatalf("new registration should return to the menu, got %#v", nav)
	}
	if len(sess.Record) != 0 {
		t.Error("session should be cleared after a successful registration")
	}
}

func TestFormSaveUpdateReturnsToDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/update_user/7" || r.Method != http.MethodPut {
			t.Errorf("got %s %s, want PUT /update_user/7", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","message":"User updated successfully"}`))
	}))
	defer srv.Close()

	sess := session.New()
	rec := api.NewRecord()
	rec.Set(api.FieldID, int64(7))
	rec.SetString(api.FieldName, "田中太郎")
	sess.StartEdit(rec)
	sess.SelectedID = 7

	m := NewFormModel(3, api.NewClient(srv.URL), sess)
	m, cmd := m.save()

	msg := findSaveMsg(t, cmd())
	m, navCmd := m.Update(msg)
	if navCmd == nil {
		t.Fatal("successful update should navigate")
	}
	nav, ok := navCmd().(navigateMsg)
	if !ok || nav.screen != ScreenDetail {
		t.Fatalf("update should return to the detail screen, got %#v", nav)
	}
	if sess.Editing() {
		t.Error("editing state should be cleared after the update")
	}
	if sess.SelectedID != 7 {
		t.Error("selection should survive so the detail screen can refetch")
	}
}

func TestFormSaveFailureKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"そのメールアドレスは既に使用されています。"}`))
	}))
	defer srv.Close()

	sess := session.New()
	sess.Merge(map[string]string{api.FieldName: "田中太郎"})
	m := NewFormModel(3, api.NewClient(srv.URL), sess)

	m, cmd := m.save()
	msg := findSaveMsg(t, cmd())
	m, navCmd := m.Update(msg)

	if navCmd != nil {
		t.Error("failed save should stay on the form")
	}
	if m.Err == nil {
		t.Error("failure should surface as a status error")
	}
	if sess.Record.String(api.FieldName) != "田中太郎" {
		t.Error("session must be retained after a failed save")
	}
}

func TestFormFirstStepPrevGoesToMenu(t *testing.T) {
	sess := session.New()
	m := NewFormModel(0, api.NewClient("http://127.0.0.1:0"), sess)

	m, cmd := m.goPrev()
	nav, ok := cmd().(navigateMsg)
	if !ok || nav.screen != ScreenMenu {
		t.Fatalf("step 1 back should go to the menu, got %#v", nav)
	}
}

func TestFormBufferExcludesPhotoField(t *testing.T) {
	sess := session.New()
	sess.SetPhoto("data:image/png;base64,aGVsbG8=")
	m := NewFormModel(0, api.NewClient("http://127.0.0.1:0"), sess)

	m.goNext()
	if sess.Photo() != "data:image/png;base64,aGVsbG8=" {
		t.Error("merging a step must not clobber the photo reference")
	}
	if _, ok := m.Buffer[api.FieldPhotoPath]; ok {
		t.Error("photo must not appear in the text buffer")
	}
}

// findSaveMsg extracts the saveCompleteMsg from a possibly batched command
// result.
func findSaveMsg(t *testing.T, msg tea.Msg) saveCompleteMsg {
	t.Helper()
	if m, ok := msg.(saveCompleteMsg); ok {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			if cmd == nil {
				continue
			}
			if m, ok := cmd().(saveCompleteMsg); ok {
				return m
			}
		}
	}
	t.Fatalf("expected saveCompleteMsg, got %#v", msg)
	return saveCompleteMsg{}
}
