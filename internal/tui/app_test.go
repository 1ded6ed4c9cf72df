package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelog/carelog/internal/api"
)

// fakeCamera is a test double for the capture device.
type fakeCamera struct {
	opened   bool
	closes   int
	frame    string
	captures int
}

func (f *fakeCamera) Open(ctx context.Context) error {
	f.opened = true
	return nil
}

func (f *fakeCamera) Capture(ctx context.Context) (string, error) {
	f.captures++
	return f.frame, nil
}

func (f *fakeCamera) Close() error {
	f.closes++
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs a command chain until it stops producing messages, handing
// each message back to the model. Batched async commands are skipped; the
// tests inject their completion messages directly.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		switch msg.(type) {
		case tea.BatchMsg, tea.QuitMsg:
			return m
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func newTestApp() AppModel {
	app := NewAppModel(api.NewClient("http://127.0.0.1:0"), &fakeCamera{frame: "data:image/png;base64,aGVsbG8="})
	app.Width = 100
	app.Height = 40
	return app
}

func TestMenuRegistrationClearsSessionAndOpensStep1(t *testing.T) {
	app := newTestApp()
	app.Session.Merge(map[string]string{api.FieldName: "残留データ"})
	app.Session.EditingID = 9

	// Cursor starts on 新規利用者登録.
	model, cmd := app.Update(keyMsg("enter"))
	model = drain(t, model, cmd)

	got := model.(AppModel)
	if got.CurrentScreen != ScreenStep1 {
		t.Fatalf("screen = %s, want %s", got.CurrentScreen, ScreenStep1)
	}
	if len(got.Session.Record) != 0 || got.Session.EditingID != 0 {
		t.Error("starting a registration should clear the session")
	}
}

func TestMenuListNavigation(t *testing.T) {
	app := newTestApp()

	model, _ := app.Update(keyMsg("j"))
	model, cmd := model.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("selecting 登録者一覧 should produce a command")
	}
	msg := cmd()
	nav, ok := msg.(navigateMsg)
	if !ok || nav.screen != ScreenList {
		t.Fatalf("msg = %#v, want navigate to list", msg)
	}

	model, _ = model.Update(msg)
	if model.(AppModel).CurrentScreen != ScreenList {
		t.Errorf("screen = %s, want %s", model.(AppModel).CurrentScreen, ScreenList)
	}
}

func TestLeavingPhotoScreenReleasesCamera(t *testing.T) {
	cam := &fakeCamera{frame: "data:image/png;base64,aGVsbG8="}
	app := NewAppModel(api.NewClient("http://127.0.0.1:0"), cam)
	app.Width, app.Height = 100, 40

	model, _ := app.Update(navigateMsg{screen: ScreenPhotoCapture})
	model, _ = model.Update(navigateMsg{screen: ScreenStep1})

	if cam.closes == 0 {
		t.Error("navigating away from the capture screen must close the camera")
	}
	if model.(AppModel).CurrentScreen != ScreenStep1 {
		t.Errorf("screen = %s, want %s", model.(AppModel).CurrentScreen, ScreenStep1)
	}
}

func TestQuitFromPhotoScreenReleasesCamera(t *testing.T) {
	cam := &fakeCamera{}
	app := NewAppModel(api.NewClient("http://127.0.0.1:0"), cam)

	model, _ := app.Update(navigateMsg{screen: ScreenPhotoCapture})
	_, cmd := model.Update(quitMsg{})

	if cam.closes == 0 {
		t.Error("quitting from the capture screen must close the camera")
	}
	if cmd == nil {
		t.Fatal("quit should produce tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should emit tea.QuitMsg")
	}
}

func TestStaleResponseForInactiveScreenIsDropped(t *testing.T) {
	app := newTestApp()

	// A list response arriving while the menu is active must not panic or
	// change the screen.
	model, _ := app.Update(recordsLoadedMsg{records: []api.Summary{{ID: 1, Name: "田中太郎"}}})
	got := model.(AppModel)
	if got.CurrentScreen != ScreenMenu {
		t.Errorf("screen = %s, want %s", got.CurrentScreen, ScreenMenu)
	}
	if len(got.ListModel.RecordList.Items()) != 0 {
		t.Error("inactive screen should not receive responses")
	}
}

func TestStepIndexFor(t *testing.T) {
	for i, screen := range stepScreens {
		if got := stepIndexFor(screen); got != i {
			t.Errorf("stepIndexFor(%s) = %d, want %d", screen, got, i)
		}
	}
	if got := stepIndexFor(ScreenMenu); got != 0 {
		t.Errorf("stepIndexFor(menu) = %d, want 0", got)
	}
}
