package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/session"
)

const testFrame = "data:image/png;base64,aGVsbG8="

func newPhotoModel(t *testing.T, handler http.HandlerFunc) (PhotoModel, *fakeCamera, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cam := &fakeCamera{frame: testFrame}
	sess := session.New()
	m := NewPhotoModel(api.NewClient(srv.URL), sess, cam)
	m.Width, m.Height = 100, 40
	return m, cam, sess
}

func TestPhotoCaptureUploadsAndConfirmsServerURL(t *testing.T) {
	m, cam, sess := newPhotoModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"photo_url":"http://photos.example/u/42.png"}`))
	})

	m, _ = m.Update(cameraReadyMsg{})
	if m.Phase != PhaseLive {
		t.Fatalf("phase = %d, want live", m.Phase)
	}

	// Capture, then feed the capture result through.
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("capture should issue a command")
	}
	uri, err := cam.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	m, uploadCmd := m.Update(captureCompleteMsg{dataURI: uri})
	if m.Phase != PhaseUploading {
		t.Fatalf("phase = %d, want uploading", m.Phase)
	}

	msg := findUploadMsg(t, uploadCmd())
	m, _ = m.Update(msg)
	if m.Phase != PhaseUploaded {
		t.Fatalf("phase = %d, want uploaded", m.Phase)
	}

	// Confirm stores the server URL and returns to step 1.
	m, navCmd := m.Update(keyMsg("c"))
	nav, ok := navCmd().(navigateMsg)
	if !ok || nav.screen != ScreenStep1 {
		t.Fatalf("confirm should return to step 1, got %#v", nav)
	}
	if sess.Photo() != "http://photos.example/u/42.png" {
		t.Errorf("session photo = %q, want the server URL", sess.Photo())
	}
}

func TestPhotoUploadFailureKeepsLocalFrame(t *testing.T) {
	m, _, sess := newPhotoModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"disk full"}`))
	})

	m, _ = m.Update(cameraReadyMsg{})
	m, _ = m.Update(keyMsg("enter"))
	m, uploadCmd := m.Update(captureCompleteMsg{dataURI: testFrame})

	msg := findUploadMsg(t, uploadCmd())
	m, _ = m.Update(msg)
	if m.Phase != PhaseUploadFailed {
		t.Fatalf("phase = %d, want upload failed", m.Phase)
	}

	// The local frame is still usable.
	m, navCmd := m.Update(keyMsg("c"))
	nav, ok := navCmd().(navigateMsg)
	if !ok || nav.screen != ScreenStep1 {
		t.Fatalf("confirm after failed upload should still work, got %#v", nav)
	}
	if sess.Photo() != testFrame {
		t.Errorf("session photo = %q, want the local data URI", sess.Photo())
	}
}

func TestPhotoConfirmIgnoredWhileUploading(t *testing.T) {
	m, _, sess := newPhotoModel(t, func(w http.ResponseWriter, r *http.Request) {})

	m, _ = m.Update(cameraReadyMsg{})
	m, _ = m.Update(keyMsg("enter"))
	m, _ = m.Update(captureCompleteMsg{dataURI: testFrame})
	if m.Phase != PhaseUploading {
		t.Fatalf("phase = %d, want uploading", m.Phase)
	}

	// The local frame exists, but the upload result is still pending.
	m, navCmd := m.Update(keyMsg("c"))
	if navCmd != nil {
		t.Error("confirm must be ignored while the upload is in flight")
	}
	if m.Phase != PhaseUploading {
		t.Errorf("phase = %d, want still uploading", m.Phase)
	}
	if sess.Photo() != "" {
		t.Errorf("session photo = %q, want none before the upload settles", sess.Photo())
	}
}

func TestPhotoConfirmWithoutCaptureIsRejected(t *testing.T) {
	m, _, sess := newPhotoModel(t, func(w http.ResponseWriter, r *http.Request) {})

	m, _ = m.Update(cameraReadyMsg{})
	m, navCmd := m.Update(keyMsg("c"))
	if navCmd != nil {
		t.Error("confirm with no photo must not navigate")
	}
	if m.Err == nil {
		t.Error("confirm with no photo should surface an error")
	}
	if sess.Photo() != "" {
		t.Error("no photo should be stored")
	}
}

func TestPhotoCancelClearsSessionPhoto(t *testing.T) {
	m, _, sess := newPhotoModel(t, func(w http.ResponseWriter, r *http.Request) {})
	sess.SetPhoto("data:image/png;base64,b2xk")

	m, _ = m.Update(cameraReadyMsg{})
	m, navCmd := m.Update(keyMsg("esc"))
	nav, ok := navCmd().(navigateMsg)
	if !ok || nav.screen != ScreenStep1 {
		t.Fatalf("cancel should return to step 1, got %#v", nav)
	}
	if sess.Photo() != "" {
		t.Error("cancel must clear the photo reference")
	}
}

func TestPhotoRetakeResetsState(t *testing.T) {
	m, _, _ := newPhotoModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"photo_url":"http://photos.example/u/42.png"}`))
	})

	m, _ = m.Update(cameraReadyMsg{})
	m, _ = m.Update(keyMsg("enter"))
	m, uploadCmd := m.Update(captureCompleteMsg{dataURI: testFrame})
	m, _ = m.Update(findUploadMsg(t, uploadCmd()))

	m, _ = m.Update(keyMsg("r"))
	if m.Phase != PhaseLive {
		t.Errorf("phase = %d, want live after retake", m.Phase)
	}
	if m.CapturedURI != "" || m.UploadedURL != "" {
		t.Error("retake should drop both references")
	}
}

func TestPhotoCameraErrorIsTerminal(t *testing.T) {
	m, _, _ := newPhotoModel(t, func(w http.ResponseWriter, r *http.Request) {})

	m, _ = m.Update(cameraReadyMsg{err: api.NewValidationError("no camera")})
	if m.Phase != PhaseCameraError {
		t.Fatalf("phase = %d, want camera error", m.Phase)
	}

	// Capture does nothing without a live camera.
	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("capture must be ignored while the camera is down")
	}
}

// findUploadMsg extracts the uploadCompleteMsg from a possibly batched
// command result.
func findUploadMsg(t *testing.T, msg tea.Msg) uploadCompleteMsg {
	t.Helper()
	if m, ok := msg.(uploadCompleteMsg); ok {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			if cmd == nil {
				continue
			}
			if m, ok := cmd().(uploadCompleteMsg); ok {
				return m
			}
		}
	}
	t.Fatalf("expected uploadCompleteMsg, got %#v", msg)
	return uploadCompleteMsg{}
}
