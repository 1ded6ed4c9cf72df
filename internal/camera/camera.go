// Package camera acquires still frames for the photo capture screen by
// running a configured external capture command. The command receives a
// temporary output path via a %s placeholder (fswebcam by default) and the
// frame is handed back as a PNG data URI, the representation the upload
// endpoint accepts.
package camera

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CaptureTimeout bounds a single frame grab. Webcam pipelines that take
// longer than this are stuck, not slow.
const CaptureTimeout = 10 * time.Second

// Device is a source of still frames. Open must be called before Capture;
// Close releases the underlying hardware and is safe to call more than
// once.
type Device interface {
	Open(ctx context.Context) error
	Capture(ctx context.Context) (string, error)
	Close() error
}

// Stream runs an external capture command for each frame. The command line
// must contain a %s placeholder for the output file path.
type Stream struct {
	command string

	mu     sync.Mutex
	tmpDir string
	open   bool
}

// NewStream builds a stream around the given capture command line.
func NewStream(command string) *Stream {
	return &Stream{command: command}
}

// Open validates the command and prepares a scratch directory for frames.
func (s *Stream) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return nil
	}

	if !strings.Contains(s.command, "%s") {
		return fmt.Errorf("capture command %q has no %%s output placeholder", s.command)
	}
	parts := strings.Fields(s.command)
	if len(parts) == 0 {
		return fmt.Errorf("capture command is empty")
	}
	if _, err := exec.LookPath(parts[0]); err != nil {
		return fmt.Errorf("capture command not available: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "carelog-frames-*")
	if err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}
	s.tmpDir = tmpDir
	s.open = true
	return nil
}

// Capture grabs one frame and returns it as a data:image/png;base64 URI.
func (s *Stream) Capture(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return "", fmt.Errorf("camera is not open")
	}

	outPath := filepath.Join(s.tmpDir, uuid.NewString()+".png")
	defer os.Remove(outPath)

	timeoutCtx, cancel := context.WithTimeout(ctx, CaptureTimeout)
	defer cancel()

	parts := strings.Fields(fmt.Sprintf(s.command, outPath))
	cmd := exec.CommandContext(timeoutCtx, parts[0], parts[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("capture command failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("capture command produced no frame: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("capture command produced an empty frame")
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Close releases the scratch directory. Idempotent.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	s.open = false
	if s.tmpDir != "" {
		os.RemoveAll(s.tmpDir)
		s.tmpDir = ""
	}
	return nil
}
