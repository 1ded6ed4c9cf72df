package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/camera"
	"github.com/carelog/carelog/internal/session"
)

// PhotoPhase tracks where the capture flow is.
type PhotoPhase int

const (
	PhaseInitializing PhotoPhase = iota
	PhaseLive
	PhaseCaptured
	PhaseUploading
	PhaseUploaded
	PhaseUploadFailed
	PhaseCameraError
)

// Messages for async camera and upload operations
type cameraReadyMsg struct {
	err error
}

type captureCompleteMsg struct {
	dataURI string
	err     error
}

type uploadCompleteMsg struct {
	url string
	err error
}

// photoKeyMap defines key bindings for the photo capture screen
type photoKeyMap struct {
	Capture key.Binding
	Retake  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k photoKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Capture, k.Retake, k.Confirm, k.Cancel}
}

func (k photoKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Capture, k.Retake},
		{k.Confirm, k.Cancel},
	}
}

// PhotoModel is the photo capture screen. A captured frame is uploaded
// immediately; when the upload fails the local frame is kept so the
// operator can still attach it.
type PhotoModel struct {
	client *api.Client
	sess   *session.Session
	cam    camera.Device

	Phase PhotoPhase
	Err   error

	// CapturedURI is the local frame as a data URI.
	CapturedURI string

	// UploadedURL is the server copy, set after a successful upload.
	UploadedURL string

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    photoKeyMap
}

// NewPhotoModel creates the photo capture screen model.
func NewPhotoModel(client *api.Client, sess *session.Session, cam camera.Device) PhotoModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := photoKeyMap{
		Capture: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "capture"),
		),
		Retake: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retake"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "use photo"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return PhotoModel{
		client:  client,
		sess:    sess,
		cam:     cam,
		Phase:   PhaseInitializing,
		Spinner: s,
		Help:    help.New(),
		Keys:    keys,
	}
}

// Init opens the camera.
func (m PhotoModel) Init() tea.Cmd {
	return tea.Batch(
		openCamera(m.cam),
		m.Spinner.Tick,
	)
}

// openCamera is a command that acquires the capture device.
func openCamera(cam camera.Device) tea.Cmd {
	return func() tea.Msg {
		return cameraReadyMsg{err: cam.Open(context.Background())}
	}
}

// captureFrame is a command that grabs one frame.
func captureFrame(cam camera.Device) tea.Cmd {
	return func() tea.Msg {
		uri, err := cam.Capture(context.Background())
		return captureCompleteMsg{dataURI: uri, err: err}
	}
}

// uploadPhoto is a command that sends a captured frame to the server.
func uploadPhoto(client *api.Client, dataURI string) tea.Cmd {
	return func() tea.Msg {
		url, err := client.UploadPhoto(context.Background(), dataURI)
		return uploadCompleteMsg{url: url, err: err}
	}
}

// release closes the camera. Safe to call repeatedly; the coordinator
// calls it on every way out of this screen.
func (m PhotoModel) release() {
	if m.cam != nil {
		m.cam.Close()
	}
}

// displayRef returns the best available photo reference: the server URL
// when the upload succeeded, otherwise the local frame.
func (m PhotoModel) displayRef() string {
	if m.UploadedURL != "" {
		return m.UploadedURL
	}
	return m.CapturedURI
}

// Update handles messages and updates the model
func (m PhotoModel) Update(msg tea.Msg) (PhotoModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case cameraReadyMsg:
		if msg.err != nil {
			m.Phase = PhaseCameraError
			m.Err = msg.err
			return m, nil
		}
		m.Phase = PhaseLive
		return m, nil

	case captureCompleteMsg:
		if msg.err != nil {
			m.Phase = PhaseLive
			m.Err = msg.err
			return m, nil
		}
		m.CapturedURI = msg.dataURI
		m.UploadedURL = ""
		m.Err = nil
		m.Phase = PhaseUploading
		return m, tea.Batch(
			uploadPhoto(m.client, msg.dataURI),
			m.Spinner.Tick,
		)

	case uploadCompleteMsg:
		if msg.err != nil {
			// Keep the local frame; it can still be attached.
			m.Phase = PhaseUploadFailed
			m.Err = msg.err
			return m, nil
		}
		m.UploadedURL = msg.url
		m.Phase = PhaseUploaded
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseInitializing || m.Phase == PhaseCaptured || m.Phase == PhaseUploading {
			m.Spinner, cmd = m.Spinner.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

// updateKey handles keyboard input.
func (m PhotoModel) updateKey(msg tea.KeyMsg) (PhotoModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel drops any photo reference from the session.
		m.sess.ClearPhoto()
		return m, navigate(ScreenStep1)

	case "enter", " ":
		if m.Phase == PhaseLive {
			m.Phase = PhaseCaptured
			m.Err = nil
			return m, tea.Batch(
				captureFrame(m.cam),
				m.Spinner.Tick,
			)
		}

	case "r":
		switch m.Phase {
		case PhaseUploaded, PhaseUploadFailed, PhaseLive:
			m.CapturedURI = ""
			m.UploadedURL = ""
			m.Err = nil
			m.Phase = PhaseLive
			return m, nil
		}

	case "c":
		// The upload must finish, either way, before its result is used.
		if m.Phase == PhaseUploading {
			return m, nil
		}
		if ref := m.displayRef(); ref != "" {
			m.sess.SetPhoto(ref)
			return m, navigate(ScreenStep1)
		}
		m.Err = api.NewValidationError("写真が撮影またはアップロードされていません！")
		return m, nil
	}

	return m, nil
}

// View renders the photo capture screen
func (m PhotoModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("顔写真撮影"))
	b.WriteString("\n")

	switch m.Phase {
	case PhaseInitializing:
		b.WriteString("  ")
		b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " カメラ準備中..."))

	case PhaseCameraError:
		b.WriteString("  ")
		b.WriteString(StatusErrorStyle.Render("カメラ起動エラー: " + m.Err.Error()))
		b.WriteString("\n\n  ")
		b.WriteString(SubtitleStyle.Render("esc で戻ります。"))

	case PhaseLive:
		b.WriteString("  ")
		b.WriteString(StatusSuccessStyle.Render("カメラ稼働中"))
		b.WriteString("\n\n  ")
		b.WriteString("enter で撮影します。")
		if m.Err != nil {
			b.WriteString("\n\n  ")
			b.WriteString(StatusErrorStyle.Render(api.ShortMessage(m.Err)))
		}

	case PhaseCaptured:
		b.WriteString("  ")
		b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " 撮影中..."))

	case PhaseUploading:
		b.WriteString("  ")
		b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " 写真を撮影しました。サーバーへアップロード中..."))

	case PhaseUploaded:
		b.WriteString("  ")
		b.WriteString(StatusSuccessStyle.Render("写真のアップロードが完了しました。"))
		b.WriteString("\n\n  ")
		b.WriteString(SubtitleStyle.Render("写真はサーバーに保存されました。"))
		b.WriteString("\n\n  c で使用、r で再撮影、esc でキャンセル")

	case PhaseUploadFailed:
		b.WriteString("  ")
		b.WriteString(StatusErrorStyle.Render("写真のアップロードに失敗しました。"))
		if m.Err != nil {
			b.WriteString("\n\n  ")
			b.WriteString(SubtitleStyle.Render(api.ShortMessage(m.Err)))
		}
		b.WriteString("\n\n  撮影した写真をそのまま使用できます。c で使用、r で再撮影")
	}
	b.WriteString("\n")

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
