package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/session"
)

// recordLoadedMsg carries a single record fetched for the detail view.
type recordLoadedMsg struct {
	record api.Record
	err    error
}

// deleteCompleteMsg carries the result of a delete request.
type deleteCompleteMsg struct {
	err error
}

// detailKeyMap defines key bindings for the detail screen
type detailKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Delete key.Binding
	Back   key.Binding
}

func (k detailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Delete, k.Back}
}

func (k detailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Edit, k.Delete, k.Back},
	}
}

// modalKeyMap defines key bindings for the delete confirmation modal
type modalKeyMap struct {
	Switch  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Confirm, k.Cancel}
}

func (k modalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Switch, k.Confirm, k.Cancel},
	}
}

// DetailModel is the record detail screen with edit and delete actions.
type DetailModel struct {
	client *api.Client
	sess   *session.Session

	Record  api.Record
	Loading bool
	Err     error

	// Delete modal state
	ShowDeleteModal bool
	ModalCursor     int // 0 = 削除, 1 = キャンセル
	Deleting        bool

	Scroll int

	Width     int
	Height    int
	Spinner   spinner.Model
	Help      help.Model
	Keys      detailKeyMap
	ModalKeys modalKeyMap
}

// NewDetailModel creates the detail screen model.
func NewDetailModel(client *api.Client, sess *session.Session) DetailModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := detailKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "back to list"),
		),
	}

	modalKeys := modalKeyMap{
		Switch: key.NewBinding(
			key.WithKeys("left", "right", "tab"),
			key.WithHelp("←/→", "switch"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return DetailModel{
		client:      client,
		sess:        sess,
		Loading:     sess.SelectedID != 0,
		ModalCursor: 1, // Default to キャンセル
		Spinner:     s,
		Help:        help.New(),
		Keys:        keys,
		ModalKeys:   modalKeys,
	}
}

// Init starts loading the selected record. With no selection there is
// nothing to fetch; the view reports the gap instead.
func (m DetailModel) Init() tea.Cmd {
	if m.sess.SelectedID == 0 {
		return nil
	}
	return tea.Batch(
		fetchRecord(m.client, m.sess.SelectedID),
		m.Spinner.Tick,
	)
}

// fetchRecord is a command that loads one record by id.
func fetchRecord(client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		rec, err := client.GetRecord(context.Background(), id)
		return recordLoadedMsg{record: rec, err: err}
	}
}

// deleteRecord is a command that deletes one record by id.
func deleteRecord(client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteRecord(context.Background(), id)
		return deleteCompleteMsg{err: err}
	}
}

// Update handles messages and updates the model
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ShowDeleteModal {
			return m.updateModal(msg)
		}
		return m.updateNormal(msg)

	case recordLoadedMsg:
		m.Loading = false
		m.Err = msg.err
		if msg.err == nil {
			m.Record = msg.record
		}
		return m, nil

	case deleteCompleteMsg:
		m.Deleting = false
		if msg.err != nil {
			// Stay on the detail screen with the record intact.
			m.Err = msg.err
			return m, nil
		}
		m.sess.Clear()
		return m, navigate(ScreenList)

	case spinner.TickMsg:
		if m.Loading || m.Deleting {
			m.Spinner, cmd = m.Spinner.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

// updateNormal handles keyboard input outside the modal.
func (m DetailModel) updateNormal(msg tea.KeyMsg) (DetailModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, navigate(ScreenList)

	case "up", "k":
		if m.Scroll > 0 {
			m.Scroll--
		}

	case "down", "j":
		m.Scroll++

	case "e":
		if m.Record != nil {
			m.sess.StartEdit(m.Record)
			return m, navigate(ScreenStep1)
		}

	case "d":
		if m.Record != nil {
			m.ShowDeleteModal = true
			m.ModalCursor = 1 // Default to キャンセル
		}
	}

	return m, nil
}

// updateModal handles keyboard input inside the delete confirmation modal.
func (m DetailModel) updateModal(msg tea.KeyMsg) (DetailModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ShowDeleteModal = false
		return m, nil

	case "left", "right", "tab":
		m.ModalCursor = 1 - m.ModalCursor
		return m, nil

	case "enter":
		m.ShowDeleteModal = false
		if m.ModalCursor == 0 {
			m.Deleting = true
			m.Err = nil
			return m, tea.Batch(
				deleteRecord(m.client, m.sess.SelectedID),
				m.Spinner.Tick,
			)
		}
		return m, nil
	}

	return m, nil
}

// renderFieldValue renders one field of the record for display. Flags show
// as はい/いいえ, the photo as a presence indicator, empty fields as N/A.
func renderFieldValue(rec api.Record, id string) string {
	if id == api.FieldPhotoPath {
		v := rec.String(id)
		if strings.HasPrefix(v, "data:image/") ||
			strings.HasPrefix(v, "http://") ||
			strings.HasPrefix(v, "https://") {
			return "[顔写真あり]"
		}
		return "写真なし"
	}
	if api.IsFlagField(id) {
		if rec.Flag(id) {
			return "はい"
		}
		return "いいえ"
	}
	if v := rec.String(id); v != "" {
		return v
	}
	return "N/A"
}

// View renders the detail screen
func (m DetailModel) View() string {
	content := m.buildContent()

	var helpText string
	if m.ShowDeleteModal {
		helpText = m.Help.View(m.ModalKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	view := RenderApplicationContainer(content, helpText, m.Width, m.Height)

	if m.ShowDeleteModal {
		return RenderModal(m.buildDeleteModal(), m.Width, m.Height)
	}
	return view
}

// buildContent builds the main detail content.
func (m DetailModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("利用者 詳細情報"))
	b.WriteString("\n")

	switch {
	case m.sess.SelectedID == 0:
		b.WriteString("  ")
		b.WriteString(StatusErrorStyle.Render("ユーザーが選択されていません。"))
		b.WriteString("\n")
		return b.String()

	case m.Loading:
		b.WriteString("  ")
		b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " ユーザー詳細を読み込み中..."))
		b.WriteString("\n")
		return b.String()

	case m.Deleting:
		b.WriteString("  ")
		b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " ユーザーを削除中..."))
		b.WriteString("\n")
		return b.String()

	case m.Record == nil:
		msg := "データをロードできませんでした。"
		if m.Err != nil {
			msg = api.ShortMessage(m.Err)
		}
		b.WriteString("  ")
		b.WriteString(StatusErrorStyle.Render(msg))
		b.WriteString("\n")
		return b.String()
	}

	if m.Err != nil {
		b.WriteString("  ")
		b.WriteString(StatusErrorStyle.Render(api.ShortMessage(m.Err)))
		b.WriteString("\n\n")
	}

	lines := m.buildSectionLines()

	// Simple line-based scrolling within the available height.
	visible := m.Height - 10
	if visible < 5 {
		visible = 5
	}
	scroll := m.Scroll
	if scroll > len(lines)-visible {
		scroll = len(lines) - visible
	}
	if scroll < 0 {
		scroll = 0
	}
	end := scroll + visible
	if end > len(lines) {
		end = len(lines)
	}
	b.WriteString(strings.Join(lines[scroll:end], "\n"))
	b.WriteString("\n")

	return b.String()
}

// buildSectionLines renders the six record sections as display lines.
func (m DetailModel) buildSectionLines() []string {
	var lines []string
	for _, sec := range api.DetailSections() {
		lines = append(lines, "  "+SectionHeaderStyle.Render(sec.Title))
		for _, f := range sec.Fields {
			label := LabelStyle.Render(f.Label + ":")
			value := renderFieldValue(m.Record, f.ID)
			lines = append(lines, "    "+label+" "+value)
		}
		lines = append(lines, "")
	}
	if created := m.Record.String(api.FieldCreatedAt); created != "" {
		lines = append(lines, "  "+LabelStyle.Render("登録日時:")+" "+created)
	}
	return lines
}

// buildDeleteModal renders the delete confirmation dialog.
func (m DetailModel) buildDeleteModal() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("削除の確認"))
	b.WriteString("\n\n")
	b.WriteString("本当にこの利用者を削除しますか？\nこの操作は元に戻せません。")
	b.WriteString("\n\n")

	deleteBtn := ButtonStyle.Render("削除")
	cancelBtn := ButtonStyle.Render("キャンセル")
	if m.ModalCursor == 0 {
		deleteBtn = DangerButtonStyle.Render("削除")
	} else {
		cancelBtn = FocusedButtonStyle.Render("キャンセル")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, deleteBtn, "  ", cancelBtn))

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DangerColor).
		Padding(1, 2).
		Width(SafeModalWidth(48, m.Width))

	return modalStyle.Render(b.String())
}
