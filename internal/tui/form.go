package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/form"
	"github.com/carelog/carelog/internal/session"
)

// saveCompleteMsg carries the result of a create or update request.
type saveCompleteMsg struct {
	id      int64
	editing bool
	err     error
}

// formKeyMap defines key bindings for the form screens
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Back   key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Toggle, k.Back}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Toggle, k.Back},
	}
}

// Virtual focus targets after the last field.
const (
	focusPrevButton = iota
	focusNextButton
)

// FormModel is one step of the multi-step registration form. Leaving the
// step in any direction merges the step's buffer into the session record,
// so values typed on other steps are never lost.
type FormModel struct {
	client *api.Client
	sess   *session.Session

	StepIndex int
	Step      form.Step
	Fields    []form.Field

	// Widgets, parallel to Fields. Only the slot matching the field kind
	// is used.
	inputs []textinput.Model
	areas  []textarea.Model

	// Toggle values, keyed by field id.
	Buffer form.Buffer

	// Focus is an index into Fields; values >= len(Fields) address the
	// navigation buttons.
	Focus int

	Saving bool
	Err    error

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    formKeyMap
}

// NewFormModel creates the form screen model for one step, seeding every
// input from the session record.
func NewFormModel(stepIndex int, client *api.Client, sess *session.Session) FormModel {
	steps := form.Steps()
	if stepIndex < 0 || stepIndex >= len(steps) {
		stepIndex = 0
	}
	step := steps[stepIndex]
	fields := step.Fields()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	buffer := form.NewBuffer(step, sess.Record)

	inputs := make([]textinput.Model, len(fields))
	areas := make([]textarea.Model, len(fields))
	for i, f := range fields {
		switch f.Kind {
		case form.KindMultiline:
			ta := textarea.New()
			ta.Placeholder = f.Label
			ta.SetHeight(3)
			ta.SetWidth(48)
			ta.CharLimit = 1000
			ta.SetValue(buffer[f.ID])
			areas[i] = ta

		case form.KindToggle, form.KindPhoto:
			// No text widget.

		default:
			ti := textinput.New()
			ti.Placeholder = f.Label
			ti.CharLimit = 128
			ti.Width = 40
			switch f.Kind {
			case form.KindPassword:
				ti.EchoMode = textinput.EchoPassword
				ti.EchoCharacter = '•'
			case form.KindNumber:
				ti.Validate = validateDigits
			}
			ti.SetValue(buffer[f.ID])
			inputs[i] = ti
		}
	}

	keys := formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "prev field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle/select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}

	m := FormModel{
		client:    client,
		sess:      sess,
		StepIndex: stepIndex,
		Step:      step,
		Fields:    fields,
		inputs:    inputs,
		areas:     areas,
		Buffer:    buffer,
		Spinner:   s,
		Help:      help.New(),
		Keys:      keys,
	}
	m.focusCurrent()
	return m
}

// Init initializes the form model
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// buttonIndex maps a virtual button to its focus index.
func (m FormModel) buttonIndex(button int) int {
	return len(m.Fields) + button
}

// focusCount is the number of focusable entries (fields plus buttons).
func (m FormModel) focusCount() int {
	return len(m.Fields) + 2
}

// focusCurrent focuses the widget under the cursor and blurs the rest.
func (m *FormModel) focusCurrent() {
	for i, f := range m.Fields {
		switch f.Kind {
		case form.KindMultiline:
			if i == m.Focus {
				m.areas[i].Focus()
			} else {
				m.areas[i].Blur()
			}
		case form.KindToggle, form.KindPhoto:
			// Nothing to focus.
		default:
			if i == m.Focus {
				m.inputs[i].Focus()
			} else {
				m.inputs[i].Blur()
			}
		}
	}
}

// collectBuffer pulls current widget values into the step buffer.
func (m *FormModel) collectBuffer() {
	for i, f := range m.Fields {
		switch f.Kind {
		case form.KindMultiline:
			m.Buffer[f.ID] = m.areas[i].Value()
		case form.KindToggle, form.KindPhoto:
			// Toggles live in the buffer already; photo belongs to the
			// capture screen.
		default:
			m.Buffer[f.ID] = m.inputs[i].Value()
		}
	}
}

// mergeToSession folds the step buffer into the shared record.
func (m *FormModel) mergeToSession() {
	m.collectBuffer()
	m.sess.Merge(m.Buffer.Values())
}

// Update handles messages and updates the model
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Saving {
			return m, nil
		}
		return m.updateKey(msg)

	case saveCompleteMsg:
		m.Saving = false
		if msg.err != nil {
			// Stay on the step; the session keeps everything typed so far.
			m.Err = msg.err
			return m, nil
		}
		if msg.editing {
			m.sess.EditingID = 0
			return m, navigate(ScreenDetail)
		}
		m.sess.Clear()
		return m, navigate(ScreenMenu)

	case spinner.TickMsg:
		if m.Saving {
			m.Spinner, cmd = m.Spinner.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

// updateKey handles keyboard input.
func (m FormModel) updateKey(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	onButton := m.Focus >= len(m.Fields)

	switch msg.String() {
	case "esc":
		return m.goPrev()

	case "tab", "down":
		// Arrow keys move the cursor inside a textarea, not the focus.
		if msg.String() == "down" && !onButton && m.Fields[m.Focus].Kind == form.KindMultiline {
			break
		}
		m.Focus = (m.Focus + 1) % m.focusCount()
		m.focusCurrent()
		return m, textinput.Blink

	case "shift+tab", "up":
		if msg.String() == "up" && !onButton && m.Fields[m.Focus].Kind == form.KindMultiline {
			break
		}
		m.Focus--
		if m.Focus < 0 {
			m.Focus = m.focusCount() - 1
		}
		m.focusCurrent()
		return m, textinput.Blink

	case "enter", " ":
		if onButton {
			if m.Focus == m.buttonIndex(focusPrevButton) {
				return m.goPrev()
			}
			if m.Step.Last() {
				return m.save()
			}
			return m.goNext()
		}

		f := m.Fields[m.Focus]
		switch f.Kind {
		case form.KindToggle:
			m.Buffer.Toggle(f.ID)
			return m, nil
		case form.KindPhoto:
			// Merge first so nothing typed on this step is lost while the
			// capture screen is open.
			m.mergeToSession()
			return m, navigate(ScreenPhotoCapture)
		case form.KindMultiline:
			// Enter inserts a newline in a textarea.
		default:
			if msg.String() == "enter" {
				m.Focus = (m.Focus + 1) % m.focusCount()
				m.focusCurrent()
				return m, textinput.Blink
			}
		}
	}

	// Route remaining keys to the focused widget.
	if !onButton {
		var cmd tea.Cmd
		f := m.Fields[m.Focus]
		switch f.Kind {
		case form.KindMultiline:
			m.areas[m.Focus], cmd = m.areas[m.Focus].Update(msg)
		case form.KindToggle, form.KindPhoto:
			// No widget.
		default:
			m.inputs[m.Focus], cmd = m.inputs[m.Focus].Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

// goNext merges the buffer and advances to the next step.
func (m FormModel) goNext() (FormModel, tea.Cmd) {
	m.mergeToSession()
	return m, navigate(stepScreens[m.Step.Next])
}

// goPrev merges the buffer and returns to the previous step, or to the
// menu from the first step.
func (m FormModel) goPrev() (FormModel, tea.Cmd) {
	m.mergeToSession()
	if m.Step.First() {
		return m, navigate(ScreenMenu)
	}
	return m, navigate(stepScreens[m.Step.Prev])
}

// save merges the final step and submits the accumulated record.
func (m FormModel) save() (FormModel, tea.Cmd) {
	m.mergeToSession()
	m.Saving = true
	m.Err = nil
	return m, tea.Batch(
		saveRecord(m.client, m.sess),
		m.Spinner.Tick,
	)
}

// saveRecord is a command that creates or updates the session record.
func saveRecord(client *api.Client, sess *session.Session) tea.Cmd {
	editing := sess.Editing()
	id := sess.EditingID
	rec := sess.Record.Clone()
	return func() tea.Msg {
		if editing {
			err := client.UpdateRecord(context.Background(), id, rec)
			return saveCompleteMsg{id: id, editing: true, err: err}
		}
		newID, err := client.CreateRecord(context.Background(), rec)
		return saveCompleteMsg{id: newID, err: err}
	}
}

// View renders the form screen
func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle(m.Step.Title))
	if m.sess.Editing() {
		b.WriteString("  ")
		b.WriteString(SubtitleStyle.Render("(編集中)"))
	}
	b.WriteString("\n")

	fieldIdx := 0
	for _, g := range m.Step.Groups {
		b.WriteString("  ")
		b.WriteString(SectionHeaderStyle.Render(g.Title))
		b.WriteString("\n")
		for range g.Fields {
			b.WriteString(m.renderField(fieldIdx))
			fieldIdx++
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderButtons())
	b.WriteString("\n")

	if m.Saving {
		b.WriteString("  ")
		if m.sess.Editing() {
			b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " データを更新中..."))
		} else {
			b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " データを保存中..."))
		}
		b.WriteString("\n")
	} else if m.Err != nil {
		b.WriteString("  ")
		b.WriteString(StatusErrorStyle.Render(api.ShortMessage(m.Err)))
		b.WriteString("\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// renderField renders one labelled input row.
func (m FormModel) renderField(i int) string {
	f := m.Fields[i]
	focused := i == m.Focus

	label := LabelStyle.Render(f.Label)
	if focused {
		label = FocusedInputStyle.Render(f.Label)
	}

	var value string
	switch f.Kind {
	case form.KindMultiline:
		value = "\n" + indent(m.areas[i].View(), "      ")

	case form.KindToggle:
		state := "いいえ"
		if m.Buffer.On(f.ID) {
			state = "はい"
		}
		if focused {
			value = FocusedInputStyle.Render("[" + state + "]")
		} else {
			value = "[" + state + "]"
		}

	case form.KindPhoto:
		ref := m.sess.Photo()
		display := "写真なし"
		if ref != "" {
			display = "[顔写真あり]"
		}
		button := "撮影"
		if focused {
			value = display + " " + FocusedButtonStyle.Render(button)
		} else {
			value = display + " " + ButtonStyle.Render(button)
		}

	default:
		value = m.inputs[i].View()
	}

	return "    " + label + ": " + value + "\n"
}

// renderButtons renders the navigation button row.
func (m FormModel) renderButtons() string {
	prevLabel := "← 前へ"
	if m.Step.First() {
		prevLabel = "← メニューに戻る"
	}
	prev := ButtonStyle.Render(prevLabel)
	if m.Focus == m.buttonIndex(focusPrevButton) {
		prev = FocusedButtonStyle.Render(prevLabel)
	}

	var forward string
	if m.Step.Last() {
		forward = SaveButtonStyle.Render("保存")
		if m.Focus != m.buttonIndex(focusNextButton) {
			forward = ButtonStyle.Render("保存")
		}
	} else {
		forward = ButtonStyle.Render("次へ →")
		if m.Focus == m.buttonIndex(focusNextButton) {
			forward = FocusedButtonStyle.Render("次へ →")
		}
	}

	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, prev, "  ", forward)
}

// validateDigits restricts a number field to decimal digits. Empty is
// allowed; every field on the form is optional.
func validateDigits(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("数字のみ入力できます")
		}
	}
	return nil
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
