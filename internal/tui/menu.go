package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuKeyMap defines key bindings for the main menu
type menuKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Quit}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Quit},
	}
}

// Menu entries, in display order.
const (
	menuRegister = iota
	menuList
	menuQuit
)

var menuLabels = []string{
	"新規利用者登録",
	"登録者一覧",
	"アプリを終了",
}

// MenuModel is the main menu screen.
type MenuModel struct {
	Cursor int

	Width  int
	Height int
	Help   help.Model
	Keys   menuKeyMap
}

// NewMenuModel creates the main menu screen model.
func NewMenuModel() MenuModel {
	keys := menuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	return MenuModel{
		Help: help.New(),
		Keys: keys,
	}
}

// Init initializes the menu model
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles menu input. Selecting registration clears any leftover
// session state so the form starts empty.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}

	case "down", "j":
		if m.Cursor < len(menuLabels)-1 {
			m.Cursor++
		}

	case "enter", " ":
		switch m.Cursor {
		case menuRegister:
			return m, func() tea.Msg { return startRegistrationMsg{} }
		case menuList:
			return m, navigate(ScreenList)
		case menuQuit:
			return m, requestQuit()
		}

	case "q", "esc":
		return m, requestQuit()
	}

	return m, nil
}

// startRegistrationMsg asks the coordinator to clear the session and open
// step 1 of the form.
type startRegistrationMsg struct{}

// View renders the menu screen
func (m MenuModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true).
		Render(AppName)

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.Width-4, lipgloss.Center, title))
	b.WriteString("\n\n")

	for i, label := range menuLabels {
		b.WriteString(RenderMenuItem(label, i == m.Cursor))
		b.WriteString("\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
