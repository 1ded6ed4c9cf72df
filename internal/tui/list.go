package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/session"
)

// recordsLoadedMsg carries the result of a list or search fetch. The query
// is echoed back so the empty-state message can name it.
type recordsLoadedMsg struct {
	records []api.Summary
	query   string
	err     error
}

// listKeyMap defines key bindings for the record list screen
type listKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Search key.Binding
	Reset  key.Binding
	Back   key.Binding
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Search, k.Reset, k.Back}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Search, k.Reset, k.Back},
	}
}

// searchKeyMap defines key bindings while the search input has focus
type searchKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Cancel},
	}
}

// recordItem wraps a Summary for bubbles/list.
type recordItem struct {
	summary api.Summary
}

func (r recordItem) FilterValue() string {
	return r.summary.Name
}

func (r recordItem) Title() string {
	return fmt.Sprintf("ID: %d - 名前: %s", r.summary.ID, r.summary.Name)
}

func (r recordItem) Description() string {
	return ""
}

// ListModel is the record list screen with name search.
type ListModel struct {
	client *api.Client
	sess   *session.Session

	RecordList list.Model
	Loading    bool
	Err        error

	// Search state
	Searching   bool
	SearchInput textinput.Model
	Query       string

	Width      int
	Height     int
	Spinner    spinner.Model
	Help       help.Model
	Keys       listKeyMap
	SearchKeys searchKeyMap
}

// NewListModel creates the record list screen model.
func NewListModel(client *api.Client, sess *session.Session) ListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	searchInput := textinput.New()
	searchInput.Placeholder = "名前で検索..."
	searchInput.CharLimit = 64
	searchInput.Width = 30

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(HighlightColor).
		BorderForeground(HighlightColor)

	recordList := list.New([]list.Item{}, delegate, 0, 0)
	recordList.Title = "登録者一覧"
	recordList.SetShowStatusBar(false)
	recordList.SetFilteringEnabled(false)
	recordList.SetShowHelp(false)
	recordList.Styles.Title = TitleStyle

	keys := listKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "menu"),
		),
	}

	searchKeys := searchKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return ListModel{
		client:      client,
		sess:        sess,
		Loading:     true,
		RecordList:  recordList,
		SearchInput: searchInput,
		Spinner:     s,
		Help:        help.New(),
		Keys:        keys,
		SearchKeys:  searchKeys,
	}
}

// Init starts loading the full record list.
func (m ListModel) Init() tea.Cmd {
	return tea.Batch(
		fetchRecords(m.client, ""),
		m.Spinner.Tick,
	)
}

// fetchRecords is a command that loads the record list, optionally filtered
// by a name query.
func fetchRecords(client *api.Client, query string) tea.Cmd {
	return func() tea.Msg {
		records, err := client.SearchRecords(context.Background(), query)
		return recordsLoadedMsg{records: records, query: query, err: err}
	}
}

// setSize propagates terminal dimensions to the embedded list.
func (m *ListModel) setSize(width, height int) {
	m.Width = width
	m.Height = height
	m.RecordList.SetWidth(width - 8)
	m.RecordList.SetHeight(height - 12)
}

// Update handles messages and updates the model
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Searching {
			return m.updateSearchMode(msg)
		}
		return m.updateNormalMode(msg)

	case recordsLoadedMsg:
		m.Loading = false
		m.Err = msg.err
		m.Query = msg.query
		items := make([]list.Item, len(msg.records))
		for i, rec := range msg.records {
			items[i] = recordItem{summary: rec}
		}
		m.RecordList.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		if m.Loading {
			m.Spinner, cmd = m.Spinner.Update(msg)
		}
		return m, cmd
	}

	if !m.Searching && !m.Loading {
		m.RecordList, cmd = m.RecordList.Update(msg)
	}
	return m, cmd
}

// updateNormalMode handles keyboard input while the list has focus.
func (m ListModel) updateNormalMode(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, navigate(ScreenMenu)

	case "enter":
		if item, ok := m.RecordList.SelectedItem().(recordItem); ok {
			m.sess.SelectedID = item.summary.ID
			return m, navigate(ScreenDetail)
		}

	case "/":
		m.Searching = true
		m.SearchInput.SetValue(m.Query)
		m.SearchInput.Focus()
		return m, textinput.Blink

	case "r":
		m.Loading = true
		m.Err = nil
		m.SearchInput.SetValue("")
		return m, tea.Batch(fetchRecords(m.client, ""), m.Spinner.Tick)
	}

	var cmd tea.Cmd
	m.RecordList, cmd = m.RecordList.Update(msg)
	return m, cmd
}

// updateSearchMode handles keyboard input while the search box has focus.
func (m ListModel) updateSearchMode(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Searching = false
		m.SearchInput.Blur()
		return m, nil

	case "enter":
		m.Searching = false
		m.SearchInput.Blur()
		m.Loading = true
		m.Err = nil
		return m, tea.Batch(fetchRecords(m.client, m.SearchInput.Value()), m.Spinner.Tick)
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	return m, cmd
}

// View renders the list screen
func (m ListModel) View() string {
	var b strings.Builder

	b.WriteString("\n  検索: ")
	b.WriteString(m.SearchInput.View())
	b.WriteString("\n\n")

	switch {
	case m.Loading:
		b.WriteString("  ")
		b.WriteString(StatusLoadingStyle.Render(m.Spinner.View() + " ユーザーを読み込み中..."))
		b.WriteString("\n")

	case m.Err != nil:
		b.WriteString("  ")
		b.WriteString(StatusErrorStyle.Render(api.ShortMessage(m.Err)))
		b.WriteString("\n")

	case len(m.RecordList.Items()) == 0:
		b.WriteString("  ")
		if m.Query != "" {
			b.WriteString(SubtitleStyle.Render(fmt.Sprintf("「%s」に一致するユーザーはいません。", m.Query)))
		} else {
			b.WriteString(SubtitleStyle.Render("登録されているユーザーはいません。"))
		}
		b.WriteString("\n")

	default:
		b.WriteString(m.RecordList.View())
	}

	var helpText string
	if m.Searching {
		helpText = m.Help.View(m.SearchKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
