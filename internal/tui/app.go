package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/camera"
	"github.com/carelog/carelog/internal/logging"
	"github.com/carelog/carelog/internal/session"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenMenu         Screen = "menu"
	ScreenList         Screen = "user_list"
	ScreenDetail       Screen = "detail"
	ScreenStep1        Screen = "step1"
	ScreenStep2        Screen = "step2"
	ScreenStep3        Screen = "step3"
	ScreenStep4        Screen = "step4"
	ScreenPhotoCapture Screen = "photo_capture"
)

// stepScreens maps form step indexes to their screens, in flow order.
var stepScreens = []Screen{ScreenStep1, ScreenStep2, ScreenStep3, ScreenStep4}

// Messages for screen transitions
type navigateMsg struct {
	screen Screen
}

type quitMsg struct{}

// navigate builds a command that asks the coordinator to switch screens.
func navigate(screen Screen) tea.Cmd {
	return func() tea.Msg { return navigateMsg{screen: screen} }
}

// requestQuit builds a command that asks the coordinator to exit.
func requestQuit() tea.Cmd {
	return func() tea.Msg { return quitMsg{} }
}

// AppModel is the top-level coordinator model that manages screen
// transitions. All remote data flows through the screen models; AppModel
// only owns the shared session and routes messages to the active screen,
// so a response that arrives after the operator has moved on is dropped.
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Shared application state
	Client  *api.Client
	Session *session.Session
	Camera  camera.Device

	// Screen models
	MenuModel   MenuModel
	ListModel   ListModel
	DetailModel DetailModel
	FormModel   FormModel
	PhotoModel  PhotoModel

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model starting at the main menu.
func NewAppModel(client *api.Client, cam camera.Device) AppModel {
	return AppModel{
		CurrentScreen: ScreenMenu,
		Client:        client,
		Session:       session.New(),
		Camera:        cam,
		MenuModel:     NewMenuModel(),
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.MenuModel.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.MenuModel.Width, m.MenuModel.Height = msg.Width, msg.Height
		m.ListModel.setSize(msg.Width, msg.Height)
		m.DetailModel.Width, m.DetailModel.Height = msg.Width, msg.Height
		m.FormModel.Width, m.FormModel.Height = msg.Width, msg.Height
		m.PhotoModel.Width, m.PhotoModel.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case navigateMsg:
		return m.transitionTo(msg.screen)

	case startRegistrationMsg:
		m.Session.StartRegistration()
		return m.transitionTo(ScreenStep1)

	case quitMsg:
		return m.quit()
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenMenu:
		m.MenuModel, cmd = m.MenuModel.Update(msg)

	case ScreenList:
		m.ListModel, cmd = m.ListModel.Update(msg)

	case ScreenDetail:
		m.DetailModel, cmd = m.DetailModel.Update(msg)

	case ScreenStep1, ScreenStep2, ScreenStep3, ScreenStep4:
		m.FormModel, cmd = m.FormModel.Update(msg)

	case ScreenPhotoCapture:
		m.PhotoModel, cmd = m.PhotoModel.Update(msg)
	}

	return m, cmd
}

// transitionTo transitions to a new screen. Each target screen is rebuilt
// so entering it triggers its own data fetch.
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	// Leaving the capture screen for any reason releases the camera.
	if m.CurrentScreen == ScreenPhotoCapture && screen != ScreenPhotoCapture {
		m.PhotoModel.release()
	}

	logging.LogNavigation(string(m.CurrentScreen), string(screen))
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenMenu:
		m.MenuModel = NewMenuModel()
		m.MenuModel.Width, m.MenuModel.Height = m.Width, m.Height
		cmd = m.MenuModel.Init()

	case ScreenList:
		m.ListModel = NewListModel(m.Client, m.Session)
		m.ListModel.setSize(m.Width, m.Height)
		cmd = m.ListModel.Init()

	case ScreenDetail:
		m.DetailModel = NewDetailModel(m.Client, m.Session)
		m.DetailModel.Width, m.DetailModel.Height = m.Width, m.Height
		cmd = m.DetailModel.Init()

	case ScreenStep1, ScreenStep2, ScreenStep3, ScreenStep4:
		m.FormModel = NewFormModel(stepIndexFor(screen), m.Client, m.Session)
		m.FormModel.Width, m.FormModel.Height = m.Width, m.Height
		cmd = m.FormModel.Init()

	case ScreenPhotoCapture:
		m.PhotoModel = NewPhotoModel(m.Client, m.Session, m.Camera)
		m.PhotoModel.Width, m.PhotoModel.Height = m.Width, m.Height
		cmd = m.PhotoModel.Init()
	}

	return m, cmd
}

// quit releases held resources and exits.
func (m AppModel) quit() (tea.Model, tea.Cmd) {
	if m.CurrentScreen == ScreenPhotoCapture {
		m.PhotoModel.release()
	}
	return m, tea.Quit
}

// stepIndexFor maps a form screen to its step index.
func stepIndexFor(screen Screen) int {
	for i, s := range stepScreens {
		if s == screen {
			return i
		}
	}
	return 0
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenMenu:
		return m.MenuModel.View()
	case ScreenList:
		return m.ListModel.View()
	case ScreenDetail:
		return m.DetailModel.View()
	case ScreenStep1, ScreenStep2, ScreenStep3, ScreenStep4:
		return m.FormModel.View()
	case ScreenPhotoCapture:
		return m.PhotoModel.View()
	default:
		return "Unknown screen"
	}
}
