package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/camera"
)

// Run starts the interactive application against the given API client,
// using the alt screen so the shell is restored on exit.
func Run(client *api.Client, cam camera.Device) error {
	model := NewAppModel(client, cam)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
