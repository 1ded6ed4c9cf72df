// Package tui implements the terminal user interface for the care record
// client.
//
// This package provides an interactive, full-screen TUI for registering,
// browsing, editing and deleting care-recipient profiles. Built using the
// Bubble Tea framework, it follows the Elm architecture with immutable
// state updates and a clean Model-Update-View pattern.
//
// # Architecture
//
// The interface is a set of screens behind one coordinator (AppModel):
//   - Menu: entry point, start a registration or open the list
//   - List: all registered profiles with name search
//   - Detail: one profile in full, with edit and delete actions
//   - Step 1-4: the multi-step registration and editing form
//   - Photo capture: camera acquisition and upload
//
// The coordinator owns a single session.Session shared by every screen.
// Form steps merge their buffers into the session record when the operator
// leaves them in any direction, so values from other steps are never lost.
// Each screen is rebuilt when entered, and async responses are routed only
// to the active screen, so a reply arriving after the operator has moved
// on is dropped on the floor.
//
// All screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area and context-sensitive
// footer.
//
// # Framework Components
//
//   - bubbles/spinner: loading indicators during fetches and uploads
//   - bubbles/textinput: single-line form fields and the name search box
//   - bubbles/textarea: multiline memo fields
//   - bubbles/list: the record list
//   - bubbles/help: context-aware key hints
//   - lipgloss: styling and layout
//
// # Usage Example
//
//	client := api.NewClient(baseURL)
//	cam := camera.NewStream(settings.CaptureCommand)
//	if err := tui.Run(client, cam); err != nil {
//	    log.Fatal(err)
//	}
package tui
