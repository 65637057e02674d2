package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gojacktrip/jtcore/internal/bridge"
)

// Run starts the status screen, blocking until the user quits.
func Run(client *bridge.Client) error {
	p := tea.NewProgram(NewModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
