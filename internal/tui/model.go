package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gojacktrip/jtcore/internal/bridge"
)

// pollInterval is how often the model asks the bridge for a fresh
// snapshot.
const pollInterval = 250 * time.Millisecond

// StatusMsg carries a fresh snapshot into the model.
type StatusMsg bridge.Stats

// Model is the bubbletea state for the status screen.
type Model struct {
	client *bridge.Client
	stats  bridge.Stats
	width  int
}

// NewModel builds a Model that polls client for status updates.
func NewModel(client *bridge.Client) Model {
	return Model{client: client}
}

func (m Model) Init() tea.Cmd {
	return pollCmd(m.client)
}

func pollCmd(client *bridge.Client) tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return StatusMsg(client.Stats())
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case StatusMsg:
		m.stats = bridge.Stats(msg)
		return m, pollCmd(m.client)
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "starting up...\n"
	}

	status := "disconnected"
	if m.stats.Connected {
		status = fmt.Sprintf("connected (session %s)", m.stats.SessionID)
	}

	return fmt.Sprintf(
		"jacktrip endpoint: %s\n"+
			"sequence:  %d\n"+
			"packets:   rx=%d tx=%d\n"+
			"ring buf:  %.0f%% full, %d recenter(s)\n\n"+
			"q: quit\n",
		status,
		m.stats.SequenceNumber,
		m.stats.PacketsReceived, m.stats.PacketsSent,
		m.stats.RingBufferFillFrac*100, m.stats.RecenterEvents,
	)
}
