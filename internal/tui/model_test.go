package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gojacktrip/jtcore/internal/bridge"
)

func TestViewBeforeWindowSizeShowsPlaceholder(t *testing.T) {
	m := NewModel(nil)
	if got := m.View(); !strings.Contains(got, "starting up") {
		t.Errorf("View() = %q, want a startup placeholder", got)
	}
}

func TestUpdateAppliesStatusMsg(t *testing.T) {
	m := NewModel(nil)
	m.width = 80

	stats := bridge.Stats{
		Connected:          true,
		SessionID:          "abc-123",
		SequenceNumber:     7,
		PacketsReceived:    100,
		PacketsSent:        99,
		RingBufferFillFrac: 0.5,
		RecenterEvents:     2,
	}

	updated, cmd := m.Update(StatusMsg(stats))
	next := updated.(Model)

	if next.stats.SessionID != "abc-123" {
		t.Errorf("SessionID = %q, want abc-123", next.stats.SessionID)
	}
	if cmd == nil {
		t.Error("Update should schedule the next poll")
	}

	view := next.View()
	if !strings.Contains(view, "connected") || !strings.Contains(view, "abc-123") {
		t.Errorf("View() = %q, want it to show connected state and session id", view)
	}
	if !strings.Contains(view, "50%") {
		t.Errorf("View() = %q, want it to show ring buffer fill percentage", view)
	}
}

func TestQuitKeyEndsProgram(t *testing.T) {
	m := NewModel(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected ctrl+c to produce a command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("expected tea.Quit message, got %#v", msg)
	}
}

func TestWindowSizeSetsWidth(t *testing.T) {
	m := NewModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next := updated.(Model)
	if next.width != 120 {
		t.Errorf("width = %d, want 120", next.width)
	}
}
