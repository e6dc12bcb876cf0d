// Package tui is the Bubble Tea front end: the local terminal game, the runs
// table and the SSH server that serves the same game over Wish.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridsnake/internal/feed"
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// SnapshotMsg carries a state published by the engine.
type SnapshotMsg struct {
	Snapshot snake.Snapshot
}

// feedClosedMsg reports that the engine shut down.
type feedClosedMsg struct{}

// waitForSnapshot blocks until the engine publishes again.
// The model re-arms it after every SnapshotMsg.
func waitForSnapshot(sub *feed.Subscription[snake.Snapshot]) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-sub.C():
			return SnapshotMsg{Snapshot: s}
		case <-sub.Done():
			return feedClosedMsg{}
		}
	}
}
