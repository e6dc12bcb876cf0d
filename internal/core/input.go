package core

import "github.com/vovakirdan/gridsnake/internal/snake"

// Action represents a semantic game action, abstracted from physical key presses.
// Front ends map their keys to actions and hand them to Apply.
type Action int

const (
	ActionNone   Action = iota
	ActionUp            // W, K, Up arrow
	ActionDown          // S, J, Down arrow
	ActionLeft          // A, H, Left arrow
	ActionRight         // D, L, Right arrow
	ActionStart         // Enter, Space - start, resume or play again
	ActionPause         // P - toggle pause
	ActionReset         // R - back to the start screen
	ActionGameOver      // X - give up the current run
	ActionScores        // Tab - show the runs table
	ActionQuit          // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionReset:
		return "Reset"
	case ActionGameOver:
		return "GameOver"
	case ActionScores:
		return "Scores"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the heading a movement action asks for.
func (a Action) Direction() (snake.Direction, bool) {
	switch a {
	case ActionUp:
		return snake.DirUp, true
	case ActionDown:
		return snake.DirDown, true
	case ActionLeft:
		return snake.DirLeft, true
	case ActionRight:
		return snake.DirRight, true
	default:
		return 0, false
	}
}

// Controller is the part of the engine a front end drives.
type Controller interface {
	Snapshot() snake.Snapshot
	Start()
	Pause()
	Resume()
	Reset()
	GameOver()
	SetDirection(snake.Direction)
}

// Apply performs a on c and reports whether it was a game action.
// Start means resume while paused and a fresh run after game over.
// Pause toggles between playing and paused.
func Apply(c Controller, a Action) bool {
	if d, ok := a.Direction(); ok {
		c.SetDirection(d)
		return true
	}

	switch a {
	case ActionStart:
		switch c.Snapshot().State {
		case snake.StateStart:
			c.Start()
		case snake.StatePaused:
			c.Resume()
		case snake.StateGameOver:
			c.Reset()
			c.Start()
		}
	case ActionPause:
		switch c.Snapshot().State {
		case snake.StatePlaying:
			c.Pause()
		case snake.StatePaused:
			c.Resume()
		}
	case ActionReset:
		c.Reset()
	case ActionGameOver:
		if st := c.Snapshot().State; st == snake.StatePlaying || st == snake.StatePaused {
			c.GameOver()
		}
	default:
		return false
	}
	return true
}

// Toward returns the turn that steers from head toward target along the
// axis with the larger distance, or ActionNone when they are the same cell.
func Toward(head, target, size int) Action {
	dr := snake.Row(target, size) - snake.Row(head, size)
	dc := snake.Col(target, size) - snake.Col(head, size)
	switch {
	case dr == 0 && dc == 0:
		return ActionNone
	case abs(dc) >= abs(dr):
		if dc > 0 {
			return ActionRight
		}
		return ActionLeft
	case dr > 0:
		return ActionDown
	default:
		return ActionUp
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
