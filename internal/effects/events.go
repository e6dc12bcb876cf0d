// Package effects turns consecutive engine snapshots into discrete game
// events (food eaten, crash, pause...) and fans them out to sinks such as
// sound, haptics and the run recorder.
package effects

import "github.com/vovakirdan/gridsnake/internal/snake"

// Kind identifies a game event.
type Kind int

const (
	KindStart Kind = iota
	KindResume
	KindEat
	KindNewHighScore
	KindSpeedUp
	KindCrash
	KindWin
	KindGameOver
	KindPause
	KindReset
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindResume:
		return "resume"
	case KindEat:
		return "eat"
	case KindNewHighScore:
		return "new_high_score"
	case KindSpeedUp:
		return "speed_up"
	case KindCrash:
		return "crash"
	case KindWin:
		return "win"
	case KindGameOver:
		return "game_over"
	case KindPause:
		return "pause"
	case KindReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is one thing that happened between two snapshots.
type Event struct {
	Kind Kind
	Prev snake.Snapshot
	Next snake.Snapshot
}

// Detect derives the events that explain the change from prev to next.
// Events come out in the order they logically happened.
func Detect(prev, next snake.Snapshot) []Event {
	var kinds []Kind

	switch {
	case prev.State == snake.StatePaused && next.State == snake.StatePlaying:
		kinds = append(kinds, KindResume)
	case next.State != snake.StateStart && next.RunID != "" && next.RunID != prev.RunID:
		kinds = append(kinds, KindStart)
	}

	if next.RunID != "" && next.RunID == prev.RunID {
		if next.Score > prev.Score && next.Len() > prev.Len() {
			kinds = append(kinds, KindEat)
		}
		if beatsHighScore(prev, next) {
			kinds = append(kinds, KindNewHighScore)
		}
		if next.Speed < prev.Speed {
			kinds = append(kinds, KindSpeedUp)
		}
	}

	if next.State == snake.StateGameOver && prev.State != snake.StateGameOver {
		if next.Won {
			kinds = append(kinds, KindWin)
		} else {
			kinds = append(kinds, KindCrash)
		}
		kinds = append(kinds, KindGameOver)
	}

	if prev.State == snake.StatePlaying && next.State == snake.StatePaused {
		kinds = append(kinds, KindPause)
	}
	if next.State == snake.StateStart && prev.State != snake.StateStart {
		kinds = append(kinds, KindReset)
	}

	events := make([]Event, len(kinds))
	for i, k := range kinds {
		events[i] = Event{Kind: k, Prev: prev, Next: next}
	}
	return events
}

// beatsHighScore reports the first time in a run that the score passes the
// previous best. Later raises in the same run are not repeated.
func beatsHighScore(prev, next snake.Snapshot) bool {
	if next.HighScore <= prev.HighScore || next.Score != next.HighScore {
		return false
	}
	return prev.Score < prev.HighScore || prev.Score == 0
}
