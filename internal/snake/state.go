package snake

import "fmt"

// State is the phase of a run.
//
//	Start -> Playing -> {Paused <-> Playing} -> GameOver -> Start
type State int

const (
	StateStart State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, error) {
	switch s {
	case "start":
		return StateStart, nil
	case "playing":
		return StatePlaying, nil
	case "paused":
		return StatePaused, nil
	case "game_over":
		return StateGameOver, nil
	}
	return 0, fmt.Errorf("snake: unknown state %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
