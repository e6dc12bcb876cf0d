package snake

import (
	"encoding/json"
	"slices"
	"time"
)

// Snapshot captures the complete game state at one point in time.
// A published Snapshot is never modified; the engine builds a new one for
// every change, so observers can keep and compare them freely.
type Snapshot struct {
	State     State
	Direction Direction
	Food      int // -1 when no empty cell is left
	Score     int
	Speed     time.Duration
	HighScore int
	GridSize  int
	Tick      uint64 // Moves applied this run
	RunID     string // Empty until the first Start
	Won       bool   // Board filled; only meaningful with StateGameOver

	snake []int // Head first; the backing array is never written after publish
}

// Snake returns a copy of the occupied cells, head first.
func (s Snapshot) Snake() []int {
	return slices.Clone(s.snake)
}

// WithSnake returns a copy of s occupying cells (head first).
func (s Snapshot) WithSnake(cells []int) Snapshot {
	s.snake = slices.Clone(cells)
	return s
}

// Len returns the number of snake segments.
func (s Snapshot) Len() int {
	return len(s.snake)
}

// Head returns the head cell, or -1 when the snake is empty.
func (s Snapshot) Head() int {
	if len(s.snake) == 0 {
		return -1
	}
	return s.snake[0]
}

// Tail returns the last segment, or -1 when the snake is empty.
func (s Snapshot) Tail() int {
	if len(s.snake) == 0 {
		return -1
	}
	return s.snake[len(s.snake)-1]
}

// Occupies reports whether cell is part of the snake.
func (s Snapshot) Occupies(cell int) bool {
	return slices.Contains(s.snake, cell)
}

// Segment returns the index of cell within the snake (0 = head), or -1.
func (s Snapshot) Segment(cell int) int {
	return slices.Index(s.snake, cell)
}

// Level is the difficulty level implied by Speed relative to base.
func (s Snapshot) Level(base time.Duration) int {
	return Config{BaseSpeed: base}.Level(s.Speed)
}

// wireSnapshot is the JSON shape of a Snapshot; speed travels in milliseconds.
type wireSnapshot struct {
	State     State     `json:"state"`
	Direction Direction `json:"direction"`
	Snake     []int     `json:"snake"`
	Food      int       `json:"food"`
	Score     int       `json:"score"`
	Speed     int64     `json:"speed"`
	HighScore int       `json:"highScore"`
	GridSize  int       `json:"gridSize"`
	Tick      uint64    `json:"tick"`
	RunID     string    `json:"runId,omitempty"`
	Won       bool      `json:"won"`
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	cells := s.snake
	if cells == nil {
		cells = []int{}
	}
	return json.Marshal(wireSnapshot{
		State:     s.State,
		Direction: s.Direction,
		Snake:     cells,
		Food:      s.Food,
		Score:     s.Score,
		Speed:     s.Speed.Milliseconds(),
		HighScore: s.HighScore,
		GridSize:  s.GridSize,
		Tick:      s.Tick,
		RunID:     s.RunID,
		Won:       s.Won,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Snapshot{
		State:     w.State,
		Direction: w.Direction,
		Food:      w.Food,
		Score:     w.Score,
		Speed:     time.Duration(w.Speed) * time.Millisecond,
		HighScore: w.HighScore,
		GridSize:  w.GridSize,
		Tick:      w.Tick,
		RunID:     w.RunID,
		Won:       w.Won,
		snake:     w.Snake,
	}
	return nil
}
