package core

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/gridsnake/internal/snake"
)

const testBase = 600 * time.Millisecond

func testSnapshot(state snake.State, body []int, food int) snake.Snapshot {
	return snake.Snapshot{
		State:    state,
		GridSize: 10,
		Food:     food,
		Speed:    testBase,
	}.WithSnake(body)
}

// cellAt returns the screen cell holding grid cell idx.
func cellAt(s *Screen, snap snake.Snapshot, idx int) Cell {
	frame := BoardRect(snap.GridSize, s.Width(), s.Height())
	x := frame.X + 1 + snake.Col(idx, snap.GridSize)*CellWidth
	y := frame.Y + 1 + snake.Row(idx, snap.GridSize)
	return s.GetCell(x, y)
}

func TestBoardSize(t *testing.T) {
	w, h := BoardSize(10)
	if w != 22 || h != 14 {
		t.Errorf("BoardSize(10) = %dx%d, expected 22x14", w, h)
	}
}

func TestDrawBoardCells(t *testing.T) {
	s := NewScreen(40, 20)
	snap := testSnapshot(snake.StatePlaying, []int{53, 52, 51}, 7)
	DrawBoard(s, snap, testBase)

	if c := cellAt(s, snap, 53); c.Rune != glyphHead || c.Color != ColorBrightGreen {
		t.Errorf("head cell = %+v", c)
	}
	if c := cellAt(s, snap, 51); c.Rune != glyphBody || c.Color != LevelColor(1) {
		t.Errorf("body cell = %+v", c)
	}
	if c := cellAt(s, snap, 7); c.Rune != glyphFood {
		t.Errorf("food cell = %+v", c)
	}
	if c := cellAt(s, snap, 0); c.Rune != glyphEmpty {
		t.Errorf("empty cell = %+v", c)
	}
}

func TestDrawBoardFrame(t *testing.T) {
	s := NewScreen(22, 14)
	DrawBoard(s, testSnapshot(snake.StatePlaying, []int{0}, 99), testBase)

	if s.Get(0, 2) != '┌' || s.Get(21, 13) != '┘' {
		t.Errorf("frame corners missing:\n%s", s.String())
	}
	if !strings.Contains(s.Row(0), "Score: 0") {
		t.Errorf("HUD row = %q", s.Row(0))
	}
}

func TestDrawBoardHUD(t *testing.T) {
	s := NewScreen(60, 20)
	snap := testSnapshot(snake.StatePlaying, []int{5}, 9)
	snap.Score = 12
	snap.HighScore = 12
	snap.Speed = 200 * time.Millisecond
	DrawBoard(s, snap, testBase)

	row := s.Row(0)
	for _, want := range []string{"Score: 12", "High: 12", "Level: 3", "Speed: 200ms", "NEW BEST"} {
		if !strings.Contains(row, want) {
			t.Errorf("HUD %q missing %q", row, want)
		}
	}
}

func TestDrawBoardOverlays(t *testing.T) {
	tests := []struct {
		name  string
		state snake.State
		won   bool
		want  string
	}{
		{"start", snake.StateStart, false, "Enter to start"},
		{"paused", snake.StatePaused, false, "Paused"},
		{"game over", snake.StateGameOver, false, "Game Over"},
		{"won", snake.StateGameOver, true, "You Win!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScreen(40, 20)
			snap := testSnapshot(tc.state, []int{5}, 9)
			snap.Won = tc.won
			DrawBoard(s, snap, testBase)

			if !strings.Contains(s.String(), tc.want) {
				t.Errorf("overlay missing %q:\n%s", tc.want, s.String())
			}
		})
	}

	s := NewScreen(40, 20)
	DrawBoard(s, testSnapshot(snake.StatePlaying, []int{5}, 9), testBase)
	if strings.Contains(s.String(), "Enter") {
		t.Error("no overlay expected while playing")
	}
}

func TestDrawBoardTooSmall(t *testing.T) {
	s := NewScreen(10, 5)
	DrawBoard(s, testSnapshot(snake.StatePlaying, []int{5}, 9), testBase)

	if !strings.Contains(s.String(), "too small") {
		t.Errorf("expected size warning:\n%s", s.String())
	}
}

func TestLevelColor(t *testing.T) {
	if LevelColor(1) == LevelColor(6) {
		t.Error("level 1 and 6 should differ")
	}
	if LevelColor(6) != LevelColor(40) {
		t.Error("levels past 6 share a color")
	}
}
