package core

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Board glyphs. Each grid cell takes CellWidth columns so the board looks
// square in a terminal.
const (
	CellWidth = 2

	glyphHead  = 'O'
	glyphBody  = 'o'
	glyphFood  = '*'
	glyphEmpty = '·'

	hudHeight = 2 // HUD line plus separator
)

// LevelColor is the snake color at a difficulty level; faster runs turn warmer.
func LevelColor(level int) Color {
	switch level {
	case 1:
		return ColorGreen
	case 2:
		return ColorCyan
	case 3:
		return ColorBlue
	case 4:
		return ColorMagenta
	case 5:
		return ColorYellow
	default:
		return ColorRed
	}
}

// BoardSize returns the screen size needed to draw a grid of size cells per side.
func BoardSize(size int) (w, h int) {
	return size*CellWidth + 2, size + 2 + hudHeight
}

// BoardRect returns where the framed grid goes on a w×h screen:
// centered horizontally, directly under the HUD.
func BoardRect(size, w, h int) Rect {
	bw, bh := BoardSize(size)
	bh -= hudHeight
	x := Clamp((w-bw)/2, 0, max(0, w-bw))
	return NewRect(x, hudHeight, bw, bh)
}

// CellPosition returns the screen position where cell is drawn inside frame.
func CellPosition(frame Rect, size, cell int) (x, y int) {
	return frame.X + 1 + snake.Col(cell, size)*CellWidth, frame.Y + 1 + snake.Row(cell, size)
}

// CellAt maps a screen position back to the grid cell drawn there.
func CellAt(frame Rect, size, x, y int) (cell int, ok bool) {
	inner := NewRect(frame.X+1, frame.Y+1, size*CellWidth, size)
	if !inner.Contains(x, y) {
		return -1, false
	}
	return snake.Index(y-inner.Y, (x-inner.X)/CellWidth, size), true
}

// DrawBoard renders snap onto s: the HUD, the framed grid and a state overlay.
// base is the engine's starting speed, used to derive the level.
func DrawBoard(s *Screen, snap snake.Snapshot, base time.Duration) {
	s.Clear()

	size := snap.GridSize
	needW, needH := BoardSize(size)
	if s.Width() < needW || s.Height() < needH {
		y := s.Height() / 2
		s.DrawTextCentered(y-1, "Terminal too small", ColorBrightRed)
		s.DrawTextCentered(y, fmt.Sprintf("need %dx%d", needW, needH), ColorGray)
		return
	}

	level := snap.Level(base)
	drawHUD(s, snap, level)

	frame := BoardRect(size, s.Width(), s.Height())
	s.DrawBox(frame, ColorGray)

	body := LevelColor(level)
	for cell := 0; cell < size*size; cell++ {
		x, y := CellPosition(frame, size, cell)

		switch seg := snap.Segment(cell); {
		case seg == 0:
			s.SetColored(x, y, glyphHead, ColorBrightGreen)
		case seg > 0:
			s.SetColored(x, y, glyphBody, body)
		case cell == snap.Food:
			s.SetColored(x, y, glyphFood, ColorBrightRed)
		default:
			s.SetColored(x, y, glyphEmpty, ColorGray)
		}
	}

	drawOverlay(s, frame, snap)
}

func drawHUD(s *Screen, snap snake.Snapshot, level int) {
	hud := fmt.Sprintf("Score: %d  High: %d  Level: %d  Speed: %dms",
		snap.Score, snap.HighScore, level, snap.Speed.Milliseconds())
	s.DrawTextColored(1, 0, hud, ColorBrightYellow)

	if snap.Score > 0 && snap.Score == snap.HighScore {
		s.DrawTextColored(s.Width()-len("NEW BEST")-1, 0, "NEW BEST", ColorBrightMagenta)
	}
	s.DrawHLine(0, 1, s.Width(), '─', ColorGray)
}

// drawOverlay boxes a short message in the middle of the grid.
func drawOverlay(s *Screen, frame Rect, snap snake.Snapshot) {
	var lines []string
	color := ColorBrightWhite
	switch snap.State {
	case snake.StateStart:
		lines = []string{"SNAKE", "Enter to start"}
	case snake.StatePaused:
		lines = []string{"Paused", "P to resume"}
	case snake.StateGameOver:
		if snap.Won {
			lines = []string{"You Win!", fmt.Sprintf("Score: %d", snap.Score), "Enter to play again"}
			color = ColorBrightGreen
		} else {
			lines = []string{"Game Over", fmt.Sprintf("Score: %d", snap.Score), "Enter to play again"}
			color = ColorBrightRed
		}
	default:
		return
	}

	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	w += 4
	h := len(lines) + 2
	cx, cy := frame.Center()
	box := NewRect(cx-w/2, cy-h/2, w, h)

	s.DrawRect(box, ' ')
	s.DrawBox(box, color)
	for i, l := range lines {
		s.DrawTextColored(box.X+(w-len(l))/2, box.Y+1+i, l, color)
	}
}
