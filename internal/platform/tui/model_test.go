package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridsnake/internal/config"
	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

// idleScheduler never fires; tests drive the engine by hand.
type idleScheduler struct{}

func (idleScheduler) Start(time.Duration, func()) bool { return true }
func (idleScheduler) Stop()                            {}

func newTestEngine(t *testing.T) *snake.Engine {
	t.Helper()
	e, err := snake.New(snake.DefaultConfig(), &storage.MemoryHighScore{},
		snake.WithScheduler(idleScheduler{}), snake.WithSeed(1))
	if err != nil {
		t.Fatalf("snake.New() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestKeyMapAction(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		msg      tea.KeyMsg
		expected core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runes("w"), core.ActionUp},
		{runes("j"), core.ActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runes("d"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionStart},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionStart},
		{runes("p"), core.ActionPause},
		{runes("r"), core.ActionReset},
		{runes("x"), core.ActionGameOver},
		{tea.KeyMsg{Type: tea.KeyTab}, core.ActionScores},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("z"), core.ActionNone},
	}

	for _, tc := range tests {
		if got := km.Action(tc.msg); got != tc.expected {
			t.Errorf("Action(%q) = %v, expected %v", tc.msg.String(), got, tc.expected)
		}
	}
}

func TestGameModelFollowsEngine(t *testing.T) {
	e := newTestEngine(t)
	m := NewGameModel(e, nil, core.DefaultConfig())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if e.Snapshot().State != snake.StatePlaying {
		t.Fatalf("enter should start the run, state = %v", e.Snapshot().State)
	}

	// The model only changes when the engine publishes
	if m.Snapshot().State != snake.StateStart {
		t.Errorf("model state = %v before the snapshot arrives", m.Snapshot().State)
	}
	m, cmd := update(t, m, SnapshotMsg{Snapshot: e.Snapshot()})
	if m.Snapshot().State != snake.StatePlaying {
		t.Errorf("model state = %v, expected playing", m.Snapshot().State)
	}
	if cmd == nil {
		t.Error("snapshot handling should re-arm the feed")
	}

	m, _ = update(t, m, runes("p"))
	if e.Snapshot().State != snake.StatePaused {
		t.Errorf("p should pause, state = %v", e.Snapshot().State)
	}
	m, _ = update(t, m, runes("p"))
	if e.Snapshot().State != snake.StatePlaying {
		t.Errorf("p should resume, state = %v", e.Snapshot().State)
	}

	update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if e.Snapshot().Direction != snake.DirDown {
		t.Errorf("down arrow should turn the snake, direction = %v", e.Snapshot().Direction)
	}
}

func TestGameModelWaitsForFeed(t *testing.T) {
	e := newTestEngine(t)
	m := NewGameModel(e, nil, core.DefaultConfig())

	// The subscription is primed with the current state
	msg := m.Init()()
	snap, ok := msg.(SnapshotMsg)
	if !ok {
		t.Fatalf("Init cmd returned %T", msg)
	}
	if snap.Snapshot.State != snake.StateStart {
		t.Errorf("first snapshot state = %v", snap.Snapshot.State)
	}

	e.Close()
	if _, ok := waitForSnapshot(m.sub)().(feedClosedMsg); !ok {
		t.Error("closed engine should end the wait")
	}
}

func TestGameModelQuitsWhenFeedCloses(t *testing.T) {
	m := NewGameModel(newTestEngine(t), nil, core.DefaultConfig())
	m, cmd := update(t, m, feedClosedMsg{})
	if !m.IsQuitting() || !isQuit(cmd) {
		t.Error("closed feed should quit the program")
	}
}

func TestGameModelQuitKey(t *testing.T) {
	m := NewGameModel(newTestEngine(t), nil, core.DefaultConfig())
	m, cmd := update(t, m, runes("q"))
	if !m.IsQuitting() || !isQuit(cmd) {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting view should be empty")
	}
}

func TestGameModelView(t *testing.T) {
	m := NewGameModel(newTestEngine(t), nil, core.DefaultConfig())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 24})

	view := m.View()
	for _, want := range []string{"Score: 0", "Enter to start", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	// Help expands on ?
	m, _ = update(t, m, runes("?"))
	if !strings.Contains(m.View(), "give up") {
		t.Error("full help should list every binding")
	}
}

func TestGameModelScoreboardPausesAndReturns(t *testing.T) {
	e := newTestEngine(t)
	m := NewGameModel(e, nil, core.DefaultConfig())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, SnapshotMsg{Snapshot: e.Snapshot()})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if e.Snapshot().State != snake.StatePaused {
		t.Errorf("opening the runs table should pause, state = %v", e.Snapshot().State)
	}
	if !strings.Contains(m.View(), "Run history is off") {
		t.Errorf("expected the runs table:\n%s", m.View())
	}

	// Arrow keys scroll the table rather than steer
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if e.Snapshot().Direction != snake.DirRight {
		t.Error("keys should not reach the engine while the table is open")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "SNAKE RUNS") {
		t.Error("esc should return to the game")
	}
}

func TestGameModelScreenshot(t *testing.T) {
	m := NewGameModel(newTestEngine(t), nil, core.DefaultConfig())
	m.screenshotDir = t.TempDir()

	update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	files, err := filepath.Glob(filepath.Join(m.screenshotDir, "snake_*.txt"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one screenshot, got %v (%v)", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Score: 0") {
		t.Errorf("screenshot content = %q", data)
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawTextColored(0, 0, "ab", core.ColorRed)
	s.DrawText(0, 1, "cd")

	out := RenderScreen(s)
	if !strings.Contains(out, "ab") || !strings.Contains(out, "cd") {
		t.Errorf("RenderScreen lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 2 lines, got %q", out)
	}
}

func TestDifficultyMenu(t *testing.T) {
	m := NewDifficultyModel(config.DefaultSnakeConfig(), 80, 24)
	if _, ok := m.Selected(); ok {
		t.Fatal("nothing selected yet")
	}
	if !strings.Contains(m.View(), "> normal") {
		t.Errorf("cursor should start on normal:\n%s", m.View())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	dm := next.(DifficultyModel)

	preset, ok := dm.Selected()
	if !ok || preset != config.DifficultyHard {
		t.Errorf("Selected() = %q, %v, expected hard", preset, ok)
	}
	if !isQuit(cmd) {
		t.Error("selecting should end the menu program")
	}

	next, cmd = m.Update(runes("q"))
	if !next.(DifficultyModel).IsQuitting() || !isQuit(cmd) {
		t.Error("q should quit")
	}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestGameModelClickSteers(t *testing.T) {
	e := newTestEngine(t)
	m := NewGameModel(e, nil, core.DefaultConfig())
	m.View() // sizes the screen

	size := e.Config().GridSize
	frame := core.BoardRect(size, m.screen.Width(), m.screen.Height())

	// Clicks off the board are ignored
	m, _ = update(t, m, click(0, 0))
	if e.Snapshot().State != snake.StateStart {
		t.Fatalf("click outside the board changed state to %v", e.Snapshot().State)
	}

	// A click on the board starts the run
	m, _ = update(t, m, click(core.CellPosition(frame, size, 0)))
	if e.Snapshot().State != snake.StatePlaying {
		t.Fatalf("click should start the run, state = %v", e.Snapshot().State)
	}
	m, _ = update(t, m, SnapshotMsg{Snapshot: e.Snapshot()})

	head := m.Snapshot().Head()
	below := snake.Index(snake.Row(head, size)+3, snake.Col(head, size), size)
	update(t, m, click(core.CellPosition(frame, size, below)))
	if e.Snapshot().Direction != snake.DirDown {
		t.Errorf("click below the head should turn down, direction = %v", e.Snapshot().Direction)
	}

	// Releases and other buttons do nothing
	above := snake.Index(snake.Row(head, size)-3, snake.Col(head, size), size)
	x, y := core.CellPosition(frame, size, above)
	update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if e.Snapshot().Direction != snake.DirDown {
		t.Errorf("direction = %v after ignored clicks", e.Snapshot().Direction)
	}
}
