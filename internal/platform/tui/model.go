package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/feed"
	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

// Engine is what the game screen needs from a snake engine.
type Engine interface {
	core.Controller
	Config() snake.Config
	Feed() *feed.Publisher[snake.Snapshot]
}

// GameModel is the Bubble Tea model for one player's game.
// It draws whatever the engine publishes and turns keys into engine calls;
// the engine's own ticker drives the game.
type GameModel struct {
	engine        Engine
	sub           *feed.Subscription[snake.Snapshot]
	snap          snake.Snapshot
	base          time.Duration
	screen        *core.Screen
	store         *storage.Store
	config        core.RuntimeConfig
	keys          KeyMap
	help          help.Model
	scoreboard    ScoreboardModel
	showRuns      bool
	quitting      bool
	screenshotDir string
}

// NewGameModel creates the game screen for eng. store may be nil.
func NewGameModel(eng Engine, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	dir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".gridsnake", "screenshots")
	}

	return GameModel{
		engine:        eng,
		sub:           eng.Feed().Subscribe(8),
		snap:          eng.Snapshot(),
		base:          eng.Config().BaseSpeed,
		screen:        core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:         store,
		config:        cfg,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		screenshotDir: dir,
	}
}

// Init starts listening to the engine.
func (m GameModel) Init() tea.Cmd {
	return waitForSnapshot(m.sub)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.snap = msg.Snapshot
		return m, waitForSnapshot(m.sub)

	case feedClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		if m.showRuns {
			next, _ := m.scoreboard.Update(msg)
			m.scoreboard = next.(ScoreboardModel)
		}
		return m, nil

	case tea.KeyMsg:
		if m.showRuns {
			return m.updateScoreboard(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.showRuns {
			m.handleClick(msg)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input on the game screen.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		m.sub.Close()
		return m, tea.Quit
	case core.ActionScores:
		if m.snap.State == snake.StatePlaying {
			m.engine.Pause()
		}
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.showRuns = true
	default:
		core.Apply(m.engine, action)
	}
	return m, nil
}

// handleClick steers toward a clicked cell. Outside a run a click starts one.
func (m GameModel) handleClick(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	size := m.snap.GridSize
	frame := core.BoardRect(size, m.screen.Width(), m.screen.Height())
	cell, ok := core.CellAt(frame, size, msg.X, msg.Y)
	if !ok {
		return
	}
	if m.snap.State != snake.StatePlaying {
		core.Apply(m.engine, core.ActionStart)
		return
	}
	core.Apply(m.engine, core.Toward(m.snap.Head(), cell, size))
}

// updateScoreboard forwards input to the runs table until it is closed.
func (m GameModel) updateScoreboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	m.scoreboard = next.(ScoreboardModel)

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		m.sub.Close()
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		m.showRuns = false
		return m, nil
	}
	return m, cmd
}

// saveScreenshot writes the current board as plain text.
func (m *GameModel) saveScreenshot() {
	if m.screenshotDir == "" {
		return
	}
	m.render()

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.screenshotDir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.screenshotDir, fmt.Sprintf("snake_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// render draws the latest snapshot into the screen buffer, leaving room
// for the help bar.
func (m GameModel) render() string {
	helpView := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(m.help.View(m.keys))

	m.screen.Resize(m.config.ScreenW, max(1, m.config.ScreenH-lipgloss.Height(helpView)))
	core.DrawBoard(m.screen, m.snap, m.base)
	return helpView
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.showRuns {
		return m.scoreboard.View()
	}

	helpView := m.render()
	return RenderScreen(m.screen) + "\n" + helpView
}

// Snapshot returns the last state the model rendered.
func (m GameModel) Snapshot() snake.Snapshot {
	return m.snap
}

// IsQuitting returns true if user requested to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for eng on the local terminal.
func Run(eng Engine, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewGameModel(eng, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
