package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridsnake/internal/audio"
	"github.com/vovakirdan/gridsnake/internal/config"
	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/effects"
	"github.com/vovakirdan/gridsnake/internal/platform/tui"
	"github.com/vovakirdan/gridsnake/internal/session"
)

var flagSound bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Arrows/WASD/HJKL  - Steer
  Enter/Space       - Start, resume, play again
  P/Esc             - Pause
  R                 - Reset
  X                 - Give up the run
  Tab               - Run history
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Without --difficulty a picker is shown first.

Examples:
  snake play
  snake play --difficulty easy
  snake play --sound --seed 42
  snake play --config ./my-snake.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects and music")
}

func runPlay(_ *cobra.Command, _ []string) {
	// Get terminal size early for the difficulty picker
	rc := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagDifficulty == "" {
		preset, ok, menuErr := tui.RunDifficultyMenu(cfg, rc)
		if menuErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", menuErr)
			os.Exit(1)
		}
		// User quit the picker
		if !ok {
			return
		}
		config.ApplySnakePreset(&cfg, preset)
	}

	if err := playGame(cfg, rc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// playGame runs one local session until the player quits.
func playGame(cfg config.SnakeConfig, rc core.RuntimeConfig) error {
	// The alt screen owns the terminal, so logs are discarded unless --log-file is set
	logger, closeLog, err := newLogger("snake", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	opts := sessionOptions(cfg, store, logger)
	if cfg.Haptics.Enabled {
		opts.Sinks = append(opts.Sinks, effects.NewBell(os.Stdout, cfg.Haptics.PatternMS))
	}
	if flagSound && cfg.Audio.Enabled {
		player := audio.NewPlayer(cfg.Audio.Volume, opts.Engine.BaseSpeed)
		if initErr := player.Init(); initErr != nil {
			logger.Warn("audio unavailable", "error", initErr)
		} else {
			defer player.Close()
			opts.Sinks = append(opts.Sinks, player)
		}
	}

	game, err := session.New(session.NewID(), opts)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	// Ends an unfinished run so it is recorded before the store closes
	defer game.Close()

	if err := tui.Run(game.Engine(), store, rc); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
