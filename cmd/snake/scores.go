package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/platform/tui"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRecent bool
	flagInteractive  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the run history",
	Long: `Display the best recorded runs and the high score.

Examples:
  snake scores
  snake scores --limit 25
  snake scores --recent
  snake scores -i          # browse in a table`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "List the latest runs instead of the best")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in an interactive table")
}

func runScores(_ *cobra.Command, _ []string) {
	if err := showScores(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showScores() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	if store == nil {
		return errors.New("no database: run history needs --db")
	}
	defer store.Close()

	if flagInteractive {
		rc := core.DefaultConfig()
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			rc.ScreenW, rc.ScreenH = w, h
		}
		return tui.RunScoreboard(store, rc.ScreenW, rc.ScreenH)
	}

	var runs []storage.RunEntry
	if flagScoresRecent {
		runs, err = store.RecentRuns(flagScoresLimit)
	} else {
		runs, err = store.TopRuns(flagScoresLimit)
	}
	if err != nil {
		return err
	}

	if flagScoresRecent {
		fmt.Println("Recent Runs - Snake")
	} else {
		fmt.Println("High Scores - Snake")
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-6s  %-7s  %-6s  %s\n", "Rank", "Score", "Length", "Speed", "Result", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-7s  %-6s  %s\n", "----", "-----", "------", "-----", "------", "----")

	for i, run := range runs {
		result := "crash"
		if run.Won {
			result = "win"
		}
		fmt.Printf("  %-4d  %-6d  %-6d  %-7s  %-6s  %s\n",
			i+1, run.Score, run.Length,
			fmt.Sprintf("%dms", run.Speed.Milliseconds()),
			result,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	// Show high score
	fmt.Println()
	key := cfg.Storage.HighScoreKey
	if key == "" {
		key = storage.DefaultHighScoreKey
	}
	if best, err := store.HighScore(key).Get(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}
