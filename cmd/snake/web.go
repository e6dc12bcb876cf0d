package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridsnake/internal/platform/web"
)

var (
	flagWebAddr string
	flagOrigins []string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the game to browsers",
	Long: `Start an HTTP server with a canvas client. Every browser tab that
connects gets its own game over a WebSocket; the run history is shared.

Endpoints:
  /                  - Game page
  /ws                - Snapshot stream and commands
  /api/highscore     - Best score
  /api/runs          - Run history (?limit=1..100, ?order=top|recent)
  /api/stats         - Aggregate statistics
  /api/config        - Board size and speeds

Examples:
  snake web
  snake web --addr :9000 --difficulty hard
  snake web --origin example.com`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", web.DefaultConfig().Address, "HTTP listen address (host:port)")
	webCmd.Flags().StringSliceVar(&flagOrigins, "origin", nil, "Extra hosts allowed to open sockets cross-origin")
}

func runWeb(_ *cobra.Command, _ []string) {
	if err := serveWeb(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveWeb() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger("snake-web", os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	webCfg := web.DefaultConfig()
	webCfg.Address = flagWebAddr
	webCfg.OriginPatterns = flagOrigins
	webCfg.Session = sessionOptions(cfg, store, logger)
	webCfg.Logger = logger

	server, err := web.NewServer(webCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving snake on http://localhost%s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
