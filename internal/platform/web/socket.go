package web

import (
	"context"
	"errors"
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/vovakirdan/gridsnake/internal/core"
	"github.com/vovakirdan/gridsnake/internal/session"
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Command is a message from the browser.
//
//	{"type":"direction","direction":"up"}
//	{"type":"start"} | pause | resume | reset | gameover
type Command struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// apply runs c against eng. It reports false for unknown commands.
func (c Command) apply(eng *snake.Engine) bool {
	switch c.Type {
	case "direction":
		d, err := snake.ParseDirection(c.Direction)
		if err != nil {
			return false
		}
		eng.SetDirection(d)
	case "start":
		// Also resumes a paused run and replays after game over
		core.Apply(eng, core.ActionStart)
	case "pause":
		eng.Pause()
	case "resume":
		eng.Resume()
	case "reset":
		eng.Reset()
	case "gameover":
		core.Apply(eng, core.ActionGameOver)
	default:
		return false
	}
	return true
}

// handleSocket plays one game over a WebSocket: every snapshot the engine
// publishes is written as JSON, and incoming commands drive the engine.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.config.OriginPatterns,
	})
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.CloseNow()

	opts := s.config.Session
	opts.Logger = s.logger.With("remote", r.RemoteAddr)
	game, err := session.New(session.NewID(), opts)
	if err != nil {
		s.logger.Error("cannot start game", "error", err)
		conn.Close(websocket.StatusInternalError, "cannot start game")
		return
	}
	s.sessions.Register(game)
	defer func() {
		game.Close()
		s.sessions.Unregister(game.ID())
	}()

	sub := game.Engine().Feed().Subscribe(32)
	defer sub.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.readCommands(ctx, cancel, conn, game)

	s.logger.Info("socket opened", "session", game.ID(), "remote", r.RemoteAddr)
	err = s.writeSnapshots(ctx, conn, sub.C(), sub.Done())
	s.logger.Info("socket closed", "session", game.ID(), "remote", r.RemoteAddr)

	switch {
	case err == nil:
		conn.Close(websocket.StatusGoingAway, "game closed")
	case errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		s.logger.Debug("socket write failed", "session", game.ID(), "error", err)
	}
}

// writeSnapshots forwards snapshots until ctx ends or the feed closes (nil error).
func (s *Server) writeSnapshots(ctx context.Context, conn *websocket.Conn, values <-chan snake.Snapshot, done <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			return nil
		case snap := <-values:
			writeCtx, cancel := context.WithTimeout(ctx, s.config.WriteTimeout)
			err := wsjson.Write(writeCtx, conn, snap)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// readCommands applies browser commands until the connection drops.
func (s *Server) readCommands(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, game *session.Session) {
	defer cancel()
	for {
		var cmd Command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				s.logger.Debug("socket read ended", "session", game.ID(), "error", err)
			}
			return
		}
		if !cmd.apply(game.Engine()) {
			s.logger.Debug("ignored command", "session", game.ID(), "type", cmd.Type, "direction", cmd.Direction)
		}
	}
}
