// Package session bundles one player's engine with the effect sinks that
// react to it. Every front end (terminal, SSH, browser) plays through a Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gridsnake/internal/effects"
	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

// ID uniquely identifies a session (an SSH connection, a socket, the local terminal).
type ID string

// NewID returns a fresh session identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Options configures a Session.
type Options struct {
	Engine snake.Config

	// Store records finished runs and, unless HighScore is set, holds the
	// high score under HighScoreKey. May be nil.
	Store        *storage.Store
	HighScoreKey string

	// HighScore overrides the store-backed high score.
	// With neither Store nor HighScore the score lives in memory.
	HighScore snake.HighScoreStore

	Logger *log.Logger
	Seed   int64 // 0 picks a random seed
	Sinks  []effects.Sink

	// Buffer is the dispatcher's subscription depth.
	Buffer int
}

// Session is one player's game: an engine plus a dispatcher goroutine that
// feeds its events to the configured sinks.
type Session struct {
	id     ID
	engine *snake.Engine
	logger *log.Logger

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session and starts its dispatcher.
func New(id ID, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("session", string(id))

	high := opts.HighScore
	if high == nil {
		switch {
		case opts.Store != nil:
			key := opts.HighScoreKey
			if key == "" {
				key = storage.DefaultHighScoreKey
			}
			high = opts.Store.HighScore(key)
		default:
			high = &storage.MemoryHighScore{}
		}
	}

	engineOpts := []snake.Option{snake.WithLogger(logger)}
	if opts.Seed != 0 {
		engineOpts = append(engineOpts, snake.WithSeed(opts.Seed))
	}
	eng, err := snake.New(opts.Engine, high, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	sinks := append([]effects.Sink{effects.LogSink{Logger: logger}}, opts.Sinks...)
	if opts.Store != nil {
		sinks = append(sinks, storage.NewRecorder(opts.Store, logger))
	}
	dispatcher := effects.NewDispatcher(sinks...)

	buffer := opts.Buffer
	if buffer < 1 {
		buffer = 64
	}
	sub := eng.Feed().Subscribe(buffer)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     id,
		engine: eng,
		logger: logger,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer sub.Close()
		if err := dispatcher.Run(ctx, sub); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("dispatcher stopped", "error", err)
		}
	}()

	logger.Debug("session opened")
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() ID {
	return s.id
}

// Engine returns the session's game engine.
func (s *Session) Engine() *snake.Engine {
	return s.engine
}

// Done returns a channel that closes once the session has shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close ends a run still in progress (so its score is kept), stops the
// engine and waits for the sinks to see the final events.
// Safe to call multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if st := s.engine.Snapshot().State; st == snake.StatePlaying || st == snake.StatePaused {
			s.engine.GameOver()
		}
		s.engine.Close()

		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			s.logger.Warn("dispatcher did not drain in time")
			s.cancel()
			<-s.done
		}
		s.cancel()
		s.logger.Debug("session closed")
	})
}
