package session

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gridsnake/internal/effects"
	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

// collector is a sink that remembers event kinds.
type collector struct {
	mu    sync.Mutex
	kinds []effects.Kind
}

func (c *collector) Handle(ev effects.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kinds = append(c.kinds, ev.Kind)
}

func (c *collector) seen(k effects.Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, got := range c.kinds {
		if got == k {
			return true
		}
	}
	return false
}

func slowConfig() snake.Config {
	cfg := snake.DefaultConfig()
	cfg.BaseSpeed = time.Hour // keep the ticker out of the way
	cfg.SpeedFloor = time.Minute
	return cfg
}

func TestSessionDispatchesEvents(t *testing.T) {
	sink := &collector{}
	s, err := New(NewID(), Options{Engine: slowConfig(), Seed: 7, Sinks: []effects.Sink{sink}})
	require.NoError(t, err)
	defer s.Close()

	s.Engine().Start()
	require.Eventually(t, func() bool { return sink.seen(effects.KindStart) }, time.Second, 5*time.Millisecond)

	s.Engine().Pause()
	require.Eventually(t, func() bool { return sink.seen(effects.KindPause) }, time.Second, 5*time.Millisecond)
}

func TestSessionRejectsBadConfig(t *testing.T) {
	_, err := New(NewID(), Options{Engine: snake.Config{GridSize: 1}})
	assert.ErrorIs(t, err, snake.ErrInvalidConfig)
}

func TestSessionCloseEndsActiveRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "snake.db"))
	require.NoError(t, err)
	defer store.Close()

	sink := &collector{}
	s, err := New(NewID(), Options{Engine: slowConfig(), Store: store, Sinks: []effects.Sink{sink}})
	require.NoError(t, err)

	s.Engine().Start()
	s.Close()

	assert.True(t, sink.seen(effects.KindGameOver), "close should deliver the final game over")

	runs, err := store.TopRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Length)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after Close")
	}

	// Idempotent
	s.Close()
}

func TestSessionCloseBeforeStartRecordsNothing(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "snake.db"))
	require.NoError(t, err)
	defer store.Close()

	s, err := New(NewID(), Options{Engine: slowConfig(), Store: store})
	require.NoError(t, err)
	s.Close()

	runs, err := store.TopRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSessionHighScoreOverride(t *testing.T) {
	high := &storage.MemoryHighScore{}
	require.NoError(t, high.Set(42))

	s, err := New(NewID(), Options{Engine: slowConfig(), HighScore: high})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 42, s.Engine().Snapshot().HighScore)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	a, err := New("a", Options{Engine: slowConfig()})
	require.NoError(t, err)
	b, err := New("b", Options{Engine: slowConfig()})
	require.NoError(t, err)

	r.Register(a)
	r.Register(b)
	assert.Equal(t, 2, r.Count())

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	r.Unregister("a")
	_, ok = r.Get("a")
	assert.False(t, ok)
	a.Close()

	r.CloseAll()
	assert.Equal(t, 0, r.Count())
	select {
	case <-b.Done():
	default:
		t.Fatal("CloseAll should close registered sessions")
	}
}
