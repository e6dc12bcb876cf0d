package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/vovakirdan/gridsnake/internal/session"
	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

func slowConfig() snake.Config {
	cfg := snake.DefaultConfig()
	cfg.BaseSpeed = time.Hour // keep the ticker out of the way
	cfg.SpeedFloor = time.Minute
	return cfg
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "snake.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestServer(t *testing.T, store *storage.Store) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(Config{Session: session.Options{Engine: slowConfig(), Store: store}})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	_, err := NewServer(Config{Session: session.Options{Engine: snake.Config{GridSize: 1}}})
	assert.ErrorIs(t, err, snake.ErrInvalidConfig)
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `<canvas id="board"`)
}

func TestHighScoreEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)
	var out map[string]int
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/highscore", &out))
	assert.Equal(t, 0, out["highScore"])

	store := openStore(t)
	require.NoError(t, store.HighScore(storage.DefaultHighScoreKey).Set(17))
	_, ts = newTestServer(t, store)
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/highscore", &out))
	assert.Equal(t, 17, out["highScore"])
}

func TestRunsEndpoint(t *testing.T) {
	store := openStore(t)
	for i, score := range []int{4, 11, 7} {
		_, err := store.SaveRun(storage.RunEntry{RunID: string(rune('a' + i)), Score: score, Length: 3, Speed: 500 * time.Millisecond})
		require.NoError(t, err)
	}
	_, ts := newTestServer(t, store)

	var runs []runJSON
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/runs", &runs))
	require.Len(t, runs, 3)
	assert.Equal(t, 11, runs[0].Score)
	assert.Equal(t, int64(500), runs[0].Speed)

	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/runs?limit=2", &runs))
	assert.Len(t, runs, 2)

	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/runs?order=recent", &runs))
	assert.Equal(t, 7, runs[0].Score)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/runs?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/runs?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/runs?order=worst", nil))

	resp, err := http.Post(ts.URL+"/api/runs", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRunsEndpointWithoutStore(t *testing.T) {
	_, ts := newTestServer(t, nil)
	var runs []runJSON
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/runs", &runs))
	assert.Empty(t, runs)
}

func TestStatsAndConfigEndpoints(t *testing.T) {
	store := openStore(t)
	_, err := store.SaveRun(storage.RunEntry{RunID: "a", Score: 6, Length: 8, Won: true})
	require.NoError(t, err)
	_, ts := newTestServer(t, store)

	var stats statsJSON
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/stats", &stats))
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 8, stats.Longest)
	assert.NotNil(t, stats.LastPlayed)

	var cfg configJSON
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/config", &cfg))
	assert.Equal(t, 10, cfg.GridSize)
	assert.Equal(t, time.Hour.Milliseconds(), cfg.BaseSpeed)
}

func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

// readUntil reads snapshots until match accepts one.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(snake.Snapshot) bool) snake.Snapshot {
	t.Helper()
	for {
		var snap snake.Snapshot
		require.NoError(t, wsjson.Read(ctx, conn, &snap))
		if match(snap) {
			return snap
		}
	}
}

func TestSocketPlaysGame(t *testing.T) {
	store := openStore(t)
	srv, ts := newTestServer(t, store)
	conn, ctx := dial(t, ts)

	first := readUntil(t, ctx, conn, func(snake.Snapshot) bool { return true })
	assert.Equal(t, snake.StateStart, first.State)
	assert.Equal(t, 10, first.GridSize)
	assert.Equal(t, 1, srv.Sessions())

	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "start"}))
	playing := readUntil(t, ctx, conn, func(s snake.Snapshot) bool { return s.State == snake.StatePlaying })
	assert.Equal(t, 2, playing.Len())
	assert.NotEmpty(t, playing.RunID)

	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "direction", Direction: "down"}))
	readUntil(t, ctx, conn, func(s snake.Snapshot) bool { return s.Direction == snake.DirDown })

	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "pause"}))
	readUntil(t, ctx, conn, func(s snake.Snapshot) bool { return s.State == snake.StatePaused })

	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "start"}))
	readUntil(t, ctx, conn, func(s snake.Snapshot) bool { return s.State == snake.StatePlaying })

	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "gameover"}))
	over := readUntil(t, ctx, conn, func(s snake.Snapshot) bool { return s.State == snake.StateGameOver })
	assert.False(t, over.Won)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return srv.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)

	runs, err := store.TopRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, playing.RunID, runs[0].RunID)
}

func TestSocketDisconnectEndsRun(t *testing.T) {
	store := openStore(t)
	srv, ts := newTestServer(t, store)
	conn, ctx := dial(t, ts)

	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "start"}))
	readUntil(t, ctx, conn, func(s snake.Snapshot) bool { return s.State == snake.StatePlaying })
	require.NoError(t, conn.Close(websocket.StatusGoingAway, ""))

	require.Eventually(t, func() bool { return srv.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
	runs, err := store.TopRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "an abandoned run is still recorded")
}

func TestSocketIgnoresUnknownCommands(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn, ctx := dial(t, ts)

	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "fly"}))
	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "direction", Direction: "sideways"}))
	require.NoError(t, wsjson.Write(ctx, conn, Command{Type: "start"}))
	readUntil(t, ctx, conn, func(s snake.Snapshot) bool { return s.State == snake.StatePlaying })
}

func TestCommandApply(t *testing.T) {
	eng, err := snake.New(slowConfig(), &storage.MemoryHighScore{})
	require.NoError(t, err)
	defer eng.Close()

	assert.True(t, Command{Type: "start"}.apply(eng))
	assert.Equal(t, snake.StatePlaying, eng.Snapshot().State)

	assert.True(t, Command{Type: "direction", Direction: "up"}.apply(eng))
	assert.Equal(t, snake.DirUp, eng.Snapshot().Direction)

	assert.True(t, Command{Type: "pause"}.apply(eng))
	assert.True(t, Command{Type: "resume"}.apply(eng))
	assert.Equal(t, snake.StatePlaying, eng.Snapshot().State)

	assert.True(t, Command{Type: "reset"}.apply(eng))
	assert.Equal(t, snake.StateStart, eng.Snapshot().State)

	assert.False(t, Command{Type: "direction", Direction: "north"}.apply(eng))
	assert.False(t, Command{Type: "jump"}.apply(eng))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, err := NewServer(Config{Address: "127.0.0.1:0", Session: session.Options{Engine: slowConfig()}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
