package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vovakirdan/gridsnake/internal/storage"
)

const (
	defaultRunsLimit = 10
	maxRunsLimit     = 100
)

// runJSON is the wire form of a recorded run.
type runJSON struct {
	RunID     string    `json:"runId"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Speed     int64     `json:"speed"`
	Won       bool      `json:"won"`
	CreatedAt time.Time `json:"createdAt"`
}

type statsJSON struct {
	Runs       int        `json:"runs"`
	Wins       int        `json:"wins"`
	BestScore  int        `json:"bestScore"`
	AvgScore   float64    `json:"avgScore"`
	Longest    int        `json:"longest"`
	LastPlayed *time.Time `json:"lastPlayed,omitempty"`
}

type configJSON struct {
	GridSize   int   `json:"gridSize"`
	BaseSpeed  int64 `json:"baseSpeed"`
	SpeedFloor int64 `json:"speedFloor"`
	SpeedStep  int64 `json:"speedStep"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Client may be gone
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleHighScore returns the persisted best score.
func (s *Server) handleHighScore(w http.ResponseWriter, r *http.Request) {
	opts := s.config.Session
	high := opts.HighScore
	if high == nil && opts.Store != nil {
		key := opts.HighScoreKey
		if key == "" {
			key = storage.DefaultHighScoreKey
		}
		high = opts.Store.HighScore(key)
	}

	value := 0
	if high != nil {
		v, err := high.Get()
		if err != nil {
			s.logger.Warn("could not read high score", "error", err)
			writeError(w, http.StatusInternalServerError, "high score unavailable")
			return
		}
		value = v
	}
	writeJSON(w, http.StatusOK, map[string]int{"highScore": value})
}

// handleRuns lists the best runs, ?limit=n (1 to 100, default 10).
// ?order=recent lists the latest runs instead.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	out := []runJSON{}
	store := s.config.Session.Store
	if store != nil {
		var (
			runs []storage.RunEntry
			err  error
		)
		switch r.URL.Query().Get("order") {
		case "", "top":
			runs, err = store.TopRuns(limit)
		case "recent":
			runs, err = store.RecentRuns(limit)
		default:
			writeError(w, http.StatusBadRequest, "order must be top or recent")
			return
		}
		if err != nil {
			s.logger.Warn("could not list runs", "error", err)
			writeError(w, http.StatusInternalServerError, "runs unavailable")
			return
		}
		for _, run := range runs {
			out = append(out, runJSON{
				RunID:     run.RunID,
				Score:     run.Score,
				Length:    run.Length,
				Speed:     run.Speed.Milliseconds(),
				Won:       run.Won,
				CreatedAt: run.CreatedAt,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleStats returns aggregate statistics over all runs.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	out := statsJSON{}
	if store := s.config.Session.Store; store != nil {
		stats, err := store.Stats()
		if err != nil {
			s.logger.Warn("could not read stats", "error", err)
			writeError(w, http.StatusInternalServerError, "stats unavailable")
			return
		}
		out = statsJSON{
			Runs:      stats.Runs,
			Wins:      stats.Wins,
			BestScore: stats.BestScore,
			AvgScore:  stats.AvgScore,
			Longest:   stats.Longest,
		}
		if !stats.LastPlayed.IsZero() {
			out.LastPlayed = &stats.LastPlayed
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleConfig describes the board every new socket gets.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.config.Session.Engine
	writeJSON(w, http.StatusOK, configJSON{
		GridSize:   cfg.GridSize,
		BaseSpeed:  cfg.BaseSpeed.Milliseconds(),
		SpeedFloor: cfg.SpeedFloor.Milliseconds(),
		SpeedStep:  cfg.SpeedStep.Milliseconds(),
	})
}
