package storage

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridsnake/internal/effects"
)

// Recorder saves every finished run to the history table.
type Recorder struct {
	store  *Store
	logger *log.Logger
}

// NewRecorder creates a recorder. logger may be nil.
func NewRecorder(store *Store, logger *log.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Handle implements effects.Sink.
func (r *Recorder) Handle(ev effects.Event) {
	if ev.Kind != effects.KindGameOver || r.store == nil {
		return
	}
	s := ev.Next
	if s.RunID == "" {
		return
	}

	_, err := r.store.SaveRun(RunEntry{
		RunID:  s.RunID,
		Score:  s.Score,
		Length: s.Len(),
		Speed:  s.Speed,
		Won:    s.Won,
	})
	if err != nil && r.logger != nil {
		r.logger.Warn("could not record run", "run", s.RunID, "error", err)
	}
}

var _ effects.Sink = (*Recorder)(nil)
