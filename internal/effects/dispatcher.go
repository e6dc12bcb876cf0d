package effects

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridsnake/internal/feed"
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// Sink receives game events. Handle runs on the dispatcher goroutine and
// must not call back into the engine.
type Sink interface {
	Handle(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Handle calls f(ev).
func (f SinkFunc) Handle(ev Event) { f(ev) }

// Dispatcher reads snapshots from a subscription and forwards the derived
// events to its sinks.
type Dispatcher struct {
	mu     sync.Mutex
	sinks  []Sink
	prev   snake.Snapshot
	primed bool
}

// NewDispatcher creates a dispatcher. nil sinks are skipped.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// Add registers another sink.
func (d *Dispatcher) Add(s Sink) {
	if s == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// Observe feeds one snapshot through detection. The first snapshot only
// primes the comparison baseline.
func (d *Dispatcher) Observe(next snake.Snapshot) {
	d.mu.Lock()
	prev, primed := d.prev, d.primed
	d.prev, d.primed = next, true
	sinks := d.sinks
	d.mu.Unlock()

	if !primed {
		return
	}
	for _, ev := range Detect(prev, next) {
		for _, s := range sinks {
			s.Handle(ev)
		}
	}
}

// Run consumes sub until ctx is cancelled or the subscription ends.
// Values already buffered when the subscription ends are still processed.
func (d *Dispatcher) Run(ctx context.Context, sub *feed.Subscription[snake.Snapshot]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-sub.C():
			d.Observe(s)
		case <-sub.Done():
			for {
				select {
				case s := <-sub.C():
					d.Observe(s)
				default:
					return nil
				}
			}
		}
	}
}

// LogSink writes every event to a logger.
type LogSink struct {
	Logger *log.Logger
}

// Handle implements Sink.
func (l LogSink) Handle(ev Event) {
	if l.Logger == nil {
		return
	}
	s := ev.Next
	switch ev.Kind {
	case KindGameOver:
		l.Logger.Info("event", "kind", ev.Kind, "run", s.RunID, "score", s.Score, "won", s.Won)
	case KindNewHighScore:
		l.Logger.Info("event", "kind", ev.Kind, "run", s.RunID, "highScore", s.HighScore)
	default:
		l.Logger.Debug("event", "kind", ev.Kind, "run", s.RunID, "score", s.Score, "speed", s.Speed)
	}
}
