package effects

import (
	"io"
	"sync"
	"time"
)

// DefaultVibration is the on/off pattern in milliseconds played on a crash.
var DefaultVibration = []int{400, 120, 400}

// Bell stands in for device vibration on a terminal: it rings BEL once for
// every "on" segment of the pattern, waiting through the gaps.
type Bell struct {
	mu      sync.Mutex
	w       io.Writer
	pattern []time.Duration
	sleep   func(time.Duration)
	busy    bool
}

// NewBell creates a bell writing to w with the given pattern in milliseconds.
// An empty pattern selects DefaultVibration.
func NewBell(w io.Writer, patternMS []int) *Bell {
	if len(patternMS) == 0 {
		patternMS = DefaultVibration
	}
	pattern := make([]time.Duration, len(patternMS))
	for i, ms := range patternMS {
		pattern[i] = time.Duration(max(ms, 0)) * time.Millisecond
	}
	return &Bell{w: w, pattern: pattern, sleep: time.Sleep}
}

// Handle implements Sink. Only crashes vibrate.
func (b *Bell) Handle(ev Event) {
	if ev.Kind != KindCrash {
		return
	}

	b.mu.Lock()
	if b.busy || b.w == nil {
		b.mu.Unlock()
		return
	}
	b.busy = true
	b.mu.Unlock()

	go b.play()
}

// Vibrate plays the pattern synchronously.
func (b *Bell) Vibrate() {
	for i, d := range b.pattern {
		if i%2 == 0 {
			b.mu.Lock()
			io.WriteString(b.w, "\a")
			b.mu.Unlock()
		}
		b.sleep(d)
	}
}

func (b *Bell) play() {
	defer func() {
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
	}()
	b.Vibrate()
}
