package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Background loop: C5 E5 G5 E5 C5 E5 G5 A5 G5 E5 C5, then a rest.
var melodyNotes = []float64{523, 659, 784, 659, 523, 659, 784, 880, 784, 659, 523, 0}

const (
	melodyNoteLength = 140 * time.Millisecond
	melodyGain       = 0.05
)

// MusicTempo is the time between melody steps at a difficulty level.
// Higher levels play faster, down to 180ms.
func MusicTempo(level int) time.Duration {
	return time.Duration(max(180, 280-level*10)) * time.Millisecond
}

// melody loops melodyNotes forever. Each step sounds for melodyNoteLength
// and is padded with silence up to the tempo.
type melody struct {
	rate   beep.SampleRate
	slot   int // samples per step
	length int // samples of sound per step
	idx    int
	pos    int
	phase  float64
}

func newMelody(tempo time.Duration, rate beep.SampleRate) *melody {
	m := &melody{rate: rate, length: rate.N(melodyNoteLength)}
	m.setTempo(tempo)
	return m
}

// setTempo changes the step length. Callers hold the speaker lock while it plays.
func (m *melody) setTempo(tempo time.Duration) {
	m.slot = max(1, m.rate.N(tempo))
}

func (m *melody) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if m.pos >= m.slot {
			m.pos = 0
			m.phase = 0
			m.idx = (m.idx + 1) % len(melodyNotes)
		}

		var val float64
		if freq := melodyNotes[m.idx]; freq > 0 && m.pos < m.length {
			val = -melodyGain
			if m.phase < 0.5 {
				val = melodyGain
			}
			m.phase += freq / float64(m.rate)
			m.phase -= math.Floor(m.phase)
		}
		samples[i][0] = val
		samples[i][1] = val
		m.pos++
	}
	return len(samples), true
}

func (m *melody) Err() error { return nil }
