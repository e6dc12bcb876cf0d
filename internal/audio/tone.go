// Package audio plays the game's square-wave sound effects and background
// melody through the beep speaker.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	beepfx "github.com/gopxl/beep/effects"
)

// SampleRate is the output rate of every generated stream.
const SampleRate = beep.SampleRate(44100)

// square generates a square wave of fixed length.
type square struct {
	freq     float64
	gain     float64
	phase    float64
	length   int
	position int
	rate     beep.SampleRate
}

// Tone returns a square wave at freq Hz for d, scaled by gain.
// A zero freq yields silence of the same length.
func Tone(freq float64, d time.Duration, gain float64, rate beep.SampleRate) beep.Streamer {
	if freq <= 0 {
		return beep.Silence(rate.N(d))
	}
	return &square{freq: freq, gain: gain, length: rate.N(d), rate: rate}
}

func (s *square) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.length {
			return i, i > 0
		}

		val := -s.gain
		if s.phase < 0.5 {
			val = s.gain
		}
		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *square) Err() error { return nil }

// note is one step of a sound effect.
type note struct {
	freq float64
	dur  time.Duration
}

// sequence plays notes back to back at the same gain.
func sequence(gain float64, rate beep.SampleRate, notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		parts[i] = Tone(n.freq, n.dur, gain, rate)
	}
	return beep.Seq(parts...)
}

// Sound effects, as (frequency, duration) steps.
var (
	eatNotes      = []note{{880, 80 * time.Millisecond}}
	crashNotes    = []note{{220, 200 * time.Millisecond}}
	gameOverNotes = []note{{440, 200 * time.Millisecond}, {330, 200 * time.Millisecond}, {220, 400 * time.Millisecond}}
	winNotes      = []note{{523, 120 * time.Millisecond}, {659, 120 * time.Millisecond}, {784, 120 * time.Millisecond}, {1047, 300 * time.Millisecond}}
	pauseNotes    = []note{{600, 80 * time.Millisecond}}
	resumeNotes   = []note{{900, 80 * time.Millisecond}}
)

// newVolume wraps s with a linear volume in [0, 1].
// math.Log2(0) is -Inf, so 0 maps to silent.
func newVolume(s beep.Streamer, vol float64) *beepfx.Volume {
	if vol <= 0 {
		return &beepfx.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &beepfx.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
