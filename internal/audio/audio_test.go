package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/gridsnake/internal/effects"
	"github.com/vovakirdan/gridsnake/internal/snake"
)

// drain streams s to completion and returns the number of samples produced.
func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
	t.Fatal("stream never ended")
	return 0
}

func TestToneLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := Tone(880, 80*time.Millisecond, 0.12, rate)

	buf := make([][2]float64, 100)
	n, ok := s.Stream(buf)
	if !ok || n != 100 {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v != 0.12 && v != -0.12 {
			t.Fatalf("sample %d = %f, want +-0.12", i, v)
		}
	}

	if got, want := 100+drain(t, s), rate.N(80*time.Millisecond); got != want {
		t.Errorf("tone length = %d samples, want %d", got, want)
	}
}

func TestToneZeroFrequencyIsSilence(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := Tone(0, 10*time.Millisecond, 1, rate)

	buf := make([][2]float64, rate.N(10*time.Millisecond))
	n, _ := s.Stream(buf)
	for i := 0; i < n; i++ {
		if buf[i][0] != 0 || buf[i][1] != 0 {
			t.Fatalf("sample %d not silent", i)
		}
	}
}

func TestGameOverSequenceLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := sequence(0.2, rate, gameOverNotes...)

	want := rate.N(200*time.Millisecond)*2 + rate.N(400*time.Millisecond)
	if got := drain(t, s); got != want {
		t.Errorf("game over sequence = %d samples, want %d", got, want)
	}
}

func TestMusicTempo(t *testing.T) {
	tests := []struct {
		level int
		want  time.Duration
	}{
		{1, 270 * time.Millisecond},
		{3, 250 * time.Millisecond},
		{10, 180 * time.Millisecond},
		{50, 180 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := MusicTempo(tt.level); got != tt.want {
			t.Errorf("MusicTempo(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestMelodyLoopsForever(t *testing.T) {
	rate := beep.SampleRate(1000)
	m := newMelody(200*time.Millisecond, rate)

	buf := make([][2]float64, 200)
	for step := 0; step < len(melodyNotes)+2; step++ {
		n, ok := m.Stream(buf)
		if !ok || n != len(buf) {
			t.Fatalf("step %d: Stream() = %d, %v", step, n, ok)
		}
	}
	if m.idx != 1 {
		t.Errorf("melody index after a full loop = %d, want 1", m.idx)
	}
}

func TestMelodyRestIsSilent(t *testing.T) {
	rate := beep.SampleRate(1000)
	m := newMelody(200*time.Millisecond, rate)
	m.idx = len(melodyNotes) - 1 // the rest

	buf := make([][2]float64, 200)
	m.Stream(buf)
	for i, s := range buf {
		if s[0] != 0 {
			t.Fatalf("sample %d = %f during rest", i, s[0])
		}
	}
}

func TestMelodyNoteThenGap(t *testing.T) {
	rate := beep.SampleRate(1000)
	m := newMelody(200*time.Millisecond, rate)

	buf := make([][2]float64, 200)
	m.Stream(buf)
	if buf[0][0] == 0 {
		t.Error("first step should start with sound")
	}
	for i := 140; i < 200; i++ {
		if buf[i][0] != 0 {
			t.Fatalf("sample %d should be in the gap after the note", i)
		}
	}
}

func event(kind effects.Kind, speed time.Duration) effects.Event {
	return effects.Event{Kind: kind, Next: snake.Snapshot{Speed: speed}}
}

func TestPlayerTracksMusicWithoutDevice(t *testing.T) {
	p := NewPlayer(0.5, 600*time.Millisecond)
	defer p.Close()

	p.Handle(event(effects.KindStart, 600*time.Millisecond))
	if !p.MusicPlaying() || p.Tempo() != 270*time.Millisecond {
		t.Fatalf("after start: playing=%v tempo=%v", p.MusicPlaying(), p.Tempo())
	}

	p.Handle(event(effects.KindSpeedUp, 200*time.Millisecond))
	if p.Tempo() != 250*time.Millisecond {
		t.Errorf("tempo after speed up = %v, want 250ms", p.Tempo())
	}

	p.Handle(event(effects.KindPause, 200*time.Millisecond))
	if p.MusicPlaying() {
		t.Error("music still playing while paused")
	}

	p.Handle(event(effects.KindResume, 200*time.Millisecond))
	if !p.MusicPlaying() {
		t.Error("music not resumed")
	}

	p.Handle(event(effects.KindCrash, 200*time.Millisecond))
	p.Handle(event(effects.KindGameOver, 200*time.Millisecond))
	if p.MusicPlaying() {
		t.Error("music still playing after game over")
	}

	want := []effects.Kind{effects.KindPause, effects.KindResume, effects.KindCrash, effects.KindGameOver}
	got := p.Played()
	if len(got) != len(want) {
		t.Fatalf("played %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("played[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlayerWinSkipsGameOverTune(t *testing.T) {
	p := NewPlayer(1, 600*time.Millisecond)

	won := effects.Event{Kind: effects.KindGameOver, Next: snake.Snapshot{Won: true, State: snake.StateGameOver}}
	p.Handle(effects.Event{Kind: effects.KindWin, Next: won.Next})
	p.Handle(won)

	got := p.Played()
	if len(got) != 1 || got[0] != effects.KindWin {
		t.Errorf("played %v, want only the win tune", got)
	}
}
