package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/gridsnake/internal/effects"
)

// Player turns game events into sound. Until Init succeeds every method only
// tracks state, so a game without an audio device behaves the same.
type Player struct {
	mu          sync.Mutex
	base        time.Duration // Engine base speed, for the music level
	volume      float64
	mixer       *beep.Mixer
	music       *beep.Ctrl
	melody      *melody
	musicOn     bool
	tempo       time.Duration
	played      []effects.Kind
	initialized bool
}

// NewPlayer creates a player at volume (0 to 1). base is the engine's
// starting tick interval, used to derive the music level from the speed.
func NewPlayer(volume float64, base time.Duration) *Player {
	return &Player{
		base:   base,
		volume: min(max(volume, 0), 1),
		mixer:  &beep.Mixer{},
		tempo:  MusicTempo(1),
	}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(newVolume(p.mixer, p.volume))
	p.initialized = true
	return nil
}

// Close silences everything.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.musicOn = false
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.music = nil
	p.melody = nil
}

// Handle implements effects.Sink.
func (p *Player) Handle(ev effects.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	level := ev.Next.Level(p.base)
	switch ev.Kind {
	case effects.KindStart:
		p.startMusic(level)
	case effects.KindResume:
		p.effect(ev.Kind, resumeNotes, 0.1)
		p.startMusic(level)
	case effects.KindEat:
		p.effect(ev.Kind, eatNotes, 0.12)
	case effects.KindSpeedUp:
		p.setTempo(MusicTempo(level))
	case effects.KindCrash:
		p.effect(ev.Kind, crashNotes, 0.2)
	case effects.KindWin:
		p.stopMusic()
		p.effect(ev.Kind, winNotes, 0.2)
	case effects.KindGameOver:
		p.stopMusic()
		if !ev.Next.Won {
			p.effect(ev.Kind, gameOverNotes, 0.2)
		}
	case effects.KindPause:
		p.stopMusic()
		p.effect(ev.Kind, pauseNotes, 0.1)
	case effects.KindReset:
		p.stopMusic()
	}
}

// MusicPlaying reports whether the background loop is on.
func (p *Player) MusicPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.musicOn
}

// Tempo returns the current melody step length.
func (p *Player) Tempo() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tempo
}

// Played returns the effects triggered so far, oldest first.
func (p *Player) Played() []effects.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]effects.Kind(nil), p.played...)
}

func (p *Player) effect(kind effects.Kind, notes []note, gain float64) {
	p.played = append(p.played, kind)
	if !p.initialized {
		return
	}
	s := sequence(gain, SampleRate, notes...)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *Player) startMusic(level int) {
	p.tempo = MusicTempo(level)
	if p.musicOn {
		p.setTempo(p.tempo)
		return
	}
	p.musicOn = true
	if !p.initialized {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if p.music != nil {
		p.melody.setTempo(p.tempo)
		p.music.Paused = false
		return
	}
	p.melody = newMelody(p.tempo, SampleRate)
	p.music = &beep.Ctrl{Streamer: p.melody}
	p.mixer.Add(p.music)
}

func (p *Player) stopMusic() {
	p.musicOn = false
	if !p.initialized || p.music == nil {
		return
	}
	speaker.Lock()
	p.music.Paused = true
	speaker.Unlock()
}

func (p *Player) setTempo(tempo time.Duration) {
	p.tempo = tempo
	if !p.initialized || p.melody == nil {
		return
	}
	speaker.Lock()
	p.melody.setTempo(tempo)
	speaker.Unlock()
}
