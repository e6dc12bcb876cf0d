// Package config provides YAML-based configuration loading and difficulty
// presets for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/gridsnake/internal/snake"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// SnakeConfig contains all configuration for the snake game.
type SnakeConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Speed   SpeedConfig   `yaml:"speed"`
	Audio   AudioConfig   `yaml:"audio"`
	Haptics HapticsConfig `yaml:"haptics"`
	Storage StorageConfig `yaml:"storage"`
}

// GridConfig defines the board.
type GridConfig struct {
	Size int `yaml:"size"` // Cells per side
}

// SpeedConfig defines the tick interval progression, in milliseconds.
type SpeedConfig struct {
	BaseMS  int `yaml:"base_ms"`  // Interval at the start of a run
	FloorMS int `yaml:"floor_ms"` // Fastest interval
	StepMS  int `yaml:"step_ms"`  // Reduction per food eaten; 0 keeps the speed fixed
}

// AudioConfig defines sound effects and music.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 to 1.0
}

// HapticsConfig defines the crash vibration.
type HapticsConfig struct {
	Enabled   bool  `yaml:"enabled"`
	PatternMS []int `yaml:"pattern_ms"` // Alternating on/off durations
}

// StorageConfig defines persistence settings.
type StorageConfig struct {
	HighScoreKey string `yaml:"high_score_key"`
}

// Engine converts the config into engine parameters.
func (c SnakeConfig) Engine() snake.Config {
	return snake.Config{
		GridSize:   c.Grid.Size,
		BaseSpeed:  time.Duration(c.Speed.BaseMS) * time.Millisecond,
		SpeedFloor: time.Duration(c.Speed.FloorMS) * time.Millisecond,
		SpeedStep:  time.Duration(c.Speed.StepMS) * time.Millisecond,
	}
}

// Validate reports the first value that cannot be used.
func (c SnakeConfig) Validate() error {
	if err := c.Engine().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume %v must be within [0, 1]", ErrInvalid, c.Audio.Volume)
	}
	for _, ms := range c.Haptics.PatternMS {
		if ms < 0 {
			return fmt.Errorf("%w: haptics.pattern_ms has negative duration %d", ErrInvalid, ms)
		}
	}
	return nil
}
