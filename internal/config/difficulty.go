package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPreset is returned by ParsePreset for names it does not know.
var ErrUnknownPreset = errors.New("config: unknown difficulty preset")

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists every preset in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset maps a name (case-insensitive) to a preset.
// The empty string selects DifficultyNormal.
func ParsePreset(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// BaseSpeedForPreset returns the starting tick interval in ms for a preset.
// fixed keeps the configured value.
func BaseSpeedForPreset(preset DifficultyPreset, configured int) int {
	switch preset {
	case DifficultyEasy:
		return 700
	case DifficultyNormal:
		return 600
	case DifficultyHard:
		return 400
	default:
		return configured
	}
}

// IsFixedPreset returns true if the preset disables speed-ups.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	cfg.Speed.BaseMS = BaseSpeedForPreset(preset, cfg.Speed.BaseMS)
	if IsFixedPreset(preset) {
		cfg.Speed.StepMS = 0
	}
	// The floor can never exceed the starting speed
	if cfg.Speed.FloorMS > cfg.Speed.BaseMS {
		cfg.Speed.FloorMS = cfg.Speed.BaseMS
	}
}
