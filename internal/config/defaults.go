package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: GridConfig{
			Size: 10,
		},
		Speed: SpeedConfig{
			BaseMS:  600,
			FloorMS: 120,
			StepMS:  20,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Haptics: HapticsConfig{
			Enabled:   true,
			PatternMS: []int{400, 120, 400},
		},
		Storage: StorageConfig{
			HighScoreKey: "snake_game_high_score",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
