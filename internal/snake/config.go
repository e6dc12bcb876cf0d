package snake

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by New when the engine cannot be built from a Config.
var ErrInvalidConfig = errors.New("snake: invalid config")

// Default engine parameters.
const (
	DefaultGridSize   = 10
	DefaultBaseSpeed  = 600 * time.Millisecond
	DefaultSpeedFloor = 120 * time.Millisecond
	DefaultSpeedStep  = 20 * time.Millisecond
)

// Config holds the fixed parameters of an engine.
type Config struct {
	GridSize   int           // Side length of the square grid
	BaseSpeed  time.Duration // Tick interval at the start of a run
	SpeedFloor time.Duration // Fastest allowed tick interval
	SpeedStep  time.Duration // Interval reduction per food eaten (0 disables speed-ups)
}

// DefaultConfig returns the classic 10x10 board starting at 600ms per tick.
func DefaultConfig() Config {
	return Config{
		GridSize:   DefaultGridSize,
		BaseSpeed:  DefaultBaseSpeed,
		SpeedFloor: DefaultSpeedFloor,
		SpeedStep:  DefaultSpeedStep,
	}
}

// Validate reports the first problem that would make the engine unusable.
func (c Config) Validate() error {
	switch {
	case c.GridSize < 2:
		return fmt.Errorf("%w: grid size %d, need at least 2", ErrInvalidConfig, c.GridSize)
	case c.SpeedFloor <= 0:
		return fmt.Errorf("%w: speed floor %v must be positive", ErrInvalidConfig, c.SpeedFloor)
	case c.BaseSpeed < c.SpeedFloor:
		return fmt.Errorf("%w: base speed %v is below the floor %v", ErrInvalidConfig, c.BaseSpeed, c.SpeedFloor)
	case c.SpeedStep < 0:
		return fmt.Errorf("%w: negative speed step %v", ErrInvalidConfig, c.SpeedStep)
	}
	return nil
}

// Cells returns the number of cells on the board.
func (c Config) Cells() int {
	return c.GridSize * c.GridSize
}

// Level is the difficulty level at the given tick interval: how many times
// faster than the base speed the snake is moving, never less than 1.
func (c Config) Level(speed time.Duration) int {
	if speed <= 0 {
		return 1
	}
	return max(1, int(c.BaseSpeed/speed))
}

// Bonus is the score awarded for one food eaten at the given speed.
func (c Config) Bonus(speed time.Duration) int {
	return c.Level(speed)
}
