package scene

import (
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs/system"
	"github.com/milk9111/cocoablast/prefabs"
)

// Config tunes a scene. Coordinates are centered on the screen with y up.
type Config struct {
	Width  float64
	Height float64

	// InputOffset lifts the ship above the pointer.
	InputOffset float64
	CullMargin  float64

	ShipPosition common.Vec2
	Cadence      system.Cadence

	EnemyTop              float64
	EnemyBaseSpeed        float64
	EnemySpeedVariability float64

	Seed string
}

func DefaultConfig() Config {
	return Config{
		Width:                 common.SceneWidth,
		Height:                common.SceneHeight,
		InputOffset:           50,
		CullMargin:            200,
		ShipPosition:          common.Vec2{Y: -400},
		Cadence:               system.Cadence{Interval: 5, Base: 0.5, Decay: 0.9, Countdown: 5},
		EnemyTop:              700,
		EnemyBaseSpeed:        200,
		EnemySpeedVariability: 150,
	}
}

func ConfigFromSpec(spec *prefabs.SceneSpec) Config {
	if spec == nil {
		return DefaultConfig()
	}
	return Config{
		Width:        spec.Width,
		Height:       spec.Height,
		InputOffset:  spec.InputOffset,
		CullMargin:   spec.CullMargin,
		ShipPosition: common.Vec2{X: spec.Ship.X, Y: spec.Ship.Y},
		Cadence: system.Cadence{
			Interval:  spec.Spawn.Interval,
			Base:      spec.Spawn.Base,
			Decay:     spec.Spawn.Decay,
			Countdown: spec.Spawn.Countdown,
		},
		EnemyTop:              spec.Enemy.Top,
		EnemyBaseSpeed:        spec.Enemy.BaseSpeed,
		EnemySpeedVariability: spec.Enemy.SpeedVariability,
		Seed:                  spec.Seed,
	}
}

// LoadConfig reads scene.yaml, preferring an edited copy on disk.
func LoadConfig() (Config, error) {
	spec, err := prefabs.LoadSceneSpec()
	if err != nil {
		return Config{}, err
	}
	return ConfigFromSpec(spec), nil
}
