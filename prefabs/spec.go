package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SceneFile is the scene tuning prefab.
const SceneFile = "scene.yaml"

type SceneSpec struct {
	Width       float64     `yaml:"width"`
	Height      float64     `yaml:"height"`
	InputOffset float64     `yaml:"input_offset"`
	CullMargin  float64     `yaml:"cull_margin"`
	Ship        PointSpec   `yaml:"ship"`
	Spawn       CadenceSpec `yaml:"spawn"`
	Enemy       EnemySpec   `yaml:"enemy"`
	Seed        string      `yaml:"seed"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type CadenceSpec struct {
	Interval  float64 `yaml:"interval"`
	Base      float64 `yaml:"base"`
	Decay     float64 `yaml:"decay"`
	Countdown float64 `yaml:"countdown"`
}

type EnemySpec struct {
	Top              float64 `yaml:"top"`
	BaseSpeed        float64 `yaml:"base_speed"`
	SpeedVariability float64 `yaml:"speed_variability"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec() (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](SceneFile)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", SceneFile, err)
	}
	return &spec, nil
}

// Validate rejects tuning the simulation cannot run with.
func (s SceneSpec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("scene size must be positive, got %gx%g", s.Width, s.Height)
	}
	if s.Spawn.Decay <= 0 || s.Spawn.Decay >= 1 {
		return fmt.Errorf("spawn decay must be in (0,1), got %g", s.Spawn.Decay)
	}
	if s.Spawn.Interval <= 0 {
		return fmt.Errorf("spawn interval must be positive, got %g", s.Spawn.Interval)
	}
	if s.Spawn.Base < 0 {
		return fmt.Errorf("spawn base must not be negative, got %g", s.Spawn.Base)
	}
	return nil
}
