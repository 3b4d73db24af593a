package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// BodyComponentSpec describes the physics body and its collision masks.
// Radius wins over Width when both are set.
type BodyComponentSpec struct {
	Radius    float64 `yaml:"radius"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Kinematic bool    `yaml:"kinematic"`
	Category  uint32  `yaml:"category"`
	Collision uint32  `yaml:"collision"`
	Contact   uint32  `yaml:"contact"`
}

type HealthComponentSpec struct {
	Max int `yaml:"max"`
}

type EmitterComponentSpec struct {
	ProjectileSize     float64 `yaml:"projectile_size"`
	ProjectileVelocity float64 `yaml:"projectile_velocity"`
	ProjectilePeriod   float64 `yaml:"projectile_period"`
	InitialDelay       float64 `yaml:"initial_delay"`
}

type ParticleComponentSpec struct {
	Name      string  `yaml:"name"`
	BirthRate float64 `yaml:"birth_rate"`
}

type BehaviorComponentSpec struct {
	Script string         `yaml:"script"`
	Params map[string]any `yaml:"params"`
}
