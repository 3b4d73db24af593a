package system

import (
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"go.uber.org/zap"
)

// Rand yields uniform values in [0, 1).
type Rand interface {
	Float64() float64
}

// Cadence is the enemy spawn schedule. Every spawn multiplies Interval by
// Decay and waits Interval + Base before the next one.
type Cadence struct {
	Interval  float64
	Base      float64
	Decay     float64
	Countdown float64
}

// EnemySpawner builds an enemy at pos moving with velocity.
type EnemySpawner func(pos, velocity common.Vec2) (ecs.Entity, error)

type SpawnSystem struct {
	Cadence Cadence

	// Width is the scene width the spawn column is scaled by.
	Width float64
	// Top is the y coordinate enemies appear at.
	Top float64

	BaseSpeed        float64
	SpeedVariability float64

	Spawned int

	rng    Rand
	spawn  EnemySpawner
	logger *zap.Logger
}

func NewSpawnSystem(cadence Cadence, rng Rand, spawn EnemySpawner, logger *zap.Logger) *SpawnSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpawnSystem{
		Cadence:          cadence,
		Width:            common.SceneWidth,
		Top:              700,
		BaseSpeed:        200,
		SpeedVariability: 150,
		rng:              rng,
		spawn:            spawn,
		logger:           logger,
	}
}

func (s *SpawnSystem) Update(w *ecs.World, dt float64) {
	if s == nil {
		return
	}
	c := &s.Cadence
	if c.Countdown > 0 {
		c.Countdown -= dt
		return
	}

	s.spawnEnemy()
	c.Interval *= c.Decay
	c.Countdown = c.Interval + c.Base
}

func (s *SpawnSystem) spawnEnemy() {
	x := (0.5 - s.draw()*0.8) * s.Width
	speed := s.draw()*s.SpeedVariability + s.BaseSpeed
	pos := common.Vec2{X: x, Y: s.Top}
	vel := common.Vec2{Y: -speed}

	s.Spawned++
	if s.spawn == nil {
		return
	}
	e, err := s.spawn(pos, vel)
	if err != nil {
		s.logger.Error("spawn enemy", zap.Error(err))
		return
	}
	s.logger.Debug("enemy spawned",
		zap.Stringer("entity", e),
		zap.Float64("x", x),
		zap.Float64("speed", speed),
		zap.Float64("next_interval", s.Cadence.Interval*s.Cadence.Decay),
	)
}

func (s *SpawnSystem) draw() float64 {
	if s.rng == nil {
		return 0
	}
	return s.rng.Float64()
}
