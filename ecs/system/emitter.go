package system

import (
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"go.uber.org/zap"
)

// ProjectileSpawner builds a projectile for emitter at pos.
type ProjectileSpawner func(pos common.Vec2, emitter *component.Emitter) (ecs.Entity, error)

// EmitterSystem ticks emitters and materializes the projectiles they request
// before the tick moves on.
type EmitterSystem struct {
	spawn  ProjectileSpawner
	logger *zap.Logger
}

func NewEmitterSystem(spawn ProjectileSpawner, logger *zap.Logger) *EmitterSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmitterSystem{spawn: spawn, logger: logger}
}

func (s *EmitterSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.EmitterComponent.Kind(), func(e ecs.Entity, emitter *component.Emitter) {
		emitter.Tick(dt)
		if !emitter.FireRequested {
			return
		}
		emitter.FireRequested = false

		// a destroyed shooter waits for the reaper instead of firing from the origin
		if health, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && health.Destroyed {
			return
		}
		if s.spawn == nil {
			return
		}
		sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		pos := emitter.SpawnPosition(sprite)
		projectile, err := s.spawn(pos, emitter)
		if err != nil {
			s.logger.Error("spawn projectile", zap.Stringer("emitter", e), zap.Error(err))
			return
		}
		s.logger.Debug("projectile fired",
			zap.Stringer("emitter", e),
			zap.Stringer("projectile", projectile),
			zap.Float64("x", pos.X),
			zap.Float64("y", pos.Y),
		)
	})
}
