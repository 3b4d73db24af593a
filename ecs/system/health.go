package system

import (
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"go.uber.org/zap"
)

// HealthSystem destroys the sprite of entities whose health is spent.
type HealthSystem struct {
	logger *zap.Logger
}

func NewHealthSystem(logger *zap.Logger) *HealthSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthSystem{logger: logger}
}

func (s *HealthSystem) UpdateEntity(w *ecs.World, e ecs.Entity, _ float64) {
	health, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return
	}
	sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	particle, _ := ecs.Get(w, e, component.ParticleComponent.Kind())
	if health.Tick(sprite, particle) {
		s.logger.Debug("entity destroyed", zap.Stringer("entity", e), zap.Int("health", health.Current))
	}
}

// ParticleSystem attaches particle effects once their sprite is available.
type ParticleSystem struct{}

func NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{}
}

func (s *ParticleSystem) UpdateEntity(w *ecs.World, e ecs.Entity, dt float64) {
	particle, ok := ecs.Get(w, e, component.ParticleComponent.Kind())
	if !ok {
		return
	}
	sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	particle.Tick(sprite, dt)
}
