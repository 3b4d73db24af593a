package system

import (
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"go.uber.org/zap"
)

// ContactDamage is what each side of a contact loses.
const ContactDamage = 1

// ContactSystem turns begin-contact notifications into health loss.
type ContactSystem struct {
	index  *ecs.BodyIndex
	Damage int
	logger *zap.Logger
}

func NewContactSystem(index *ecs.BodyIndex, logger *zap.Logger) *ContactSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactSystem{index: index, Damage: ContactDamage, logger: logger}
}

// Handle damages every side of the contact that resolves to a live entity
// with health. Unresolved sides are ignored.
func (s *ContactSystem) Handle(w *ecs.World, a, b component.Body) {
	if s == nil || w == nil {
		return
	}
	for _, body := range [2]component.Body{a, b} {
		e, ok := s.index.Lookup(body)
		if !ok || !ecs.IsAlive(w, e) {
			continue
		}
		health, ok := ecs.Get(w, e, component.HealthComponent.Kind())
		if !ok {
			continue
		}
		health.ReduceHealth(s.Damage)
		s.logger.Debug("contact damage", zap.Stringer("entity", e), zap.Int("health", health.Current))
	}
}
