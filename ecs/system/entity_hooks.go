package system

import "github.com/milk9111/cocoablast/ecs"

// EntityHook is a per-entity update run from PerEntitySystem.
type EntityHook interface {
	UpdateEntity(w *ecs.World, e ecs.Entity, dt float64)
}

type EntityHookFunc func(w *ecs.World, e ecs.Entity, dt float64)

func (f EntityHookFunc) UpdateEntity(w *ecs.World, e ecs.Entity, dt float64) {
	f(w, e, dt)
}

// PerEntitySystem walks the live set in creation order and runs every hook on
// each entity before moving to the next one.
type PerEntitySystem struct {
	hooks []EntityHook
}

func NewPerEntitySystem(hooks ...EntityHook) *PerEntitySystem {
	return &PerEntitySystem{hooks: append([]EntityHook(nil), hooks...)}
}

func (s *PerEntitySystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	for _, e := range ecs.Entities(w) {
		for _, hook := range s.hooks {
			if !ecs.IsAlive(w, e) {
				break
			}
			hook.UpdateEntity(w, e, dt)
		}
	}
}
