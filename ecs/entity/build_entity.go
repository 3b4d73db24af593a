package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"github.com/milk9111/cocoablast/prefabs"
)

// Options place a prefab instance. Zero fields keep the prefab's values.
type Options struct {
	Position common.Vec2
	Velocity common.Vec2
	Radius   float64
	Size     common.Size
}

type buildContext struct {
	Prefab  string
	Options Options
	Bodies  component.BodyFactory
	Index   *ecs.BodyIndex
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"ship_tag":        addShipTag,
	"asteroid_tag":    addAsteroidTag,
	"projectile_tag":  addProjectileTag,
	"body":            addBody,
	"health":          addHealth,
	"emitter":         addEmitter,
	"movement_intent": addMovementIntent,
	"particle":        addParticle,
	"behavior":        addBehavior,
}

var componentBuildOrder = []string{
	"ship_tag",
	"asteroid_tag",
	"projectile_tag",
	"body",
	"health",
	"emitter",
	"movement_intent",
	"particle",
	"behavior",
}

func buildEntity(w *ecs.World, spec prefabs.EntityBuildSpec, ctx *buildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", ctx.Prefab)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PrefabComponent.Kind(), &component.Prefab{Name: ctx.Prefab}); err != nil {
		discard(w, e, ctx)
		return 0, fmt.Errorf("build entity: %q: %w", ctx.Prefab, err)
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			discard(w, e, ctx)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", ctx.Prefab, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		discard(w, e, ctx)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", ctx.Prefab, names[0])
	}

	return e, nil
}

// discard tears down a half-built entity, including any body already created.
func discard(w *ecs.World, e ecs.Entity, ctx *buildContext) {
	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		particle, _ := ecs.Get(w, e, component.ParticleComponent.Kind())
		sprite.Destroy(particle)
	}
	ctx.Index.Forget(e)
	ecs.DestroyEntity(w, e)
}

func addShipTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ShipTagComponent.Kind(), &component.ShipTag{})
}

func addAsteroidTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AsteroidTagComponent.Kind(), &component.AsteroidTag{})
}

func addProjectileTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{})
}

func addBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode body spec: %w", err)
	}
	if ctx.Bodies == nil {
		return fmt.Errorf("no body factory")
	}

	bodySpec := component.BodySpec{
		Name:      ctx.Prefab,
		Position:  ctx.Options.Position,
		Velocity:  ctx.Options.Velocity,
		Radius:    spec.Radius,
		Size:      common.Size{Width: spec.Width, Height: spec.Height},
		Kinematic: spec.Kinematic,
		Category:  spec.Category,
		Collision: spec.Collision,
		Contact:   spec.Contact,
	}
	if ctx.Options.Radius > 0 {
		bodySpec.Radius = ctx.Options.Radius
	}
	if ctx.Options.Size != (common.Size{}) {
		bodySpec.Size = ctx.Options.Size
	}
	if bodySpec.Radius <= 0 && bodySpec.Size.Width <= 0 {
		return fmt.Errorf("body needs a radius or a width")
	}

	body := ctx.Bodies.CreateBody(bodySpec)
	if body == nil {
		return fmt.Errorf("body factory returned nil")
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Body: body}); err != nil {
		body.Remove()
		return err
	}
	ctx.Index.Register(body, e)
	return nil
}

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HealthComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Max == 0 {
		spec.Max = 1
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(spec.Max))
}

func addEmitter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.EmitterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode emitter spec: %w", err)
	}
	if spec.ProjectilePeriod <= 0 {
		return fmt.Errorf("emitter period must be positive, got %g", spec.ProjectilePeriod)
	}
	return ecs.Add(w, e, component.EmitterComponent.Kind(), &component.Emitter{
		ProjectileSize:     spec.ProjectileSize,
		ProjectileVelocity: spec.ProjectileVelocity,
		ProjectilePeriod:   spec.ProjectilePeriod,
		TimeUntilNextShot:  spec.InitialDelay,
	})
}

func addMovementIntent(w *ecs.World, e ecs.Entity, _ any, ctx *buildContext) error {
	return ecs.Add(w, e, component.MovementIntentComponent.Kind(), &component.MovementIntent{Target: ctx.Options.Position})
}

func addParticle(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ParticleComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode particle spec: %w", err)
	}
	return ecs.Add(w, e, component.ParticleComponent.Kind(), component.NewParticle(spec.Name, spec.BirthRate))
}

func addBehavior(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BehaviorComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode behavior spec: %w", err)
	}
	if spec.Script == "" {
		return fmt.Errorf("behavior needs a script")
	}
	return ecs.Add(w, e, component.BehaviorComponent.Kind(), &component.Behavior{Script: spec.Script, Params: spec.Params})
}
