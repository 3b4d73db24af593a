package entity

import (
	"fmt"

	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"github.com/milk9111/cocoablast/prefabs"
)

const (
	ShipPrefab       = "ship.yaml"
	AsteroidPrefab   = "asteroid.yaml"
	ProjectilePrefab = "projectile.yaml"
)

// SpecLoader reads an entity prefab by file name.
type SpecLoader func(name string) (prefabs.EntityBuildSpec, error)

// Factory builds entities from prefabs, creating their bodies and recording
// which entity owns each body. Loaded prefabs are cached until Reload.
type Factory struct {
	bodies component.BodyFactory
	index  *ecs.BodyIndex
	load   SpecLoader
	specs  map[string]prefabs.EntityBuildSpec
}

func NewFactory(bodies component.BodyFactory, index *ecs.BodyIndex) *Factory {
	return NewFactoryWithLoader(bodies, index, prefabs.LoadEntityBuildSpec)
}

func NewFactoryWithLoader(bodies component.BodyFactory, index *ecs.BodyIndex, load SpecLoader) *Factory {
	return &Factory{
		bodies: bodies,
		index:  index,
		load:   load,
		specs:  make(map[string]prefabs.EntityBuildSpec),
	}
}

// Build instantiates prefab into w.
func (f *Factory) Build(w *ecs.World, prefab string, opts Options) (ecs.Entity, error) {
	spec, err := f.spec(prefab)
	if err != nil {
		return 0, err
	}
	return buildEntity(w, spec, &buildContext{
		Prefab:  prefab,
		Options: opts,
		Bodies:  f.bodies,
		Index:   f.index,
	})
}

// Reload reads prefab again and replaces the cached copy. On error the last
// good copy stays in use.
func (f *Factory) Reload(prefab string) error {
	spec, err := f.read(prefab)
	if err != nil {
		return err
	}
	f.specs[prefab] = spec
	return nil
}

// Preload loads and caches every named prefab, failing on the first error.
func (f *Factory) Preload(names ...string) error {
	for _, name := range names {
		if _, err := f.spec(name); err != nil {
			return err
		}
	}
	return nil
}

func (f *Factory) spec(prefab string) (prefabs.EntityBuildSpec, error) {
	if spec, ok := f.specs[prefab]; ok {
		return spec, nil
	}
	spec, err := f.read(prefab)
	if err != nil {
		return prefabs.EntityBuildSpec{}, err
	}
	f.specs[prefab] = spec
	return spec, nil
}

func (f *Factory) read(prefab string) (prefabs.EntityBuildSpec, error) {
	if f.load == nil {
		return prefabs.EntityBuildSpec{}, fmt.Errorf("entity: no prefab loader")
	}
	spec, err := f.load(prefab)
	if err != nil {
		return prefabs.EntityBuildSpec{}, fmt.Errorf("entity: load %q: %w", prefab, err)
	}
	return spec, nil
}

func (f *Factory) Ship(w *ecs.World, pos common.Vec2) (ecs.Entity, error) {
	return f.Build(w, ShipPrefab, Options{Position: pos})
}

func (f *Factory) Asteroid(w *ecs.World, pos, velocity common.Vec2) (ecs.Entity, error) {
	return f.Build(w, AsteroidPrefab, Options{Position: pos, Velocity: velocity})
}

// Projectile builds a shot from emitter at pos. The body radius is the
// emitter's projectile size and the sprite extent is size by size.
func (f *Factory) Projectile(w *ecs.World, pos common.Vec2, emitter *component.Emitter) (ecs.Entity, error) {
	if emitter == nil {
		return 0, fmt.Errorf("entity: projectile: %w", component.ErrNilComponent)
	}
	return f.Build(w, ProjectilePrefab, Options{
		Position: pos,
		Velocity: common.Vec2{Y: emitter.ProjectileVelocity},
		Radius:   emitter.ProjectileSize,
		Size:     common.Size{Width: emitter.ProjectileSize, Height: emitter.ProjectileSize},
	})
}
