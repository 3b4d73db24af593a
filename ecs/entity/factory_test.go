package entity

import (
	"errors"
	"testing"

	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"github.com/milk9111/cocoablast/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory() (*Factory, *ecs.PhysicsWorld, *ecs.BodyIndex) {
	pw := ecs.NewPhysicsWorld()
	index := ecs.NewBodyIndex()
	return NewFactory(pw, index), pw, index
}

func TestFactoryShip(t *testing.T) {
	f, pw, index := newFactory()
	w := ecs.NewWorld()

	ship, err := f.Ship(w, common.Vec2{X: 10, Y: -400})
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, ship, component.ShipTagComponent.Kind()))
	sprite, ok := ecs.Get(w, ship, component.SpriteComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, common.Vec2{X: 10, Y: -400}, sprite.Position())
	assert.Equal(t, common.Size{Width: 80, Height: 80}, sprite.Size())

	health, ok := ecs.Get(w, ship, component.HealthComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1, health.Max)

	emitter, ok := ecs.Get(w, ship, component.EmitterComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 20.0, emitter.ProjectileSize)
	assert.Equal(t, 800.0, emitter.ProjectileVelocity)
	assert.Equal(t, 0.3, emitter.ProjectilePeriod)
	assert.Zero(t, emitter.TimeUntilNextShot)

	intent, ok := ecs.Get(w, ship, component.MovementIntentComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, common.Vec2{X: 10, Y: -400}, intent.Target)

	owner, ok := index.Lookup(sprite.Body)
	require.True(t, ok)
	assert.Equal(t, ship, owner)
	assert.Len(t, pw.Bodies(), 1)
}

func TestFactoryAsteroid(t *testing.T) {
	f, _, _ := newFactory()
	w := ecs.NewWorld()

	e, err := f.Asteroid(w, common.Vec2{X: 75, Y: 700}, common.Vec2{Y: -250})
	require.NoError(t, err)

	sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	body := sprite.Body.(*ecs.PhysicsBody)
	assert.Equal(t, 45.0, body.Radius())
	assert.Equal(t, common.Vec2{Y: -250}, body.Velocity())

	health, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	assert.Equal(t, 3, health.Current)

	behavior, ok := ecs.Get(w, e, component.BehaviorComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "wobble.tengo", behavior.Script)
}

func TestFactoryProjectile(t *testing.T) {
	f, _, _ := newFactory()
	w := ecs.NewWorld()

	emitter := &component.Emitter{ProjectileSize: 20, ProjectileVelocity: 800, ProjectilePeriod: 0.3}
	e, err := f.Projectile(w, common.Vec2{X: 50, Y: 320}, emitter)
	require.NoError(t, err)

	sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	body := sprite.Body.(*ecs.PhysicsBody)
	assert.Equal(t, common.Size{Width: 20, Height: 20}, body.Size())
	assert.Equal(t, 20.0, body.Radius())
	assert.Equal(t, common.Vec2{Y: 800}, body.Velocity())

	particle, ok := ecs.Get(w, e, component.ParticleComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "Energy", particle.Effect.Name)
	assert.False(t, particle.HasEmitter)

	_, err = f.Projectile(w, common.Vec2{}, nil)
	assert.ErrorIs(t, err, component.ErrNilComponent)
}

func TestFactoryDiscardsHalfBuiltEntity(t *testing.T) {
	specs := map[string]prefabs.EntityBuildSpec{
		"bad_emitter.yaml": {
			Name: "bad",
			Components: map[string]any{
				"body":    map[string]any{"radius": 10},
				"emitter": map[string]any{"projectile_period": 0},
			},
		},
		"unknown.yaml": {
			Name: "unknown",
			Components: map[string]any{
				"body":     map[string]any{"radius": 10},
				"teleport": map[string]any{},
			},
		},
		"no_radius.yaml": {
			Name:       "no_radius",
			Components: map[string]any{"body": map[string]any{}},
		},
		"empty.yaml": {Name: "empty"},
	}
	load := func(name string) (prefabs.EntityBuildSpec, error) {
		spec, ok := specs[name]
		if !ok {
			return prefabs.EntityBuildSpec{}, errors.New("not found")
		}
		return spec, nil
	}

	for _, name := range []string{"bad_emitter.yaml", "unknown.yaml", "no_radius.yaml", "empty.yaml", "missing.yaml"} {
		t.Run(name, func(t *testing.T) {
			pw := ecs.NewPhysicsWorld()
			index := ecs.NewBodyIndex()
			f := NewFactoryWithLoader(pw, index, load)
			w := ecs.NewWorld()

			_, err := f.Build(w, name, Options{})
			require.Error(t, err)
			assert.Empty(t, ecs.Entities(w))
			assert.Empty(t, pw.Bodies())
			assert.Zero(t, index.Len())
		})
	}
}

func TestFactoryReload(t *testing.T) {
	calls := 0
	load := func(name string) (prefabs.EntityBuildSpec, error) {
		calls++
		return prefabs.EntityBuildSpec{Name: name, Components: map[string]any{"asteroid_tag": map[string]any{}}}, nil
	}
	f := NewFactoryWithLoader(ecs.NewPhysicsWorld(), ecs.NewBodyIndex(), load)
	w := ecs.NewWorld()

	for i := 0; i < 3; i++ {
		_, err := f.Build(w, "rock.yaml", Options{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)

	require.NoError(t, f.Reload("rock.yaml"))
	assert.Equal(t, 2, calls)
	_, err := f.Build(w, "rock.yaml", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFactoryReloadKeepsLastGoodPrefab(t *testing.T) {
	calls := 0
	broken := false
	load := func(name string) (prefabs.EntityBuildSpec, error) {
		calls++
		if broken {
			return prefabs.EntityBuildSpec{}, errors.New("yaml: line 3: did not find expected key")
		}
		return prefabs.EntityBuildSpec{Name: name, Components: map[string]any{"asteroid_tag": map[string]any{}}}, nil
	}
	f := NewFactoryWithLoader(ecs.NewPhysicsWorld(), ecs.NewBodyIndex(), load)
	w := ecs.NewWorld()
	require.NoError(t, f.Preload("rock.yaml"))

	broken = true
	assert.Error(t, f.Reload("rock.yaml"))
	assert.Equal(t, 2, calls)

	for i := 0; i < 3; i++ {
		e, err := f.Build(w, "rock.yaml", Options{})
		require.NoError(t, err)
		assert.True(t, ecs.Has(w, e, component.AsteroidTagComponent.Kind()))
	}
	assert.Equal(t, 2, calls)
}
