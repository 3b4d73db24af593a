package system

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBody struct {
	pos     common.Vec2
	size    common.Size
	removed bool
	effects []*component.Effect
}

func (b *fakeBody) Valid() bool                      { return !b.removed }
func (b *fakeBody) Position() common.Vec2            { return b.pos }
func (b *fakeBody) SetPosition(p common.Vec2)        { b.pos = p }
func (b *fakeBody) Size() common.Size                { return b.size }
func (b *fakeBody) AttachEffect(e *component.Effect) { b.effects = append(b.effects, e) }
func (b *fakeBody) DetachEffect(*component.Effect)   {}
func (b *fakeBody) Remove()                          { b.removed = true }

type remover struct {
	w       *ecs.World
	removed []ecs.Entity
}

func (r *remover) RemoveEntity(e ecs.Entity) bool {
	r.removed = append(r.removed, e)
	return ecs.DestroyEntity(r.w, e)
}

type fixedRand struct {
	values []float64
	i      int
}

func (r *fixedRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func newSpriteEntity(t *testing.T, w *ecs.World, body *fakeBody) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Body: body}))
	return e
}

func TestPerEntitySystemRunsHooksInOrder(t *testing.T) {
	w := ecs.NewWorld()
	e1 := ecs.CreateEntity(w)
	e2 := ecs.CreateEntity(w)

	var calls []string
	hook := func(name string) EntityHook {
		return EntityHookFunc(func(_ *ecs.World, e ecs.Entity, _ float64) {
			calls = append(calls, name+":"+e.String())
		})
	}
	NewPerEntitySystem(hook("a"), hook("b")).Update(w, 0.1)

	assert.Equal(t, []string{
		"a:" + e1.String(), "b:" + e1.String(),
		"a:" + e2.String(), "b:" + e2.String(),
	}, calls)
}

func TestPerEntitySystemStopsHooksForDestroyedEntity(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)

	second := 0
	NewPerEntitySystem(
		EntityHookFunc(func(w *ecs.World, e ecs.Entity, _ float64) { ecs.DestroyEntity(w, e) }),
		EntityHookFunc(func(*ecs.World, ecs.Entity, float64) { second++ }),
	).Update(w, 0)

	assert.False(t, ecs.IsAlive(w, e))
	assert.Zero(t, second)
}

func TestHealthSystemDestroysOnce(t *testing.T) {
	w := ecs.NewWorld()
	body := &fakeBody{}
	e := newSpriteEntity(t, w, body)
	health := component.NewHealth(1)
	require.NoError(t, ecs.Add(w, e, component.HealthComponent.Kind(), health))
	particle := component.NewParticle("Energy", 10)
	require.NoError(t, ecs.Add(w, e, component.ParticleComponent.Kind(), particle))

	hooks := NewPerEntitySystem(NewHealthSystem(nil), NewParticleSystem())
	hooks.Update(w, 0.1)
	assert.True(t, particle.HasEmitter)
	assert.False(t, health.Destroyed)

	health.ReduceHealth(1)
	hooks.Update(w, 0.1)
	assert.True(t, health.Destroyed)
	assert.True(t, body.removed)
	assert.Zero(t, particle.Effect.BirthRate)

	sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
	require.True(t, ok)
	assert.Nil(t, sprite.Body)
}

func TestMovementSystemSnapsToTarget(t *testing.T) {
	w := ecs.NewWorld()
	body := &fakeBody{}
	e := newSpriteEntity(t, w, body)
	require.NoError(t, ecs.Add(w, e, component.MovementIntentComponent.Kind(), &component.MovementIntent{}))

	SetTarget(w, common.Vec2{X: 100, Y: 200})
	NewMovementSystem().Update(w, 0.25)
	assert.Equal(t, common.Vec2{X: 100, Y: 200}, body.pos)
}

func TestEmitterSystemSpawnsSynchronously(t *testing.T) {
	w := ecs.NewWorld()
	ship := newSpriteEntity(t, w, &fakeBody{pos: common.Vec2{X: 50, Y: 300}, size: common.Size{Width: 40, Height: 40}})
	emitter := &component.Emitter{ProjectileSize: 20, ProjectileVelocity: 800, ProjectilePeriod: 0.3}
	require.NoError(t, ecs.Add(w, ship, component.EmitterComponent.Kind(), emitter))

	var spawned []common.Vec2
	spawn := func(pos common.Vec2, em *component.Emitter) (ecs.Entity, error) {
		spawned = append(spawned, pos)
		assert.Same(t, emitter, em)
		e := ecs.CreateEntity(w)
		// a projectile with its own emitter must not be ticked this pass
		return e, ecs.Add(w, e, component.EmitterComponent.Kind(), &component.Emitter{ProjectilePeriod: 1})
	}
	sys := NewEmitterSystem(spawn, nil)

	sys.Update(w, 1.0/60.0)
	require.Len(t, spawned, 1)
	assert.Equal(t, common.Vec2{X: 50, Y: 320}, spawned[0])
	assert.False(t, emitter.FireRequested)
	assert.InDelta(t, 0.3, emitter.TimeUntilNextShot, 1e-9)
	assert.Len(t, ecs.Entities(w), 2)
}

func TestEmitterSystemDestroyedShooterHoldsFire(t *testing.T) {
	w := ecs.NewWorld()
	ship := newSpriteEntity(t, w, &fakeBody{})
	require.NoError(t, ecs.Add(w, ship, component.EmitterComponent.Kind(), &component.Emitter{ProjectilePeriod: 0.3}))
	require.NoError(t, ecs.Add(w, ship, component.HealthComponent.Kind(), &component.Health{Current: 0, Max: 1, Destroyed: true}))

	calls := 0
	NewEmitterSystem(func(common.Vec2, *component.Emitter) (ecs.Entity, error) {
		calls++
		return 0, nil
	}, nil).Update(w, 0.1)
	assert.Zero(t, calls)
}

func TestEmitterSystemLogsSpawnErrors(t *testing.T) {
	w := ecs.NewWorld()
	ship := newSpriteEntity(t, w, &fakeBody{})
	emitter := &component.Emitter{ProjectilePeriod: 0.3}
	require.NoError(t, ecs.Add(w, ship, component.EmitterComponent.Kind(), emitter))

	NewEmitterSystem(func(common.Vec2, *component.Emitter) (ecs.Entity, error) {
		return 0, errors.New("boom")
	}, nil).Update(w, 0.1)
	assert.False(t, emitter.FireRequested)
}

func TestSpawnSystemDecay(t *testing.T) {
	const (
		i0   = 5.0
		base = 0.5
		d    = 0.9
	)
	var positions []common.Vec2
	var velocities []common.Vec2
	sys := NewSpawnSystem(Cadence{Interval: i0, Base: base, Decay: d, Countdown: 0}, &fixedRand{values: []float64{0.5, 0.0}},
		func(pos, vel common.Vec2) (ecs.Entity, error) {
			positions = append(positions, pos)
			velocities = append(velocities, vel)
			return 0, nil
		}, nil)

	w := ecs.NewWorld()
	prev := math.Inf(1)
	for n := 1; n <= 6; n++ {
		sys.Update(w, 0)
		require.Equal(t, n, sys.Spawned)
		want := i0 * math.Pow(d, float64(n))
		assert.InDelta(t, want, sys.Cadence.Interval, 1e-9)
		assert.InDelta(t, want+base, sys.Cadence.Countdown, 1e-9)
		assert.Less(t, sys.Cadence.Countdown, prev)
		assert.Greater(t, sys.Cadence.Countdown, base)
		prev = sys.Cadence.Countdown
		// run the countdown out exactly
		sys.Cadence.Countdown = 0
	}

	assert.InDelta(t, (0.5-0.5*0.8)*common.SceneWidth, positions[0].X, 1e-9)
	assert.Equal(t, 700.0, positions[0].Y)
	assert.Equal(t, common.Vec2{Y: -200}, velocities[0])
}

func TestSpawnSystemCountsDown(t *testing.T) {
	calls := 0
	sys := NewSpawnSystem(Cadence{Interval: 5, Base: 0.5, Decay: 0.9, Countdown: 1}, &fixedRand{values: []float64{0}},
		func(common.Vec2, common.Vec2) (ecs.Entity, error) {
			calls++
			return 0, nil
		}, nil)

	w := ecs.NewWorld()
	sys.Update(w, 0.5)
	sys.Update(w, 0.5)
	assert.Zero(t, calls)
	assert.InDelta(t, 0, sys.Cadence.Countdown, 1e-9)

	sys.Update(w, 0.5)
	assert.Equal(t, 1, calls)
	assert.InDelta(t, 4.5+0.5, sys.Cadence.Countdown, 1e-9)
}

func TestContactSymmetry(t *testing.T) {
	w := ecs.NewWorld()
	index := ecs.NewBodyIndex()

	b1, b2 := &fakeBody{}, &fakeBody{}
	e1 := newSpriteEntity(t, w, b1)
	e2 := newSpriteEntity(t, w, b2)
	h1, h2 := component.NewHealth(1), component.NewHealth(3)
	require.NoError(t, ecs.Add(w, e1, component.HealthComponent.Kind(), h1))
	require.NoError(t, ecs.Add(w, e2, component.HealthComponent.Kind(), h2))
	index.Register(b1, e1)
	index.Register(b2, e2)

	NewContactSystem(index, nil).Handle(w, b1, b2)
	NewPerEntitySystem(NewHealthSystem(nil)).Update(w, 1.0/60.0)

	assert.Equal(t, 0, h1.Current)
	assert.True(t, h1.Destroyed)
	assert.Equal(t, 2, h2.Current)
	assert.False(t, h2.Destroyed)
}

func TestContactIgnoresUnresolvedSide(t *testing.T) {
	w := ecs.NewWorld()
	index := ecs.NewBodyIndex()
	body := &fakeBody{}
	e := newSpriteEntity(t, w, body)
	health := component.NewHealth(3)
	require.NoError(t, ecs.Add(w, e, component.HealthComponent.Kind(), health))
	index.Register(body, e)

	sys := NewContactSystem(index, nil)
	sys.Handle(w, &fakeBody{}, body)
	sys.Handle(w, nil, body)
	assert.Equal(t, 1, health.Current)

	// an entity without health is resolved but unaffected
	other := &fakeBody{}
	index.Register(other, newSpriteEntity(t, w, other))
	sys.Handle(w, other, body)
	assert.Equal(t, 0, health.Current)
}

func TestReapSystemRemovesDestroyed(t *testing.T) {
	w := ecs.NewWorld()
	alive := newSpriteEntity(t, w, &fakeBody{})
	dead := newSpriteEntity(t, w, &fakeBody{})
	require.NoError(t, ecs.Add(w, alive, component.HealthComponent.Kind(), component.NewHealth(1)))
	require.NoError(t, ecs.Add(w, dead, component.HealthComponent.Kind(), &component.Health{Max: 1, Destroyed: true}))

	r := &remover{w: w}
	var reaped []ecs.Entity
	NewReapSystem(r, func(w *ecs.World, e ecs.Entity) {
		assert.True(t, ecs.Has(w, e, component.HealthComponent.Kind()))
		reaped = append(reaped, e)
	}).Update(w, 0)

	assert.Equal(t, []ecs.Entity{dead}, reaped)
	assert.Equal(t, []ecs.Entity{dead}, r.removed)
	assert.Equal(t, []ecs.Entity{alive}, ecs.Entities(w))
}

func TestCullSystem(t *testing.T) {
	cases := []struct {
		name   string
		pos    common.Vec2
		culled bool
	}{
		{"center", common.Vec2{}, false},
		{"inside_margin", common.Vec2{Y: 700}, false},
		{"above", common.Vec2{Y: 1000}, true},
		{"below", common.Vec2{Y: -1000}, true},
		{"left", common.Vec2{X: -600}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			body := &fakeBody{pos: c.pos}
			e := newSpriteEntity(t, w, body)
			r := &remover{w: w}

			NewCullSystem(r, common.SceneWidth, common.SceneHeight, 200).Update(w, 0)
			assert.Equal(t, c.culled, !ecs.IsAlive(w, e))
			assert.Equal(t, c.culled, body.removed)
		})
	}
}

func TestCullSystemKeepsSteeredEntities(t *testing.T) {
	w := ecs.NewWorld()
	body := &fakeBody{pos: common.Vec2{Y: -1000}}
	e := newSpriteEntity(t, w, body)
	require.NoError(t, ecs.Add(w, e, component.MovementIntentComponent.Kind(), &component.MovementIntent{}))
	r := &remover{w: w}

	NewCullSystem(r, common.SceneWidth, common.SceneHeight, 200).Update(w, 0)
	assert.True(t, ecs.IsAlive(w, e))
	assert.False(t, body.removed)
	assert.Empty(t, r.removed)
}

func TestBehaviorSystemNudges(t *testing.T) {
	scripts := map[string]string{
		"drift.tengo": `
update := func(engine, state) {
	if is_undefined(state.calls) { state.calls = 0 }
	state.calls += 1
	engine.nudge(state.speed * engine.dt, 0)
}
`,
		"broken.tengo": `update := func(engine, state) { engine.nudge(1) }`,
		"nocompile.tengo": `update := func(`,
	}
	load := func(name string) ([]byte, error) {
		src, ok := scripts[name]
		if !ok {
			return nil, errors.New("missing")
		}
		return []byte(src), nil
	}

	w := ecs.NewWorld()
	body := &fakeBody{}
	e := newSpriteEntity(t, w, body)
	require.NoError(t, ecs.Add(w, e, component.BehaviorComponent.Kind(), &component.Behavior{
		Script: "drift.tengo",
		Params: map[string]any{"speed": 10.0},
	}))

	sys := NewBehaviorSystem(load, nil)
	hooks := NewPerEntitySystem(sys)
	hooks.Update(w, 0.5)
	hooks.Update(w, 0.5)
	assert.InDelta(t, 10, body.pos.X, 1e-9)

	for _, name := range []string{"broken.tengo", "nocompile.tengo", "missing.tengo"} {
		t.Run(name, func(t *testing.T) {
			other := &fakeBody{}
			oe := newSpriteEntity(t, w, other)
			require.NoError(t, ecs.Add(w, oe, component.BehaviorComponent.Kind(), &component.Behavior{Script: name}))
			assert.NotPanics(t, func() { hooks.Update(w, 0.1) })
			assert.Equal(t, common.Vec2{}, other.pos)
		})
	}
}

func TestPhysicsSystemDrainsAfterStep(t *testing.T) {
	pw := ecs.NewPhysicsWorld()
	a := pw.CreateBody(component.BodySpec{Radius: 10, Category: 0x4, Contact: 0x2})
	b := pw.CreateBody(component.BodySpec{Radius: 10, Position: common.Vec2{X: 5}, Category: 0x2, Collision: 0x3, Contact: 0x7})

	var got [][2]component.Body
	NewPhysicsSystem(pw, func(x, y component.Body) {
		got = append(got, [2]component.Body{x, y})
	}).Update(nil, 1.0/60.0)

	require.Len(t, got, 1)
	assert.ElementsMatch(t, []component.Body{a, b}, got[0][:])
}
