package scene

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"github.com/milk9111/cocoablast/ecs/entity"
	"github.com/milk9111/cocoablast/ecs/system"
	"github.com/milk9111/cocoablast/prefabs"
	"go.uber.org/zap"
)

// Scene owns the simulation: the entity world, the physics backend and the
// fixed order systems run in each tick.
type Scene struct {
	cfg Config

	world   *ecs.World
	physics *ecs.PhysicsWorld
	index   *ecs.BodyIndex
	factory *entity.Factory

	scheduler *ecs.Scheduler
	spawner   *system.SpawnSystem
	behavior  *system.BehaviorSystem
	contacts  *system.ContactSystem
	cull      *system.CullSystem

	rng     Rand
	scripts system.ScriptLoader
	specs   entity.SpecLoader
	logger  *zap.Logger
	runID   string

	started  bool
	lastTime float64

	score    int
	gameOver bool

	onGameOver func(score int)
}

type Option func(*Scene)

// WithRand injects the spawn randomness source.
func WithRand(r Rand) Option {
	return func(s *Scene) {
		s.rng = r
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScripts replaces the behavior script loader.
func WithScripts(load system.ScriptLoader) Option {
	return func(s *Scene) {
		s.scripts = load
	}
}

// WithPrefabs replaces the entity prefab loader.
func WithPrefabs(load entity.SpecLoader) Option {
	return func(s *Scene) {
		s.specs = load
	}
}

// WithGameOver registers a callback run once when the ship is destroyed.
func WithGameOver(fn func(score int)) Option {
	return func(s *Scene) {
		s.onGameOver = fn
	}
}

// New builds a scene and spawns the ship.
func New(cfg Config, opts ...Option) (*Scene, error) {
	s := &Scene{
		cfg:     cfg,
		world:   ecs.NewWorld(),
		physics: ecs.NewPhysicsWorld(),
		index:   ecs.NewBodyIndex(),
		scripts: prefabs.LoadScript,
		specs:   prefabs.LoadEntityBuildSpec,
		logger:  zap.NewNop(),
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRand(cfg.Seed)
	}
	s.logger = s.logger.With(zap.String("run", s.runID))

	s.factory = entity.NewFactoryWithLoader(s.physics, s.index, s.specs)
	if err := s.factory.Preload(entity.ShipPrefab, entity.AsteroidPrefab, entity.ProjectilePrefab); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	s.spawner = system.NewSpawnSystem(cfg.Cadence, s.rng, s.spawnAsteroid, s.logger)
	s.behavior = system.NewBehaviorSystem(s.scripts, s.logger)
	s.contacts = system.NewContactSystem(s.index, s.logger)
	s.cull = system.NewCullSystem(s, cfg.Width, cfg.Height, cfg.CullMargin)
	s.applyTuning()

	s.scheduler = ecs.NewScheduler(
		s.spawner,
		system.NewPerEntitySystem(s.behavior, system.NewHealthSystem(s.logger), system.NewParticleSystem()),
		system.NewMovementSystem(),
		system.NewEmitterSystem(s.spawnProjectile, s.logger),
		system.NewReapSystem(s, s.onReap),
		s.cull,
		system.NewPhysicsSystem(s.physics, s.HandleContact),
	)

	if err := s.spawnShip(); err != nil {
		return nil, err
	}
	s.logger.Info("scene ready",
		zap.Float64("width", cfg.Width),
		zap.Float64("height", cfg.Height),
		zap.Float64("spawn_interval", cfg.Cadence.Interval),
	)
	return s, nil
}

// Tick advances the simulation to currentTime, in seconds. The first call
// only establishes the time base and runs with dt = 0.
func (s *Scene) Tick(currentTime float64) {
	if !s.started {
		s.started = true
		s.lastTime = currentTime
	}
	dt := currentTime - s.lastTime
	if dt < 0 {
		dt = 0
	}
	s.lastTime = currentTime
	s.scheduler.Update(s.world, dt)
}

// HandleContact damages both sides of a begin-contact between two bodies.
func (s *Scene) HandleContact(a, b component.Body) {
	s.contacts.Handle(s.world, a, b)
}

func (s *Scene) HandleInputDown(p common.Vec2) {
	s.updateShipTarget(p)
}

func (s *Scene) HandleInputMoved(p common.Vec2) {
	s.updateShipTarget(p)
}

func (s *Scene) HandleInputUp(p common.Vec2) {
	s.updateShipTarget(p)
}

// updateShipTarget keeps the target inside the scene so the ship can never be
// steered off screen.
func (s *Scene) updateShipTarget(p common.Vec2) {
	hw, hh := s.cfg.Width/2, s.cfg.Height/2
	system.SetTarget(s.world, common.Vec2{
		X: min(max(p.X, -hw), hw),
		Y: min(max(p.Y+s.cfg.InputOffset, -hh), hh),
	})
}

// RemoveEntity strips every component of e, removes its body if it still has
// one and drops it from the live set.
func (s *Scene) RemoveEntity(e ecs.Entity) bool {
	if !ecs.IsAlive(s.world, e) {
		return false
	}
	if sprite, ok := ecs.Get(s.world, e, component.SpriteComponent.Kind()); ok {
		particle, _ := ecs.Get(s.world, e, component.ParticleComponent.Kind())
		sprite.Destroy(particle)
	}
	s.behavior.Forget(e)
	s.index.Forget(e)
	return ecs.DestroyEntity(s.world, e)
}

// SpawnAsteroid adds an enemy outside the spawn cadence.
func (s *Scene) SpawnAsteroid(pos, velocity common.Vec2) (ecs.Entity, error) {
	return s.spawnAsteroid(pos, velocity)
}

// Reset tears everything down and starts a new run with the configured cadence.
func (s *Scene) Reset() error {
	for _, e := range ecs.Entities(s.world) {
		s.RemoveEntity(e)
	}
	s.physics.Clear()
	s.index.Clear()

	s.spawner.Cadence = s.cfg.Cadence
	s.spawner.Spawned = 0
	s.started = false
	s.lastTime = 0
	s.score = 0
	s.gameOver = false

	s.logger.Info("scene reset")
	return s.spawnShip()
}

// ApplyConfig swaps in new tuning. The running spawn countdown is kept.
func (s *Scene) ApplyConfig(cfg Config) {
	countdown := s.spawner.Cadence.Countdown
	interval := s.spawner.Cadence.Interval
	s.cfg = cfg
	s.applyTuning()
	s.spawner.Cadence = system.Cadence{
		Interval:  interval,
		Base:      cfg.Cadence.Base,
		Decay:     cfg.Cadence.Decay,
		Countdown: countdown,
	}
}

func (s *Scene) applyTuning() {
	s.spawner.Width = s.cfg.Width
	s.spawner.Top = s.cfg.EnemyTop
	s.spawner.BaseSpeed = s.cfg.EnemyBaseSpeed
	s.spawner.SpeedVariability = s.cfg.EnemySpeedVariability

	s.cull.HalfWidth = s.cfg.Width / 2
	s.cull.HalfHeight = s.cfg.Height / 2
	s.cull.Margin = s.cfg.CullMargin
}

// ReloadPrefab applies an edited prefab, script or scene file by name.
func (s *Scene) ReloadPrefab(name string) error {
	switch {
	case prefabs.IsScript(name):
		script := strings.TrimPrefix(name, "scripts/")
		s.behavior.Invalidate(script)
		s.logger.Info("script reloaded", zap.String("script", script))
	case name == prefabs.SceneFile:
		cfg, err := LoadConfig()
		if err != nil {
			return fmt.Errorf("scene: reload %s: %w", name, err)
		}
		cfg.Seed = s.cfg.Seed
		s.ApplyConfig(cfg)
		s.logger.Info("scene config reloaded")
	default:
		if err := s.factory.Reload(name); err != nil {
			return fmt.Errorf("scene: reload %s: %w", name, err)
		}
		s.logger.Info("prefab reloaded", zap.String("prefab", name))
	}
	return nil
}

func (s *Scene) spawnShip() error {
	if _, err := s.factory.Ship(s.world, s.cfg.ShipPosition); err != nil {
		return fmt.Errorf("scene: spawn ship: %w", err)
	}
	return nil
}

func (s *Scene) spawnAsteroid(pos, velocity common.Vec2) (ecs.Entity, error) {
	return s.factory.Asteroid(s.world, pos, velocity)
}

func (s *Scene) spawnProjectile(pos common.Vec2, emitter *component.Emitter) (ecs.Entity, error) {
	return s.factory.Projectile(s.world, pos, emitter)
}

func (s *Scene) onReap(w *ecs.World, e ecs.Entity) {
	switch {
	case ecs.Has(w, e, component.AsteroidTagComponent.Kind()):
		s.score++
		s.logger.Debug("asteroid destroyed", zap.Stringer("entity", e), zap.Int("score", s.score))
	case ecs.Has(w, e, component.ShipTagComponent.Kind()):
		if s.gameOver {
			return
		}
		s.gameOver = true
		s.logger.Info("game over", zap.Int("score", s.score))
		if s.onGameOver != nil {
			s.onGameOver(s.score)
		}
	}
}

func (s *Scene) World() *ecs.World {
	return s.world
}

func (s *Scene) Physics() *ecs.PhysicsWorld {
	return s.physics
}

// Ship returns the player entity while it is alive.
func (s *Scene) Ship() (ecs.Entity, bool) {
	return ecs.First(s.world, component.ShipTagComponent.Kind())
}

func (s *Scene) Score() int {
	return s.score
}

func (s *Scene) GameOver() bool {
	return s.gameOver
}

func (s *Scene) RunID() string {
	return s.runID
}

func (s *Scene) Config() Config {
	return s.cfg
}

func (s *Scene) Cadence() system.Cadence {
	return s.spawner.Cadence
}

// Spawned is the number of enemies the cadence has produced this run.
func (s *Scene) Spawned() int {
	return s.spawner.Spawned
}
