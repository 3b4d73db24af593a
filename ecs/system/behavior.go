package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"go.uber.org/zap"
)

// ScriptLoader returns the source of a named behavior script.
type ScriptLoader func(name string) ([]byte, error)

type behaviorRuntime struct {
	script    string
	compiled  *tengo.Compiled
	stateData *tengo.Map
	failed    bool
}

const behaviorDispatchScript = `
update(__engine, __state)
`

// BehaviorSystem runs each entity's tengo script with an engine object
// exposing dt, the sprite position and a nudge(dx, dy) function.
type BehaviorSystem struct {
	load   ScriptLoader
	cache  map[ecs.Entity]*behaviorRuntime
	logger *zap.Logger
}

func NewBehaviorSystem(load ScriptLoader, logger *zap.Logger) *BehaviorSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BehaviorSystem{
		load:   load,
		cache:  make(map[ecs.Entity]*behaviorRuntime),
		logger: logger,
	}
}

func (s *BehaviorSystem) UpdateEntity(w *ecs.World, e ecs.Entity, dt float64) {
	behavior, ok := ecs.Get(w, e, component.BehaviorComponent.Kind())
	if !ok || strings.TrimSpace(behavior.Script) == "" {
		return
	}
	rt, err := s.runtime(e, behavior)
	if err != nil {
		s.logger.Warn("load behavior script",
			zap.Stringer("entity", e),
			zap.String("script", behavior.Script),
			zap.Error(err),
		)
		return
	}
	if rt.failed {
		return
	}

	sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	if err := rt.run(buildBehaviorEngine(sprite, dt)); err != nil {
		// stop retrying a script that fails at runtime until it is reloaded
		rt.failed = true
		s.logger.Warn("behavior script",
			zap.Stringer("entity", e),
			zap.String("script", behavior.Script),
			zap.Error(err),
		)
	}
}

// Forget drops the cached runtime of e.
func (s *BehaviorSystem) Forget(e ecs.Entity) {
	if s == nil {
		return
	}
	delete(s.cache, e)
}

// Invalidate drops every cached runtime using script so the next tick
// recompiles it.
func (s *BehaviorSystem) Invalidate(script string) {
	if s == nil {
		return
	}
	for e, rt := range s.cache {
		if rt.script == script {
			delete(s.cache, e)
		}
	}
}

func (s *BehaviorSystem) runtime(e ecs.Entity, behavior *component.Behavior) (*behaviorRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.script == behavior.Script {
		return rt, nil
	}
	if s.load == nil {
		return nil, fmt.Errorf("behavior: no script loader")
	}

	src, err := s.load(behavior.Script)
	if err != nil {
		return nil, fmt.Errorf("behavior: load %s: %w", behavior.Script, err)
	}

	script := tengo.NewScript(append(src, []byte(behaviorDispatchScript)...))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("behavior: compile %s: %w", behavior.Script, err)
	}

	state := &tengo.Map{Value: map[string]tengo.Object{}}
	for k, v := range behavior.Params {
		obj, err := tengo.FromInterface(v)
		if err != nil {
			return nil, fmt.Errorf("behavior: param %s: %w", k, err)
		}
		state.Value[k] = obj
	}

	rt := &behaviorRuntime{script: behavior.Script, compiled: compiled, stateData: state}
	s.cache[e] = rt
	return rt, nil
}

func (rt *behaviorRuntime) run(engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildBehaviorEngine(sprite *component.Sprite, dt float64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	values["dt"] = &tengo.Float{Value: dt}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := sprite.Position()
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}}, nil
	}}

	values["nudge"] = &tengo.UserFunction{Name: "nudge", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		dx, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "dx", Expected: "float", Found: args[0].TypeName()}
		}
		dy, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "dy", Expected: "float", Found: args[1].TypeName()}
		}
		sprite.Reposition(sprite.Position().Add(common.Vec2{X: dx, Y: dy}))
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
