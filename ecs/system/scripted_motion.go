package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/rs/zerolog/log"
)

// ScriptLoader returns the source of a motion script by name.
type ScriptLoader func(name string) ([]byte, error)

// ScriptedMotionSystem moves decoration props with tengo scripts. Each
// script sees the elapsed time as `t` plus the prop's params as `params`, and
// assigns the offset from the prop's origin to `dx`, `dy` and `dz`.
type ScriptedMotionSystem struct {
	load     ScriptLoader
	compiled map[ecs.Entity]*tengo.Compiled
}

func NewScriptedMotionSystem(load ScriptLoader) (*ScriptedMotionSystem, error) {
	if load == nil {
		return nil, fmt.Errorf("scripted motion: script loader: %w", ErrMissingDependency)
	}
	return &ScriptedMotionSystem{load: load, compiled: make(map[ecs.Entity]*tengo.Compiled)}, nil
}

// Reload drops every compiled script and re-enables failed props so edited
// scripts are picked up on the next update.
func (s *ScriptedMotionSystem) Reload(w *ecs.World) {
	clear(s.compiled)
	if w == nil {
		return
	}
	ecs.ForEach(w, component.ScriptedMotionComponent.Kind(), func(_ ecs.Entity, motion *component.ScriptedMotion) {
		motion.Failed = false
	})
}

func (s *ScriptedMotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for e := range s.compiled {
		if !ecs.Has(w, e, component.ScriptedMotionComponent.Kind()) {
			delete(s.compiled, e)
		}
	}

	dt := w.DeltaTime()
	ecs.ForEach2(w, component.ScriptedMotionComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, motion *component.ScriptedMotion, transform *component.Transform) {
		if motion.Failed {
			return
		}
		motion.Elapsed += dt

		compiled, err := s.compile(e, motion)
		if err != nil {
			log.Error().Err(err).Uint64("entity", uint64(e)).Str("script", motion.Script).Msg("motion script disabled")
			motion.Failed = true
			return
		}
		offset, err := run(compiled, motion.Elapsed)
		if err != nil {
			log.Error().Err(err).Uint64("entity", uint64(e)).Str("script", motion.Script).Msg("motion script disabled")
			motion.Failed = true
			return
		}
		transform.Position = motion.Origin.Add(offset)
	})
}

func (s *ScriptedMotionSystem) compile(e ecs.Entity, motion *component.ScriptedMotion) (*tengo.Compiled, error) {
	if c, ok := s.compiled[e]; ok {
		return c, nil
	}
	src, err := s.load(motion.Script)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", motion.Script, err)
	}

	params := make(map[string]any, len(motion.Params))
	for k, v := range motion.Params {
		params[k] = v
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = script.Add("t", 0.0)
	_ = script.Add("params", params)
	_ = script.Add("dx", 0.0)
	_ = script.Add("dy", 0.0)
	_ = script.Add("dz", 0.0)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", motion.Script, err)
	}
	s.compiled[e] = compiled
	return compiled, nil
}

func run(compiled *tengo.Compiled, t float64) (mgl64.Vec3, error) {
	if err := compiled.Set("t", t); err != nil {
		return mgl64.Vec3{}, err
	}
	if err := compiled.Run(); err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{
		compiled.Get("dx").Float(),
		compiled.Get("dy").Float(),
		compiled.Get("dz").Float(),
	}, nil
}
