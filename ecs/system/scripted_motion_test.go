package system

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScripts = map[string]string{
	"rise.tengo":   `dy = t * params.rate`,
	"bob.tengo":    "math := import(\"math\")\ndy = params.amplitude * math.sin(t * params.speed)",
	"broken.tengo": `dy = (`,
	"panic.tengo":  `dy = t / undefined_value`,
}

func loadTestScript(name string) ([]byte, error) {
	src, ok := testScripts[name]
	if !ok {
		return nil, fmt.Errorf("no script %q", name)
	}
	return []byte(src), nil
}

func addProp(w *ecs.World, script string, params map[string]float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	origin := mgl64.Vec3{1, 2, 3}
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: origin})
	_ = ecs.Add(w, e, component.ScriptedMotionComponent.Kind(), &component.ScriptedMotion{Script: script, Origin: origin, Params: params})
	return e
}

func TestNewScriptedMotionSystemRequiresLoader(t *testing.T) {
	_, err := NewScriptedMotionSystem(nil)
	assert.True(t, errors.Is(err, ErrMissingDependency))
}

func TestScriptedMotionOffsetsFromOrigin(t *testing.T) {
	w := ecs.NewWorld()
	sm, err := NewScriptedMotionSystem(loadTestScript)
	require.NoError(t, err)
	prop := addProp(w, "rise.tengo", map[string]float64{"rate": 2})

	tick(w, sm, 0.5)
	tick(w, sm, 0.5)

	pos := mustGet(w, prop, component.TransformComponent).Position
	assert.InDelta(t, 1.0, pos.X(), 1e-9)
	assert.InDelta(t, 4.0, pos.Y(), 1e-9)
	assert.InDelta(t, 3.0, pos.Z(), 1e-9)
}

func TestScriptedMotionUsesStdlib(t *testing.T) {
	w := ecs.NewWorld()
	sm, err := NewScriptedMotionSystem(loadTestScript)
	require.NoError(t, err)
	prop := addProp(w, "bob.tengo", map[string]float64{"amplitude": 0.5, "speed": 1})

	tick(w, sm, 1.5707963267948966)

	assert.InDelta(t, 2.5, mustGet(w, prop, component.TransformComponent).Position.Y(), 1e-9)
}

func TestScriptedMotionDisablesBrokenScripts(t *testing.T) {
	for _, name := range []string{"broken.tengo", "panic.tengo", "missing.tengo"} {
		t.Run(name, func(t *testing.T) {
			w := ecs.NewWorld()
			sm, err := NewScriptedMotionSystem(loadTestScript)
			require.NoError(t, err)
			prop := addProp(w, name, nil)

			tick(w, sm, 0.5)
			tick(w, sm, 0.5)

			motion := mustGet(w, prop, component.ScriptedMotionComponent)
			assert.True(t, motion.Failed)
			assert.Equal(t, mgl64.Vec3{1, 2, 3}, mustGet(w, prop, component.TransformComponent).Position)
		})
	}
}

func TestScriptedMotionReloadPicksUpEdits(t *testing.T) {
	sources := map[string]string{"edit.tengo": `dy = (`}
	load := func(name string) ([]byte, error) { return []byte(sources[name]), nil }

	w := ecs.NewWorld()
	sm, err := NewScriptedMotionSystem(load)
	require.NoError(t, err)
	prop := addProp(w, "edit.tengo", nil)

	tick(w, sm, 0.5)
	require.True(t, mustGet(w, prop, component.ScriptedMotionComponent).Failed)

	sources["edit.tengo"] = `dx = 1`
	sm.Reload(w)
	tick(w, sm, 0.5)

	assert.False(t, mustGet(w, prop, component.ScriptedMotionComponent).Failed)
	assert.InDelta(t, 2.0, mustGet(w, prop, component.TransformComponent).Position.X(), 1e-9)
}
