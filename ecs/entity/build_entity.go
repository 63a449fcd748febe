package entity

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"main_camera_tag": addMainCameraTag,
	"transform":       addTransform,
	"rigid_body":      addRigidBody,
	"player_motor":    addPlayerMotor,
	"player_state":    addPlayerState,
	"input":           addInput,
	"camera":          addCamera,
	"level_loader":    addLevelLoader,
	"animator":        addAnimator,
	"audio_fader":     addAudioFader,
	"box":             addBox,
	"collider":        addCollider,
	"orbit":           addOrbit,
	"scripted_motion": addScriptedMotion,
}

var componentBuildOrder = []string{
	"player_tag",
	"main_camera_tag",
	"transform",
	"rigid_body",
	"player_motor",
	"player_state",
	"input",
	"camera",
	"level_loader",
	"animator",
	"audio_fader",
	"box",
	"collider",
	"orbit",
	"scripted_motion",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, spec, prefabPath)
}

// BuildEntityFromSpec creates an entity from an already decoded prefab.
// Components are added in build order; unknown names fail the build and
// leave no entity behind.
func BuildEntityFromSpec(w *ecs.World, spec entityPrefabSpec, prefabPath string) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

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
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %s", prefabPath, strings.Join(names, ", "))
	}

	return e, nil
}

// SetEntityTransform places e at position facing yaw degrees.
func SetEntityTransform(w *ecs.World, e ecs.Entity, position mgl64.Vec3, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position = position
	t.Rotation = yawRotation(yaw)
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func yawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), component.WorldUp)
}

func vec3(v prefabs.Vec3Spec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addMainCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.MainCameraTagComponent.Kind(), &component.MainCameraTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: vec3(spec.Position),
		Rotation: yawRotation(spec.Yaw),
	})
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}
	if spec.Mass == 0 {
		spec.Mass = 1
	}
	if spec.Radius <= 0 || spec.Height <= 0 {
		return fmt.Errorf("rigid body needs a positive radius and height")
	}
	useGravity := true
	if spec.UseGravity != nil {
		useGravity = *spec.UseGravity
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{
		Mass:       spec.Mass,
		Radius:     spec.Radius,
		Height:     spec.Height,
		UseGravity: useGravity,
		Drag:       spec.Drag,
	})
}

type playerMotorSpec = prefabs.PlayerMotorComponentSpec

func addPlayerMotor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerMotorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player motor spec: %w", err)
	}
	groundMask, err := component.ParseMask(spec.GroundMask)
	if err != nil {
		return fmt.Errorf("ground mask: %w", err)
	}
	if groundMask == 0 {
		return fmt.Errorf("ground mask is empty")
	}
	wallMask, err := component.ParseMask(spec.WallMask)
	if err != nil {
		return fmt.Errorf("wall mask: %w", err)
	}
	if wallMask == 0 {
		return fmt.Errorf("wall mask is empty")
	}
	if spec.GroundProbeLength == 0 {
		spec.GroundProbeLength = 2
	}
	return ecs.Add(w, e, component.PlayerMotorComponent.Kind(), &component.PlayerMotor{
		Speed:             spec.Speed,
		GroundDrag:        spec.GroundDrag,
		AirFriction:       spec.AirFriction,
		JumpForce:         spec.JumpForce,
		GroundMask:        groundMask,
		GroundProbeLength: spec.GroundProbeLength,
		WallMask:          wallMask,
		WallRunForce:      spec.WallRunForce,
		WallJumpForce:     spec.WallJumpForce,
		WallJumpSideForce: spec.WallJumpSideForce,
		WallCheckDistance: spec.WallCheckDistance,
		MinJumpHeight:     spec.MinJumpHeight,
		ExitWallTime:      spec.ExitWallTime,
		JumpPlatformForce: spec.JumpPlatformForce,
		FOVMin:            spec.FOVMin,
		FOVMax:            spec.FOVMax,
		FOVRate:           spec.FOVRate,
	})
}

func addPlayerState(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerStateComponent.Kind(), &component.PlayerState{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Sensitivity == 0 {
		spec.Sensitivity = 100
	}
	if spec.FOV == 0 {
		spec.FOV = 60
	}
	if spec.Near == 0 {
		spec.Near = 0.1
	}
	if spec.Far == 0 {
		spec.Far = 500
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Sensitivity: spec.Sensitivity,
		FOV:         spec.FOV,
		EyeHeight:   spec.EyeHeight,
		Near:        spec.Near,
		Far:         spec.Far,
	})
}

type levelLoaderSpec = prefabs.LevelLoaderComponentSpec

func addLevelLoader(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[levelLoaderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode level loader spec: %w", err)
	}
	return ecs.Add(w, e, component.LevelLoaderComponent.Kind(), &component.LevelLoader{TransitionTime: spec.TransitionTime})
}

type animatorSpec = prefabs.AnimatorComponentSpec

func addAnimator(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[animatorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animator spec: %w", err)
	}
	clips := make(map[string]component.AnimationClip, len(spec.Clips))
	for name, clip := range spec.Clips {
		clips[name] = component.AnimationClip{From: clip.From, To: clip.To, Duration: clip.Duration}
	}
	anim := &component.Animator{Clips: clips}
	if spec.Initial != "" {
		if _, ok := clips[spec.Initial]; !ok {
			return fmt.Errorf("initial clip %q is not defined", spec.Initial)
		}
		anim.SetTrigger(spec.Initial)
	}
	return ecs.Add(w, e, component.AnimatorComponent.Kind(), anim)
}

type audioFaderSpec = prefabs.AudioFaderComponentSpec

func addAudioFader(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[audioFaderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode audio fader spec: %w", err)
	}
	return ecs.Add(w, e, component.AudioFaderComponent.Kind(), &component.AudioFader{
		FadeInDuration:  spec.FadeIn,
		FadeOutDuration: spec.FadeOut,
	})
}

type boxSpec = prefabs.BoxComponentSpec

func addBox(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[boxSpec](raw)
	if err != nil {
		return fmt.Errorf("decode box spec: %w", err)
	}
	c := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if spec.Color != "" {
		c, err = parseHexColor(spec.Color)
		if err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{Size: vec3(spec.Size), Color: c})
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	layer := component.LayerDefault
	if spec.Layer != "" {
		layer, err = component.ParseLayer(spec.Layer)
		if err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Size:    vec3(spec.Size),
		Layer:   layer,
		Trigger: spec.Trigger,
	})
}

type orbitSpec = prefabs.OrbitComponentSpec

func addOrbit(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[orbitSpec](raw)
	if err != nil {
		return fmt.Errorf("decode orbit spec: %w", err)
	}
	return ecs.Add(w, e, component.OrbitComponent.Kind(), &component.Orbit{Speed: spec.Speed})
}

type scriptedMotionSpec = prefabs.ScriptedMotionComponentSpec

func addScriptedMotion(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[scriptedMotionSpec](raw)
	if err != nil {
		return fmt.Errorf("decode scripted motion spec: %w", err)
	}
	if spec.Script == "" {
		return fmt.Errorf("scripted motion has no script")
	}
	var origin mgl64.Vec3
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		origin = t.Position
	}
	return ecs.Add(w, e, component.ScriptedMotionComponent.Kind(), &component.ScriptedMotion{
		Script: spec.Script,
		Origin: origin,
		Params: spec.Params,
	})
}

func parseHexColor(v string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %q", v)
	}
	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}
	r, err := parse(0)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse red component: %w", err)
	}
	g, err := parse(2)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse green component: %w", err)
	}
	b, err := parse(4)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse blue component: %w", err)
	}
	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse alpha component: %w", err)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
