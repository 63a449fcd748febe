package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	// Yaw in degrees, positive turning right.
	Yaw float64 `yaml:"yaw"`
}

type PlayerMotorComponentSpec struct {
	Speed       float64 `yaml:"speed"`
	GroundDrag  float64 `yaml:"ground_drag"`
	AirFriction float64 `yaml:"air_friction"`
	JumpForce   float64 `yaml:"jump_force"`

	GroundMask        []string `yaml:"ground_mask"`
	GroundProbeLength float64  `yaml:"ground_probe_length"`

	WallMask          []string `yaml:"wall_mask"`
	WallRunForce      float64  `yaml:"wall_run_force"`
	WallJumpForce     float64  `yaml:"wall_jump_force"`
	WallJumpSideForce float64  `yaml:"wall_jump_side_force"`
	WallCheckDistance float64  `yaml:"wall_check_distance"`
	MinJumpHeight     float64  `yaml:"min_jump_height"`
	ExitWallTime      float64  `yaml:"exit_wall_time"`

	JumpPlatformForce float64 `yaml:"jump_platform_force"`

	FOVMin  float64 `yaml:"fov_min"`
	FOVMax  float64 `yaml:"fov_max"`
	FOVRate float64 `yaml:"fov_rate"`
}

type RigidBodyComponentSpec struct {
	Mass       float64 `yaml:"mass"`
	Radius     float64 `yaml:"radius"`
	Height     float64 `yaml:"height"`
	UseGravity *bool   `yaml:"use_gravity"`
	Drag       float64 `yaml:"drag"`
}

type CameraComponentSpec struct {
	Sensitivity float64 `yaml:"sensitivity"`
	FOV         float64 `yaml:"fov"`
	EyeHeight   float64 `yaml:"eye_height"`
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
}

type LevelLoaderComponentSpec struct {
	TransitionTime float64 `yaml:"transition_time"`
}

type AnimationClipSpec struct {
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Duration float64 `yaml:"duration"`
}

type AnimatorComponentSpec struct {
	Clips   map[string]AnimationClipSpec `yaml:"clips"`
	Initial string                       `yaml:"initial"`
}

type AudioFaderComponentSpec struct {
	FadeIn  float64 `yaml:"fade_in"`
	FadeOut float64 `yaml:"fade_out"`
}

type BoxComponentSpec struct {
	Size  Vec3Spec `yaml:"size"`
	Color string   `yaml:"color"`
}

type ColliderComponentSpec struct {
	Size    Vec3Spec `yaml:"size"`
	Layer   string   `yaml:"layer"`
	Trigger bool     `yaml:"trigger"`
}

type OrbitComponentSpec struct {
	Speed float64 `yaml:"speed"`
}

type ScriptedMotionComponentSpec struct {
	Script string             `yaml:"script"`
	Params map[string]float64 `yaml:"params"`
}
