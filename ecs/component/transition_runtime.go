package component

// TransitionRuntime holds transient state for an in-progress level
// transition. Only one exists at a time.
type TransitionRuntime struct {
	TargetScene int
	Elapsed     float64
	Duration    float64
	ReqSent     bool
}

var TransitionRuntimeComponent = NewComponent[TransitionRuntime]()
