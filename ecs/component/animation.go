package component

// AnimationClip tweens a scalar from From to To over Duration seconds and
// holds the final value.
type AnimationClip struct {
	From     float64
	To       float64
	Duration float64
}

// Animator plays named clips. Triggers are consumed by the animation system
// on its next update, last one wins.
type Animator struct {
	Clips    map[string]AnimationClip
	Current  string
	Time     float64
	Value    float64
	Triggers []string
}

// SetTrigger queues a clip switch.
func (a *Animator) SetTrigger(name string) {
	if a == nil {
		return
	}
	a.Triggers = append(a.Triggers, name)
}

var AnimatorComponent = NewComponent[Animator]()
