package component

// AudioChannel is a single playing audio stream with a live gain.
// *audio.Player from ebiten satisfies it. A closed channel must not be used
// again.
type AudioChannel interface {
	Volume() float64
	SetVolume(volume float64)
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// RampKind identifies an in-flight gain ramp.
type RampKind int

const (
	RampNone RampKind = iota
	RampFadeIn
	RampFadeOut
)

func (k RampKind) String() string {
	switch k {
	case RampFadeIn:
		return "fade_in"
	case RampFadeOut:
		return "fade_out"
	default:
		return "none"
	}
}

// Ramp is a timed gain interpolation. A fader holds at most one; starting a
// new ramp replaces the old one.
type Ramp struct {
	Kind     RampKind
	Elapsed  float64
	Duration float64
	From     float64
}

// Active reports whether the ramp is still running.
func (r Ramp) Active() bool {
	return r.Kind != RampNone
}

// AudioFader drives one channel's gain from the persisted volume setting.
type AudioFader struct {
	Channel AudioChannel
	Track   string

	FadeInDuration  float64
	FadeOutDuration float64

	Ramp Ramp
	// FadingOut suppresses the per-frame volume sync. It stays set once a
	// fade-out has run since the scene is ending.
	FadingOut bool
	Started   bool
}

var AudioFaderComponent = NewComponent[AudioFader]()
