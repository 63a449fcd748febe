package system

import (
	"fmt"

	"github.com/milk9111/wallrunner/common"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/settings"
	"github.com/rs/zerolog/log"
)

const (
	DefaultFadeIn  = 4.0
	DefaultFadeOut = 1.0
)

// AudioFaderSystem keeps every fader's channel gain in line with the
// persisted volume. A fader starts its channel and fades it in the first time
// it is seen; StartFadeOut ramps every channel to silence.
//
// While a fade-in runs the live sync is suppressed, but the ramp's target is
// the persisted volume read on that tick, so slider changes still land.
type AudioFaderSystem struct {
	store settings.Store
}

func NewAudioFaderSystem(store settings.Store) (*AudioFaderSystem, error) {
	if store == nil {
		return nil, fmt.Errorf("audio fader: settings store: %w", ErrMissingDependency)
	}
	return &AudioFaderSystem{store: store}, nil
}

func (a *AudioFaderSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	volume := settings.Volume(a.store)

	ecs.ForEach(w, component.AudioFaderComponent.Kind(), func(e ecs.Entity, fader *component.AudioFader) {
		if fader.Channel == nil {
			if !fader.Started {
				log.Error().Uint64("entity", uint64(e)).Str("track", fader.Track).Msg("audio fader has no channel")
				fader.Started = true
			}
			return
		}

		if !fader.Started {
			fader.Started = true
			if _, err := settings.Lookup(a.store, settings.KeyVolume); err != nil {
				log.Error().Err(err).Str("key", settings.KeyVolume).Msg("volume not persisted yet, fading in to default")
			}
			fader.Channel.SetVolume(0)
			fader.Channel.Play()
			StartFadeIn(fader)
		}

		switch fader.Ramp.Kind {
		case component.RampFadeIn:
			a.step(fader, 0, volume, dt)
		case component.RampFadeOut:
			a.step(fader, fader.Ramp.From, 0, dt)
		default:
			if !fader.FadingOut {
				fader.Channel.SetVolume(volume)
			}
		}
	})
}

// step advances the fader's ramp by dt. The gain is sampled before the clock
// moves, and the exact target is written once the window has elapsed.
func (a *AudioFaderSystem) step(fader *component.AudioFader, from, to, dt float64) {
	ramp := &fader.Ramp
	if ramp.Elapsed >= ramp.Duration {
		fader.Channel.SetVolume(to)
		ramp.Kind = component.RampNone
		return
	}
	fader.Channel.SetVolume(common.Lerp(from, to, ramp.Elapsed/ramp.Duration))
	ramp.Elapsed += dt
}

// StartFadeIn replaces any ramp on fader with a fade-in from silence.
func StartFadeIn(fader *component.AudioFader) {
	if fader == nil {
		return
	}
	d := fader.FadeInDuration
	if d <= 0 {
		d = DefaultFadeIn
	}
	fader.FadingOut = false
	fader.Ramp = component.Ramp{Kind: component.RampFadeIn, Duration: d}
}

// StartFadeOut replaces the ramp of every fader in w with a fade-out from its
// current gain.
func StartFadeOut(w *ecs.World) {
	ecs.ForEach(w, component.AudioFaderComponent.Kind(), func(e ecs.Entity, fader *component.AudioFader) {
		d := fader.FadeOutDuration
		if d <= 0 {
			d = DefaultFadeOut
		}
		from := 0.0
		if fader.Channel != nil {
			from = fader.Channel.Volume()
		}
		fader.FadingOut = true
		fader.Ramp = component.Ramp{Kind: component.RampFadeOut, Duration: d, From: from}
	})
}

// StopAudio pauses and releases every fader channel in w. The scene system
// calls it before tearing a scene down; the next scene opens its own channel.
func StopAudio(w *ecs.World) {
	ecs.ForEach(w, component.AudioFaderComponent.Kind(), func(e ecs.Entity, fader *component.AudioFader) {
		if fader.Channel == nil {
			return
		}
		if fader.Channel.IsPlaying() {
			fader.Channel.Pause()
		}
		if err := fader.Channel.Close(); err != nil {
			log.Warn().Err(err).Str("track", fader.Track).Msg("close audio channel")
		}
		fader.Channel = nil
	})
}
