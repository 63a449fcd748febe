package entity

import (
	"fmt"

	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/prefabs"
)

// TrackSource opens a fresh channel for the named music track.
type TrackSource func(track string) (component.AudioChannel, error)

// NewAudioManager builds a fader playing track through channel.
func NewAudioManager(w *ecs.World, channel component.AudioChannel, track string) (ecs.Entity, error) {
	if channel == nil {
		return 0, fmt.Errorf("audio manager: channel for %q is nil", track)
	}
	e, err := BuildEntity(w, prefabs.AudioPrefab)
	if err != nil {
		return 0, err
	}
	fader, ok := ecs.Get(w, e, component.AudioFaderComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("audio manager: prefab %q has no audio_fader", prefabs.AudioPrefab)
	}
	fader.Channel = channel
	fader.Track = track
	return e, nil
}
