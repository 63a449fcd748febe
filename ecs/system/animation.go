package system

import (
	"github.com/milk9111/wallrunner/common"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/rs/zerolog/log"
)

type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	dt := w.DeltaTime()
	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(e ecs.Entity, anim *component.Animator) {
		if n := len(anim.Triggers); n > 0 {
			name := anim.Triggers[n-1]
			anim.Triggers = anim.Triggers[:0]
			if _, ok := anim.Clips[name]; ok {
				anim.Current = name
				anim.Time = 0
			} else {
				log.Warn().Uint64("entity", uint64(e)).Str("trigger", name).Msg("animator has no clip for trigger")
			}
		}

		clip, ok := anim.Clips[anim.Current]
		if !ok {
			return
		}
		if clip.Duration <= 0 {
			anim.Value = clip.To
			return
		}
		anim.Value = common.Lerp(clip.From, clip.To, common.Clamp(anim.Time/clip.Duration, 0, 1))
		anim.Time += dt
	})
}
