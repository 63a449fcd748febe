package entity

import (
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/prefabs"
)

// NewLevelLoader builds the transition overlay. It starts on its "End" clip
// so every scene fades in from black.
func NewLevelLoader(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, prefabs.LevelLoaderPrefab)
}
