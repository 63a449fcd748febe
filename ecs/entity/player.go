package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/prefabs"
)

// NewPlayerAt builds the player and attaches camera as its look camera. The
// camera must already exist.
func NewPlayerAt(w *ecs.World, camera ecs.Entity, position mgl64.Vec3, yaw float64) (ecs.Entity, error) {
	cam, ok := ecs.Get(w, camera, component.CameraComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("player: camera %v is missing", camera)
	}

	player, err := BuildEntity(w, prefabs.PlayerPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, player, position, yaw); err != nil {
		ecs.DestroyEntity(w, player)
		return 0, fmt.Errorf("player: override transform: %w", err)
	}

	motor, ok := ecs.Get(w, player, component.PlayerMotorComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, player)
		return 0, fmt.Errorf("player: prefab %q has no player_motor", prefabs.PlayerPrefab)
	}
	motor.Camera = uint64(camera)
	cam.Body = uint64(player)
	return player, nil
}
