package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/prefabs"
)

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, prefabs.CameraPrefab)
}

func NewCameraAt(w *ecs.World, position mgl64.Vec3, yaw float64) (ecs.Entity, error) {
	camera, err := NewCamera(w)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, camera, position, yaw); err != nil {
		return 0, fmt.Errorf("camera: override transform: %w", err)
	}
	return camera, nil
}
