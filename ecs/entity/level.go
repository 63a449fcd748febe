package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/levels"
	"github.com/milk9111/wallrunner/prefabs"
	"github.com/rs/zerolog/log"
)

// SceneBuilder turns catalog scenes into entities: blocks, the player and
// its camera (or a fixed camera for menu scenes), the transition overlay and
// the scene's music.
type SceneBuilder struct {
	catalog *levels.Catalog
	tracks  TrackSource
}

// NewSceneBuilder returns a builder for catalog. tracks may be nil, in which
// case scenes are silent.
func NewSceneBuilder(catalog *levels.Catalog, tracks TrackSource) (*SceneBuilder, error) {
	if catalog == nil {
		return nil, fmt.Errorf("scene builder: catalog is nil")
	}
	return &SceneBuilder{catalog: catalog, tracks: tracks}, nil
}

func (b *SceneBuilder) SceneCount() int {
	return b.catalog.Count()
}

func (b *SceneBuilder) BuildScene(w *ecs.World, index int) (component.SceneLoaded, error) {
	scene, err := b.catalog.Load(index)
	if err != nil {
		return component.SceneLoaded{}, err
	}

	names, err := b.buildBlocks(w, scene)
	if err != nil {
		return component.SceneLoaded{}, fmt.Errorf("scene %q: %w", scene.Name, err)
	}

	spawn := mgl64.Vec3{scene.Spawn.Position.X, scene.Spawn.Position.Y, scene.Spawn.Position.Z}
	camera, err := NewCameraAt(w, spawn, scene.Spawn.Yaw)
	if err != nil {
		return component.SceneLoaded{}, fmt.Errorf("scene %q: %w", scene.Name, err)
	}
	if !scene.Menu {
		if _, err := NewPlayerAt(w, camera, spawn, scene.Spawn.Yaw); err != nil {
			return component.SceneLoaded{}, fmt.Errorf("scene %q: %w", scene.Name, err)
		}
	}

	if _, err := NewLevelLoader(w); err != nil {
		return component.SceneLoaded{}, fmt.Errorf("scene %q: %w", scene.Name, err)
	}

	if scene.Music != "" && b.tracks != nil {
		channel, err := b.tracks(scene.Music)
		if err != nil {
			// A scene without music is still playable.
			log.Error().Err(err).Str("track", scene.Music).Str("scene", scene.Name).Msg("music unavailable")
		} else if _, err := NewAudioManager(w, channel, scene.Music); err != nil {
			_ = channel.Close()
			return component.SceneLoaded{}, fmt.Errorf("scene %q: %w", scene.Name, err)
		}
	}

	log.Debug().Str("scene", scene.Name).Int("blocks", len(names)).Bool("menu", scene.Menu).Msg("scene built")
	loaded := component.SceneLoaded{Index: index, Name: scene.Name, Menu: scene.Menu}
	if scene.KillY != nil {
		loaded.KillPlane = true
		loaded.KillY = *scene.KillY
	}
	return loaded, nil
}

// buildBlocks creates every block and then resolves orbit pivots by name.
func (b *SceneBuilder) buildBlocks(w *ecs.World, scene *levels.Scene) (map[string]ecs.Entity, error) {
	names := make(map[string]ecs.Entity, len(scene.Blocks))
	for i, block := range scene.Blocks {
		e, err := BuildEntityFromSpec(w, blockSpec(block), prefabs.BlockPrefab)
		if err != nil {
			return nil, fmt.Errorf("block %d (%q): %w", i, block.Name, err)
		}
		if block.Name != "" {
			names[block.Name] = e
		}
	}
	for _, block := range scene.Blocks {
		if block.Orbit == nil {
			continue
		}
		orbit, ok := ecs.Get(w, names[block.Name], component.OrbitComponent.Kind())
		if !ok {
			continue
		}
		orbit.Pivot = uint64(names[block.Orbit.Pivot])
	}
	return names, nil
}

// blockSpec overlays a level block on the block prefab.
func blockSpec(block levels.Block) entityPrefabSpec {
	base, err := prefabs.LoadEntityBuildSpec(prefabs.BlockPrefab)
	if err != nil {
		base = entityPrefabSpec{Name: "block", Components: map[string]any{}}
	}
	size := prefabs.Vec3Spec{X: block.Size.X, Y: block.Size.Y, Z: block.Size.Z}

	box, _ := prefabs.DecodeComponentSpec[prefabs.BoxComponentSpec](base.Components["box"])
	box.Size = size
	if block.Color != "" {
		box.Color = block.Color
	}

	components := map[string]any{
		"transform": prefabs.TransformComponentSpec{
			Position: prefabs.Vec3Spec{X: block.Position.X, Y: block.Position.Y, Z: block.Position.Z},
		},
		"box": box,
	}
	if block.Layer != "" {
		components["collider"] = prefabs.ColliderComponentSpec{Size: size, Layer: block.Layer, Trigger: block.Trigger}
	}
	if block.Orbit != nil {
		components["orbit"] = prefabs.OrbitComponentSpec{Speed: block.Orbit.Speed}
	}
	if block.Script != nil {
		components["scripted_motion"] = prefabs.ScriptedMotionComponentSpec{Script: block.Script.Name, Params: block.Script.Params}
	}
	return entityPrefabSpec{Name: block.Name, Components: components}
}
