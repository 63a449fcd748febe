package levels

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedBuildLoads(t *testing.T) {
	c, err := NewCatalog(LevelsFS)
	require.NoError(t, err)
	require.Equal(t, 3, c.Count())

	for i := 0; i < c.Count(); i++ {
		scene, err := c.Load(i)
		require.NoError(t, err, "scene %d", i)
		assert.NotEmpty(t, scene.Blocks)
	}

	menu, err := c.Load(0)
	require.NoError(t, err)
	assert.True(t, menu.Menu)
	assert.Equal(t, "menu", menu.Name)
}

func TestGameplayScenesHaveFinish(t *testing.T) {
	c, err := NewCatalog(LevelsFS)
	require.NoError(t, err)

	for i := 1; i < c.Count(); i++ {
		scene, err := c.Load(i)
		require.NoError(t, err)
		found := false
		for _, b := range scene.Blocks {
			if b.Layer == "finish" && b.Trigger {
				found = true
			}
		}
		assert.True(t, found, scene.Name)
		require.NotNil(t, scene.KillY, scene.Name)
		assert.Less(t, *scene.KillY, 0.0, scene.Name)
	}
}

func TestLoadOutOfRange(t *testing.T) {
	c, err := NewCatalog(LevelsFS)
	require.NoError(t, err)

	for _, index := range []int{-1, c.Count()} {
		_, err := c.Load(index)
		assert.True(t, errors.Is(err, ErrSceneOutOfRange), "index %d", index)
	}
}

func TestNewCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"missing build", fstest.MapFS{}},
		{"empty build", fstest.MapFS{"build.yaml": {Data: []byte("scenes: []\n")}}},
		{"bad yaml", fstest.MapFS{"build.yaml": {Data: []byte("scenes: [\n")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func TestSceneNameDefaultsToBuildEntry(t *testing.T) {
	fsys := fstest.MapFS{
		"build.yaml": {Data: []byte("scenes: [arena]\n")},
		"arena.yaml": {Data: []byte("blocks:\n  - size: {x: 1, y: 1, z: 1}\n")},
	}
	c, err := NewCatalog(fsys)
	require.NoError(t, err)

	scene, err := c.Load(0)
	require.NoError(t, err)
	assert.Equal(t, "arena", scene.Name)
}

func TestSceneValidate(t *testing.T) {
	unit := Vec3{X: 1, Y: 1, Z: 1}
	tests := []struct {
		name    string
		blocks  []Block
		wantErr bool
	}{
		{"ok", []Block{{Name: "a", Size: unit}, {Name: "b", Size: unit, Orbit: &Orbit{Pivot: "a", Speed: 10}}}, false},
		{"duplicate name", []Block{{Name: "a", Size: unit}, {Name: "a", Size: unit}}, true},
		{"zero size", []Block{{Name: "a"}}, true},
		{"moving collider", []Block{{Name: "a", Size: unit, Layer: "ground", Script: &Script{Name: "bob"}}}, true},
		{"unknown pivot", []Block{{Name: "a", Size: unit, Orbit: &Orbit{Pivot: "b"}}}, true},
		{"unnamed script", []Block{{Name: "a", Size: unit, Script: &Script{}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Scene{Blocks: tt.blocks}).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
