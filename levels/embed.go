package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

const buildFile = "build.yaml"

var ErrSceneOutOfRange = errors.New("levels: scene index out of range")

// Build is the ordered scene list. A scene's build index is its position.
type Build struct {
	Scenes []string `yaml:"scenes"`
}

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type Spawn struct {
	Position Vec3    `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`
}

// Orbit makes a block circle the block named Pivot.
type Orbit struct {
	Pivot string  `yaml:"pivot"`
	Speed float64 `yaml:"speed"`
}

// Script drives a block with a motion script from prefabs/scripts.
type Script struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

// Block is an axis-aligned box. Blocks with a layer collide; blocks without
// one are decoration and may move.
type Block struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Size     Vec3    `yaml:"size"`
	Layer    string  `yaml:"layer"`
	Trigger  bool    `yaml:"trigger"`
	Color    string  `yaml:"color"`
	Orbit    *Orbit  `yaml:"orbit"`
	Script   *Script `yaml:"script"`
}

// Scene is one entry of the build order. KillY is the height below which the
// player restarts the scene; a scene without kill_y has no kill plane.
type Scene struct {
	Name   string   `yaml:"name"`
	Music  string   `yaml:"music"`
	Menu   bool     `yaml:"menu"`
	KillY  *float64 `yaml:"kill_y"`
	Spawn  Spawn    `yaml:"spawn"`
	Blocks []Block  `yaml:"blocks"`
}

// Catalog resolves build indices to scenes.
type Catalog struct {
	fsys  fs.FS
	build Build
}

// Default reads scenes from the levels directory on disk when present,
// falling back to the embedded copies.
func Default() (*Catalog, error) {
	if info, err := os.Stat("levels"); err == nil && info.IsDir() {
		if _, err := os.Stat(path.Join("levels", buildFile)); err == nil {
			return NewCatalog(os.DirFS("levels"))
		}
	}
	return NewCatalog(LevelsFS)
}

func NewCatalog(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, buildFile)
	if err != nil {
		return nil, fmt.Errorf("read build: %w", err)
	}
	var build Build
	if err := yaml.Unmarshal(data, &build); err != nil {
		return nil, fmt.Errorf("unmarshal build: %w", err)
	}
	if len(build.Scenes) == 0 {
		return nil, fmt.Errorf("build %s lists no scenes", buildFile)
	}
	return &Catalog{fsys: fsys, build: build}, nil
}

func (c *Catalog) Count() int {
	return len(c.build.Scenes)
}

// Name returns the scene name at index without loading it.
func (c *Catalog) Name(index int) (string, error) {
	if index < 0 || index >= len(c.build.Scenes) {
		return "", fmt.Errorf("scene %d of %d: %w", index, len(c.build.Scenes), ErrSceneOutOfRange)
	}
	return c.build.Scenes[index], nil
}

func (c *Catalog) Load(index int) (*Scene, error) {
	name, err := c.Name(index)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(c.fsys, name+".yaml")
	if err != nil {
		return nil, fmt.Errorf("read scene %q: %w", name, err)
	}
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("unmarshal scene %q: %w", name, err)
	}
	if scene.Name == "" {
		scene.Name = name
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	return &scene, nil
}

// Validate checks block references. Colliders are static, so moving blocks
// must not collide.
func (s *Scene) Validate() error {
	names := make(map[string]bool, len(s.Blocks))
	for _, b := range s.Blocks {
		if b.Name != "" {
			if names[b.Name] {
				return fmt.Errorf("duplicate block %q", b.Name)
			}
			names[b.Name] = true
		}
	}
	for i, b := range s.Blocks {
		if b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0 {
			return fmt.Errorf("block %d (%q): size must be positive", i, b.Name)
		}
		moving := b.Orbit != nil || b.Script != nil
		if moving && b.Layer != "" {
			return fmt.Errorf("block %d (%q): moving blocks cannot collide", i, b.Name)
		}
		if b.Orbit != nil && !names[b.Orbit.Pivot] {
			return fmt.Errorf("block %d (%q): unknown orbit pivot %q", i, b.Name, b.Orbit.Pivot)
		}
		if b.Script != nil && b.Script.Name == "" {
			return fmt.Errorf("block %d (%q): script has no name", i, b.Name)
		}
	}
	return nil
}
