package component

import (
	"fmt"
	"strings"
)

// Layer is a collision layer bit. Masks are ORed layers.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerGround
	LayerWall
	LayerJumpPlatform
	LayerFinish
)

// LayerAll matches every layer.
const LayerAll Layer = ^Layer(0)

var layerNames = map[string]Layer{
	"default":       LayerDefault,
	"ground":        LayerGround,
	"wall":          LayerWall,
	"jump_platform": LayerJumpPlatform,
	"finish":        LayerFinish,
}

// ParseLayer maps a layer name (as authored in prefabs and levels) to its bit.
func ParseLayer(name string) (Layer, error) {
	l, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown layer %q", name)
	}
	return l, nil
}

// ParseMask ORs a list of layer names. An empty list yields a zero mask.
func ParseMask(names []string) (Layer, error) {
	var mask Layer
	for _, name := range names {
		l, err := ParseLayer(name)
		if err != nil {
			return 0, err
		}
		mask |= l
	}
	return mask, nil
}

// In reports whether l is part of mask.
func (l Layer) In(mask Layer) bool {
	return l&mask != 0
}

func (l Layer) String() string {
	for name, bit := range layerNames {
		if bit == l {
			return name
		}
	}
	return fmt.Sprintf("layer(%#x)", uint32(l))
}
