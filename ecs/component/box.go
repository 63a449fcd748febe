package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is the visual of an entity: a wireframe box centred on its Transform.
type Box struct {
	Size  mgl64.Vec3
	Color color.RGBA
}

var BoxComponent = NewComponent[Box]()
