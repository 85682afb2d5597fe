// Package render defines the boundary between the terrain core and whatever
// draws it. The core only issues create/destroy requests through Bridge and
// never touches GPU memory itself.
package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Handle identifies a renderer-side object. The zero Handle is never valid.
type Handle uint64

// MaterialClass selects the material a geometry is drawn with.
type MaterialClass int

const (
	MaterialGround MaterialClass = iota
	MaterialMountain
	MaterialBlended
)

func (m MaterialClass) String() string {
	switch m {
	case MaterialGround:
		return "ground"
	case MaterialMountain:
		return "mountain"
	case MaterialBlended:
		return "blended"
	default:
		return fmt.Sprintf("material(%d)", int(m))
	}
}

// Geometry is an indexed triangle mesh in world space. Heights and BiomeMask
// are per-vertex attributes consumed by the terrain material.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
	Heights   []float32
	BiomeMask []float32
	Material  MaterialClass
}

// Transform places one vegetation instance.
type Transform struct {
	Position mgl32.Vec3
	Yaw      float32
	Scale    float32
}

// Matrix returns the model matrix translate * rotateY * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(t.Yaw)).
		Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// Bridge is the renderer contract. Handles stay valid until explicitly
// removed; all calls happen on the render thread.
type Bridge interface {
	AddChunkGeometry(name string, g Geometry) (Handle, error)
	AddInstancedVegetation(name string, transforms []Transform) (Handle, error)
	RemoveGeometry(h Handle)
	RemoveInstances(h Handle)
	// SetInstanceFade sets vegetation opacity; visible=false skips the draw
	// call entirely.
	SetInstanceFade(h Handle, opacity float32, visible bool)
	SetUniform(name string, value any)
	DisposeAll()
}

// Object name prefixes used when registering chunk objects with a bridge.
const (
	TerrainPrefix    = "terrainChunk_"
	VegetationPrefix = "grassChunk_"
)

// TerrainName returns "terrainChunk_<cx>,<cz>".
func TerrainName(cx, cz int) string {
	return fmt.Sprintf("%s%d,%d", TerrainPrefix, cx, cz)
}

// VegetationName returns "grassChunk_<cx>,<cz>".
func VegetationName(cx, cz int) string {
	return fmt.Sprintf("%s%d,%d", VegetationPrefix, cx, cz)
}
