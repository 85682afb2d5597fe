package world

import (
	"terrainwalk/internal/render"
	"terrainwalk/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkMesh is the sampled surface of one chunk: a (segments+1)^2 vertex
// grid in world space with per-vertex biome data and triangle lists split by
// material class.
type ChunkMesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Heights   []float32
	BiomeMask []float32
	Mountain  []bool

	All           []uint32
	GroundIndices []uint32
	RockIndices   []uint32
}

// BuildMesh samples the heightfield at every grid vertex of coord.
func BuildMesh(gen *terrain.Generator, coord ChunkCoord, size float64, segments int) *ChunkMesh {
	segments = max(segments, 1)
	row := segments + 1
	n := row * row
	step := size / float64(segments)
	ox, oz := coord.Origin(size)

	m := &ChunkMesh{
		Positions: make([]mgl32.Vec3, n),
		Normals:   make([]mgl32.Vec3, n),
		Heights:   make([]float32, n),
		BiomeMask: make([]float32, n),
		Mountain:  make([]bool, n),
		All:       make([]uint32, 0, segments*segments*6),
	}

	for j := 0; j < row; j++ {
		z := oz + float64(j)*step
		for i := 0; i < row; i++ {
			x := ox + float64(i)*step
			s := gen.Sample(x, z)
			v := j*row + i
			m.Positions[v] = mgl32.Vec3{float32(x), float32(s.Height), float32(z)}
			m.Normals[v] = gen.Normal(x, z, step)
			m.Heights[v] = float32(s.Height)
			m.BiomeMask[v] = float32(s.BiomeMask)
			m.Mountain[v] = s.IsMountainous
		}
	}

	for j := 0; j < segments; j++ {
		for i := 0; i < segments; i++ {
			a := uint32(j*row + i)
			b := a + 1
			c := a + uint32(row)
			d := c + 1
			m.addTriangle(a, c, b)
			m.addTriangle(b, c, d)
		}
	}
	return m
}

// addTriangle files the triangle under the material most of its vertices
// belong to.
func (m *ChunkMesh) addTriangle(a, b, c uint32) {
	m.All = append(m.All, a, b, c)
	votes := 0
	for _, v := range [3]uint32{a, b, c} {
		if m.Mountain[v] {
			votes++
		}
	}
	if votes >= 2 {
		m.RockIndices = append(m.RockIndices, a, b, c)
	} else {
		m.GroundIndices = append(m.GroundIndices, a, b, c)
	}
}

// Geometries returns the render geometry for the chunk: one ground and one
// mountain mesh when split (empty classes are omitted), otherwise a single
// blended mesh.
func (m *ChunkMesh) Geometries(split bool) []render.Geometry {
	base := render.Geometry{
		Positions: m.Positions,
		Normals:   m.Normals,
		Heights:   m.Heights,
		BiomeMask: m.BiomeMask,
	}
	if !split {
		g := base
		g.Indices = m.All
		g.Material = render.MaterialBlended
		return []render.Geometry{g}
	}

	var out []render.Geometry
	if len(m.GroundIndices) > 0 {
		g := base
		g.Indices = m.GroundIndices
		g.Material = render.MaterialGround
		out = append(out, g)
	}
	if len(m.RockIndices) > 0 {
		g := base
		g.Indices = m.RockIndices
		g.Material = render.MaterialMountain
		out = append(out, g)
	}
	return out
}
