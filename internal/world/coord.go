package world

import (
	"fmt"
	"math"
)

// ChunkCoord addresses a square terrain tile on the XZ plane.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Z)
}

// CoordAt returns the chunk containing world position (x, z).
func CoordAt(x, z, chunkSize float64) ChunkCoord {
	return ChunkCoord{
		X: int(math.Floor(x / chunkSize)),
		Z: int(math.Floor(z / chunkSize)),
	}
}

// Origin returns the world position of the chunk's minimum corner.
func (c ChunkCoord) Origin(chunkSize float64) (x, z float64) {
	return float64(c.X) * chunkSize, float64(c.Z) * chunkSize
}

// Center returns the world position of the chunk's centre.
func (c ChunkCoord) Center(chunkSize float64) (x, z float64) {
	ox, oz := c.Origin(chunkSize)
	return ox + chunkSize/2, oz + chunkSize/2
}

// Chebyshev returns the square-ring distance between two coords.
func (c ChunkCoord) Chebyshev(o ChunkCoord) int {
	return max(abs(c.X-o.X), abs(c.Z-o.Z))
}

// KeepSet lists every coord within Chebyshev radius of center, ring by ring
// from the centre outwards so callers that build in order build nearest
// chunks first.
func KeepSet(center ChunkCoord, radius int) []ChunkCoord {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	out := make([]ChunkCoord, 0, side*side)
	out = append(out, center)

	for r := 1; r <= radius; r++ {
		x0, x1 := center.X-r, center.X+r
		z0, z1 := center.Z-r, center.Z+r

		for x := x0; x <= x1; x++ {
			out = append(out, ChunkCoord{x, z0})
		}
		for z := z0 + 1; z <= z1-1; z++ {
			out = append(out, ChunkCoord{x1, z})
		}
		for x := x1; x >= x0; x-- {
			out = append(out, ChunkCoord{x, z1})
		}
		for z := z1 - 1; z >= z0+1; z-- {
			out = append(out, ChunkCoord{x0, z})
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
