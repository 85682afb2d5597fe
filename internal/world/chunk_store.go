package world

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateChunk is returned when adding a coord that is already stored.
var ErrDuplicateChunk = errors.New("world: chunk already stored")

// ChunkStore maps chunk coordinates to live chunks. It is owned by a single
// tick loop and does no locking.
type ChunkStore struct {
	chunks   map[ChunkCoord]*Chunk
	modCount uint64 // increases on any add/remove
}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkCoord]*Chunk),
	}
}

// Get returns the chunk at coord, if loaded.
func (cs *ChunkStore) Get(coord ChunkCoord) (*Chunk, bool) {
	c, ok := cs.chunks[coord]
	return c, ok
}

func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	_, ok := cs.chunks[coord]
	return ok
}

// Add stores a fully built chunk. A coord never maps to two chunks.
func (cs *ChunkStore) Add(c *Chunk) error {
	if c == nil {
		return fmt.Errorf("world: add nil chunk")
	}
	if _, ok := cs.chunks[c.Coord]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateChunk, c.Coord)
	}
	cs.chunks[c.Coord] = c
	cs.modCount++
	return nil
}

// Remove drops coord from the store and returns the removed chunk.
func (cs *ChunkStore) Remove(coord ChunkCoord) (*Chunk, bool) {
	c, ok := cs.chunks[coord]
	if !ok {
		return nil, false
	}
	delete(cs.chunks, coord)
	cs.modCount++
	return c, true
}

func (cs *ChunkStore) Len() int {
	return len(cs.chunks)
}

// ModCount returns a counter that changes whenever the chunk set changes.
func (cs *ChunkStore) ModCount() uint64 {
	return cs.modCount
}

// Coords returns every stored coord sorted by X then Z.
func (cs *ChunkStore) Coords() []ChunkCoord {
	out := make([]ChunkCoord, 0, len(cs.chunks))
	for c := range cs.chunks {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

// All returns every stored chunk in Coords order.
func (cs *ChunkStore) All() []*Chunk {
	coords := cs.Coords()
	out := make([]*Chunk, len(coords))
	for i, c := range coords {
		out[i] = cs.chunks[c]
	}
	return out
}

// CoordsOutside returns the stored coords farther than radius (Chebyshev)
// from center.
func (cs *ChunkStore) CoordsOutside(center ChunkCoord, radius int) []ChunkCoord {
	var out []ChunkCoord
	for c := range cs.chunks {
		if c.Chebyshev(center) > radius {
			out = append(out, c)
		}
	}
	sortCoords(out)
	return out
}

func sortCoords(cs []ChunkCoord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Z < cs[j].Z
	})
}
