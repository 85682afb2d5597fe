package world

import (
	"errors"
	"math/rand"
	"testing"
)

func TestChunkStoreRejectsDuplicates(t *testing.T) {
	cs := NewChunkStore()
	if err := cs.Add(NewChunk(ChunkCoord{1, 2}, 100, 4)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := cs.Add(NewChunk(ChunkCoord{1, 2}, 100, 4))
	if !errors.Is(err, ErrDuplicateChunk) {
		t.Fatalf("expected ErrDuplicateChunk, got %v", err)
	}
	if cs.Len() != 1 {
		t.Errorf("Len = %d, want 1", cs.Len())
	}
}

// TestChunkStoreRandomOps applies random add/remove sequences and checks
// the store never reports two chunks for one coord.
func TestChunkStoreRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cs := NewChunkStore()
	model := make(map[ChunkCoord]bool)

	for i := 0; i < 2000; i++ {
		c := ChunkCoord{rng.Intn(7) - 3, rng.Intn(7) - 3}
		if rng.Intn(2) == 0 {
			err := cs.Add(NewChunk(c, 100, 2))
			if model[c] != (err != nil) {
				t.Fatalf("op %d: add %v err=%v, model has=%v", i, c, err, model[c])
			}
			model[c] = true
		} else {
			_, ok := cs.Remove(c)
			if ok != model[c] {
				t.Fatalf("op %d: remove %v ok=%v, model has=%v", i, c, ok, model[c])
			}
			delete(model, c)
		}
	}

	coords := cs.Coords()
	if len(coords) != len(model) {
		t.Fatalf("store has %d coords, model %d", len(coords), len(model))
	}
	seen := make(map[ChunkCoord]bool)
	for _, c := range coords {
		if seen[c] {
			t.Fatalf("coord %v listed twice", c)
		}
		seen[c] = true
	}
}

func TestChunkStoreModCountAndOutside(t *testing.T) {
	cs := NewChunkStore()
	for _, c := range KeepSet(ChunkCoord{}, 2) {
		_ = cs.Add(NewChunk(c, 100, 2))
	}
	if cs.ModCount() != 25 {
		t.Errorf("ModCount = %d, want 25", cs.ModCount())
	}
	outside := cs.CoordsOutside(ChunkCoord{1, 0}, 2)
	// column x=-2 falls out when the centre moves to x=1
	if len(outside) != 5 {
		t.Fatalf("CoordsOutside = %v, want 5 coords", outside)
	}
	for _, c := range outside {
		if c.X != -2 {
			t.Errorf("unexpected outside coord %v", c)
		}
	}
	before := cs.ModCount()
	if _, ok := cs.Remove(ChunkCoord{9, 9}); ok {
		t.Errorf("removing a missing coord should report false")
	}
	if cs.ModCount() != before {
		t.Errorf("failed remove must not bump ModCount")
	}
}
