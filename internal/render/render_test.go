package render

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestObjectNames(t *testing.T) {
	if got := TerrainName(-3, 7); got != "terrainChunk_-3,7" {
		t.Errorf("TerrainName = %q", got)
	}
	if got := VegetationName(0, -1); got != "grassChunk_0,-1" {
		t.Errorf("VegetationName = %q", got)
	}
}

func TestMemoryBridgeLifecycle(t *testing.T) {
	b := NewMemoryBridge()
	g, err := b.AddChunkGeometry("terrainChunk_0,0", Geometry{Indices: []uint32{0, 1, 2}})
	if err != nil {
		t.Fatalf("add geometry: %v", err)
	}
	v, err := b.AddInstancedVegetation("grassChunk_0,0", []Transform{{Scale: 1}})
	if err != nil {
		t.Fatalf("add vegetation: %v", err)
	}
	if g == 0 || v == 0 || g == v {
		t.Fatalf("handles must be distinct and non-zero: %d %d", g, v)
	}
	if b.Live() != 2 {
		t.Fatalf("Live = %d, want 2", b.Live())
	}

	b.SetInstanceFade(v, 0.25, true)
	if f, _ := b.FadeOf(v); f.Opacity != 0.25 || !f.Visible {
		t.Errorf("fade = %+v", f)
	}

	b.RemoveInstances(v)
	b.RemoveGeometry(g)
	b.RemoveGeometry(g) // double remove is a no-op
	created, removed := b.Counts()
	if b.Live() != 0 || created != 2 || removed != 2 {
		t.Errorf("after removal live=%d created=%d removed=%d", b.Live(), created, removed)
	}
}

func TestMemoryBridgeRejectsBadIndices(t *testing.T) {
	b := NewMemoryBridge()
	if _, err := b.AddChunkGeometry("x", Geometry{Indices: []uint32{0, 1}}); err == nil {
		t.Fatal("expected error for partial triangle")
	}
}

func TestMemoryBridgeFailureInjection(t *testing.T) {
	b := NewMemoryBridge()
	b.FailGeometry = func(string) error { return ErrAllocation }
	if _, err := b.AddChunkGeometry("x", Geometry{}); !errors.Is(err, ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
	if b.Live() != 0 {
		t.Errorf("failed allocation must not leave a live handle")
	}
}

func TestUniformsFlush(t *testing.T) {
	b := NewMemoryBridge()
	u := NewUniforms()
	u.Set(UniformTime, float32(1))
	u.Set(UniformCameraPosition, mgl32.Vec3{1, 2, 3})
	if n := u.Flush(b); n != 2 {
		t.Fatalf("first flush sent %d, want 2", n)
	}
	if n := u.Flush(b); n != 0 {
		t.Fatalf("second flush sent %d, want 0", n)
	}
	u.Set(UniformTime, float32(2))
	u.Flush(b)
	if v, _ := b.Uniform(UniformTime); v != float32(2) {
		t.Errorf("time uniform = %v, want 2", v)
	}
	if names := u.Names(); len(names) != 2 || names[0] != UniformCameraPosition {
		t.Errorf("Names = %v", names)
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{Position: mgl32.Vec3{10, 2, -4}, Yaw: math.Pi / 2, Scale: 2}
	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	// +X rotated a quarter turn about Y lands on -Z, scaled by 2.
	want := mgl32.Vec4{10, 2, -6, 1}
	if !p.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("transformed point = %v, want %v", p, want)
	}
}
