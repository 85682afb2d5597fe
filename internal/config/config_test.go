package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadRadius(t *testing.T) {
	s := Default().Streaming
	if r := s.LoadRadius(); r != 3 {
		t.Errorf("LoadRadius = %d, want 3", r)
	}
	s.TerrainLoadDistance = 301
	if r := s.LoadRadius(); r != 4 {
		t.Errorf("LoadRadius = %d, want 4", r)
	}
}

func TestParseOverridesSubset(t *testing.T) {
	s, err := Parse([]byte(`
world:
  seed: 99
  noise: perlin
streaming:
  max_builds_per_tick: 4
vegetation:
  deterministic: false
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.World.Seed != 99 || s.World.Noise != "perlin" {
		t.Errorf("world not overridden: %+v", s.World)
	}
	if s.Streaming.MaxBuildsPerTick != 4 {
		t.Errorf("max_builds_per_tick = %d, want 4", s.Streaming.MaxBuildsPerTick)
	}
	if s.Vegetation.Deterministic {
		t.Errorf("deterministic should be false")
	}
	// untouched fields keep defaults
	if s.Streaming.ChunkSize != ChunkSize || s.Vegetation.LoadDistance != GrassLoadDistance {
		t.Errorf("defaults lost: %+v %+v", s.Streaming, s.Vegetation)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if s != Default() {
		t.Errorf("empty document should yield defaults")
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "world:\n  sead: 1\n",
		"bad noise":       "world:\n  noise: worley\n",
		"negative chunks": "streaming:\n  chunk_segments: 0\n",
		"wrong type":      "streaming:\n  chunk_size: big\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestParseRejectsSemanticViolations(t *testing.T) {
	_, err := Parse([]byte("vegetation:\n  fade_start: 200\n  load_distance: 150\n"))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "fade_start") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s := Default()
	s.World.Seed = 4242
	s.Viewer.FPSLimit = 0
	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "terrain.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMergeKeepsExplicitFlags(t *testing.T) {
	cfg := Default()
	cfg.World.Seed = 99
	cfg.Viewer.FPSLimit = 30
	cfg.Streaming.ChunkSegments = 8 // not marked explicit, file wins

	fromFile := Default()
	fromFile.World.Seed = 7
	fromFile.World.Noise = "value"
	fromFile.Viewer.FPSLimit = 60
	fromFile.Streaming.ChunkSegments = 16
	fromFile.Vegetation.FadeStart = 120

	Merge(&cfg, fromFile, map[string]bool{FlagSeed: true, FlagFPS: true})

	if cfg.World.Seed != 99 {
		t.Errorf("seed = %d, want the flag value 99", cfg.World.Seed)
	}
	if cfg.Viewer.FPSLimit != 30 {
		t.Errorf("fps = %d, want the flag value 30", cfg.Viewer.FPSLimit)
	}
	if cfg.World.Noise != "value" {
		t.Errorf("noise = %q, want the file value", cfg.World.Noise)
	}
	if cfg.Streaming.ChunkSegments != 16 {
		t.Errorf("segments = %d, want the file value 16", cfg.Streaming.ChunkSegments)
	}
	if cfg.Vegetation.FadeStart != 120 {
		t.Errorf("fade start = %v, want the file value 120", cfg.Vegetation.FadeStart)
	}
}

func TestResolveFlagsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	doc := "world:\n  seed: 5\n  noise: perlin\nviewer:\n  fps_limit: 60\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, &cfg)
	if err := fs.Parse([]string{"-seed", "42", "-segments", "8"}); err != nil {
		t.Fatal(err)
	}
	if err := Resolve(fs, &cfg, path); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if cfg.World.Seed != 42 || cfg.Streaming.ChunkSegments != 8 {
		t.Errorf("flags lost: seed=%d segments=%d", cfg.World.Seed, cfg.Streaming.ChunkSegments)
	}
	if cfg.World.Noise != "perlin" || cfg.Viewer.FPSLimit != 60 {
		t.Errorf("file values lost: noise=%q fps=%d", cfg.World.Noise, cfg.Viewer.FPSLimit)
	}
}

func TestResolveRejectsBadFlags(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, &cfg)
	if err := fs.Parse([]string{"-grass-distance", "50"}); err != nil {
		t.Fatal(err)
	}
	// fade start 100 now lies beyond the grass load distance
	if err := Resolve(fs, &cfg, ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
