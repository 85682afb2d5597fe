package render

import "sort"

// Uniform names understood by the terrain and grass materials.
const (
	UniformCameraPosition    = "cameraPosition"
	UniformTime              = "time"
	UniformMinRockHeight     = "minRockHeight"
	UniformMaxRockHeight     = "maxRockHeight"
	UniformBiomeThreshold    = "biomeThreshold"
	UniformGrassFadeStart    = "grassFadeStart"
	UniformGrassLoadDistance = "grassLoadDistance"
)

// Uniforms is a live, named uniform set. Values written with Set are pushed
// to a Bridge on the next Flush.
type Uniforms struct {
	values map[string]any
	dirty  map[string]struct{}
}

func NewUniforms() *Uniforms {
	return &Uniforms{
		values: make(map[string]any),
		dirty:  make(map[string]struct{}),
	}
}

func (u *Uniforms) Set(name string, value any) {
	u.values[name] = value
	u.dirty[name] = struct{}{}
}

func (u *Uniforms) Get(name string) (any, bool) {
	v, ok := u.values[name]
	return v, ok
}

// Names returns all uniform names in sorted order.
func (u *Uniforms) Names() []string {
	names := make([]string, 0, len(u.values))
	for n := range u.values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dirty reports how many values are waiting for Flush.
func (u *Uniforms) Dirty() int {
	return len(u.dirty)
}

// Flush pushes changed values to b and returns how many were sent.
func (u *Uniforms) Flush(b Bridge) int {
	if len(u.dirty) == 0 {
		return 0
	}
	names := make([]string, 0, len(u.dirty))
	for n := range u.dirty {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		b.SetUniform(n, u.values[n])
		delete(u.dirty, n)
	}
	return len(names)
}
