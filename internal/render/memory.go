package render

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAllocation is returned by MemoryBridge when failure injection fires.
var ErrAllocation = errors.New("render: allocation failed")

// Fade is the last opacity/visibility pushed for an instance batch.
type Fade struct {
	Opacity float32
	Visible bool
}

type memoryObject struct {
	name      string
	geometry  *Geometry
	instances []Transform
	fade      Fade
}

// MemoryBridge keeps renderer objects in maps. It backs the headless
// simulator and the tests; nothing is drawn.
type MemoryBridge struct {
	next      Handle
	objects   map[Handle]*memoryObject
	uniforms  map[string]any
	created   int
	removed   int
	disposals int

	// FailGeometry, when set, is consulted before every allocation; a
	// non-nil return aborts it.
	FailGeometry func(name string) error
}

func NewMemoryBridge() *MemoryBridge {
	return &MemoryBridge{
		objects:  make(map[Handle]*memoryObject),
		uniforms: make(map[string]any),
	}
}

func (m *MemoryBridge) alloc(name string) (Handle, error) {
	if m.FailGeometry != nil {
		if err := m.FailGeometry(name); err != nil {
			return 0, fmt.Errorf("allocate %s: %w", name, err)
		}
	}
	m.next++
	m.created++
	return m.next, nil
}

func (m *MemoryBridge) AddChunkGeometry(name string, g Geometry) (Handle, error) {
	if len(g.Indices)%3 != 0 {
		return 0, fmt.Errorf("geometry %s: index count %d is not a multiple of 3", name, len(g.Indices))
	}
	h, err := m.alloc(name)
	if err != nil {
		return 0, err
	}
	m.objects[h] = &memoryObject{name: name, geometry: &g}
	return h, nil
}

func (m *MemoryBridge) AddInstancedVegetation(name string, transforms []Transform) (Handle, error) {
	h, err := m.alloc(name)
	if err != nil {
		return 0, err
	}
	m.objects[h] = &memoryObject{name: name, instances: transforms, fade: Fade{Opacity: 1, Visible: true}}
	return h, nil
}

func (m *MemoryBridge) RemoveGeometry(h Handle) {
	m.remove(h)
}

func (m *MemoryBridge) RemoveInstances(h Handle) {
	m.remove(h)
}

func (m *MemoryBridge) remove(h Handle) {
	if _, ok := m.objects[h]; ok {
		delete(m.objects, h)
		m.removed++
	}
}

func (m *MemoryBridge) SetInstanceFade(h Handle, opacity float32, visible bool) {
	if o, ok := m.objects[h]; ok && o.geometry == nil {
		o.fade = Fade{Opacity: opacity, Visible: visible}
	}
}

func (m *MemoryBridge) SetUniform(name string, value any) {
	m.uniforms[name] = value
}

func (m *MemoryBridge) DisposeAll() {
	m.removed += len(m.objects)
	m.objects = make(map[Handle]*memoryObject)
	m.disposals++
}

// Live returns the number of handles not yet removed.
func (m *MemoryBridge) Live() int {
	return len(m.objects)
}

// Counts returns how many handles were ever created and removed.
func (m *MemoryBridge) Counts() (created, removed int) {
	return m.created, m.removed
}

// Names returns the names of live objects, sorted.
func (m *MemoryBridge) Names() []string {
	names := make([]string, 0, len(m.objects))
	for _, o := range m.objects {
		names = append(names, o.name)
	}
	sort.Strings(names)
	return names
}

// Geometry returns the mesh behind h, if h is a live geometry handle.
func (m *MemoryBridge) Geometry(h Handle) (Geometry, bool) {
	o, ok := m.objects[h]
	if !ok || o.geometry == nil {
		return Geometry{}, false
	}
	return *o.geometry, true
}

// Instances returns the transforms behind h.
func (m *MemoryBridge) Instances(h Handle) ([]Transform, bool) {
	o, ok := m.objects[h]
	if !ok || o.geometry != nil {
		return nil, false
	}
	return o.instances, true
}

// FadeOf returns the last fade pushed for h.
func (m *MemoryBridge) FadeOf(h Handle) (Fade, bool) {
	o, ok := m.objects[h]
	if !ok || o.geometry != nil {
		return Fade{}, false
	}
	return o.fade, true
}

// Uniform returns the last value pushed for name.
func (m *MemoryBridge) Uniform(name string) (any, bool) {
	v, ok := m.uniforms[name]
	return v, ok
}

// Disposals counts DisposeAll calls.
func (m *MemoryBridge) Disposals() int {
	return m.disposals
}
