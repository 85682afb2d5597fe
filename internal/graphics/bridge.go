package graphics

import (
	"errors"
	"fmt"
	"log/slog"

	"terrainwalk/internal/profiling"
	"terrainwalk/internal/render"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrOutOfMemory is returned when the driver reports GL_OUT_OF_MEMORY while
// uploading geometry.
var ErrOutOfMemory = errors.New("graphics: out of GPU memory")

const (
	terrainStride  = 8 * 4  // position, normal, height, biome
	instanceStride = 16 * 4 // model matrix
)

// grassBlade is a unit quad standing on the origin: position xyz, uv.
var grassBlade = []float32{
	-0.5, 0.0, 0.0, 0.0, 1.0,
	0.5, 0.0, 0.0, 1.0, 1.0,
	0.5, 1.0, 0.0, 1.0, 0.0,
	-0.5, 0.0, 0.0, 0.0, 1.0,
	0.5, 1.0, 0.0, 1.0, 0.0,
	-0.5, 1.0, 0.0, 0.0, 0.0,
}

var crosshairVertices = []float32{
	-0.02, 0.0,
	0.02, 0.0,
	0.0, -0.02,
	0.0, 0.02,
}

type terrainMesh struct {
	name       string
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	material   render.MaterialClass
}

type grassBatch struct {
	name        string
	vao         uint32
	instanceVBO uint32
	count       int32
	opacity     float32
	visible     bool
}

// DrawStats counts what the last Draw submitted.
type DrawStats struct {
	Meshes      int
	Batches     int
	Instances   int
	HiddenGrass int
}

// GLBridge implements render.Bridge on OpenGL 4.1 core. All calls must come
// from the goroutine that owns the GL context.
type GLBridge struct {
	terrainShader   *Shader
	grassShader     *Shader
	crosshairShader *Shader
	textures        *TextureCache
	camera          *Camera

	bladeVBO     uint32
	crosshairVAO uint32
	crosshairVBO uint32

	next     render.Handle
	meshes   map[render.Handle]*terrainMesh
	batches  map[render.Handle]*grassBatch
	uniforms map[string]any

	wireframe bool
	fogFar    float32
	stats     DrawStats

	log  *slog.Logger
	prof *profiling.Profiler
}

// GLOptions configures a GLBridge.
type GLOptions struct {
	TextureDir string
	Width      int
	Height     int
	FOV        float32
	// FogDistance is where terrain fully fades into the sky.
	FogDistance float32

	Logger   *slog.Logger
	Profiler *profiling.Profiler
}

// NewGLBridge compiles the shaders and shared buffers. gl.Init must have run.
func NewGLBridge(opts GLOptions) (*GLBridge, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "gl")

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	terrainShader, err := LoadShader("terrain")
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	grassShader, err := LoadShader("grass")
	if err != nil {
		terrainShader.Delete()
		return nil, fmt.Errorf("grass shader: %w", err)
	}
	crosshairShader, err := LoadShader("crosshair")
	if err != nil {
		terrainShader.Delete()
		grassShader.Delete()
		return nil, fmt.Errorf("crosshair shader: %w", err)
	}

	fog := opts.FogDistance
	if fog <= 0 {
		fog = 300
	}
	b := &GLBridge{
		terrainShader:   terrainShader,
		grassShader:     grassShader,
		crosshairShader: crosshairShader,
		textures:        NewTextureCache(opts.TextureDir, log),
		camera:          NewCamera(opts.Width, opts.Height, opts.FOV, fog*1.5),
		meshes:          make(map[render.Handle]*terrainMesh),
		batches:         make(map[render.Handle]*grassBatch),
		uniforms:        make(map[string]any),
		fogFar:          fog,
		log:             log,
		prof:            opts.Profiler,
	}

	gl.GenBuffers(1, &b.bladeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.bladeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(grassBlade)*4, gl.Ptr(grassBlade), gl.STATIC_DRAW)
	b.setupCrosshairVAO()
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b, nil
}

func (b *GLBridge) setupCrosshairVAO() {
	gl.GenVertexArrays(1, &b.crosshairVAO)
	gl.BindVertexArray(b.crosshairVAO)

	gl.GenBuffers(1, &b.crosshairVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.crosshairVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(crosshairVertices)*4, gl.Ptr(crosshairVertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindVertexArray(0)
}

// Camera exposes the projection settings.
func (b *GLBridge) Camera() *Camera {
	return b.camera
}

// SetWireframe toggles line rendering for terrain.
func (b *GLBridge) SetWireframe(on bool) {
	b.wireframe = on
}

func (b *GLBridge) Wireframe() bool {
	return b.wireframe
}

// Stats returns counters from the last Draw.
func (b *GLBridge) Stats() DrawStats {
	return b.stats
}

// checkUpload drains the GL error queue and maps the first error.
func checkUpload(name string) error {
	var first uint32
	for e := gl.GetError(); e != gl.NO_ERROR; e = gl.GetError() {
		if first == 0 {
			first = e
		}
	}
	switch first {
	case 0:
		return nil
	case gl.OUT_OF_MEMORY:
		return fmt.Errorf("upload %s: %w", name, ErrOutOfMemory)
	default:
		return fmt.Errorf("upload %s: gl error 0x%x", name, first)
	}
}

func (b *GLBridge) AddChunkGeometry(name string, g render.Geometry) (render.Handle, error) {
	defer b.prof.Track("gl.AddChunkGeometry")()
	if len(g.Indices)%3 != 0 {
		return 0, fmt.Errorf("geometry %s: index count %d is not a multiple of 3", name, len(g.Indices))
	}
	n := len(g.Positions)
	if len(g.Normals) != n || len(g.Heights) != n || len(g.BiomeMask) != n {
		return 0, fmt.Errorf("geometry %s: attribute lengths differ", name)
	}

	// Prime the terrain textures with the first mesh.
	b.textures.Get(GroundTexture)
	b.textures.Get(RockTexture)

	vertices := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		p, nm := g.Positions[i], g.Normals[i]
		vertices = append(vertices, p[0], p[1], p[2], nm[0], nm[1], nm[2], g.Heights[i], g.BiomeMask[i])
	}

	m := &terrainMesh{name: name, indexCount: int32(len(g.Indices)), material: g.Material}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)
	if m.vao == 0 || m.vbo == 0 || m.ebo == 0 {
		b.deleteMesh(m)
		return 0, fmt.Errorf("geometry %s: %w", name, ErrOutOfMemory)
	}

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(g.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)
	}

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, terrainStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, terrainStride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 1, gl.FLOAT, false, terrainStride, 6*4)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, terrainStride, 7*4)
	gl.BindVertexArray(0)

	if err := checkUpload(name); err != nil {
		b.deleteMesh(m)
		return 0, err
	}

	b.next++
	b.meshes[b.next] = m
	return b.next, nil
}

func (b *GLBridge) AddInstancedVegetation(name string, transforms []render.Transform) (render.Handle, error) {
	defer b.prof.Track("gl.AddInstancedVegetation")()
	b.textures.Get(GrassTexture)

	data := make([]float32, 0, len(transforms)*16)
	for _, t := range transforms {
		m := t.Matrix()
		data = append(data, m[:]...)
	}

	batch := &grassBatch{name: name, count: int32(len(transforms)), opacity: 1, visible: true}
	gl.GenVertexArrays(1, &batch.vao)
	gl.GenBuffers(1, &batch.instanceVBO)
	if batch.vao == 0 || batch.instanceVBO == 0 {
		b.deleteBatch(batch)
		return 0, fmt.Errorf("vegetation %s: %w", name, ErrOutOfMemory)
	}

	gl.BindVertexArray(batch.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.bladeVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)

	// Instance buffer: one mat4 spread over four attribute slots
	gl.BindBuffer(gl.ARRAY_BUFFER, batch.instanceVBO)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	for col := uint32(0); col < 4; col++ {
		loc := 2 + col
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, instanceStride, uintptr(col*16))
		gl.VertexAttribDivisor(loc, 1)
	}
	gl.BindVertexArray(0)

	if err := checkUpload(name); err != nil {
		b.deleteBatch(batch)
		return 0, err
	}

	b.next++
	b.batches[b.next] = batch
	return b.next, nil
}

func (b *GLBridge) deleteMesh(m *terrainMesh) {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

func (b *GLBridge) deleteBatch(batch *grassBatch) {
	gl.DeleteVertexArrays(1, &batch.vao)
	gl.DeleteBuffers(1, &batch.instanceVBO)
}

func (b *GLBridge) RemoveGeometry(h render.Handle) {
	if m, ok := b.meshes[h]; ok {
		b.deleteMesh(m)
		delete(b.meshes, h)
	}
}

func (b *GLBridge) RemoveInstances(h render.Handle) {
	if batch, ok := b.batches[h]; ok {
		b.deleteBatch(batch)
		delete(b.batches, h)
	}
}

func (b *GLBridge) SetInstanceFade(h render.Handle, opacity float32, visible bool) {
	if batch, ok := b.batches[h]; ok {
		batch.opacity = opacity
		batch.visible = visible
	}
}

// SetUniform stores a value that is applied to every program on Draw.
func (b *GLBridge) SetUniform(name string, value any) {
	b.uniforms[name] = value
}

// DisposeAll releases every mesh, batch and texture. Shaders survive until
// Close.
func (b *GLBridge) DisposeAll() {
	for h := range b.meshes {
		b.RemoveGeometry(h)
	}
	for h := range b.batches {
		b.RemoveInstances(h)
	}
	b.textures.Release()
}

// Close releases everything including the shader programs.
func (b *GLBridge) Close() {
	b.DisposeAll()
	gl.DeleteBuffers(1, &b.bladeVBO)
	gl.DeleteVertexArrays(1, &b.crosshairVAO)
	gl.DeleteBuffers(1, &b.crosshairVBO)
	b.terrainShader.Delete()
	b.grassShader.Delete()
	b.crosshairShader.Delete()
}

func (b *GLBridge) applyUniforms(s *Shader) {
	for name, v := range b.uniforms {
		if !s.SetValue(name, v) {
			b.log.Warn("unsupported uniform type", "name", name, "type", fmt.Sprintf("%T", v))
			delete(b.uniforms, name)
		}
	}
}

// Draw renders terrain, then grass, then the crosshair.
func (b *GLBridge) Draw(view mgl32.Mat4) {
	defer b.prof.Track("gl.Draw")()
	b.stats = DrawStats{}
	projection := b.camera.GetProjectionMatrix()

	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	b.drawTerrain(view, projection)
	b.drawGrass(view, projection)
	b.drawCrosshair()
}

func (b *GLBridge) drawTerrain(view, projection mgl32.Mat4) {
	s := b.terrainShader
	s.Use()
	b.applyUniforms(s)
	s.SetMatrix4("view", &view[0])
	s.SetMatrix4("projection", &projection[0])
	s.SetFloat("fogDistance", b.fogFar)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.textures.Get(GroundTexture))
	s.SetInt("groundTex", 0)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, b.textures.Get(RockTexture))
	s.SetInt("rockTex", 1)

	if b.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	for _, m := range b.meshes {
		if m.indexCount == 0 {
			continue
		}
		s.SetInt("materialClass", int32(m.material))
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
		b.stats.Meshes++
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.BindVertexArray(0)
}

func (b *GLBridge) drawGrass(view, projection mgl32.Mat4) {
	s := b.grassShader
	s.Use()
	b.applyUniforms(s)
	s.SetMatrix4("view", &view[0])
	s.SetMatrix4("projection", &projection[0])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.textures.Get(GrassTexture))
	s.SetInt("grassTex", 0)

	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	for _, batch := range b.batches {
		if !batch.visible || batch.count == 0 {
			b.stats.HiddenGrass++
			continue
		}
		s.SetFloat("opacity", batch.opacity)
		gl.BindVertexArray(batch.vao)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(len(grassBlade)/5), batch.count)
		b.stats.Batches++
		b.stats.Instances += int(batch.count)
	}
	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
	gl.BindVertexArray(0)
}

func (b *GLBridge) drawCrosshair() {
	gl.Disable(gl.DEPTH_TEST)
	b.crosshairShader.Use()
	b.crosshairShader.SetFloat("aspect", b.camera.AspectRatio)
	gl.BindVertexArray(b.crosshairVAO)
	gl.DrawArrays(gl.LINES, 0, 4)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

var _ render.Bridge = (*GLBridge)(nil)
