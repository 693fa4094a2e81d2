// Package renderer draws the voxel world with OpenGL. Everything in
// this package must run on the GL thread.
package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/minefocado/minefocado/internal/engine/camera"
	"github.com/minefocado/minefocado/internal/engine/shader"
	"github.com/minefocado/minefocado/internal/world"
	"github.com/minefocado/minefocado/internal/world/chunk"
)

// Sky and light constants, shared by the clear color and the fog-less
// horizon look.
var (
	skyColor = [4]float32{0.53, 0.81, 0.92, 1.0}
	lightDir = mgl32.Vec3{-0.5, -1.0, -0.3}
)

const ambientStrength = 0.45

// Renderer owns the chunk shader program and the block texture atlas.
// It doubles as the mesh factory handed to the world: workers produce
// neutral payloads and the GL thread turns them into ChunkMesh buffers.
type Renderer struct {
	program uint32
	atlas   uint32

	uniProjection int32
	uniView       int32
	uniModel      int32
	uniLightDir   int32
	uniAmbient    int32
}

// New compiles the chunk shader and builds the atlas texture. Requires
// a current GL context.
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	program, err := shader.CompileProgram(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling chunk shader: %w", err)
	}

	r := &Renderer{
		program:       program,
		atlas:         uploadAtlasTexture(),
		uniProjection: shader.MustGetUniform(program, "projection"),
		uniView:       shader.MustGetUniform(program, "view"),
		uniModel:      shader.MustGetUniform(program, "model"),
		uniLightDir:   shader.MustGetUniform(program, "lightDir"),
		uniAmbient:    shader.MustGetUniform(program, "ambientStrength"),
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(skyColor[0], skyColor[1], skyColor[2], skyColor[3])

	return r, nil
}

// CreateMesh uploads a worker-produced mesh payload to the GPU. It
// satisfies the world's mesh factory interface.
func (r *Renderer) CreateMesh(d *chunk.MeshData) (chunk.Mesh, error) {
	return newChunkMesh(d)
}

// BeginFrame clears the framebuffer.
func (r *Renderer) BeginFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Resize updates the GL viewport.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// RenderWorld draws every chunk that has a GPU mesh and sits inside the
// render distance around the camera.
func (r *Renderer) RenderWorld(w *world.World, cam *camera.Camera) {
	gl.UseProgram(r.program)

	shader.SetMat4(r.uniProjection, cam.ProjectionMatrix())
	shader.SetMat4(r.uniView, cam.ViewMatrix())
	shader.SetVec3(r.uniLightDir, lightDir)
	gl.Uniform1f(r.uniAmbient, ambientStrength)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)

	// Arithmetic shift floors toward negative infinity, matching the
	// world's own chunk coordinate math.
	camChunkX := int(math.Floor(float64(cam.Position.X()))) >> 4
	camChunkZ := int(math.Floor(float64(cam.Position.Z()))) >> 4
	dist := w.RenderDistance()

	w.ForEachReady(func(pos chunk.Pos, mesh chunk.Mesh) {
		dx, dz := pos.X-camChunkX, pos.Z-camChunkZ
		if dx < -dist || dx > dist || dz < -dist || dz > dist {
			return
		}
		cm, ok := mesh.(*ChunkMesh)
		if !ok {
			return
		}
		model := mgl32.Translate3D(float32(pos.WorldX()), 0, float32(pos.WorldZ()))
		shader.SetMat4(r.uniModel, model)
		cm.Draw()
	})

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// Close releases the shader program and atlas texture.
func (r *Renderer) Close() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	if r.atlas != 0 {
		gl.DeleteTextures(1, &r.atlas)
		r.atlas = 0
	}
}
