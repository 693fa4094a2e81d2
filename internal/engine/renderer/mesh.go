package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/minefocado/minefocado/internal/world/chunk"
)

// ChunkMesh holds the GPU buffers for one chunk. Create, Draw and
// Release must all happen on the GL thread.
type ChunkMesh struct {
	vao        uint32
	vbos       [3]uint32 // positions, normals, texcoords
	ebo        uint32
	indexCount int32
}

// newChunkMesh uploads a mesh payload into fresh GPU buffers.
func newChunkMesh(d *chunk.MeshData) (*ChunkMesh, error) {
	if d.Empty() {
		return nil, fmt.Errorf("chunk %d,%d: empty mesh payload", d.Pos.X, d.Pos.Z)
	}

	m := &ChunkMesh{indexCount: int32(len(d.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(3, &m.vbos[0])

	// Attribute 0: position, vec3
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(d.Positions)*4, gl.Ptr(d.Positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)

	// Attribute 1: normal, vec3
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[1])
	gl.BufferData(gl.ARRAY_BUFFER, len(d.Normals)*4, gl.Ptr(d.Normals), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 0, nil)

	// Attribute 2: texture coordinate, vec2
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[2])
	gl.BufferData(gl.ARRAY_BUFFER, len(d.TexCoords)*4, gl.Ptr(d.TexCoords), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, 0, nil)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Indices)*4, gl.Ptr(d.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	return m, nil
}

// Draw renders the mesh. The caller binds the program, uniforms and
// texture first.
func (m *ChunkMesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Release frees the GPU buffers. GL thread only.
func (m *ChunkMesh) Release() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	gl.DeleteBuffers(3, &m.vbos[0])
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	m.indexCount = 0
}
