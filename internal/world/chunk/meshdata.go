package chunk

// MeshData is graphics-API-neutral chunk geometry: flat vertex attribute
// arrays plus a triangle index list. It is produced by the mesh compiler
// on any worker goroutine and consumed exactly once by the GL thread,
// which turns it into a GPU mesh.
type MeshData struct {
	Pos Pos

	Positions []float32 // 3 floats per vertex, chunk-local coordinates
	Normals   []float32 // 3 floats per vertex
	TexCoords []float32 // 2 floats per vertex
	Indices   []uint32  // 3 indices per triangle
}

// Empty reports whether the chunk produced no visible faces. The GL
// thread skips GPU object creation for empty payloads.
func (d *MeshData) Empty() bool {
	return len(d.Indices) == 0
}

// VertexCount returns the number of vertices in the payload.
func (d *MeshData) VertexCount() int {
	return len(d.Positions) / 3
}
