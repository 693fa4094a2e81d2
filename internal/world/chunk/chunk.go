// Package chunk holds the fixed-size voxel grid that is the unit of
// loading, generation and meshing, plus the compiler that turns block
// data into renderable geometry.
package chunk

import "sync"

// Chunk dimensions in blocks.
const (
	Width  = 16
	Height = 256
	Depth  = 16
	Volume = Width * Height * Depth
)

// Pos is a chunk coordinate on the horizontal grid. It keys the loaded
// chunk map and compares by value.
type Pos struct {
	X, Z int
}

// WorldX returns the world X of the chunk's minimum corner.
func (p Pos) WorldX() int { return p.X * Width }

// WorldZ returns the world Z of the chunk's minimum corner.
func (p Pos) WorldZ() int { return p.Z * Depth }

// Mesh is a GPU-resident chunk mesh. The concrete type lives with the
// renderer; the streaming side only ever installs and releases it.
type Mesh interface {
	Release()
}

// Chunk is a dense 16x256x16 block grid. A chunk is created empty (all
// air) when first requested and then filled by a generation worker, so
// every accessor locks: workers, the streaming pass and the render thread
// all touch the same instance.
type Chunk struct {
	pos Pos

	mu     sync.RWMutex
	blocks []byte

	generated bool
	decorated bool
	modified  bool
	meshDirty bool

	// In-flight neutral geometry, produced by a worker and consumed once
	// by the GL thread.
	meshData *MeshData

	// GPU mesh handle, written only by the GL thread.
	mesh Mesh
}

// New creates an empty (all-air) chunk at the given coordinate.
func New(pos Pos) *Chunk {
	return &Chunk{
		pos:       pos,
		blocks:    make([]byte, Volume),
		meshDirty: true,
	}
}

// Pos returns the chunk's coordinate.
func (c *Chunk) Pos() Pos { return c.pos }

// index maps local coordinates to a block array offset. Callers must
// have validated the coordinates.
func index(x, y, z int) int {
	return y*Width*Depth + z*Width + x
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height && z >= 0 && z < Depth
}

// Block returns the block ID at local coordinates, or air when the
// coordinates fall outside the chunk.
func (c *Chunk) Block(x, y, z int) byte {
	if !inBounds(x, y, z) {
		return 0
	}
	c.mu.RLock()
	id := c.blocks[index(x, y, z)]
	c.mu.RUnlock()
	return id
}

// SetBlock stores a block ID at local coordinates and marks the mesh
// dirty if the content changed. Out-of-bounds writes are no-ops. It
// reports whether the block was actually changed.
func (c *Chunk) SetBlock(x, y, z int, id byte) bool {
	if !inBounds(x, y, z) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := index(x, y, z)
	if c.blocks[i] == id {
		return false
	}
	c.blocks[i] = id
	c.modified = true
	c.meshDirty = true
	return true
}

// ReplaceBlocks swaps in a freshly generated block array. The slice must
// have length Volume and ownership passes to the chunk.
func (c *Chunk) ReplaceBlocks(blocks []byte) {
	if len(blocks) != Volume {
		return
	}
	c.mu.Lock()
	c.blocks = blocks
	c.meshDirty = true
	c.mu.Unlock()
}

// CopyBlocks returns a snapshot of the block array. The mesh compiler
// works from the copy so it never races with concurrent edits.
func (c *Chunk) CopyBlocks() []byte {
	out := make([]byte, Volume)
	c.mu.RLock()
	copy(out, c.blocks)
	c.mu.RUnlock()
	return out
}

// Generated reports whether base terrain has been synthesized.
func (c *Chunk) Generated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generated
}

// MarkGenerated records that base terrain is present. Monotonic.
func (c *Chunk) MarkGenerated() {
	c.mu.Lock()
	c.generated = true
	c.mu.Unlock()
}

// Decorated reports whether the decoration pass has run.
func (c *Chunk) Decorated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decorated
}

// MarkDecorated records that decoration has run. Monotonic.
func (c *Chunk) MarkDecorated() {
	c.mu.Lock()
	c.decorated = true
	c.mu.Unlock()
}

// Modified reports whether the chunk diverged from its generated state.
func (c *Chunk) Modified() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modified
}

// MeshDirty reports whether the geometry is stale.
func (c *Chunk) MeshDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meshDirty
}

// SetMeshDirty flags or clears the stale-geometry state. The scheduler
// clears it immediately before submitting a rebuild so an edit racing
// with the rebuild re-dirties the chunk.
func (c *Chunk) SetMeshDirty(dirty bool) {
	c.mu.Lock()
	c.meshDirty = dirty
	c.mu.Unlock()
}

// SetMeshData stores in-flight neutral geometry for the GL thread.
func (c *Chunk) SetMeshData(d *MeshData) {
	c.mu.Lock()
	c.meshData = d
	c.mu.Unlock()
}

// TakeMeshData removes and returns the pending neutral geometry, if any.
func (c *Chunk) TakeMeshData() *MeshData {
	c.mu.Lock()
	d := c.meshData
	c.meshData = nil
	c.mu.Unlock()
	return d
}

// SwapMesh installs a GPU mesh and returns the previous one so the
// caller can release it. Must be called from the GL thread only; the old
// mesh stays valid until after the new one is installed.
func (c *Chunk) SwapMesh(m Mesh) Mesh {
	c.mu.Lock()
	old := c.mesh
	c.mesh = m
	c.mu.Unlock()
	return old
}

// CurrentMesh returns the installed GPU mesh, or nil.
func (c *Chunk) CurrentMesh() Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mesh
}
