package chunk

import (
	"github.com/minefocado/minefocado/internal/world/block"
)

// atlasGrid is the number of texture tiles per atlas row/column.
const atlasGrid = 16

// NeighborFunc resolves a block ID at world coordinates when a face
// check crosses the chunk boundary. Implementations return air for
// unloaded chunks, which makes the compiler emit the face rather than
// punch a hole.
type NeighborFunc func(worldX, worldY, worldZ int) byte

// faceDef describes one cube face: its capability-table face, the offset
// to the adjacent cell, the outward normal and the four corner offsets
// in winding order.
type faceDef struct {
	face       block.Face
	dx, dy, dz int
	nx, ny, nz float32
	corners    [4][3]float32
}

var faces = [6]faceDef{
	{block.FaceUp, 0, 1, 0, 0, 1, 0, [4][3]float32{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1}}},
	{block.FaceDown, 0, -1, 0, 0, -1, 0, [4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 0, 0}, {0, 0, 0}}},
	{block.FaceFront, 0, 0, 1, 0, 0, 1, [4][3]float32{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}, {1, 0, 1}}},
	{block.FaceBack, 0, 0, -1, 0, 0, -1, [4][3]float32{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0, 0, 0}}},
	{block.FaceRight, 1, 0, 0, 1, 0, 0, [4][3]float32{{1, 0, 1}, {1, 1, 1}, {1, 1, 0}, {1, 0, 0}}},
	{block.FaceLeft, -1, 0, 0, -1, 0, 0, [4][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 0, 1}}},
}

// BuildMeshData compiles a chunk's blocks into a neutral mesh payload.
// It is a pure computation with no GPU calls and may run on any worker
// goroutine. The chunk's block array is snapshotted once, so concurrent
// edits cannot tear the geometry; cross-chunk face checks go through
// neighbor. A nil neighbor treats everything outside the chunk as air.
func BuildMeshData(c *Chunk, reg *block.Registry, neighbor NeighborFunc) *MeshData {
	d := &MeshData{Pos: c.pos}
	blocks := c.CopyBlocks()

	baseX := c.pos.WorldX()
	baseZ := c.pos.WorldZ()

	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			for z := 0; z < Depth; z++ {
				id := blocks[index(x, y, z)]
				if id == block.Air {
					continue
				}
				for i := range faces {
					f := &faces[i]
					ax, ay, az := x+f.dx, y+f.dy, z+f.dz
					if !faceVisible(blocks, reg, neighbor, baseX, baseZ, ax, ay, az) {
						continue
					}
					addFace(d, x, y, z, f, reg.TextureIndex(id, f.face))
				}
			}
		}
	}
	return d
}

// faceVisible reports whether the face pointing at the adjacent cell
// (ax, ay, az in chunk-local space) must be emitted.
func faceVisible(blocks []byte, reg *block.Registry, neighbor NeighborFunc, baseX, baseZ, ax, ay, az int) bool {
	// Above or below the world there is nothing to hide behind.
	if ay < 0 || ay >= Height {
		return true
	}
	var id byte
	if ax >= 0 && ax < Width && az >= 0 && az < Depth {
		id = blocks[index(ax, ay, az)]
	} else if neighbor != nil {
		id = neighbor(baseX+ax, ay, baseZ+az)
	} else {
		return true
	}
	return !reg.IsOpaque(id)
}

// addFace appends one quad: four vertices, two triangles, a constant
// normal and an atlas-derived UV rect.
func addFace(d *MeshData, x, y, z int, f *faceDef, texIndex int) {
	base := uint32(len(d.Positions) / 3)

	for _, corner := range f.corners {
		d.Positions = append(d.Positions,
			float32(x)+corner[0], float32(y)+corner[1], float32(z)+corner[2])
		d.Normals = append(d.Normals, f.nx, f.ny, f.nz)
	}

	d.Indices = append(d.Indices,
		base, base+1, base+2,
		base, base+2, base+3)

	step := float32(1) / atlasGrid
	u := float32(texIndex%atlasGrid) * step
	v := float32(texIndex/atlasGrid) * step
	d.TexCoords = append(d.TexCoords,
		u, v+step,
		u+step, v+step,
		u+step, v,
		u, v)
}
