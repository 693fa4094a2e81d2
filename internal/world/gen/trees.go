package gen

import (
	"encoding/binary"
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/minefocado/minefocado/internal/world/block"
	"github.com/minefocado/minefocado/internal/world/chunk"
)

// Tree decoration constants.
const (
	treeHeightMin = 4
	treeHeightMax = 7

	// Base spawn chance per candidate column; forests multiply it.
	treeProbability = 0.005
)

// Decorate runs the post-generation pass: probabilistic tree placement
// on grass columns, biased by biome. The RNG is seeded from the chunk
// coordinate, so the outcome is independent of the order chunks are
// decorated in. Callers must only invoke this once the chunk and its
// eight neighbors are generated, otherwise canopies would clip against
// columns that do not exist yet.
func (s *Synthesizer) Decorate(c *chunk.Chunk) {
	if !c.Generated() || c.Decorated() {
		return
	}

	pos := c.Pos()
	rng := rand.New(rand.NewSource(s.chunkSeed(pos)))

	// Keep trunks two cells off the edge so the radius-2 canopy always
	// lands inside this chunk.
	for x := 2; x < chunk.Width-2; x++ {
		for z := 2; z < chunk.Depth-2; z++ {
			worldX := pos.WorldX() + x
			worldZ := pos.WorldZ() + z

			var p float64
			switch s.BiomeAt(worldX, worldZ) {
			case Forest:
				p = treeProbability * 4
			case Plains:
				p = treeProbability
			default:
				continue
			}

			y := s.topSolid(c, x, z)
			if c.Block(x, y, z) == block.Grass && rng.Float64() < p {
				s.growTree(c, x, y+1, z, rng)
			}
		}
	}

	c.MarkDecorated()
}

// chunkSeed derives a decoration sub-seed from the world seed and the
// chunk coordinate.
func (s *Synthesizer) chunkSeed(pos chunk.Pos) int64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(s.seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(pos.X)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(pos.Z)))
	return int64(xxhash.Sum64(buf[:]))
}

// topSolid returns the Y of the highest solid block in a column, or 0.
func (s *Synthesizer) topSolid(c *chunk.Chunk, x, z int) int {
	for y := chunk.Height - 1; y > 0; y-- {
		if s.reg.IsSolid(c.Block(x, y, z)) {
			return y
		}
	}
	return 0
}

// growTree places a trunk with a rounded leaf canopy. Writes outside the
// chunk height are dropped by the chunk itself.
func (s *Synthesizer) growTree(c *chunk.Chunk, x, y, z int, rng *rand.Rand) {
	height := treeHeightMin + rng.Intn(treeHeightMax-treeHeightMin+1)

	for ty := y; ty < y+height; ty++ {
		c.SetBlock(x, ty, z, block.Wood)
	}

	const leafRadius = 2
	leafBottom := y + height - 3
	leafTop := y + height

	for ly := leafBottom; ly <= leafTop; ly++ {
		if ly < 0 || ly >= chunk.Height {
			continue
		}
		radius := leafRadius
		if ly == leafTop {
			radius = 1
		}
		for lx := x - radius; lx <= x+radius; lx++ {
			for lz := z - radius; lz <= z+radius; lz++ {
				// Drop the four corners for a rounded canopy.
				if (lx == x-radius || lx == x+radius) && (lz == z-radius || lz == z+radius) {
					continue
				}
				if lx == x && lz == z {
					continue
				}
				if lx < 0 || lx >= chunk.Width || lz < 0 || lz >= chunk.Depth {
					continue
				}
				if !s.reg.IsSolid(c.Block(lx, ly, lz)) {
					c.SetBlock(lx, ly, lz, block.Leaves)
				}
			}
		}
	}
}
