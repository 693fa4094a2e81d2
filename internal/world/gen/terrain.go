// Package gen synthesizes deterministic terrain from a world seed:
// biome classification, heightmaps, cave carving and tree decoration.
package gen

import (
	"github.com/minefocado/minefocado/internal/world/block"
	"github.com/minefocado/minefocado/internal/world/chunk"
	"github.com/minefocado/minefocado/internal/world/noise"
)

// Terrain shaping constants.
const (
	SeaLevel    = 62
	dirtDepth   = 5
	beachHeight = 4
	stoneHeight = 48

	caveThreshold = 0.3
	caveOctaves   = 3
	caveScale     = 40.0

	biomeScale   = 200.0
	biomeOctaves = 2
)

// Biome classifies a world column. Classification is a hard threshold on
// a single noise channel, so neighboring columns can sit in different
// biomes with a visible seam; that matches the intended look.
type Biome int

const (
	Plains Biome = iota
	Forest
	Desert
	Mountains
)

func (b Biome) String() string {
	switch b {
	case Plains:
		return "plains"
	case Forest:
		return "forest"
	case Desert:
		return "desert"
	case Mountains:
		return "mountains"
	}
	return "unknown"
}

// biomeSettings holds per-biome height shaping: maximum height above sea
// level, noise scale and octave count.
var biomeSettings = [4]struct {
	maxHeight float64
	scale     float64
	octaves   int
}{
	Plains:    {24, 100, 3},
	Forest:    {32, 100, 3},
	Desert:    {16, 120, 2},
	Mountains: {64, 80, 4},
}

// Synthesizer populates chunks with base terrain and, in a separate
// pass, decorations. It is a pure function of (seed, coordinate): all
// noise fields are immutable after construction, so one instance is
// shared by every generation worker.
type Synthesizer struct {
	seed int64

	height *noise.Perlin
	cave   *noise.Perlin
	biome  *noise.Perlin

	reg *block.Registry
}

// NewSynthesizer creates a terrain synthesizer for the given seed. The
// cave and biome fields get offset seeds so the three channels are
// independent.
func NewSynthesizer(seed int64, reg *block.Registry) *Synthesizer {
	return &Synthesizer{
		seed:   seed,
		height: noise.New(seed),
		cave:   noise.New(seed + 1),
		biome:  noise.New(seed + 2),
		reg:    reg,
	}
}

// Seed returns the world seed.
func (s *Synthesizer) Seed() int64 { return s.seed }

// BiomeAt classifies the column at the given world coordinates. The
// noise range [-1, 1] is partitioned into four contiguous bands.
func (s *Synthesizer) BiomeAt(worldX, worldZ int) Biome {
	v := s.biome.Octaves(float64(worldX)/biomeScale, 0, float64(worldZ)/biomeScale, biomeOctaves, 0.5)
	switch {
	case v < -0.5:
		return Desert
	case v < 0:
		return Plains
	case v < 0.5:
		return Forest
	default:
		return Mountains
	}
}

// HeightAt returns the surface Y for a column, using the biome's height
// shaping on top of the fixed sea level.
func (s *Synthesizer) HeightAt(worldX, worldZ int, b Biome) int {
	cfg := biomeSettings[b]
	h := s.height.HeightAt(worldX, worldZ, cfg.octaves, cfg.scale, cfg.maxHeight)
	return SeaLevel + int(h)
}

// Generate fills a chunk's base terrain: bedrock floor, cave-carved
// stone, then biome-specific surface layers. Deterministic and
// idempotent for a given (seed, coordinate); the block array is built
// aside and swapped in whole.
func (s *Synthesizer) Generate(c *chunk.Chunk) {
	pos := c.Pos()
	blocks := make([]byte, chunk.Volume)

	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Depth; z++ {
			worldX := pos.WorldX() + x
			worldZ := pos.WorldZ() + z

			b := s.BiomeAt(worldX, worldZ)
			height := s.HeightAt(worldX, worldZ, b)

			col := column{blocks: blocks, x: x, z: z}
			col.set(0, block.Bedrock)

			top := min(height, stoneHeight)
			for y := 1; y <= top; y++ {
				if !s.isCave(worldX, y, worldZ) {
					col.set(y, block.Stone)
				}
			}

			s.applySurface(col, height, b)
		}
	}

	c.ReplaceBlocks(blocks)
	c.MarkGenerated()
}

// column is a write cursor over one (x, z) column of a block buffer.
type column struct {
	blocks []byte
	x, z   int
}

func (c column) set(y int, id byte) {
	if y < 0 || y >= chunk.Height {
		return
	}
	c.blocks[y*chunk.Width*chunk.Depth+c.z*chunk.Width+c.x] = id
}

func (c column) get(y int) byte {
	if y < 0 || y >= chunk.Height {
		return block.Air
	}
	return c.blocks[y*chunk.Width*chunk.Depth+c.z*chunk.Width+c.x]
}

// applySurface lays the biome surface bands over the stone column.
func (s *Synthesizer) applySurface(col column, height int, b Biome) {
	if height < SeaLevel {
		// Flooded column: fill water up to sea level.
		for y := height + 1; y <= SeaLevel; y++ {
			col.set(y, block.Water)
		}
		if height >= SeaLevel-beachHeight {
			// Shallow floor is sandy.
			col.set(height, block.Sand)
			for y := height - 1; y > height-3 && y > 0; y-- {
				if col.get(y) == block.Stone {
					col.set(y, block.Sand)
				}
			}
		} else {
			col.set(height, block.Dirt)
		}
		return
	}

	switch b {
	case Desert:
		col.set(height, block.Sand)
		for y := height - 1; y > height-4 && y > 0; y-- {
			if col.get(y) == block.Stone {
				col.set(y, block.Sand)
			}
		}

	case Mountains:
		if height > SeaLevel+20 {
			if height <= SeaLevel+35 {
				// Grass band below the bare stone tops.
				col.set(height, block.Grass)
				col.set(height-1, block.Dirt)
			}
			// Above that the stone stays exposed.
		} else {
			col.set(height, block.Grass)
			for y := height - 1; y > height-dirtDepth && y > 0; y-- {
				if col.get(y) == block.Stone {
					col.set(y, block.Dirt)
				}
			}
		}

	default: // Plains, Forest
		if height <= SeaLevel+beachHeight {
			col.set(height, block.Sand)
			for y := height - 1; y > height-3 && y > 0; y-- {
				if col.get(y) == block.Stone {
					col.set(y, block.Sand)
				}
			}
		} else {
			col.set(height, block.Grass)
			for y := height - 1; y > height-dirtDepth && y > 0; y-- {
				if col.get(y) == block.Stone {
					col.set(y, block.Dirt)
				}
			}
		}
	}
}

// isCave decides whether a stone cell is carved out. Caves never open
// above SeaLevel-5 or below y=10, and the threshold rises toward the
// surface so entrances stay rare.
func (s *Synthesizer) isCave(worldX, worldY, worldZ int) bool {
	if worldY > SeaLevel-5 || worldY < 10 {
		return false
	}
	v := s.cave.Octaves(
		float64(worldX)/caveScale,
		float64(worldY)/caveScale,
		float64(worldZ)/caveScale,
		caveOctaves, 0.5)

	threshold := caveThreshold
	if worldY > SeaLevel-15 {
		threshold += float64(worldY-(SeaLevel-15)) * 0.05
	}
	return v > threshold
}
