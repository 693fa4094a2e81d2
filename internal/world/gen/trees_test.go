package gen

import (
	"bytes"
	"testing"

	"github.com/minefocado/minefocado/internal/world/block"
	"github.com/minefocado/minefocado/internal/world/chunk"
)

// findWoodedChunk scans outward from the origin for a chunk that grows
// at least one tree under the test seed.
func findWoodedChunk(t *testing.T, s *Synthesizer) *chunk.Chunk {
	t.Helper()
	for cx := -20; cx <= 20; cx++ {
		for cz := -20; cz <= 20; cz++ {
			c := chunk.New(chunk.Pos{X: cx, Z: cz})
			s.Generate(c)
			s.Decorate(c)
			if chunkContains(c, block.Wood) {
				return c
			}
		}
	}
	t.Fatal("no tree grew in a 41x41 chunk area; probability or placement is broken")
	return nil
}

func chunkContains(c *chunk.Chunk, id byte) bool {
	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Depth; z++ {
			for y := 0; y < chunk.Height; y++ {
				if c.Block(x, y, z) == id {
					return true
				}
			}
		}
	}
	return false
}

func TestDecorateIsDeterministic(t *testing.T) {
	s := NewSynthesizer(testSeed, block.NewRegistry())
	wooded := findWoodedChunk(t, s)

	again := chunk.New(wooded.Pos())
	s.Generate(again)
	s.Decorate(again)

	if !bytes.Equal(wooded.CopyBlocks(), again.CopyBlocks()) {
		t.Error("decoration is not a pure function of seed and coordinate")
	}
	if !again.Decorated() {
		t.Error("Decorate must mark the chunk decorated")
	}
}

func TestDecorateRunsOnce(t *testing.T) {
	s := NewSynthesizer(testSeed, block.NewRegistry())
	wooded := findWoodedChunk(t, s)

	snap := wooded.CopyBlocks()
	s.Decorate(wooded)
	if !bytes.Equal(snap, wooded.CopyBlocks()) {
		t.Error("second Decorate must be a no-op")
	}
}

func TestDecorateRequiresGeneratedChunk(t *testing.T) {
	s := NewSynthesizer(testSeed, block.NewRegistry())
	c := chunk.New(chunk.Pos{})

	s.Decorate(c)
	if c.Decorated() {
		t.Error("Decorate must refuse an ungenerated chunk")
	}
}

func TestTrunksStayOffChunkEdge(t *testing.T) {
	s := NewSynthesizer(testSeed, block.NewRegistry())
	wooded := findWoodedChunk(t, s)

	// Trunk columns are confined to [2, 13], so canopy leaves can reach
	// at most the outermost cell and never force cross-chunk writes.
	for y := 0; y < chunk.Height; y++ {
		for _, edge := range []int{0, 1, chunk.Width - 2, chunk.Width - 1} {
			for z := 0; z < chunk.Depth; z++ {
				if wooded.Block(edge, y, z) == block.Wood {
					t.Fatalf("trunk at edge column x=%d", edge)
				}
			}
			for x := 0; x < chunk.Width; x++ {
				if wooded.Block(x, y, edge) == block.Wood {
					t.Fatalf("trunk at edge column z=%d", edge)
				}
			}
		}
	}
}

func TestTreesGrowOnGrass(t *testing.T) {
	s := NewSynthesizer(testSeed, block.NewRegistry())
	wooded := findWoodedChunk(t, s)

	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Depth; z++ {
			for y := 1; y < chunk.Height; y++ {
				below := wooded.Block(x, y-1, z)
				if wooded.Block(x, y, z) == block.Wood && below != block.Wood {
					if below != block.Grass {
						t.Fatalf("trunk base at (%d, %d, %d) sits on %d, want grass", x, y, z, below)
					}
				}
			}
		}
	}
}
