package world

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minefocado/minefocado/internal/world/block"
	"github.com/minefocado/minefocado/internal/world/chunk"
	"github.com/minefocado/minefocado/internal/world/gen"
)

// Spawn-ish viewer position inside chunk (0, 0).
const (
	viewX = 8.0
	viewZ = 8.0
)

func newTestWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w := New(block.NewRegistry(), cfg)
	t.Cleanup(w.Cleanup)
	return w
}

// pump drives Update and the upload drain until cond holds, failing the
// test on timeout.
func pump(t *testing.T, w *World, vx, vz float64, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		w.Update(vx, vz)
		w.DrainMeshUploads(64)
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s (loaded=%d pending=%d)",
		what, w.LoadedChunkCount(), w.PendingTasks())
}

func ringSize(loadDistance int) int {
	side := 2*loadDistance + 1
	return side * side
}

func TestStreamingLoadsRingAroundViewer(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 4})
	want := ringSize(w.loadDistance)

	pump(t, w, viewX, viewZ, "initial ring load", func() bool {
		return w.LoadedChunkCount() == want && w.PendingTasks() == 0
	})

	// Every loaded chunk is generated once the pipeline is quiet.
	for x := -w.loadDistance; x <= w.loadDistance; x++ {
		for z := -w.loadDistance; z <= w.loadDistance; z++ {
			c := w.Chunk(chunk.Pos{X: x, Z: z})
			if c == nil {
				t.Fatalf("chunk (%d, %d) missing from the ring", x, z)
			}
			if !c.Generated() {
				t.Fatalf("chunk (%d, %d) loaded but not generated at quiescence", x, z)
			}
		}
	}
}

func TestViewerMoveUnloadsFarChunks(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 4})
	want := ringSize(w.loadDistance)

	pump(t, w, viewX, viewZ, "initial ring load", func() bool {
		return w.LoadedChunkCount() == want && w.PendingTasks() == 0
	})

	// Teleport 30 chunks east; the old neighborhood must be dropped and
	// the map must settle back to exactly one ring.
	farX := viewX + 30*chunk.Width
	pump(t, w, farX, viewZ, "ring around new viewer", func() bool {
		return w.Chunk(chunk.Pos{X: 0, Z: 0}) == nil &&
			w.LoadedChunkCount() == want &&
			w.PendingTasks() == 0
	})

	if w.Chunk(chunk.Pos{X: 30, Z: 0}) == nil {
		t.Error("chunk under the new viewer position is not loaded")
	}
}

func TestDecorationRequiresGeneratedNeighborhood(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 4})

	pump(t, w, viewX, viewZ, "decorated center chunk", func() bool {
		c := w.Chunk(chunk.Pos{X: 0, Z: 0})
		return c != nil && c.Decorated() && w.PendingTasks() == 0
	})

	// The outermost retention ring has missing neighbors and must stay
	// undecorated.
	edge := w.Chunk(chunk.Pos{X: w.loadDistance, Z: 0})
	if edge == nil {
		t.Fatal("edge chunk not loaded")
	}
	if edge.Decorated() {
		t.Error("edge chunk decorated despite ungenerated neighbors")
	}
}

func TestBlockAccessOnUnloadedChunk(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 1})

	if got := w.BlockAt(10_000, 64, 10_000); got != block.Air {
		t.Errorf("unloaded BlockAt = %d, want air", got)
	}
	if w.SetBlockAt(10_000, 64, 10_000, block.Stone) {
		t.Error("SetBlockAt on an unloaded chunk must report failure")
	}
	if got := w.BlockAt(0, -1, 0); got != block.Air {
		t.Errorf("below-world BlockAt = %d, want air", got)
	}
	if got := w.BlockAt(0, chunk.Height, 0); got != block.Air {
		t.Errorf("above-world BlockAt = %d, want air", got)
	}
}

func TestEdgeEditDirtiesNeighbor(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 4})
	want := ringSize(w.loadDistance)

	pump(t, w, viewX, viewZ, "initial ring load", func() bool {
		return w.LoadedChunkCount() == want && w.PendingTasks() == 0
	})

	center := w.Chunk(chunk.Pos{X: 0, Z: 0})
	west := w.Chunk(chunk.Pos{X: -1, Z: 0})
	east := w.Chunk(chunk.Pos{X: 1, Z: 0})
	center.SetMeshDirty(false)
	west.SetMeshDirty(false)
	east.SetMeshDirty(false)

	// Edit on the western edge of chunk (0,0).
	if !w.SetBlockAt(0, 200, 8, block.Stone) {
		t.Fatal("edge edit rejected")
	}
	if !center.MeshDirty() {
		t.Error("edited chunk not marked dirty")
	}
	if !west.MeshDirty() {
		t.Error("western neighbor of an edge edit not marked dirty")
	}
	if east.MeshDirty() {
		t.Error("eastern neighbor dirtied by a western edge edit")
	}

	// Interior edits touch only their own chunk.
	center.SetMeshDirty(false)
	west.SetMeshDirty(false)
	if !w.SetBlockAt(8, 200, 8, block.Stone) {
		t.Fatal("interior edit rejected")
	}
	if !center.MeshDirty() {
		t.Error("interior edit did not dirty its chunk")
	}
	if west.MeshDirty() {
		t.Error("interior edit dirtied a neighbor")
	}

	if got := w.BlockAt(0, 200, 8); got != block.Stone {
		t.Errorf("BlockAt after edit = %d, want stone", got)
	}
}

func TestUnloadReloadRegeneratesIdenticalTerrain(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 4})

	origin := chunk.Pos{X: 0, Z: 0}
	pump(t, w, viewX, viewZ, "decorated origin chunk", func() bool {
		c := w.Chunk(origin)
		return c != nil && c.Decorated() && w.PendingTasks() == 0
	})
	snapshot := w.Chunk(origin).CopyBlocks()

	farX := viewX + 30*chunk.Width
	pump(t, w, farX, viewZ, "origin chunk unload", func() bool {
		return w.Chunk(origin) == nil && w.PendingTasks() == 0
	})

	pump(t, w, viewX, viewZ, "origin chunk reload", func() bool {
		c := w.Chunk(origin)
		return c != nil && c.Decorated() && w.PendingTasks() == 0
	})

	if !bytes.Equal(snapshot, w.Chunk(origin).CopyBlocks()) {
		t.Error("reloaded chunk differs from its first generation")
	}
}

func TestPendingStaysUnderCap(t *testing.T) {
	const maxPending = 8
	w := newTestWorld(t, Config{RenderDistance: 3, Workers: 2, MaxPending: maxPending})
	want := ringSize(w.loadDistance)

	deadline := time.Now().Add(15 * time.Second)
	for w.LoadedChunkCount() < want || w.PendingTasks() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("load did not finish (loaded=%d pending=%d)",
				w.LoadedChunkCount(), w.PendingTasks())
		}
		w.Update(viewX, viewZ)
		w.DrainMeshUploads(64)
		if got := w.PendingTasks(); got > maxPending {
			t.Fatalf("pending tasks = %d, cap is %d", got, maxPending)
		}
		time.Sleep(time.Millisecond)
	}
}

type countingFactory struct {
	created  atomic.Int32
	released atomic.Int32
}

type countedMesh struct {
	f *countingFactory
}

func (m *countedMesh) Release() { m.f.released.Add(1) }

func (f *countingFactory) CreateMesh(d *chunk.MeshData) (chunk.Mesh, error) {
	f.created.Add(1)
	return &countedMesh{f: f}, nil
}

func TestMeshLifecycleThroughFactory(t *testing.T) {
	factory := &countingFactory{}
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 4, Factory: factory})
	want := ringSize(w.loadDistance)

	pump(t, w, viewX, viewZ, "meshes for the whole ring", func() bool {
		if w.LoadedChunkCount() != want || w.PendingTasks() != 0 {
			return false
		}
		meshes := 0
		w.ForEachReady(func(chunk.Pos, chunk.Mesh) { meshes++ })
		return meshes == want
	})

	w.Cleanup()

	if c, r := factory.created.Load(), factory.released.Load(); c != r {
		t.Errorf("created %d meshes but released %d", c, r)
	}
}

func TestPreloadSpawnAreaIsSynchronousAtCenter(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 2})

	w.PreloadSpawnArea(viewX, viewZ)

	center := w.Chunk(chunk.Pos{X: 0, Z: 0})
	if center == nil || !center.Generated() || !center.Decorated() {
		t.Fatal("spawn chunk must be generated and decorated before the first frame")
	}
	if w.DrainMeshUploads(16) == 0 {
		t.Error("spawn preload produced no mesh payloads")
	}

	pump(t, w, viewX, viewZ, "spawn ring load", func() bool {
		return w.PendingTasks() == 0
	})
}

func TestSurfaceHeightIsSane(t *testing.T) {
	w := newTestWorld(t, Config{RenderDistance: 2, Workers: 1})

	for x := -100; x <= 100; x += 17 {
		for z := -100; z <= 100; z += 17 {
			h := w.SurfaceHeight(x, z)
			if h < gen.SeaLevel || h >= chunk.Height {
				t.Fatalf("SurfaceHeight(%d, %d) = %d, outside [%d, %d)", x, z, h, gen.SeaLevel, chunk.Height)
			}
		}
	}
}
