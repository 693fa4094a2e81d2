// Package world owns the loaded-chunk map and the streaming pipeline:
// it decides which chunks exist, generates and meshes them on a worker
// pool, and hands finished geometry to the GL thread through a
// single-consumer queue.
package world

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/minefocado/minefocado/internal/world/block"
	"github.com/minefocado/minefocado/internal/world/chunk"
	"github.com/minefocado/minefocado/internal/world/gen"
)

const (
	// DefaultSeed matches the original world seed used by the test scenes.
	DefaultSeed = 12345

	// DefaultRenderDistance is the draw radius in chunks. Chunks are
	// retained two rings further out so decoration always has generated
	// neighbors to lean on.
	DefaultRenderDistance = 8

	// defaultMaxPending caps concurrently in-flight generation tasks.
	defaultMaxPending = 100

	uploadQueueSize = 256
	jobQueueSize    = 1024
)

// MeshFactory builds GPU meshes from neutral payloads. It is only ever
// called from the thread that owns the graphics context.
type MeshFactory interface {
	CreateMesh(*chunk.MeshData) (chunk.Mesh, error)
}

// Config configures a World. Zero values fall back to defaults; a nil
// Factory leaves the world headless, which the tests rely on.
type Config struct {
	Seed           int64
	RenderDistance int
	Workers        int
	MaxPending     int
	Factory        MeshFactory
	Log            *zap.Logger
}

// World is the streaming scheduler: the concurrent chunk map, the
// generation worker pool and the mesh upload queue, orchestrated around
// the viewer position.
type World struct {
	seed int64
	reg  *block.Registry
	gen  *gen.Synthesizer

	renderDistance int
	loadDistance   int
	maxPending     int

	mu     sync.RWMutex
	chunks map[chunk.Pos]*chunk.Chunk

	pool    *workerPool
	uploads chan *chunk.MeshData

	// Chunks removed from the map whose GPU mesh still needs releasing
	// on the GL thread.
	retireMu sync.Mutex
	retired  []*chunk.Chunk

	pending atomic.Int32
	closing atomic.Bool

	// streamBusy serializes desired-set recomputation; needsStream
	// remembers that work was deferred while one was in flight or the
	// task budget was exhausted.
	streamBusy  atomic.Bool
	needsStream atomic.Bool

	viewerMu sync.Mutex
	viewerX  int
	viewerZ  int
	hasView  bool

	factory MeshFactory
	log     *zap.Logger
}

// New creates a world around the given registry.
func New(reg *block.Registry, cfg Config) *World {
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	if cfg.RenderDistance <= 0 {
		cfg.RenderDistance = DefaultRenderDistance
	}
	if cfg.Workers <= 0 {
		cfg.Workers = max(runtime.NumCPU()-1, 1)
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = defaultMaxPending
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	w := &World{
		seed:           cfg.Seed,
		reg:            reg,
		gen:            gen.NewSynthesizer(cfg.Seed, reg),
		renderDistance: cfg.RenderDistance,
		loadDistance:   cfg.RenderDistance + 2,
		maxPending:     cfg.MaxPending,
		chunks:         make(map[chunk.Pos]*chunk.Chunk),
		pool:           newWorkerPool(cfg.Workers, jobQueueSize),
		uploads:        make(chan *chunk.MeshData, uploadQueueSize),
		factory:        cfg.Factory,
		log:            cfg.Log,
	}

	w.log.Info("world created",
		zap.Int64("seed", cfg.Seed),
		zap.Int("render_distance", cfg.RenderDistance),
		zap.Int("workers", cfg.Workers),
	)
	return w
}

// Seed returns the world seed.
func (w *World) Seed() int64 { return w.seed }

// Registry returns the block capability table.
func (w *World) Registry() *block.Registry { return w.reg }

// RenderDistance returns the draw radius in chunks.
func (w *World) RenderDistance() int { return w.renderDistance }

// Chunk returns the loaded chunk at the given coordinate, or nil.
func (w *World) Chunk(pos chunk.Pos) *chunk.Chunk {
	w.mu.RLock()
	c := w.chunks[pos]
	w.mu.RUnlock()
	return c
}

// LoadedChunkCount returns the number of chunks currently in the map.
func (w *World) LoadedChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// PendingTasks returns the number of in-flight generation tasks.
func (w *World) PendingTasks() int {
	return int(w.pending.Load())
}

// ViewerChunk returns the last tracked viewer chunk coordinate.
func (w *World) ViewerChunk() chunk.Pos {
	w.viewerMu.Lock()
	defer w.viewerMu.Unlock()
	return chunk.Pos{X: w.viewerX, Z: w.viewerZ}
}

// BlockAt returns the block ID at world coordinates. Coordinates in
// unloaded chunks or outside the vertical range read as air; the call
// never blocks.
func (w *World) BlockAt(worldX, worldY, worldZ int) byte {
	if worldY < 0 || worldY >= chunk.Height {
		return block.Air
	}
	pos := chunk.Pos{X: floorDiv(worldX, chunk.Width), Z: floorDiv(worldZ, chunk.Depth)}
	c := w.Chunk(pos)
	if c == nil {
		return block.Air
	}
	return c.Block(floorMod(worldX, chunk.Width), worldY, floorMod(worldZ, chunk.Depth))
}

// SetBlockAt writes a block at world coordinates and marks the chunk
// mesh-dirty. Edits on a chunk-local edge also dirty the adjacent
// chunk, whose culled faces may need to change. Returns false when the
// target chunk is not loaded; the write is dropped, not queued.
func (w *World) SetBlockAt(worldX, worldY, worldZ int, id byte) bool {
	pos := chunk.Pos{X: floorDiv(worldX, chunk.Width), Z: floorDiv(worldZ, chunk.Depth)}
	c := w.Chunk(pos)
	if c == nil {
		return false
	}

	localX := floorMod(worldX, chunk.Width)
	localZ := floorMod(worldZ, chunk.Depth)
	if !c.SetBlock(localX, worldY, localZ, id) {
		return true
	}

	if localX == 0 {
		w.markDirty(chunk.Pos{X: pos.X - 1, Z: pos.Z})
	} else if localX == chunk.Width-1 {
		w.markDirty(chunk.Pos{X: pos.X + 1, Z: pos.Z})
	}
	if localZ == 0 {
		w.markDirty(chunk.Pos{X: pos.X, Z: pos.Z - 1})
	} else if localZ == chunk.Depth-1 {
		w.markDirty(chunk.Pos{X: pos.X, Z: pos.Z + 1})
	}
	return true
}

func (w *World) markDirty(pos chunk.Pos) {
	if c := w.Chunk(pos); c != nil {
		c.SetMeshDirty(true)
	}
}

// Update tracks the viewer and drives streaming. When the viewer enters
// a new chunk (or deferred work remains) the desired-set recomputation
// is pushed onto the worker pool; dirty chunks are rescheduled for mesh
// rebuild every call. Non-blocking; call once per frame.
func (w *World) Update(viewerWorldX, viewerWorldZ float64) {
	if w.closing.Load() {
		return
	}

	cx := floorDiv(int(math.Floor(viewerWorldX)), chunk.Width)
	cz := floorDiv(int(math.Floor(viewerWorldZ)), chunk.Depth)

	w.viewerMu.Lock()
	moved := !w.hasView || cx != w.viewerX || cz != w.viewerZ
	w.viewerX, w.viewerZ = cx, cz
	w.hasView = true
	w.viewerMu.Unlock()

	if moved || w.needsStream.Swap(false) {
		if w.streamBusy.CompareAndSwap(false, true) {
			if !w.pool.TrySubmit(w.streamChunks) {
				w.streamBusy.Store(false)
				w.needsStream.Store(true)
			}
		} else {
			w.needsStream.Store(true)
		}
	}

	w.scheduleDirtyRebuilds()
}

// streamChunks recomputes the desired chunk set around the viewer,
// loading what is missing, unloading what fell outside the retention
// radius and decorating the inner ring. Runs on a worker.
func (w *World) streamChunks() {
	defer w.streamBusy.Store(false)

	center := w.ViewerChunk()

	desired := make(map[chunk.Pos]struct{}, (2*w.loadDistance+1)*(2*w.loadDistance+1))
	for x := center.X - w.loadDistance; x <= center.X+w.loadDistance; x++ {
		for z := center.Z - w.loadDistance; z <= center.Z+w.loadDistance; z++ {
			pos := chunk.Pos{X: x, Z: z}
			desired[pos] = struct{}{}
			if w.Chunk(pos) == nil {
				w.requestLoad(pos)
			}
		}
	}

	w.mu.RLock()
	loaded := maps.Keys(w.chunks)
	w.mu.RUnlock()
	for _, pos := range loaded {
		if _, keep := desired[pos]; !keep {
			w.requestUnload(pos)
		}
	}

	// Decoration runs one tier in from the load edge so the eight
	// neighbors of every candidate are already generated.
	for x := center.X - w.loadDistance + 2; x <= center.X+w.loadDistance-2; x++ {
		for z := center.Z - w.loadDistance + 2; z <= center.Z+w.loadDistance-2; z++ {
			w.tryDecorate(chunk.Pos{X: x, Z: z})
		}
	}
}

// requestLoad inserts an empty chunk into the map and schedules its
// generation. The chunk is visible to readers immediately, so a
// requested-but-ungenerated coordinate reads as air rather than
// "missing". Skipped (and retried on a later tick) when the in-flight
// cap is reached or the pool rejects the task.
func (w *World) requestLoad(pos chunk.Pos) {
	if w.closing.Load() {
		return
	}
	if int(w.pending.Load()) >= w.maxPending {
		w.needsStream.Store(true)
		return
	}

	c := chunk.New(pos)
	w.mu.Lock()
	if _, exists := w.chunks[pos]; exists {
		w.mu.Unlock()
		return
	}
	w.chunks[pos] = c
	w.mu.Unlock()

	w.pending.Add(1)
	ok := w.pool.TrySubmit(func() {
		defer w.pending.Add(-1)

		w.gen.Generate(c)
		c.SetMeshDirty(false)
		w.enqueueUpload(chunk.BuildMeshData(c, w.reg, w.BlockAt))
	})
	if !ok {
		// Back out completely so a later tick retries the load.
		w.pending.Add(-1)
		w.mu.Lock()
		delete(w.chunks, pos)
		w.mu.Unlock()
		w.needsStream.Store(true)
	}
}

// requestUnload removes a chunk from the map. Its GPU mesh is parked
// for release on the GL thread; a late generation or rebuild result for
// the coordinate is discarded at install time because the chunk is no
// longer present.
func (w *World) requestUnload(pos chunk.Pos) {
	w.mu.Lock()
	c := w.chunks[pos]
	delete(w.chunks, pos)
	w.mu.Unlock()
	if c == nil {
		return
	}
	c.SetMeshData(nil)
	w.retireMu.Lock()
	w.retired = append(w.retired, c)
	w.retireMu.Unlock()
}

// tryDecorate runs the decoration pass once a chunk and its eight
// neighbors are generated.
func (w *World) tryDecorate(pos chunk.Pos) {
	c := w.Chunk(pos)
	if c == nil || !c.Generated() || c.Decorated() {
		return
	}
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			if dx == 0 && dz == 0 {
				continue
			}
			n := w.Chunk(chunk.Pos{X: pos.X + dx, Z: pos.Z + dz})
			if n == nil || !n.Generated() {
				return
			}
		}
	}
	w.gen.Decorate(c)
	c.SetMeshDirty(true)
}

// scheduleDirtyRebuilds pushes a mesh-compilation task for every dirty
// generated chunk. The dirty flag is cleared before the task is
// submitted, so an edit racing with the rebuild re-dirties the chunk
// and triggers another pass.
func (w *World) scheduleDirtyRebuilds() {
	w.mu.RLock()
	dirty := make([]*chunk.Chunk, 0, 8)
	for _, c := range w.chunks {
		if c.Generated() && c.MeshDirty() {
			dirty = append(dirty, c)
		}
	}
	w.mu.RUnlock()

	for _, c := range dirty {
		c.SetMeshDirty(false)
		cc := c
		if !w.pool.TrySubmit(func() {
			w.enqueueUpload(chunk.BuildMeshData(cc, w.reg, w.BlockAt))
		}) {
			c.SetMeshDirty(true)
		}
	}
}

// enqueueUpload hands a payload to the GL thread. If the queue is full
// the chunk is re-dirtied and recompiled later instead of blocking the
// worker.
func (w *World) enqueueUpload(data *chunk.MeshData) {
	if w.closing.Load() {
		return
	}
	select {
	case w.uploads <- data:
	default:
		if c := w.Chunk(data.Pos); c != nil {
			c.SetMeshDirty(true)
		}
	}
}

// DrainMeshUploads consumes up to maxPerTick finished payloads, builds
// GPU meshes for them and installs them on their chunks. It must run on
// the thread that owns the graphics context; the per-tick cap bounds
// the frame stall after a spawn or teleport burst. Returns the number
// of payloads consumed.
func (w *World) DrainMeshUploads(maxPerTick int) int {
	w.releaseRetired()

	processed := 0
	for processed < maxPerTick {
		select {
		case data := <-w.uploads:
			w.installMesh(data)
			processed++
		default:
			return processed
		}
	}
	return processed
}

// installMesh turns one payload into a GPU mesh. Payloads for chunks no
// longer in the map are dropped; between two racing rebuilds of one
// chunk the most recently installed payload wins. The previous mesh is
// released only after the replacement is installed.
func (w *World) installMesh(data *chunk.MeshData) {
	c := w.Chunk(data.Pos)
	if c == nil || w.factory == nil {
		return
	}

	if data.Empty() {
		if old := c.SwapMesh(nil); old != nil {
			old.Release()
		}
		return
	}

	m, err := w.factory.CreateMesh(data)
	if err != nil {
		// Leave the chunk meshless this cycle; the dirty flag gets it
		// recompiled and re-uploaded on a later tick.
		w.log.Warn("chunk mesh upload failed",
			zap.Int("cx", data.Pos.X), zap.Int("cz", data.Pos.Z), zap.Error(err))
		c.SetMeshDirty(true)
		return
	}

	if old := c.SwapMesh(m); old != nil {
		old.Release()
	}
}

// releaseRetired frees GPU meshes of unloaded chunks. GL thread only.
func (w *World) releaseRetired() {
	w.retireMu.Lock()
	retired := w.retired
	w.retired = nil
	w.retireMu.Unlock()

	for _, c := range retired {
		if m := c.SwapMesh(nil); m != nil {
			m.Release()
		}
	}
}

// ForEachReady calls fn for every loaded chunk that has an installed
// GPU mesh. Iteration order is unspecified.
func (w *World) ForEachReady(fn func(pos chunk.Pos, m chunk.Mesh)) {
	w.mu.RLock()
	loaded := maps.Values(w.chunks)
	w.mu.RUnlock()

	for _, c := range loaded {
		if m := c.CurrentMesh(); m != nil {
			fn(c.Pos(), m)
		}
	}
}

// PreloadSpawnArea synchronously generates, decorates and meshes the
// spawn chunk and schedules a small ring around it, so the viewer never
// spawns into a void. Call from the GL thread before the first frame.
func (w *World) PreloadSpawnArea(worldX, worldZ float64) {
	scx := floorDiv(int(math.Floor(worldX)), chunk.Width)
	scz := floorDiv(int(math.Floor(worldZ)), chunk.Depth)

	w.viewerMu.Lock()
	w.viewerX, w.viewerZ = scx, scz
	w.hasView = true
	w.viewerMu.Unlock()

	const preloadRadius = 2
	for x := scx - preloadRadius; x <= scx+preloadRadius; x++ {
		for z := scz - preloadRadius; z <= scz+preloadRadius; z++ {
			pos := chunk.Pos{X: x, Z: z}
			if x == scx && z == scz {
				c := chunk.New(pos)
				w.mu.Lock()
				w.chunks[pos] = c
				w.mu.Unlock()

				w.gen.Generate(c)
				// Trunks stay two cells off the edge, so spawn-chunk
				// decoration does not need generated neighbors.
				w.gen.Decorate(c)
				c.SetMeshDirty(false)
				w.enqueueUpload(chunk.BuildMeshData(c, w.reg, w.BlockAt))
			} else {
				w.requestLoad(pos)
			}
		}
	}

	w.log.Info("spawn area preloaded", zap.Int("cx", scx), zap.Int("cz", scz))
}

// SurfaceHeight returns the terrain surface Y for a world column,
// bypassing chunk state. Used to place the viewer above ground.
func (w *World) SurfaceHeight(worldX, worldZ int) int {
	b := w.gen.BiomeAt(worldX, worldZ)
	return w.gen.HeightAt(worldX, worldZ, b)
}

// Cleanup stops accepting work, waits for in-flight tasks, discards
// queued payloads and releases every GPU mesh. Must run on the GL
// thread.
func (w *World) Cleanup() {
	if w.closing.Swap(true) {
		return
	}
	w.pool.Close()

	// Late task results are discarded, never installed.
	for {
		select {
		case <-w.uploads:
		default:
			goto drained
		}
	}
drained:

	w.releaseRetired()

	w.mu.Lock()
	for pos, c := range w.chunks {
		if m := c.SwapMesh(nil); m != nil {
			m.Release()
		}
		delete(w.chunks, pos)
	}
	w.mu.Unlock()

	w.log.Info("world cleaned up")
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod returns the non-negative remainder of floorDiv.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
