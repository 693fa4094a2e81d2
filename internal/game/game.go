// Package game implements the main game loop: input, world streaming
// and rendering.
package game

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/minefocado/minefocado/internal/config"
	"github.com/minefocado/minefocado/internal/engine/camera"
	"github.com/minefocado/minefocado/internal/engine/input"
	"github.com/minefocado/minefocado/internal/engine/renderer"
	"github.com/minefocado/minefocado/internal/engine/window"
	"github.com/minefocado/minefocado/internal/logger"
	"github.com/minefocado/minefocado/internal/world"
	"github.com/minefocado/minefocado/internal/world/block"
)

const gameTitle = "Minefocado"

// Spawn column, picked near the chunk grid origin.
const (
	spawnX = 8
	spawnZ = 8
)

// Game is the main game instance. It owns the window, the renderer and
// the streamed world, and must run on the main (GL) thread.
type Game struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Camera
	world    *world.World

	mouseCaptured bool
}

// New creates a game instance: window and GL context first, then the
// renderer, then the world with the renderer as its mesh factory.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int64("seed", cfg.World.Seed),
	)

	g := &Game{cfg: cfg}

	var err error
	g.window, err = window.New(window.Config{
		Title:      gameTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	g.renderer, err = renderer.New()
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	g.world = world.New(block.NewRegistry(), world.Config{
		Seed:           cfg.World.Seed,
		RenderDistance: cfg.World.RenderDistance,
		Workers:        cfg.World.Workers,
		MaxPending:     cfg.World.MaxPendingJobs,
		Factory:        g.renderer,
		Log:            logger.Log,
	})

	g.input = input.New()

	// Drop the camera a little above the spawn surface.
	spawnY := g.world.SurfaceHeight(spawnX, spawnZ) + 2
	aspect := float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height)
	g.camera = camera.New(mgl32.Vec3{spawnX, float32(spawnY), spawnZ}, aspect)

	g.world.PreloadSpawnArea(spawnX, spawnZ)
	g.drainSpawnUploads()

	g.window.CaptureMouse(true)
	g.mouseCaptured = true

	logger.Info("game initialized", zap.Int("spawn_y", spawnY))
	return g, nil
}

// drainSpawnUploads pushes the synchronously built spawn meshes to the
// GPU before the first frame, so the player never sees a void.
func (g *Game) drainSpawnUploads() {
	for i := 0; i < 16; i++ {
		if g.world.DrainMeshUploads(8) == 0 {
			return
		}
	}
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if g.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.cfg.Graphics.FPSLimit)
	}

	logger.Info("starting game loop")

	for g.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if g.input.Update() {
			break
		}
		g.handleEvents()
		g.updateCamera(dt)

		camPos := g.camera.Position
		g.world.Update(float64(camPos.X()), float64(camPos.Z()))
		g.world.DrainMeshUploads(g.cfg.World.UploadsPerFrame)

		g.renderer.BeginFrame()
		g.renderer.RenderWorld(g.world, g.camera)
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.cfg.Game.ShowFPS {
				g.window.SetTitle(fmt.Sprintf("%s | %d fps | %d chunks | %d pending",
					gameTitle, frameCount, g.world.LoadedChunkCount(), g.world.PendingTasks()))
			}
			logger.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Int("chunks", g.world.LoadedChunkCount()),
				zap.Int("pending", g.world.PendingTasks()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if elapsed := time.Since(frameStart); elapsed < frameBudget {
				time.Sleep(frameBudget - elapsed)
			}
		}
	}

	return nil
}

// handleEvents reacts to window and key events for this frame.
func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(event.Width, event.Height)
			g.camera.SetAspect(event.Width, event.Height)

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_TAB:
				g.mouseCaptured = !g.mouseCaptured
				g.window.CaptureMouse(g.mouseCaptured)
			}
		}
	}
}

// updateCamera applies mouse look and WASD flight for this frame.
func (g *Game) updateCamera(dt float64) {
	if g.mouseCaptured {
		dx, dy := g.input.MouseDelta()
		sens := g.cfg.Game.MouseSensitivity
		g.camera.Rotate(float64(dx)*sens, float64(dy)*sens)
	}

	step := float32(g.cfg.Game.MoveSpeed * dt)
	if g.input.IsKeyHeld(sdl.SCANCODE_LCTRL) {
		step *= 4 // sprint
	}

	var forward, strafe, lift float32
	if g.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward += step
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward -= step
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_D) {
		strafe += step
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_A) {
		strafe -= step
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_SPACE) {
		lift += step
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_LSHIFT) {
		lift -= step
	}
	g.camera.Move(forward, strafe, lift)
}

// Close tears down the world and GL resources. Must run on the GL
// thread after Run returns.
func (g *Game) Close() {
	logger.Info("closing game")

	if g.world != nil {
		g.world.Cleanup()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
