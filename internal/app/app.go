package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"lumitracer/internal/config"
	"lumitracer/internal/graphics"
	"lumitracer/internal/graphics/renderer"
	"lumitracer/internal/input"
	"lumitracer/internal/profiling"
	"lumitracer/internal/scene"
	"lumitracer/internal/snapshot"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const slowFrameThreshold = 250 * time.Millisecond

// Camera defaults for the interactive viewer
const (
	verticalFOV = 45
	nearClip    = 0.1
	farClip     = 100
)

// actionSource is what the per-frame action handling reads
type actionSource interface {
	JustPressed(action input.Action) bool
}

type App struct {
	window       *glfw.Window
	inputManager *input.InputManager

	camera   *graphics.Camera
	renderer *renderer.Renderer
	scene    *scene.Scene

	presenter   *graphics.Presenter
	overlay     *graphics.Overlay
	snapshotter *snapshot.Snapshotter

	fpsLimiter *FPSLimiter
	lastTime   time.Time

	frames       int
	lastFPSCheck time.Time
	currentFPS   int
}

// NewApp wires the viewer around an existing window with a current GL context.
// snap may be nil, in which case snapshots are disabled.
func NewApp(window *glfw.Window, im *input.InputManager, sc *scene.Scene, snap *snapshot.Snapshotter) (*App, error) {
	presenter, err := graphics.NewPresenter()
	if err != nil {
		return nil, fmt.Errorf("presenter: %w", err)
	}
	overlay, err := graphics.NewOverlay(14)
	if err != nil {
		presenter.Dispose()
		return nil, fmt.Errorf("overlay: %w", err)
	}

	im.AttachWindow(window)

	camera := graphics.NewCamera(verticalFOV, nearClip, farClip, im)
	camera.SetSensitivity(config.GetSensitivity())

	now := time.Now()
	return &App{
		window:       window,
		inputManager: im,
		camera:       camera,
		renderer:     renderer.NewRenderer(settingsFromConfig()),
		scene:        sc,
		presenter:    presenter,
		overlay:      overlay,
		snapshotter:  snap,
		fpsLimiter:   NewFPSLimiter(),
		lastTime:     now,
		lastFPSCheck: now,
	}, nil
}

// Renderer exposes the path tracer, mainly for shutdown hooks.
func (a *App) Renderer() *renderer.Renderer {
	return a.renderer
}

func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	startTick := time.Now()
	dt := startTick.Sub(a.lastTime).Seconds()
	a.lastTime = startTick

	func() {
		defer profiling.Track("glfw.PollEvents")()
		glfw.PollEvents()
	}()

	if a.handleActions(a.inputManager) {
		a.window.SetShouldClose(true)
	}

	fbWidth, fbHeight := a.window.GetFramebufferSize()
	a.camera.OnResize(fbWidth, fbHeight)
	if a.camera.OnUpdate(float32(dt)) {
		a.renderer.ResetAccumulation()
	}
	a.syncSettings()

	if err := a.renderer.Render(a.scene, a.camera); err != nil {
		// neither a bad scene nor missing buffers can recover
		log.Printf("Render failed: %v", err)
		if errors.Is(err, scene.ErrSceneInconsistency) || errors.Is(err, renderer.ErrBufferAllocation) {
			a.window.SetShouldClose(true)
		}
	}

	a.present(fbWidth, fbHeight)

	func() {
		defer profiling.Track("glfw.SwapBuffers")()
		a.window.SwapBuffers()
	}()

	a.countFrame()

	processingDuration := time.Since(startTick)
	if processingDuration > slowFrameThreshold {
		log.Printf("Slow frame: %v (glfw %s). Top tasks: %s",
			processingDuration, profiling.FormatMs(profiling.SumWithPrefix("glfw.")), profiling.TopN(5))
	}

	a.inputManager.PostUpdate() // Clear "JustPressed" flags

	a.fpsLimiter.Wait(a.window.GetAttrib(glfw.Iconified) == glfw.True)
}

// handleActions applies one-shot actions and reports whether to quit.
func (a *App) handleActions(src actionSource) bool {
	if src.JustPressed(input.ActionQuit) {
		return true
	}
	if src.JustPressed(input.ActionResetAccumulation) {
		a.renderer.ResetAccumulation()
	}
	if src.JustPressed(input.ActionToggleAccumulation) {
		log.Printf("Accumulation: %v", onOff(config.ToggleAccumulate()))
	}
	if src.JustPressed(input.ActionToggleSky) {
		log.Printf("Sky: %v", onOff(config.ToggleSky()))
	}
	if src.JustPressed(input.ActionMoreBounces) {
		config.SetMaxBounces(config.GetMaxBounces() + 1)
	}
	if src.JustPressed(input.ActionFewerBounces) {
		config.SetMaxBounces(config.GetMaxBounces() - 1)
	}
	if src.JustPressed(input.ActionToggleOverlay) {
		config.ToggleOverlay()
	}
	if src.JustPressed(input.ActionSnapshot) {
		a.requestSnapshot()
	}
	return false
}

// syncSettings pushes config changes into the renderer. Any change
// invalidates the samples gathered so far.
func (a *App) syncSettings() {
	s := settingsFromConfig()
	if s == a.renderer.Settings() {
		return
	}
	a.renderer.SetSettings(s)
	a.renderer.ResetAccumulation()
}

func settingsFromConfig() renderer.Settings {
	sky, skyColor := config.GetSky()
	return renderer.Settings{
		Accumulate: config.GetAccumulate(),
		MaxBounces: config.GetMaxBounces(),
		SkyEnabled: sky,
		SkyColor:   skyColor,
		Workers:    config.GetWorkerCount(),
	}
}

func (a *App) present(fbWidth, fbHeight int) {
	w, h := a.renderer.Size()
	if w == 0 || h == 0 {
		return
	}
	img := a.presenter.Staging(a.renderer.Image(), w, h)
	if config.GetOverlay() {
		a.overlay.Draw(img, a.overlayLines())
	}
	a.presenter.Present(img, fbWidth, fbHeight)
}

func (a *App) overlayLines() []string {
	w, h := a.renderer.Size()
	s := a.renderer.Settings()
	samples := a.renderer.FrameIndex() - 1
	if !s.Accumulate {
		samples = 1
	}
	return []string{
		fmt.Sprintf("FPS: %d", a.currentFPS),
		fmt.Sprintf("Render: %s", profiling.FormatMs(profiling.Last("renderer.Render"))),
		fmt.Sprintf("Samples: %d", samples),
		fmt.Sprintf("Size: %dx%d", w, h),
		fmt.Sprintf("Bounces: %d", s.MaxBounces),
		fmt.Sprintf("Accumulate: %s  Sky: %s", onOff(s.Accumulate), onOff(s.SkyEnabled)),
	}
}

// requestSnapshot saves the current image without the overlay in the background.
func (a *App) requestSnapshot() {
	if a.snapshotter == nil {
		log.Printf("Snapshots disabled")
		return
	}
	w, h := a.renderer.Size()
	if w == 0 || h == 0 {
		return
	}
	img := graphics.PixelsToRGBA(a.renderer.Image(), w, h, nil)
	go a.saveSnapshot(img)
}

func (a *App) saveSnapshot(img *image.RGBA) {
	res, err := a.snapshotter.Save(context.Background(), img)
	if err != nil {
		log.Printf("Snapshot failed: %v", err)
		return
	}
	log.Printf("Snapshot saved to %s", res.Path)
}

func (a *App) countFrame() {
	a.frames++
	if time.Since(a.lastFPSCheck) >= time.Second {
		fmt.Println("FPS: ", a.frames)
		a.currentFPS = a.frames
		a.frames = 0
		a.lastFPSCheck = time.Now()
	}
}

// RefreshRender repaints the last image, used while the window is being resized
func (a *App) RefreshRender() {
	fbWidth, fbHeight := a.window.GetFramebufferSize()
	a.present(fbWidth, fbHeight)
	a.window.SwapBuffers()
}

// Close releases GL resources and stops the render workers.
// It must run on the main thread while the context is current.
func (a *App) Close() {
	a.presenter.Dispose()
	if err := a.overlay.Close(); err != nil {
		log.Printf("close overlay: %v", err)
	}
	a.renderer.Close()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
