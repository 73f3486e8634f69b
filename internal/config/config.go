package config

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/shirou/gopsutil/cpu"
)

const (
	MinBounces = 0
	MaxBounces = 64
)

// RenderSettings holds render configuration
type RenderSettings struct {
	mu          sync.RWMutex
	maxBounces  int
	accumulate  bool
	skyEnabled  bool
	skyColor    mgl32.Vec3
	sensitivity float32
	fpsLimit    int // 0 = unlimited
	idleFPS     int // cap while minimized, 0 = use fpsLimit
	vsync       bool
	workers     int // 0 = detect
	overlay     bool
}

var globalRenderSettings = &RenderSettings{
	maxBounces:  5,
	accumulate:  true,
	skyColor:    mgl32.Vec3{0.6, 0.7, 0.9},
	sensitivity: 0.002,
	idleFPS:     30,
	overlay:     true,
}

// The core count cannot change while running, so it is asked for once.
var (
	cpuCounts       = cpu.Counts
	detectOnce      sync.Once
	detectedWorkers int
)

// GetMaxBounces returns the bounce limit per path
func GetMaxBounces() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.maxBounces
}

// SetMaxBounces sets the bounce limit per path
func SetMaxBounces(bounces int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if bounces < MinBounces {
		bounces = MinBounces
	}
	if bounces > MaxBounces {
		bounces = MaxBounces
	}

	globalRenderSettings.maxBounces = bounces
}

// GetAccumulate returns whether frames are averaged over time
func GetAccumulate() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.accumulate
}

// SetAccumulate enables or disables progressive accumulation
func SetAccumulate(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.accumulate = enabled
}

// ToggleAccumulate flips accumulation and returns the new value
func ToggleAccumulate() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.accumulate = !globalRenderSettings.accumulate
	return globalRenderSettings.accumulate
}

// GetSky returns whether escaping rays pick up the background color, and that color
func GetSky() (bool, mgl32.Vec3) {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.skyEnabled, globalRenderSettings.skyColor
}

// SetSky configures the background term
func SetSky(enabled bool, color mgl32.Vec3) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.skyEnabled = enabled
	globalRenderSettings.skyColor = color
}

// ToggleSky flips the background term and returns the new value
func ToggleSky() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.skyEnabled = !globalRenderSettings.skyEnabled
	return globalRenderSettings.skyEnabled
}

// GetSensitivity returns the mouse look sensitivity
func GetSensitivity() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.sensitivity
}

// SetSensitivity sets the mouse look sensitivity
func SetSensitivity(s float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if s <= 0 {
		return
	}
	globalRenderSettings.sensitivity = s
}

// GetFPSLimit returns the frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap, 0 meaning unlimited
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	globalRenderSettings.fpsLimit = limit
}

// GetIdleFPS returns the frame cap applied while the window is minimized
func GetIdleFPS() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.idleFPS
}

// SetIdleFPS sets the minimized frame cap, 0 falls back to the normal limit
func SetIdleFPS(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	globalRenderSettings.idleFPS = limit
}

// GetVSync returns whether buffer swaps wait for the display
func GetVSync() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.vsync
}

// SetVSync must be called before the window is created to take effect
func SetVSync(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.vsync = enabled
}

// GetOverlay returns whether the stats overlay is shown
func GetOverlay() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.overlay
}

// ToggleOverlay flips the stats overlay and returns the new value
func ToggleOverlay() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.overlay = !globalRenderSettings.overlay
	return globalRenderSettings.overlay
}

// GetWorkerCount returns the number of render workers.
// Unless set explicitly it is the logical core count.
func GetWorkerCount() int {
	globalRenderSettings.mu.RLock()
	n := globalRenderSettings.workers
	globalRenderSettings.mu.RUnlock()
	if n > 0 {
		return n
	}
	return detectWorkers()
}

// SetWorkerCount overrides the worker count, 0 restores detection
func SetWorkerCount(n int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if n < 0 {
		n = 0
	}
	globalRenderSettings.workers = n
}

func detectWorkers() int {
	detectOnce.Do(func() {
		detectedWorkers = runtime.NumCPU()
		if n, err := cpuCounts(true); err == nil && n > 0 {
			detectedWorkers = n
		}
	})
	return detectedWorkers
}
