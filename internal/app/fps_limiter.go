package app

import (
	"time"

	"lumitracer/internal/config"
)

// spinWindow is the tail of each wait spent polling instead of sleeping
const spinWindow = 200 * time.Microsecond

// FPSLimiter paces the main loop so a fast tracer does not redraw faster
// than the configured cap.
type FPSLimiter struct {
	deadline time.Time
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// frameBudget returns the minimum frame time, 0 meaning no pacing.
// With vsync on, SwapBuffers already blocks, except while minimized where
// drivers stop blocking and the idle cap takes over.
func frameBudget(limit, idle int, minimized, vsync bool) time.Duration {
	switch {
	case minimized && idle > 0:
		limit = idle
	case vsync:
		return 0
	}
	if limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(limit)
}

// Wait blocks until the current frame has used up its budget.
func (f *FPSLimiter) Wait(minimized bool) {
	budget := frameBudget(config.GetFPSLimit(), config.GetIdleFPS(), minimized, config.GetVSync())
	f.wait(budget)
}

func (f *FPSLimiter) wait(budget time.Duration) {
	if budget <= 0 {
		f.deadline = time.Time{}
		return
	}

	now := time.Now()
	if f.deadline.IsZero() || now.Sub(f.deadline) > budget {
		// first paced frame, or we fell a whole frame behind
		f.deadline = now
	}
	f.deadline = f.deadline.Add(budget)
	sleepUntil(f.deadline)
}

// sleepUntil sleeps most of the way to t and spins the rest.
func sleepUntil(t time.Time) {
	if d := time.Until(t) - spinWindow; d > 0 {
		time.Sleep(d)
	}
	for time.Now().Before(t) {
	}
}
