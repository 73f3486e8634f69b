package app

import (
	"testing"
	"time"
)

func TestFrameBudget(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		idle      int
		minimized bool
		vsync     bool
		want      time.Duration
	}{
		{"unlimited", 0, 30, false, false, 0},
		{"capped", 100, 30, false, false, 10 * time.Millisecond},
		{"minimized uses idle cap", 0, 50, true, false, 20 * time.Millisecond},
		{"minimized without idle cap", 100, 0, true, false, 10 * time.Millisecond},
		{"vsync paces itself", 100, 30, false, true, 0},
		{"vsync minimized", 0, 25, true, true, 40 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameBudget(tt.limit, tt.idle, tt.minimized, tt.vsync); got != tt.want {
				t.Errorf("frameBudget = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLimiterSpacesFrames(t *testing.T) {
	const budget = 10 * time.Millisecond
	f := NewFPSLimiter()

	start := time.Now()
	f.wait(budget)
	f.wait(budget)
	if elapsed := time.Since(start); elapsed < 2*budget-time.Millisecond {
		t.Errorf("two frames took %v, want at least %v", elapsed, 2*budget)
	}
}

func TestLimiterUnpacedReturnsAtOnce(t *testing.T) {
	f := NewFPSLimiter()
	f.deadline = time.Now().Add(time.Hour)

	start := time.Now()
	f.wait(0)
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("unpaced wait blocked")
	}
	if !f.deadline.IsZero() {
		t.Errorf("deadline kept after pacing was switched off")
	}
}

func TestLimiterDropsBacklog(t *testing.T) {
	const budget = 5 * time.Millisecond
	f := NewFPSLimiter()
	f.deadline = time.Now().Add(-time.Second)

	start := time.Now()
	f.wait(budget)
	if elapsed := time.Since(start); elapsed < budget-time.Millisecond {
		t.Errorf("wait after a stall returned in %v, want a full frame", elapsed)
	}
}
