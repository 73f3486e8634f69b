package profiling

import (
	"strings"
	"testing"
	"time"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	stop := Track("renderer.Render")
	time.Sleep(2 * time.Millisecond)
	stop()
	Track("renderer.Render")()

	if d := Snapshot()["renderer.Render"]; d < 2*time.Millisecond {
		t.Errorf("tracked %v, want >= 2ms", d)
	}
}

func TestResetFrameKeepsLast(t *testing.T) {
	ResetFrame()
	record("camera.OnUpdate", 3*time.Millisecond)
	ResetFrame()

	if got := Last("camera.OnUpdate"); got != 3*time.Millisecond {
		t.Errorf("Last = %v, want 3ms", got)
	}
	if len(Snapshot()) != 0 {
		t.Errorf("current frame not cleared: %v", Snapshot())
	}
}

func TestSumWithPrefixAndTopN(t *testing.T) {
	ResetFrame()
	record("glfw.PollEvents", 1*time.Millisecond)
	record("glfw.SwapBuffers", 2*time.Millisecond)
	record("renderer.Render", 40*time.Millisecond)

	if got := SumWithPrefix("glfw."); got != 3*time.Millisecond {
		t.Errorf("SumWithPrefix = %v, want 3ms", got)
	}

	top := TopN(2)
	if top != "renderer.Render:40ms, glfw.SwapBuffers:2ms" {
		t.Errorf("TopN(2) = %q", top)
	}
	if strings.Count(TopN(10), ",") != 2 {
		t.Errorf("TopN(10) should list all three buckets: %q", TopN(10))
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{1500 * time.Microsecond, "1.5ms"},
		{12 * time.Millisecond, "12ms"},
	}
	for _, tt := range tests {
		if got := FormatMs(tt.d); got != tt.want {
			t.Errorf("FormatMs(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
