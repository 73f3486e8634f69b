package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"lumitracer/internal/app"
	"lumitracer/internal/config"
	"lumitracer/internal/input"
	"lumitracer/internal/scene"
	"lumitracer/internal/snapshot"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	sceneName := flag.String("scene", "default", "Scene: 'default' or 'emissive'")
	width := flag.Int("width", 900, "Window width")
	height := flag.Int("height", 600, "Window height")
	bounces := flag.Int("bounces", config.GetMaxBounces(), "Maximum bounces per path")
	fpsLimit := flag.Int("fps", 0, "Frame cap, 0 for unlimited")
	workers := flag.Int("workers", 0, "Render workers, 0 for one per logical core")
	vsync := flag.Bool("vsync", false, "Sync buffer swaps to the display")
	envFile := flag.String("env", ".env", "Optional env file with snapshot settings")
	flag.Parse()

	sc, err := selectScene(*sceneName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	config.SetMaxBounces(*bounces)
	config.SetFPSLimit(*fpsLimit)
	config.SetWorkerCount(*workers)
	config.SetVSync(*vsync)

	snap := newSnapshotter(config.LoadSnapshotSettings(*envFile))

	// closer runs the hook on SIGINT/SIGTERM as well as on a normal exit
	defer closer.Close()

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw init: %v", err)
	}
	defer glfw.Terminate()

	window, err := app.SetupWindow(*width, *height, "lumitracer")
	if err != nil {
		log.Fatalf("create window: %v", err)
	}

	a, err := app.NewApp(window, input.NewInputManager(), sc, snap)
	if err != nil {
		log.Fatalf("init app: %v", err)
	}
	defer a.Close()
	closer.Bind(func() {
		log.Printf("lumitracer: shutting down after %d samples", a.Renderer().FrameIndex()-1)
	})

	app.SetupInputHandlers(a)

	fmt.Printf("Rendering %q with %d workers\n", *sceneName, config.GetWorkerCount())
	a.Run()
}

var newSnapshot = snapshot.New

// newSnapshotter falls back to local-only snapshots in the configured
// directory when the S3 client cannot be set up.
func newSnapshotter(s config.SnapshotSettings) *snapshot.Snapshotter {
	snap, err := newSnapshot(s)
	if err != nil {
		log.Printf("Snapshot upload disabled: %v", err)
		return snapshot.NewWithUploader(s, nil)
	}
	return snap
}

func selectScene(name string) (*scene.Scene, error) {
	switch name {
	case "default":
		return scene.Default(), nil
	case "emissive":
		return scene.SingleEmissive(), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}
