package renderer

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrBufferAllocation is returned when the image buffers for a viewport
// cannot be allocated.
var ErrBufferAllocation = errors.New("renderer: buffer allocation failed")

// maxPixels bounds a single viewport. Anything above it is treated as an
// allocation failure instead of letting make panic.
const maxPixels = 1 << 26

// rayOffset pushes bounce origins off the surface to avoid self hits.
const rayOffset = 1e-4

// Settings controls the renderer per frame
type Settings struct {
	Accumulate bool
	MaxBounces int

	// Sky is added on a miss only when enabled; a miss otherwise ends the path dark.
	SkyEnabled bool
	SkyColor   mgl32.Vec3

	// Workers is the row worker count, 0 means one per logical core
	Workers int
}

// DefaultSettings mirrors the startup configuration.
func DefaultSettings() Settings {
	return Settings{
		Accumulate: true,
		MaxBounces: 5,
		SkyColor:   mgl32.Vec3{0.6, 0.7, 0.9},
	}
}
