package renderer

import (
	"fmt"
	"log"

	"lumitracer/internal/config"
	"lumitracer/internal/graphics"
	"lumitracer/internal/profiling"
	"lumitracer/internal/rng"
	"lumitracer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer progressively path traces a scene into an RGBA8 image.
// Every Render adds one sample per pixel to the accumulation buffer and
// writes the running average to the image. It is not safe for concurrent Render calls.
type Renderer struct {
	settings Settings
	pool     *rowPool

	width, height int
	image         []uint32
	accumulation  []mgl32.Vec4

	frameIndex uint32
}

// NewRenderer creates a renderer and starts its row workers.
func NewRenderer(settings Settings) *Renderer {
	settings.MaxBounces = max(settings.MaxBounces, 0)
	return &Renderer{
		settings:   settings,
		pool:       newRowPool(workerCount(settings.Workers)),
		frameIndex: 1,
	}
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return config.GetWorkerCount()
}

// Close stops the worker pool.
func (r *Renderer) Close() {
	r.pool.Shutdown()
}

// Settings returns the current settings.
func (r *Renderer) Settings() Settings { return r.settings }

// SetSettings replaces the settings. A new worker count restarts the pool.
// Accumulation is not reset here.
func (r *Renderer) SetSettings(s Settings) {
	s.MaxBounces = max(s.MaxBounces, 0)
	if workerCount(s.Workers) != r.pool.workers {
		r.pool.Shutdown()
		r.pool = newRowPool(workerCount(s.Workers))
	}
	r.settings = s
}

// ResetAccumulation starts a new accumulation run on the next Render.
func (r *Renderer) ResetAccumulation() {
	r.frameIndex = 1
}

// FrameIndex is the 1-based number of the sample the next Render adds.
func (r *Renderer) FrameIndex() uint32 { return r.frameIndex }

// Image returns the packed A<<24|B<<16|G<<8|R pixels. Row 0 is the bottom of the view.
func (r *Renderer) Image() []uint32 { return r.image }

// Accumulation returns the running per-pixel sums before division.
func (r *Renderer) Accumulation() []mgl32.Vec4 { return r.accumulation }

// Size returns the image dimensions.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Render adds one sample per pixel.
// A zero-area viewport is skipped and the previous image stays valid.
func (r *Renderer) Render(s *scene.Scene, cam *graphics.Camera) error {
	defer profiling.Track("renderer.Render")()

	width, height := cam.Viewport()
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := r.resize(width, height); err != nil {
		return err
	}

	if r.frameIndex == 1 {
		clear(r.accumulation)
	}

	rayDirections := cam.RayDirections()
	if len(rayDirections) != width*height {
		return fmt.Errorf("render: camera has %d ray directions for a %dx%d viewport", len(rayDirections), width, height)
	}

	origin := cam.Position()
	frameIndex := r.frameIndex
	invFrames := 1 / float32(frameIndex)

	r.pool.Run(height, func(y int) {
		row := y * width
		for x := range width {
			i := x + row
			ray := scene.Ray{Origin: origin, Direction: rayDirections[i]}
			color := r.perPixel(s, ray, rng.PixelSeed(uint32(x), uint32(y), uint32(width), frameIndex))

			r.accumulation[i] = r.accumulation[i].Add(color.Vec4(1))

			avg := r.accumulation[i].Mul(invFrames)
			r.image[i] = packRGBA(avg)
		}
	})

	if r.settings.Accumulate {
		r.frameIndex++
	} else {
		r.frameIndex = 1
	}
	return nil
}

// resize (re)allocates the buffers when the viewport changed.
func (r *Renderer) resize(width, height int) error {
	if r.image != nil && width == r.width && height == r.height {
		return nil
	}
	if width > maxPixels/height {
		return fmt.Errorf("%w: %dx%d viewport", ErrBufferAllocation, width, height)
	}

	n := width * height
	r.image = make([]uint32, n)
	r.accumulation = make([]mgl32.Vec4, n)
	r.width, r.height = width, height
	r.frameIndex = 1

	log.Printf("renderer: allocated %dx%d buffers", width, height)
	return nil
}

// perPixel traces one path and returns the light it gathered.
func (r *Renderer) perPixel(s *scene.Scene, ray scene.Ray, seed uint32) mgl32.Vec3 {
	var light mgl32.Vec3
	throughput := mgl32.Vec3{1, 1, 1}

	for i := range r.settings.MaxBounces {
		seed += uint32(i)

		payload := s.TraceRay(ray)
		if !payload.Hit() {
			if r.settings.SkyEnabled {
				light = light.Add(mul(r.settings.SkyColor, throughput))
			}
			break
		}

		m := s.Material(payload.ObjectIndex)
		light = light.Add(mul(m.Emission(), throughput))

		var draw float32
		draw, seed = rng.Float(seed)
		specular := draw < m.Metallic

		var randomDir mgl32.Vec3
		randomDir, seed = rng.UnitVec3(seed)
		diffuseDir := normalizeOr(payload.WorldNormal.Add(randomDir), payload.WorldNormal)

		// specular bounces keep the throughput, diffuse ones take the albedo
		if !specular {
			throughput = mul(throughput, m.Albedo)
		}

		ray = scene.Ray{
			Origin:    payload.WorldPosition.Add(payload.WorldNormal.Mul(rayOffset)),
			Direction: bounceDirection(ray.Direction, payload.WorldNormal, diffuseDir, m.Roughness, specular),
		}
	}

	return light
}

// bounceDirection returns diffuseDir for a diffuse bounce. A specular bounce
// mirrors in about normal and blends toward diffuseDir by roughness.
func bounceDirection(in, normal, diffuseDir mgl32.Vec3, roughness float32, specular bool) mgl32.Vec3 {
	if !specular {
		return diffuseDir
	}
	return normalizeOr(lerp(reflect(in, normal), diffuseDir, roughness), normal)
}

// packRGBA clamps to [0,1] and packs as A<<24|B<<16|G<<8|R.
func packRGBA(c mgl32.Vec4) uint32 {
	rr := uint32(mgl32.Clamp(c.X(), 0, 1) * 255)
	gg := uint32(mgl32.Clamp(c.Y(), 0, 1) * 255)
	bb := uint32(mgl32.Clamp(c.Z(), 0, 1) * 255)
	aa := uint32(mgl32.Clamp(c.W(), 0, 1) * 255)
	return aa<<24 | bb<<16 | gg<<8 | rr
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func reflect(d, n mgl32.Vec3) mgl32.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// normalizeOr normalizes v, or returns fallback for a zero vector.
func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 1e-8 {
		return v.Mul(1 / l)
	}
	return fallback
}
