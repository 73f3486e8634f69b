package graphics

import (
	"lumitracer/internal/input"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	cameraSpeed   = 5.0 // units per second
	rotationSpeed = 0.3
)

var worldUp = mgl32.Vec3{0, 1, 0}

// InputState is the slice of input the camera polls each frame.
type InputState interface {
	IsActive(action input.Action) bool
	CursorPosition() mgl32.Vec2
	SetCursorMode(mode input.CursorMode)
}

// Camera owns the view and projection matrices and a per-pixel cache of
// world-space primary ray directions. The cache is rebuilt whenever the
// position, orientation or viewport changes.
type Camera struct {
	verticalFOV float32 // degrees
	nearClip    float32
	farClip     float32

	position         mgl32.Vec3
	forwardDirection mgl32.Vec3

	projection        mgl32.Mat4
	inverseProjection mgl32.Mat4
	view              mgl32.Mat4
	inverseView       mgl32.Mat4

	rayDirections []mgl32.Vec3

	viewportWidth  int
	viewportHeight int

	input             InputState
	lastMousePosition mgl32.Vec2
	sensitivity       float32
}

// NewCamera creates a camera at (0,0,3) looking down -Z.
func NewCamera(verticalFOV, nearClip, farClip float32, in InputState) *Camera {
	c := &Camera{
		verticalFOV:       verticalFOV,
		nearClip:          nearClip,
		farClip:           farClip,
		position:          mgl32.Vec3{0, 0, 3},
		forwardDirection:  mgl32.Vec3{0, 0, -1},
		projection:        mgl32.Ident4(),
		inverseProjection: mgl32.Ident4(),
		input:             in,
		sensitivity:       0.002,
	}
	c.recalculateView()
	return c
}

// OnUpdate applies mouse look and movement while the look button is held.
// It returns true when the camera moved, in which case the view and the ray
// cache have already been rebuilt.
func (c *Camera) OnUpdate(ts float32) bool {
	if c.input == nil {
		return false
	}

	mousePos := c.input.CursorPosition()
	delta := mousePos.Sub(c.lastMousePosition).Mul(c.sensitivity)
	c.lastMousePosition = mousePos

	if !c.input.IsActive(input.ActionLook) {
		c.input.SetCursorMode(input.CursorNormal)
		return false
	}
	c.input.SetCursorMode(input.CursorLocked)

	moved := false
	right, hasRight := c.rightDirection()
	step := cameraSpeed * ts

	if c.input.IsActive(input.ActionMoveForward) {
		c.position = c.position.Add(c.forwardDirection.Mul(step))
		moved = true
	} else if c.input.IsActive(input.ActionMoveBackward) {
		c.position = c.position.Sub(c.forwardDirection.Mul(step))
		moved = true
	}
	if hasRight {
		if c.input.IsActive(input.ActionMoveLeft) {
			c.position = c.position.Sub(right.Mul(step))
			moved = true
		} else if c.input.IsActive(input.ActionMoveRight) {
			c.position = c.position.Add(right.Mul(step))
			moved = true
		}
	}
	if c.input.IsActive(input.ActionMoveDown) {
		c.position = c.position.Sub(worldUp.Mul(step))
		moved = true
	} else if c.input.IsActive(input.ActionMoveUp) {
		c.position = c.position.Add(worldUp.Mul(step))
		moved = true
	}

	if delta.X() != 0 || delta.Y() != 0 {
		pitchDelta := delta.Y() * rotationSpeed
		yawDelta := delta.X() * rotationSpeed

		yaw := mgl32.QuatRotate(-yawDelta, worldUp)
		q := yaw
		if hasRight {
			q = mgl32.QuatRotate(-pitchDelta, right).Mul(yaw)
		}
		c.forwardDirection = q.Normalize().Rotate(c.forwardDirection).Normalize()
		moved = true
	}

	if moved {
		c.recalculateView()
		c.recalculateRayDirections()
	}
	return moved
}

// OnResize rebuilds the projection and ray cache when the viewport changes.
func (c *Camera) OnResize(width, height int) {
	if width == c.viewportWidth && height == c.viewportHeight {
		return
	}

	c.viewportWidth = width
	c.viewportHeight = height

	c.recalculateProjection()
	c.recalculateRayDirections()
}

// SetPosition moves the camera and rebuilds the ray cache.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.recalculateView()
	c.recalculateRayDirections()
}

// SetForwardDirection turns the camera and rebuilds the ray cache.
// A zero vector is ignored.
func (c *Camera) SetForwardDirection(dir mgl32.Vec3) {
	if dir.Len() == 0 {
		return
	}
	c.forwardDirection = dir.Normalize()
	c.recalculateView()
	c.recalculateRayDirections()
}

// SetSensitivity sets the mouse delta scale.
func (c *Camera) SetSensitivity(sensitivity float32) {
	c.sensitivity = sensitivity
}

func (c *Camera) Position() mgl32.Vec3            { return c.position }
func (c *Camera) ForwardDirection() mgl32.Vec3    { return c.forwardDirection }
func (c *Camera) Viewport() (width, height int)   { return c.viewportWidth, c.viewportHeight }
func (c *Camera) Projection() mgl32.Mat4          { return c.projection }
func (c *Camera) InverseProjection() mgl32.Mat4   { return c.inverseProjection }
func (c *Camera) View() mgl32.Mat4                { return c.view }
func (c *Camera) InverseView() mgl32.Mat4         { return c.inverseView }
func (c *Camera) Sensitivity() float32            { return c.sensitivity }
func (c *Camera) VerticalFOV() float32            { return c.verticalFOV }
func (c *Camera) ClipPlanes() (near, far float32) { return c.nearClip, c.farClip }

// RayDirections returns the cached world-space direction of every pixel,
// indexed x + y*width. Callers must not modify it.
func (c *Camera) RayDirections() []mgl32.Vec3 {
	return c.rayDirections
}

func (c *Camera) rightDirection() (mgl32.Vec3, bool) {
	right := c.forwardDirection.Cross(worldUp)
	if right.Len() < 1e-6 {
		return mgl32.Vec3{}, false
	}
	return right.Normalize(), true
}

func (c *Camera) recalculateProjection() {
	if c.viewportWidth <= 0 || c.viewportHeight <= 0 {
		c.projection = mgl32.Ident4()
		c.inverseProjection = mgl32.Ident4()
		return
	}
	aspect := float32(c.viewportWidth) / float32(c.viewportHeight)
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.verticalFOV), aspect, c.nearClip, c.farClip)
	c.inverseProjection = c.projection.Inv()
}

func (c *Camera) recalculateView() {
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.forwardDirection), worldUp)
	c.inverseView = c.view.Inv()
}

func (c *Camera) recalculateRayDirections() {
	if c.viewportWidth <= 0 || c.viewportHeight <= 0 {
		c.rayDirections = c.rayDirections[:0]
		return
	}

	n := c.viewportWidth * c.viewportHeight
	if cap(c.rayDirections) < n {
		c.rayDirections = make([]mgl32.Vec3, n)
	}
	c.rayDirections = c.rayDirections[:n]

	for y := range c.viewportHeight {
		for x := range c.viewportWidth {
			c.rayDirections[x+y*c.viewportWidth] = c.RayDirection(x, y)
		}
	}
}

// RayDirection unprojects pixel (x, y) into a world-space direction without
// touching the cache. NDC y is not flipped.
func (c *Camera) RayDirection(x, y int) mgl32.Vec3 {
	coord := mgl32.Vec2{
		float32(x) / float32(c.viewportWidth),
		float32(y) / float32(c.viewportHeight),
	}
	coord = coord.Mul(2).Sub(mgl32.Vec2{1, 1}) // -1 -> 1

	target := c.inverseProjection.Mul4x1(mgl32.Vec4{coord.X(), coord.Y(), 1, 1})
	viewDir := target.Vec3().Mul(1 / target.W()).Normalize()
	return c.inverseView.Mul4x1(viewDir.Vec4(0)).Vec3()
}
