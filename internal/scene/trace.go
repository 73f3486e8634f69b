package scene

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NoObject is the ObjectIndex of a miss.
const NoObject = math.MaxInt

// Ray is a half line. Direction does not have to be unit length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// HitPayload is the result of a scene query.
type HitPayload struct {
	HitDistance   float32 // negative on a miss
	WorldPosition mgl32.Vec3
	WorldNormal   mgl32.Vec3
	ObjectIndex   int
}

// Hit reports whether the payload describes an intersection.
func (p HitPayload) Hit() bool {
	return p.HitDistance >= 0 && p.ObjectIndex != NoObject
}

// Miss returns the payload used when a ray leaves the scene.
func Miss() HitPayload {
	return HitPayload{HitDistance: -1, ObjectIndex: NoObject}
}

// IntersectSphere returns the near root of the ray/sphere quadratic.
// ok is false when the ray misses or the near root is not in front of the origin.
func IntersectSphere(ray Ray, sp Sphere) (t float32, ok bool) {
	// a t^2 + b t + c = 0
	origin := ray.Origin.Sub(sp.Position)

	a := ray.Direction.Dot(ray.Direction)
	b := 2 * origin.Dot(ray.Direction)
	c := origin.Dot(origin) - sp.Radius*sp.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return 0, false
	}

	t = (-b - math32.Sqrt(discriminant)) / (2 * a)
	if !(t > 0) {
		return 0, false
	}
	return t, true
}

// TraceRay finds the closest sphere in front of the ray origin.
func (s *Scene) TraceRay(ray Ray) HitPayload {
	closest := NoObject
	hitDistance := float32(math.MaxFloat32)

	for i, sp := range s.Spheres {
		t, ok := IntersectSphere(ray, sp)
		if ok && t < hitDistance {
			hitDistance = t
			closest = i
		}
	}

	if closest == NoObject {
		return Miss()
	}
	return s.closestHit(ray, hitDistance, closest)
}

func (s *Scene) closestHit(ray Ray, hitDistance float32, objectIndex int) HitPayload {
	sp := s.Spheres[objectIndex]

	// work relative to the sphere center, then move back
	origin := ray.Origin.Sub(sp.Position)
	local := origin.Add(ray.Direction.Mul(hitDistance))

	return HitPayload{
		HitDistance:   hitDistance,
		WorldPosition: local.Add(sp.Position),
		WorldNormal:   local.Normalize(),
		ObjectIndex:   objectIndex,
	}
}
