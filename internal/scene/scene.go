package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrSceneInconsistency reports scene data the tracer cannot follow, such as a
// sphere pointing at a material that does not exist.
var ErrSceneInconsistency = errors.New("scene inconsistency")

// Material describes how a surface reflects and emits light.
type Material struct {
	Albedo    mgl32.Vec3
	Roughness float32
	Metallic  float32

	EmissionColor mgl32.Vec3
	EmissionPower float32
}

// Emission returns the radiance emitted by the surface.
func (m Material) Emission() mgl32.Vec3 {
	return m.EmissionColor.Mul(m.EmissionPower)
}

// Sphere is the only primitive the tracer understands.
type Sphere struct {
	Position      mgl32.Vec3
	Radius        float32
	MaterialIndex int
}

// Scene is a flat list of spheres plus the material palette they index into.
// Order does not matter; every sphere is tested for every ray.
type Scene struct {
	Spheres   []Sphere
	Materials []Material
}

// AddMaterial appends m and returns its index.
func (s *Scene) AddMaterial(m Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddSphere appends a sphere and returns its object index.
func (s *Scene) AddSphere(position mgl32.Vec3, radius float32, materialIndex int) int {
	s.Spheres = append(s.Spheres, Sphere{Position: position, Radius: radius, MaterialIndex: materialIndex})
	return len(s.Spheres) - 1
}

// Material returns the material of the sphere with the given object index.
// The scene must have passed Validate.
func (s *Scene) Material(objectIndex int) *Material {
	return &s.Materials[s.Spheres[objectIndex].MaterialIndex]
}

// Validate checks that every sphere can be shaded.
func (s *Scene) Validate() error {
	for i, sp := range s.Spheres {
		if sp.MaterialIndex < 0 || sp.MaterialIndex >= len(s.Materials) {
			return fmt.Errorf("sphere %d: material index %d out of range [0,%d): %w",
				i, sp.MaterialIndex, len(s.Materials), ErrSceneInconsistency)
		}
		if !(sp.Radius > 0) {
			return fmt.Errorf("sphere %d: radius %v must be positive: %w", i, sp.Radius, ErrSceneInconsistency)
		}
	}
	return nil
}
