package scene

import "github.com/go-gl/mathgl/mgl32"

// Default is the interactive start-up scene: a mirror-like pink sphere, an
// emissive orange sphere beside it and a large blue sphere acting as ground.
func Default() *Scene {
	s := &Scene{}

	pink := s.AddMaterial(Material{
		Albedo:    mgl32.Vec3{1, 0, 1},
		Roughness: 0,
		Metallic:  1,
	})
	blue := s.AddMaterial(Material{
		Albedo:    mgl32.Vec3{0.2, 0.3, 1},
		Roughness: 0.1,
	})
	orange := s.AddMaterial(Material{
		Albedo:        mgl32.Vec3{0.8, 0.5, 0.2},
		Roughness:     0.1,
		EmissionColor: mgl32.Vec3{0.8, 0.5, 0.2},
		EmissionPower: 2,
	})

	s.AddSphere(mgl32.Vec3{0, 0, 0}, 1, pink)
	s.AddSphere(mgl32.Vec3{2, 0, 0}, 1, orange)
	s.AddSphere(mgl32.Vec3{0, -101, 0}, 100, blue)
	return s
}

// SingleEmissive is one white light sphere of radius 0.5 at the origin.
func SingleEmissive() *Scene {
	s := &Scene{}
	white := s.AddMaterial(Material{
		Albedo:        mgl32.Vec3{1, 1, 1},
		Roughness:     1,
		EmissionColor: mgl32.Vec3{1, 1, 1},
		EmissionPower: 1,
	})
	s.AddSphere(mgl32.Vec3{0, 0, 0}, 0.5, white)
	return s
}
