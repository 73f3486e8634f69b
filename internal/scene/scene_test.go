package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func oneSphere(center mgl32.Vec3, radius float32) *Scene {
	s := &Scene{}
	m := s.AddMaterial(Material{Albedo: mgl32.Vec3{1, 1, 1}, Roughness: 1})
	s.AddSphere(center, radius, m)
	return s
}

func TestTraceRayHitsSurfaceAtRadius(t *testing.T) {
	tests := []struct {
		name   string
		center mgl32.Vec3
		radius float32
		dir    mgl32.Vec3
	}{
		{"unit dir +z", mgl32.Vec3{0, 0, 0}, 1, mgl32.Vec3{0, 0, 1}},
		{"unit dir diagonal", mgl32.Vec3{1, 2, 3}, 0.5, mgl32.Vec3{1, 1, 1}.Normalize()},
		{"large sphere", mgl32.Vec3{-4, 0, 10}, 7, mgl32.Vec3{0, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := oneSphere(tt.center, tt.radius)
			// origin sits 2r before the center; the surface is r away
			origin := tt.center.Sub(tt.dir.Mul(2 * tt.radius))
			hit := s.TraceRay(Ray{Origin: origin, Direction: tt.dir})

			if !hit.Hit() {
				t.Fatalf("expected hit, got miss")
			}
			if !approx(hit.HitDistance, tt.radius) {
				t.Errorf("hit distance = %f, want %f", hit.HitDistance, tt.radius)
			}
			if hit.ObjectIndex != 0 {
				t.Errorf("object index = %d, want 0", hit.ObjectIndex)
			}
			wantPos := tt.center.Sub(tt.dir.Mul(tt.radius))
			if !hit.WorldPosition.ApproxEqualThreshold(wantPos, eps) {
				t.Errorf("world position = %v, want %v", hit.WorldPosition, wantPos)
			}
			wantNormal := tt.dir.Mul(-1)
			if !hit.WorldNormal.ApproxEqualThreshold(wantNormal, eps) {
				t.Errorf("normal = %v, want %v", hit.WorldNormal, wantNormal)
			}
		})
	}
}

func TestTraceRayUnnormalizedDirection(t *testing.T) {
	s := oneSphere(mgl32.Vec3{0, 0, -5}, 1)
	// direction length 4; t is measured in direction units
	hit := s.TraceRay(Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{0, 0, -4}})
	if !hit.Hit() {
		t.Fatalf("expected hit")
	}
	if !approx(hit.HitDistance, 1) {
		t.Errorf("hit distance = %f, want 1", hit.HitDistance)
	}
	if !hit.WorldPosition.ApproxEqualThreshold(mgl32.Vec3{0, 0, -4}, eps) {
		t.Errorf("world position = %v", hit.WorldPosition)
	}
	if l := hit.WorldNormal.Len(); !approx(l, 1) {
		t.Errorf("normal length = %f", l)
	}
}

func TestTraceRaySphereBehindOrigin(t *testing.T) {
	s := oneSphere(mgl32.Vec3{0, 0, 5}, 1)
	hit := s.TraceRay(Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{0, 0, -1}})
	if hit.Hit() {
		t.Fatalf("expected miss for sphere behind the origin, got %+v", hit)
	}
	if hit.HitDistance != -1 || hit.ObjectIndex != NoObject {
		t.Errorf("miss payload = %+v", hit)
	}
}

func TestTraceRayOriginInsideSphereMisses(t *testing.T) {
	s := oneSphere(mgl32.Vec3{}, 2)
	hit := s.TraceRay(Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{1, 0, 0}})
	if hit.Hit() {
		t.Fatalf("near root is behind the origin, expected miss")
	}
}

func TestTraceRayEmptyScene(t *testing.T) {
	s := &Scene{}
	dirs := []mgl32.Vec3{{0, 0, -1}, {1, 0, 0}, {0, 0, 0}, {0.3, -0.2, 0.9}}
	for _, d := range dirs {
		hit := s.TraceRay(Ray{Direction: d})
		if hit.Hit() || hit.ObjectIndex != NoObject || hit.HitDistance != -1 {
			t.Errorf("dir %v: expected miss payload, got %+v", d, hit)
		}
	}
}

func TestTraceRayDegenerateDirection(t *testing.T) {
	s := oneSphere(mgl32.Vec3{0, 0, -3}, 1)
	hit := s.TraceRay(Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{}})
	if hit.Hit() {
		t.Fatalf("zero direction must miss, got %+v", hit)
	}
}

func TestTraceRayPicksClosest(t *testing.T) {
	s := &Scene{}
	m := s.AddMaterial(Material{})
	s.AddSphere(mgl32.Vec3{0, 0, -10}, 1, m)
	s.AddSphere(mgl32.Vec3{0, 0, -4}, 1, m)
	s.AddSphere(mgl32.Vec3{0, 0, -7}, 1, m)

	hit := s.TraceRay(Ray{Direction: mgl32.Vec3{0, 0, -1}})
	if hit.ObjectIndex != 1 {
		t.Fatalf("closest object = %d, want 1", hit.ObjectIndex)
	}
	if !approx(hit.HitDistance, 3) {
		t.Errorf("hit distance = %f, want 3", hit.HitDistance)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		scene   *Scene
		wantErr bool
	}{
		{"default", Default(), false},
		{"single emissive", SingleEmissive(), false},
		{"empty", &Scene{}, false},
		{"index past end", &Scene{
			Spheres:   []Sphere{{Radius: 1, MaterialIndex: 1}},
			Materials: []Material{{}},
		}, true},
		{"negative index", &Scene{
			Spheres:   []Sphere{{Radius: 1, MaterialIndex: -1}},
			Materials: []Material{{}},
		}, true},
		{"no materials", &Scene{Spheres: []Sphere{{Radius: 1}}}, true},
		{"zero radius", &Scene{
			Spheres:   []Sphere{{Radius: 0}},
			Materials: []Material{{}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scene.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrSceneInconsistency) {
					t.Fatalf("Validate() = %v, want ErrSceneInconsistency", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestMaterialEmission(t *testing.T) {
	m := Material{EmissionColor: mgl32.Vec3{0.5, 0.25, 1}, EmissionPower: 2}
	if got := m.Emission(); got != (mgl32.Vec3{1, 0.5, 2}) {
		t.Errorf("Emission() = %v", got)
	}

	s := Default()
	if got := s.Material(1).EmissionPower; got != 2 {
		t.Errorf("orange sphere emission power = %f, want 2", got)
	}
}

func BenchmarkTraceRay(b *testing.B) {
	s := Default()
	ray := Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{0.1, -0.05, -1}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.TraceRay(ray)
	}
}

func TestDefaultHasMirror(t *testing.T) {
	s := Default()
	m := s.Material(0)
	if m.Metallic != 1 || m.Roughness != 0 {
		t.Errorf("center sphere metallic %v roughness %v, want a perfect mirror", m.Metallic, m.Roughness)
	}
}
