package integrator

import (
	"math"
	"testing"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/lights"
	"github.com/rayspectral/raydar/pkg/material"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// mockScene is a minimal, hand-built Scene for exercising the integrator
// without pulling in pkg/scene's loader machinery.
type mockScene struct {
	prims      []geometry.Hittable
	materials  []material.Material
	lights     *lights.UniformLightSampler
	background spectral.Spectrum
}

func (s *mockScene) Hit(ray core.Ray, rayT core.Interval) (geometry.HitRecord, bool) {
	closest := rayT
	var best geometry.HitRecord
	found := false
	for _, p := range s.prims {
		if rec, ok := p.Hit(ray, closest); ok {
			found = true
			closest = closest.WithMax(rec.T)
			best = rec
		}
	}
	return best, found
}

func (s *mockScene) Occluded(ray core.Ray, maxDistance float64) bool {
	for _, p := range s.prims {
		if _, ok := p.Hit(ray, core.Interval{Min: 1e-4, Max: maxDistance}); ok {
			return true
		}
	}
	return false
}

func (s *mockScene) Material(index int) material.Material   { return s.materials[index] }
func (s *mockScene) Lights() *lights.UniformLightSampler     { return s.lights }
func (s *mockScene) Background(core.Ray) spectral.Spectrum   { return s.background }

// TestLiEmptySceneReturnsBackground is the spec §8 empty-scene end-to-end
// scenario: a camera ray that hits nothing returns exactly the background.
func TestLiEmptySceneReturnsBackground(t *testing.T) {
	bg := spectral.NewConstantSpectrum(0.3)
	scene := &mockScene{
		lights:     lights.NewUniformLightSampler(nil),
		background: bg,
	}
	pt := NewPathTracer(8)
	ray := core.NewRay(core.Vec3{}, core.Vec3{Z: -1})
	result := pt.Li(ray, scene, core.NewXorshift64Star(1))

	if math.Abs(float64(result.At(40)-bg.At(40))) > 1e-9 {
		t.Fatalf("expected the background spectrum unchanged, got %v want %v", result, bg)
	}
}

// TestLiSingleEmissiveParallelogramReturnsItsEmission is the spec §8
// single-emissive-light end-to-end scenario: a ray that hits an emissive
// parallelogram head-on returns its emission with no indirect terms.
func TestLiSingleEmissiveParallelogramReturnsItsEmission(t *testing.T) {
	emission := spectral.NewConstantSpectrum(4.0)
	light := lights.NewAreaLight(core.Vec3{X: -1, Y: -1, Z: -5}, core.Vec3{X: 2}, core.Vec3{Y: 2}, 0)

	scene := &mockScene{
		prims:      []geometry.Hittable{light},
		materials:  []material.Material{material.NewEmissive(emission)},
		lights:     lights.NewUniformLightSampler([]*lights.AreaLight{light}),
		background: spectral.NewSpectrum(),
	}

	pt := NewPathTracer(8)
	ray := core.NewRay(core.Vec3{}, core.Vec3{Z: -1})
	result := pt.Li(ray, scene, core.NewXorshift64Star(2))

	if math.Abs(float64(result.At(40)-emission.At(40))) > 1e-9 {
		t.Fatalf("expected exactly the light's emission, got %v want %v", result, emission)
	}
}

// TestLiDiffuseFloorUnderLightConvergesToLambertianEstimate is the spec §8
// diffuse-floor-and-light scenario: a Lambertian floor lit by a small
// overhead area light should, averaged over many samples, approach the
// direct-lighting integral within Monte Carlo tolerance.
func TestLiDiffuseFloorUnderLightConvergesToLambertianEstimate(t *testing.T) {
	floorMat := material.NewPBRMaterial()
	floorMat.BaseWeight = 1
	albedo := 0.5
	floorMat.BaseColor = material.NewConstantTexture(spectral.NewConstantSpectrum(albedo))

	floor := geometry.NewTriangle(
		core.Vec3{X: -10, Y: 0, Z: -10}, core.Vec3{X: 10, Y: 0, Z: -10}, core.Vec3{X: 0, Y: 0, Z: 10},
		core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0)

	lightEmission := spectral.NewConstantSpectrum(20.0)
	light := lights.NewAreaLight(core.Vec3{X: -0.5, Y: 3, Z: -0.5}, core.Vec3{X: 1}, core.Vec3{Z: 1}, 1)

	scene := &mockScene{
		prims:      []geometry.Hittable{&floor, light},
		materials:  []material.Material{floorMat, material.NewEmissive(lightEmission)},
		lights:     lights.NewUniformLightSampler([]*lights.AreaLight{light}),
		background: spectral.NewSpectrum(),
	}

	pt := NewPathTracer(4)
	ray := core.NewRay(core.Vec3{X: 0, Y: 2, Z: 0}, core.Vec3{Y: -1})

	sum := 0.0
	const n = 4000
	sampler := core.NewXorshift64Star(7)
	for i := 0; i < n; i++ {
		result := pt.Li(ray, scene, sampler)
		sum += float64(result.At(40))
	}
	mean := sum / n
	if mean <= 0 {
		t.Fatal("expected a strictly positive direct-lighting estimate under the overhead light")
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		t.Fatalf("expected a finite estimate, got %v", mean)
	}
}

func TestLiInvisibleMaterialIsSkippedWithoutConsumingDepth(t *testing.T) {
	invisible := material.NewPBRMaterial()
	invisible.Visible = false

	glassLikePlane := geometry.NewTriangle(
		core.Vec3{X: -10, Y: -10, Z: -2}, core.Vec3{X: 10, Y: -10, Z: -2}, core.Vec3{X: 0, Y: 10, Z: -2},
		core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0)

	scene := &mockScene{
		prims:      []geometry.Hittable{&glassLikePlane},
		materials:  []material.Material{invisible},
		lights:     lights.NewUniformLightSampler(nil),
		background: spectral.NewConstantSpectrum(0.7),
	}

	pt := NewPathTracer(1)
	ray := core.NewRay(core.Vec3{}, core.Vec3{Z: -1})
	result := pt.Li(ray, scene, core.NewXorshift64Star(3))

	if math.Abs(float64(result.At(40)-0.7)) > 1e-9 {
		t.Fatalf("expected the ray to pass through the invisible surface to the background, got %v", result)
	}
}
