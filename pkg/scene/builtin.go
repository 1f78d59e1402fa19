package scene

import (
	"math"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/lights"
	"github.com/rayspectral/raydar/pkg/material"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// defaultCameraSpec looks down -z from the origin, matching spec §8's
// end-to-end scenarios, each of which places geometry/lights relative to
// this view rather than configuring a bespoke camera.
func defaultCameraSpec() CameraSpec {
	return CameraSpec{
		FOVDeg: 90,
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
	}
}

// NewEmptyScene is spec §8 scenario 1: no geometry, no lights, a pure black
// background — every pixel of a render of this scene should come out 0.
func NewEmptyScene() (*Scene, CameraSpec) {
	return NewScene(nil, nil, nil, spectral.NewSpectrum()), defaultCameraSpec()
}

// NewSingleEmissiveQuadScene is spec §8 scenario 2: one emissive
// parallelogram lit with D65, no other geometry.
func NewSingleEmissiveQuadScene() (*Scene, CameraSpec) {
	emissive := material.NewEmissive(spectral.D65())
	light := lights.NewAreaLight(core.NewVec3(-1, -1, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), 0)

	materials := []material.Material{emissive}
	sc := NewScene(materials, nil, []*lights.AreaLight{light}, spectral.NewSpectrum())
	return sc, defaultCameraSpec()
}

// NewDiffuseFloorScene is spec §8 scenario 3: a large diffuse gray quad
// floor with a single emissive quad light centered above it.
func NewDiffuseFloorScene() (*Scene, CameraSpec) {
	table := spectral.BuildRGBToSpectrumTable(spectral.NewObserver(spectral.SRGB), 0.1)

	floorMat := material.NewPBRMaterial()
	floorMat.BaseWeight = 1
	floorMat.BaseColor = material.NewConstantTexture(table.FromRGB(0.5, 0.5, 0.5))

	floor := geometry.NewMesh([]geometry.Triangle{
		geometry.NewTriangle(
			core.NewVec3(-50, -1, -50), core.NewVec3(50, -1, -50), core.NewVec3(50, -1, 50),
			core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0,
		),
		geometry.NewTriangle(
			core.NewVec3(-50, -1, -50), core.NewVec3(50, -1, 50), core.NewVec3(-50, -1, 50),
			core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0,
		),
	})

	emissive := material.NewEmissive(spectral.NewConstantSpectrum(15))
	light := lights.NewAreaLight(core.NewVec3(-1, 5, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), 1)

	materials := []material.Material{floorMat, emissive}
	sc := NewScene(materials, []geometry.Mesh{floor}, []*lights.AreaLight{light}, spectral.NewSpectrum())
	return sc, CameraSpec{FOVDeg: 60, Center: core.NewVec3(0, 2, 6), LookAt: core.NewVec3(0, -1, 0), Up: core.NewVec3(0, 1, 0)}
}

// NewSpecularMetalScene is spec §8 scenario 4's material: a roughness-0,
// metalness-1 sphere approximated as a 16x8 UV-sphere triangle mesh (this repo has no
// analytic sphere primitive, per SPEC_FULL.md's Triangle/Mesh-only
// geometry), lit by a single bright directional-like quad.
func NewSpecularMetalScene() (*Scene, CameraSpec) {
	table := spectral.BuildRGBToSpectrumTable(spectral.NewObserver(spectral.SRGB), 0.1)

	metal := material.NewPBRMaterial()
	metal.SpecularWeight = 1
	metal.BaseMetalness = 1
	metal.SpecularColor = table.FromRGB(1, 1, 1)
	metal.SpecularRoughness = 0

	sphere := tessellateSphere(core.NewVec3(0, 0, -3), 1, 16, 8, 0)

	emissive := material.NewEmissive(spectral.NewConstantSpectrum(20))
	light := lights.NewAreaLight(core.NewVec3(-2, 4, -4), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 1), 1)

	materials := []material.Material{metal, emissive}
	sc := NewScene(materials, []geometry.Mesh{sphere}, []*lights.AreaLight{light}, spectral.NewSpectrum())
	return sc, defaultCameraSpec()
}

// NewRefractiveSlabScene is spec §8 scenario 5: a parallel-sided glass slab
// (ior=1.5, transmission=1), modeled as two large parallel quads.
func NewRefractiveSlabScene() (*Scene, CameraSpec) {
	glass := material.NewPBRMaterial()
	glass.TransmissionWeight = 1
	glass.SpecularIOR = 1.5
	glass.ShadowCast = false

	front := geometry.NewMesh([]geometry.Triangle{
		geometry.NewTriangle(
			core.NewVec3(-2, -2, -3), core.NewVec3(2, -2, -3), core.NewVec3(2, 2, -3),
			core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0,
		),
		geometry.NewTriangle(
			core.NewVec3(-2, -2, -3), core.NewVec3(2, 2, -3), core.NewVec3(-2, 2, -3),
			core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0,
		),
	})
	back := geometry.NewMesh([]geometry.Triangle{
		geometry.NewTriangle(
			core.NewVec3(-2, -2, -3.5), core.NewVec3(2, -2, -3.5), core.NewVec3(2, 2, -3.5),
			core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0,
		),
		geometry.NewTriangle(
			core.NewVec3(-2, -2, -3.5), core.NewVec3(2, 2, -3.5), core.NewVec3(-2, 2, -3.5),
			core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 0,
		),
	})

	materials := []material.Material{glass}
	sc := NewScene(materials, []geometry.Mesh{front, back}, nil, spectral.NewConstantSpectrum(0.2))
	return sc, defaultCameraSpec()
}

// tessellateSphere builds a UV-sphere approximation out of triangles, used
// where a scenario calls for a sphere but this repo's geometry package only
// has Triangle/Mesh primitives (spec's Non-goals exclude analytic quadric
// intersection routines beyond the triangle/parallelogram pair).
func tessellateSphere(center core.Vec3, radius float64, slices, stacks, mat int) geometry.Mesh {
	var triangles []geometry.Triangle

	point := func(theta, phi float64) core.Vec3 {
		sinTheta := math.Sin(theta)
		dir := core.NewVec3(
			sinTheta*math.Cos(phi),
			math.Cos(theta),
			sinTheta*math.Sin(phi),
		)
		return center.Add(dir.Multiply(radius))
	}

	for i := 0; i < stacks; i++ {
		theta0 := math.Pi * float64(i) / float64(stacks)
		theta1 := math.Pi * float64(i+1) / float64(stacks)
		for j := 0; j < slices; j++ {
			phi0 := 2 * math.Pi * float64(j) / float64(slices)
			phi1 := 2 * math.Pi * float64(j+1) / float64(slices)

			p00 := point(theta0, phi0)
			p01 := point(theta0, phi1)
			p10 := point(theta1, phi0)
			p11 := point(theta1, phi1)

			n00 := p00.Subtract(center).Normalize()
			n01 := p01.Subtract(center).Normalize()
			n10 := p10.Subtract(center).Normalize()
			n11 := p11.Subtract(center).Normalize()

			triangles = append(triangles,
				geometry.NewTriangle(p00, p10, p11, n00, n10, n11, true, mat),
				geometry.NewTriangle(p00, p11, p01, n00, n11, n01, true, mat),
			)
		}
	}
	return geometry.NewMesh(triangles)
}
