// Package scene wires loaded geometry, materials and lights into the
// concrete implementation of pkg/integrator's Scene interface, and defines
// the Loader interface of spec §6 plus a default YAML-backed adapter.
package scene

import (
	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/lights"
	"github.com/rayspectral/raydar/pkg/material"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// maxShadowBounces bounds the Occluded march-through-invisible-surfaces
// loop below, guarding against a degenerate scene of back-to-back
// non-shadow-casting materials looping forever.
const maxShadowBounces = 16

// shadowBias nudges a continued shadow ray past the hit point it just
// passed through, matching the integrator's own positional bias.
const shadowBias = 1e-4

// maxMeshLeafSize is spec §4.3's mesh-splitting pre-pass leaf bound: every
// mesh handed to NewScene is cut into Mesh leaves of at most this many
// triangles before becoming a BVH primitive, except where SplitMesh stops on
// a set whose median split would leave one side empty and emits it whole.
const maxMeshLeafSize = 10

// Scene is the concrete, immutable-during-render scene: a materials table
// indexed exactly as geometry.HitRecord.Material references it (spec §9's
// cyclic-reference resolution), a single top-level BVH over every mesh and
// area light, a light sampler for next-event estimation, and a background
// spectrum returned for rays that escape the scene entirely.
type Scene struct {
	Materials          []material.Material
	BVH                *geometry.BVHNode
	Sampler            *lights.UniformLightSampler
	backgroundSpectrum spectral.Spectrum
}

// NewScene builds a Scene from already-index-bound meshes and lights: each
// mesh is first cut into maxMeshLeafSize-triangle leaves by
// geometry.SplitMesh (spec §4.3's mesh-splitting pre-pass), so the top-level
// BVH indexes many small leaves per mesh instead of treating an entire
// loaded mesh as a single linear-scan primitive. BVH construction happens
// once, eagerly, before the first render, per SPEC_FULL.md §3's Scene
// lifecycle invariant.
func NewScene(materials []material.Material, meshes []geometry.Mesh, areaLights []*lights.AreaLight, background spectral.Spectrum) *Scene {
	prims := make([]geometry.Primitive, 0, len(meshes)+len(areaLights))
	for i := range meshes {
		for _, leaf := range geometry.SplitMesh(meshes[i].Triangles, maxMeshLeafSize) {
			prims = append(prims, leaf)
		}
	}
	for _, l := range areaLights {
		prims = append(prims, l)
	}

	var bvh *geometry.BVHNode
	if len(prims) > 0 {
		bvh = geometry.BuildBVH(prims)
	}

	return &Scene{
		Materials:          materials,
		BVH:                bvh,
		Sampler:            lights.NewUniformLightSampler(areaLights),
		backgroundSpectrum: background,
	}
}

func (s *Scene) Hit(ray core.Ray, rayT core.Interval) (geometry.HitRecord, bool) {
	if s.BVH == nil {
		return geometry.HitRecord{}, false
	}
	return s.BVH.Hit(ray, rayT)
}

// Occluded marches along ray, passing straight through any hit whose
// material doesn't cast a shadow (area lights, per spec §4.4), and reports
// true as soon as it finds one that does within maxDistance.
func (s *Scene) Occluded(ray core.Ray, maxDistance float64) bool {
	if s.BVH == nil || maxDistance <= 0 {
		return false
	}

	currentRay := ray
	remaining := maxDistance
	for i := 0; i < maxShadowBounces; i++ {
		rec, ok := s.BVH.Hit(currentRay, core.Interval{Min: 1e-4, Max: remaining})
		if !ok {
			return false
		}
		if s.Materials[rec.Material].CastsShadow() {
			return true
		}
		remaining -= rec.T + shadowBias
		if remaining <= 0 {
			return false
		}
		origin := rec.P.Add(currentRay.Direction.Normalize().Multiply(shadowBias))
		currentRay = core.NewRay(origin, currentRay.Direction)
	}
	return false
}

func (s *Scene) Material(index int) material.Material { return s.Materials[index] }
func (s *Scene) Lights() *lights.UniformLightSampler   { return s.Sampler }
func (s *Scene) Background(core.Ray) spectral.Spectrum { return s.backgroundSpectrum }
