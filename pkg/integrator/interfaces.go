// Package integrator implements the unidirectional spectral path tracer of
// spec §4.6: an explicit-loop (non-recursive) light transport estimator
// combining BSDF sampling with direct light sampling via multiple
// importance sampling.
package integrator

import (
	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/lights"
	"github.com/rayspectral/raydar/pkg/material"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// Scene is the minimal view of the scene the integrator needs: a
// geometry BVH to intersect, a material table indexed by
// geometry.HitRecord.Material, a light sampler for next-event estimation
// and a background spectrum for rays that escape the scene. pkg/scene
// implements this interface, kept here as a narrow abstraction so the
// integrator doesn't need to import pkg/scene's loading machinery.
type Scene interface {
	Hit(ray core.Ray, rayT core.Interval) (geometry.HitRecord, bool)
	// Occluded reports whether anything that casts a shadow (per
	// material.Material.CastsShadow) blocks ray before maxDistance; area
	// lights themselves don't occlude their own shadow rays.
	Occluded(ray core.Ray, maxDistance float64) bool
	Material(index int) material.Material
	Lights() *lights.UniformLightSampler
	Background(ray core.Ray) spectral.Spectrum
}
