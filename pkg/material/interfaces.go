// Package material implements the spectral PBR/emissive/constant material
// model: sampling, PDF evaluation and emission, per spec §4.4.
package material

import (
	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// ScatterRecord is the result of sampling a material's scattering event.
// Scattered always carries the proposed ray. When SkipPDF is true (specular
// reflection/transmission: effectively a delta distribution), Attenuation
// is the full per-bounce weight and the integrator multiplies it in
// directly with no PDF division and no light-sampling MIS, since a delta
// BSDF can't be hit by light sampling anyway. When SkipPDF is false
// (the diffuse lobe), Attenuation is the BRDF value f_s (not pre-multiplied
// by cosine or divided by PDF) and ScatteringPDF must be consulted so the
// integrator can combine it with direct light sampling via MIS, per
// spec §4.6.
type ScatterRecord struct {
	Attenuation spectral.Spectrum
	SkipPDF     bool
	Scattered   core.Ray
}

// Material is the polymorphic interface every material kind satisfies:
// PBR (diffuse/specular/transmissive), Emissive and Constant.
type Material interface {
	// SampleScatter proposes a scattered ray and its attenuation. ok is
	// false for materials that never scatter (Constant, and Emissive).
	SampleScatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) (ScatterRecord, bool)

	// ScatteringPDF is the density, with respect to solid angle over the
	// upper hemisphere, of sampling rayScattered from rayIn at hit. Only
	// meaningful for materials that do not set SkipPDF.
	ScatteringPDF(rayIn core.Ray, hit geometry.HitRecord, rayScattered core.Ray) float64

	// EvaluateBSDF returns the BSDF value f_s for an arbitrary outgoing
	// direction (not necessarily one SampleScatter would have produced),
	// used by the integrator's next-event-estimation light sampling.
	// Delta-like lobes (specular reflection/transmission) return black:
	// light sampling can never land exactly on a delta direction, so they
	// contribute nothing to direct lighting and are only reachable via
	// BSDF sampling.
	EvaluateBSDF(rayIn core.Ray, hit geometry.HitRecord, direction core.Vec3) spectral.Spectrum

	// Emit returns the material's self-emission at the hit.
	Emit(rayIn core.Ray, hit geometry.HitRecord) spectral.Spectrum

	// IsVisible reports whether the material participates in ray hit
	// queries as a visible surface; an invisible material's hit is skipped
	// by the integrator with a small positional bias.
	IsVisible() bool

	// CastsShadow reports whether the material occludes shadow/light-
	// sampling rays. Emissive materials return false: a light does not
	// shadow itself.
	CastsShadow() bool

	// FastPreviewColor returns the material's flat preview color, used by
	// the integrator's fast-preview mode (§9: base_color * shading_factor).
	FastPreviewColor() spectral.Spectrum
}
