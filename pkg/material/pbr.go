package material

import (
	"math"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// positionalBias nudges a scattered ray's origin off the surface along the
// shading normal, to the side the new ray leaves from, to avoid
// self-intersection, matching spec §4.2's ε_ray_min.
const positionalBias = 1e-3

// PBRMaterial is the diffuse+specular+transmissive material of spec §4.4.
// Base/specular/transmission weights are normalized to sum to 1 on every
// scatter, so they may be configured independently.
type PBRMaterial struct {
	BaseWeight   float64
	BaseColor    Texture
	BaseMetalness float64

	SpecularWeight   float64
	SpecularColor    spectral.Spectrum
	SpecularRoughness float64
	SpecularIOR       float64

	TransmissionWeight float64
	TransmissionColor  spectral.Spectrum

	// DispersionCoeff is the wavelength term of dispersedIOR:
	// ior + DispersionCoeff*(lambda-550)/300. SampleScatter evaluates the IOR
	// only at heroWavelengthDefault (550nm), where the term is zero, so a
	// nonzero DispersionCoeff does not change scattering. Default 0.
	DispersionCoeff float64

	Visible    bool
	ShadowCast bool
}

// NewPBRMaterial returns a PBRMaterial with visibility/shadow-casting
// defaulted on, as most surfaces are.
func NewPBRMaterial() *PBRMaterial {
	return &PBRMaterial{Visible: true, ShadowCast: true}
}

func (m *PBRMaterial) IsVisible() bool    { return m.Visible }
func (m *PBRMaterial) CastsShadow() bool  { return m.ShadowCast }
func (m *PBRMaterial) Emit(core.Ray, geometry.HitRecord) spectral.Spectrum {
	return spectral.NewSpectrum()
}

// FastPreviewColor implements spec §9's resolution of the fast-preview open
// question: base_color evaluated at a nominal (0.5, 0.5) UV, undamped by
// shading (the integrator multiplies in the shading_factor itself).
func (m *PBRMaterial) FastPreviewColor() spectral.Spectrum {
	return m.BaseColor.Sample(0.5, 0.5)
}

// normalizedWeights returns (wBase, wSpecular, wTransmission) summing to 1.
// If all three configured weights are zero, the surface is treated as fully
// diffuse (wBase=1) so a misconfigured material still scatters instead of
// silently absorbing every ray.
func (m *PBRMaterial) normalizedWeights() (wb, ws, wt float64) {
	total := m.BaseWeight + m.SpecularWeight + m.TransmissionWeight
	if total <= 0 {
		return 1, 0, 0
	}
	return m.BaseWeight / total, m.SpecularWeight / total, m.TransmissionWeight / total
}

// dispersedIOR applies the configurable dispersion coefficient to the
// specular IOR for a given wavelength in nanometers.
func (m *PBRMaterial) dispersedIOR(wavelengthNM float64) float64 {
	return m.SpecularIOR + m.DispersionCoeff*(wavelengthNM-550.0)/300.0
}

// heroWavelengthDefault is the single wavelength at which the specular IOR
// is evaluated. Every path carries the full spectrum and there is no
// per-path hero wavelength, so 550nm (green, dispersion-neutral) stands in
// for all wavelengths and no dispersion is applied.
const heroWavelengthDefault = 550.0

// SampleScatter implements spec §4.4's three-way branch: normalize weights,
// draw a uniform variate to choose diffuse vs specular/transmission, then
// either cosine-sample the diffuse hemisphere or reflect/refract based on
// Schlick's Fresnel approximation.
func (m *PBRMaterial) SampleScatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) (ScatterRecord, bool) {
	wb, ws, wt := m.normalizedWeights()
	xi := sampler.Get1D()

	if xi < wb {
		onb := core.NewONBFromW(hit.Normal)
		dir := onb.Transform(core.RandomCosineDirection(sampler))
		origin := hit.P.Add(hit.Normal.Multiply(positionalBias))
		return ScatterRecord{
			Attenuation: m.diffuseBSDFValue(hit, wb),
			SkipPDF:     false,
			Scattered:   core.NewRay(origin, dir),
		}, true
	}

	return m.sampleSpecularTransmission(rayIn, hit, sampler, ws, wt)
}

// diffuseBSDFValue is the Lambertian BRDF value f_s = albedo/pi, scaled by
// the fraction of energy routed to the diffuse lobe and the non-metallic
// fraction (metals have no diffuse term). Cosine and the sampling PDF are
// NOT folded in here: callers apply both explicitly so the result can be
// combined with direct light sampling via MIS.
func (m *PBRMaterial) diffuseBSDFValue(hit geometry.HitRecord, wb float64) spectral.Spectrum {
	baseColor := m.BaseColor.Sample(hit.U, hit.V)
	return baseColor.Scale((1 - m.BaseMetalness) * wb / math.Pi)
}

func (m *PBRMaterial) sampleSpecularTransmission(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler, ws, wt float64) (ScatterRecord, bool) {
	ior := m.dispersedIOR(heroWavelengthDefault)

	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / ior
	} else {
		refractionRatio = ior
	}

	unitDir := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unitDir.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	totalInternalReflection := refractionRatio*sinTheta > 1.0
	reflectance := core.SchlickReflectance(cosTheta, refractionRatio)

	xi := sampler.Get1D()
	if totalInternalReflection || reflectance > xi {
		reflectDir := core.Reflect(unitDir, hit.Normal)
		if m.SpecularRoughness > 0 {
			reflectDir = reflectDir.Add(randomInUnitSphere(sampler).Multiply(m.SpecularRoughness)).Normalize()
		}
		origin := hit.P.Add(hit.Normal.Multiply(positionalBias))
		return ScatterRecord{
			Attenuation: m.SpecularColor.Scale(ws),
			SkipPDF:     true,
			Scattered:   core.NewRay(origin, reflectDir),
		}, true
	}

	// Transmission crosses to the far side of the surface, so the bias is
	// applied against the normal instead of along it.
	origin := hit.P.Add(hit.Normal.Multiply(-positionalBias))
	refractDir := core.Refract(unitDir, hit.Normal, refractionRatio)
	return ScatterRecord{
		Attenuation: m.TransmissionColor.Scale(wt),
		SkipPDF:     true,
		Scattered:   core.NewRay(origin, refractDir),
	}, true
}

// randomInUnitSphere draws a uniform point in the unit ball by rejection
// sampling, used to roughen specular reflection directions.
func randomInUnitSphere(sampler core.Sampler) core.Vec3 {
	for i := 0; i < 64; i++ {
		x := sampler.Get1D()*2 - 1
		y := sampler.Get1D()*2 - 1
		z := sampler.Get1D()*2 - 1
		v := core.Vec3{X: x, Y: y, Z: z}
		if v.LengthSquared() < 1 {
			return v
		}
	}
	return core.Vec3{}
}

// ScatteringPDF returns the density of the cosine-weighted diffuse lobe for
// rayScattered; it is meaningful only alongside a non-SkipPDF ScatterRecord
// (the diffuse branch), since specular/transmission set SkipPDF and are
// never consulted for MIS.
func (m *PBRMaterial) ScatteringPDF(rayIn core.Ray, hit geometry.HitRecord, rayScattered core.Ray) float64 {
	cosTheta := rayScattered.Direction.Normalize().Dot(hit.Normal)
	return core.CosineHemispherePDF(cosTheta)
}

// EvaluateBSDF returns the diffuse lobe's BRDF value for an arbitrary
// direction in the upper hemisphere (used by next-event estimation), and
// black outside it or for the specular/transmission lobes, which are
// delta-like and unreachable by light sampling.
func (m *PBRMaterial) EvaluateBSDF(rayIn core.Ray, hit geometry.HitRecord, direction core.Vec3) spectral.Spectrum {
	if direction.Normalize().Dot(hit.Normal) <= 0 {
		return spectral.NewSpectrum()
	}
	wb, _, _ := m.normalizedWeights()
	return m.diffuseBSDFValue(hit, wb)
}
