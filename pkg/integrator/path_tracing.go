package integrator

import (
	"math"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/material"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// positionalBias nudges a ray forward past an invisible-material hit point
// and past a light-sampling shadow-ray origin, matching spec §4.2/§4.4's
// epsilon to avoid self-intersection.
const positionalBias = 1e-4

// pdfFloor is the minimum BSDF-sampling PDF the integrator will divide by,
// per spec §7's PDF-underflow handling: p <- max(p, epsilon).
const pdfFloor = 1e-6

// PathTracer implements spec §4.6's estimator as an explicit loop (not
// recursion) so path depth doesn't grow the call stack, per spec §9.
type PathTracer struct {
	MaxDepth int
	// FastPreview short-circuits shading to each material's flat preview
	// color, for interactive/low-latency viewport rendering.
	FastPreview bool
}

func NewPathTracer(maxDepth int) *PathTracer {
	return &PathTracer{MaxDepth: maxDepth}
}

// Li estimates the radiance arriving at the camera along ray, following
// spec §4.6's step-by-step algorithm: background on miss, emission at every
// hit, then either a skip-PDF bounce (specular/transmission, full weight
// applied directly) or a light+BSDF MIS bounce (diffuse): next-event
// estimation toward a sampled light, plus a BSDF-sampled continuation
// weighted by the power heuristic against that light-sampling strategy.
func (pt *PathTracer) Li(ray core.Ray, scene Scene, sampler core.Sampler) spectral.Spectrum {
	result := spectral.NewSpectrum()
	throughput := spectral.NewConstantSpectrum(1.0)
	currentRay := ray
	rayT := core.Interval{Min: 1e-4, Max: math.Inf(1)}

	for depth := 0; depth < pt.MaxDepth; {
		hit, ok := scene.Hit(currentRay, rayT)
		if !ok {
			result = result.Add(throughput.Multiply(scene.Background(currentRay)))
			break
		}

		mat := scene.Material(hit.Material)

		if !mat.IsVisible() {
			// Pass straight through: re-cast from just beyond the hit point
			// without consuming the depth budget, per spec §4.4's
			// invisible-material handling.
			origin := hit.P.Add(currentRay.Direction.Normalize().Multiply(positionalBias))
			currentRay = core.NewRay(origin, currentRay.Direction)
			continue
		}

		if pt.FastPreview {
			shading := fastPreviewShading(hit)
			preview := mat.FastPreviewColor().Scale(shading)
			result = result.Add(throughput.Multiply(preview))
			break
		}

		result = result.Add(throughput.Multiply(mat.Emit(currentRay, hit)))

		scatter, scattered := mat.SampleScatter(currentRay, hit, sampler)
		if !scattered {
			break
		}

		if scatter.SkipPDF {
			throughput = throughput.Multiply(scatter.Attenuation)
			currentRay = scatter.Scattered
			depth++
			continue
		}

		result = result.Add(throughput.Multiply(
			pt.sampleDirectLight(hit, mat, currentRay, scene, sampler)))

		bsdfPDF := mat.ScatteringPDF(currentRay, hit, scatter.Scattered)
		if bsdfPDF <= 0 {
			break
		}
		bsdfPDF = math.Max(bsdfPDF, pdfFloor)

		cosTheta := scatter.Scattered.Direction.Normalize().Dot(hit.Normal)
		if cosTheta <= 0 {
			break
		}
		lightPDF := scene.Lights().PDFValue(hit.P, scatter.Scattered.Direction)
		weight := core.PowerHeuristic(1, bsdfPDF, 1, lightPDF)
		throughput = throughput.Multiply(scatter.Attenuation).Scale(weight * cosTheta / bsdfPDF)
		currentRay = scatter.Scattered
		depth++
	}

	return result
}

// sampleDirectLight implements next-event estimation: sample a point on a
// uniformly chosen area light, shadow-test it, and weight its contribution
// by the power-heuristic MIS weight against the material's own PDF for that
// direction, per spec §4.5/§4.6.
func (pt *PathTracer) sampleDirectLight(hit geometry.HitRecord, mat material.Material, rayIn core.Ray, scene Scene, sampler core.Sampler) spectral.Spectrum {
	light, selectionPDF, ok := scene.Lights().Sample(sampler.Get1D())
	if !ok {
		return spectral.NewSpectrum()
	}

	toLight := light.Sample(hit.P, sampler)
	direction := toLight.Normalize()
	distance := toLight.Length()

	cosTheta := direction.Dot(hit.Normal)
	if cosTheta <= 0 {
		return spectral.NewSpectrum()
	}

	lightPDF := selectionPDF * light.PDFValue(hit.P, toLight)
	if lightPDF <= 0 {
		return spectral.NewSpectrum()
	}

	shadowOrigin := hit.P.Add(hit.Normal.Multiply(positionalBias))
	shadowRay := core.NewRay(shadowOrigin, direction)
	if scene.Occluded(shadowRay, distance-2*positionalBias) {
		return spectral.NewSpectrum()
	}

	lightMat := scene.Material(light.Material)
	lightHit := geometry.HitRecord{
		Normal:    light.Normal,
		FrontFace: direction.Dot(light.Normal) < 0,
	}
	emission := lightMat.Emit(shadowRay, lightHit)
	if emission.IsBlack() {
		return spectral.NewSpectrum()
	}

	bsdfValue := mat.EvaluateBSDF(rayIn, hit, direction)
	bsdfPDF := mat.ScatteringPDF(rayIn, hit, shadowRay)
	weight := core.PowerHeuristic(1, lightPDF, 1, bsdfPDF)

	return bsdfValue.Multiply(emission).Scale(cosTheta * weight / lightPDF)
}

// fastPreviewShading is the §9 open-question resolution for fast-preview
// mode: a simple up-vector dot-product shading factor, clamped to stay
// visibly lit even on surfaces facing away from +Y.
func fastPreviewShading(hit geometry.HitRecord) float64 {
	const ambient = 0.2
	up := core.Vec3{Y: 1}
	factor := ambient + (1-ambient)*math.Max(0, hit.Normal.Dot(up))
	return factor
}
