package lights

import "github.com/rayspectral/raydar/pkg/core"

// UniformLightSampler implements the integrator's light-sampling half of
// multiple importance sampling (spec §4.6): it picks one of the scene's area
// lights uniformly and reports the selection probability, so the overall
// light-sampling PDF is selectionProbability * light.PDFValue(...).
type UniformLightSampler struct {
	Lights []*AreaLight
}

func NewUniformLightSampler(lights []*AreaLight) *UniformLightSampler {
	return &UniformLightSampler{Lights: lights}
}

// Sample picks a light uniformly at random and returns it with its selection
// probability (1/len(Lights)), or ok=false if the scene has no lights.
func (s *UniformLightSampler) Sample(u float64) (light *AreaLight, selectionPDF float64, ok bool) {
	n := len(s.Lights)
	if n == 0 {
		return nil, 0, false
	}
	idx := int(u * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return s.Lights[idx], 1.0 / float64(n), true
}

// PDFValue returns the combined light-sampling PDF for direction as seen
// from origin: the probability of selecting the light that direction
// actually hits, times that light's own PDFValue, summed over every light
// that direction could hit (in practice at most one parallelogram, since
// they don't overlap in a well-formed scene).
func (s *UniformLightSampler) PDFValue(origin, direction core.Vec3) float64 {
	if len(s.Lights) == 0 {
		return 0
	}
	selectionPDF := 1.0 / float64(len(s.Lights))
	sum := 0.0
	for _, light := range s.Lights {
		sum += selectionPDF * light.PDFValue(origin, direction)
	}
	return sum
}
