package material

import (
	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// Emissive is a one-sided area-light material: it emits when hit on its
// front face and never scatters, per spec §4.4. CastsShadow is false so
// light sources don't occlude themselves in shadow-ray tests.
type Emissive struct {
	Emission spectral.Spectrum
}

func NewEmissive(emission spectral.Spectrum) *Emissive {
	return &Emissive{Emission: emission}
}

func (e *Emissive) SampleScatter(core.Ray, geometry.HitRecord, core.Sampler) (ScatterRecord, bool) {
	return ScatterRecord{}, false
}

func (e *Emissive) ScatteringPDF(core.Ray, geometry.HitRecord, core.Ray) float64 {
	return 0
}

func (e *Emissive) EvaluateBSDF(core.Ray, geometry.HitRecord, core.Vec3) spectral.Spectrum {
	return spectral.NewSpectrum()
}

// Emit returns the configured emission only for the front face; the back
// face of an area light emits nothing.
func (e *Emissive) Emit(rayIn core.Ray, hit geometry.HitRecord) spectral.Spectrum {
	if !hit.FrontFace {
		return spectral.NewSpectrum()
	}
	return e.Emission
}

func (e *Emissive) IsVisible() bool   { return true }
func (e *Emissive) CastsShadow() bool { return false }

func (e *Emissive) FastPreviewColor() spectral.Spectrum {
	return e.Emission
}
