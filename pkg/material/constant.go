package material

import (
	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// Constant is the scene loader's synthetic "error" material (spec §6):
// a flat, non-scattering surface that emits its Color, used as a fallback when a
// referenced material name can't be resolved. It is visible and casts
// shadows like an ordinary opaque surface, it just has no BSDF.
type Constant struct {
	Color spectral.Spectrum
}

func NewConstant(color spectral.Spectrum) *Constant {
	return &Constant{Color: color}
}

func (c *Constant) SampleScatter(core.Ray, geometry.HitRecord, core.Sampler) (ScatterRecord, bool) {
	return ScatterRecord{}, false
}

func (c *Constant) ScatteringPDF(core.Ray, geometry.HitRecord, core.Ray) float64 {
	return 0
}

func (c *Constant) EvaluateBSDF(core.Ray, geometry.HitRecord, core.Vec3) spectral.Spectrum {
	return spectral.NewSpectrum()
}

func (c *Constant) Emit(core.Ray, geometry.HitRecord) spectral.Spectrum {
	return c.Color
}

func (c *Constant) IsVisible() bool   { return true }
func (c *Constant) CastsShadow() bool { return true }

func (c *Constant) FastPreviewColor() spectral.Spectrum {
	return c.Color
}

// ErrorMaterial returns the bright red material spec §6 mandates as a
// fallback when a scene references an unknown material name, so the
// failure is visually obvious rather than silently falling back to black.
func ErrorMaterial(table *spectral.RGBToSpectrumTable) *Constant {
	return NewConstant(table.Lookup(1, 0, 0))
}
