package material

import (
	"testing"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/spectral"
)

func TestConstantNeverScatters(t *testing.T) {
	c := NewConstant(spectral.NewConstantSpectrum(0.2))
	hit := geometry.HitRecord{Normal: core.Vec3{Z: 1}, FrontFace: true}
	ray := core.NewRay(core.Vec3{}, core.Vec3{Z: -1})

	_, ok := c.SampleScatter(ray, hit, core.NewXorshift64Star(1))
	if ok {
		t.Fatal("a constant material must never scatter")
	}
}

func TestErrorMaterialIsVisibleAndOpaque(t *testing.T) {
	table := spectral.BuildRGBToSpectrumTable(spectral.NewObserver(spectral.SRGB), 16)
	errMat := ErrorMaterial(table)
	if !errMat.IsVisible() || !errMat.CastsShadow() {
		t.Fatal("the scene loader's fallback error material must be a visible, shadow-casting surface")
	}
}
