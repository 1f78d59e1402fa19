package integrator

import (
	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// Integrator computes the incident radiance along a camera ray.
type Integrator interface {
	Li(ray core.Ray, scene Scene, sampler core.Sampler) spectral.Spectrum
}
