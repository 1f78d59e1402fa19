package spectral

import "math"

// Observer holds the CIE standard color-matching functions sampled on the
// spectrum grid, plus the whitepoint and primaries needed to turn integrated
// XYZ into a particular RGB working space.
type Observer struct {
	xBar, yBar, zBar [NumSamples]float64
	colorspace       RGBColorspace
}

// gaussianLobe is the asymmetric Gaussian building block of the Wyman/Sloan/
// Shirley analytic fit to the CIE 1931 2-degree color matching functions:
// a Gaussian with a different width on each side of its peak.
func gaussianLobe(x, mu, sigma1, sigma2 float64) float64 {
	sigma := sigma1
	if x >= mu {
		sigma = sigma2
	}
	t := (x - mu) / sigma
	return math.Exp(-0.5 * t * t)
}

func cieXBar(wavelength float64) float64 {
	return 1.056*gaussianLobe(wavelength, 599.8, 37.9, 31.0) +
		0.362*gaussianLobe(wavelength, 442.0, 16.0, 26.7) -
		0.065*gaussianLobe(wavelength, 501.1, 20.4, 26.2)
}

func cieYBar(wavelength float64) float64 {
	return 0.821*gaussianLobe(wavelength, 568.8, 46.9, 40.5) +
		0.286*gaussianLobe(wavelength, 530.9, 16.3, 31.1)
}

func cieZBar(wavelength float64) float64 {
	return 1.217*gaussianLobe(wavelength, 437.0, 11.8, 36.0) +
		0.681*gaussianLobe(wavelength, 459.0, 26.0, 13.8)
}

// NewObserver builds a standard CIE 1931 2-degree observer (via the Wyman et
// al. analytic multi-lobe Gaussian fit, evaluated on the spectrum grid) bound
// to the given RGB working space for ToRGB conversions.
func NewObserver(colorspace RGBColorspace) *Observer {
	o := &Observer{colorspace: colorspace}
	for i := 0; i < NumSamples; i++ {
		w := WavelengthAt(i)
		o.xBar[i] = cieXBar(w)
		o.yBar[i] = cieYBar(w)
		o.zBar[i] = cieZBar(w)
	}
	return o
}

// ToXYZ integrates a spectrum against the color-matching functions,
// producing CIE XYZ tristimulus values. The grid step is folded into the
// normalization so radiometric spectra map to sensible XYZ magnitudes.
func (o *Observer) ToXYZ(s Spectrum) (x, y, z float64) {
	norm := o.xyzNorm()
	for i := 0; i < NumSamples; i++ {
		v := s.At(i)
		x += v * o.xBar[i]
		y += v * o.yBar[i]
		z += v * o.zBar[i]
	}
	return x * norm, y * norm, z * norm
}

// xyzNorm is the CIE Y-normalization constant, shared by ToXYZ and
// RGBWeights. ToXYZ sums samples without multiplying by the grid step, so a
// unit equal-energy spectrum integrates to Y = 1/WavelengthStep() (0.2 on
// the 5nm grid) under this observer.
func (o *Observer) xyzNorm() float64 {
	return 1.0 / (WavelengthStep() * yBarIntegral(o.yBar[:]))
}

func yBarIntegral(yBar []float64) float64 {
	sum := 0.0
	for _, v := range yBar {
		sum += v
	}
	return sum
}

// ToRGB converts a spectrum to linear RGB in the observer's working color
// space. Negative components are clamped to zero here, at the point of
// display conversion, not during spectral integration.
func (o *Observer) ToRGB(s Spectrum) (r, g, b float64) {
	x, y, z := o.ToXYZ(s)
	r, g, b = o.xyzToRGB(x, y, z)
	if r < 0 {
		r = 0
	}
	if g < 0 {
		g = 0
	}
	if b < 0 {
		b = 0
	}
	return r, g, b
}

func (o *Observer) xyzToRGB(x, y, z float64) (r, g, b float64) {
	m := o.colorspace.XYZToRGB()
	r = m[0][0]*x + m[0][1]*y + m[0][2]*z
	g = m[1][0]*x + m[1][1]*y + m[1][2]*z
	b = m[2][0]*x + m[2][1]*y + m[2][2]*z
	return r, g, b
}

// Colorspace returns the RGB working space this observer converts into.
func (o *Observer) Colorspace() RGBColorspace {
	return o.colorspace
}

// RGBWeight is the (unclamped) RGB response this observer produces for a
// spectrum holding 1.0 at one wavelength sample and 0 elsewhere: the basis
// vector a spectral uplift table must solve against to guarantee its node
// spectra round-trip back through this exact observer.
type RGBWeight struct {
	R, G, B float64
}

// RGBWeights returns the observer's per-wavelength-sample RGB basis vectors.
// ToRGB's pre-clamp path is linear in the spectrum's NumSamples samples, so
// these vectors fully characterize that linear map; BuildRGBToSpectrumTable
// solves against them directly, deriving the table's reflectance lobes
// jointly with this observer's color-matching functions instead of guessing
// a reflectance shape independently of them.
func (o *Observer) RGBWeights() [NumSamples]RGBWeight {
	norm := o.xyzNorm()
	var weights [NumSamples]RGBWeight
	for i := 0; i < NumSamples; i++ {
		r, g, b := o.xyzToRGB(o.xBar[i]*norm, o.yBar[i]*norm, o.zBar[i]*norm)
		weights[i] = RGBWeight{R: r, G: g, B: b}
	}
	return weights
}
