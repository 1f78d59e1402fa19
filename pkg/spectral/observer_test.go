package spectral

import (
	"math"
	"testing"
)

func TestObserverEqualEnergySpectrumIsAchromatic(t *testing.T) {
	// An equal-energy spectrum is neutral relative to illuminant E, so the
	// observer uses sRGB primaries with the E whitepoint; under sRGB's own
	// D65 white the same spectrum comes out reddish.
	cs := SRGB
	cs.Name = "sRGB-E"
	cs.White = WhitepointE
	obs := NewObserver(cs)
	flat := NewConstantSpectrum(1.0)
	r, g, b := obs.ToRGB(flat)

	mean := (r + g + b) / 3
	if mean == 0 {
		t.Fatalf("expected nonzero response to a flat equal-energy spectrum")
	}
	for _, c := range []float64{r, g, b} {
		if math.Abs(c-mean)/mean > 0.02 {
			t.Errorf("expected an equal-energy spectrum to be achromatic, got (%v,%v,%v)", r, g, b)
		}
	}
}

// TestRGBWeightsReproduceObserverResponse checks RGBWeights against a direct
// call to ToRGB on each basis spectrum, so a future change to either can't
// silently desynchronize the linear map BuildRGBToSpectrumTable solves
// against from the one ToRGB actually applies at render time.
func TestRGBWeightsReproduceObserverResponse(t *testing.T) {
	obs := NewObserver(SRGB)
	weights := obs.RGBWeights()

	for i := 0; i < NumSamples; i++ {
		var basis Spectrum
		basis = basis.Set(i, 1.0)
		r, g, b := obs.xyzToRGB(obs.ToXYZ(basis))
		w := weights[i]
		if math.Abs(r-w.R) > 1e-9 || math.Abs(g-w.G) > 1e-9 || math.Abs(b-w.B) > 1e-9 {
			t.Errorf("sample %d: RGBWeights gave (%v,%v,%v), direct ToXYZ/xyzToRGB gave (%v,%v,%v)", i, w.R, w.G, w.B, r, g, b)
		}
	}
}

func TestXYZToRGBIsInverseOfRGBToXYZ(t *testing.T) {
	m := SRGB.RGBToXYZ()
	inv := SRGB.XYZToRGB()
	product := mat3x3Mul(m, inv)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(product[i][j]-want) > 1e-6 {
				t.Errorf("XYZToRGB*RGBToXYZ not identity at (%d,%d): got %v", i, j, product[i][j])
			}
		}
	}
}

func TestDarkerWavelengthsProduceLowerLuminanceThanPeak(t *testing.T) {
	// A CMF sanity check: y-bar should peak somewhere in the middle of the
	// visible grid (around green, ~555nm) rather than at the grid edges.
	mid := cieYBar(555)
	edgeLow := cieYBar(StartWavelength)
	edgeHigh := cieYBar(EndWavelength)
	if mid <= edgeLow || mid <= edgeHigh {
		t.Errorf("expected y-bar to peak near 555nm, got mid=%v edgeLow=%v edgeHigh=%v", mid, edgeLow, edgeHigh)
	}
}
