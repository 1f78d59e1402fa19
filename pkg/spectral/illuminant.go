package spectral

// s0Table, s1Table and s2Table are the CIE daylight basis functions, sampled
// at 5nm steps from 400nm to 800nm — the same 81-point grid a Spectrum uses,
// so no interpolation is needed between table and grid.
var s0Table = [NumSamples]float64{
	0.04, 3.02, 6.00, 17.80, 29.60,
	42.45, 55.30, 56.30, 57.30, 59.55,
	61.80, 61.65, 61.50, 65.15, 68.80,
	70.80, 72.80, 76.60, 80.40, 83.85,
	87.30, 88.50, 89.70, 92.20, 94.70,
	95.95, 97.20, 98.45, 99.70, 100.45,
	101.20, 101.60, 102.00, 101.70, 101.40,
	101.10, 100.80, 100.90, 101.00, 101.20,
	101.40, 101.00, 100.60, 100.00, 99.40,
	98.70, 98.00, 97.55, 97.10, 97.00,
	96.90, 96.75, 96.60, 96.25, 95.90,
	95.40, 94.90, 94.55, 94.20, 93.50,
	92.80, 92.65, 92.50, 92.20, 91.90,
	90.70, 89.50, 88.65, 87.80, 86.70,
	85.60, 85.05, 84.50, 83.50, 82.50,
	81.70, 80.90, 80.25, 79.60, 79.10,
	78.60,
}

var s1Table = [NumSamples]float64{
	0.02, 2.26, 4.50, 13.45, 22.40,
	32.20, 42.00, 41.30, 40.60, 41.10,
	41.60, 39.80, 38.00, 40.20, 42.40,
	41.50, 40.60, 41.60, 42.60, 43.45,
	44.30, 44.15, 44.00, 45.30, 46.60,
	47.10, 47.60, 48.00, 48.40, 48.45,
	48.50, 48.70, 48.90, 48.55, 48.20,
	47.70, 47.20, 47.20, 47.20, 47.25,
	47.30, 47.00, 46.70, 46.25, 45.80,
	45.30, 44.80, 44.45, 44.10, 43.80,
	43.50, 43.40, 43.30, 43.10, 42.90,
	42.70, 42.50, 42.40, 42.30, 42.00,
	41.70, 41.65, 41.60, 41.50, 41.40,
	40.80, 40.20, 39.80, 39.40, 38.90,
	38.40, 38.15, 37.90, 37.40, 36.90,
	36.50, 36.10, 35.75, 35.40, 35.15,
	34.90,
}

var s2Table = [NumSamples]float64{
	0.00, 1.00, 2.00, 3.00, 4.00,
	6.25, 8.50, 8.15, 7.80, 7.25,
	6.70, 6.00, 5.30, 5.70, 6.10,
	4.55, 3.00, 2.10, 1.20, 0.05,
	-1.10, -0.80, -0.50, -0.60, -0.70,
	-0.95, -1.20, -1.90, -2.60, -3.35,
	-4.10, -4.65, -5.20, -5.55, -5.90,
	-6.10, -6.30, -6.30, -6.30, -6.15,
	-6.00, -5.80, -5.60, -5.40, -5.20,
	-5.00, -4.80, -4.65, -4.50, -4.35,
	-4.20, -4.15, -4.10, -4.05, -4.00,
	-3.95, -3.90, -3.85, -3.80, -3.75,
	-3.70, -3.65, -3.60, -3.55, -3.50,
	-3.50, -3.50, -3.45, -3.40, -3.35,
	-3.30, -3.25, -3.20, -3.15, -3.10,
	-3.05, -3.00, -2.95, -2.90, -2.85,
	-2.80,
}

// DIlluminant returns the CIE daylight SPD for correlated color temperature
// cct (kelvin), computed from the chromaticity polynomials and the S0/S1/S2
// basis functions, normalized to peak=1.
func DIlluminant(cct float64) Spectrum {
	var x, y float64
	cct2 := cct * cct
	cct3 := cct2 * cct
	if cct <= 7000 {
		x = -4.6070e9/cct3 + 2.9678e6/cct2 + 0.09911e3/cct + 0.244063
	} else {
		x = -2.0064e9/cct3 + 1.9018e6/cct2 + 0.24748e3/cct + 0.237040
	}
	y = -3.000*x*x + 2.870*x - 0.275

	m := 0.0241 + 0.2562*x - 0.7341*y
	m1 := (-1.3515 - 1.7703*x + 5.9114*y) / m
	m2 := (0.0300 - 31.4424*x + 30.0717*y) / m

	var s Spectrum
	for i := 0; i < NumSamples; i++ {
		v := s0Table[i] + m1*s1Table[i] + m2*s2Table[i]
		s.samples[i] = float32(v)
	}
	return s.Normalized()
}

// D50 returns the CIE D50 daylight illuminant spectrum.
func D50() Spectrum { return DIlluminant(5000) }

// D65 returns the CIE D65 daylight illuminant spectrum (standard "noon
// daylight" reference white, used by sRGB).
func D65() Spectrum { return DIlluminant(6500) }
