package spectral

// mat3x3 is a row-major 3x3 matrix.
type mat3x3 [3][3]float64

func mat3x3Mul(a, b mat3x3) mat3x3 {
	var r mat3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return r
}

func mat3x3Inverse(m mat3x3) mat3x3 {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	d := 1.0 / det

	var inv mat3x3
	inv[0][0] = d * (m[1][1]*m[2][2] - m[1][2]*m[2][1])
	inv[0][1] = d * (m[0][2]*m[2][1] - m[0][1]*m[2][2])
	inv[0][2] = d * (m[0][1]*m[1][2] - m[0][2]*m[1][1])

	inv[1][0] = d * (m[1][2]*m[2][0] - m[1][0]*m[2][2])
	inv[1][1] = d * (m[0][0]*m[2][2] - m[0][2]*m[2][0])
	inv[1][2] = d * (m[0][2]*m[1][0] - m[0][0]*m[1][2])

	inv[2][0] = d * (m[1][0]*m[2][1] - m[1][1]*m[2][0])
	inv[2][1] = d * (m[0][1]*m[2][0] - m[0][0]*m[2][1])
	inv[2][2] = d * (m[0][0]*m[1][1] - m[0][1]*m[1][0])
	return inv
}

// Whitepoint is a CIE XYZ reference white.
type Whitepoint struct {
	X, Y, Z float64
}

var (
	WhitepointA   = Whitepoint{1.09850, 1.0, 0.35585}
	WhitepointB   = Whitepoint{0.99072, 1.0, 0.85223}
	WhitepointC   = Whitepoint{0.98074, 1.0, 1.18232}
	WhitepointD50 = Whitepoint{0.96422, 1.0, 0.82521}
	WhitepointD55 = Whitepoint{0.95682, 1.0, 0.92149}
	WhitepointD65 = Whitepoint{0.95047, 1.0, 1.08883}
	WhitepointD75 = Whitepoint{0.94972, 1.0, 1.22638}
	WhitepointE   = Whitepoint{1.00000, 1.0, 1.00000}
	WhitepointF2  = Whitepoint{0.99186, 1.0, 0.67393}
	WhitepointF7  = Whitepoint{0.95041, 1.0, 1.08747}
	WhitepointF11 = Whitepoint{1.00962, 1.0, 0.64350}
)

// RGBColorspace describes an RGB working space by its chromaticity primaries
// and reference white, and derives the RGB<->XYZ matrices from them.
type RGBColorspace struct {
	Name       string
	White      Whitepoint
	RedX, RedY float64
	GreenX, GreenY float64
	BlueX, BlueY   float64
}

var (
	SRGB = RGBColorspace{Name: "sRGB", White: WhitepointD65,
		RedX: 0.640, RedY: 0.330, GreenX: 0.300, GreenY: 0.600, BlueX: 0.150, BlueY: 0.060}
	AdobeRGB = RGBColorspace{Name: "AdobeRGB", White: WhitepointD65,
		RedX: 0.640, RedY: 0.330, GreenX: 0.210, GreenY: 0.710, BlueX: 0.150, BlueY: 0.060}
	Rec709 = RGBColorspace{Name: "Rec709", White: WhitepointD65,
		RedX: 0.640, RedY: 0.330, GreenX: 0.300, GreenY: 0.600, BlueX: 0.150, BlueY: 0.060}
	Rec2020 = RGBColorspace{Name: "Rec2020", White: WhitepointD65,
		RedX: 0.708, RedY: 0.292, GreenX: 0.170, GreenY: 0.797, BlueX: 0.131, BlueY: 0.046}
	DCIP3 = RGBColorspace{Name: "DCI-P3", White: WhitepointD65,
		RedX: 0.680, RedY: 0.320, GreenX: 0.265, GreenY: 0.690, BlueX: 0.150, BlueY: 0.060}
)

// RGBToXYZ derives the 3x3 matrix converting linear RGB in this color space
// to CIE XYZ, via the standard primaries+whitepoint construction (Bruce
// Lindbloom's method): build the raw primary matrix, solve for the scale
// factors that reproduce the whitepoint, then fold them back in.
func (cs RGBColorspace) RGBToXYZ() mat3x3 {
	xr, yr := cs.RedX, cs.RedY
	xg, yg := cs.GreenX, cs.GreenY
	xb, yb := cs.BlueX, cs.BlueY

	m := mat3x3{
		{xr / yr, xg / yg, xb / yb},
		{1.0, 1.0, 1.0},
		{(1 - xr - yr) / yr, (1 - xg - yg) / yg, (1 - xb - yb) / yb},
	}
	mInv := mat3x3Inverse(m)

	w := [3]float64{cs.White.X, cs.White.Y, cs.White.Z}
	var s [3]float64
	for i := 0; i < 3; i++ {
		s[i] = mInv[i][0]*w[0] + mInv[i][1]*w[1] + mInv[i][2]*w[2]
	}

	var result mat3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = m[i][j] * s[j]
		}
	}
	return result
}

// XYZToRGB returns the inverse of RGBToXYZ.
func (cs RGBColorspace) XYZToRGB() mat3x3 {
	return mat3x3Inverse(cs.RGBToXYZ())
}
