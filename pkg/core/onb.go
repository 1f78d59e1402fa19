package core

import "math"

// ONB is an orthonormal basis used to transform a locally-sampled direction
// (e.g. a cosine-weighted hemisphere sample around +Z) into world space
// around a surface normal.
type ONB struct {
	U, V, W Vec3
}

// NewONBFromW builds an orthonormal basis whose W axis is the given
// (unit-length) vector, using the Duff et al. branchless construction.
func NewONBFromW(w Vec3) ONB {
	sign := math.Copysign(1.0, w.Z)
	a := -1.0 / (sign + w.Z)
	b := w.X * w.Y * a

	u := Vec3{X: 1.0 + sign*w.X*w.X*a, Y: sign * b, Z: -sign * w.X}
	v := Vec3{X: b, Y: sign + w.Y*w.Y*a, Z: -w.Y}

	return ONB{U: u, V: v, W: w}
}

// Transform maps a local-space vector into the basis's world space.
func (b ONB) Transform(v Vec3) Vec3 {
	return b.U.Multiply(v.X).Add(b.V.Multiply(v.Y)).Add(b.W.Multiply(v.Z))
}
