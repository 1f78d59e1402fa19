package geometry

import (
	"math"

	"github.com/rayspectral/raydar/pkg/core"
)

// Camera generates primary rays from a pinhole model: vertical field of
// view, eye position, look-at target and up vector determine an orthonormal
// basis (u, v, w) and a pixel grid on the image plane placed at distance
// |center - lookAt|, per spec §4.6.
type Camera struct {
	Center core.Vec3

	pixel00Loc  core.Vec3
	pixelDeltaU core.Vec3
	pixelDeltaV core.Vec3
}

// NewCamera builds a camera for an image of the given dimensions.
func NewCamera(center, lookAt, lookUp core.Vec3, fovDeg float64, imageWidth, imageHeight int) Camera {
	aspectRatio := float64(imageWidth) / float64(imageHeight)
	focalLength := center.Subtract(lookAt).Length()

	theta := fovDeg * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * focalLength
	viewportWidth := viewportHeight * aspectRatio

	w := center.Subtract(lookAt).Normalize()
	u := lookUp.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Multiply(1.0 / float64(imageWidth))
	pixelDeltaV := viewportV.Multiply(1.0 / float64(imageHeight))

	viewportUpperLeft := center.
		Subtract(w.Multiply(focalLength)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00Loc := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	return Camera{
		Center:      center,
		pixel00Loc:  pixel00Loc,
		pixelDeltaU: pixelDeltaU,
		pixelDeltaV: pixelDeltaV,
	}
}

// Ray returns the primary ray through pixel (i, j), offset within the pixel
// by (dx, dy) (each typically in [-0.5, 0.5] for a stratified sub-sample).
func (c Camera) Ray(i, j int, dx, dy float64) core.Ray {
	pixelSample := c.pixel00Loc.
		Add(c.pixelDeltaU.Multiply(float64(i) + dx)).
		Add(c.pixelDeltaV.Multiply(float64(j) + dy))
	direction := pixelSample.Subtract(c.Center)
	return core.NewRay(c.Center, direction)
}
