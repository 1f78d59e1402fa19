package geometry

import (
	"math"
	"testing"

	"github.com/rayspectral/raydar/pkg/core"
)

func TestCameraCenterPixelLooksDownLookAtAxis(t *testing.T) {
	cam := NewCamera(core.Vec3{}, core.Vec3{Z: -1}, core.Vec3{Y: 1}, 90, 64, 64)
	ray := cam.Ray(32, 32, 0, 0)

	dir := ray.Direction.Normalize()
	if dir.Dot(core.Vec3{Z: -1}) < 0.99 {
		t.Errorf("expected the center pixel's ray to point toward lookAt, got %v", dir)
	}
}

func TestCameraSubPixelOffsetsStayWithinOnePixel(t *testing.T) {
	cam := NewCamera(core.Vec3{}, core.Vec3{Z: -1}, core.Vec3{Y: 1}, 60, 32, 32)
	center := cam.Ray(10, 10, 0, 0)
	corner := cam.Ray(10, 10, 0.5, 0.5)

	delta := corner.Direction.Subtract(center.Direction).Length()
	pixelScale := cam.pixelDeltaU.Length()
	if delta > 2*pixelScale || math.IsNaN(delta) {
		t.Errorf("expected a half-pixel offset to move the ray direction by about one pixel, got delta=%v pixel=%v", delta, pixelScale)
	}
}
