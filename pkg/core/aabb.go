package core

import "math"

// AABB is an axis-aligned bounding box, stored as three per-axis intervals.
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB returns the sentinel empty box (min=+Inf, max=-Inf on every axis),
// the identity element for Union.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	empty := Interval{Min: inf, Max: -inf}
	return AABB{X: empty, Y: empty, Z: empty}
}

// NewAABB creates an AABB from min/max corner points.
func NewAABB(min, max Vec3) AABB {
	return AABB{
		X: Interval{Min: math.Min(min.X, max.X), Max: math.Max(min.X, max.X)},
		Y: Interval{Min: math.Min(min.Y, max.Y), Max: math.Max(min.Y, max.Y)},
		Z: Interval{Min: math.Min(min.Z, max.Z), Max: math.Max(min.Z, max.Z)},
	}
}

// NewAABBFromPoints builds the smallest AABB enclosing all given points.
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.UnionPoint(p)
	}
	return box
}

// Min returns the box's minimum corner.
func (b AABB) Min() Vec3 {
	return Vec3{b.X.Min, b.Y.Min, b.Z.Min}
}

// Max returns the box's maximum corner.
func (b AABB) Max() Vec3 {
	return Vec3{b.X.Max, b.Y.Max, b.Z.Max}
}

// Axis returns the interval for the given axis (0=X, 1=Y, 2=Z).
func (b AABB) Axis(axis int) Interval {
	switch axis {
	case 0:
		return b.X
	case 1:
		return b.Y
	default:
		return b.Z
	}
}

// Hit tests a ray against the box using the slab method. The returned interval
// is the intersection of rayT with the box's entry/exit parameters; ok is
// false if the ray misses or the intersection is empty/behind the ray origin.
func (b AABB) Hit(ray Ray, rayT Interval) (Interval, bool) {
	tMin, tMax := rayT.Min, rayT.Max

	for axis := 0; axis < 3; axis++ {
		axisInterval := b.Axis(axis)
		var origin, direction float64
		switch axis {
		case 0:
			origin, direction = ray.Origin.X, ray.Direction.X
		case 1:
			origin, direction = ray.Origin.Y, ray.Direction.Y
		default:
			origin, direction = ray.Origin.Z, ray.Direction.Z
		}

		if math.Abs(direction) < 1e-8 {
			if origin < axisInterval.Min || origin > axisInterval.Max {
				return Interval{}, false
			}
			continue
		}

		invD := 1.0 / direction
		t0 := (axisInterval.Min - origin) * invD
		t1 := (axisInterval.Max - origin) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return Interval{}, false
		}
	}

	if tMax <= 0 {
		return Interval{}, false
	}
	return Interval{Min: tMin, Max: tMax}, true
}

// Union returns the smallest AABB containing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		X: Interval{Min: math.Min(b.X.Min, other.X.Min), Max: math.Max(b.X.Max, other.X.Max)},
		Y: Interval{Min: math.Min(b.Y.Min, other.Y.Min), Max: math.Max(b.Y.Max, other.Y.Max)},
		Z: Interval{Min: math.Min(b.Z.Min, other.Z.Min), Max: math.Max(b.Z.Max, other.Z.Max)},
	}
}

// UnionPoint returns the smallest AABB containing the box and a point.
func (b AABB) UnionPoint(p Vec3) AABB {
	return AABB{
		X: Interval{Min: math.Min(b.X.Min, p.X), Max: math.Max(b.X.Max, p.X)},
		Y: Interval{Min: math.Min(b.Y.Min, p.Y), Max: math.Max(b.Y.Max, p.Y)},
		Z: Interval{Min: math.Min(b.Z.Min, p.Z), Max: math.Max(b.Z.Max, p.Z)},
	}
}

// Centroid returns the box's center point.
func (b AABB) Centroid() Vec3 {
	return Vec3{
		X: (b.X.Min + b.X.Max) * 0.5,
		Y: (b.Y.Min + b.Y.Max) * 0.5,
		Z: (b.Z.Min + b.Z.Max) * 0.5,
	}
}

// SurfaceArea returns the box's surface area, used by the SAH cost function.
func (b AABB) SurfaceArea() float64 {
	dx, dy, dz := b.X.Size(), b.Y.Size(), b.Z.Size()
	if dx < 0 || dy < 0 || dz < 0 {
		return 0 // empty box
	}
	return 2.0 * (dx*dy + dy*dz + dz*dx)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent.
func (b AABB) LongestAxis() int {
	dx, dy, dz := b.X.Size(), b.Y.Size(), b.Z.Size()
	if dx > dy && dx > dz {
		return 0
	}
	if dy > dz {
		return 1
	}
	return 2
}

// Pad expands any axis whose extent is below eps so degenerate (flat) boxes
// remain valid for slab testing and SAH surface-area calculations.
func (b AABB) Pad(eps float64) AABB {
	pad := func(i Interval) Interval {
		if i.Size() >= eps {
			return i
		}
		d := (eps - i.Size()) / 2
		return Interval{Min: i.Min - d, Max: i.Max + d}
	}
	return AABB{X: pad(b.X), Y: pad(b.Y), Z: pad(b.Z)}
}
