package geometry

import (
	"sort"

	"github.com/rayspectral/raydar/pkg/core"
)

// Mesh is an immutable, ordered sequence of triangles sharing a single
// bounding box. A scene's full geometry starts life as one (or a few) large
// Mesh values and is then cut into smaller Mesh leaves by SplitMesh before
// BVH construction, per spec §4.3's mesh-splitting pre-pass.
type Mesh struct {
	Triangles []Triangle
	bbox      core.AABB
}

// NewMesh builds a mesh from a triangle slice, computing its bounding box
// once up front (meshes are immutable after construction).
func NewMesh(triangles []Triangle) Mesh {
	bbox := core.EmptyAABB()
	for _, t := range triangles {
		bbox = bbox.Union(t.BoundingBox())
	}
	return Mesh{Triangles: triangles, bbox: bbox}
}

// BoundingBox returns the mesh's precomputed AABB.
func (m Mesh) BoundingBox() core.AABB {
	return m.bbox
}

// Centroid returns the centroid of the mesh's bounding box, used when a Mesh
// leaf itself is a primitive in the top-level BVH.
func (m Mesh) Centroid() core.Vec3 {
	return m.bbox.Centroid()
}

// Hit linearly scans the mesh's triangles for the closest hit within rayT.
// Mesh leaves produced by SplitMesh hold at most maxLeafSize triangles unless
// SplitMesh stopped on a set whose median split leaves one side empty, so a
// linear scan here is usually cheap; the top-level BVH is what
// bounds traversal cost across the whole scene.
func (m Mesh) Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	closest := rayT
	var best HitRecord
	hitAnything := false

	for _, tri := range m.Triangles {
		if rec, ok := tri.Hit(ray, closest); ok {
			hitAnything = true
			closest = closest.WithMax(rec.T)
			best = rec
		}
	}
	return best, hitAnything
}

// axisCentroid returns a triangle's centroid coordinate along the given axis
// (0=X, 1=Y, 2=Z).
func axisCentroid(t Triangle, axis int) float64 {
	c := t.Centroid()
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// SplitMesh recursively divides triangles into Mesh leaves of at most
// maxLeafSize triangles, per spec §4.3: at each step, split along the axis
// giving the most balanced centroid partition (the longest centroid-bounds
// axis, partitioned at the median value on that axis); if the median split
// would leave one side empty, stop and emit the remaining triangles as a
// single leaf mesh even if it exceeds maxLeafSize.
func SplitMesh(triangles []Triangle, maxLeafSize int) []Mesh {
	if len(triangles) <= maxLeafSize {
		return []Mesh{NewMesh(triangles)}
	}

	centroidBounds := core.EmptyAABB()
	for _, t := range triangles {
		centroidBounds = centroidBounds.UnionPoint(t.Centroid())
	}
	axis := centroidBounds.LongestAxis()

	values := make([]float64, len(triangles))
	for i, t := range triangles {
		values[i] = axisCentroid(t, axis)
	}
	sortedValues := append([]float64(nil), values...)
	sort.Float64s(sortedValues)
	median := sortedValues[len(sortedValues)/2]

	var left, right []Triangle
	for i, t := range triangles {
		if values[i] < median {
			left = append(left, t)
		} else {
			right = append(right, t)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		return []Mesh{NewMesh(triangles)}
	}

	result := SplitMesh(left, maxLeafSize)
	result = append(result, SplitMesh(right, maxLeafSize)...)
	return result
}
