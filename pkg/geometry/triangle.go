package geometry

import (
	"math"

	"github.com/rayspectral/raydar/pkg/core"
)

// epsilonParallel is the threshold below which a ray is considered parallel
// to a triangle's plane, per spec §4.2.
const epsilonParallel = 1e-7

// Triangle is an immutable triangle with precomputed edge vectors and
// per-vertex shading normals. Material is an index into the scene's material
// table rather than a direct reference, per spec §9's cyclic-reference note.
type Triangle struct {
	V0, V1, V2    core.Vec3
	edge1, edge2  core.Vec3
	N0, N1, N2    core.Vec3
	hasVertexNorm bool
	geometricN    core.Vec3
	Material      int
}

// NewTriangle constructs a triangle from three vertices and (optionally)
// per-vertex normals. If useVertexNormals is false, the geometric normal
// (normalize(edge1 x edge2)) is used for shading at every point on the face.
func NewTriangle(v0, v1, v2 core.Vec3, n0, n1, n2 core.Vec3, useVertexNormals bool, material int) Triangle {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	geometricN := edge1.Cross(edge2).Normalize()
	return Triangle{
		V0: v0, V1: v1, V2: v2,
		edge1: edge1, edge2: edge2,
		N0: n0, N1: n1, N2: n2,
		hasVertexNorm: useVertexNormals,
		geometricN:    geometricN,
		Material:      material,
	}
}

// Centroid returns the triangle's centroid, used by BVH construction.
func (t Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Multiply(1.0 / 3.0)
}

// WithMaterial returns a copy of t bound to a different material index,
// used when a loader's index-table resolution pass happens after the
// triangle geometry itself has already been built.
func (t Triangle) WithMaterial(material int) Triangle {
	t.Material = material
	return t
}

// BoundingBox returns the triangle's AABB.
func (t Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2).Pad(1e-4)
}

// Hit implements the Möller-Trumbore ray/triangle intersection algorithm
// exactly as specified: compute the scaled barycentric coordinates from the
// ray direction and two edge vectors, reject early on parallel rays or
// out-of-triangle barycentrics, and finally validate the hit parameter
// against the caller's interval.
func (t Triangle) Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	h := ray.Direction.Cross(t.edge2)
	a := t.edge1.Dot(h)
	if math.Abs(a) < epsilonParallel {
		return HitRecord{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return HitRecord{}, false
	}

	q := s.Cross(t.edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return HitRecord{}, false
	}

	tHit := f * t.edge2.Dot(q)
	if !rayT.Surrounds(tHit) {
		return HitRecord{}, false
	}

	p := ray.At(tHit)

	var shadingN core.Vec3
	if t.hasVertexNorm {
		w := 1 - u - v
		shadingN = t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
		if shadingN.IsZero() {
			shadingN = t.geometricN
		}
	} else {
		shadingN = t.geometricN
	}

	frontFace := ray.Direction.Dot(t.geometricN) < 0
	if !frontFace {
		shadingN = shadingN.Negate()
	}

	return HitRecord{
		P:         p,
		Normal:    shadingN,
		FrontFace: frontFace,
		U:         u,
		V:         v,
		T:         tHit,
		Material:  t.Material,
	}, true
}
