// Package lights implements the parallelogram area light of spec §4.5:
// direct-lighting sampling and PDF evaluation for multiple importance
// sampling against the integrator's BSDF-sampled path.
package lights

import (
	"math"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
)

// AreaLight is a one-sided parallelogram light defined by a corner and two
// edge vectors, per spec §4.5. It implements geometry.Hittable so it can be
// inserted into the scene's BVH alongside mesh geometry, and it carries its
// own material index (spec §9's index-table cross-reference scheme) so the
// integrator can fetch the Emissive material when a camera ray hits it
// directly.
type AreaLight struct {
	Q      core.Vec3 // corner
	U, V   core.Vec3 // edge vectors
	Normal core.Vec3 // normalize(U x V)
	w      core.Vec3 // plane-basis helper, n/(n.n)
	D      float64   // plane constant, Normal.Dot(Q)
	Area   float64
	bbox   core.AABB

	Material int
}

// NewAreaLight builds a parallelogram light from a corner and two edges.
func NewAreaLight(q, u, v core.Vec3, material int) *AreaLight {
	n := u.Cross(v)
	area := n.Length()
	normal := n.Normalize()

	bboxDiag1 := core.NewAABB(q, q.Add(u).Add(v))
	bboxDiag2 := core.NewAABB(q.Add(u), q.Add(v))
	bbox := bboxDiag1.Union(bboxDiag2).Pad(1e-4)

	return &AreaLight{
		Q:        q,
		U:        u,
		V:        v,
		Normal:   normal,
		w:        n.Multiply(1.0 / n.Dot(n)),
		D:        normal.Dot(q),
		Area:     area,
		bbox:     bbox,
		Material: material,
	}
}

func (l *AreaLight) BoundingBox() core.AABB { return l.bbox }

func (l *AreaLight) Centroid() core.Vec3 {
	return l.Q.Add(l.U.Multiply(0.5)).Add(l.V.Multiply(0.5))
}

// Hit implements the Shirley quad-intersection technique: a ray/plane
// intersection followed by a barycentric-style in-bounds test against the
// two edge vectors.
func (l *AreaLight) Hit(ray core.Ray, rayT core.Interval) (geometry.HitRecord, bool) {
	denom := l.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-8 {
		return geometry.HitRecord{}, false
	}

	t := (l.D - l.Normal.Dot(ray.Origin)) / denom
	if !rayT.Surrounds(t) {
		return geometry.HitRecord{}, false
	}

	p := ray.At(t)
	planarHit := p.Subtract(l.Q)
	alpha := l.w.Dot(planarHit.Cross(l.V))
	beta := l.w.Dot(l.U.Cross(planarHit))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return geometry.HitRecord{}, false
	}

	rec := geometry.HitRecord{
		P:        p,
		T:        t,
		U:        alpha,
		V:        beta,
		Material: l.Material,
	}
	frontFace := ray.Direction.Dot(l.Normal) < 0
	rec.FrontFace = frontFace
	if frontFace {
		rec.Normal = l.Normal
	} else {
		rec.Normal = l.Normal.Multiply(-1)
	}
	return rec, true
}

// Sample draws a uniformly distributed point on the parallelogram and
// returns the (unnormalized) vector from origin to that point, per spec
// §4.5's direct-lighting sample routine.
func (l *AreaLight) Sample(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	r1, r2 := sampler.Get2D()
	point := l.Q.Add(l.U.Multiply(r1)).Add(l.V.Multiply(r2))
	return point.Subtract(origin)
}

// PDFValue returns the solid-angle sampling density of direction as seen
// from origin: d²/(|cosθ|·A) if the ray actually hits the light, else 0,
// per spec §4.5.
func (l *AreaLight) PDFValue(origin, direction core.Vec3) float64 {
	ray := core.NewRay(origin, direction)
	rec, hit := l.Hit(ray, core.Interval{Min: 1e-4, Max: math.Inf(1)})
	if !hit {
		return 0
	}

	distanceSquared := rec.T * rec.T * direction.LengthSquared()
	cosine := math.Abs(direction.Normalize().Dot(l.Normal))
	if cosine < 1e-8 {
		return 0
	}
	return distanceSquared / (cosine * l.Area)
}
