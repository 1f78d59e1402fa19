// Package geometry implements the scene's intersectable primitives: triangle
// meshes, the bounding-volume hierarchy accelerating ray queries over them,
// and the camera generating primary rays.
package geometry

import "github.com/rayspectral/raydar/pkg/core"

// HitRecord is the transient result of a successful ray/primitive
// intersection. It is overwritten by each query and must not be retained.
type HitRecord struct {
	P         core.Vec3 // world-space hit point
	Normal    core.Vec3 // unit shading normal, flipped to face the incoming ray
	FrontFace bool      // true if the ray hit the geometric front face
	U, V      float64   // surface parameterization, for texture lookups
	T         float64   // ray parameter at the hit
	Material  int       // index into the scene's material table
}

// Hittable is any primitive (or aggregate, like a BVH node) that can be
// intersected by a ray and bounded by an AABB. Mesh, BVH and AreaLight all
// implement it; the BVH dispatches through this interface at each leaf,
// while the BSDF branch inside material evaluation is a type switch instead
// — per spec §9's "virtual dispatch where the hot loop is ray traversal,
// match on variant for the BSDF branch".
type Hittable interface {
	Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool)
	BoundingBox() core.AABB
}
