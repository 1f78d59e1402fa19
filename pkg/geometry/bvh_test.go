package geometry

import (
	"math"
	"testing"

	"github.com/rayspectral/raydar/pkg/core"
)

// deterministic LCG so the test doesn't depend on package-level randomness.
type lcg struct{ state uint64 }

func (g *lcg) next() float64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return float64(g.state>>11) / float64(1<<53)
}

func randomTriangle(g *lcg, material int) Triangle {
	center := core.Vec3{X: (g.next()*2 - 1) * 10, Y: (g.next()*2 - 1) * 10, Z: (g.next()*2 - 1) * 10}
	v0 := center.Add(core.Vec3{X: g.next(), Y: g.next(), Z: g.next()})
	v1 := center.Add(core.Vec3{X: g.next(), Y: g.next(), Z: g.next()})
	v2 := center.Add(core.Vec3{X: g.next(), Y: g.next(), Z: g.next()})
	return NewTriangle(v0, v1, v2, core.Vec3{}, core.Vec3{}, core.Vec3{}, false, material)
}

func linearHit(triangles []Triangle, ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	closest := rayT
	var best HitRecord
	found := false
	for _, tri := range triangles {
		if rec, ok := tri.Hit(ray, closest); ok {
			found = true
			closest = closest.WithMax(rec.T)
			best = rec
		}
	}
	return best, found
}

func TestBVHMatchesLinearScan(t *testing.T) {
	g := &lcg{state: 12345}

	const numTriangles = 300
	triangles := make([]Triangle, numTriangles)
	prims := make([]Primitive, numTriangles)
	for i := range triangles {
		triangles[i] = randomTriangle(g, i)
		prims[i] = NewMesh([]Triangle{triangles[i]})
	}

	bvh := BuildBVH(prims)

	const numRays = 2000
	for i := 0; i < numRays; i++ {
		origin := core.Vec3{X: (g.next()*2 - 1) * 20, Y: (g.next()*2 - 1) * 20, Z: (g.next()*2 - 1) * 20}
		dir := core.Vec3{X: g.next()*2 - 1, Y: g.next()*2 - 1, Z: g.next()*2 - 1}.Normalize()
		ray := core.NewRay(origin, dir)

		bvhRec, bvhHit := bvh.Hit(ray, core.UniverseInterval())
		linRec, linHit := linearHit(triangles, ray, core.UniverseInterval())

		if bvhHit != linHit {
			t.Fatalf("ray %d: BVH hit=%v, linear hit=%v", i, bvhHit, linHit)
		}
		if bvhHit && math.Abs(bvhRec.T-linRec.T) > 1e-6 {
			t.Fatalf("ray %d: BVH t=%v, linear t=%v", i, bvhRec.T, linRec.T)
		}
		if bvhHit && bvhRec.Material != linRec.Material {
			t.Fatalf("ray %d: BVH material=%v, linear material=%v", i, bvhRec.Material, linRec.Material)
		}
	}
}

func TestBVHInteriorBoxIsUnionOfChildren(t *testing.T) {
	g := &lcg{state: 999}
	prims := make([]Primitive, 20)
	for i := range prims {
		tri := randomTriangle(g, i)
		prims[i] = NewMesh([]Triangle{tri})
	}
	node := BuildBVH(prims)

	var check func(n *BVHNode)
	check = func(n *BVHNode) {
		if n.Prim != nil {
			return
		}
		union := n.Left.Box.Union(n.Right.Box)
		if !union.Min().Equals(n.Box.Min()) || !union.Max().Equals(n.Box.Max()) {
			t.Errorf("interior node box is not the union of its children: %v vs %v", n.Box, union)
		}
		check(n.Left)
		check(n.Right)
	}
	check(node)
}

func TestAABBHitIntervalIsSubsetOfInput(t *testing.T) {
	g := &lcg{state: 42}
	box := core.NewAABB(core.Vec3{X: -2, Y: -2, Z: -2}, core.Vec3{X: 2, Y: 2, Z: 2})
	for i := 0; i < 1000; i++ {
		origin := core.Vec3{X: (g.next()*2 - 1) * 10, Y: (g.next()*2 - 1) * 10, Z: (g.next()*2 - 1) * 10}
		dir := core.Vec3{X: g.next()*2 - 1, Y: g.next()*2 - 1, Z: g.next()*2 - 1}.Normalize()
		ray := core.NewRay(origin, dir)
		input := core.Interval{Min: 0, Max: 1000}

		if hit, ok := box.Hit(ray, input); ok {
			if hit.Min < input.Min || hit.Max > input.Max {
				t.Fatalf("returned interval [%v,%v] not contained in input [%v,%v]", hit.Min, hit.Max, input.Min, input.Max)
			}
		}
	}
}
