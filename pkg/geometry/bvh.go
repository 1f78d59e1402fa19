package geometry

import (
	"math"
	"sort"

	"github.com/rayspectral/raydar/pkg/core"
)

// numSAHBuckets is B in spec §4.3's binned SAH build.
const numSAHBuckets = 12

// traversalCost is C_i, the traversal-over-intersection cost ratio used by
// the SAH cost function.
const traversalCost = 0.125

// Primitive is anything the BVH can hold as a leaf: meshes and area lights
// both implement it (Hittable plus a Centroid used to bin primitives during
// the build).
type Primitive interface {
	Hittable
	Centroid() core.Vec3
}

// BVHNode is a node of the bounding-volume hierarchy: an interior node has
// two children and a nil Prim; a leaf node has a nil Left/Right and holds a
// single Primitive.
type BVHNode struct {
	Box         core.AABB
	Left, Right *BVHNode
	Prim        Primitive
}

// BuildBVH constructs a binned-SAH BVH over prims, per spec §4.3.
func BuildBVH(prims []Primitive) *BVHNode {
	items := append([]Primitive(nil), prims...)
	return buildRange(items)
}

func boundsOf(items []Primitive) core.AABB {
	box := core.EmptyAABB()
	for _, p := range items {
		box = box.Union(p.BoundingBox())
	}
	return box
}

func centroidBoundsOf(items []Primitive) core.AABB {
	box := core.EmptyAABB()
	for _, p := range items {
		box = box.UnionPoint(p.Centroid())
	}
	return box
}

func axisOf(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func buildRange(items []Primitive) *BVHNode {
	box := boundsOf(items)

	if len(items) == 1 {
		return &BVHNode{Box: box, Prim: items[0]}
	}

	if len(items) == 2 {
		centroidBounds := centroidBoundsOf(items)
		axis := centroidBounds.LongestAxis()
		if axisOf(items[0].Centroid(), axis) > axisOf(items[1].Centroid(), axis) {
			items[0], items[1] = items[1], items[0]
		}
		return &BVHNode{
			Box:   box,
			Left:  &BVHNode{Box: items[0].BoundingBox(), Prim: items[0]},
			Right: &BVHNode{Box: items[1].BoundingBox(), Prim: items[1]},
		}
	}

	centroidBounds := centroidBoundsOf(items)
	bestAxis, bestSplit, _ := findBestSplit(items, centroidBounds, box.SurfaceArea())

	if bestSplit < 0 {
		// Degenerate: all centroids coincide on every axis. Fall back to a
		// median split along the longest axis so the build still
		// terminates rather than recursing on an unchanged set.
		axis := centroidBounds.LongestAxis()
		return medianSplit(items, axis, box)
	}

	left, right := partitionByBucket(items, centroidBounds, bestAxis, bestSplit)
	if len(left) == 0 || len(right) == 0 {
		axis := centroidBounds.LongestAxis()
		return medianSplit(items, axis, box)
	}

	return &BVHNode{
		Box:   box,
		Left:  buildRange(left),
		Right: buildRange(right),
	}
}

// findBestSplit bins primitives into numSAHBuckets buckets per axis and
// evaluates the SAH cost of every one of the B-1 split positions, returning
// the (axis, bucket) pair with lowest cost. bestSplit is -1 if no axis has
// any centroid spread to split on.
func findBestSplit(items []Primitive, centroidBounds core.AABB, totalArea float64) (bestAxis, bestSplit int, bestCost float64) {
	bestAxis, bestSplit = -1, -1
	bestCost = math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		interval := centroidBounds.Axis(axis)
		extent := interval.Size()
		if extent <= 0 {
			continue
		}

		var bucketBoxes [numSAHBuckets]core.AABB
		var bucketCounts [numSAHBuckets]int
		for i := range bucketBoxes {
			bucketBoxes[i] = core.EmptyAABB()
		}

		for _, p := range items {
			b := bucketIndex(axisOf(p.Centroid(), axis), interval, extent)
			bucketBoxes[b] = bucketBoxes[b].Union(p.BoundingBox())
			bucketCounts[b]++
		}

		// Prefix/suffix sweep: leftArea[k] / leftCount[k] cover buckets
		// [0,k], rightArea[k] / rightCount[k] cover buckets [k+1, B-1].
		var leftBoxes [numSAHBuckets]core.AABB
		var leftCounts [numSAHBuckets]int
		acc := core.EmptyAABB()
		count := 0
		for k := 0; k < numSAHBuckets; k++ {
			acc = acc.Union(bucketBoxes[k])
			count += bucketCounts[k]
			leftBoxes[k] = acc
			leftCounts[k] = count
		}

		var rightBoxes [numSAHBuckets]core.AABB
		var rightCounts [numSAHBuckets]int
		acc = core.EmptyAABB()
		count = 0
		for k := numSAHBuckets - 1; k >= 0; k-- {
			acc = acc.Union(bucketBoxes[k])
			count += bucketCounts[k]
			rightBoxes[k] = acc
			rightCounts[k] = count
		}

		for k := 0; k < numSAHBuckets-1; k++ {
			nL, nR := leftCounts[k], rightCounts[k+1]
			if nL == 0 || nR == 0 {
				continue
			}
			aL, aR := leftBoxes[k].SurfaceArea(), rightBoxes[k+1].SurfaceArea()
			cost := traversalCost + (aL*float64(nL)+aR*float64(nR))/totalArea
			if cost < bestCost {
				bestCost, bestAxis, bestSplit = cost, axis, k
			}
		}
	}
	return bestAxis, bestSplit, bestCost
}

func bucketIndex(value float64, interval core.Interval, extent float64) int {
	b := int(float64(numSAHBuckets) * (value - interval.Min) / extent)
	if b < 0 {
		b = 0
	}
	if b >= numSAHBuckets {
		b = numSAHBuckets - 1
	}
	return b
}

func partitionByBucket(items []Primitive, centroidBounds core.AABB, axis, splitBucket int) (left, right []Primitive) {
	interval := centroidBounds.Axis(axis)
	extent := interval.Size()
	for _, p := range items {
		b := bucketIndex(axisOf(p.Centroid(), axis), interval, extent)
		if b <= splitBucket {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	return left, right
}

// medianSplit is the fallback build step used when SAH binning can't find a
// non-degenerate split (all centroids identical along every axis, or a
// bucket split happened to leave one side empty): sort by centroid on axis
// and split at the midpoint index, which always balances the two halves.
func medianSplit(items []Primitive, axis int, box core.AABB) *BVHNode {
	sorted := append([]Primitive(nil), items...)
	sort.Slice(sorted, func(i, j int) bool {
		return axisOf(sorted[i].Centroid(), axis) < axisOf(sorted[j].Centroid(), axis)
	})
	mid := len(sorted) / 2
	return &BVHNode{
		Box:   box,
		Left:  buildRange(sorted[:mid]),
		Right: buildRange(sorted[mid:]),
	}
}

// Hit traverses the BVH depth-first, front-to-back: on a miss against a
// node's box, return immediately; on a hit, recurse left, then recurse right
// with the ray interval's upper bound tightened to the left hit's distance
// so the right subtree can early-out.
func (n *BVHNode) Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	if _, ok := n.Box.Hit(ray, rayT); !ok {
		return HitRecord{}, false
	}

	if n.Prim != nil {
		return n.Prim.Hit(ray, rayT)
	}

	leftRec, hitLeft := n.Left.Hit(ray, rayT)
	if hitLeft {
		rayT = rayT.WithMax(leftRec.T)
	}
	rightRec, hitRight := n.Right.Hit(ray, rayT)
	if hitRight {
		return rightRec, true
	}
	return leftRec, hitLeft
}

// BoundingBox returns the node's (and therefore its subtree's) AABB.
func (n *BVHNode) BoundingBox() core.AABB {
	return n.Box
}
