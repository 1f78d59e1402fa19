package renderer

// BucketSize is the edge length of a bucket, per spec §4.6's bucket
// scheduling: "the image is tiled into 32x32 buckets."
const BucketSize = 32

// Bucket is a rectangular region of the image, clipped to the image bounds
// at the right/bottom edges when width/height isn't an exact multiple of
// BucketSize.
type Bucket struct {
	X, Y, W, H int
}

// NewBucketGrid tiles a width x height image into row-major BucketSize x
// BucketSize buckets, generalizing the teacher's NewTileGrid to the spec's
// fixed 32x32 bucket edge instead of a configurable tile size.
func NewBucketGrid(width, height int) []Bucket {
	var buckets []Bucket
	for y := 0; y < height; y += BucketSize {
		for x := 0; x < width; x += BucketSize {
			w := BucketSize
			if x+w > width {
				w = width - x
			}
			h := BucketSize
			if y+h > height {
				h = height - y
			}
			buckets = append(buckets, Bucket{X: x, Y: y, W: w, H: h})
		}
	}
	return buckets
}

// Region restricts rendering to a rectangle within the image, per spec
// §4.6's region-rendering feature; pixels outside it are skipped within
// whichever buckets it overlaps.
type Region struct {
	X, Y, W, H int
}

// Contains reports whether pixel (x, y) falls inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// clip intersects a bucket with a region, returning ok=false if they don't
// overlap at all.
func (b Bucket) clip(r *Region) (Bucket, bool) {
	if r == nil {
		return b, true
	}
	x0 := max(b.X, r.X)
	y0 := max(b.Y, r.Y)
	x1 := min(b.X+b.W, r.X+r.W)
	y1 := min(b.Y+b.H, r.Y+r.H)
	if x0 >= x1 || y0 >= y1 {
		return Bucket{}, false
	}
	return Bucket{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}
