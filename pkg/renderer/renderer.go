package renderer

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rayspectral/raydar/pkg/core"
	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/image"
	"github.com/rayspectral/raydar/pkg/integrator"
)

// packetSize is the pixel-packet edge the spec's bucket scheduler amortizes
// memory traffic over: "process a packet of 4x4 pixels."
const packetSize = 4

// SamplingConfig holds the render's per-pixel sampling parameters, the Go
// equivalent of the teacher's core.SamplingConfig but stripped to the
// fields spec.md actually names (no adaptive-sampling thresholds: this repo
// always takes a fixed sqrt_spp^2 samples per pixel, per spec §4.6).
type SamplingConfig struct {
	SamplesPerPixel int
	MaxDepth        int
	Region          *Region
}

// sqrtSPP returns the integer square root of the configured sample count,
// rounding up so SamplesPerPixel is never under-satisfied.
func (c SamplingConfig) sqrtSPP() int {
	n := int(math.Ceil(math.Sqrt(float64(c.SamplesPerPixel))))
	if n < 1 {
		n = 1
	}
	return n
}

// BucketResult is the "bucket complete" event of spec §4.6/§5, delivered to
// the progress/UI collaborator over a channel after a worker finishes a
// bucket's samples.
type BucketResult struct {
	Bucket    Bucket
	Completed int32 // total buckets completed so far, across all workers
	Total     int32
}

// Renderer ties together a scene, an integrator and a camera to drive
// spec §4.6's bucket-scheduled parallel render: an atomic fetch-add counter
// hands out bucket indices to a pool of runtime.NumCPU() workers, each of
// which renders its bucket's packets directly into a shared image.Buffer
// (safe because buckets never overlap) and then reports completion.
type Renderer struct {
	Scene      integrator.Scene
	Camera     geometry.Camera
	Integrator integrator.Integrator
	Config     SamplingConfig
	NumWorkers int
	Logger     Logger

	nextBucket int64 // atomic fetch-add counter
	completed  int32 // atomic completed-bucket counter
}

// NewRenderer builds a Renderer with hardware-concurrency workers by
// default, matching spec §5's "workers = hardware concurrency."
func NewRenderer(scene integrator.Scene, camera geometry.Camera, integ integrator.Integrator, config SamplingConfig, logger Logger) *Renderer {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Renderer{
		Scene:      scene,
		Camera:     camera,
		Integrator: integ,
		Config:     config,
		NumWorkers: runtime.NumCPU(),
		Logger:     logger,
	}
}

// Render dispatches the bucket grid across Renderer.NumWorkers goroutines,
// accumulating every sample directly into buf. It returns a channel of
// BucketResult events (closed once every bucket is done or cancellation is
// observed) that the caller can drain for progress reporting; cancel is
// polled at bucket boundaries per spec §5's cooperative-cancellation model
// — in-flight buckets finish, no new ones start, and the image returned is
// a valid partial result.
func (r *Renderer) Render(buf *image.Buffer, cancel <-chan struct{}) <-chan BucketResult {
	buckets := NewBucketGrid(buf.Width, buf.Height)
	total := int32(len(buckets))
	events := make(chan BucketResult, len(buckets))

	numWorkers := r.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			sampler := core.NewXorshift64Star(uint64(workerID)*0x9E3779B1 + 1)
			for {
				select {
				case <-cancel:
					return
				default:
				}

				idx := atomic.AddInt64(&r.nextBucket, 1) - 1
				if idx >= int64(len(buckets)) {
					return
				}

				bucket, ok := buckets[idx].clip(r.Config.Region)
				if ok {
					r.renderBucket(buf, bucket, sampler)
				}

				completed := atomic.AddInt32(&r.completed, 1)
				events <- BucketResult{Bucket: buckets[idx], Completed: completed, Total: total}
			}
		}(w)
	}

	go func() {
		wg.Wait()
		close(events)
	}()

	return events
}

// renderBucket renders every pixel in bucket, packetSize x packetSize
// pixels at a time, taking sqrtSPP^2 stratified sub-samples per pixel.
func (r *Renderer) renderBucket(buf *image.Buffer, bucket Bucket, sampler core.Sampler) {
	sqrtSPP := r.Config.sqrtSPP()

	for py := bucket.Y; py < bucket.Y+bucket.H; py += packetSize {
		for px := bucket.X; px < bucket.X+bucket.W; px += packetSize {
			packetW := min(packetSize, bucket.X+bucket.W-px)
			packetH := min(packetSize, bucket.Y+bucket.H-py)
			r.renderPacket(buf, px, py, packetW, packetH, sqrtSPP, sampler)
		}
	}
}

func (r *Renderer) renderPacket(buf *image.Buffer, x0, y0, w, h, sqrtSPP int, sampler core.Sampler) {
	spp := sqrtSPP * sqrtSPP
	for sy := 0; sy < sqrtSPP; sy++ {
		for sx := 0; sx < sqrtSPP; sx++ {
			for dy := 0; dy < h; dy++ {
				for dx := 0; dx < w; dx++ {
					x, y := x0+dx, y0+dy
					xi1, xi2 := sampler.Get2D()
					offsetU := core.StratifiedOffset(sx, sqrtSPP, xi1)
					offsetV := core.StratifiedOffset(sy, sqrtSPP, xi2)
					ray := r.Camera.Ray(x, y, offsetU, offsetV)
					radiance := r.Integrator.Li(ray, r.Scene, sampler)
					buf.AddToPixel(x, y, radiance.Scale(1.0/float64(spp)))
				}
			}
		}
	}
}
