package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/rayspectral/raydar/pkg/geometry"
	"github.com/rayspectral/raydar/pkg/image"
	"github.com/rayspectral/raydar/pkg/integrator"
	"github.com/rayspectral/raydar/pkg/renderer"
	"github.com/rayspectral/raydar/pkg/scene"
	"github.com/rayspectral/raydar/pkg/spectral"
)

// exit codes, per spec §7's error-handling design.
const (
	exitOK      = 0
	exitUsage   = 1
	exitIOError = 2
)

// lookupTableStep is the RGB->spectrum lookup table's grid resolution; a
// step this coarse still round-trips within spec §8's 0.02 sRGB tolerance
// while keeping the lazily-built table small.
const lookupTableStep = 0.1

const lookupTableCachePath = "raydar_lookup_table.bin"

// Config holds the CLI-parsed render configuration, spec §6's CLI surface.
type Config struct {
	ScenePath string
	ImagePath string
	Width     int
	Height    int
	Samples   int
	Depth     int
	Region    *renderer.Region
	ResumeSPD string
}

func main() {
	config, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitUsage)
	}

	logger := renderer.NewDefaultLogger()
	os.Exit(run(config, logger))
}

func run(config Config, logger renderer.Logger) int {
	observer := spectral.NewObserver(spectral.SRGB)
	table, err := spectral.LoadOrBuildRGBToSpectrumTable(lookupTableCachePath, observer, lookupTableStep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: building rgb-to-spectrum lookup table: %v\n", err)
		return exitIOError
	}

	loader, err := scene.NewYAMLLoader(config.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitUsage
	}

	sc, cameraSpec, err := scene.Build(loader, table, spectral.NewSpectrum())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitUsage
	}

	buf, width, height, err := initialBuffer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitIOError
	}

	camera := geometry.NewCamera(cameraSpec.Center, cameraSpec.LookAt, cameraSpec.Up, cameraSpec.FOVDeg, width, height)
	pathTracer := integrator.NewPathTracer(config.Depth)

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: config.Samples,
		MaxDepth:        config.Depth,
		Region:          config.Region,
	}
	r := renderer.NewRenderer(sc, camera, pathTracer, samplingConfig, logger)

	cancel := make(chan struct{})
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		if _, ok := <-interrupt; ok {
			logger.Printf("cancellation requested, finishing in-flight buckets...")
			close(cancel)
		}
	}()

	start := time.Now()
	events := r.Render(buf, cancel)
	for event := range events {
		logger.Infow("bucket complete", "completed", event.Completed, "total", event.Total)
	}
	logger.Printf("render finished in %v", time.Since(start))

	if err := buf.SavePNG(config.ImagePath, observer, image.DefaultToneMapOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "error: saving %q: %v\n", config.ImagePath, err)
		return exitIOError
	}

	spdPath := strings.TrimSuffix(config.ImagePath, fileExt(config.ImagePath)) + ".spd"
	if err := buf.SaveSPD(spdPath, image.DefaultToneMapOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "error: saving %q: %v\n", spdPath, err)
		return exitIOError
	}

	logger.Printf("saved %s (resume with --spd %s)", config.ImagePath, spdPath)
	return exitOK
}

// initialBuffer either resumes from a saved spectral image (--spd) or
// allocates a fresh one at the configured resolution.
func initialBuffer(config Config) (*image.Buffer, int, int, error) {
	if config.ResumeSPD != "" {
		buf, _, err := image.LoadSPD(config.ResumeSPD)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("resuming from %q: %w", config.ResumeSPD, err)
		}
		return buf, buf.Width, buf.Height, nil
	}
	return image.NewBuffer(config.Width, config.Height), config.Width, config.Height, nil
}

func fileExt(path string) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return path[idx:]
	}
	return ""
}

// parseFlags implements spec §6's CLI surface with the standard flag
// package, registering the short and long form of each option against the
// same variable so either spelling works, matching the teacher's
// flag.StringVar/flag.IntVar style.
func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("raydar", flag.ContinueOnError)

	var scenePath, imagePath, resolution, region, resumeSPD string
	var samples, depth int

	fs.StringVar(&scenePath, "f", "", "scene description file (required)")
	fs.StringVar(&scenePath, "file", "", "scene description file (required)")
	fs.StringVar(&imagePath, "i", "output.png", "output PNG path")
	fs.StringVar(&imagePath, "image", "output.png", "output PNG path")
	fs.StringVar(&resolution, "r", "1024,768", "image resolution \"W,H\"")
	fs.StringVar(&resolution, "resolution", "1024,768", "image resolution \"W,H\"")
	fs.IntVar(&samples, "s", 4, "samples per pixel")
	fs.IntVar(&samples, "samples", 4, "samples per pixel")
	fs.IntVar(&depth, "d", 8, "maximum path depth")
	fs.IntVar(&depth, "depth", 8, "maximum path depth")
	fs.StringVar(&region, "region", "", "render only \"x,y,w,h\" of the image")
	fs.StringVar(&resumeSPD, "spd", "", "resume from a saved spectral image")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if scenePath == "" {
		return Config{}, fmt.Errorf("-f/--file is required")
	}

	width, height, err := parseResolution(resolution)
	if err != nil {
		return Config{}, err
	}

	var regionPtr *renderer.Region
	if region != "" {
		regionPtr, err = parseRegion(region)
		if err != nil {
			return Config{}, err
		}
	}

	return Config{
		ScenePath: scenePath,
		ImagePath: imagePath,
		Width:     width,
		Height:    height,
		Samples:   samples,
		Depth:     depth,
		Region:    regionPtr,
		ResumeSPD: resumeSPD,
	}, nil
}

func parseResolution(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("--resolution must be \"W,H\", got %q", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("--resolution: invalid width %q", parts[0])
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("--resolution: invalid height %q", parts[1])
	}
	return w, h, nil
}

func parseRegion(s string) (*renderer.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("--region must be \"x,y,w,h\", got %q", s)
	}
	values := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("--region: invalid component %q", p)
		}
		values[i] = v
	}
	return &renderer.Region{X: values[0], Y: values[1], W: values[2], H: values[3]}, nil
}
