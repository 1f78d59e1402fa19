package image

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rayspectral/raydar/pkg/spectral"
)

func TestBufferSetGetPixel(t *testing.T) {
	b := NewBuffer(4, 3)
	s := spectral.NewConstantSpectrum(0.5)
	b.SetPixel(2, 1, s)

	got := b.GetPixel(2, 1)
	if math.Abs(got.At(0)-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %v", got.At(0))
	}

	other := b.GetPixel(0, 0)
	if !other.IsBlack() {
		t.Fatalf("expected untouched pixel to remain black, got %v", other)
	}
}

func TestBufferAddToPixelAccumulates(t *testing.T) {
	b := NewBuffer(1, 1)
	b.AddToPixel(0, 0, spectral.NewConstantSpectrum(0.25))
	b.AddToPixel(0, 0, spectral.NewConstantSpectrum(0.25))

	got := b.GetPixel(0, 0)
	if math.Abs(got.At(10)-0.5) > 1e-9 {
		t.Fatalf("expected accumulated 0.5, got %v", got.At(10))
	}
}

func TestBufferNormalizeScalesToUnitMax(t *testing.T) {
	b := NewBuffer(2, 1)
	b.SetPixel(0, 0, spectral.NewConstantSpectrum(2.0))
	b.SetPixel(1, 0, spectral.NewConstantSpectrum(0.5))

	b.Normalize()

	if math.Abs(b.GetPixel(0, 0).At(0)-1.0) > 1e-9 {
		t.Fatalf("expected brightest pixel normalized to 1, got %v", b.GetPixel(0, 0).At(0))
	}
	if math.Abs(b.GetPixel(1, 0).At(0)-0.25) > 1e-9 {
		t.Fatalf("expected dimmer pixel scaled proportionally to 0.25, got %v", b.GetPixel(1, 0).At(0))
	}
}

func TestBufferNormalizeNoOpOnAllBlack(t *testing.T) {
	b := NewBuffer(2, 2)
	b.Normalize()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if !b.GetPixel(x, y).IsBlack() {
				t.Fatalf("expected an all-black buffer to remain black after Normalize")
			}
		}
	}
}

func TestSaveAndLoadSPDRoundTrips(t *testing.T) {
	b := NewBuffer(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			b.SetPixel(x, y, spectral.NewConstantSpectrum(float64(x+y)*0.1))
		}
	}

	path := filepath.Join(t.TempDir(), "out.spd")
	opts := ToneMapOptions{Gamma: 2.2, Exposure: 0.5}
	if err := b.SaveSPD(path, opts); err != nil {
		t.Fatalf("SaveSPD failed: %v", err)
	}

	loaded, loadedOpts, err := LoadSPD(path)
	if err != nil {
		t.Fatalf("LoadSPD failed: %v", err)
	}
	if loaded.Width != b.Width || loaded.Height != b.Height {
		t.Fatalf("expected dimensions %dx%d, got %dx%d", b.Width, b.Height, loaded.Width, loaded.Height)
	}
	if math.Abs(loadedOpts.Gamma-opts.Gamma) > 1e-6 || math.Abs(loadedOpts.Exposure-opts.Exposure) > 1e-6 {
		t.Fatalf("expected header gamma/exposure to round-trip, got %+v", loadedOpts)
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := b.GetPixel(x, y).At(0)
			got := loaded.GetPixel(x, y).At(0)
			if math.Abs(want-got) > 1e-5 {
				t.Fatalf("pixel (%d,%d): want %v got %v", x, y, want, got)
			}
		}
	}
}

func TestSavePNGProducesReadableFile(t *testing.T) {
	observer := spectral.NewObserver(spectral.SRGB)
	b := NewBuffer(2, 2)
	b.SetPixel(0, 0, spectral.NewConstantSpectrum(0.3))

	path := filepath.Join(t.TempDir(), "out.png")
	if err := b.SavePNG(path, observer, DefaultToneMapOptions()); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected the PNG file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected a non-empty PNG file")
	}
}
