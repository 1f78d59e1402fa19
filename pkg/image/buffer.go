// Package image implements the spectral frame buffer of spec §4.7: a
// W*H*N float accumulator, tone-mapped PNG export, and the raw .spd
// save/load format used to resume a render.
package image

import (
	"bufio"
	"encoding/binary"
	stdimage "image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/rayspectral/raydar/pkg/spectral"
)

// Buffer is a row-major (y, x, lambda) spectral accumulator: width*height
// spectra, one per pixel, each carrying spectral.NumSamples wavelength
// samples. It is not safe for concurrent writes to the same pixel, but
// writes to disjoint pixels from different goroutines are safe, matching
// spec §5's "lock-free writes to disjoint regions of the image buffer".
type Buffer struct {
	Width, Height int
	pixels        []spectral.Spectrum // len == Width*Height
}

// NewBuffer allocates a zeroed buffer for an image of the given dimensions.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		pixels: make([]spectral.Spectrum, width*height),
	}
}

func (b *Buffer) index(x, y int) int {
	return y*b.Width + x
}

// SetPixel overwrites the spectrum stored at (x, y).
func (b *Buffer) SetPixel(x, y int, s spectral.Spectrum) {
	b.pixels[b.index(x, y)] = s
}

// AddToPixel accumulates s into the spectrum stored at (x, y).
func (b *Buffer) AddToPixel(x, y int, s spectral.Spectrum) {
	i := b.index(x, y)
	b.pixels[i] = b.pixels[i].Add(s)
}

// GetPixel returns the spectrum currently stored at (x, y).
func (b *Buffer) GetPixel(x, y int) spectral.Spectrum {
	return b.pixels[b.index(x, y)]
}

// maxComponent returns the largest single wavelength sample across the
// whole buffer, used by Normalize to find the global scale factor.
func (b *Buffer) maxComponent() float64 {
	max := 0.0
	for _, s := range b.pixels {
		for i := 0; i < spectral.NumSamples; i++ {
			if v := s.At(i); v > max {
				max = v
			}
		}
	}
	return max
}

// Normalize rescales every pixel so the single brightest wavelength sample
// in the whole buffer becomes exactly 1, per spec §4.7. A buffer that is
// entirely black (e.g. the empty-scene end-to-end scenario) is left
// untouched, since there is nothing to scale against.
func (b *Buffer) Normalize() {
	max := b.maxComponent()
	if max <= 0 {
		return
	}
	scale := 1.0 / max
	for i := range b.pixels {
		b.pixels[i] = b.pixels[i].Scale(scale)
	}
}

// ToneMapOptions configures the spectrum -> 8-bit sRGB conversion applied
// on PNG export, per spec §4.7: a per-pixel exposure multiplier of
// 2^exposure, followed by gamma encoding pow(clamp(c, 0, 1), 1/gamma).
type ToneMapOptions struct {
	Exposure float64
	Gamma    float64
}

// DefaultToneMapOptions returns the spec's baseline tone-mapping: no
// exposure adjustment and the standard 2.2 display gamma.
func DefaultToneMapOptions() ToneMapOptions {
	return ToneMapOptions{Exposure: 0, Gamma: 2.2}
}

// SavePNG converts every pixel to RGB via observer, applies exposure and
// gamma encoding, quantizes to 8 bits and writes an alpha-free sRGB PNG.
func (b *Buffer) SavePNG(path string, observer *spectral.Observer, opts ToneMapOptions) error {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, b.Width, b.Height))
	exposureScale := math.Pow(2, opts.Exposure)
	invGamma := 1.0 / opts.Gamma

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			r, g, bl := observer.ToRGB(b.GetPixel(x, y))
			img.SetRGBA(x, y, color.RGBA{
				R: toneMapChannel(r, exposureScale, invGamma),
				G: toneMapChannel(g, exposureScale, invGamma),
				B: toneMapChannel(bl, exposureScale, invGamma),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

func toneMapChannel(c, exposureScale, invGamma float64) uint8 {
	c *= exposureScale
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	encoded := math.Pow(c, invGamma)
	return uint8(math.Round(encoded * 255))
}

// spdMagic-less raw header: int32 W, int32 H, float32 gamma, float32
// exposure, int32 N, followed by W*H*N float32 samples in (y, x, lambda)
// order, per spec §6's spectral file format.
func (b *Buffer) SaveSPD(path string, opts ToneMapOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := []int32{int32(b.Width), int32(b.Height)}
	if err := binary.Write(w, binary.LittleEndian, header[0]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, header[1]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, float32(opts.Gamma)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, float32(opts.Exposure)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(spectral.NumSamples)); err != nil {
		return err
	}

	for _, s := range b.pixels {
		for i := 0; i < spectral.NumSamples; i++ {
			if err := binary.Write(w, binary.LittleEndian, float32(s.At(i))); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

// LoadSPD reads back a buffer previously written by SaveSPD, for the CLI's
// --spd resume path. It returns the buffer plus the gamma/exposure the
// image was saved with.
func LoadSPD(path string) (*Buffer, ToneMapOptions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ToneMapOptions{}, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var width, height, numSamples int32
	var gamma, exposure float32

	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, ToneMapOptions{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return nil, ToneMapOptions{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &gamma); err != nil {
		return nil, ToneMapOptions{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &exposure); err != nil {
		return nil, ToneMapOptions{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &numSamples); err != nil {
		return nil, ToneMapOptions{}, err
	}

	buf := NewBuffer(int(width), int(height))
	n := int(numSamples)
	if n > spectral.NumSamples {
		n = spectral.NumSamples
	}

	for p := range buf.pixels {
		var s spectral.Spectrum
		for i := 0; i < int(numSamples); i++ {
			var v float32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, ToneMapOptions{}, err
			}
			if i < n {
				s = s.Set(i, float64(v))
			}
		}
		buf.pixels[p] = s
	}

	return buf, ToneMapOptions{Gamma: float64(gamma), Exposure: float64(exposure)}, nil
}
