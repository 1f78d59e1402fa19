package spectral

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// lookupMagic and lookupVersion tag the persisted table file so a grid-step
// or wavelength-count change forces a rebuild instead of silently loading a
// stale, mismatched table.
const (
	lookupMagic   uint32 = 0x52474253 // "RGBS"
	lookupVersion uint32 = 1
)

// RGBToSpectrumTable is a 3D regular lookup grid over (r,g,b) in [0,1]^3
// mapping a quantized color to the reflectance spectrum that best reproduces
// it under the reference illuminant, found once and reused thereafter. This
// preserves metamer-free arithmetic: multiplying an illuminant spectrum by a
// reflectance spectrum stays physically meaningful, unlike a fixed per-pixel
// RGB-to-spectrum heuristic applied after the fact.
type RGBToSpectrumTable struct {
	step       float64
	gridSize   int // samples per axis = ceil(1/step) + 1
	colorspace string
	entries    []Spectrum
}

// gridIndex returns the flat index of grid node (ir, ig, ib).
func (t *RGBToSpectrumTable) gridIndex(ir, ig, ib int) int {
	return (ir*t.gridSize+ig)*t.gridSize + ib
}

// spectrumBasis is the observer's per-sample RGB response, reshaped into the
// 3xNumSamples matrix A with A[c][i] = weights[i].{R,G,B}, plus the inverse
// Gram matrix (A*A^T)^-1 needed to solve for node spectra below.
type spectrumBasis struct {
	weights     [NumSamples]RGBWeight
	gramInverse mat3x3
}

// newSpectrumBasis derives the linear map an observer's ToRGB applies to a
// spectrum's samples (before the final negative-clamp), and precomputes the
// Gram matrix inverse used by every grid node's minimum-norm solve.
func newSpectrumBasis(observer *Observer) spectrumBasis {
	weights := observer.RGBWeights()

	var gram mat3x3
	for i := 0; i < NumSamples; i++ {
		w := weights[i]
		row := [3]float64{w.R, w.G, w.B}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				gram[a][b] += row[a] * row[b]
			}
		}
	}

	return spectrumBasis{weights: weights, gramInverse: mat3x3Inverse(gram)}
}

// buildNodeSpectrum solves for the reflectance spectrum assigned to grid
// node (r,g,b): the minimum-norm spectrum s satisfying A*s = (r,g,b), where
// A is basis.weights reinterpreted as a 3xNumSamples matrix. Because
// Spectrum->RGB is linear in s, this solution is s = A^T*(A*A^T)^-1*(r,g,b),
// which reproduces the target (r,g,b) exactly under the same observer A was
// derived from — the joint table/observer derivation spec §8's round-trip
// bound requires, rather than a reflectance shape picked independently of
// the observer's color-matching functions.
func buildNodeSpectrum(basis spectrumBasis, r, g, b float64) Spectrum {
	target := [3]float64{r, g, b}
	var c [3]float64
	for i := 0; i < 3; i++ {
		c[i] = basis.gramInverse[i][0]*target[0] + basis.gramInverse[i][1]*target[1] + basis.gramInverse[i][2]*target[2]
	}

	var s Spectrum
	for i := 0; i < NumSamples; i++ {
		w := basis.weights[i]
		v := w.R*c[0] + w.G*c[1] + w.B*c[2]
		s = s.Set(i, v)
	}
	return s
}

// BuildRGBToSpectrumTable constructs a new table in memory with the given
// grid step (s ~= 0.01 per spec), deriving every node's reflectance spectrum
// jointly with observer's color-matching functions so that, per spec §8,
// observer.ToRGB(table.Lookup(r,g,b)) round-trips back to (r,g,b).
func BuildRGBToSpectrumTable(observer *Observer, step float64) *RGBToSpectrumTable {
	basis := newSpectrumBasis(observer)

	gridSize := int(math.Ceil(1.0/step)) + 1
	t := &RGBToSpectrumTable{
		step:       step,
		gridSize:   gridSize,
		colorspace: observer.Colorspace().Name,
		entries:    make([]Spectrum, gridSize*gridSize*gridSize),
	}
	for ir := 0; ir < gridSize; ir++ {
		r := float64(ir) * step
		for ig := 0; ig < gridSize; ig++ {
			g := float64(ig) * step
			for ib := 0; ib < gridSize; ib++ {
				b := float64(ib) * step
				t.entries[t.gridIndex(ir, ig, ib)] = buildNodeSpectrum(basis, r, g, b)
			}
		}
	}
	return t
}

// Lookup returns the reflectance spectrum for an arbitrary (r,g,b) in
// [0,1]^3 via trilinear interpolation between the eight surrounding grid
// nodes.
func (t *RGBToSpectrumTable) Lookup(r, g, b float64) Spectrum {
	r = clamp01(r)
	g = clamp01(g)
	b = clamp01(b)

	fr := r / t.step
	fg := g / t.step
	fb := b / t.step

	ir0 := int(math.Floor(fr))
	ig0 := int(math.Floor(fg))
	ib0 := int(math.Floor(fb))
	ir1 := minInt(ir0+1, t.gridSize-1)
	ig1 := minInt(ig0+1, t.gridSize-1)
	ib1 := minInt(ib0+1, t.gridSize-1)

	tr := fr - float64(ir0)
	tg := fg - float64(ig0)
	tb := fb - float64(ib0)

	c000 := t.entries[t.gridIndex(ir0, ig0, ib0)]
	c100 := t.entries[t.gridIndex(ir1, ig0, ib0)]
	c010 := t.entries[t.gridIndex(ir0, ig1, ib0)]
	c110 := t.entries[t.gridIndex(ir1, ig1, ib0)]
	c001 := t.entries[t.gridIndex(ir0, ig0, ib1)]
	c101 := t.entries[t.gridIndex(ir1, ig0, ib1)]
	c011 := t.entries[t.gridIndex(ir0, ig1, ib1)]
	c111 := t.entries[t.gridIndex(ir1, ig1, ib1)]

	lerpSpectrum := func(a, b Spectrum, t float64) Spectrum {
		return a.Scale(1 - t).Add(b.Scale(t))
	}

	c00 := lerpSpectrum(c000, c100, tr)
	c10 := lerpSpectrum(c010, c110, tr)
	c01 := lerpSpectrum(c001, c101, tr)
	c11 := lerpSpectrum(c011, c111, tr)

	c0 := lerpSpectrum(c00, c10, tg)
	c1 := lerpSpectrum(c01, c11, tg)

	return lerpSpectrum(c0, c1, tb)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Save persists the table to path in the spec's lookup-table file format:
// magic, version, grid size, step, sample count, the colorspace name the
// table's node spectra were solved against, then gridSize^3 * NumSamples
// float32s. The colorspace tag guards against silently loading a table
// built against a different observer's color-matching functions, which
// would no longer round-trip.
func (t *RGBToSpectrumTable) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating lookup table file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := []interface{}{lookupMagic, lookupVersion, int32(t.gridSize), float32(t.step), int32(NumSamples)}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("writing lookup table header: %w", err)
		}
	}
	nameBytes := []byte(t.colorspace)
	if err := binary.Write(w, binary.LittleEndian, int32(len(nameBytes))); err != nil {
		return fmt.Errorf("writing lookup table colorspace tag: %w", err)
	}
	if _, err := w.Write(nameBytes); err != nil {
		return fmt.Errorf("writing lookup table colorspace tag: %w", err)
	}
	for _, s := range t.entries {
		for i := 0; i < NumSamples; i++ {
			if err := binary.Write(w, binary.LittleEndian, float32(s.At(i))); err != nil {
				return fmt.Errorf("writing lookup table payload: %w", err)
			}
		}
	}
	return w.Flush()
}

// LoadRGBToSpectrumTable loads a table from path, returning an error (not a
// partial table) if the file is missing, truncated, version/step-tagged
// differently than wantStep, or was solved against a different colorspace
// than wantColorspace — callers should treat any error as "rebuild".
func LoadRGBToSpectrumTable(path string, wantColorspace RGBColorspace, wantStep float64) (*RGBToSpectrumTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic, version uint32
	var gridSize32, numSamples32 int32
	var step float32

	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != lookupMagic {
		return nil, fmt.Errorf("lookup table %q: bad magic", path)
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != lookupVersion {
		return nil, fmt.Errorf("lookup table %q: version mismatch", path)
	}
	if err := binary.Read(r, binary.LittleEndian, &gridSize32); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &step); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &numSamples32); err != nil {
		return nil, err
	}
	if numSamples32 != NumSamples || math.Abs(float64(step)-wantStep) > 1e-9 {
		return nil, fmt.Errorf("lookup table %q: grid parameters mismatch, rebuild required", path)
	}

	var nameLen int32
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return nil, err
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return nil, fmt.Errorf("lookup table %q: truncated colorspace tag: %w", path, err)
	}
	if string(nameBytes) != wantColorspace.Name {
		return nil, fmt.Errorf("lookup table %q: built for colorspace %q, want %q, rebuild required", path, nameBytes, wantColorspace.Name)
	}

	gridSize := int(gridSize32)
	t := &RGBToSpectrumTable{step: float64(step), gridSize: gridSize, colorspace: string(nameBytes), entries: make([]Spectrum, gridSize*gridSize*gridSize)}
	for idx := range t.entries {
		var s Spectrum
		for i := 0; i < NumSamples; i++ {
			var v float32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("lookup table %q: truncated payload: %w", path, err)
			}
			s = s.Set(i, float64(v))
		}
		t.entries[idx] = s
	}
	return t, nil
}

// LoadOrBuildRGBToSpectrumTable loads the table at path if it matches step
// and observer's colorspace, otherwise builds it fresh against observer and
// persists it — the lazy-build-and-cache pattern spec's design notes call
// for, since building is comparatively expensive and the table is immutable
// and shared read-only once built.
func LoadOrBuildRGBToSpectrumTable(path string, observer *Observer, step float64) (*RGBToSpectrumTable, error) {
	if t, err := LoadRGBToSpectrumTable(path, observer.Colorspace(), step); err == nil {
		return t, nil
	}
	t := BuildRGBToSpectrumTable(observer, step)
	if err := t.Save(path); err != nil {
		return nil, fmt.Errorf("persisting rebuilt lookup table: %w", err)
	}
	return t, nil
}

// FromRGB converts an RGB color directly to a spectrum via this table,
// without requiring the caller to manage persistence.
func (t *RGBToSpectrumTable) FromRGB(r, g, b float64) Spectrum {
	return t.Lookup(r, g, b)
}
