// Package shr3200 implements the conversion pipeline from a decoded raster
// image to a byte-exact Apple IIgs Super Hi-Res "3200" bitmap: a 320x200
// 4-bit indexed pixel grid, 200 per-scanline palette selectors, and up to
// 16 16-entry palettes in the IIgs 12-bit color space.
//
// The package is organized as five pure, single-threaded stages
// (preprocess, palette assignment, IIgs quantization, dither, pack) that
// each consume their input by value or borrow and produce a new value.
// There is no shared mutable state between stages and no stage retries
// internally; numerical edge cases are handled by the documented
// fallbacks rather than surfaced as errors.
package shr3200

import "errors"

// Canvas width and height are fixed by the Super Hi-Res 320-mode geometry.
const (
	CanvasWidth  = 320
	CanvasHeight = 200

	// MaxPalettes is the hard ceiling on distinct palettes a 3200 file
	// can carry; the container always reserves all 16 slots.
	MaxPalettes = 16

	// ColorsPerPalette is the number of entries in every palette.
	ColorsPerPalette = 16

	// BlobSize is the exact size, in bytes, of a packed 3200 container.
	BlobSize = 32768
)

// Errors surfaced by the core pipeline. Pack and UnpackBytes wrap them with
// additional context via fmt.Errorf("...: %w", Err...); other call sites
// return them as is. Callers should match against these with errors.Is.
var (
	// ErrInvalidBlobSize is returned by UnpackBytes when given a buffer whose
	// length is not exactly BlobSize.
	ErrInvalidBlobSize = errors.New("shr3200: invalid blob size, want 32768 bytes")

	// ErrUnknownAlgorithm is returned when a dither or quantize strategy
	// name does not match a registered implementation.
	ErrUnknownAlgorithm = errors.New("shr3200: unknown algorithm")

	// ErrUnsupportedBayerSize is returned when a Bayer matrix side length
	// outside {2, 4, 8} is requested.
	ErrUnsupportedBayerSize = errors.New("shr3200: unsupported bayer matrix size")

	// ErrTooManyPalettes is returned when a caller hands the packer a
	// PaletteSet longer than MaxPalettes.
	ErrTooManyPalettes = errors.New("shr3200: palette set exceeds 16 entries")
)

// RGB24 is a single 8-bit-per-channel color, the unit of storage for every
// palette entry before it is snapped to the IIgs 12-bit grid.
type RGB24 struct {
	R, G, B uint8
}

// squaredDistance returns the squared Euclidean distance in RGB space
// between two colors. Used throughout quantization and dithering for
// nearest-neighbor search; never returns a negative value so ties compare
// exactly.
func (c RGB24) squaredDistance(o RGB24) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Palette is a fixed 16-entry color table, the unit of selection for a
// single scanline.
type Palette [ColorsPerPalette]RGB24

// Equal reports whether two palettes are identical byte-for-byte, the
// comparison used throughout palette assignment to dedupe repeats.
func (p Palette) Equal(o Palette) bool {
	return p == o
}

// PaletteSet is the ordered list of palettes a 3200 image carries. Its
// length is always <= MaxPalettes; the packer pads it with all-black
// palettes up to MaxPalettes on write and the unpacker always returns a
// PaletteSet of exactly MaxPalettes entries.
type PaletteSet []Palette

// ScbVector maps each of the 200 scanlines to an index into a PaletteSet.
type ScbVector [CanvasHeight]uint8

// IndexGrid is the 200x320 grid of 4-bit palette indices produced by
// dithering and consumed by the packer.
type IndexGrid [CanvasHeight][CanvasWidth]uint8

// CanvasImage is the fixed 320x200 RGB-24 canvas that every stage after
// Preprocess operates on. Preprocess is the only stage that produces one;
// every later stage treats it as read-only.
type CanvasImage struct {
	Pixels [CanvasHeight][CanvasWidth]RGB24
}

// Row returns the CanvasWidth pixels of scanline y by value.
func (c *CanvasImage) Row(y int) [CanvasWidth]RGB24 {
	return c.Pixels[y]
}

// Blob is the packed, on-disk representation of a 3200 file: exactly
// BlobSize bytes laid out per the container format described on Pack.
type Blob [BlobSize]byte
