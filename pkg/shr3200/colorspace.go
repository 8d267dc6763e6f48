package shr3200

import (
	"github.com/lucasb-eyer/go-colorful"
)

// channel8to4 reduces an 8-bit channel value to its 4-bit IIgs nibble,
// using round-half-up: int(v/255*15 + 0.5). This matches the original
// gs-convert reference implementation exactly, resolving the rounding
// ambiguity in favor of compatibility with existing test vectors.
func channel8to4(v uint8) uint8 {
	return uint8(float64(v)/255.0*15.0 + 0.5)
}

// channel4to8 expands a 4-bit IIgs nibble back to an 8-bit channel value.
// Unlike the original's truncating int(nibble/15*255), this uses the
// exact, idempotent nibble*17: every value produced lands back on one of
// the sixteen grid points {0, 17, 34, ..., 255} that channel8to4 can ever
// produce, so RGB24ToIIgs12 -> IIgs12ToRGB24 round-trips exactly and
// snapping twice is the same as snapping once.
func channel4to8(n uint8) uint8 {
	return n * 17
}

// RGB24ToIIgs12 packs a 24-bit color into the Apple IIgs 12-bit word
// format: 0000_BBBB_GGGG_RRRR.
func RGB24ToIIgs12(c RGB24) uint16 {
	r4 := uint16(channel8to4(c.R))
	g4 := uint16(channel8to4(c.G))
	b4 := uint16(channel8to4(c.B))
	return (b4 << 8) | (g4 << 4) | r4
}

// IIgs12ToRGB24 unpacks an Apple IIgs 12-bit word back into a 24-bit color.
func IIgs12ToRGB24(word uint16) RGB24 {
	r4 := uint8(word & 0x0F)
	g4 := uint8((word >> 4) & 0x0F)
	b4 := uint8((word >> 8) & 0x0F)
	return RGB24{
		R: channel4to8(r4),
		G: channel4to8(g4),
		B: channel4to8(b4),
	}
}

// SnapToIIgsGrid replaces a color's channels with the nearest value on the
// IIgs 12-bit grid: round(v*15/255)*17. It is always exactly
// IIgs12ToRGB24(RGB24ToIIgs12(c)), expressed directly for clarity at call
// sites that only care about the snapped color, not the packed word.
func SnapToIIgsGrid(c RGB24) RGB24 {
	return IIgs12ToRGB24(RGB24ToIIgs12(c))
}

// SnapPaletteToIIgsGrid snaps every entry of a palette to the IIgs grid,
// in place semantics expressed as a value return (the core never mutates
// shared state). This is stage 3 of the pipeline: it must run after
// palette assignment (stage 2) and before dithering (stage 4), because
// dithering's error term is only meaningful when measured against colors
// the hardware can actually display.
func SnapPaletteToIIgsGrid(p Palette) Palette {
	var out Palette
	for i, c := range p {
		out[i] = SnapToIIgsGrid(c)
	}
	return out
}

// SnapPaletteSetToIIgsGrid applies SnapPaletteToIIgsGrid to every palette
// in a set.
func SnapPaletteSetToIIgsGrid(set PaletteSet) PaletteSet {
	out := make(PaletteSet, len(set))
	for i, p := range set {
		out[i] = SnapPaletteToIIgsGrid(p)
	}
	return out
}

// srgbToLinearChannel converts a single 8-bit sRGB channel value to an
// 8-bit linear-light value, delegating the transfer-function math to
// go-colorful's LinearRgb and re-truncating to a byte. This mirrors
// gs_convert/color.py's srgb_to_linear exactly: it is a lossy, one-shot
// transform applied to the whole canvas in Preprocess, not a reversible
// color-space tag carried through later stages.
func srgbToLinearChannel(v uint8) uint8 {
	c := colorful.Color{R: float64(v) / 255.0}
	r, _, _ := c.LinearRgb()
	return clampChannel(r * 255.0)
}

// ToLinearRGB converts every pixel of a canvas from sRGB to linear RGB,
// channel by channel, returning a new canvas. Used by Preprocess when
// PreprocessOptions.LinearRGB is set; the result is an ordinary byte
// canvas indistinguishable, to every later stage, from a canvas that was
// never converted.
func ToLinearRGB(canvas CanvasImage) CanvasImage {
	var out CanvasImage
	for y := 0; y < CanvasHeight; y++ {
		for x := 0; x < CanvasWidth; x++ {
			p := canvas.Pixels[y][x]
			out.Pixels[y][x] = RGB24{
				R: srgbToLinearChannel(p.R),
				G: srgbToLinearChannel(p.G),
				B: srgbToLinearChannel(p.B),
			}
		}
	}
	return out
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
