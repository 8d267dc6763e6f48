package shr3200

import "fmt"

// Pack serializes an index grid, palette set, and SCB vector into the exact
// 32,768-byte 3200 container layout:
//
//	bytes      0 - 31999  pixel data: 200 rows of 160 bytes, 2 pixels/byte
//	                      (low nibble = even x, high nibble = odd x)
//	bytes  32000 - 32199  SCB bytes: one per scanline, palette index in the
//	                      low nibble, high nibble and flag bits zero
//	bytes  32200 - 32255  padding: 56 zero bytes
//	bytes  32256 - 32767  palette data: 16 palettes x 16 colors x 2 bytes,
//	                      little-endian IIgs 12-bit words
//
// palettes may have fewer than MaxPalettes entries; the remainder is
// zero-filled (black). It is an error for palettes to have more than
// MaxPalettes entries.
func Pack(grid IndexGrid, palettes PaletteSet, scb ScbVector) (Blob, error) {
	var blob Blob

	if len(palettes) > MaxPalettes {
		return blob, fmt.Errorf("shr3200: pack: %w", ErrTooManyPalettes)
	}

	packPixelData(&blob, grid)
	packScbData(&blob, scb)
	packPaletteData(&blob, palettes)

	return blob, nil
}

const (
	pixelDataOffset   = 0
	pixelDataSize     = CanvasHeight * CanvasWidth / 2
	scbOffset         = pixelDataOffset + pixelDataSize
	scbSize           = CanvasHeight
	paddingOffset     = scbOffset + scbSize
	paddingSize       = 56
	paletteDataOffset = paddingOffset + paddingSize
	paletteDataSize   = MaxPalettes * ColorsPerPalette * 2
)

func packPixelData(blob *Blob, grid IndexGrid) {
	for y := 0; y < CanvasHeight; y++ {
		rowOffset := pixelDataOffset + y*(CanvasWidth/2)
		for x := 0; x < CanvasWidth; x += 2 {
			lo := grid[y][x] & 0x0F
			hi := grid[y][x+1] & 0x0F
			blob[rowOffset+x/2] = lo | (hi << 4)
		}
	}
}

func packScbData(blob *Blob, scb ScbVector) {
	for y := 0; y < CanvasHeight; y++ {
		blob[scbOffset+y] = scb[y] & 0x0F
	}
}

func packPaletteData(blob *Blob, palettes PaletteSet) {
	for i := 0; i < MaxPalettes; i++ {
		var p Palette
		if i < len(palettes) {
			p = palettes[i]
		}
		for c := 0; c < ColorsPerPalette; c++ {
			word := RGB24ToIIgs12(p[c])
			offset := paletteDataOffset + (i*ColorsPerPalette+c)*2
			blob[offset] = byte(word & 0xFF)
			blob[offset+1] = byte(word >> 8)
		}
	}
}

// Unpack is the inverse of Pack: it decodes a 32,768-byte blob back into an
// index grid, a full 16-entry palette set, and an SCB vector. Unlike Pack,
// the returned PaletteSet always has exactly MaxPalettes entries, since the
// container format carries no length field.
func Unpack(blob Blob) (IndexGrid, PaletteSet, ScbVector) {
	grid := unpackPixelData(blob)
	scb := unpackScbData(blob)
	palettes := unpackPaletteData(blob)
	return grid, palettes, scb
}

// UnpackBytes validates the length of data before delegating to Unpack,
// returning ErrInvalidBlobSize for anything other than exactly BlobSize
// bytes.
func UnpackBytes(data []byte) (IndexGrid, PaletteSet, ScbVector, error) {
	var grid IndexGrid
	var scb ScbVector
	if len(data) != BlobSize {
		return grid, nil, scb, fmt.Errorf("shr3200: unpack: %w", ErrInvalidBlobSize)
	}
	var blob Blob
	copy(blob[:], data)
	grid, palettes, scb := Unpack(blob)
	return grid, palettes, scb, nil
}

func unpackPixelData(blob Blob) IndexGrid {
	var grid IndexGrid
	for y := 0; y < CanvasHeight; y++ {
		rowOffset := pixelDataOffset + y*(CanvasWidth/2)
		for x := 0; x < CanvasWidth; x += 2 {
			b := blob[rowOffset+x/2]
			grid[y][x] = b & 0x0F
			grid[y][x+1] = (b >> 4) & 0x0F
		}
	}
	return grid
}

func unpackScbData(blob Blob) ScbVector {
	var scb ScbVector
	for y := 0; y < CanvasHeight; y++ {
		scb[y] = blob[scbOffset+y] & 0x0F
	}
	return scb
}

func unpackPaletteData(blob Blob) PaletteSet {
	palettes := make(PaletteSet, MaxPalettes)
	for i := 0; i < MaxPalettes; i++ {
		var p Palette
		for c := 0; c < ColorsPerPalette; c++ {
			offset := paletteDataOffset + (i*ColorsPerPalette+c)*2
			word := uint16(blob[offset]) | uint16(blob[offset+1])<<8
			p[c] = IIgs12ToRGB24(word)
		}
		palettes[i] = p
	}
	return palettes
}

// RenderIndexGrid maps a PaletteSet+ScbVector selection over an IndexGrid
// back to an RGB24 canvas, the inverse of dithering+packing used by callers
// that want to preview or re-export a packed 3200 image.
func RenderIndexGrid(grid IndexGrid, palettes PaletteSet, scb ScbVector) CanvasImage {
	var out CanvasImage
	for y := 0; y < CanvasHeight; y++ {
		paletteIdx := int(scb[y])
		var palette Palette
		if paletteIdx < len(palettes) {
			palette = palettes[paletteIdx]
		}
		for x := 0; x < CanvasWidth; x++ {
			out.Pixels[y][x] = palette[grid[y][x]]
		}
	}
	return out
}
