package shr3200

// DitherAlgorithm names a dithering strategy. The zero value is not valid;
// use one of the Dither constants.
type DitherAlgorithm string

const (
	DitherNone              DitherAlgorithm = "none"
	DitherFloydSteinberg    DitherAlgorithm = "floyd-steinberg"
	DitherAtkinson          DitherAlgorithm = "atkinson"
	DitherJarvisJudiceNinke DitherAlgorithm = "jarvis-judice-ninke"
	DitherStucki            DitherAlgorithm = "stucki"
	DitherBurkes            DitherAlgorithm = "burkes"
	DitherOrdered           DitherAlgorithm = "ordered"
)

// errorWeight is one (dx, dy) offset and the numerator of the error-diffusion
// weight applied there; the weight itself is numerator/divisor.
type errorWeight struct {
	dx, dy int
	weight int
}

// diffusionKernel describes an error-diffusion dither as a set of weighted
// offsets relative to the current pixel plus the common divisor they all
// share. Every kernel here only ever pushes error to (x+dx, y) with dy==0 or
// dy>0, matching the strictly-per-row, no-look-back discipline described in
// §4.4: dithering never reads a row other than the one it is currently
// producing, so each row gets a fresh error buffer and diffusion that would
// cross a row boundary is simply dropped.
type diffusionKernel struct {
	weights []errorWeight
	divisor int
}

var diffusionKernels = map[DitherAlgorithm]diffusionKernel{
	DitherFloydSteinberg: {
		weights: []errorWeight{
			{1, 0, 7},
			{-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
		},
		divisor: 16,
	},
	// Atkinson deliberately diffuses only 6/8 of the quantization error;
	// the remaining 2/8 is discarded rather than redistributed. This is
	// the defining, intentional quirk of the algorithm, not a bug.
	DitherAtkinson: {
		weights: []errorWeight{
			{1, 0, 1}, {2, 0, 1},
			{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
			{0, 2, 1},
		},
		divisor: 8,
	},
	DitherJarvisJudiceNinke: {
		weights: []errorWeight{
			{1, 0, 7}, {2, 0, 5},
			{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
			{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
		},
		divisor: 48,
	},
	DitherStucki: {
		weights: []errorWeight{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
			{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
		},
		divisor: 42,
	},
	DitherBurkes: {
		weights: []errorWeight{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
		},
		divisor: 32,
	},
}

// DitherRow quantizes scanline y (CanvasWidth colors) against palette,
// returning the palette index chosen for every pixel. Each row is dithered
// independently with a fresh error accumulator: no error diffuses across a
// row boundary, because a dithered row may be scored against a different
// palette than its neighbors (per-scanline and optimized strategies both
// change palettes between rows). y is only consulted by DitherOrdered, to
// index the Bayer matrix's second dimension.
func DitherRow(row [CanvasWidth]RGB24, palette Palette, algorithm DitherAlgorithm, y int) ([CanvasWidth]uint8, error) {
	switch algorithm {
	case DitherNone:
		return ditherNoneRow(row, palette), nil
	case DitherOrdered:
		return ditherOrderedRow(row, palette, y), nil
	default:
		kernel, ok := diffusionKernels[algorithm]
		if !ok {
			return [CanvasWidth]uint8{}, ErrUnknownAlgorithm
		}
		return ditherDiffusionRow(row, palette, kernel), nil
	}
}

func ditherNoneRow(row [CanvasWidth]RGB24, palette Palette) [CanvasWidth]uint8 {
	var out [CanvasWidth]uint8
	for x, c := range row {
		out[x] = uint8(nearestPaletteIndex(c, palette[:]))
	}
	return out
}

// ditherDiffusionRow runs error-diffusion dithering confined to a single
// row. Working values are float64 and are allowed to wander outside
// [0, 255] mid-diffusion; only the nearest-neighbor lookup uses a copy
// clamped to [0, 255] by clampChannel, and the error pushed to neighbors
// is measured from the unclamped working value.
func ditherDiffusionRow(row [CanvasWidth]RGB24, palette Palette, kernel diffusionKernel) [CanvasWidth]uint8 {
	var out [CanvasWidth]uint8

	var bufR, bufG, bufB [CanvasWidth]float64
	for x, c := range row {
		bufR[x] = float64(c.R)
		bufG[x] = float64(c.G)
		bufB[x] = float64(c.B)
	}

	for x := 0; x < CanvasWidth; x++ {
		old := RGB24{
			R: clampChannel(bufR[x]),
			G: clampChannel(bufG[x]),
			B: clampChannel(bufB[x]),
		}
		idx := nearestPaletteIndex(old, palette[:])
		out[x] = uint8(idx)
		chosen := palette[idx]

		errR := bufR[x] - float64(chosen.R)
		errG := bufG[x] - float64(chosen.G)
		errB := bufB[x] - float64(chosen.B)

		for _, w := range kernel.weights {
			if w.dy != 0 {
				continue // no cross-row diffusion: §4.4
			}
			nx := x + w.dx
			if nx < 0 || nx >= CanvasWidth {
				continue
			}
			frac := float64(w.weight) / float64(kernel.divisor)
			bufR[nx] += errR * frac
			bufG[nx] += errG * frac
			bufB[nx] += errB * frac
		}
	}

	return out
}

// bayerMatrix returns the n x n Bayer threshold matrix, recursively built
// from the canonical 2x2 seed, for n in {2, 4, 8}.
func bayerMatrix(n int) ([][]int, error) {
	switch n {
	case 2:
		return [][]int{{0, 2}, {3, 1}}, nil
	case 4, 8:
		sub, err := bayerMatrix(n / 2)
		if err != nil {
			return nil, err
		}
		out := make([][]int, n)
		for i := range out {
			out[i] = make([]int, n)
		}
		half := n / 2
		for y := 0; y < half; y++ {
			for x := 0; x < half; x++ {
				v := sub[y][x] * 4
				out[y][x] = v
				out[y][x+half] = v + 2
				out[y+half][x] = v + 3
				out[y+half][x+half] = v + 1
			}
		}
		return out, nil
	default:
		return nil, ErrUnsupportedBayerSize
	}
}

// ditherOrderedSize is the Bayer matrix side length used by the ordered
// strategy. 4 gives a reasonable balance of pattern visibility for 320x200
// output; callers needing 2 or 8 should use DitherRowWithBayerSize.
const ditherOrderedSize = 4

func ditherOrderedRow(row [CanvasWidth]RGB24, palette Palette, y int) [CanvasWidth]uint8 {
	out, _ := ditherOrderedRowSize(row, palette, y, ditherOrderedSize)
	return out
}

// DitherRowWithBayerSize is DitherOrdered parameterized by matrix size
// (2, 4, or 8), exposed for callers that need to choose the dither pattern
// scale explicitly.
func DitherRowWithBayerSize(row [CanvasWidth]RGB24, palette Palette, y, size int) ([CanvasWidth]uint8, error) {
	return ditherOrderedRowSize(row, palette, y, size)
}

// ditherOrderedRowSize perturbs every pixel of row by the size x size Bayer
// matrix cell at (y mod size, x mod size), scaled to roughly +/-16 levels
// ((threshold/size^2 - 0.5) * 32), then looks up the nearest palette entry.
func ditherOrderedRowSize(row [CanvasWidth]RGB24, palette Palette, y, size int) ([CanvasWidth]uint8, error) {
	matrix, err := bayerMatrix(size)
	if err != nil {
		return [CanvasWidth]uint8{}, err
	}

	n2 := size * size
	my := y % size
	var out [CanvasWidth]uint8
	for x, c := range row {
		t := (float64(matrix[my][x%size]) / float64(n2)) - 0.5
		perturb := t * 32.0

		perturbed := RGB24{
			R: clampChannel(float64(c.R) + perturb),
			G: clampChannel(float64(c.G) + perturb),
			B: clampChannel(float64(c.B) + perturb),
		}
		out[x] = uint8(nearestPaletteIndex(perturbed, palette[:]))
	}
	return out, nil
}
