package shr3200

// QuantizeStrategy names a palette assignment strategy. The zero value is
// not valid; use one of the Strategy constants.
type QuantizeStrategy string

const (
	StrategyPerScanline QuantizeStrategy = "per-scanline"
	StrategyGlobal      QuantizeStrategy = "global"
	StrategyOptimized   QuantizeStrategy = "optimized"
)

// DefaultErrorThreshold is the total-squared-RGB-error ceiling, over a
// 320-pixel row, at or below which the optimized strategy reuses the previous
// row's palette instead of generating a new one.
const DefaultErrorThreshold = 2000.0

// AssignPalettes runs the named strategy over a canvas, returning a
// PaletteSet of exactly MaxPalettes entries (unused slots all-black) and
// the per-row selector vector. errorThreshold is only consulted by
// StrategyOptimized.
func AssignPalettes(canvas CanvasImage, strategy QuantizeStrategy, errorThreshold float64) (PaletteSet, ScbVector, error) {
	switch strategy {
	case StrategyPerScanline:
		set, scb := AssignPerScanline(canvas)
		return set, scb, nil
	case StrategyGlobal:
		return AssignGlobal(canvas)
	case StrategyOptimized:
		return AssignOptimized(canvas, errorThreshold)
	default:
		return nil, ScbVector{}, ErrUnknownAlgorithm
	}
}

// AssignPerScanline runs median-cut independently on every row (K=16),
// dedupes exact repeats against palettes already recorded, enforces the
// 16-palette ceiling by assigning overflow rows to the closest existing
// palette, and pads the result to MaxPalettes entries.
func AssignPerScanline(canvas CanvasImage) (PaletteSet, ScbVector) {
	return generatePalettesByRow(canvas, func(row [CanvasWidth]RGB24) Palette {
		p, _ := MedianCutQuantize(row[:], ColorsPerPalette)
		return p
	})
}

// generatePalettesByRow is the shared skeleton for per-scanline-style
// assignment: it computes a candidate palette for every row with genRow,
// dedupes it against the palettes already recorded, and falls back to the
// best existing palette once the 16-palette ceiling is reached.
func generatePalettesByRow(canvas CanvasImage, genRow func(row [CanvasWidth]RGB24) Palette) (PaletteSet, ScbVector) {
	var set PaletteSet
	var scb ScbVector
	index := make(map[Palette]int)

	for y := 0; y < CanvasHeight; y++ {
		row := canvas.Row(y)
		candidate := genRow(row)

		if idx, ok := index[candidate]; ok {
			scb[y] = uint8(idx)
			continue
		}

		if len(set) < MaxPalettes {
			idx := len(set)
			set = append(set, candidate)
			index[candidate] = idx
			scb[y] = uint8(idx)
			continue
		}

		scb[y] = uint8(bestExistingPalette(row, set))
	}

	return padPalettes(set), scb
}

// bestExistingPalette returns the index of the palette in set with the
// smallest summed squared error against row's actual pixels. set must be
// non-empty.
func bestExistingPalette(row [CanvasWidth]RGB24, set PaletteSet) int {
	best := 0
	bestErr := paletteError(row, set[0])
	for i := 1; i < len(set); i++ {
		e := paletteError(row, set[i])
		if e < bestErr {
			bestErr = e
			best = i
		}
	}
	return best
}

// paletteError is the total squared nearest-neighbor RGB error of
// quantizing row against palette, returned as float64 so it can be
// compared directly against a caller-supplied error threshold (see
// AssignOptimized), matching original_source's _calculate_palette_error.
func paletteError(row [CanvasWidth]RGB24, palette Palette) float64 {
	total := 0
	for _, p := range row {
		idx := nearestPaletteIndex(p, palette[:])
		total += p.squaredDistance(palette[idx])
	}
	return float64(total)
}

// padPalettes pads set with all-black palettes up to MaxPalettes. The
// container always carries 16 palette slots; unused slots must be present
// and zeroed.
func padPalettes(set PaletteSet) PaletteSet {
	if len(set) >= MaxPalettes {
		return set
	}
	out := make(PaletteSet, MaxPalettes)
	copy(out, set)
	return out
}

// AssignGlobal runs median-cut once over the whole canvas with K=256,
// partitions the result into 16 contiguous 16-entry chunks in quantizer
// output order, and assigns each row the chunk minimizing its total
// squared nearest-neighbor error.
func AssignGlobal(canvas CanvasImage) (PaletteSet, ScbVector, error) {
	allPixels := make([]RGB24, 0, CanvasHeight*CanvasWidth)
	for y := 0; y < CanvasHeight; y++ {
		allPixels = append(allPixels, canvas.Pixels[y][:]...)
	}

	const megaSize = MaxPalettes * ColorsPerPalette
	mega, _ := megaCutQuantize(allPixels, megaSize)

	set := make(PaletteSet, MaxPalettes)
	for i := 0; i < MaxPalettes; i++ {
		var p Palette
		copy(p[:], mega[i*ColorsPerPalette:(i+1)*ColorsPerPalette])
		set[i] = p
	}

	var scb ScbVector
	for y := 0; y < CanvasHeight; y++ {
		row := canvas.Row(y)
		scb[y] = uint8(bestExistingPalette(row, set))
	}

	return set, scb, nil
}

// megaCutQuantize is MedianCutQuantize generalized to an arbitrary target
// color count greater than the 16-entry Palette array can hold (the global
// strategy needs K=256 for its megapalette). It shares every tie-breaking
// and fallback rule with MedianCutQuantize; only the output container
// differs (a slice instead of a fixed-size Palette).
func megaCutQuantize(pixels []RGB24, k int) ([]RGB24, []int) {
	out := make([]RGB24, k)
	if len(pixels) == 0 {
		return out, nil
	}

	if distinct := distinctColors(pixels); len(distinct) <= k {
		copy(out, distinct)
		return out, nearestIndices(pixels, out)
	}

	buckets := []colorBucket{{pixels: append([]RGB24(nil), pixels...)}}
	splittable := []bool{true}

	for len(buckets) < k {
		idx := largestSplittableBucket(buckets, splittable)
		if idx < 0 {
			break
		}
		left, right, ok := buckets[idx].split()
		if !ok {
			splittable[idx] = false
			continue
		}
		buckets[idx] = left
		buckets = append(buckets, right)
		splittable = append(splittable, true)
	}

	for i, b := range buckets {
		if i >= k {
			break
		}
		out[i] = b.mean()
	}

	return out, nearestIndices(pixels, out)
}

// AssignOptimized implements the reuse-with-threshold strategy: row 0
// always gets a fresh median-cut palette; each later row reuses the
// previous row's palette when its total squared nearest-neighbor error
// against that palette is within errorThreshold, otherwise it generates a
// fresh palette (deduping against existing ones, falling back to the best
// existing palette once the 16-palette ceiling is hit). This is the
// strategy that eliminates banding in slow-varying regions: consecutive
// rows that quantize acceptably against their predecessor's palette share
// it, so no seam appears at the row boundary.
func AssignOptimized(canvas CanvasImage, errorThreshold float64) (PaletteSet, ScbVector, error) {
	var set PaletteSet
	var scb ScbVector
	index := make(map[Palette]int)

	addPalette := func(p Palette) int {
		if idx, ok := index[p]; ok {
			return idx
		}
		if len(set) < MaxPalettes {
			idx := len(set)
			set = append(set, p)
			index[p] = idx
			return idx
		}
		return -1
	}

	for y := 0; y < CanvasHeight; y++ {
		row := canvas.Row(y)

		if y > 0 {
			prevIdx := scb[y-1]
			if paletteError(row, set[prevIdx]) <= errorThreshold {
				scb[y] = prevIdx
				continue
			}
		}

		candidate, _ := MedianCutQuantize(row[:], ColorsPerPalette)
		if idx := addPalette(candidate); idx >= 0 {
			scb[y] = uint8(idx)
			continue
		}

		scb[y] = uint8(bestExistingPalette(row, set))
	}

	return padPalettes(set), scb, nil
}
