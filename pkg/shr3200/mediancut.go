package shr3200

import "sort"

// MedianCutQuantize runs the median-cut color quantizer over a bag of
// pixels, returning a palette of exactly k entries and, for every input
// pixel, the index of the palette entry nearest to it.
//
// The algorithm repeatedly splits the bucket with the largest channel-sum
// range (sum over R, G, B of max-min) along its widest channel, at the
// lower median, until k buckets exist or no bucket can be split further.
// Buckets that cannot be split (size <= 1) are marked unsplittable and
// skipped in favor of the next-largest splittable bucket.
func MedianCutQuantize(pixels []RGB24, k int) (Palette, []int) {
	var palette Palette
	if len(pixels) == 0 {
		return palette, nil
	}

	if distinct := distinctColors(pixels); len(distinct) <= k {
		for i, c := range distinct {
			palette[i] = c
		}
		return palette, nearestIndices(pixels, palette[:])
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
		palette[i] = b.mean()
	}

	return palette, nearestIndices(pixels, palette[:])
}

// distinctColors returns the distinct colors in pixels in ascending lex
// order of (R, G, B), the order the "trivial input" edge case of §4.1
// requires for its zero-padded output to be deterministic.
func distinctColors(pixels []RGB24) []RGB24 {
	seen := make(map[RGB24]struct{}, len(pixels))
	for _, p := range pixels {
		seen[p] = struct{}{}
	}

	out := make([]RGB24, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})

	return out
}

// nearestIndices maps every pixel to the index of its nearest entry in
// entries by squared RGB distance, ties broken toward the lowest index.
// entries may be a 16-entry Palette sliced to []RGB24 or an arbitrarily
// sized megapalette; the search itself does not care.
func nearestIndices(pixels []RGB24, entries []RGB24) []int {
	out := make([]int, len(pixels))
	for i, p := range pixels {
		out[i] = nearestPaletteIndex(p, entries)
	}
	return out
}

// nearestPaletteIndex returns the index in entries nearest to c by squared
// RGB distance, ties broken toward the lowest index. entries must be
// non-empty.
func nearestPaletteIndex(c RGB24, entries []RGB24) int {
	best := 0
	bestDist := c.squaredDistance(entries[0])
	for i := 1; i < len(entries); i++ {
		d := c.squaredDistance(entries[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// largestSplittableBucket returns the index of the splittable bucket with
// the largest channel-sum range, ties broken by list order, or -1 if none
// of the buckets are splittable.
func largestSplittableBucket(buckets []colorBucket, splittable []bool) int {
	best := -1
	bestRange := -1
	for i, b := range buckets {
		if !splittable[i] {
			continue
		}
		r := b.channelSumRange()
		if r > bestRange {
			bestRange = r
			best = i
		}
	}
	return best
}

// colorBucket is a set of pixels under consideration for a single palette
// entry during median-cut splitting.
type colorBucket struct {
	pixels []RGB24
}

// channelSumRange is the sum, over R/G/B, of (max - min) across the
// bucket's pixels. Used to pick which bucket to split next.
func (b colorBucket) channelSumRange() int {
	if len(b.pixels) == 0 {
		return 0
	}
	minR, maxR, minG, maxG, minB, maxB := b.channelBounds()
	return (maxR - minR) + (maxG - minG) + (maxB - minB)
}

func (b colorBucket) channelBounds() (minR, maxR, minG, maxG, minB, maxB int) {
	minR, minG, minB = 255, 255, 255
	for _, p := range b.pixels {
		r, g, bl := int(p.R), int(p.G), int(p.B)
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
		if g < minG {
			minG = g
		}
		if g > maxG {
			maxG = g
		}
		if bl < minB {
			minB = bl
		}
		if bl > maxB {
			maxB = bl
		}
	}
	return
}

// split divides the bucket along its widest channel (ties -> R, then G,
// then B) at the lower-median index floor(n/2). It returns ok=false if
// the bucket has fewer than 2 pixels and cannot be split.
func (b colorBucket) split() (left, right colorBucket, ok bool) {
	n := len(b.pixels)
	if n < 2 {
		return colorBucket{}, colorBucket{}, false
	}

	minR, maxR, minG, maxG, minB, maxB := b.channelBounds()
	rRange, gRange, bRange := maxR-minR, maxG-minG, maxB-minB

	channel := 0 // R
	switch {
	case gRange > rRange && gRange >= bRange:
		channel = 1 // G
	case bRange > rRange && bRange > gRange:
		channel = 2 // B
	}

	sorted := append([]RGB24(nil), b.pixels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return channelValue(sorted[i], channel) < channelValue(sorted[j], channel)
	})

	mid := n / 2
	return colorBucket{pixels: sorted[:mid]}, colorBucket{pixels: sorted[mid:]}, true
}

// mean computes the component-wise mean of the bucket's pixels, rounded
// toward zero (truncated) to a byte, per §4.1.
func (b colorBucket) mean() RGB24 {
	if len(b.pixels) == 0 {
		return RGB24{}
	}
	var sumR, sumG, sumB int
	for _, p := range b.pixels {
		sumR += int(p.R)
		sumG += int(p.G)
		sumB += int(p.B)
	}
	n := len(b.pixels)
	return RGB24{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
	}
}

func channelValue(c RGB24, channel int) uint8 {
	switch channel {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}
