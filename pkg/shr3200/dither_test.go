package shr3200

import "testing"

func blackWhitePalette() Palette {
	var p Palette
	p[0] = RGB24{0, 0, 0}
	p[1] = RGB24{255, 255, 255}
	return p
}

func TestDitherRowUnknownAlgorithm(t *testing.T) {
	var row [CanvasWidth]RGB24
	_, err := DitherRow(row, blackWhitePalette(), DitherAlgorithm("bogus"), 0)
	if err != ErrUnknownAlgorithm {
		t.Errorf("err = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestDitherRowNoneIsNearestNeighbor(t *testing.T) {
	var row [CanvasWidth]RGB24
	for x := range row {
		row[x] = RGB24{10, 10, 10}
	}
	indices, err := DitherRow(row, blackWhitePalette(), DitherNone, 0)
	if err != nil {
		t.Fatalf("DitherRow() error = %v", err)
	}
	for x, idx := range indices {
		if idx != 0 {
			t.Fatalf("indices[%d] = %d, want 0 (nearest to black)", x, idx)
		}
	}
}

func TestDitherRowFloydSteinbergDistributesMeanError(t *testing.T) {
	palette := blackWhitePalette()
	var row [CanvasWidth]RGB24
	for x := range row {
		row[x] = RGB24{128, 128, 128}
	}

	indices, err := DitherRow(row, palette, DitherFloydSteinberg, 0)
	if err != nil {
		t.Fatalf("DitherRow() error = %v", err)
	}

	var sum int
	for _, idx := range indices {
		if idx != 0 && idx != 1 {
			t.Fatalf("index %d out of {0,1}", idx)
		}
		sum += int(idx)
	}

	mean := float64(sum) / float64(len(indices)) * 255
	if mean < 100 || mean > 156 {
		t.Errorf("dithered mean = %v, want close to 128", mean)
	}
}

func TestDitherRowAtkinsonLightGrayIncludesWhite(t *testing.T) {
	palette := blackWhitePalette()
	var row [CanvasWidth]RGB24
	for x := range row {
		row[x] = RGB24{200, 200, 200}
	}
	indices, err := DitherRow(row, palette, DitherAtkinson, 0)
	if err != nil {
		t.Fatalf("DitherRow() error = %v", err)
	}
	var whiteCount int
	for _, idx := range indices {
		if idx == 1 {
			whiteCount++
		}
	}
	if whiteCount == 0 {
		t.Error("expected at least some white pixels for a 200-gray input")
	}
}

func TestBayerMatrixSizes(t *testing.T) {
	for _, size := range []int{2, 4, 8} {
		m, err := bayerMatrix(size)
		if err != nil {
			t.Fatalf("bayerMatrix(%d) error = %v", size, err)
		}
		if len(m) != size {
			t.Fatalf("bayerMatrix(%d) has %d rows, want %d", size, len(m), size)
		}
		seen := make(map[int]bool)
		for _, row := range m {
			if len(row) != size {
				t.Fatalf("bayerMatrix(%d) row has %d cols, want %d", size, len(row), size)
			}
			for _, v := range row {
				seen[v] = true
			}
		}
		if len(seen) != size*size {
			t.Errorf("bayerMatrix(%d) values not a permutation of [0,%d): saw %d distinct", size, size*size, len(seen))
		}
	}
}

func TestBayerMatrixUnsupportedSize(t *testing.T) {
	_, err := bayerMatrix(3)
	if err != ErrUnsupportedBayerSize {
		t.Errorf("err = %v, want ErrUnsupportedBayerSize", err)
	}
}

func TestDitherRowWithBayerSize2x2MidGray(t *testing.T) {
	var row [CanvasWidth]RGB24
	for x := range row {
		row[x] = RGB24{128, 128, 128}
	}
	palette := blackWhitePalette()

	row0, err := DitherRowWithBayerSize(row, palette, 0, 2)
	if err != nil {
		t.Fatalf("DitherRowWithBayerSize() error = %v", err)
	}
	row1, err := DitherRowWithBayerSize(row, palette, 1, 2)
	if err != nil {
		t.Fatalf("DitherRowWithBayerSize() error = %v", err)
	}

	// The 2x2 Bayer pattern [[0,2],[3,1]] tiled should alternate the
	// chosen index both across x and across y for an exact mid-gray input.
	if row0[0] == row0[1] {
		t.Error("expected alternating indices across x on row 0")
	}
	if row0[0] == row1[0] {
		t.Error("expected alternating indices across y between row 0 and row 1")
	}
}

func TestDiffusionKernelsSumToDivisor(t *testing.T) {
	for name, kernel := range diffusionKernels {
		var sum int
		for _, w := range kernel.weights {
			sum += w.weight
		}
		if name == DitherAtkinson {
			if sum != 6 || kernel.divisor != 8 {
				t.Errorf("%s: weights sum to %d/%d, want 6/8 (discards 2/8)", name, sum, kernel.divisor)
			}
			continue
		}
		if sum != kernel.divisor {
			t.Errorf("%s: weights sum to %d, want divisor %d", name, sum, kernel.divisor)
		}
	}
}

func BenchmarkDitherRowFloydSteinberg(b *testing.B) {
	palette := blackWhitePalette()
	var row [CanvasWidth]RGB24
	for x := range row {
		row[x] = RGB24{128, 128, 128}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DitherRow(row, palette, DitherFloydSteinberg, 0)
	}
}
