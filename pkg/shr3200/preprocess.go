package shr3200

import (
	"image"

	"github.com/nfnt/resize"
)

// ResizeFilter names a resampling filter for Preprocess.
type ResizeFilter string

const (
	FilterNearest  ResizeFilter = "nearest"
	FilterBilinear ResizeFilter = "bilinear"
	FilterBicubic  ResizeFilter = "bicubic"
	FilterLanczos  ResizeFilter = "lanczos"
)

var resizeFilters = map[ResizeFilter]resize.InterpolationFunction{
	FilterNearest:  resize.NearestNeighbor,
	FilterBilinear: resize.Bilinear,
	FilterBicubic:  resize.Bicubic,
	FilterLanczos:  resize.Lanczos3,
}

// PreprocessOptions controls how an arbitrary source image is resampled
// down to the fixed 320x200 canvas.
type PreprocessOptions struct {
	// Filter selects the resize.InterpolationFunction used for resampling.
	Filter ResizeFilter

	// AspectCorrect, when not 1.0, corrects for non-square source pixels:
	// the image is first resized to (320*AspectCorrect, 200), then resized
	// again down to (320, 200).
	AspectCorrect float64

	// LinearRGB, when true, converts every resampled pixel from sRGB to
	// linear RGB once, as the final step of Preprocess. See ToLinearRGB.
	LinearRGB bool
}

// Preprocess resamples src to the fixed 320x200 canvas per opts, optionally
// applying a one-shot sRGB-to-linear conversion as its last step.
func Preprocess(src image.Image, opts PreprocessOptions) CanvasImage {
	fn, ok := resizeFilters[opts.Filter]
	if !ok {
		fn = resize.Lanczos3
	}

	resized := src
	if opts.AspectCorrect != 0 && opts.AspectCorrect != 1.0 {
		wide := uint(float64(CanvasWidth) * opts.AspectCorrect)
		resized = resize.Resize(wide, CanvasHeight, resized, fn)
	}
	resized = resize.Resize(CanvasWidth, CanvasHeight, resized, fn)

	var canvas CanvasImage
	bounds := resized.Bounds()
	for y := 0; y < CanvasHeight; y++ {
		for x := 0; x < CanvasWidth; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			canvas.Pixels[y][x] = RGB24{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
			}
		}
	}

	if opts.LinearRGB {
		canvas = ToLinearRGB(canvas)
	}

	return canvas
}
