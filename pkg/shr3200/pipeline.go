package shr3200

import (
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/willibrandon/mtlog/core"
)

// ConvertOptions bundles every knob Convert needs, mirroring the resolved
// shape of config.Config without importing it (the core packages must not
// depend on the ambient config package).
type ConvertOptions struct {
	Preprocess       PreprocessOptions
	QuantizeStrategy QuantizeStrategy
	ErrorThreshold   float64
	DitherAlgorithm  DitherAlgorithm
}

// ConvertResult is everything Convert produces: the packed blob plus the
// intermediate artifacts a caller may want to inspect or re-render.
type ConvertResult struct {
	Blob     Blob
	Grid     IndexGrid
	Palettes PaletteSet
	Scb      ScbVector
}

// Convert runs the full five-stage pipeline (preprocess, palette
// assignment, IIgs snapping, dither, pack) over a decoded source image,
// logging one Information line per stage and a Debug line carrying the
// resolved options, tagged with a per-call correlation ID for log
// correlation across the run.
func Convert(src image.Image, opts ConvertOptions, logger core.Logger) (ConvertResult, error) {
	callID := uuid.New().String()
	start := time.Now()

	logger.Information("Starting shr3200 conversion {CallID}", callID)
	logger.Debug("Resolved conversion options {@Options}", opts)

	var result ConvertResult

	logger.Information("Preprocessing image {CallID}", callID)
	canvas := Preprocess(src, opts.Preprocess)

	logger.Information("Assigning palettes with strategy {Strategy} {CallID}", opts.QuantizeStrategy, callID)
	palettes, scb, err := AssignPalettes(canvas, opts.QuantizeStrategy, opts.ErrorThreshold)
	if err != nil {
		logger.Error("Palette assignment failed: {Error} {CallID}", err, callID)
		return result, err
	}

	logger.Information("Snapping palettes to IIgs 12-bit grid {CallID}", callID)
	snapped := SnapPaletteSetToIIgsGrid(palettes)

	logger.Information("Dithering with algorithm {Algorithm} {CallID}", opts.DitherAlgorithm, callID)
	var grid IndexGrid
	for y := 0; y < CanvasHeight; y++ {
		row := canvas.Row(y)
		palette := snapped[int(scb[y])]
		indices, err := DitherRow(row, palette, opts.DitherAlgorithm, y)
		if err != nil {
			logger.Error("Dithering failed on row {Row}: {Error} {CallID}", y, err, callID)
			return result, err
		}
		grid[y] = indices
	}

	logger.Information("Packing 3200 container {CallID}", callID)
	blob, err := Pack(grid, snapped, scb)
	if err != nil {
		logger.Error("Packing failed: {Error} {CallID}", err, callID)
		return result, err
	}

	result = ConvertResult{
		Blob:     blob,
		Grid:     grid,
		Palettes: snapped,
		Scb:      scb,
	}

	logger.Information("Finished shr3200 conversion {CallID} in {Elapsed}", callID, time.Since(start))

	return result, nil
}
