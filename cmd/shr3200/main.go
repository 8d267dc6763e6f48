// Command shr3200 converts a raster image to an Apple IIgs Super Hi-Res
// "3200" file.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/willibrandon/shr3200/pkg/config"
	"github.com/willibrandon/shr3200/pkg/shr3200"
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

func init() {
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
	image.RegisterFormat("tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig)
}

func main() {
	var (
		inPath  = flag.String("in", "", "input image path")
		outPath = flag.String("out", "", "output .3200 path")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: shr3200 -in <image> -out <file.3200>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := createLogger(cfg.LogLevel)

	logger.Information("Converting {In} to {Out}", *inPath, *outPath)
	logger.Debug("Loaded configuration {@Config}", cfg)

	src, err := decodeImage(*inPath)
	if err != nil {
		logger.Error("Failed to decode input image: {Error}", err)
		os.Exit(1)
	}

	opts := shr3200.ConvertOptions{
		Preprocess: shr3200.PreprocessOptions{
			Filter:        shr3200.ResizeFilter(cfg.ResizeFilter),
			AspectCorrect: cfg.AspectCorrect,
			LinearRGB:     cfg.LinearRGB,
		},
		QuantizeStrategy: shr3200.QuantizeStrategy(cfg.QuantizeStrategy),
		ErrorThreshold:   cfg.ErrorThreshold,
		DitherAlgorithm:  shr3200.DitherAlgorithm(cfg.DitherAlgorithm),
	}

	result, err := shr3200.Convert(src, opts, logger)
	if err != nil {
		logger.Error("Conversion failed: {Error}", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outPath, result.Blob[:], 0644); err != nil {
		logger.Error("Failed to write output file: {Error}", err)
		os.Exit(1)
	}

	logger.Information("Wrote {Bytes} bytes to {Out}", len(result.Blob), *outPath)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// createLogger creates a configured logger instance.
func createLogger(logLevel string) core.Logger {
	sink := sinks.NewConsoleSink()

	var opts []mtlog.Option
	opts = append(opts, mtlog.WithSink(sink))

	switch logLevel {
	case "debug":
		opts = append(opts, mtlog.WithMinimumLevel(core.DebugLevel))
	case "info":
		opts = append(opts, mtlog.WithMinimumLevel(core.InformationLevel))
	case "warn":
		opts = append(opts, mtlog.WithMinimumLevel(core.WarningLevel))
	case "error":
		opts = append(opts, mtlog.WithMinimumLevel(core.ErrorLevel))
	default:
		opts = append(opts, mtlog.WithMinimumLevel(core.InformationLevel))
	}

	return mtlog.New(opts...)
}
