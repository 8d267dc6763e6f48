// Package config provides configuration management for the shr3200
// converter.
//
// Configuration is loaded exclusively from a JSON file at
// ~/.config/shr3200/config.json. No environment variables or auto-discovery
// mechanisms are used - all settings must be explicitly configured or rely
// on the documented defaults.
//
// Example config file:
//
//	{
//	  "dither_algorithm": "atkinson",
//	  "quantize_strategy": "optimized",
//	  "error_threshold": 2000.0,
//	  "aspect_correct": 1.2,
//	  "resize_filter": "lanczos",
//	  "linear_rgb": true,
//	  "log_level": "info",
//	  "log_file": ""
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the shr3200 converter configuration.
type Config struct {
	// DitherAlgorithm names the dithering strategy. Must match one of the
	// registered shr3200.DitherAlgorithm values.
	// Defaults to "floyd-steinberg" if not specified.
	DitherAlgorithm string `json:"dither_algorithm"`

	// QuantizeStrategy names the palette-assignment strategy. Must match
	// one of the registered shr3200.QuantizeStrategy values.
	// Defaults to "per-scanline" if not specified.
	QuantizeStrategy string `json:"quantize_strategy"`

	// ErrorThreshold is the total-squared-error ceiling the "optimized"
	// quantize strategy uses to decide whether to reuse the previous row's
	// palette. Ignored by other strategies.
	// Defaults to 2000.0 if not specified or set to 0: an explicit 0 is
	// replaced by the default.
	ErrorThreshold float64 `json:"error_threshold"`

	// AspectCorrect corrects for non-square source pixels during resample.
	// 1.0 means no correction.
	// Defaults to 1.0 if not specified.
	AspectCorrect float64 `json:"aspect_correct"`

	// ResizeFilter names the resampling filter.
	// Valid values: "nearest", "bilinear", "bicubic", "lanczos"
	// Defaults to "lanczos" if not specified.
	ResizeFilter string `json:"resize_filter"`

	// LinearRGB enables the one-shot sRGB-to-linear conversion in
	// Preprocess.
	// Defaults to false if not specified.
	LinearRGB bool `json:"linear_rgb"`

	// LogLevel is the logging verbosity level.
	// Valid values: "debug", "info", "warn", "error"
	// Defaults to "info" if not specified.
	LogLevel string `json:"log_level"`

	// LogFile is an optional log file path. It is loaded from the config
	// file but not used: the cmd/shr3200 logger writes only to its console
	// sink and never opens this file.
	LogFile string `json:"log_file"`
}

// Default configuration values applied when fields are not specified in the
// config file.
const (
	DefaultDitherAlgorithm  = "floyd-steinberg"
	DefaultQuantizeStrategy = "per-scanline"
	DefaultErrorThreshold   = 2000.0
	DefaultAspectCorrect    = 1.0
	DefaultResizeFilter     = "lanczos"
	DefaultLogLevel         = "info"
)

// Load loads configuration from the default config file at
// ~/.config/shr3200/config.json. If the file does not exist, Load falls
// back to an all-default configuration rather than failing: unlike the
// aseprite-mcp server, shr3200 has no required external resource to locate,
// so a missing config file is not an error.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadFromFile(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// configJSON mirrors the on-disk JSON shape. Every field here currently
// matches Config's wire representation directly; it exists as a distinct
// type anyway so a future field whose JSON and in-memory shapes diverge
// (as Timeout does in the teacher's config) has somewhere to go without
// disturbing Config's public shape.
type configJSON struct {
	DitherAlgorithm  string  `json:"dither_algorithm"`
	QuantizeStrategy string  `json:"quantize_strategy"`
	ErrorThreshold   float64 `json:"error_threshold"`
	AspectCorrect    float64 `json:"aspect_correct"`
	ResizeFilter     string  `json:"resize_filter"`
	LinearRGB        bool    `json:"linear_rgb"`
	LogLevel         string  `json:"log_level"`
	LogFile          string  `json:"log_file"`
}

// loadFromFile loads configuration from the default config file location.
func (c *Config) loadFromFile() error {
	data, err := os.ReadFile(getConfigFilePath())
	if err != nil {
		return err
	}

	var cj configJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}

	c.DitherAlgorithm = cj.DitherAlgorithm
	c.QuantizeStrategy = cj.QuantizeStrategy
	c.ErrorThreshold = cj.ErrorThreshold
	c.AspectCorrect = cj.AspectCorrect
	c.ResizeFilter = cj.ResizeFilter
	c.LinearRGB = cj.LinearRGB
	c.LogLevel = cj.LogLevel
	c.LogFile = cj.LogFile

	return nil
}

// setDefaults sets default values for unset configuration fields.
func (c *Config) setDefaults() {
	if c.DitherAlgorithm == "" {
		c.DitherAlgorithm = DefaultDitherAlgorithm
	}
	if c.QuantizeStrategy == "" {
		c.QuantizeStrategy = DefaultQuantizeStrategy
	}
	if c.ErrorThreshold == 0 {
		c.ErrorThreshold = DefaultErrorThreshold
	}
	if c.AspectCorrect == 0 {
		c.AspectCorrect = DefaultAspectCorrect
	}
	if c.ResizeFilter == "" {
		c.ResizeFilter = DefaultResizeFilter
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

var validDitherAlgorithms = map[string]bool{
	"none": true, "floyd-steinberg": true, "atkinson": true,
	"jarvis-judice-ninke": true, "stucki": true, "burkes": true, "ordered": true,
}

var validQuantizeStrategies = map[string]bool{
	"per-scanline": true, "global": true, "optimized": true,
}

var validResizeFilters = map[string]bool{
	"nearest": true, "bilinear": true, "bicubic": true, "lanczos": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks if the configuration is valid and usable. Validation
// checks every named algorithm/strategy/filter against the literal name
// lists above, which repeat the names the shr3200 package defines; they
// are not derived from that package, so a name added there must also be
// added here.
func (c *Config) Validate() error {
	if !validDitherAlgorithms[c.DitherAlgorithm] {
		return fmt.Errorf("invalid dither algorithm: %s", c.DitherAlgorithm)
	}
	if !validQuantizeStrategies[c.QuantizeStrategy] {
		return fmt.Errorf("invalid quantize strategy: %s", c.QuantizeStrategy)
	}
	if c.ErrorThreshold < 0 {
		return fmt.Errorf("error_threshold must be >= 0, got %v", c.ErrorThreshold)
	}
	if !validResizeFilters[c.ResizeFilter] {
		return fmt.Errorf("invalid resize filter: %s (valid: nearest, bilinear, bicubic, lanczos)", c.ResizeFilter)
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// getConfigFilePath is a function variable that returns the default config
// file path. Can be overridden in tests.
var getConfigFilePath = func() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "shr3200", "config.json")
}
