package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				DitherAlgorithm:  "atkinson",
				QuantizeStrategy: "optimized",
				ErrorThreshold:   2000.0,
				ResizeFilter:     "lanczos",
				LogLevel:         "info",
			},
			wantErr: false,
		},
		{
			name: "unknown dither algorithm",
			config: &Config{
				DitherAlgorithm:  "bogus",
				QuantizeStrategy: "optimized",
				ResizeFilter:     "lanczos",
				LogLevel:         "info",
			},
			wantErr: true,
		},
		{
			name: "unknown quantize strategy",
			config: &Config{
				DitherAlgorithm:  "none",
				QuantizeStrategy: "bogus",
				ResizeFilter:     "lanczos",
				LogLevel:         "info",
			},
			wantErr: true,
		},
		{
			name: "negative error threshold",
			config: &Config{
				DitherAlgorithm:  "none",
				QuantizeStrategy: "optimized",
				ErrorThreshold:   -1,
				ResizeFilter:     "lanczos",
				LogLevel:         "info",
			},
			wantErr: true,
		},
		{
			name: "unknown resize filter",
			config: &Config{
				DitherAlgorithm:  "none",
				QuantizeStrategy: "per-scanline",
				ResizeFilter:     "bogus",
				LogLevel:         "info",
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			config: &Config{
				DitherAlgorithm:  "none",
				QuantizeStrategy: "per-scanline",
				ResizeFilter:     "lanczos",
				LogLevel:         "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()

	if cfg.DitherAlgorithm != DefaultDitherAlgorithm {
		t.Errorf("DitherAlgorithm = %v, want %v", cfg.DitherAlgorithm, DefaultDitherAlgorithm)
	}
	if cfg.QuantizeStrategy != DefaultQuantizeStrategy {
		t.Errorf("QuantizeStrategy = %v, want %v", cfg.QuantizeStrategy, DefaultQuantizeStrategy)
	}
	if cfg.ErrorThreshold != DefaultErrorThreshold {
		t.Errorf("ErrorThreshold = %v, want %v", cfg.ErrorThreshold, DefaultErrorThreshold)
	}
	if cfg.AspectCorrect != DefaultAspectCorrect {
		t.Errorf("AspectCorrect = %v, want %v", cfg.AspectCorrect, DefaultAspectCorrect)
	}
	if cfg.ResizeFilter != DefaultResizeFilter {
		t.Errorf("ResizeFilter = %v, want %v", cfg.ResizeFilter, DefaultResizeFilter)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "shr3200-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	orig := getConfigFilePath
	getConfigFilePath = func() string {
		return filepath.Join(tempDir, "does-not-exist.json")
	}
	defer func() { getConfigFilePath = orig }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.DitherAlgorithm != DefaultDitherAlgorithm {
		t.Errorf("DitherAlgorithm = %v, want %v", cfg.DitherAlgorithm, DefaultDitherAlgorithm)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "shr3200-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "config.json")
	contents, err := json.Marshal(configJSON{
		DitherAlgorithm:  "burkes",
		QuantizeStrategy: "global",
		ErrorThreshold:   500,
		ResizeFilter:     "bicubic",
		LogLevel:         "debug",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, contents, 0644); err != nil {
		t.Fatal(err)
	}

	orig := getConfigFilePath
	getConfigFilePath = func() string { return configPath }
	defer func() { getConfigFilePath = orig }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.DitherAlgorithm != "burkes" {
		t.Errorf("DitherAlgorithm = %v, want burkes", cfg.DitherAlgorithm)
	}
	if cfg.QuantizeStrategy != "global" {
		t.Errorf("QuantizeStrategy = %v, want global", cfg.QuantizeStrategy)
	}
	if cfg.ErrorThreshold != 500 {
		t.Errorf("ErrorThreshold = %v, want 500", cfg.ErrorThreshold)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "shr3200-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "config.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	orig := getConfigFilePath
	getConfigFilePath = func() string { return configPath }
	defer func() { getConfigFilePath = orig }()

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for malformed JSON")
	}
}
