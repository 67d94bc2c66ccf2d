package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/pbn-tools-mcp/internal/pbn"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel     = "PBN_MCP_LOG_LEVEL"
	EnvMaxDimension = "PBN_MAX_DIMENSION"
	EnvSmoothRadius = "PBN_SMOOTH_RADIUS"
	EnvSeed         = "PBN_SEED"
	EnvDenoise      = "PBN_DENOISE"
)

// DefaultNumColors is the palette size used when a request does not name one.
const DefaultNumColors = 15

// Config holds server-wide settings. Per-request tool arguments override
// the pipeline values.
type Config struct {
	LogLevel     zerolog.Level
	MaxDimension int
	SmoothRadius int
	Seed         uint64
	Denoise      pbn.DenoiseMethod
}

// DefaultConfig returns the configuration used when no environment
// variables are set.
func DefaultConfig() Config {
	return Config{
		LogLevel:     zerolog.InfoLevel,
		MaxDimension: pbn.DefaultMaxDimension,
		SmoothRadius: pbn.DefaultSmoothRadius,
		Seed:         pbn.DefaultSeed,
		Denoise:      pbn.DenoiseBilateral,
	}
}

// ConfigFromEnv builds a Config from environment variables looked up with
// getenv (normally os.Getenv). Unset variables keep their defaults.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v := strings.TrimSpace(getenv(EnvMaxDimension)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid %s: %q", EnvMaxDimension, v)
		}
		cfg.MaxDimension = n
	}

	if v := strings.TrimSpace(getenv(EnvSmoothRadius)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid %s: %q", EnvSmoothRadius, v)
		}
		cfg.SmoothRadius = n
	}

	if v := strings.TrimSpace(getenv(EnvSeed)); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		cfg.Seed = n
	}

	if v := strings.TrimSpace(getenv(EnvDenoise)); v != "" {
		m := pbn.DenoiseMethod(strings.ToLower(v))
		if m != pbn.DenoiseBilateral && m != pbn.DenoiseGaussian {
			return cfg, fmt.Errorf("invalid %s: %q", EnvDenoise, v)
		}
		cfg.Denoise = m
	}

	return cfg, nil
}

// Options returns pipeline options seeded from the configuration.
func (c Config) Options() pbn.Options {
	opts := pbn.DefaultOptions()
	opts.Clusters = DefaultNumColors
	opts.MaxDimension = c.MaxDimension
	opts.SmoothRadius = c.SmoothRadius
	opts.Quantize.Seed = c.Seed
	opts.Denoise = c.Denoise
	return opts
}
