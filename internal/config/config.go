// Package config loads the archivec CLI's configuration from
// environment variables, command-line overrides, and defaults, the
// way the teacher's internal/config loads server configuration: a
// struct tagged with env/default, a LoadOptions override struct, and
// a single Load/LoadWithOverrides entry point.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/tailscale/hujson"
)

// Config holds the archivec CLI's configuration.
type Config struct {
	IO      IOConfig      `json:"io"`
	Build   BuildOptions  `json:"build"`
	Logging LoggingConfig `json:"logging"`
}

// LoadOptions holds command-line override values, mirroring the
// teacher's LoadOptions command-line-override pattern.
type LoadOptions struct {
	InputDir     string
	OutputDir    string
	ManifestFile string
	LogLevel     string
	Force        bool
	MaxRecordLen int
}

// IOConfig holds the CLI's input/output locations.
type IOConfig struct {
	InputDir     string `json:"inputDir" env:"ARCHIVEC_INPUT_DIR" default:"."`
	OutputDir    string `json:"outputDir" env:"ARCHIVEC_OUTPUT_DIR" default:"."`
	ManifestFile string `json:"manifestFile" env:"ARCHIVEC_MANIFEST" default:"archive.hujson"`
}

// BuildOptions holds the per-build knobs, analogous to the teacher's
// use of LoadOptions fields to override security/RDP defaults.
type BuildOptions struct {
	Force        bool `json:"force" env:"ARCHIVEC_FORCE" default:"false"`
	MaxRecordLen int  `json:"maxRecordLen" env:"ARCHIVEC_MAX_RECORD_LEN" default:"32767"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `json:"level" env:"ARCHIVEC_LOG_LEVEL" default:"info"`
}

// Load loads configuration from environment variables with defaults.
func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadWithOverrides loads configuration with command-line overrides.
// Precedence is explicit override > environment variable > default,
// the same rule the teacher's LoadWithOverrides applies.
func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	cfg := &Config{}

	cfg.IO.InputDir = getOverrideOrEnv(opts.InputDir, "ARCHIVEC_INPUT_DIR", ".")
	cfg.IO.OutputDir = getOverrideOrEnv(opts.OutputDir, "ARCHIVEC_OUTPUT_DIR", ".")
	cfg.IO.ManifestFile = getOverrideOrEnv(opts.ManifestFile, "ARCHIVEC_MANIFEST", "archive.hujson")

	cfg.Build.MaxRecordLen = getIntWithDefault("ARCHIVEC_MAX_RECORD_LEN", 32767)
	if opts.MaxRecordLen > 0 {
		cfg.Build.MaxRecordLen = opts.MaxRecordLen
	}
	cfg.Build.Force = getBoolWithDefault("ARCHIVEC_FORCE", false) || opts.Force

	cfg.Logging.Level = getOverrideOrEnv(opts.LogLevel, "ARCHIVEC_LOG_LEVEL", "info")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.IO.InputDir == "" {
		return fmt.Errorf("input directory cannot be empty")
	}
	if c.IO.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.Build.MaxRecordLen <= 0 || c.Build.MaxRecordLen > 32767 {
		return fmt.Errorf("max record length must be in (0, 32767]: got %d", c.Build.MaxRecordLen)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// Manifest is the optional per-build manifest (a ".hujson" file):
// JSON-with-comments listing, per input file path, the literal
// tokens to preload into the dictionary before Stage-1 runs. It
// generalizes the Rust original's per-day hardcoded
// add_dictionary_entry calls into data the CLI reads at runtime.
type Manifest struct {
	Inputs map[string][]string `json:"inputs"`
}

// LoadManifest reads and parses a manifest file at path. A missing
// file is not an error: it simply means no preload entries apply,
// matching the CLI's "missing input is a warning, not a failure"
// behavior.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{Inputs: map[string][]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading manifest %s: %w", path, err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("config: parsing manifest %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, fmt.Errorf("config: decoding manifest %s: %w", path, err)
	}
	if m.Inputs == nil {
		m.Inputs = map[string][]string{}
	}
	return &m, nil
}

// Helper functions for environment variable parsing, kept in the
// teacher's getXWithDefault style.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getOverrideOrEnv returns the command-line override value, the
// environment value, or the default, in that order of precedence.
func getOverrideOrEnv(override, envKey, defaultValue string) string {
	if override != "" {
		return override
	}
	return getEnvWithDefault(envKey, defaultValue)
}
