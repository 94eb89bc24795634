package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-slicer/logging"
	"github.com/RyanBlaney/sonido-slicer/onset"
	"github.com/RyanBlaney/sonido-slicer/slicer"
	"github.com/RyanBlaney/sonido-slicer/transcode"
)

// DefaultFile is looked up in the working directory when no path is given
const DefaultFile = "sonido.yaml"

// Log output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the application configuration, loaded from YAML
type Config struct {
	LogLevel  string                  `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string                  `yaml:"log_format"` // text or json
	Onset     onset.Config            `yaml:"onset"`
	Decoder   transcode.DecoderConfig `yaml:"decoder"`
	Slice     SliceConfig             `yaml:"slice"`
}

// SliceConfig holds the loop slicing defaults
type SliceConfig struct {
	slicer.Config `yaml:",inline"`
	// UseOnsets cuts at detected onsets using the onset section
	UseOnsets bool `yaml:"use_onsets"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: FormatText,
		Onset:     *onset.DefaultConfig(),
		Decoder:   *transcode.DefaultDecoderConfig(),
		Slice: SliceConfig{
			Config: *slicer.DefaultConfig(),
		},
	}
}

// LoadConfig loads configuration from the YAML file at path. If path is
// empty, DefaultFile is used when present; otherwise the built-in defaults
// apply. Environment overrides are applied last, then the result is
// validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			if err := cfg.applyEnvOverrides(); err != nil {
				return nil, err
			}
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("log_format must be %q or %q, got %q", FormatText, FormatJSON, c.LogFormat)
	}
	if err := c.Onset.Validate(); err != nil {
		return fmt.Errorf("onset: %w", err)
	}
	if err := c.Decoder.Validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if err := c.SlicerConfig().Validate(); err != nil {
		return fmt.Errorf("slice: %w", err)
	}
	return nil
}

// SlicerConfig builds the slicer parameters, sharing the onset and decoder
// sections
func (c *Config) SlicerConfig() *slicer.Config {
	sc := c.Slice.Config
	sc.Decoder = &c.Decoder
	if c.Slice.UseOnsets {
		oc := c.Onset
		sc.Onsets = &oc
	}
	return &sc
}

// NewLogger builds a logger for the configured level and format
func (c *Config) NewLogger() (logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	var logger logging.Logger
	if strings.EqualFold(strings.TrimSpace(c.LogFormat), FormatJSON) {
		logger = logging.NewJSONLogger()
	} else {
		logger = logging.NewDefaultLogger()
	}
	logger.SetLevel(level)
	return logger, nil
}

// applyEnvOverrides applies SONIDO_* variables on top of file values
func (c *Config) applyEnvOverrides() error {
	// SONIDO_LOG_LEVEL
	if val, ok := os.LookupEnv("SONIDO_LOG_LEVEL"); ok {
		c.LogLevel = val
	}

	// SONIDO_ONSET_METHOD
	if val, ok := os.LookupEnv("SONIDO_ONSET_METHOD"); ok {
		method, err := onset.ParseMethod(val)
		if err != nil {
			return fmt.Errorf("SONIDO_ONSET_METHOD: %w", err)
		}
		c.Onset.Method = method
	}

	// SONIDO_ONSET_THRESHOLD
	if val, ok := os.LookupEnv("SONIDO_ONSET_THRESHOLD"); ok {
		threshold, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("SONIDO_ONSET_THRESHOLD: %w", err)
		}
		c.Onset.Threshold = threshold
	}

	// SONIDO_FFMPEG_PATH
	if val, ok := os.LookupEnv("SONIDO_FFMPEG_PATH"); ok {
		c.Decoder.FFmpegPath = val
	}

	// SONIDO_DECODE_TIMEOUT
	if val, ok := os.LookupEnv("SONIDO_DECODE_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("SONIDO_DECODE_TIMEOUT: %w", err)
		}
		c.Decoder.Timeout = timeout
	}

	return nil
}
