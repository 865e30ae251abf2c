package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "ECCO_"

// Load reads the configuration file at path on top of the defaults,
// applies environment overrides and validates the result. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := Decode(path, data, cfg); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses data into cfg, choosing the format from path's extension.
// Keys absent from data keep their current values.
func Decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			pe := &ParseError{Path: path, Message: err.Error(), Err: err}
			var de *toml.DecodeError
			if errors.As(err, &de) {
				pe.Line, pe.Column = de.Position()
			}
			return pe
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// ApplyEnv overrides settings from ECCO_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError("LOG_JSON", v, err)
		}
		cfg.Logging.JSON = b
	}
	if v, ok := lookup(EnvPrefix + "SERVER_ADDR"); ok {
		cfg.Server.Addr = v
	}
	if v, ok := lookup(EnvPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("REQUEST_TIMEOUT", v, err)
		}
		cfg.Server.RequestTimeout = Duration(d)
	}
	if v, ok := lookup(EnvPrefix + "RENDER_ALPHA"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("RENDER_ALPHA", v, err)
		}
		cfg.Render.Alpha = f
	}
	if v, ok := lookup(EnvPrefix + "RENDER_DARK_FACTOR"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("RENDER_DARK_FACTOR", v, err)
		}
		cfg.Render.DarkFactor = f
	}
	return nil
}

func envError(name, value string, err error) error {
	return fmt.Errorf("environment %s%s=%q: %w", EnvPrefix, name, value, err)
}
