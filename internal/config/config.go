// Package config loads client settings from TOML or YAML files and
// ECCO_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/logging"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/color"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/html"
)

// Config is the complete client configuration.
type Config struct {
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	JSON  bool   `toml:"json" yaml:"json"`
}

// RenderConfig configures colors and the HTML page.
type RenderConfig struct {
	// Alpha is the opacity of derived marking colors.
	Alpha float64 `toml:"alpha" yaml:"alpha"`
	// DarkFactor scales channels of the dark color variant used by the
	// features view.
	DarkFactor float64 `toml:"dark_factor" yaml:"dark_factor"`
	// Title is the HTML page title.
	Title string `toml:"title" yaml:"title"`
	// BodyTemplate is an optional path to an html/template file replacing
	// the page body.
	BodyTemplate string `toml:"body_template" yaml:"body_template"`
}

// ServerConfig configures the connection to the ECCO server.
type ServerConfig struct {
	// Addr is the host:port of the ECCO server. Empty means offline.
	Addr           string   `toml:"addr" yaml:"addr"`
	RequestTimeout Duration `toml:"request_timeout" yaml:"request_timeout"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce delays a re-render until writes settle.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Render: RenderConfig{
			Alpha:      color.DefaultAlpha,
			DarkFactor: color.DefaultDarkFactor,
			Title:      html.DefaultTitle,
		},
		Server: ServerConfig{RequestTimeout: Duration(10 * time.Second)},
		Watch:  WatchConfig{Debounce: Duration(100 * time.Millisecond)},
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Value: c.Logging.Level, Message: "must be debug, info, warn or error"}
	}
	if c.Render.Alpha <= 0 || c.Render.Alpha > 1 {
		return &ValidationError{Path: "render.alpha", Value: c.Render.Alpha, Message: "must be in (0, 1]"}
	}
	if c.Render.DarkFactor <= 0 || c.Render.DarkFactor > 1 {
		return &ValidationError{Path: "render.dark_factor", Value: c.Render.DarkFactor, Message: "must be in (0, 1]"}
	}
	if c.Server.RequestTimeout < 0 {
		return &ValidationError{Path: "server.request_timeout", Value: c.Server.RequestTimeout, Message: "must not be negative"}
	}
	if c.Watch.Debounce < 0 {
		return &ValidationError{Path: "watch.debounce", Value: c.Watch.Debounce, Message: "must not be negative"}
	}
	return nil
}

// Deriver returns the color deriver for the render settings.
func (c *Config) Deriver() color.Deriver {
	return color.Deriver{Alpha: c.Render.Alpha, DarkFactor: c.Render.DarkFactor}
}

// LoggerConfig returns the logger configuration for the logging settings.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Logging.Level)
	cfg.JSON = c.Logging.JSON
	return cfg
}

// Duration is a time.Duration written as a Go duration string ("5s").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
