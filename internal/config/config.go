// Package config loads spacemap settings from defaults, an optional YAML
// file, SPACEMAP_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lumipallolabs/spacemap/internal/scanner"
	"github.com/lumipallolabs/spacemap/internal/treemap"
)

// EnvPrefix prefixes every environment override, e.g. SPACEMAP_LISTEN
const EnvPrefix = "SPACEMAP"

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the validated configuration
type Config struct {
	Path           string        `mapstructure:"path"`
	Remote         string        `mapstructure:"remote"`
	ShowFreeSpace  bool          `mapstructure:"show_free_space"`
	ResizeDebounce time.Duration `mapstructure:"resize_debounce"`
	Listen         string        `mapstructure:"listen"`

	Scan   ScanConfig   `mapstructure:"scan"`
	Layout LayoutConfig `mapstructure:"layout"`
	Window WindowConfig `mapstructure:"window"`
}

// ScanConfig controls the local scanner
type ScanConfig struct {
	MinFileSize int64    `mapstructure:"min_file_size"`
	SkipHidden  bool     `mapstructure:"skip_hidden"`
	Exclude     []string `mapstructure:"exclude"`
	Workers     int      `mapstructure:"workers"`
}

// LayoutConfig holds the treemap constants
type LayoutConfig struct {
	Padding float64 `mapstructure:"padding"`
	Header  float64 `mapstructure:"header"`
	MinSide float64 `mapstructure:"min_side"`
}

// WindowConfig is the initial GUI window size
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// flagKeys maps config keys to the flag names that override them
var flagKeys = map[string]string{
	"remote":           "remote",
	"listen":           "listen",
	"show_free_space":  "free-space",
	"scan.skip_hidden": "skip-hidden",
	"scan.exclude":     "exclude",
	"scan.workers":     "workers",
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("path", ".")
	v.SetDefault("remote", "")
	v.SetDefault("show_free_space", true)
	v.SetDefault("resize_debounce", 150*time.Millisecond)
	v.SetDefault("listen", "127.0.0.1:8731")

	v.SetDefault("scan.min_file_size", scanner.DefaultMinFileSize)
	v.SetDefault("scan.skip_hidden", false)
	v.SetDefault("scan.exclude", scanner.DefaultProfile().ExcludedPaths)
	v.SetDefault("scan.workers", 8)

	v.SetDefault("layout.padding", treemap.DefaultPadding)
	v.SetDefault("layout.header", treemap.DefaultHeader)
	v.SetDefault("layout.min_side", treemap.DefaultMinSide)

	v.SetDefault("window.width", 1200)
	v.SetDefault("window.height", 800)
}

// DefaultFile returns ~/.config/spacemap/config.yaml
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "spacemap", "config.yaml")
}

// Load reads the configuration. An empty file means the default location,
// which may be absent; an explicit file must exist. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else if def := DefaultFile(); def != "" {
		v.SetConfigFile(def)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config %s: %w", def, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges
func (c Config) Validate() error {
	switch {
	case c.Scan.MinFileSize < 0:
		return fmt.Errorf("%w: scan.min_file_size must not be negative", ErrInvalid)
	case c.Layout.Padding < 0 || c.Layout.Header < 0:
		return fmt.Errorf("%w: layout padding and header must not be negative", ErrInvalid)
	case c.Layout.MinSide < 1:
		return fmt.Errorf("%w: layout.min_side must be at least 1", ErrInvalid)
	case c.ResizeDebounce < 0:
		return fmt.Errorf("%w: resize_debounce must not be negative", ErrInvalid)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalid)
	case c.Remote != "" && !strings.HasPrefix(c.Remote, "http://") && !strings.HasPrefix(c.Remote, "https://"):
		return fmt.Errorf("%w: remote must be an http(s) URL", ErrInvalid)
	}
	return nil
}

// Profile returns the scan profile
func (c Config) Profile() scanner.Profile {
	return scanner.Profile{
		ExcludedPaths: c.Scan.Exclude,
		SkipHidden:    c.Scan.SkipHidden,
		MinFileSize:   c.Scan.MinFileSize,
	}
}

// LayoutOptions returns the treemap constants at scale 1
func (c Config) LayoutOptions() treemap.Options {
	return treemap.Options{
		Padding: c.Layout.Padding,
		Header:  c.Layout.Header,
		MinSide: c.Layout.MinSide,
		Scale:   1,
	}
}
