// Package config loads dotsctl configuration with koanf.
// Values are layered: embedded defaults, then the user's config.toml,
// then DOTSCTL_* environment variables.
package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dotsctl/dotsctl/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "DOTSCTL_"

// Config holds all dotsctl settings
type Config struct {
	Scan    ScanConfig    `koanf:"scan"`
	Install InstallConfig `koanf:"install"`
	Log     LogConfig     `koanf:"log"`
}

// ScanConfig controls metadata discovery
type ScanConfig struct {
	// HeaderLines is how many leading lines are searched for the marker
	HeaderLines int `koanf:"header_lines"`
}

// InstallConfig controls symlink creation
type InstallConfig struct {
	// StripExtensions lists destination extensions stripped from the
	// link name unless the file's metadata says otherwise
	StripExtensions []string `koanf:"strip_extensions"`
}

// LogConfig controls log output
type LogConfig struct {
	// File enables the log file in the XDG state directory
	File bool `koanf:"file"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load reads configuration, layering the user's config file (if it
// exists at configFile) and DOTSCTL_* environment variables over the
// embedded defaults.
func Load(configFile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default configuration")
	}

	// 2. User config file, if present
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad,
					"failed to load configuration from %s", configFile)
			}
		}
	}

	// 3. Environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the embedded defaults without reading any file or
// environment variable.
func Default() *Config {
	return &Config{
		Scan:    ScanConfig{HeaderLines: 30},
		Install: InstallConfig{StripExtensions: []string{".py"}},
		Log:     LogConfig{File: true},
	}
}

// DefaultContent returns the embedded defaults file with all value
// lines commented out, suitable for writing a starter config.toml.
func DefaultContent() string {
	lines := strings.Split(string(defaultConfig), "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Section headers stay as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}

func (c *Config) validate() error {
	if c.Scan.HeaderLines < 1 {
		return errors.Newf(errors.ErrConfigValid,
			"scan.header_lines must be at least 1, got %d", c.Scan.HeaderLines)
	}

	for _, ext := range c.Install.StripExtensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf(errors.ErrConfigValid,
				"install.strip_extensions entries must start with a dot, got %q", ext)
		}
	}

	return nil
}

// envTransform converts environment variable names to config keys.
// Only the first underscore becomes a separator, so section keys keep
// their own underscores: DOTSCTL_SCAN_HEADER_LINES -> scan.header_lines
func envTransform(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}
