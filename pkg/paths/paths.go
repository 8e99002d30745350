// Package paths provides centralized path handling for dotsctl.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/dotsctl/dotsctl/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for dotsctl
	EnvConfigDir = "DOTS_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// DotsDirName is the directory name under XDG_CONFIG_HOME where
	// dotsctl keeps its registry and configuration
	DotsDirName = "dots"

	// SourcesFileName is the name of the source registry file
	SourcesFileName = "sources.yml"

	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.toml"
)

// Paths provides centralized path management for dotsctl
type Paths interface {
	ConfigDir() string
	SourcesFile() string
	ConfigFile() string
}

type paths struct {
	// configDir holds the registry and configuration files
	configDir string
}

// New creates a new Paths instance. The config directory is taken from
// DOTS_CONFIG_DIR when set, otherwise $XDG_CONFIG_HOME/dots.
func New() Paths {
	p := &paths{}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = expandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, DotsDirName)
	}

	return p
}

// ConfigDir returns the config directory for dotsctl
func (p *paths) ConfigDir() string {
	return p.configDir
}

// SourcesFile returns the path to the source registry file
func (p *paths) SourcesFile() string {
	return filepath.Join(p.configDir, SourcesFileName)
}

// ConfigFile returns the path to the configuration file
func (p *paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// Normalize expands home, makes the path absolute and cleans it
func Normalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}
