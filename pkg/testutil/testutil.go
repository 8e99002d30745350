// Package testutil provides shared scaffolding for command and
// integration tests: an isolated home directory wired into the
// environment, plus builders for source files carrying metadata.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"

	"github.com/dotsctl/dotsctl/pkg/paths"
)

// Environment is an isolated home for one test. Every path the tool
// consults (HOME, the config dir, XDG state) points inside a temp dir
// that vanishes with the test.
type Environment struct {
	// Home is the fake home directory
	Home string

	// ConfigDir holds sources.yml and config.toml
	ConfigDir string

	// SourceDir is where tracked files are written
	SourceDir string

	t *testing.T
}

// NewEnvironment creates an isolated environment and points the
// process environment at it for the duration of the test.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	root := t.TempDir()
	env := &Environment{
		Home:      filepath.Join(root, "home"),
		ConfigDir: filepath.Join(root, "home", ".config", "dots"),
		SourceDir: filepath.Join(root, "src"),
		t:         t,
	}

	for _, dir := range []string{env.Home, env.ConfigDir, env.SourceDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv(paths.EnvHome, env.Home)
	t.Setenv(paths.EnvConfigDir, env.ConfigDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.Home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.Home, ".local", "state"))

	// xdg caches its paths at init time; re-read them under the new
	// environment so defaults resolve inside the sandbox
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return env
}

// WriteTracked writes a shell-style file under SourceDir whose comment
// header carries the given metadata block, and returns its path.
func (env *Environment) WriteTracked(relPath string, block ...string) string {
	env.t.Helper()

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# :dotsctl:\n")
	for _, line := range block {
		b.WriteString("# " + line + "\n")
	}
	b.WriteString("# ...\n")
	b.WriteString("\necho tracked\n")

	return env.write(relPath, b.String(), 0755)
}

// WritePlain writes a file without metadata under SourceDir.
func (env *Environment) WritePlain(relPath, content string) string {
	env.t.Helper()
	return env.write(relPath, content, 0644)
}

// WriteConfig writes config.toml into ConfigDir.
func (env *Environment) WriteConfig(content string) string {
	env.t.Helper()

	path := filepath.Join(env.ConfigDir, paths.ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func (env *Environment) write(relPath, content string, perm os.FileMode) string {
	env.t.Helper()

	path := filepath.Join(env.SourceDir, relPath)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			env.t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		env.t.Fatalf("Failed to write %s: %v", relPath, err)
	}
	return path
}

// FileTree represents a directory structure for testing. String values
// are file contents; nested FileTree values are directories.
type FileTree map[string]interface{}

// WithFileTree creates a complete file tree under SourceDir.
func (env *Environment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.SourceDir, tree)
}

func createFileTree(t *testing.T, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := os.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := os.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// AssertSymlink fails the test unless linkPath is a symlink storing
// exactly wantTarget.
func AssertSymlink(t *testing.T, linkPath, wantTarget string) {
	t.Helper()

	info, err := os.Lstat(linkPath)
	if err != nil {
		t.Fatalf("Expected symlink at %s: %v", linkPath, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("Expected %s to be a symlink, mode is %s", linkPath, info.Mode())
	}

	target, err := os.Readlink(linkPath)
	if err != nil {
		t.Fatalf("Failed to read link %s: %v", linkPath, err)
	}
	if target != wantTarget {
		t.Errorf("Symlink %s stores %q, want %q", linkPath, target, wantTarget)
	}
}

// AssertRegularFile fails the test unless path is a regular file with
// exactly the given content.
func AssertRegularFile(t *testing.T, path, wantContent string) {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("Expected file at %s: %v", path, err)
	}
	if !info.Mode().IsRegular() {
		t.Fatalf("Expected %s to be a regular file, mode is %s", path, info.Mode())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	if string(data) != wantContent {
		t.Errorf("File %s holds %q, want %q", path, string(data), wantContent)
	}
}
