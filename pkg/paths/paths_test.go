package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		envSetup map[string]string
		validate func(t *testing.T, p Paths)
	}{
		{
			name: "custom config dir",
			envSetup: map[string]string{
				EnvConfigDir: "/custom/config",
			},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/custom/config", p.ConfigDir())
			},
		},
		{
			name: "defaults under XDG config home",
			validate: func(t *testing.T, p Paths) {
				assert.True(t, filepath.IsAbs(p.ConfigDir()), "config dir should be absolute")
				assert.Equal(t, DotsDirName, filepath.Base(p.ConfigDir()))
			},
		},
		{
			name: "tilde expanded in override",
			envSetup: map[string]string{
				EnvConfigDir: "~/my-dots",
			},
			validate: func(t *testing.T, p Paths) {
				homeDir, err := os.UserHomeDir()
				require.NoError(t, err)
				assert.Equal(t, filepath.Join(homeDir, "my-dots"), p.ConfigDir())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, "")

			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p := New()
			tt.validate(t, p)
		})
	}
}

func TestFilePaths(t *testing.T) {
	t.Setenv(EnvConfigDir, "/custom/config")

	p := New()

	assert.Equal(t, "/custom/config/sources.yml", p.SourcesFile())
	assert.Equal(t, "/custom/config/config.toml", p.ConfigFile())
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "just tilde",
			input:    "~",
			expected: homeDir,
		},
		{
			name:     "tilde with path",
			input:    "~/dotfiles",
			expected: filepath.Join(homeDir, "dotfiles"),
		},
		{
			name:     "tilde other user",
			input:    "~other/path",
			expected: "~other/path", // Not expanded
		},
		{
			name:     "no tilde",
			input:    "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "relative path",
			input:    "relative/path",
			expected: "relative/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandHome(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		wantErr  bool
		validate func(t *testing.T, result string)
	}{
		{
			name:    "empty path",
			input:   "",
			wantErr: true,
		},
		{
			name:  "absolute path",
			input: "/absolute/path",
			validate: func(t *testing.T, result string) {
				assert.Equal(t, "/absolute/path", result)
			},
		},
		{
			name:  "relative path",
			input: "relative/path",
			validate: func(t *testing.T, result string) {
				assert.True(t, filepath.IsAbs(result), "path should be absolute")
				assert.True(t, strings.HasSuffix(result, filepath.Join("relative", "path")))
			},
		},
		{
			name:  "path with tilde",
			input: "~/my/path",
			validate: func(t *testing.T, result string) {
				assert.Equal(t, filepath.Join(homeDir, "my/path"), result)
			},
		},
		{
			name:  "path with dots",
			input: "/path/../other",
			validate: func(t *testing.T, result string) {
				assert.Equal(t, "/other", result)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Normalize(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}
