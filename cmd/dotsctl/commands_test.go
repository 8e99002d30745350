package dotsctl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/testutil"
)

// runCommand builds a fresh root command and executes it with args,
// capturing combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	// A nil slice would make cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestAddCommand(t *testing.T) {
	env := testutil.NewEnvironment(t)
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	out, err := runCommand(t, "add", file)
	require.NoError(t, err)

	assert.Contains(t, out, "tracking")
	assert.FileExists(t, filepath.Join(env.ConfigDir, "sources.yml"))
}

func TestAddCommandMissingPath(t *testing.T) {
	env := testutil.NewEnvironment(t)

	_, err := runCommand(t, "add", filepath.Join(env.SourceDir, "nope.sh"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestInstallCommandCreatesSymlink(t *testing.T) {
	env := testutil.NewEnvironment(t)
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	_, err := runCommand(t, "add", file)
	require.NoError(t, err)

	out, err := runCommand(t, "install", "-v")
	require.NoError(t, err)

	// tool.py installs as tool, the .py dropped per the defaults
	link := filepath.Join(env.Home, "bin", "tool")
	info, err := os.Lstat(link)
	require.NoError(t, err)
	require.Equal(t, os.ModeSymlink, info.Mode()&os.ModeType)

	resolved, err := filepath.EvalSymlinks(link)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(file)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)

	assert.Contains(t, out, "SYMLINK")
	assert.Contains(t, out, "1 changed")
}

func TestInstallCommandIdempotent(t *testing.T) {
	env := testutil.NewEnvironment(t)
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	_, err := runCommand(t, "add", file)
	require.NoError(t, err)

	_, err = runCommand(t, "install")
	require.NoError(t, err)

	out, err := runCommand(t, "install")
	require.NoError(t, err)
	assert.Contains(t, out, "1 unchanged")
	assert.NotContains(t, out, "1 changed")
}

func TestInstallCommandExplicitPath(t *testing.T) {
	env := testutil.NewEnvironment(t)
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	// Explicit roots install without being tracked first
	_, err := runCommand(t, "install", file)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(env.Home, "bin", "tool"))
}

func TestInstallCommandQuietByDefault(t *testing.T) {
	env := testutil.NewEnvironment(t)
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	out, err := runCommand(t, "install", file)
	require.NoError(t, err)

	// Without -v only the summary is printed
	assert.NotContains(t, out, "SYMLINK")
	assert.Contains(t, out, "1 changed")
}

func TestInstallCommandDryRun(t *testing.T) {
	env := testutil.NewEnvironment(t)
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	_, err := runCommand(t, "add", file)
	require.NoError(t, err)

	out, err := runCommand(t, "install", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "planned")
	assert.Contains(t, out, MsgDryRunNotice)
	assert.NoDirExists(t, filepath.Join(env.Home, "bin"))
}

func TestMetaCommand(t *testing.T) {
	env := testutil.NewEnvironment(t)
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	out, err := runCommand(t, "meta", file)
	require.NoError(t, err)

	assert.Contains(t, out, "dest: ~/bin/tool.py")
	assert.Contains(t, out, file)
}

func TestPackagesCommandWithKey(t *testing.T) {
	env := testutil.NewEnvironment(t)
	a := env.WriteTracked("bin/a.sh", "dpkg:", "  - git", "  - curl")
	b := env.WriteTracked("bin/b.sh", "dpkg:", "  - git")

	_, err := runCommand(t, "add", a, b)
	require.NoError(t, err)

	out, err := runCommand(t, "packages", "--key", "dpkg")
	require.NoError(t, err)

	assert.Equal(t, []string{"curl", "git"}, strings.Fields(out))
}

func TestGenConfigCommand(t *testing.T) {
	testutil.NewEnvironment(t)

	out, err := runCommand(t, "gen-config")
	require.NoError(t, err)

	assert.Contains(t, out, "[scan]")
	assert.Contains(t, out, "# header_lines")
}

func TestGenConfigCommandWrite(t *testing.T) {
	env := testutil.NewEnvironment(t)

	out, err := runCommand(t, "gen-config", "--write")
	require.NoError(t, err)

	target := filepath.Join(env.ConfigDir, "config.toml")
	assert.Contains(t, out, target)
	assert.FileExists(t, target)

	// A second write must not clobber the existing file
	_, err = runCommand(t, "gen-config", "--write")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
}

func TestRootWithoutCommand(t *testing.T) {
	testutil.NewEnvironment(t)

	out, err := runCommand(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), MsgNoCommand)
	assert.Contains(t, out, "USAGE")
}

func TestConfigFlagMissingFile(t *testing.T) {
	env := testutil.NewEnvironment(t)

	_, err := runCommand(t, "meta", "--config", filepath.Join(env.Home, "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestConfigFlagApplies(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfgFile := env.WriteConfig("[install]\nstrip_extensions = []\n")
	file := env.WriteTracked("bin/tool.py", "dest: ~/bin/tool.py")

	_, err := runCommand(t, "add", file)
	require.NoError(t, err)

	_, err = runCommand(t, "install", "--config", cfgFile)
	require.NoError(t, err)

	// With stripping disabled the link keeps its extension
	assert.FileExists(t, filepath.Join(env.Home, "bin", "tool.py"))
}

func TestDocsCommand(t *testing.T) {
	testutil.NewEnvironment(t)

	out, err := runCommand(t, "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "Available help topics:")
	assert.Contains(t, out, "metadata")

	out, err = runCommand(t, "docs", "metadata")
	require.NoError(t, err)
	assert.Contains(t, out, "dest")

	_, err = runCommand(t, "docs", "nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestVersionCommand(t *testing.T) {
	testutil.NewEnvironment(t)

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dotsctl dev")
}

func TestCompletionCommand(t *testing.T) {
	testutil.NewEnvironment(t)

	out, err := runCommand(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "dotsctl")
}

func TestUnknownCommand(t *testing.T) {
	testutil.NewEnvironment(t)

	_, err := runCommand(t, "bogus")
	require.Error(t, err)
}
