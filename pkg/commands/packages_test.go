package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotsctl/dotsctl/pkg/config"
	"github.com/dotsctl/dotsctl/pkg/paths"
	"github.com/dotsctl/dotsctl/pkg/testutil"
)

func TestPackagesWithKeyOverride(t *testing.T) {
	env := testutil.NewEnvironment(t)
	p := paths.New()
	cfg := config.Default()

	env.WriteTracked("a.sh", "dpkg: [git, curl]")
	env.WriteTracked("b.sh", "dpkg: curl", "dest: ~/bin/b.sh")
	env.WriteTracked("c.sh", "dest: ~/bin/c.sh")
	track(t, p, env.SourceDir)

	result, err := Packages(PackagesOptions{Paths: p, Config: cfg, Key: "dpkg"})
	require.NoError(t, err)

	assert.Equal(t, "dpkg", result.Key)
	assert.Equal(t, []string{"curl", "git"}, result.Names, "names merge sorted and deduplicated")
}

func TestPackagesEmptyRegistry(t *testing.T) {
	testutil.NewEnvironment(t)
	p := paths.New()
	cfg := config.Default()

	result, err := Packages(PackagesOptions{Paths: p, Config: cfg, Key: "dpkg"})
	require.NoError(t, err)
	assert.Empty(t, result.Names)
}
