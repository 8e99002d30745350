package packages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/metadata"
	"github.com/dotsctl/dotsctl/pkg/sources"
)

func writeOSRelease(t *testing.T, content string) []string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return []string{path}
}

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		errCode errors.ErrorCode
	}{
		{
			name:    "debian",
			content: "PRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\nID=debian\n",
			want:    "dpkg",
		},
		{
			name:    "derivative via ID_LIKE",
			content: "ID=ubuntu\nID_LIKE=debian\n",
			want:    "dpkg",
		},
		{
			name:    "quoted multi-token ID_LIKE",
			content: "ID=linuxmint\nID_LIKE=\"ubuntu debian\"\n",
			want:    "dpkg",
		},
		{
			name:    "unsupported distro",
			content: "ID=arch\n",
			errCode: errors.ErrUnknownDistro,
		},
		{
			name:    "no id at all",
			content: "PRETTY_NAME=\"Mystery OS\"\n",
			errCode: errors.ErrUnknownDistro,
		},
		{
			name:    "comments and blanks skipped",
			content: "# vendor data\n\nID=debian\n",
			want:    "dpkg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := detectFrom(writeOSRelease(t, tt.content))
			if tt.errCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.errCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestDetectFromMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := detectFrom([]string{missing})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownDistro))
}

func TestDetectFromFallbackPath(t *testing.T) {
	paths := writeOSRelease(t, "ID=debian\n")
	missing := filepath.Join(t.TempDir(), "nope")
	key, err := detectFrom(append([]string{missing}, paths...))
	require.NoError(t, err)
	assert.Equal(t, "dpkg", key)
}

func parseMeta(t *testing.T, doc string) *metadata.Metadata {
	t.Helper()
	meta, err := metadata.Parse([]byte(doc))
	require.NoError(t, err)
	return meta
}

func TestCollect(t *testing.T) {
	entries := []sources.Entry{
		{Path: "/dots/a.sh", Meta: parseMeta(t, "dpkg: [git, curl]")},
		{Path: "/dots/b.sh", Meta: parseMeta(t, "dpkg: curl")},
		{Path: "/dots/c.sh", Meta: parseMeta(t, "dest: ~/bin/c")},
	}

	names, err := Collect(entries, "dpkg")
	require.NoError(t, err)
	assert.Equal(t, []string{"curl", "git"}, names)
}

func TestCollectEmpty(t *testing.T) {
	names, err := Collect(nil, "dpkg")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCollectInvalidValue(t *testing.T) {
	entries := []sources.Entry{
		{Path: "/dots/bad.sh", Meta: parseMeta(t, "dpkg: {not: a-list}")},
	}

	_, err := Collect(entries, "dpkg")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMetadataInvalid))
	assert.Contains(t, err.Error(), "/dots/bad.sh")
}
