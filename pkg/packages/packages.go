// Package packages maps tracked files to the system packages they ask
// for. Each distribution family reads its package names from its own
// metadata key, so a file can carry "dpkg: [git, curl]" next to keys
// for other systems without conflict.
package packages

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/sources"
)

// distroKeys maps an os-release ID (or ID_LIKE token) to the metadata
// key that carries package names for that family.
var distroKeys = map[string]string{
	"debian": "dpkg",
}

// osReleasePaths are searched in order, per the os-release convention.
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// Detect returns the metadata key that carries package names for the
// running distribution. Unrecognized distributions are an error; callers
// that only want best-effort detection should treat it as "no key".
func Detect() (string, error) {
	return detectFrom(osReleasePaths)
}

func detectFrom(paths []string) (string, error) {
	id, like, err := readOSRelease(paths)
	if err != nil {
		return "", err
	}
	if key, ok := distroKeys[id]; ok {
		return key, nil
	}
	for _, fallback := range like {
		if key, ok := distroKeys[fallback]; ok {
			return key, nil
		}
	}
	if id == "" {
		return "", errors.New(errors.ErrUnknownDistro, "cannot determine the running distribution")
	}
	return "", errors.Newf(errors.ErrUnknownDistro, "no package support for distribution %q", id)
}

// readOSRelease extracts ID and ID_LIKE from the first readable file in
// paths. A missing file yields empty values rather than an error so the
// unknown-distro message stays uniform.
func readOSRelease(paths []string) (string, []string, error) {
	var file *os.File
	var err error
	for _, path := range paths {
		file, err = os.Open(path)
		if err == nil {
			break
		}
	}
	if file == nil {
		return "", nil, nil
	}
	defer func() { _ = file.Close() }()

	var id string
	var like []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			id = value
		case "ID_LIKE":
			like = strings.Fields(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, errors.Wrapf(err, errors.ErrFileAccess, "%s", file.Name())
	}
	return id, like, nil
}

// Collect gathers the package names requested under key across all
// entries, deduplicated and sorted.
func Collect(entries []sources.Entry, key string) ([]string, error) {
	set := make(map[string]bool)
	for _, entry := range entries {
		names, err := entry.Meta.PackageNames(key)
		if err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "%s", entry.Path)
		}
		for _, name := range names {
			set[name] = true
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
