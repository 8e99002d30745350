package sources

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/metadata"
)

// Entry pairs a discovered source file with its decoded metadata
type Entry struct {
	Path string
	Meta *metadata.Metadata
}

// Resolver expands root paths into the files to operate on. Files are
// scanned exactly once, files without metadata are dropped, and the
// result is sorted by path so runs are reproducible.
type Resolver struct {
	headerLines int
}

// NewResolver returns a resolver that scans the first headerLines
// lines of each file for the metadata marker.
func NewResolver(headerLines int) *Resolver {
	return &Resolver{headerLines: headerLines}
}

// Resolve scans every file reachable from roots. A root that is a
// regular file is scanned directly; a root that is a directory is
// walked recursively, hidden entries included. Scan failures are
// collected across the whole run and returned together, so nothing
// downstream mutates the filesystem on a partially bad tree.
func (r *Resolver) Resolve(roots []string) ([]Entry, error) {
	logger := logging.GetLogger("sources")

	seen := map[string]string{}
	var entries []Entry
	var scanErrs []error

	consider := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", path)
		}
		if first, dup := seen[abs]; dup {
			return errors.Newf(errors.ErrDuplicateSource,
				"multiple source loads (%s, first seen as %s)", path, first)
		}
		seen[abs] = path

		meta, found, err := metadata.Scan(path, r.headerLines)
		if err != nil {
			scanErrs = append(scanErrs, err)
			return nil
		}
		if !found {
			return nil
		}

		logger.Trace().Str("path", path).Msg("Resolved source file")
		entries = append(entries, Entry{Path: path, Meta: meta})
		return nil
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			logger.Warn().Str("path", root).Msg("Tracked source is not accessible, skipping")
			continue
		}

		if info.Mode().IsRegular() {
			if err := consider(root); err != nil {
				return nil, err
			}
			continue
		}

		if !info.IsDir() {
			logger.Warn().Str("path", root).Msg("Tracked source is neither file nor directory, skipping")
			continue
		}

		walkRoot := root
		if lst, err := os.Lstat(root); err == nil && lst.Mode()&os.ModeSymlink != 0 {
			if resolved, err := filepath.EvalSymlinks(root); err == nil {
				walkRoot = resolved
			}
		}

		err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				logger.Warn().Str("path", path).Err(walkErr).Msg("Cannot read path, skipping")
				return nil
			}
			if d.IsDir() {
				return nil
			}
			// Follow file symlinks like a plain stat would
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
			return consider(path)
		})
		if err != nil {
			return nil, err
		}
	}

	if len(scanErrs) > 0 {
		return nil, stderrors.Join(scanErrs...)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
