// Package sources manages the tracked source registry and expands
// tracked or ad-hoc roots into the concrete files carrying metadata.
package sources

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/paths"
)

// registryHeader marks the file as machine-written
const registryHeader = "# Automatically written file, edit with care"

// Registry persists the tracked source set as a YAML mapping of
// absolute path to a managed flag. The file is rewritten wholesale on
// every change.
type Registry struct {
	path string
}

// NewRegistry returns a registry stored at path
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Path returns the registry file location
func (r *Registry) Path() string {
	return r.path
}

// Load reads the tracked source set. A missing file is an empty set.
func (r *Registry) Load() (map[string]bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrSourcesLoad, "cannot read %s", r.path)
	}

	sources := map[string]bool{}
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourcesLoad, "cannot parse %s", r.path)
	}

	return sources, nil
}

// Roots returns the tracked root paths in sorted order
func (r *Registry) Roots() ([]string, error) {
	sources, err := r.Load()
	if err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(sources))
	for root := range sources {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots, nil
}

// Add resolves each name to its real absolute path, verifies it exists,
// and records it in the registry. The whole file is rewritten. Missing
// paths abort before anything is written.
func (r *Registry) Add(names []string) ([]string, error) {
	logger := logging.GetLogger("sources")

	sources, err := r.Load()
	if err != nil {
		return nil, err
	}

	added := make([]string, 0, len(names))
	for _, name := range names {
		abs, err := paths.Normalize(name)
		if err != nil {
			return nil, err
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, errors.Newf(errors.ErrNotFound, "%s does not exist", abs)
		}

		sources[resolved] = true
		added = append(added, resolved)
		logger.Info().Str("path", resolved).Msg("Tracking source")
	}

	if err := r.save(sources); err != nil {
		return nil, err
	}

	return added, nil
}

// save rewrites the registry file atomically with a generated-file
// header and explicit document markers.
func (r *Registry) save(sources map[string]bool) error {
	body, err := yaml.Marshal(sources)
	if err != nil {
		return errors.Wrap(err, errors.ErrSourcesSave, "cannot render source registry")
	}

	var buf bytes.Buffer
	buf.WriteString(registryHeader)
	buf.WriteString("\n---\n")
	buf.Write(body)
	buf.WriteString("...\n")

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrSourcesSave, "cannot create %s", dir)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrSourcesSave, "cannot write %s", tmpPath)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, errors.ErrSourcesSave, "cannot replace %s", r.path)
	}

	return nil
}
