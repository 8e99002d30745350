// Package planner turns one source file's metadata into the ordered
// list of filesystem actions that satisfy it. Planning is pure: the
// metadata is never mutated and the filesystem is never touched.
package planner

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotsctl/dotsctl/pkg/actions"
	"github.com/dotsctl/dotsctl/pkg/config"
	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/metadata"
	"github.com/dotsctl/dotsctl/pkg/paths"
)

// Planner computes install actions from metadata
type Planner struct {
	stripExts  []string
	packageKey string
}

// New returns a planner. packageKey selects which per-distribution
// package list turns into package actions; empty means none.
func New(cfg *config.Config, packageKey string) *Planner {
	return &Planner{
		stripExts:  cfg.Install.StripExtensions,
		packageKey: packageKey,
	}
}

// Plan expands the metadata of filename into actions, in this order
// for every unit: the source marker, its package names, mkdir entries,
// explicit symlinks, nested units depth-first, then the symlinks for
// the file's effective destinations. Nested units forming a path cycle
// fail the plan.
func (p *Planner) Plan(filename string, meta *metadata.Metadata) ([]actions.Action, error) {
	logger := logging.GetLogger("planner")

	b := &builder{planner: p, visited: map[string]bool{}}
	if err := b.unit(filename, meta); err != nil {
		return nil, err
	}

	logger.Debug().Str("path", filename).Int("actions", len(b.actions)).Msg("Planned source file")
	return b.actions, nil
}

// builder accumulates actions across the nested-unit recursion and
// carries the visited set guarding against cycles.
type builder struct {
	planner *Planner
	actions []actions.Action
	visited map[string]bool
}

func (b *builder) append(a actions.Action) {
	b.actions = append(b.actions, a)
}

// unit plans one source file or nested unit
func (b *builder) unit(filename string, meta *metadata.Metadata) error {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", filename)
	}
	if b.visited[abs] {
		return errors.Newf(errors.ErrUnitCycle,
			"unit %s is already being planned, nested units must not form cycles", abs)
	}
	b.visited[abs] = true

	b.append(actions.NewSource(filename))

	if key := b.planner.packageKey; key != "" {
		names, err := meta.PackageNames(key)
		if err != nil {
			return err
		}
		for _, name := range names {
			b.append(actions.NewPackage(name))
		}
	}

	for _, dir := range meta.Mkdir {
		b.append(actions.NewMkdir(paths.ExpandHome(dir)))
	}

	for _, linkPath := range sortedKeys(meta.Symlink) {
		b.symlink(meta.Symlink[linkPath], paths.ExpandHome(linkPath))
	}

	// Destinations are computed before nested units but installed
	// after them, so the local copy keeps the metadata untouched.
	dests := b.effectiveDests(filename, meta)

	for _, name := range meta.UnitNames() {
		nested := filepath.Join(filepath.Dir(filename), name)
		if err := b.unit(nested, meta.Units[name]); err != nil {
			return err
		}
	}

	for _, dest := range dests {
		target, err := relativeTarget(filename, dest)
		if err != nil {
			return err
		}
		b.symlink(target, dest)
	}

	return nil
}

// symlink records the parent directory creation ahead of the link
func (b *builder) symlink(target, linkPath string) {
	b.append(actions.NewMkdir(filepath.Dir(linkPath)))
	b.append(actions.NewSymlink(target, linkPath))
}

// effectiveDests merges explicit dest entries with the ones
// synthesized from destdir and the file's base name, expands home,
// applies extension stripping, and drops duplicates while preserving
// order (explicit entries first).
func (b *builder) effectiveDests(filename string, meta *metadata.Metadata) []string {
	raw := make([]string, 0, len(meta.Dests)+len(meta.DestDirs))
	raw = append(raw, meta.Dests...)

	base := filepath.Base(filename)
	for _, dir := range meta.DestDirs {
		raw = append(raw, filepath.Join(dir, base))
	}

	var out []string
	seen := map[string]bool{}
	for _, dest := range raw {
		dest = b.stripDest(paths.ExpandHome(dest), meta.StripExtension)
		if seen[dest] {
			continue
		}
		seen[dest] = true
		out = append(out, dest)
	}
	return out
}

// stripDest removes the destination's extension when the metadata says
// so, or by default when the extension is in the configured strip list.
func (b *builder) stripDest(dest string, override *bool) string {
	root, ext := splitExt(dest)

	strip := false
	for _, candidate := range b.planner.stripExts {
		if ext == candidate {
			strip = true
			break
		}
	}
	if override != nil {
		strip = *override
	}

	if strip {
		return root
	}
	return dest
}

// relativeTarget expresses filename relative to the destination's
// parent directory, so the link survives relocation of that directory
// together with the source tree.
func relativeTarget(filename, linkPath string) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", filename)
	}
	linkDir, err := filepath.Abs(filepath.Dir(linkPath))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", linkPath)
	}
	rel, err := filepath.Rel(linkDir, abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal,
			"cannot express %s relative to %s", abs, linkDir)
	}
	return rel, nil
}

// splitExt splits off the extension like the destination path rules
// expect: leading dots belong to the name, so dotfiles have none.
func splitExt(path string) (string, string) {
	base := filepath.Base(path)
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return path, ""
	}

	lead := 0
	for lead < len(base) && base[lead] == '.' {
		lead++
	}
	if i < lead {
		return path, ""
	}

	ext := base[i:]
	return path[:len(path)-len(ext)], ext
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
