// Package metadata locates and decodes the dotsctl block embedded in
// source files. The block sits behind a marker in the file's leading
// lines and holds the install instructions for that file.
package metadata

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dotsctl/dotsctl/pkg/errors"
)

// Marker is the substring that introduces a metadata block
const Marker = ":dotsctl:"

// Sentinel terminates a metadata block
const Sentinel = "..."

// Recognized metadata keys
const (
	KeyMkdir          = "mkdir"
	KeySymlink        = "symlink"
	KeyDestDir        = "destdir"
	KeyDest           = "dest"
	KeyStripExtension = "strip_extension"
	KeyUnits          = "dotsctl"
)

// Metadata is the decoded install block of one source file. Nested
// units under the dotsctl key are decoded recursively.
type Metadata struct {
	// Mkdir lists directories to ensure exist, nested lists flattened
	Mkdir []string

	// Symlink maps link paths to their exact targets
	Symlink map[string]string

	// DestDirs lists directories that synthesize dest entries from the
	// source file's base name
	DestDirs []string

	// Dests lists explicit symlink destinations for the source file
	Dests []string

	// StripExtension overrides the extension-stripping default when set
	StripExtension *bool

	// Units maps relative names to nested metadata blocks
	Units map[string]*Metadata

	raw map[string]interface{}
}

// Parse decodes a metadata block from its YAML text. An empty document
// yields nil metadata and no error.
func Parse(data []byte) (*Metadata, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrMetadataParse, "metadata block is not valid YAML")
	}
	if raw == nil {
		return nil, nil
	}
	return decode(raw)
}

// decode builds typed metadata from a parsed YAML mapping
func decode(raw map[string]interface{}) (*Metadata, error) {
	m := &Metadata{raw: raw}

	for key, value := range raw {
		var err error
		switch key {
		case KeyMkdir:
			m.Mkdir, err = toStringList(key, value)
		case KeySymlink:
			m.Symlink, err = toStringMap(key, value)
		case KeyDestDir:
			m.DestDirs, err = toStringList(key, value)
		case KeyDest:
			m.Dests, err = toStringList(key, value)
		case KeyStripExtension:
			b, ok := value.(bool)
			if !ok {
				err = errors.Newf(errors.ErrMetadataInvalid,
					"%s must be a boolean, got %T", key, value)
			} else {
				m.StripExtension = &b
			}
		case KeyUnits:
			m.Units, err = toUnits(value)
		default:
			// Unrecognized keys (package lists and the like) stay
			// available through Raw and PackageNames.
		}
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Raw returns the mapping as parsed, before any normalization
func (m *Metadata) Raw() map[string]interface{} {
	if m == nil {
		return nil
	}
	return m.raw
}

// PackageNames returns the package names listed under a distribution
// key such as "dpkg". A missing key yields nil; a key holding anything
// but strings is an error.
func (m *Metadata) PackageNames(key string) ([]string, error) {
	if m == nil || m.raw == nil {
		return nil, nil
	}
	value, ok := m.raw[key]
	if !ok || value == nil {
		return nil, nil
	}
	return toStringList(key, value)
}

// UnitNames returns the nested unit names in sorted order
func (m *Metadata) UnitNames() []string {
	if m == nil || len(m.Units) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.Units))
	for name := range m.Units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// toStringList normalizes a scalar or (possibly nested) list value
// into a flat list of strings.
func toStringList(key string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			nested, err := toStringList(key, item)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrMetadataInvalid,
			"%s must be a string or list of strings, got %T", key, value)
	}
}

// toStringMap normalizes a mapping value with string keys and values
func toStringMap(key string, value interface{}) (map[string]string, error) {
	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrMetadataInvalid,
			"%s must be a mapping, got %T", key, value)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrMetadataInvalid,
				"%s entry %q must be a string, got %T", key, k, v)
		}
		out[k] = s
	}
	return out, nil
}

// toUnits decodes the nested unit mapping recursively
func toUnits(value interface{}) (map[string]*Metadata, error) {
	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrMetadataInvalid,
			"%s must be a mapping of names to metadata blocks, got %T", KeyUnits, value)
	}
	units := make(map[string]*Metadata, len(raw))
	for name, entry := range raw {
		block, ok := entry.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrMetadataInvalid,
				"%s entry %q must be a metadata mapping, got %T", KeyUnits, name, entry)
		}
		nested, err := decode(block)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMetadataInvalid,
				"invalid nested metadata for %q", name)
		}
		units[name] = nested
	}
	return units, nil
}

// DumpYAML renders a file's raw metadata as a YAML document keyed by
// the file name, matching the layout of the registry file.
func DumpYAML(filename string, m *Metadata) (string, error) {
	doc := map[string]interface{}{filename: m.Raw()}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to render metadata for %s", filename)
	}
	return string(out), nil
}
