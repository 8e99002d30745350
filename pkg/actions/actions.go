// Package actions defines the planned filesystem operations produced
// by install planning, and the ordered log of their outcomes. Actions
// are pure descriptions; execution happens elsewhere.
package actions

import "fmt"

// Type discriminates the action variants
type Type string

const (
	// TypeSource marks the start of a source file's contribution
	TypeSource Type = "source"

	// TypePackage records a package required by the source file
	TypePackage Type = "package"

	// TypeMkdir ensures a directory exists
	TypeMkdir Type = "mkdir"

	// TypeSymlink ensures a symlink at LinkPath points at Target
	TypeSymlink Type = "symlink"
)

// Action is one planned operation. Only the fields of its Type are set.
type Action struct {
	Type Type

	// File is the source file path for TypeSource
	File string

	// Name is the package name for TypePackage
	Name string

	// Path is the directory for TypeMkdir
	Path string

	// Target is the exact string stored in the link for TypeSymlink
	Target string

	// LinkPath is where the symlink lives for TypeSymlink
	LinkPath string
}

// NewSource marks the start of a file's actions
func NewSource(file string) Action {
	return Action{Type: TypeSource, File: file}
}

// NewPackage records a required package
func NewPackage(name string) Action {
	return Action{Type: TypePackage, Name: name}
}

// NewMkdir ensures a directory exists
func NewMkdir(path string) Action {
	return Action{Type: TypeMkdir, Path: path}
}

// NewSymlink ensures a symlink at linkPath pointing at target
func NewSymlink(target, linkPath string) Action {
	return Action{Type: TypeSymlink, Target: target, LinkPath: linkPath}
}

// Mutates reports whether executing the action can change the
// filesystem. Source and package actions are informational.
func (a Action) Mutates() bool {
	return a.Type == TypeMkdir || a.Type == TypeSymlink
}

// Describe renders the action for logs and dry-run output
func (a Action) Describe() string {
	switch a.Type {
	case TypeSource:
		return fmt.Sprintf("SOURCE %s", a.File)
	case TypePackage:
		return fmt.Sprintf("PACKAGE %s", a.Name)
	case TypeMkdir:
		return fmt.Sprintf("MKDIR %s", a.Path)
	case TypeSymlink:
		return fmt.Sprintf("SYMLINK %s -> %s", a.LinkPath, a.Target)
	default:
		return fmt.Sprintf("UNKNOWN %q", string(a.Type))
	}
}

// Status is the outcome of executing one action
type Status string

const (
	// StatusPlanned means the action was recorded but not executed
	StatusPlanned Status = "planned"

	// StatusChanged means execution modified the filesystem
	StatusChanged Status = "changed"

	// StatusUnchanged means the filesystem already satisfied the action
	StatusUnchanged Status = "unchanged"

	// StatusRefused means an existing file was left untouched
	StatusRefused Status = "refused"

	// StatusFailed means execution hit an error
	StatusFailed Status = "failed"
)

// Result pairs an action with its outcome
type Result struct {
	Action  Action
	Status  Status
	Message string
}

// Log is the ordered record of every action considered in a run
type Log []Result

// Append records one outcome
func (l *Log) Append(a Action, status Status, message string) {
	*l = append(*l, Result{Action: a, Status: status, Message: message})
}

// Count returns how many results carry the given status
func (l Log) Count(status Status) int {
	n := 0
	for _, r := range l {
		if r.Status == status {
			n++
		}
	}
	return n
}

// HasFailures reports whether any action failed
func (l Log) HasFailures() bool {
	return l.Count(StatusFailed) > 0
}
