// Package installer reconciles planned actions against the
// filesystem. Execution is idempotent and never clobbers files it does
// not own: regular files are refused, unknown entry types abort.
package installer

import (
	"os"

	"github.com/dotsctl/dotsctl/pkg/actions"
	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/logging"
)

// Installer executes action plans
type Installer struct {
	dryRun bool
}

// New returns an installer. With dryRun set, Apply records every
// action as planned and leaves the filesystem alone.
func New(dryRun bool) *Installer {
	return &Installer{dryRun: dryRun}
}

// Apply executes the plan in order and records each outcome. Refusals
// are warnings and the run continues; conflicts and unsupported entry
// types stop it. The log returned covers everything up to and
// including the failing action.
func (i *Installer) Apply(plan []actions.Action) (actions.Log, error) {
	var log actions.Log

	for _, action := range plan {
		if i.dryRun {
			log.Append(action, actions.StatusPlanned, "")
			continue
		}

		if !action.Mutates() {
			log.Append(action, actions.StatusUnchanged, "")
			continue
		}

		var status actions.Status
		var message string
		var err error

		switch action.Type {
		case actions.TypeMkdir:
			status, err = i.mkdir(action.Path)
		case actions.TypeSymlink:
			status, message, err = i.symlink(action.Target, action.LinkPath)
		}

		if err != nil {
			log.Append(action, actions.StatusFailed, err.Error())
			return log, err
		}
		log.Append(action, status, message)
	}

	return log, nil
}

// mkdir ensures path exists as a directory
func (i *Installer) mkdir(path string) (actions.Status, error) {
	logger := logging.GetLogger("installer")

	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			logger.Debug().Str("path", path).Msg("Directory already exists")
			return actions.StatusUnchanged, nil
		}
		return "", errors.Newf(errors.ErrConflict,
			"%s exists and is not a directory", path)
	}
	if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", path)
	}

	logger.Info().Str("path", path).Msg("Created directory")
	return actions.StatusChanged, nil
}

// symlink ensures a link at linkPath holding exactly target. The
// check-then-act sequence is not atomic against outside writers; the
// tool runs single-instance over a personal tree.
func (i *Installer) symlink(target, linkPath string) (actions.Status, string, error) {
	logger := logging.GetLogger("installer")

	info, err := os.Lstat(linkPath)
	if err != nil && !os.IsNotExist(err) {
		return "", "", errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", linkPath)
	}

	if err == nil {
		mode := info.Mode()
		switch {
		case mode.IsRegular():
			message := "will not overwrite regular file " + linkPath
			logger.Warn().Str("path", linkPath).Msg("Refusing to overwrite regular file")
			return actions.StatusRefused, message, nil

		case mode&os.ModeSymlink != 0:
			existing, err := os.Readlink(linkPath)
			if err != nil {
				return "", "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", linkPath)
			}
			if existing == target {
				logger.Debug().Str("path", linkPath).Msg("Symlink already correct")
				return actions.StatusUnchanged, "", nil
			}
			if err := os.Remove(linkPath); err != nil {
				return "", "", errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot remove old link %s", linkPath)
			}

		default:
			return "", "", errors.Newf(errors.ErrUnsupportedFileType,
				"%s has an unsupported file type (%s)", linkPath, mode.Type())
		}
	}

	if err := os.Symlink(target, linkPath); err != nil {
		return "", "", errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create link %s", linkPath)
	}

	logger.Info().Str("path", linkPath).Str("target", target).Msg("Created symlink")
	return actions.StatusChanged, "", nil
}
