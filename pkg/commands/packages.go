package commands

import (
	"github.com/dotsctl/dotsctl/pkg/config"
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/packages"
	"github.com/dotsctl/dotsctl/pkg/paths"
	"github.com/dotsctl/dotsctl/pkg/sources"
)

// PackagesOptions defines the options for the Packages command.
type PackagesOptions struct {
	// Paths resolves the configuration locations.
	Paths paths.Paths

	// Config carries the scan settings.
	Config *config.Config

	// Key overrides distribution detection when set.
	Key string

	// Files lists packages for these roots instead of the tracked set
	// when non-empty.
	Files []string
}

// PackagesResult is the merged package list for one metadata key.
type PackagesResult struct {
	// Key is the metadata key the names were read from.
	Key string

	// Names is sorted and deduplicated.
	Names []string
}

// Packages lists every system package requested by tracked files.
// Unlike install, an unrecognized distribution is an error here: the
// caller explicitly asked for the package list.
func Packages(opts PackagesOptions) (*PackagesResult, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Packages").Msg("Executing command")

	key := opts.Key
	if key == "" {
		detected, err := packages.Detect()
		if err != nil {
			return nil, err
		}
		key = detected
	}

	var entries []sources.Entry
	var err error
	if len(opts.Files) > 0 {
		entries, err = sources.NewResolver(opts.Config.Scan.HeaderLines).Resolve(opts.Files)
	} else {
		entries, err = resolveTracked(opts.Paths, opts.Config)
	}
	if err != nil {
		return nil, err
	}

	names, err := packages.Collect(entries, key)
	if err != nil {
		return nil, err
	}

	log.Info().Str("command", "Packages").Str("key", key).Int("names", len(names)).Msg("Command finished")
	return &PackagesResult{Key: key, Names: names}, nil
}
