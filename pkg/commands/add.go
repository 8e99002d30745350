package commands

import (
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/paths"
	"github.com/dotsctl/dotsctl/pkg/sources"
)

// AddOptions defines the options for the Add command.
type AddOptions struct {
	// Paths resolves the configuration locations.
	Paths paths.Paths

	// Names are the files or directories to start tracking.
	Names []string
}

// AddResult reports what Add changed.
type AddResult struct {
	// Tracked holds the resolved paths now present in the registry.
	Tracked []string

	// SourcesFile is the registry location that was written.
	SourcesFile string
}

// Add registers files or directories as metadata sources. Names are
// resolved to absolute, symlink-free paths before they are stored, and
// every name must exist.
func Add(opts AddOptions) (*AddResult, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Add").Strs("names", opts.Names).Msg("Executing command")

	registry := sources.NewRegistry(opts.Paths.SourcesFile())
	tracked, err := registry.Add(opts.Names)
	if err != nil {
		return nil, err
	}

	log.Info().Str("command", "Add").Int("tracked", len(tracked)).Msg("Command finished")
	return &AddResult{Tracked: tracked, SourcesFile: registry.Path()}, nil
}
