package commands

import (
	stderrors "errors"

	"github.com/dotsctl/dotsctl/pkg/actions"
	"github.com/dotsctl/dotsctl/pkg/config"
	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/installer"
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/packages"
	"github.com/dotsctl/dotsctl/pkg/paths"
	"github.com/dotsctl/dotsctl/pkg/planner"
	"github.com/dotsctl/dotsctl/pkg/sources"
)

// InstallOptions defines the options for the Install command.
type InstallOptions struct {
	// Paths resolves the configuration locations.
	Paths paths.Paths

	// Config carries scan and install settings.
	Config *config.Config

	// DryRun reports planned actions without touching the filesystem.
	DryRun bool

	// PackageKey selects the metadata key for package actions. Empty
	// means detect from the running distribution, best effort.
	PackageKey string

	// Files installs these roots instead of the tracked set when
	// non-empty.
	Files []string
}

// InstallResult carries the full action log of a run.
type InstallResult struct {
	// Log records every action in execution order.
	Log actions.Log

	// Sources is the number of files that contributed actions.
	Sources int
}

// Install resolves all tracked files, plans their actions and applies
// the combined plan. Planning failures abort the run before anything is
// written; execution failures return the partial log alongside the
// error.
func Install(opts InstallOptions) (*InstallResult, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Install").Bool("dryRun", opts.DryRun).Msg("Executing command")

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

	packageKey := opts.PackageKey
	if packageKey == "" {
		if key, err := packages.Detect(); err == nil {
			packageKey = key
		} else {
			log.Debug().Err(err).Msg("No package support for this system")
		}
	}

	pl := planner.New(opts.Config, packageKey)
	var plan []actions.Action
	var planErrs []error
	for _, entry := range entries {
		unitPlan, err := pl.Plan(entry.Path, entry.Meta)
		if err != nil {
			planErrs = append(planErrs, errors.Wrapf(err, errors.GetErrorCode(err), "%s", entry.Path))
			continue
		}
		plan = append(plan, unitPlan...)
	}
	if len(planErrs) > 0 {
		// Nothing is applied unless every tracked file plans cleanly
		return nil, stderrors.Join(planErrs...)
	}

	runLog, err := installer.New(opts.DryRun).Apply(plan)
	result := &InstallResult{Log: runLog, Sources: len(entries)}
	if err != nil {
		return result, err
	}

	log.Info().
		Str("command", "Install").
		Int("actions", len(runLog)).
		Int("changed", runLog.Count(actions.StatusChanged)).
		Msg("Command finished")
	return result, nil
}
