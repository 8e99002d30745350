// Package commands provides the high-level operations behind the CLI.
//
// This is the orchestration layer between the command-line interface and
// the core packages: it wires the source registry, the metadata scanner,
// the planner and the installer together. Each operation takes an
// options struct and returns a result struct so it can be driven from
// the CLI or from tests alike.
package commands

import (
	"github.com/dotsctl/dotsctl/pkg/config"
	"github.com/dotsctl/dotsctl/pkg/paths"
	"github.com/dotsctl/dotsctl/pkg/sources"
)

// resolveTracked loads the source registry and scans every tracked root
// for metadata-carrying files.
func resolveTracked(p paths.Paths, cfg *config.Config) ([]sources.Entry, error) {
	registry := sources.NewRegistry(p.SourcesFile())
	roots, err := registry.Roots()
	if err != nil {
		return nil, err
	}

	return sources.NewResolver(cfg.Scan.HeaderLines).Resolve(roots)
}
