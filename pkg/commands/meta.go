package commands

import (
	"github.com/dotsctl/dotsctl/pkg/config"
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/metadata"
	"github.com/dotsctl/dotsctl/pkg/paths"
	"github.com/dotsctl/dotsctl/pkg/sources"
)

// MetaOptions defines the options for the Meta command.
type MetaOptions struct {
	// Paths resolves the configuration locations.
	Paths paths.Paths

	// Config carries the scan settings.
	Config *config.Config

	// Files restricts output to these paths instead of every tracked
	// file.
	Files []string
}

// MetaDoc is one file's metadata rendered as a YAML document.
type MetaDoc struct {
	Path string
	YAML string
}

// MetaResult lists the metadata of the inspected files.
type MetaResult struct {
	Docs []MetaDoc
}

// Meta parses and renders the metadata of tracked files, or of the
// explicitly named ones. Files without metadata are omitted.
func Meta(opts MetaOptions) (*MetaResult, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Meta").Msg("Executing command")

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

	result := &MetaResult{}
	for _, entry := range entries {
		doc, err := metadata.DumpYAML(entry.Path, entry.Meta)
		if err != nil {
			return nil, err
		}
		result.Docs = append(result.Docs, MetaDoc{Path: entry.Path, YAML: doc})
	}

	log.Info().Str("command", "Meta").Int("files", len(result.Docs)).Msg("Command finished")
	return result, nil
}
