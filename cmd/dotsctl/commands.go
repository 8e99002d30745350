// Package dotsctl assembles the command-line interface: flag parsing,
// configuration loading and the mapping from cobra commands onto the
// operations in pkg/commands.
package dotsctl

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dotsctl/dotsctl/internal/version"
	"github.com/dotsctl/dotsctl/pkg/cobrax/topics"
	"github.com/dotsctl/dotsctl/pkg/commands"
	"github.com/dotsctl/dotsctl/pkg/config"
	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/logging"
	"github.com/dotsctl/dotsctl/pkg/paths"
	"github.com/dotsctl/dotsctl/pkg/style"
)

//go:embed topics
var topicsFS embed.FS

// app holds the state shared by every command: resolved paths, loaded
// configuration and the values of the persistent flags.
type app struct {
	paths  paths.Paths
	config *config.Config

	verbosity  int
	dryRun     bool
	configFile string
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "dotsctl",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(a.newAddCmd())
	rootCmd.AddCommand(a.newInstallCmd())
	rootCmd.AddCommand(a.newMetaCmd())
	rootCmd.AddCommand(a.newPackagesCmd())
	rootCmd.AddCommand(a.newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topic help pages ship inside the binary. The same topics back
	// both "help <topic>" and the docs command.
	if sub, err := fs.Sub(topicsFS, "topics"); err == nil {
		tm, err := topics.Load(sub, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
		if err == nil {
			tm.Attach(rootCmd)
			rootCmd.AddCommand(newDocsCmd(tm))
		}
	}

	return rootCmd
}

// setup resolves paths, loads configuration and configures logging.
// It runs before every command.
func (a *app) setup() error {
	a.paths = paths.New()

	configFile := a.configFile
	if configFile != "" {
		// An explicitly requested config file must exist; the default
		// location is allowed to be absent.
		if _, err := os.Stat(configFile); err != nil {
			return errors.Newf(errors.ErrNotFound, "config file %s does not exist", configFile)
		}
	} else {
		configFile = a.paths.ConfigFile()
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	a.config = cfg

	logging.SetupLogger(a.verbosity, cfg.Log.File)
	return nil
}

// newRenderer picks rich or plain output depending on where stdout
// goes, so piped output stays free of escape codes.
func newRenderer() style.Renderer {
	return style.NewRenderer(!stdoutIsTerminal())
}

func (a *app) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <path>...",
		Short:   MsgAddShort,
		Long:    MsgAddLong,
		Example: MsgAddExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Add(commands.AddOptions{
				Paths: a.paths,
				Names: args,
			})
			if err != nil {
				return err
			}

			for _, path := range result.Tracked {
				cmd.Printf(MsgTrackedFormat, path)
			}
			return nil
		},
	}
}

func (a *app) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "install [<path>...]",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Install(commands.InstallOptions{
				Paths:  a.paths,
				Config: a.config,
				DryRun: a.dryRun,
				Files:  args,
			})

			if result != nil && len(result.Log) > 0 {
				r := newRenderer()
				// The full action list appears when asked for, when
				// nothing will be executed anyway, and when a partial
				// run needs explaining. Otherwise the summary suffices.
				if a.verbosity > 0 || a.dryRun || err != nil {
					cmd.Println(r.RenderRun(result.Log))
				}
				cmd.Println(r.RenderSummary(result.Log))
			}
			if err != nil {
				return err
			}
			if a.dryRun {
				cmd.Println(MsgDryRunNotice)
			}
			return nil
		},
	}
}

func (a *app) newMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "meta [<file>...]",
		Short:   MsgMetaShort,
		Long:    MsgMetaLong,
		Example: MsgMetaExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Meta(commands.MetaOptions{
				Paths:  a.paths,
				Config: a.config,
				Files:  args,
			})
			if err != nil {
				return err
			}

			for _, doc := range result.Docs {
				cmd.Print(doc.YAML)
			}
			return nil
		},
	}
}

func (a *app) newPackagesCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:     "packages [<path>...]",
		Short:   MsgPackagesShort,
		Long:    MsgPackagesLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Packages(commands.PackagesOptions{
				Paths:  a.paths,
				Config: a.config,
				Key:    key,
				Files:  args,
			})
			if err != nil {
				return err
			}

			// One name per line, ready for xargs.
			for _, name := range result.Names {
				cmd.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", MsgFlagKey)
	return cmd
}

func (a *app) newGenConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Aliases: []string{"genconfig"},
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.DefaultContent()

			if !write {
				cmd.Print(content)
				return nil
			}

			target := a.paths.ConfigFile()
			if _, err := os.Stat(target); err == nil {
				return errors.Newf(errors.ErrConflict, "%s already exists", target)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate,
					"cannot create %s", filepath.Dir(target))
			}
			if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", target)
			}

			cmd.Printf(MsgConfigWrittenFormat, target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("dotsctl %s\n", version.Version)
			cmd.Printf("  commit: %s\n", version.Commit)
			cmd.Printf("  built:  %s\n", version.Date)
		},
	}
}

func newDocsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "docs [<topic>]",
		Short:   MsgDocsShort,
		Long:    MsgDocsLong,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				tm.WriteTopicList(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}

			topic, exists := tm.GetTopic(args[0])
			if !exists {
				return errors.Newf(errors.ErrNotFound, "no documentation topic %q", args[0])
			}
			cmd.Print(tm.RenderTopic(topic))
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		Long:      MsgCompletionLong,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		GroupID:   "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
