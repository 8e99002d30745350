package dotsctl

// User-facing message strings for the command-line interface. Keeping
// them in one place keeps the command definitions readable and makes
// wording easy to review.
const (
	MsgRootShort = "Metadata-driven dotfiles installer"

	MsgRootLong = `dotsctl installs dotfiles from where they live.

Files carry their own installation metadata in a comment block near the
top, marked with :dotsctl:. Track a file or directory once with "add",
then "install" reads the metadata and creates the directories and
symlinks it describes. Your dotfiles stay in your repository; dotsctl
only plants links.`

	MsgAddShort = "Track files or directories for installation"

	MsgAddLong = `Track files or directories so that install considers them.

Paths are resolved to absolute form and recorded in the sources file.
Tracking a directory tracks everything under it that carries a
:dotsctl: marker; files added later are picked up automatically.`

	MsgAddExample = `  # Track a single script
  dotsctl add ~/dots/bin/backup.sh

  # Track a whole directory of dotfiles
  dotsctl add ~/dots`

	MsgInstallShort = "Create the directories and symlinks tracked files ask for"

	MsgInstallLong = `Read the metadata of every tracked file and make the filesystem
match: create requested directories, then plant symlinks pointing back
at the tracked files.

Nothing is touched until every tracked file scans cleanly. Existing
regular files are never overwritten; those entries are reported as
refused and the rest of the run continues. Re-running install is safe:
links that already point at the right target are left alone.`

	MsgInstallExample = `  # See what would happen first
  dotsctl install --dry-run

  # Then do it
  dotsctl install`

	MsgMetaShort = "Show the parsed metadata of tracked files"

	MsgMetaLong = `Print the metadata dotsctl extracted from each tracked file, as
YAML. With file arguments, shows those files instead of the tracked
set. Useful for checking how a metadata block was understood.`

	MsgMetaExample = `  # Metadata of everything tracked
  dotsctl meta

  # Metadata of one file, tracked or not
  dotsctl meta ~/dots/bin/backup.sh`

	MsgPackagesShort = "List the system packages tracked files depend on"

	MsgPackagesLong = `Collect the package names declared by tracked files for this
system's package manager and print them one per line, sorted and
deduplicated. The output is meant for piping:

  dotsctl packages | xargs sudo apt-get install

The package manager key is detected from /etc/os-release; use --key to
override the detection.`

	MsgGenConfigShort = "Print a default configuration file"

	MsgGenConfigLong = `Print a fully commented default configuration to stdout. With
--write, save it to the default location instead. Existing
configuration files are never overwritten.`

	MsgVersionShort = "Show version information"

	MsgDocsShort = "Read the built-in documentation"

	MsgDocsLong = `Render a built-in documentation topic. Without an argument, list
the available topics. The same pages are reachable through
"dotsctl help <topic>".`

	MsgCompletionShort = "Generate shell completion scripts"

	MsgCompletionLong = `Generate a completion script for your shell.

To load completions for the current bash session:

  source <(dotsctl completion bash)

See "dotsctl help completion" output for zsh, fish and powershell.`

	MsgFlagVerbose = "Increase logging verbosity (-v info, -vv debug, -vvv trace)"
	MsgFlagDryRun  = "Report what would be done without touching the filesystem"
	MsgFlagConfig  = "Path to a configuration file"
	MsgFlagKey     = "Package manager key to collect (e.g. dpkg), overriding detection"
	MsgFlagWrite   = "Write the configuration to its default location instead of stdout"

	MsgTrackedFormat       = "tracking %s\n"
	MsgConfigWrittenFormat = "wrote %s\n"
	MsgDryRunNotice        = "Dry run: nothing was changed."
	MsgNoCommand           = "no command specified"
)

// MsgUsageTemplate is cobra's stock usage template with the section
// headers run through the formatting helpers registered in
// initTemplateFormatting.
const MsgUsageTemplate = `{{boldUpper "Usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "Available Commands"}}:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold $group.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding}} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{boldUpper "Additional Commands"}}:{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding}} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

{{boldUpper "Additional help topics"}}:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
