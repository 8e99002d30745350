package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			MarginBottom(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Action styles
var (
	SymlinkStyle = lipgloss.NewStyle().
			Foreground(SymlinkColor).
			Bold(true)

	MkdirStyle = lipgloss.NewStyle().
			Foreground(MkdirColor).
			Bold(true)

	PackageStyle = lipgloss.NewStyle().
			Foreground(PackageColor).
			Bold(true)

	SourceStyle = lipgloss.NewStyle().
			Foreground(SourceColor).
			Bold(true)
)

// Result indicator styles
var (
	ChangedIndicator   = SuccessStyle.Render("✓")
	FailedIndicator    = ErrorStyle.Render("✗")
	RefusedIndicator   = WarningStyle.Render("!")
	UnchangedIndicator = InfoStyle.Render("•")
	PlannedIndicator   = MutedStyle.Render("○")
)

// Helper functions
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

func Italic(s string) string {
	return lipgloss.NewStyle().Italic(true).Render(s)
}
