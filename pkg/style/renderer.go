package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/dotsctl/dotsctl/pkg/actions"
	"github.com/dotsctl/dotsctl/pkg/errors"
)

// Renderer defines the interface for rendering run output
type Renderer interface {
	RenderRun(log actions.Log) string
	RenderSummary(log actions.Log) string
	RenderError(err error) string
}

// NewRenderer picks the terminal renderer unless plain output is asked for
func NewRenderer(plain bool) Renderer {
	if plain {
		return NewPlainRenderer()
	}
	return NewTerminalRenderer()
}

// StatusStyle returns the appropriate pterm style for a result status
func StatusStyle(status actions.Status) *pterm.Style {
	switch status {
	case actions.StatusChanged:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case actions.StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case actions.StatusRefused:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case actions.StatusPlanned:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderRun renders the full action log, one line per result
func (r *TerminalRenderer) RenderRun(log actions.Log) string {
	if len(log) == 0 {
		return MutedStyle.Render("Nothing to install")
	}

	var result strings.Builder
	for _, res := range log {
		result.WriteString(r.renderResult(res) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// renderResult renders a single result line
func (r *TerminalRenderer) renderResult(res actions.Result) string {
	var indicator string
	switch res.Status {
	case actions.StatusChanged:
		indicator = ChangedIndicator
	case actions.StatusFailed:
		indicator = FailedIndicator
	case actions.StatusRefused:
		indicator = RefusedIndicator
	case actions.StatusPlanned:
		indicator = PlannedIndicator
	default:
		indicator = UnchangedIndicator
	}

	var typeStyle lipgloss.Style
	switch res.Action.Type {
	case actions.TypeSymlink:
		typeStyle = SymlinkStyle
	case actions.TypeMkdir:
		typeStyle = MkdirStyle
	case actions.TypePackage:
		typeStyle = PackageStyle
	default:
		typeStyle = SourceStyle
	}
	typeName := typeStyle.Render(fmt.Sprintf("%-7s", string(res.Action.Type)))

	var desc string
	switch res.Action.Type {
	case actions.TypeSymlink:
		desc = fmt.Sprintf("%s → %s",
			PathStyle.Render(res.Action.LinkPath),
			PathStyle.Render(res.Action.Target))
	case actions.TypeMkdir:
		desc = PathStyle.Render(res.Action.Path)
	case actions.TypePackage:
		desc = res.Action.Name
	default:
		desc = PathStyle.Render(res.Action.File)
	}

	line := fmt.Sprintf("%s %s %s", indicator, typeName, desc)
	if res.Message != "" {
		line += " " + MutedStyle.Render("("+res.Message+")")
	}
	return line
}

// RenderSummary renders the per-status counts of a run
func (r *TerminalRenderer) RenderSummary(log actions.Log) string {
	parts := summaryParts(log)
	if len(parts) == 0 {
		return MutedStyle.Render("nothing to do")
	}

	styled := make([]string, len(parts))
	for i, p := range parts {
		styled[i] = StatusStyle(p.status).Sprintf("%d %s", p.count, p.status)
	}
	return strings.Join(styled, ", ")
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(string(code)),
			errors.GetMessage(err))
	}

	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderRun renders the plain action log
func (r *PlainRenderer) RenderRun(log actions.Log) string {
	if len(log) == 0 {
		return "Nothing to install"
	}

	var result strings.Builder
	for _, res := range log {
		result.WriteString(fmt.Sprintf("%-9s %s\n", string(res.Status), res.Action.Describe()))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderSummary renders plain per-status counts
func (r *PlainRenderer) RenderSummary(log actions.Log) string {
	parts := summaryParts(log)
	if len(parts) == 0 {
		return "nothing to do"
	}

	plain := make([]string, len(parts))
	for i, p := range parts {
		plain[i] = fmt.Sprintf("%d %s", p.count, p.status)
	}
	return strings.Join(plain, ", ")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

type summaryPart struct {
	status actions.Status
	count  int
}

// summaryParts returns the nonzero status counts in a stable order
func summaryParts(log actions.Log) []summaryPart {
	order := []actions.Status{
		actions.StatusChanged,
		actions.StatusUnchanged,
		actions.StatusPlanned,
		actions.StatusRefused,
		actions.StatusFailed,
	}

	var parts []summaryPart
	for _, status := range order {
		if n := log.Count(status); n > 0 {
			parts = append(parts, summaryPart{status: status, count: n})
		}
	}
	return parts
}
