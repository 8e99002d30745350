package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MarkupParser handles parsing and rendering of markup tags
type MarkupParser struct {
	styles map[string]lipgloss.Style
}

// NewMarkupParser creates a new markup parser with default styles
func NewMarkupParser() *MarkupParser {
	return &MarkupParser{
		styles: map[string]lipgloss.Style{
			"title":   TitleStyle,
			"success": SuccessStyle,
			"error":   ErrorStyle,
			"warning": WarningStyle,
			"info":    InfoStyle,
			"path":    PathStyle,
			"muted":   MutedStyle,
			"bold":    lipgloss.NewStyle().Bold(true),
			"italic":  lipgloss.NewStyle().Italic(true),

			// Action tags
			"symlink": SymlinkStyle,
			"mkdir":   MkdirStyle,
			"package": PackageStyle,
			"source":  SourceStyle,
		},
	}
}

// Render processes markup text and returns styled output
func (p *MarkupParser) Render(text string) string {
	result := text
	changed := true

	// Keep processing until no more changes are made, so nested tags
	// resolve inner-first
	for changed {
		changed = false
		oldResult := result

		for tag, style := range p.styles {
			pattern := regexp.MustCompile(`\[` + tag + `\](.*?)\[/` + tag + `\]`)

			result = pattern.ReplaceAllStringFunc(result, func(match string) string {
				submatch := pattern.FindStringSubmatch(match)
				if len(submatch) != 2 {
					return match
				}

				changed = true
				return style.Render(submatch[1])
			})
		}

		if result == oldResult {
			break
		}
	}

	return result
}

// AddStyle allows adding custom styles
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
}

// RenderTemplate renders a template with variable substitution and markup
func (p *MarkupParser) RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		placeholder := "{{" + key + "}}"
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return p.Render(result)
}

// Global parser instance
var defaultParser = NewMarkupParser()

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}

// RenderTemplate is a convenience function using the default parser
func RenderTemplate(template string, vars map[string]string) string {
	return defaultParser.RenderTemplate(template, vars)
}
