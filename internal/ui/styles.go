package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"vercheck/internal/ui/theme"
)

// styles holds every style used by the renderers, bound to one output.
type styles struct {
	header    lipgloss.Style
	upToDate  lipgloss.Style
	badge     lipgloss.Style
	preBadge  lipgloss.Style
	field     lipgloss.Style
	value     lipgloss.Style
	muted     lipgloss.Style
	errorText lipgloss.Style
	accent    lipgloss.Style
	card      lipgloss.Style
}

// newStyles binds the palette to w. Plain output uses the ASCII profile so no
// escape sequences are emitted.
func newStyles(w io.Writer, p theme.Palette, plain bool) styles {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}

	card := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	if plain {
		card = r.NewStyle()
	}

	return styles{
		header:    r.NewStyle().Foreground(p.Success).Bold(true),
		upToDate:  r.NewStyle().Foreground(p.Primary).Bold(true),
		badge:     r.NewStyle().Foreground(p.Accent).Bold(true),
		preBadge:  r.NewStyle().Foreground(p.Warning).Bold(true),
		field:     r.NewStyle().Foreground(p.Secondary).Bold(true).Width(fieldWidth),
		value:     r.NewStyle().Foreground(p.Text),
		muted:     r.NewStyle().Foreground(p.TextMuted),
		errorText: r.NewStyle().Foreground(p.Error),
		accent:    r.NewStyle().Foreground(p.Primary),
		card:      card,
	}
}

func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" || style == "dark" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
