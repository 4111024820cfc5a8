package theme

import "github.com/charmbracelet/lipgloss"

func c(dark, light string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: dark, Light: light}
}

var builtin = map[string]Palette{
	"tokyonight": {
		Primary:   c("#82aaff", "#2e7de9"),
		Secondary: c("#c099ff", "#9854f1"),
		Accent:    c("#ffc777", "#8c6c3e"),
		Error:     c("#ff757f", "#f52a65"),
		Warning:   c("#ff966c", "#b15c00"),
		Success:   c("#c3e88d", "#587539"),
		Text:      c("#c8d3f5", "#3760bf"),
		TextMuted: c("#636da6", "#848cb5"),
		Border:    c("#3b4261", "#a8aecb"),
	},
	"catppuccin": {
		Primary:   c("#89b4fa", "#1e66f5"),
		Secondary: c("#cba6f7", "#8839ef"),
		Accent:    c("#fab387", "#fe640b"),
		Error:     c("#f38ba8", "#d20f39"),
		Warning:   c("#fab387", "#fe640b"),
		Success:   c("#a6e3a1", "#40a02b"),
		Text:      c("#cdd6f4", "#4c4f69"),
		TextMuted: c("#6c7086", "#9ca0b0"),
		Border:    c("#6c7086", "#9ca0b0"),
	},
	"dracula": {
		Primary:   c("#bd93f9", "#7e57c2"),
		Secondary: c("#8be9fd", "#0097a7"),
		Accent:    c("#f1fa8c", "#f9a825"),
		Error:     c("#ff5555", "#d32f2f"),
		Warning:   c("#ffb86c", "#ef6c00"),
		Success:   c("#50fa7b", "#388e3c"),
		Text:      c("#f8f8f2", "#212121"),
		TextMuted: c("#6272a4", "#757575"),
		Border:    c("#6272a4", "#bdbdbd"),
	},
	"gruvbox": {
		Primary:   c("#83a598", "#076678"),
		Secondary: c("#d3869b", "#8f3f71"),
		Accent:    c("#fabd2f", "#b57614"),
		Error:     c("#fb4934", "#9d0006"),
		Warning:   c("#fe8019", "#af3a03"),
		Success:   c("#b8bb26", "#79740e"),
		Text:      c("#ebdbb2", "#3c3836"),
		TextMuted: c("#a89984", "#7c6f64"),
		Border:    c("#504945", "#bdae93"),
	},
	"nord": {
		Primary:   c("#88C0D0", "#5E81AC"),
		Secondary: c("#81A1C1", "#81A1C1"),
		Accent:    c("#8FBCBB", "#8FBCBB"),
		Error:     c("#BF616A", "#BF616A"),
		Warning:   c("#D08770", "#D08770"),
		Success:   c("#A3BE8C", "#A3BE8C"),
		Text:      c("#ECEFF4", "#2E3440"),
		TextMuted: c("#8B95A7", "#3B4252"),
		Border:    c("#434C5E", "#4C566A"),
	},
}
