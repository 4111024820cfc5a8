package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"vercheck/internal/cascade"
	"vercheck/internal/provider"
	"vercheck/internal/ui/theme"
)

const (
	// DefaultWidth is used when the terminal width is unknown.
	DefaultWidth = 80
	fieldWidth   = 11
	maxAssets    = 8
	maxNotes     = 40
)

// Renderer writes check results in one format.
type Renderer struct {
	format  Format
	palette theme.Palette
	width   int
}

// NewRenderer returns a renderer. A non-positive width selects DefaultWidth.
func NewRenderer(format Format, palette theme.Palette, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{format: format, palette: palette, width: width}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderResult writes res to w.
func (r *Renderer) RenderResult(w io.Writer, res cascade.Result) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, newResultDoc(res))
	case FormatRich, FormatPlain:
		_, err := fmt.Fprintln(w, r.card(w, res))
		return err
	default:
		_, err := fmt.Fprintln(w, res.Text())
		return err
	}
}

func (r *Renderer) card(w io.Writer, res cascade.Result) string {
	plain := r.format == FormatPlain
	st := newStyles(w, r.palette, plain)
	inner := r.width - 4

	var b strings.Builder
	if res.Available() {
		header := st.header.Render("Update available")
		badge := st.badge.Render(res.Version.String())
		if res.Version.IsPreRelease() {
			badge += " " + st.preBadge.Render("["+res.Version.Channel.String()+"]")
		}
		b.WriteString(header + "  " + badge + "\n\n")
	} else {
		b.WriteString(st.upToDate.Render(res.Message()) + "\n\n")
	}

	row := func(label, value string) {
		if value == "" {
			return
		}
		value = ansi.Truncate(value, inner-fieldWidth, "…")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, st.field.Render(label), st.value.Render(value)) + "\n")
	}

	row("Current", res.Current)
	if res.Available() {
		row("Latest", res.Version.String())
		row("Channel", res.Version.Channel.String())
		if res.Release.Name != "" && res.Release.Name != res.Release.Tag {
			row("Name", res.Release.Name)
		}
		row("Published", formatPublished(res.Release.PublishedAt))
		row("Source", res.Source)
		url := res.DownloadURL
		if url == "" {
			url = provider.NoURLFound
		}
		row("Download", url)
		if asset, ok := res.Release.CurrentPlatformAsset(); ok {
			row("Binary", asset.Name)
		}
	}

	if res.Available() && len(res.Release.Assets) > 0 {
		b.WriteString("\n" + st.field.Render("Assets") + "\n")
		for i, a := range res.Release.Assets {
			if i == maxAssets {
				b.WriteString(st.muted.Render(fmt.Sprintf("  … %d more", len(res.Release.Assets)-maxAssets)) + "\n")
				break
			}
			b.WriteString("  " + st.accent.Render(ansi.Truncate(a.Name, inner-2, "…")) + "\n")
		}
	}

	if res.Available() && strings.TrimSpace(res.Release.Description) != "" {
		format := string(r.format)
		notes := buildMarkdownRenderer(format, inner)(res.Release.Description)
		b.WriteString("\n" + st.field.Render("Notes") + "\n")
		b.WriteString(limitLines(notes, maxNotes) + "\n")
	}

	var failed []string
	for _, step := range res.Steps {
		if step.Err != nil {
			failed = append(failed, step.Source+": "+step.Err.Error())
		}
	}
	if len(failed) > 0 {
		b.WriteString("\n")
		for _, f := range failed {
			b.WriteString(st.errorText.Render("! "+ansi.Truncate(f, inner-2, "…")) + "\n")
		}
	}

	return st.card.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderVersions writes tags one per line, marking latest.
func (r *Renderer) RenderVersions(w io.Writer, tags []string, latest string) error {
	if r.format == FormatJSON {
		return writeJSON(w, versionsDoc{Versions: nonNil(tags), Latest: latest})
	}
	st := newStyles(w, r.palette, r.format != FormatRich)
	for _, tag := range tags {
		line := tag
		if tag == latest {
			line = st.badge.Render(tag) + " " + st.muted.Render("(latest)")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type stepDoc struct {
	Source  string `json:"source"`
	Current string `json:"current"`
	Update  string `json:"update,omitempty"`
	Error   string `json:"error,omitempty"`
}

type resultDoc struct {
	Current         string            `json:"current"`
	UpdateAvailable bool              `json:"updateAvailable"`
	Version         string            `json:"version,omitempty"`
	Channel         string            `json:"channel,omitempty"`
	DownloadURL     string            `json:"downloadUrl,omitempty"`
	Source          string            `json:"source,omitempty"`
	Message         string            `json:"message"`
	Release         *provider.Release `json:"release,omitempty"`
	Steps           []stepDoc         `json:"steps"`
}

type versionsDoc struct {
	Versions []string `json:"versions"`
	Latest   string   `json:"latest,omitempty"`
}

func newResultDoc(res cascade.Result) resultDoc {
	doc := resultDoc{
		Current:         res.Current,
		UpdateAvailable: res.Available(),
		Message:         res.Message(),
		Steps:           make([]stepDoc, 0, len(res.Steps)),
	}
	if res.Available() {
		release := res.Release
		doc.Version = res.Version.String()
		doc.Channel = res.Version.Channel.String()
		doc.DownloadURL = res.DownloadURL
		doc.Source = res.Source
		doc.Release = &release
	}
	for _, s := range res.Steps {
		sd := stepDoc{Source: s.Source, Current: s.Current, Update: s.Resolution.Tag()}
		if s.Err != nil {
			sd.Error = s.Err.Error()
		}
		doc.Steps = append(doc.Steps, sd)
	}
	return doc
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func limitLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n…"
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
