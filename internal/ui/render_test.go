package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"vercheck/internal/cascade"
	"vercheck/internal/provider"
	"vercheck/internal/ui/theme"
)

func palette(t *testing.T) theme.Palette {
	t.Helper()
	_, p := theme.NewRegistry().Resolve(theme.DefaultName)
	return p
}

func sampleResult(t *testing.T) cascade.Result {
	t.Helper()
	snap := provider.NewSnapshot("github:acme/tool", []provider.Release{
		{Tag: "2.0.0", URL: "https://example.com/2.0.0"},
		{
			Tag:         "2.1.0",
			Name:        "Spring release",
			Description: "## Changes\n\n- faster checks",
			PublishedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			URL:         "https://example.com/2.1.0",
			Assets: []provider.Asset{
				{Name: "tool_linux_amd64.tar.gz", URL: "https://example.com/a"},
				{Name: "checksums.txt", URL: "https://example.com/c"},
			},
		},
	})
	res, err := cascade.Run("2.0.0", false, snap)
	if err != nil {
		t.Fatalf("cascade.Run() error = %v", err)
	}
	return res
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" Rich ", FormatRich, false},
		{"PLAIN", FormatPlain, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderResultText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(FormatText, palette(t), 0).RenderResult(&buf, sampleResult(t)); err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	if got, want := buf.String(), "2.1.0;https://example.com/2.1.0\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	buf.Reset()
	if err := NewRenderer(FormatText, palette(t), 0).RenderResult(&buf, cascade.Result{}); err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	if got := buf.String(); got != cascade.NoUpdatesText+"\n" {
		t.Errorf("no-update output = %q", got)
	}
}

func TestRenderResultPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(FormatPlain, palette(t), 60).RenderResult(&buf, sampleResult(t)); err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain output contains escape sequences:\n%q", out)
	}
	for _, want := range []string{"Update available", "Latest", "2.1.0", "Spring release", "github:acme/tool", "https://example.com/2.1.0", "tool_linux_amd64.tar.gz", "faster checks"} {
		if !strings.Contains(out, want) {
			t.Errorf("plain output missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if w := ansi.StringWidth(line); w > 60 {
			t.Errorf("line exceeds width (%d): %q", w, line)
		}
	}
}

func TestRenderResultRichNoUpdate(t *testing.T) {
	snap := provider.NewSnapshot("github:acme/tool", []provider.Release{{Tag: "1.0.0"}})
	res, err := cascade.Run("1.0.0", true, snap, nil)
	if err != nil {
		t.Fatalf("cascade.Run() error = %v", err)
	}
	res.Steps[1].Source = "gitlab:https://gitlab.example.com"
	res.Steps[1].Err = provider.ErrNetworkFailure

	var buf bytes.Buffer
	if err := NewRenderer(FormatRich, palette(t), 0).RenderResult(&buf, res); err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	out := ansi.Strip(buf.String())
	if !strings.Contains(out, "No updates available. No PreReleases available.") {
		t.Errorf("rich output missing message:\n%s", out)
	}
	if !strings.Contains(out, "! gitlab:https://gitlab.example.com") {
		t.Errorf("rich output missing failed step:\n%s", out)
	}
	if strings.Contains(out, "Latest") {
		t.Errorf("no-update card should not list a latest version:\n%s", out)
	}
}

func TestRenderResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(FormatJSON, palette(t), 0).RenderResult(&buf, sampleResult(t)); err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	var doc struct {
		Current         string `json:"current"`
		UpdateAvailable bool   `json:"updateAvailable"`
		Version         string `json:"version"`
		Channel         string `json:"channel"`
		DownloadURL     string `json:"downloadUrl"`
		Release         struct {
			Name string `json:"name"`
		} `json:"release"`
		Steps []struct {
			Source string `json:"source"`
			Update string `json:"update"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if !doc.UpdateAvailable || doc.Version != "2.1.0" || doc.Channel != "release" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.DownloadURL != "https://example.com/2.1.0" || doc.Release.Name != "Spring release" {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Steps) != 1 || doc.Steps[0].Source != "github:acme/tool" || doc.Steps[0].Update != "2.1.0" {
		t.Errorf("steps = %+v", doc.Steps)
	}
}

func TestRenderVersions(t *testing.T) {
	tags := []string{"2.1.0", "2.0.0", "1.0.0"}

	var buf bytes.Buffer
	if err := NewRenderer(FormatPlain, palette(t), 0).RenderVersions(&buf, tags, "2.1.0"); err != nil {
		t.Fatalf("RenderVersions() error = %v", err)
	}
	want := "2.1.0 (latest)\n2.0.0\n1.0.0\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	buf.Reset()
	if err := NewRenderer(FormatJSON, palette(t), 0).RenderVersions(&buf, nil, ""); err != nil {
		t.Fatalf("RenderVersions() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "{\n  \"versions\": []\n}" {
		t.Errorf("json output = %q", got)
	}
}

func TestMarkdownRendererPlainFallback(t *testing.T) {
	render := buildMarkdownRenderer("plain", 10)
	got := render("one two three four")
	if got != "one two\nthree four" {
		t.Errorf("plain markdown = %q", got)
	}
	if out := ansi.Strip(buildMarkdownRenderer("rich", 40)("**bold** text")); !strings.Contains(out, "bold text") {
		t.Errorf("rich markdown = %q", out)
	}
}

func TestFormatPublished(t *testing.T) {
	fixedNow := time.Date(2025, time.December, 25, 12, 0, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return fixedNow }
	defer func() { timeNow = orig }()

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{name: "zero time", ts: time.Time{}, want: ""},
		{name: "future", ts: fixedNow.Add(2 * time.Hour), want: "2025-12-25 (upcoming)"},
		{name: "seconds ago", ts: fixedNow.Add(-30 * time.Second), want: "2025-12-25 (now)"},
		{name: "minutes", ts: fixedNow.Add(-59 * time.Minute), want: "2025-12-25 (59m ago)"},
		{name: "hours", ts: fixedNow.Add(-23 * time.Hour), want: "2025-12-24 (23h ago)"},
		{name: "days", ts: fixedNow.Add(-48 * time.Hour), want: "2025-12-23 (2d ago)"},
		{name: "years", ts: time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), want: "2023-12-01 (2y ago)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPublished(tt.ts); got != tt.want {
				t.Fatalf("formatPublished(%v) = %q, want %q", tt.ts, got, tt.want)
			}
		})
	}
}
