package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	appErrors "vercheck/internal/errors"
)

func sampleReleases() []Release {
	return []Release{
		{
			Tag:         "2.1.1",
			Name:        "Two one one",
			Description: "Bug fixes",
			PublishedAt: time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC),
			URL:         "https://example.com/releases/2.1.1",
			Assets: []Asset{
				{Name: "app.jar", URL: "https://example.com/dl/app.jar"},
				{Name: "checksums.txt", URL: "https://example.com/dl/checksums.txt"},
			},
			Sources: []SourceArchive{
				{Type: ArchiveZip, URL: "https://example.com/src.zip"},
				{Type: ArchiveTarGz, URL: "https://example.com/src.tar.gz"},
			},
		},
		{Tag: "2.0.0", URL: "https://example.com/releases/2.0.0"},
		{Tag: "2.0.0", URL: "https://example.com/duplicate"},
		{Tag: "3.0.0-alpha.1"},
	}
}

func TestSnapshotListVersions(t *testing.T) {
	s := NewSnapshot("test", sampleReleases())

	want := []string{"2.1.1", "2.0.0", "3.0.0-alpha.1"}
	if diff := cmp.Diff(want, s.ListVersions()); diff != "" {
		t.Errorf("ListVersions() mismatch (-want +got):\n%s", diff)
	}
	if s.Inventory().Len() != 3 {
		t.Errorf("Inventory().Len() = %d, want 3", s.Inventory().Len())
	}
}

func TestSnapshotEmpty(t *testing.T) {
	s := NewSnapshot("empty", nil)
	if got := s.ListVersions(); len(got) != 0 {
		t.Errorf("ListVersions() = %v, want empty", got)
	}
	if _, ok := s.DownloadURL("1.0.0"); ok {
		t.Error("DownloadURL on empty snapshot reported a URL")
	}
}

func TestSnapshotDescribeRelease(t *testing.T) {
	s := NewSnapshot("test", sampleReleases())

	r, err := s.DescribeRelease("2.1.1")
	if err != nil {
		t.Fatalf("DescribeRelease() error = %v", err)
	}
	if diff := cmp.Diff(sampleReleases()[0], r); diff != "" {
		t.Errorf("DescribeRelease() mismatch (-want +got):\n%s", diff)
	}

	_, err = s.DescribeRelease("9.9.9")
	if !errors.Is(err, ErrReleaseNotFound) {
		t.Errorf("missing release err = %v, want ErrReleaseNotFound", err)
	}
	if !appErrors.IsCode(err, appErrors.CodeNotFound) {
		t.Errorf("missing release code = %q, want %q", appErrors.CodeOf(err), appErrors.CodeNotFound)
	}
}

func TestSnapshotDownloadURL(t *testing.T) {
	s := NewSnapshot("test", sampleReleases())

	tests := []struct {
		version string
		want    string
		wantOK  bool
	}{
		{"2.1.1", "https://example.com/releases/2.1.1", true},
		{"2.0.0", "https://example.com/releases/2.0.0", true}, // first duplicate wins
		{"3.0.0-alpha.1", "", false},                          // no URL published
		{"4.0.0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, ok := s.DownloadURL(tt.version)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DownloadURL(%q) = (%q, %v), want (%q, %v)", tt.version, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestReleaseHelpers(t *testing.T) {
	r := sampleReleases()[0]

	if a, ok := r.Asset("app.jar"); !ok || a.URL != "https://example.com/dl/app.jar" {
		t.Errorf("Asset(app.jar) = %+v, %v", a, ok)
	}
	if _, ok := r.Asset("missing"); ok {
		t.Error("Asset(missing) reported found")
	}
	if src, ok := r.Source(ArchiveTarGz); !ok || src.URL != "https://example.com/src.tar.gz" {
		t.Errorf("Source(tar.gz) = %+v, %v", src, ok)
	}
	if _, ok := r.Source(ArchiveTarBz2); ok {
		t.Error("Source(tar.bz2) reported found")
	}

	r.Assets = append(r.Assets, Asset{Name: "copy", URL: "https://example.com/dl/app.jar"}, Asset{Name: "nourl"})
	want := []string{"https://example.com/dl/app.jar", "https://example.com/dl/checksums.txt"}
	if diff := cmp.Diff(want, r.AssetURLs()); diff != "" {
		t.Errorf("AssetURLs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArchiveType(t *testing.T) {
	tests := []struct {
		in      string
		want    ArchiveType
		wantErr bool
	}{
		{"zip", ArchiveZip, false},
		{"tar.gz", ArchiveTarGz, false},
		{"tgz", ArchiveTarGz, false},
		{"tar", ArchiveTar, false},
		{"tar.bz2", ArchiveTarBz2, false},
		{"rar", "", true},
	}
	for _, tt := range tests {
		got, err := ParseArchiveType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseArchiveType(%q) = (%q, %v), want (%q, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

type stubSource struct {
	releases []Release
	err      error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) FetchReleases(context.Context) ([]Release, error) {
	return s.releases, s.err
}

func TestFetch(t *testing.T) {
	snap, err := Fetch(context.Background(), stubSource{releases: sampleReleases()})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if snap.Name() != "stub" {
		t.Errorf("Name() = %q, want stub", snap.Name())
	}
	if len(snap.Releases()) != 4 {
		t.Errorf("Releases() len = %d, want 4", len(snap.Releases()))
	}

	boom := errors.New("boom")
	if _, err := Fetch(context.Background(), stubSource{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Fetch() err = %v, want boom", err)
	}
}
