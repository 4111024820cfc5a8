package provider

import (
	"fmt"
	"time"
)

// ArchiveType is the format of a source-code archive attached to a release.
type ArchiveType string

const (
	ArchiveZip    ArchiveType = "zip"
	ArchiveTarGz  ArchiveType = "tar.gz"
	ArchiveTar    ArchiveType = "tar"
	ArchiveTarBz2 ArchiveType = "tar.bz2"
)

// ParseArchiveType maps a format name such as "tar.gz" to an ArchiveType.
func ParseArchiveType(s string) (ArchiveType, error) {
	switch t := ArchiveType(s); t {
	case ArchiveZip, ArchiveTarGz, ArchiveTar, ArchiveTarBz2:
		return t, nil
	case "tgz":
		return ArchiveTarGz, nil
	default:
		return "", fmt.Errorf("unknown archive type %q", s)
	}
}

// String implements fmt.Stringer.
func (t ArchiveType) String() string {
	return string(t)
}

// Asset is a file uploaded to a release.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SourceArchive is a generated source-code archive of a release.
type SourceArchive struct {
	Type ArchiveType `json:"type"`
	URL  string      `json:"url"`
}

// Release is the provider-neutral metadata of one published release.
type Release struct {
	Tag         string          `json:"tag"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	PublishedAt time.Time       `json:"published_at"`
	URL         string          `json:"url"`
	Assets      []Asset         `json:"assets,omitempty"`
	Sources     []SourceArchive `json:"sources,omitempty"`
	Prerelease  bool            `json:"prerelease,omitempty"`
}

// Asset returns the asset called name.
func (r Release) Asset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Source returns the source archive of type t.
func (r Release) Source(t ArchiveType) (SourceArchive, bool) {
	for _, s := range r.Sources {
		if s.Type == t {
			return s, true
		}
	}
	return SourceArchive{}, false
}

// AssetURLs returns the distinct download URLs of all assets in order.
func (r Release) AssetURLs() []string {
	seen := make(map[string]struct{}, len(r.Assets))
	var urls []string
	for _, a := range r.Assets {
		if _, dup := seen[a.URL]; dup || a.URL == "" {
			continue
		}
		seen[a.URL] = struct{}{}
		urls = append(urls, a.URL)
	}
	return urls
}
