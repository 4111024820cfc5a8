// Package provider defines how release lists are obtained and queried.
//
// A Source fetches releases from somewhere (GitHub, GitLab, a cache). A
// Snapshot freezes one fetch and answers the questions the resolver and the
// CLI ask: which versions exist, what does a release contain, and where can
// it be downloaded.
package provider

import (
	"context"
	"errors"

	appErrors "vercheck/internal/errors"
	"vercheck/internal/update"
)

// NoURLFound is the textual form of a missing download URL.
const NoURLFound = "No URL found."

// ErrReleaseNotFound is returned when a snapshot has no release with the requested tag.
var ErrReleaseNotFound = errors.New("release not found")

// Source fetches the full release list of one repository.
type Source interface {
	// Name identifies the repository in logs and output, e.g. "github:owner/repo".
	Name() string
	// FetchReleases returns every published release. A repository without
	// releases yields an empty slice and no error.
	FetchReleases(ctx context.Context) ([]Release, error)
}

// Adapter answers queries about one repository's releases.
type Adapter interface {
	ListVersions() []string
	DescribeRelease(version string) (Release, error)
	DownloadURL(version string) (string, bool)
}

// Snapshot is an immutable view of a fetched release list.
type Snapshot struct {
	name     string
	releases []Release
	byTag    map[string]int
}

var _ Adapter = (*Snapshot)(nil)

// NewSnapshot indexes releases. When tags repeat, the first release wins.
func NewSnapshot(name string, releases []Release) *Snapshot {
	s := &Snapshot{
		name:     name,
		releases: append([]Release(nil), releases...),
		byTag:    make(map[string]int, len(releases)),
	}
	for i, r := range s.releases {
		if _, dup := s.byTag[r.Tag]; !dup {
			s.byTag[r.Tag] = i
		}
	}
	return s
}

// Fetch reads src once and returns the resulting snapshot.
func Fetch(ctx context.Context, src Source) (*Snapshot, error) {
	releases, err := src.FetchReleases(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(src.Name(), releases), nil
}

// Name returns the name of the source the snapshot was taken from.
func (s *Snapshot) Name() string {
	return s.name
}

// Releases returns a copy of the release list.
func (s *Snapshot) Releases() []Release {
	return append([]Release(nil), s.releases...)
}

// ListVersions returns every distinct tag, in provider order.
func (s *Snapshot) ListVersions() []string {
	return s.Inventory().Tags()
}

// Inventory returns the snapshot's tags as a resolver inventory.
func (s *Snapshot) Inventory() update.Inventory {
	tags := make([]string, 0, len(s.releases))
	for _, r := range s.releases {
		tags = append(tags, r.Tag)
	}
	return update.NewInventory(tags...)
}

// DescribeRelease returns the release tagged version.
func (s *Snapshot) DescribeRelease(version string) (Release, error) {
	i, ok := s.byTag[version]
	if !ok {
		return Release{}, appErrors.New(appErrors.CodeNotFound,
			s.name+": no release "+version, ErrReleaseNotFound)
	}
	return s.releases[i], nil
}

// DownloadURL returns the release page for version. The boolean is false
// when the release does not exist or has no URL.
func (s *Snapshot) DownloadURL(version string) (string, bool) {
	r, err := s.DescribeRelease(version)
	if err != nil || r.URL == "" {
		return "", false
	}
	return r.URL, true
}
