// Package github reads release lists from the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vercheck/internal/debug"
	appErrors "vercheck/internal/errors"
	"vercheck/internal/provider"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.github.com"
	DefaultTimeout = 5 * time.Second
	// perPage is the maximum page size GitHub accepts.
	perPage  = 100
	maxPages = 10
)

type releaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// releaseInfo is the subset of a GitHub release object we read.
type releaseInfo struct {
	TagName     string         `json:"tag_name"`
	Name        string         `json:"name"`
	Body        string         `json:"body"`
	HTMLURL     string         `json:"html_url"`
	PublishedAt time.Time      `json:"published_at"`
	Prerelease  bool           `json:"prerelease"`
	Draft       bool           `json:"draft"`
	TarballURL  string         `json:"tarball_url"`
	ZipballURL  string         `json:"zipball_url"`
	Assets      []releaseAsset `json:"assets"`
}

// Source fetches releases of one GitHub repository.
type Source struct {
	owner      string
	repo       string
	baseURL    string
	httpClient *http.Client
	log        *debug.Logger
}

var _ provider.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		s.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Source) {
		s.httpClient.Timeout = timeout
	}
}

// WithBaseURL points the source at a GitHub Enterprise API root.
func WithBaseURL(baseURL string) Option {
	return func(s *Source) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *debug.Logger) Option {
	return func(s *Source) {
		s.log = l
	}
}

// New creates a source for owner/repo.
func New(owner, repo string, opts ...Option) *Source {
	s := &Source{
		owner:   owner,
		repo:    repo,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse creates a source from an "owner/repo" slug.
func Parse(slug string, opts ...Option) (*Source, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(slug), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, appErrors.New(appErrors.CodeConfigurationError,
			fmt.Sprintf("invalid GitHub repository %q, want owner/repo", slug), nil)
	}
	return New(owner, repo, opts...), nil
}

// Name implements provider.Source.
func (s *Source) Name() string {
	return "github:" + s.owner + "/" + s.repo
}

// FetchReleases implements provider.Source. Draft releases are skipped.
func (s *Source) FetchReleases(ctx context.Context) ([]provider.Release, error) {
	header := http.Header{}
	header.Set("Accept", "application/vnd.github.v3+json")

	var out []provider.Release
	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d", s.baseURL, s.owner, s.repo, perPage, page)

		var batch []releaseInfo
		if _, err := provider.GetJSON(ctx, s.httpClient, url, header, &batch); err != nil {
			s.log.Logf("github: %s page %d: %v", s.Name(), page, err)
			return nil, err
		}
		for _, r := range batch {
			if r.Draft {
				continue
			}
			out = append(out, convert(r))
		}
		if len(batch) < perPage {
			break
		}
	}

	s.log.Logf("github: %s returned %d releases", s.Name(), len(out))
	return out, nil
}

func convert(r releaseInfo) provider.Release {
	rel := provider.Release{
		Tag:         r.TagName,
		Name:        r.Name,
		Description: r.Body,
		PublishedAt: r.PublishedAt,
		URL:         r.HTMLURL,
		Prerelease:  r.Prerelease,
	}
	for _, a := range r.Assets {
		rel.Assets = append(rel.Assets, provider.Asset{Name: a.Name, URL: a.BrowserDownloadURL})
	}
	if r.ZipballURL != "" {
		rel.Sources = append(rel.Sources, provider.SourceArchive{Type: provider.ArchiveZip, URL: r.ZipballURL})
	}
	if r.TarballURL != "" {
		rel.Sources = append(rel.Sources, provider.SourceArchive{Type: provider.ArchiveTarGz, URL: r.TarballURL})
	}
	return rel
}
