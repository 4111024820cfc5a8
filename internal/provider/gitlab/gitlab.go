// Package gitlab reads release lists from the GitLab releases API.
package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vercheck/internal/debug"
	appErrors "vercheck/internal/errors"
	"vercheck/internal/provider"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://gitlab.com"
	DefaultTimeout = 5 * time.Second
	perPage        = 100
	maxPages       = 10
)

type link struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	DirectAssetURL string `json:"direct_asset_url"`
}

type source struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

// releaseInfo is the subset of a GitLab release object we read.
type releaseInfo struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ReleasedAt  time.Time `json:"released_at"`
	Upcoming    bool      `json:"upcoming_release"`
	Links       struct {
		Self string `json:"self"`
	} `json:"_links"`
	Assets struct {
		Links   []link   `json:"links"`
		Sources []source `json:"sources"`
	} `json:"assets"`
}

// Source fetches releases of one GitLab project.
type Source struct {
	releasesURL string
	httpClient  *http.Client
	log         *debug.Logger
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

// WithLogger sets the debug logger.
func WithLogger(l *debug.Logger) Option {
	return func(s *Source) {
		s.log = l
	}
}

// New creates a source from a full releases endpoint such as
// https://gitlab.com/api/v4/projects/32677538/releases.
func New(releasesURL string, opts ...Option) (*Source, error) {
	u, err := url.Parse(strings.TrimSpace(releasesURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, appErrors.New(appErrors.CodeConfigurationError,
			fmt.Sprintf("invalid GitLab releases URL %q", releasesURL), err)
	}
	u.RawQuery = ""
	s := &Source{
		releasesURL: strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewProject creates a source for a project on the instance at baseURL.
// project is a numeric ID or a "group/name" path.
func NewProject(baseURL, project string, opts ...Option) (*Source, error) {
	if project == "" {
		return nil, appErrors.New(appErrors.CodeConfigurationError, "empty GitLab project", nil)
	}
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/releases",
		strings.TrimRight(baseURL, "/"), url.PathEscape(project))
	return New(endpoint, opts...)
}

// Name implements provider.Source.
func (s *Source) Name() string {
	return "gitlab:" + s.releasesURL
}

// FetchReleases implements provider.Source. Upcoming releases are skipped.
func (s *Source) FetchReleases(ctx context.Context) ([]provider.Release, error) {
	var out []provider.Release
	for page := 1; page <= maxPages; page++ {
		endpoint := s.releasesURL + "?per_page=" + strconv.Itoa(perPage) + "&page=" + strconv.Itoa(page)

		var batch []releaseInfo
		header, err := provider.GetJSON(ctx, s.httpClient, endpoint, nil, &batch)
		if err != nil {
			s.log.Logf("gitlab: %s page %d: %v", s.Name(), page, err)
			return nil, err
		}
		for _, r := range batch {
			if r.Upcoming {
				continue
			}
			out = append(out, convert(r))
		}
		if header.Get("X-Next-Page") == "" || len(batch) == 0 {
			break
		}
	}

	s.log.Logf("gitlab: %s returned %d releases", s.Name(), len(out))
	return out, nil
}

func convert(r releaseInfo) provider.Release {
	rel := provider.Release{
		Tag:         r.TagName,
		Name:        r.Name,
		Description: r.Description,
		PublishedAt: r.ReleasedAt,
		URL:         r.Links.Self,
	}
	for _, l := range r.Assets.Links {
		u := l.DirectAssetURL
		if u == "" {
			u = l.URL
		}
		rel.Assets = append(rel.Assets, provider.Asset{Name: l.Name, URL: u})
	}
	for _, src := range r.Assets.Sources {
		t, err := provider.ParseArchiveType(src.Format)
		if err != nil {
			continue
		}
		rel.Sources = append(rel.Sources, provider.SourceArchive{Type: t, URL: src.URL})
	}
	return rel
}
