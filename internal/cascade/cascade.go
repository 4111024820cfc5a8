// Package cascade consults a primary release source and then its mirrors,
// feeding each step's resolved version into the next step as the current
// version.
package cascade

import (
	"context"
	"fmt"

	"vercheck/internal/debug"
	"vercheck/internal/provider"
	"vercheck/internal/update"
)

// NoUpdatesText is the textual form of a check without result.
const NoUpdatesText = "No updates available."

// Step records what one source contributed to a check.
type Step struct {
	Source     string
	Current    string
	Resolution update.Resolution
	Malformed  []string
	Err        error // fetch failure; the step then resolves to no update
}

// Result is the outcome of a cascade.
type Result struct {
	Current            string
	IncludePreReleases bool
	Version            update.Version
	Release            provider.Release
	DownloadURL        string
	Source             string
	Steps              []Step
	available          bool
}

// Available reports whether any step found an update.
func (r Result) Available() bool {
	return r.available
}

// Text returns "No updates available." or "<version>;<downloadUrl>".
func (r Result) Text() string {
	if !r.available {
		return NoUpdatesText
	}
	url := r.DownloadURL
	if url == "" {
		url = provider.NoURLFound
	}
	return r.Version.String() + ";" + url
}

// Message returns a sentence describing the result.
func (r Result) Message() string {
	if !r.available {
		if r.IncludePreReleases {
			return NoUpdatesText + " No PreReleases available."
		}
		return NoUpdatesText
	}
	kind := "release"
	if r.Version.IsPreRelease() {
		kind = "PreRelease"
	}
	url := r.DownloadURL
	if url == "" {
		url = provider.NoURLFound
	}
	return fmt.Sprintf("Current version: %s. A new %s is available: %s. Download available at: %s",
		r.Current, kind, r.Version, url)
}

// Run resolves current against each snapshot in order. A nil snapshot
// stands for a source that could not be fetched and resolves to no update.
// The returned error is non-nil only when current is malformed.
func Run(current string, includePreReleases bool, snapshots ...*provider.Snapshot) (Result, error) {
	cur, err := update.ParseVersion(current)
	if err != nil {
		return Result{}, fmt.Errorf("current version: %w", err)
	}

	res := Result{Current: current, IncludePreReleases: includePreReleases}
	for _, snap := range snapshots {
		if snap == nil {
			res.Steps = append(res.Steps, Step{Current: cur.String()})
			continue
		}
		buckets := update.Partition(snap.Inventory())
		resolution := update.ResolveVersion(cur, includePreReleases, buckets)
		res.Steps = append(res.Steps, Step{
			Source:     snap.Name(),
			Current:    cur.String(),
			Resolution: resolution,
			Malformed:  buckets.Malformed,
		})

		v, ok := resolution.Version()
		if !ok {
			continue
		}
		release, err := snap.DescribeRelease(v.String())
		if err != nil {
			release = provider.Release{Tag: v.String()}
		}
		url, _ := snap.DownloadURL(v.String())

		cur = v
		res.available = true
		res.Version = v
		res.Release = release
		res.DownloadURL = url
		res.Source = snap.Name()
	}
	return res, nil
}

// Checker fetches a primary source and its mirrors and runs the cascade.
type Checker struct {
	primary provider.Source
	mirrors  []provider.Source
	log      *debug.Logger
	progress func(done, total int, source string)
}

// Option configures a Checker.
type Option func(*Checker)

// WithMirrors appends mirror sources consulted after the primary.
func WithMirrors(mirrors ...provider.Source) Option {
	return func(c *Checker) {
		c.mirrors = append(c.mirrors, mirrors...)
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *debug.Logger) Option {
	return func(c *Checker) {
		c.log = l
	}
}

// WithProgress registers fn to be called before each source is fetched and
// once more after the last one, with done == total.
func WithProgress(fn func(done, total int, source string)) Option {
	return func(c *Checker) {
		c.progress = fn
	}
}

// NewChecker creates a checker for primary.
func NewChecker(primary provider.Source, opts ...Option) *Checker {
	c := &Checker{primary: primary}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources returns the primary followed by the mirrors.
func (c *Checker) Sources() []provider.Source {
	return append([]provider.Source{c.primary}, c.mirrors...)
}

// Snapshots fetches every source in order. Failed fetches are logged and
// leave a nil entry together with the error at the same index.
func (c *Checker) Snapshots(ctx context.Context) ([]*provider.Snapshot, []error) {
	sources := c.Sources()
	snaps := make([]*provider.Snapshot, len(sources))
	errs := make([]error, len(sources))
	for i, src := range sources {
		c.report(i, len(sources), src.Name())
		snap, err := provider.Fetch(ctx, src)
		if err != nil {
			c.log.Logf("cascade: fetch %s: %v", src.Name(), err)
			errs[i] = err
			continue
		}
		snaps[i] = snap
	}
	c.report(len(sources), len(sources), "")
	return snaps, errs
}

func (c *Checker) report(done, total int, source string) {
	if c.progress != nil {
		c.progress(done, total, source)
	}
}

// Check fetches all sources and resolves current against them in order.
// Fetch failures degrade the affected step to no update; only a malformed
// current version is returned as an error.
func (c *Checker) Check(ctx context.Context, current string, includePreReleases bool) (Result, error) {
	if _, err := update.ParseVersion(current); err != nil {
		return Result{}, fmt.Errorf("current version: %w", err)
	}

	snaps, errs := c.Snapshots(ctx)
	res, err := Run(current, includePreReleases, snaps...)
	if err != nil {
		return Result{}, err
	}

	sources := c.Sources()
	for i := range res.Steps {
		res.Steps[i].Source = sources[i].Name()
		res.Steps[i].Err = errs[i]
		for _, tag := range res.Steps[i].Malformed {
			c.log.Logf("cascade: %s: ignoring malformed tag %q", sources[i].Name(), tag)
		}
		c.log.Logf("cascade: %s: %s -> %s", sources[i].Name(), res.Steps[i].Current, res.Steps[i].Resolution)
	}
	return res, nil
}
