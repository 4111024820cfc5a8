// Package cache keeps fetched release lists in a local SQLite database so
// repeated checks within the TTL do not hit provider APIs.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"vercheck/internal/debug"
	appErrors "vercheck/internal/errors"
	"vercheck/internal/provider"
)

// DefaultTTL is how long a cached release list is served without refetching.
const DefaultTTL = 10 * time.Minute

const schema = `CREATE TABLE IF NOT EXISTS releases_cache (
	source     TEXT PRIMARY KEY,
	fetched_at INTEGER NOT NULL,
	payload    TEXT NOT NULL
)`

// Entry is one cached release list.
type Entry struct {
	Releases  []provider.Release
	FetchedAt time.Time
}

// Store persists release lists keyed by source name.
type Store struct {
	db *sql.DB
}

func buildDSN(dbPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(dbPath),
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(3000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u.RawQuery = q.Encode()
	return u.String()
}

// Open opens or creates the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, appErrors.New(appErrors.CodeCacheFailed, "create cache directory", err)
	}

	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, appErrors.New(appErrors.CodeCacheFailed, "open cache db", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, appErrors.New(appErrors.CodeCacheFailed, "ping cache db", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, appErrors.New(appErrors.CodeCacheFailed, "create cache schema", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the entry for source. The boolean is false when nothing is cached.
func (s *Store) Get(ctx context.Context, source string) (Entry, bool, error) {
	var (
		fetchedAt int64
		payload   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM releases_cache WHERE source = ?`, source,
	).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, appErrors.New(appErrors.CodeCacheFailed, "read cache entry", err)
	}

	var releases []provider.Release
	if err := json.Unmarshal([]byte(payload), &releases); err != nil {
		return Entry{}, false, appErrors.New(appErrors.CodeCacheFailed,
			fmt.Sprintf("decode cache entry for %s", source), err)
	}
	return Entry{Releases: releases, FetchedAt: time.Unix(0, fetchedAt)}, true, nil
}

// Put replaces the entry for source.
func (s *Store) Put(ctx context.Context, source string, releases []provider.Release, fetchedAt time.Time) error {
	payload, err := json.Marshal(releases)
	if err != nil {
		return appErrors.New(appErrors.CodeCacheFailed, "encode cache entry", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO releases_cache (source, fetched_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		source, fetchedAt.UnixNano(), string(payload))
	if err != nil {
		return appErrors.New(appErrors.CodeCacheFailed, "write cache entry", err)
	}
	return nil
}

// Purge removes every entry.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM releases_cache`); err != nil {
		return appErrors.New(appErrors.CodeCacheFailed, "purge cache", err)
	}
	return nil
}

// Source serves a wrapped source's releases from the store while fresh.
type Source struct {
	next    provider.Source
	store   *Store
	ttl     time.Duration
	refresh bool
	log     *debug.Logger
	now     func() time.Time
}

var _ provider.Source = (*Source)(nil)

// Option configures a cached Source.
type Option func(*Source)

// WithTTL sets how long entries stay fresh.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		s.ttl = ttl
	}
}

// WithRefresh skips fresh entries and always fetches. The result is still stored.
func WithRefresh(refresh bool) Option {
	return func(s *Source) {
		s.refresh = refresh
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *debug.Logger) Option {
	return func(s *Source) {
		s.log = l
	}
}

// Wrap returns next decorated with the store.
func Wrap(next provider.Source, store *Store, opts ...Option) *Source {
	s := &Source{
		next:  next,
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements provider.Source.
func (s *Source) Name() string {
	return s.next.Name()
}

// FetchReleases implements provider.Source. A fresh entry is returned
// without contacting the provider. When the provider fails, a stale entry
// is served instead of the error.
func (s *Source) FetchReleases(ctx context.Context) ([]provider.Release, error) {
	name := s.next.Name()

	entry, cached, err := s.store.Get(ctx, name)
	if err != nil {
		s.log.Logf("cache: %s: %v", name, err)
		cached = false
	}
	if cached && !s.refresh && s.now().Sub(entry.FetchedAt) < s.ttl {
		s.log.Logf("cache: hit %s (age %s)", name, s.now().Sub(entry.FetchedAt).Round(time.Second))
		return entry.Releases, nil
	}

	releases, err := s.next.FetchReleases(ctx)
	if err != nil {
		if cached {
			s.log.Logf("cache: %s failed, serving stale entry: %v", name, err)
			return entry.Releases, nil
		}
		return nil, err
	}

	if err := s.store.Put(ctx, name, releases, s.now()); err != nil {
		s.log.Logf("cache: store %s: %v", name, err)
	}
	return releases, nil
}
