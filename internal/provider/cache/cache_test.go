package cache

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"vercheck/internal/provider"
)

type countingSource struct {
	name     string
	releases []provider.Release
	err      error
	calls    int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) FetchReleases(context.Context) ([]provider.Release, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.releases, nil
}

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "cache.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sample() []provider.Release {
	return []provider.Release{
		{
			Tag:         "2.1.1",
			URL:         "https://example.com/2.1.1",
			PublishedAt: time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC),
			Assets:      []provider.Asset{{Name: "app.jar", URL: "https://example.com/app.jar"}},
			Sources:     []provider.SourceArchive{{Type: provider.ArchiveTarGz, URL: "https://example.com/src.tgz"}},
		},
		{Tag: "2.0.0"},
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("/tmp/x/cache.db")
	if !strings.HasPrefix(dsn, "file:///tmp/x/cache.db?") {
		t.Errorf("dsn = %q", dsn)
	}
	if !strings.Contains(dsn, "busy_timeout%283000%29") {
		t.Errorf("dsn %q missing busy_timeout pragma", dsn)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	if _, ok, err := store.Get(ctx, "github:o/r"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := store.Put(ctx, "github:o/r", sample(), at); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entry, ok, err := store.Get(ctx, "github:o/r")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if !entry.FetchedAt.Equal(at) {
		t.Errorf("FetchedAt = %v, want %v", entry.FetchedAt, at)
	}
	if diff := cmp.Diff(sample(), entry.Releases); diff != "" {
		t.Errorf("Releases mismatch (-want +got):\n%s", diff)
	}

	// Put overwrites.
	if err := store.Put(ctx, "github:o/r", sample()[1:], at.Add(time.Hour)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	entry, _, _ = store.Get(ctx, "github:o/r")
	if len(entry.Releases) != 1 {
		t.Errorf("after overwrite got %d releases, want 1", len(entry.Releases))
	}

	if err := store.Purge(ctx); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "github:o/r"); ok {
		t.Error("entry survived Purge()")
	}
}

func TestSourceServesFreshEntry(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	next := &countingSource{name: "github:o/r", releases: sample()}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := Wrap(next, store, WithTTL(time.Minute))
	src.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		got, err := src.FetchReleases(ctx)
		if err != nil {
			t.Fatalf("FetchReleases() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d releases, want 2", len(got))
		}
	}
	if next.calls != 1 {
		t.Errorf("provider called %d times, want 1", next.calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := src.FetchReleases(ctx); err != nil {
		t.Fatal(err)
	}
	if next.calls != 2 {
		t.Errorf("expired entry: provider called %d times, want 2", next.calls)
	}
}

func TestSourceRefresh(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	next := &countingSource{name: "gitlab:x", releases: sample()}

	if _, err := Wrap(next, store).FetchReleases(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := Wrap(next, store, WithRefresh(true)).FetchReleases(ctx); err != nil {
		t.Fatal(err)
	}
	if next.calls != 2 {
		t.Errorf("provider called %d times, want 2", next.calls)
	}
	if src := Wrap(next, store); src.Name() != "gitlab:x" {
		t.Errorf("Name() = %q", src.Name())
	}
}

func TestSourceServesStaleOnError(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	if err := store.Put(ctx, "github:o/r", sample(), time.Unix(0, 0)); err != nil {
		t.Fatal(err)
	}

	next := &countingSource{name: "github:o/r", err: provider.ErrNetworkFailure}
	got, err := Wrap(next, store).FetchReleases(ctx)
	if err != nil {
		t.Fatalf("FetchReleases() error = %v, want stale entry", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d releases, want 2", len(got))
	}
}

func TestSourcePropagatesErrorWithoutEntry(t *testing.T) {
	next := &countingSource{name: "github:o/r", err: provider.ErrRateLimited}
	_, err := Wrap(next, openStore(t)).FetchReleases(context.Background())
	if !errors.Is(err, provider.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}
