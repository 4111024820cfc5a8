// Package download fetches files of a resolved release and verifies them
// against a published SHA-256 checksum list when one is available.
package download

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"vercheck/internal/debug"
	appErrors "vercheck/internal/errors"
	"vercheck/internal/provider"
)

// Error variables for download failures.
var (
	ErrDownloadFailed   = errors.New("download failed")
	ErrChecksumMismatch = errors.New("checksum verification failed")
	ErrAssetNotFound    = errors.New("asset not found in release")
)

// checksumAssetNames are the release assets searched for a checksum list, in order.
var checksumAssetNames = []string{"checksums.txt", "SHA256SUMS", "sha256sums.txt"}

// Result describes a completed download.
type Result struct {
	Path     string
	SHA256   string
	Verified bool // a published checksum matched
}

// Downloader saves release files to disk.
type Downloader struct {
	httpClient *http.Client
	log        *debug.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		d.httpClient = client
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *debug.Logger) Option {
	return func(d *Downloader) {
		d.log = l
	}
}

// New creates a downloader.
func New(opts ...Option) *Downloader {
	d := &Downloader{
		httpClient: &http.Client{
			Timeout: 0, // No timeout for downloads
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Asset downloads the named asset of release into destDir. If the release
// publishes a checksum list that covers the asset, the file is verified and
// removed again on mismatch.
func (d *Downloader) Asset(ctx context.Context, release provider.Release, name, destDir string) (Result, error) {
	asset, ok := release.Asset(name)
	if !ok {
		return Result{}, appErrors.New(appErrors.CodeNotFound,
			fmt.Sprintf("release %s has no asset %q", release.Tag, name), ErrAssetNotFound)
	}

	res, err := d.File(ctx, asset.URL, filepath.Join(destDir, filepath.Base(asset.Name)))
	if err != nil {
		return Result{}, err
	}

	expected, found, err := d.publishedChecksum(ctx, release, asset.Name)
	if err != nil {
		d.log.Logf("download: checksum list for %s: %v", release.Tag, err)
		return res, nil
	}
	if !found {
		d.log.Logf("download: no published checksum for %s", asset.Name)
		return res, nil
	}
	if !strings.EqualFold(expected, res.SHA256) {
		_ = os.Remove(res.Path)
		return Result{}, appErrors.New(appErrors.CodeChecksumMismatch, asset.Name,
			fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, expected, res.SHA256))
	}
	res.Verified = true
	return res, nil
}

// Source downloads the source archive of type t into destDir as <tag>.<ext>.
func (d *Downloader) Source(ctx context.Context, release provider.Release, t provider.ArchiveType, destDir string) (Result, error) {
	src, ok := release.Source(t)
	if !ok {
		return Result{}, appErrors.New(appErrors.CodeNotFound,
			fmt.Sprintf("release %s has no %s source archive", release.Tag, t), ErrAssetNotFound)
	}
	name := path.Base(release.Tag) + "." + t.String()
	return d.File(ctx, src.URL, filepath.Join(destDir, name))
}

// File downloads url to dest. The body is written to a temporary file next
// to dest and renamed into place once complete.
func (d *Downloader) File(ctx context.Context, url, dest string) (Result, error) {
	body, err := d.get(ctx, url)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = body.Close() }()

	//nolint:gosec // G301: destination directory chosen by the user
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return Result{}, fmt.Errorf("create destination: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".vercheck-download-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), body); err != nil {
		cleanup()
		return Result{}, appErrors.New(appErrors.CodeDownloadFailed, url, fmt.Errorf("%w: %v", ErrDownloadFailed, err))
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return Result{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		cleanup()
		return Result{}, fmt.Errorf("move download into place: %w", err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	d.log.Logf("download: %s -> %s (sha256 %s)", url, dest, sum)
	return Result{Path: dest, SHA256: sum}, nil
}

func (d *Downloader) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream")
	req.Header.Set("User-Agent", provider.UserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeDownloadFailed, url, fmt.Errorf("%w: %v", ErrDownloadFailed, err))
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, appErrors.New(appErrors.CodeDownloadFailed, url,
			fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode))
	}
	return resp.Body, nil
}

// publishedChecksum looks for a checksum for assetName, first in a
// "<asset>.sha256" file, then in the release's checksum list.
func (d *Downloader) publishedChecksum(ctx context.Context, release provider.Release, assetName string) (string, bool, error) {
	if a, ok := release.Asset(assetName + ".sha256"); ok {
		sums, err := d.fetchChecksums(ctx, a.URL)
		if err != nil {
			return "", false, err
		}
		if sum, ok := sums[assetName]; ok {
			return sum, true, nil
		}
		// Single-hash files carry no filename.
		if sum, ok := sums[""]; ok {
			return sum, true, nil
		}
	}

	for _, name := range checksumAssetNames {
		a, ok := release.Asset(name)
		if !ok {
			continue
		}
		sums, err := d.fetchChecksums(ctx, a.URL)
		if err != nil {
			return "", false, err
		}
		sum, ok := sums[assetName]
		return sum, ok, nil
	}
	return "", false, nil
}

func (d *Downloader) fetchChecksums(ctx context.Context, url string) (map[string]string, error) {
	body, err := d.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()
	return ParseChecksumFile(body)
}

// VerifyChecksum verifies a file against an expected SHA256 checksum.
func VerifyChecksum(path, expected string) error {
	//nolint:gosec // G304: Path comes from caller; this is intentional for checksum verification
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash file: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, expected, actual)
	}
	return nil
}

// ParseChecksumFile parses a checksums.txt file and returns a map of filename to checksum.
// Format: "sha256hash  filename" (two spaces, or " *" for binary mode).
// A line holding only a hash is stored under the empty filename.
func ParseChecksumFile(r io.Reader) (map[string]string, error) {
	checksums := make(map[string]string)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			if isHexDigest(fields[0]) {
				checksums[""] = fields[0]
			}
		case 2:
			hash := fields[0]
			// Remove any leading ./, */ or directories
			filename := filepath.Base(strings.TrimPrefix(fields[1], "*"))
			if hash != "" && filename != "" {
				checksums[filename] = hash
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read checksums: %w", err)
	}
	return checksums, nil
}

func isHexDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
