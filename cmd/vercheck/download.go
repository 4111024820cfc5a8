package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vercheck/internal/cascade"
	"vercheck/internal/debug"
	"vercheck/internal/download"
	"vercheck/internal/provider"
)

// downloadRequest is what -download, -asset and -source ask for.
type downloadRequest struct {
	dir     string
	asset   string
	archive provider.ArchiveType
}

func newDownloadRequest(f *cliFlags) (*downloadRequest, error) {
	dir := strings.TrimSpace(f.download)
	asset := strings.TrimSpace(f.asset)
	source := strings.TrimSpace(f.source)
	if dir == "" {
		if asset != "" || source != "" {
			return nil, fmt.Errorf("%w: -asset and -source require -download", errUsage)
		}
		return nil, nil
	}
	if asset != "" && source != "" {
		return nil, fmt.Errorf("%w: use either -asset or -source", errUsage)
	}
	req := &downloadRequest{dir: dir, asset: asset}
	if source != "" {
		t, err := provider.ParseArchiveType(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		req.archive = t
	}
	return req, nil
}

func (r *downloadRequest) run(ctx context.Context, res cascade.Result, client *http.Client, log *debug.Logger, stderr io.Writer) error {
	if !res.Available() {
		_, _ = fmt.Fprintln(stderr, "Nothing to download.")
		return nil
	}
	d := download.New(download.WithHTTPClient(client), download.WithLogger(log))

	var (
		out download.Result
		err error
	)
	switch {
	case r.archive != "":
		out, err = d.Source(ctx, res.Release, r.archive, r.dir)
	default:
		name := r.asset
		if name == "" {
			asset, ok := res.Release.CurrentPlatformAsset()
			if !ok {
				return fmt.Errorf("%w: release %s has no asset for this platform, pass -asset or -source",
					download.ErrAssetNotFound, res.Release.Tag)
			}
			name = asset.Name
		}
		out, err = d.Asset(ctx, res.Release, name, r.dir)
	}
	if err != nil {
		return err
	}

	status := "checksum not published"
	if out.Verified {
		status = "sha256 verified"
	}
	_, _ = fmt.Fprintf(stderr, "Downloaded %s (%s)\n", out.Path, status)
	return nil
}
