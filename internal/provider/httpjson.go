package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	appErrors "vercheck/internal/errors"
)

// UserAgent is sent with every provider request.
const UserAgent = "vercheck-update-checker"

// GetJSON performs a GET request and decodes a JSON body into out.
// 403 and 429 are reported as ErrRateLimited, any other non-200 status as
// ErrNetworkFailure. The returned header lets callers follow pagination.
func GetJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeProviderFailed, "GET "+url,
			fmt.Errorf("%w: %v", ErrNetworkFailure, err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, appErrors.New(appErrors.CodeRateLimited, "GET "+url, ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, appErrors.New(appErrors.CodeProviderFailed, "GET "+url,
			fmt.Errorf("%w: status %d", ErrNetworkFailure, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, appErrors.New(appErrors.CodeProviderFailed, "GET "+url,
			fmt.Errorf("%w: decode response: %v", ErrUnexpectedResponse, err))
	}
	return resp.Header, nil
}
