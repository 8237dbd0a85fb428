// Package httpjson is the shared plain-HTTP+JSON client the Adzuna,
// RemoteOK, and USAJobs adapters build on — all three expose a simple
// REST+JSON board, unlike TheMuse's client-rendered listing page (see
// internal/providers/source/themuse).
package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jobscout/scouter/internal/providers/source"
)

// Client wraps an http.Client with a fixed timeout and JSON decode
// helper; adapters compose it rather than re-implementing error
// classification per source.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetJSON performs a GET against BaseURL+path?query, decoding the JSON
// body into out. Errors are classified into source.Error so every
// adapter built on this client reports failures uniformly.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	full := c.BaseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return source.NewError(source.ErrParse, "building request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return source.NewError(source.ErrTimeout, "request timed out", err)
		}
		return source.NewError(source.ErrAPIDown, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return source.NewError(source.ErrRateLimited, "rate limited", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return source.NewError(source.ErrAuth, "authentication failed", nil)
	case resp.StatusCode >= 500:
		return source.NewError(source.ErrAPIDown, fmt.Sprintf("upstream status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return source.NewError(source.ErrParse, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return source.NewError(source.ErrParse, "decoding response body", err)
	}
	return nil
}
