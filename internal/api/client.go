// Package api provides the HTTP client for the solicitation backend.
//
// All filtering is client-side; the backend exposes plain JSON endpoints
// with no query parameters. Every method takes a context and respects
// cancellation. Requests share a modest rate limiter so a refetch storm
// cannot hammer the backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bdwatch/pursuit/internal/catalog"
)

const userAgent = "pursuit/1.0 (+https://github.com/bdwatch/pursuit)"

// Client talks to the solicitation backend.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the given base URL (scheme://host[:port]).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
	}
}

// List retrieves the full catalog. Non-2xx responses are errors; there
// is no partial success.
func (c *Client) List(ctx context.Context) ([]catalog.Solicitation, error) {
	var items []catalog.Solicitation
	if err := c.getJSON(ctx, "/api/solicitations", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Detail retrieves one solicitation with its claims.
func (c *Client) Detail(ctx context.Context, id string) (catalog.Detail, error) {
	var d catalog.Detail
	err := c.getJSON(ctx, "/api/solicitations/"+url.PathEscape(id), &d)
	return d, err
}

// Claim posts the caller's claim on a solicitation. claimType is one of
// catalog.ClaimInterested, catalog.ClaimLead, catalog.ClaimNone.
// Idempotent server-side: posting the currently-held type is a no-op,
// "none" clears the claim.
func (c *Client) Claim(ctx context.Context, id, claimType string) error {
	path := "/api/solicitations/" + url.PathEscape(id) + "/claim"
	body := struct {
		Type string `json:"type"`
	}{Type: claimType}
	return c.postJSON(ctx, path, body, nil)
}

// RequirementsDoc is the thin contract of the markdown-versioning
// subsystem: the client only ever needs content and a version id.
type RequirementsDoc struct {
	ID      int    `json:"id,omitempty"`
	Content string `json:"content"`
}

// Requirements fetches the requirements document. version <= 0 fetches
// the latest.
func (c *Client) Requirements(ctx context.Context, version int) (RequirementsDoc, error) {
	path := "/api/requirements"
	if version > 0 {
		path = fmt.Sprintf("%s?version=%d", path, version)
	}
	var doc RequirementsDoc
	err := c.getJSON(ctx, path, &doc)
	return doc, err
}

// SaveRequirements creates a new version of the requirements document.
func (c *Client) SaveRequirements(ctx context.Context, content string) error {
	return c.postJSON(ctx, "/api/requirements", RequirementsDoc{Content: content}, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: HTTP %d %s", path, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: HTTP %d %s", path, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
