// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultPerPage is the number of releases fetched per API page.
	DefaultPerPage = 30

	// DefaultMaxPages is the upper bound on pagination to avoid runaway requests.
	DefaultMaxPages = 10

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	maxJSONResponseBytes = 10 << 20

	// defaultRetryDelay is the first backoff delay; it doubles per attempt.
	defaultRetryDelay = 250 * time.Millisecond
)

type (
	// Release represents a GitHub Release with its assets.
	Release struct {
		TagName    string  // Tag the release was cut from, e.g. "v1.0.0"
		Name       string  // Human-readable release name
		Prerelease bool    // True for alpha/beta/RC releases
		Draft      bool    // True for unpublished drafts
		Assets     []Asset // Downloadable files, in API order
		HTMLURL    string  // Browser URL for the release page
		CreatedAt  string  // ISO 8601 timestamp
	}

	// Asset represents a single downloadable file in a GitHub Release.
	Asset struct {
		Name               string // File name, used as the selection key
		BrowserDownloadURL string // Direct download URL
		Size               int64  // File size in bytes
		ContentType        string // MIME type
	}

	// AssetStream is an open asset download. The caller must close Body.
	AssetStream struct {
		Body io.ReadCloser
		// ContentLength is the expected size from the Content-Length header,
		// or zero when the server did not announce one.
		ContentLength int64
	}

	// Resolver looks up releases for a repository.
	Resolver interface {
		ListReleases(ctx context.Context, ref RepoRef) ([]Release, error)
		LatestRelease(ctx context.Context, ref RepoRef) (*Release, error)
	}

	// githubRelease is the JSON wire format for a GitHub Release API response.
	githubRelease struct {
		TagName    string        `json:"tag_name"`
		Name       string        `json:"name"`
		Prerelease bool          `json:"prerelease"`
		Draft      bool          `json:"draft"`
		HTMLURL    string        `json:"html_url"`
		CreatedAt  string        `json:"created_at"`
		Assets     []githubAsset `json:"assets"`
	}

	// githubAsset is the JSON wire format for a GitHub Release asset.
	githubAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
		ContentType        string `json:"content_type"`
	}

	// Client queries the GitHub Releases API and streams release assets.
	Client struct {
		httpClient *http.Client
		baseURL    string
		token      string
		userAgent  string
		perPage    int
		maxPages   int
		retries    int
		retryDelay time.Duration
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(g *Client) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the GitHub API base URL, primarily for test servers
// and GitHub Enterprise installations.
func WithBaseURL(base string) ClientOption {
	return func(g *Client) {
		g.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken sets a GitHub personal access token for authenticated requests.
// Authenticated requests have a higher rate limit (5000/hour vs 60/hour).
func WithToken(token string) ClientOption {
	return func(g *Client) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(g *Client) {
		g.userAgent = ua
	}
}

// WithPagination bounds how many releases are listed: perPage entries per
// request, at most maxPages requests. Non-positive values keep the defaults.
func WithPagination(perPage, maxPages int) ClientOption {
	return func(g *Client) {
		if perPage > 0 {
			g.perPage = min(perPage, 100)
		}
		if maxPages > 0 {
			g.maxPages = maxPages
		}
	}
}

// WithRetries sets how many times a transient failure (transport error or
// 5xx status) is retried, and the initial backoff delay.
func WithRetries(retries int, delay time.Duration) ClientOption {
	return func(g *Client) {
		g.retries = max(retries, 0)
		if delay > 0 {
			g.retryDelay = delay
		}
	}
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(l *log.Logger) ClientOption {
	return func(g *Client) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewClient creates a Client with sensible defaults.
// Defaults: baseURL="https://api.github.com", userAgent="gh-release-dl/dev",
// httpClient=http.DefaultClient, no retries, logging discarded.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		userAgent:  "gh-release-dl/dev",
		perPage:    DefaultPerPage,
		maxPages:   DefaultMaxPages,
		retryDelay: defaultRetryDelay,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListReleases fetches every release of ref, newest first (the API's order).
// Pagination is followed up to the configured page limit. Returns ErrNoReleases
// when the repository has none.
func (c *Client) ListReleases(ctx context.Context, ref RepoRef) ([]Release, error) {
	const op = "list releases"

	pageURL := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d",
		c.baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Name), c.perPage)

	var all []Release

	for page := 0; page < c.maxPages && pageURL != ""; page++ {
		resp, err := c.get(ctx, op, pageURL)
		if err != nil {
			return nil, err
		}

		if rlErr := checkRateLimit(resp); rlErr != nil {
			resp.Body.Close()
			return nil, rlErr
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &NetworkError{Op: op, URL: redactURL(pageURL), StatusCode: resp.StatusCode}
		}

		releases, parseErr := parseReleases(io.LimitReader(resp.Body, maxJSONResponseBytes))
		resp.Body.Close()
		if parseErr != nil {
			return nil, fmt.Errorf("%s for %s: %w", op, ref, parseErr)
		}
		all = append(all, releases...)

		next := parseLinkHeader(resp.Header.Get("Link"))
		if next != "" && page+1 == c.maxPages {
			c.logger.Warn("release list truncated", "repo", ref.String(), "pages", c.maxPages, "releases", len(all))
		}
		pageURL = next
	}

	c.logger.Debug("listed releases", "repo", ref.String(), "count", len(all))

	if len(all) == 0 {
		return nil, fmt.Errorf("%s: %w", ref, ErrNoReleases)
	}
	return all, nil
}

// LatestRelease fetches the most recent non-prerelease, non-draft release of ref.
// A 404 from the API means the repository has no such release and is reported
// as ErrNoReleases.
func (c *Client) LatestRelease(ctx context.Context, ref RepoRef) (*Release, error) {
	const op = "get latest release"

	latestURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest",
		c.baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Name))

	resp, err := c.get(ctx, op, latestURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if err := checkRateLimit(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", ref, ErrNoReleases)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, URL: redactURL(latestURL), StatusCode: resp.StatusCode}
	}

	var gr githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&gr); err != nil {
		return nil, fmt.Errorf("%s for %s: decoding response: %w", op, ref, err)
	}

	r := toRelease(gr)
	return &r, nil
}

// DownloadAsset opens a streaming download of assetURL. Any 2xx status is
// accepted. The caller is responsible for closing the returned body.
func (c *Client) DownloadAsset(ctx context.Context, assetURL string) (*AssetStream, error) {
	const op = "download asset"

	resp, err := c.get(ctx, op, assetURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &NetworkError{Op: op, URL: redactURL(assetURL), StatusCode: resp.StatusCode}
	}

	return &AssetStream{Body: resp.Body, ContentLength: contentLength(resp)}, nil
}

// get performs a GET, retrying transport errors and 5xx responses with
// exponential backoff. Client errors and cancellation are returned immediately.
func (c *Client) get(ctx context.Context, op, reqURL string) (*http.Response, error) {
	delay := c.retryDelay

	for attempt := 0; ; attempt++ {
		c.logger.Debug("request", "op", op, "url", redactURL(reqURL), "attempt", attempt+1)

		resp, err := c.doRequest(ctx, http.MethodGet, reqURL)
		if err != nil && ctx.Err() != nil {
			return nil, &NetworkError{Op: op, URL: redactURL(reqURL), Err: ctx.Err()}
		}

		retryable := err != nil || resp.StatusCode >= http.StatusInternalServerError
		if !retryable || attempt >= c.retries {
			if err != nil {
				return nil, &NetworkError{Op: op, URL: redactURL(reqURL), Err: err}
			}
			return resp, nil
		}

		if resp != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
			resp.Body.Close()
		}
		c.logger.Debug("retrying request", "op", op, "url", redactURL(reqURL), "delay", delay, "error", err)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, &NetworkError{Op: op, URL: redactURL(reqURL), Err: ctx.Err()}
		case <-t.C:
		}
		delay *= 2
	}
}

// doRequest creates and executes an HTTP request with common GitHub API headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)

	// Only attach the auth token when the request targets a known GitHub host.
	// Asset downloads redirect to a CDN that must never see the token.
	if c.token != "" && isGitHubHost(req.URL, c.baseURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

// contentLength returns the announced body size, or zero when unknown.
func contentLength(resp *http.Response) int64 {
	if resp.ContentLength > 0 {
		return resp.ContentLength
	}
	n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// checkRateLimit inspects the X-RateLimit-* response headers and returns a
// RateLimitError when the remaining quota is zero on a rejected request.
func checkRateLimit(resp *http.Response) error {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		return nil //nolint:nilerr // Non-numeric header is non-fatal.
	}

	// Malformed companion headers default to zero, which is fine for a diagnostic.
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))                 //nolint:errcheck // Best-effort header parsing.
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64) //nolint:errcheck // Best-effort header parsing.

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// parseReleases decodes a JSON array of GitHub releases from the response body.
func parseReleases(body io.Reader) ([]Release, error) {
	var raw []githubRelease
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding releases: %w", err)
	}

	releases := make([]Release, 0, len(raw))
	for _, gr := range raw {
		releases = append(releases, toRelease(gr))
	}
	return releases, nil
}

// parseLinkHeader extracts the URL for the "next" page from a GitHub API Link header.
// Returns an empty string if no next page exists.
//
// Example header: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func parseLinkHeader(header string) string {
	if header == "" {
		return ""
	}

	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="next"`) {
			continue
		}

		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}

	return ""
}

// toRelease converts the JSON wire type to the exported Release type.
func toRelease(gr githubRelease) Release {
	assets := make([]Asset, 0, len(gr.Assets))
	for _, ga := range gr.Assets {
		assets = append(assets, Asset(ga))
	}

	return Release{
		TagName:    gr.TagName,
		Name:       gr.Name,
		Prerelease: gr.Prerelease,
		Draft:      gr.Draft,
		Assets:     assets,
		HTMLURL:    gr.HTMLURL,
		CreatedAt:  gr.CreatedAt,
	}
}

// isGitHubHost reports whether reqURL targets a known GitHub host, so the auth
// token can be safely attached. It matches the configured API base URL host and,
// when the base is api.github.com, also trusts github.com for asset downloads.
func isGitHubHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	if strings.EqualFold(reqURL.Host, base.Host) {
		return true
	}
	if strings.EqualFold(base.Host, "api.github.com") && strings.EqualFold(reqURL.Host, "github.com") {
		return true
	}
	return false
}

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages and logs.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
