// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var testRepo = RepoRef{Owner: "acme", Name: "tool"}

func TestListReleases_PreservesAPIOrder(t *testing.T) {
	t.Parallel()

	releases := []githubRelease{
		{TagName: "v2.0.0-rc.1", Prerelease: true},
		{TagName: "v1.10.0"},
		{TagName: "v1.9.0", Assets: []githubAsset{{Name: "tool.tar.gz", BrowserDownloadURL: "https://example.com/tool.tar.gz"}}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/tool/releases" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(releases); err != nil {
			t.Errorf("encoding releases: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.ListReleases(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"v2.0.0-rc.1", "v1.10.0", "v1.9.0"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d releases, got %d", len(wantOrder), len(got))
	}
	for i, want := range wantOrder {
		if got[i].TagName != want {
			t.Errorf("release[%d]: got tag %q, want %q", i, got[i].TagName, want)
		}
	}
	if len(got[2].Assets) != 1 || got[2].Assets[0].Name != "tool.tar.gz" {
		t.Errorf("assets not decoded: %+v", got[2].Assets)
	}
}

func TestListReleases_Pagination(t *testing.T) {
	t.Parallel()

	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			_ = json.NewEncoder(w).Encode([]githubRelease{{TagName: "v1.0.0"}})
			return
		}

		nextURL := fmt.Sprintf("%s/repos/acme/tool/releases?per_page=5&page=2", srvURL)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next", <%s>; rel="last"`, nextURL, nextURL))
		_ = json.NewEncoder(w).Encode([]githubRelease{{TagName: "v2.0.0"}})
	}))
	defer srv.Close()
	srvURL = srv.URL

	client := NewClient(WithBaseURL(srv.URL), WithPagination(5, 0))
	got, err := client.ListReleases(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0].TagName != "v2.0.0" || got[1].TagName != "v1.0.0" {
		t.Fatalf("unexpected releases across pages: %+v", got)
	}
}

func TestListReleases_MaxPages(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/tool/releases?page=%d>; rel="next"`, srvURL, n+1))
		_ = json.NewEncoder(w).Encode([]githubRelease{{TagName: "v" + strconv.Itoa(int(n))}})
	}))
	defer srv.Close()
	srvURL = srv.URL

	client := NewClient(WithBaseURL(srv.URL), WithPagination(0, 2))
	got, err := client.ListReleases(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", calls.Load())
	}
	if len(got) != 2 {
		t.Errorf("expected 2 releases, got %d", len(got))
	}
}

func TestListReleases_Empty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.ListReleases(context.Background(), testRepo)
	if !errors.Is(err, ErrNoReleases) {
		t.Fatalf("expected ErrNoReleases, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil releases, got %+v", got)
	}
}

func TestListReleases_StatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.ListReleases(context.Background(), testRepo)

	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T", err)
	}
	if netErr.StatusCode != http.StatusNotFound || !netErr.IsClientError() {
		t.Errorf("unexpected status in %+v", netErr)
	}
}

func TestListReleases_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"not":"an array"`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.ListReleases(context.Background(), testRepo)
	if err == nil || !strings.Contains(err.Error(), "decoding releases") {
		t.Fatalf("expected decode error, got %v", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("decode failure should not be reported as a network error")
	}
}

func TestListReleases_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(WithBaseURL(base))
	_, err := client.ListReleases(context.Background(), testRepo)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
	if netErr.StatusCode != 0 {
		t.Errorf("expected no status code for transport failure, got %d", netErr.StatusCode)
	}
}

func TestLatestRelease_Success(t *testing.T) {
	t.Parallel()

	release := githubRelease{
		TagName: "v1.5.0",
		Name:    "Release 1.5.0",
		HTMLURL: "https://github.com/acme/tool/releases/tag/v1.5.0",
		Assets: []githubAsset{{
			Name:               "tool_1.5.0_linux_amd64.tar.gz",
			BrowserDownloadURL: "https://github.com/acme/tool/releases/download/v1.5.0/tool_1.5.0_linux_amd64.tar.gz",
			Size:               5242880,
			ContentType:        "application/gzip",
		}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/tool/releases/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(release)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.LatestRelease(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TagName != "v1.5.0" {
		t.Errorf("got tag %q, want %q", got.TagName, "v1.5.0")
	}
	if len(got.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(got.Assets))
	}
	if got.Assets[0].Size != 5242880 {
		t.Errorf("got asset size %d, want %d", got.Assets[0].Size, 5242880)
	}
}

func TestLatestRelease_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.LatestRelease(context.Background(), testRepo)

	if got != nil {
		t.Errorf("expected nil release, got %+v", got)
	}
	if !errors.Is(err, ErrNoReleases) {
		t.Errorf("expected ErrNoReleases, got %v", err)
	}
}

func TestRateLimitError(t *testing.T) {
	t.Parallel()

	resetTime := time.Date(2025, 7, 1, 14, 30, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.ListReleases(context.Background(), testRepo)

	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected *RateLimitError, got %T: %v", err, err)
	}
	if rlErr.Limit != 60 {
		t.Errorf("got limit %d, want 60", rlErr.Limit)
	}
	if !rlErr.ResetAt.Equal(resetTime) {
		t.Errorf("got reset %v, want %v", rlErr.ResetAt, resetTime)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("rate limit error should match ErrNetwork")
	}
	if !strings.Contains(rlErr.Error(), "14:30 UTC") {
		t.Errorf("unexpected message %q", rlErr.Error())
	}
}

func TestRetry_TransientServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[{"tag_name":"v1.0.0"}]`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetries(2, time.Millisecond))
	got, err := client.ListReleases(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || calls.Load() != 2 {
		t.Errorf("expected success on second attempt, got %d releases after %d calls", len(got), calls.Load())
	}
}

func TestRetry_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetries(3, time.Millisecond))
	if _, err := client.ListReleases(context.Background(), testRepo); !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestRetry_GivesUp(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetries(2, time.Millisecond))
	_, err := client.ListReleases(context.Background(), testRepo)

	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 NetworkError, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDownloadAsset(t *testing.T) {
	t.Parallel()

	const body = "binary-content"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := NewClient()
	stream, err := client.DownloadAsset(context.Background(), srv.URL+"/file.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Body.Close()

	if stream.ContentLength != int64(len(body)) {
		t.Errorf("ContentLength = %d, want %d", stream.ContentLength, len(body))
	}
	data, err := io.ReadAll(stream.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(data) != body {
		t.Errorf("body = %q, want %q", data, body)
	}
}

func TestDownloadAsset_StatusErrorRedactsURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.DownloadAsset(context.Background(), srv.URL+"/file.bin?token=secret")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaks query string: %v", err)
	}
}

func TestDownloadAsset_Cancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(WithRetries(3, time.Millisecond))
	_, err := client.DownloadAsset(ctx, srv.URL+"/file.bin")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTokenOnlySentToGitHubHosts(t *testing.T) {
	t.Parallel()

	var apiAuth, cdnAuth atomic.Value
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cdnAuth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, "x")
	}))
	defer cdn.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiAuth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, `[{"tag_name":"v1"}]`)
	}))
	defer api.Close()

	client := NewClient(WithBaseURL(api.URL), WithToken("ghp_test"))
	if _, err := client.ListReleases(context.Background(), testRepo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The two test servers listen on different ports, so their hosts differ.
	stream, err := client.DownloadAsset(context.Background(), cdn.URL+"/asset")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stream.Body.Close()

	if got, _ := apiAuth.Load().(string); got != "Bearer ghp_test" {
		t.Errorf("API Authorization = %q, want bearer token", got)
	}
	if got, _ := cdnAuth.Load().(string); got != "" {
		t.Errorf("CDN received Authorization header %q", got)
	}
}

func TestParseLinkHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{`<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=5>; rel="last"`, "https://api.github.com/x?page=2"},
		{`<https://api.github.com/x?page=1>; rel="prev"`, ""},
		{`malformed; rel="next"`, ""},
	}
	for _, tt := range tests {
		if got := parseLinkHeader(tt.header); got != tt.want {
			t.Errorf("parseLinkHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestIsGitHubHost(t *testing.T) {
	t.Parallel()

	mustParse := func(raw string) *url.URL {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		return u
	}

	tests := []struct {
		reqURL string
		base   string
		want   bool
	}{
		{"https://api.github.com/repos/a/b", DefaultBaseURL, true},
		{"https://github.com/a/b/releases/download/v1/x", DefaultBaseURL, true},
		{"https://objects.githubusercontent.com/x", DefaultBaseURL, false},
		{"https://ghe.example.com/api/v3/repos", "https://ghe.example.com/api/v3", true},
		{"https://github.com/a/b", "https://ghe.example.com/api/v3", false},
	}
	for _, tt := range tests {
		if got := isGitHubHost(mustParse(tt.reqURL), tt.base); got != tt.want {
			t.Errorf("isGitHubHost(%q, %q) = %v, want %v", tt.reqURL, tt.base, got, tt.want)
		}
	}
}
