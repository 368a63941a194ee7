package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/davrell/packsmith/internal/domain/interfaces/gateways"
)

const (
	// Max retries for transient errors
	storeMaxRetries = 3
	// Initial backoff duration
	storeInitialBackoff = 1 * time.Second
	// Max backoff duration
	storeMaxBackoff = 32 * time.Second
)

// HTTPArtifactStore implements gateways.ArtifactStore against the GitHub
// releases API.
type HTTPArtifactStore struct {
	client         *http.Client
	token          string
	userAgent      string
	apiBase        string
	maxRetries     int
	initialBackoff time.Duration
}

// NewHTTPArtifactStore creates a new artifact store backed by GitHub releases
func NewHTTPArtifactStore(token string) *HTTPArtifactStore {
	return &HTTPArtifactStore{
		client: &http.Client{
			Timeout: 5 * time.Minute, // large artifact uploads
		},
		token:          token,
		userAgent:      "packsmith/1.0",
		apiBase:        "https://api.github.com",
		maxRetries:     storeMaxRetries,
		initialBackoff: storeInitialBackoff,
	}
}

// githubRelease represents the GitHub API release format
type githubRelease struct {
	ID          int64  `json:"id,omitempty"`
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	Body        string `json:"body"`
	Draft       bool   `json:"draft"`
	Prerelease  bool   `json:"prerelease"`
	CreatedAt   string `json:"created_at,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
	UploadURL   string `json:"upload_url,omitempty"`
}

// githubAsset represents a GitHub release asset
type githubAsset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// EnsureRelease returns the release for the tag, creating it if it does not exist.
func (g *HTTPArtifactStore) EnsureRelease(ctx context.Context, owner, repo string, release *gateways.Release) (*gateways.Release, error) {
	existing, err := g.getRelease(ctx, owner, repo, release.TagName)
	if err == nil {
		return existing, nil
	}

	return g.createRelease(ctx, owner, repo, release)
}

func (g *HTTPArtifactStore) getRelease(ctx context.Context, owner, repo, tag string) (*gateways.Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", g.apiBase, owner, repo, tag)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.doWithRetry(req, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("release not found: %s", tag)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("get release", resp)
	}

	var result githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return toRelease(&result), nil
}

func (g *HTTPArtifactStore) createRelease(ctx context.Context, owner, repo string, release *gateways.Release) (*gateways.Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases", g.apiBase, owner, repo)

	body, err := json.Marshal(githubRelease{
		TagName:    release.TagName,
		Name:       release.Name,
		Body:       release.Body,
		Draft:      release.Draft,
		Prerelease: release.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal release: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.doWithRetry(req, func() (io.Reader, error) {
		return bytes.NewReader(body), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError("create release", resp)
	}

	var result githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return toRelease(&result), nil
}

// UploadAsset uploads a file as a release asset. Any existing asset with the
// same name is deleted first so republishing a bundle converges.
func (g *HTTPArtifactStore) UploadAsset(ctx context.Context, owner, repo string, release *gateways.Release, filePath, name string) (*gateways.Asset, error) {
	assets, err := g.ListAssets(ctx, owner, repo, release.ID)
	if err != nil {
		return nil, err
	}
	for _, asset := range assets {
		if asset.Name == name {
			if err := g.deleteAsset(ctx, owner, repo, asset.ID); err != nil {
				return nil, fmt.Errorf("failed to replace existing asset %s: %w", name, err)
			}
		}
	}

	//nolint:gosec // G304: asset path comes from the build pipeline
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset file: %w", err)
	}

	endpoint := uploadEndpoint(release.UploadURL, name)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(data))

	resp, err := g.doWithRetry(req, func() (io.Reader, error) {
		return bytes.NewReader(data), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError("upload asset", resp)
	}

	var result githubAsset
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &gateways.Asset{
		ID:                 result.ID,
		Name:               result.Name,
		Size:               result.Size,
		BrowserDownloadURL: result.BrowserDownloadURL,
	}, nil
}

// ListAssets lists the assets attached to a release.
func (g *HTTPArtifactStore) ListAssets(ctx context.Context, owner, repo string, releaseID int64) ([]gateways.Asset, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/%d/assets", g.apiBase, owner, repo, releaseID)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.doWithRetry(req, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("list assets", resp)
	}

	var results []githubAsset
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	assets := make([]gateways.Asset, 0, len(results))
	for _, a := range results {
		assets = append(assets, gateways.Asset{
			ID:                 a.ID,
			Name:               a.Name,
			Size:               a.Size,
			BrowserDownloadURL: a.BrowserDownloadURL,
		})
	}
	return assets, nil
}

func (g *HTTPArtifactStore) deleteAsset(ctx context.Context, owner, repo string, assetID int64) error {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/assets/%d", g.apiBase, owner, repo, assetID)

	req, err := http.NewRequestWithContext(ctx, "DELETE", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.doWithRetry(req, nil)
	if err != nil {
		return err
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError("delete asset", resp)
	}
	return nil
}

func (g *HTTPArtifactStore) setHeaders(req *http.Request) {
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", g.userAgent)
}

// doWithRetry executes a request, retrying network errors and transient
// statuses with capped exponential backoff. rewind rebuilds the request body
// for retried requests; nil for bodyless requests.
func (g *HTTPArtifactStore) doWithRetry(req *http.Request, rewind func() (io.Reader, error)) (*http.Response, error) {
	backoff := g.initialBackoff
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			if backoff *= 2; backoff > storeMaxBackoff {
				backoff = storeMaxBackoff
			}
			if rewind != nil {
				body, err := rewind()
				if err != nil {
					return nil, err
				}
				req.Body = io.NopCloser(body)
			}
		}

		resp, err := g.client.Do(req)
		if err != nil {
			if attempt < g.maxRetries {
				continue
			}
			return nil, err
		}

		// An exhausted rate limit will not recover within our backoff window
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			//nolint:errcheck,gosec // Best effort close on rate limit error
			resp.Body.Close()
			return nil, rateLimitError(resp)
		}

		if !transientStatus(resp.StatusCode) || attempt >= g.maxRetries {
			return resp, nil
		}

		//nolint:errcheck,gosec // Best effort close before retry
		resp.Body.Close()
	}
}

func rateLimitError(resp *http.Response) error {
	if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		return fmt.Errorf("API rate limit exceeded, resets at %s", time.Unix(reset, 0).Format(time.RFC3339))
	}
	return errors.New("API rate limit exceeded")
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// uploadEndpoint strips the {?name,label} template from an upload URL and
// appends the asset name.
func uploadEndpoint(uploadURL, name string) string {
	if idx := strings.Index(uploadURL, "{"); idx >= 0 {
		uploadURL = uploadURL[:idx]
	}
	return uploadURL + "?name=" + url.QueryEscape(name)
}

func apiError(op string, resp *http.Response) error {
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
	if err != nil || len(bodyBytes) == 0 {
		return fmt.Errorf("%s failed: status %d", op, resp.StatusCode)
	}
	return fmt.Errorf("%s failed: status %d: %s", op, resp.StatusCode, string(bodyBytes))
}

func toRelease(r *githubRelease) *gateways.Release {
	return &gateways.Release{
		ID:         r.ID,
		TagName:    r.TagName,
		Name:       r.Name,
		Body:       r.Body,
		Draft:      r.Draft,
		Prerelease: r.Prerelease,
		HTMLURL:    r.HTMLURL,
		UploadURL:  r.UploadURL,
	}
}
