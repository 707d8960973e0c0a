package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rmolin/wowpkg/internal/addon"
)

const userAgent = "wowpkg/1.0 (addon lifecycle manager)"

// Client talks JSON over HTTP to a running resolution daemon. Each
// Service method maps to one POST endpoint under /api/v1/.
type Client struct {
	baseURL string
	profile string
	logger  *log.Logger
	client  *http.Client
	sources *SourceCache
}

// NewClient creates a client for the daemon at baseURL, scoped to the
// given profile. cacheDir holds the source-list cache.
func NewClient(baseURL, profile, cacheDir string, logger *log.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
		logger:  logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	c.sources = NewSourceCache(cacheDir, c, logger)
	return c
}

// Sources exposes the client's cached source list.
func (c *Client) Sources() *SourceCache {
	return c.sources
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(struct {
		Profile string `json:"profile"`
		Params  any    `json:"params,omitempty"`
	}{Profile: c.profile, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	url := c.baseURL + "/api/v1/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling service", "method", method, "profile", c.profile)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, msg)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// List implements Service.
func (c *Client) List(ctx context.Context) ([]addon.Addon, error) {
	var out []addon.Addon
	if err := c.call(ctx, "list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve implements Service.
func (c *Client) Resolve(ctx context.Context, defns []addon.Defn) ([]addon.ModifyResult, error) {
	params := struct {
		Defns []addon.Defn `json:"defns"`
	}{defns}
	var out []addon.ModifyResult
	if err := c.call(ctx, "resolve", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search implements Service.
func (c *Client) Search(ctx context.Context, query string, p SearchParams) ([]addon.CatalogueEntry, error) {
	params := struct {
		Query string `json:"query"`
		SearchParams
	}{query, p}
	var out []addon.CatalogueEntry
	if err := c.call(ctx, "search", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModifyAddons implements Service.
func (c *Client) ModifyAddons(ctx context.Context, method Method, defns []addon.Defn, p ModifyParams) ([]addon.ModifyResult, error) {
	params := struct {
		Method Method       `json:"method"`
		Defns  []addon.Defn `json:"defns"`
		ModifyParams
	}{method, defns, p}
	var out []addon.ModifyResult
	if err := c.call(ctx, "modify", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reconcile implements Service.
func (c *Client) Reconcile(ctx context.Context, stage addon.Stage) ([]addon.Match, error) {
	params := struct {
		Stage string `json:"stage"`
	}{stage.String()}
	var out []addon.Match
	if err := c.call(ctx, "reconcile", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReconcileInstalledCandidates implements Service.
func (c *Client) GetReconcileInstalledCandidates(ctx context.Context) ([]SwapCandidate, error) {
	var out []SwapCandidate
	if err := c.call(ctx, "reconcile_installed_candidates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDownloadProgress implements Service.
func (c *Client) GetDownloadProgress(ctx context.Context) ([]DownloadProgress, error) {
	var out []DownloadProgress
	if err := c.call(ctx, "download_progress", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChangelog implements Service.
func (c *Client) GetChangelog(ctx context.Context, source, changelogURL string) (string, error) {
	params := struct {
		Source       string `json:"source"`
		ChangelogURL string `json:"changelog_url"`
	}{source, changelogURL}
	var out struct {
		Changelog string `json:"changelog"`
	}
	if err := c.call(ctx, "changelog", params, &out); err != nil {
		return "", err
	}
	return out.Changelog, nil
}

// ListSources implements Service. Results go through the disk cache;
// use Sources().Refresh to bypass it.
func (c *Client) ListSources(ctx context.Context) ([]addon.SourceMeta, error) {
	return c.sources.Get(ctx, false)
}

// listSourcesRemote fetches the source list from the daemon without
// touching the cache.
func (c *Client) listSourcesRemote(ctx context.Context) ([]addon.SourceMeta, error) {
	var out []addon.SourceMeta
	if err := c.call(ctx, "sources", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
