package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rmolin/wowpkg/internal/addon"
)

// SourceCacheTTL is how long the cached source list stays fresh. The
// set of sources a daemon supports changes rarely.
const SourceCacheTTL = 24 * time.Hour

// SourceCache caches the daemon's source list on disk so that alias
// detection and source filters work without a round trip per query.
type SourceCache struct {
	cacheDir  string
	cachePath string
	client    *Client
	logger    *log.Logger
	mu        sync.Mutex
}

type sourceCacheData struct {
	FetchedAt time.Time          `json:"fetched_at"`
	Sources   []addon.SourceMeta `json:"sources"`
}

// NewSourceCache creates a cache rooted at cacheDir.
func NewSourceCache(cacheDir string, client *Client, logger *log.Logger) *SourceCache {
	return &SourceCache{
		cacheDir:  cacheDir,
		cachePath: filepath.Join(cacheDir, "sources.json"),
		client:    client,
		logger:    logger,
	}
}

// Get returns the source list, fetching from the daemon when the cache
// is missing or stale. forceRefresh bypasses the TTL check.
func (sc *SourceCache) Get(ctx context.Context, forceRefresh bool) ([]addon.SourceMeta, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	cached, cacheTime, err := sc.load()
	if err == nil && cached != nil {
		age := time.Since(cacheTime)
		if !forceRefresh && age < SourceCacheTTL {
			sc.logger.Debug("Using cached source list", "age", age.Round(time.Minute))
			return cached.Sources, nil
		}
		sc.logger.Debug("Source cache is stale", "age", age.Round(time.Hour))
	}

	fresh, err := sc.client.listSourcesRemote(ctx)
	if err != nil {
		if cached != nil {
			sc.logger.Warn("Failed to fetch source list, using stale cache",
				"error", err,
				"cache_age", time.Since(cacheTime).Round(time.Hour))
			return cached.Sources, nil
		}
		return nil, fmt.Errorf("failed to fetch source list and no cache available: %w", err)
	}

	sort.Slice(fresh, func(i, j int) bool { return fresh[i].Source < fresh[j].Source })

	if err := sc.save(&sourceCacheData{FetchedAt: time.Now(), Sources: fresh}); err != nil {
		sc.logger.Warn("Failed to save source cache", "error", err)
	}
	return fresh, nil
}

// Refresh forces a fetch from the daemon.
func (sc *SourceCache) Refresh(ctx context.Context) ([]addon.SourceMeta, error) {
	return sc.Get(ctx, true)
}

// Known returns the set of cached source keys without hitting the
// network; an empty map when nothing is cached yet.
func (sc *SourceCache) Known() map[string]bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	known := make(map[string]bool)
	cached, _, err := sc.load()
	if err != nil || cached == nil {
		return known
	}
	for _, s := range cached.Sources {
		known[s.Source] = true
	}
	return known
}

func (sc *SourceCache) load() (*sourceCacheData, time.Time, error) {
	info, err := os.Stat(sc.cachePath)
	if err != nil {
		return nil, time.Time{}, err
	}

	data, err := os.ReadFile(sc.cachePath)
	if err != nil {
		return nil, time.Time{}, err
	}

	var cached sourceCacheData
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, time.Time{}, err
	}
	return &cached, info.ModTime(), nil
}

func (sc *SourceCache) save(data *sourceCacheData) error {
	if err := os.MkdirAll(sc.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal source cache: %w", err)
	}

	if err := os.WriteFile(sc.cachePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write source cache: %w", err)
	}
	return nil
}

// CacheInfo describes the state of the on-disk source cache.
type CacheInfo struct {
	HasCache    bool
	IsStale     bool
	LastUpdated time.Time
	Age         time.Duration
	Total       int
}

// Info reports the cache state without fetching.
func (sc *SourceCache) Info() CacheInfo {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	cached, cacheTime, err := sc.load()
	if err != nil || cached == nil {
		return CacheInfo{}
	}

	age := time.Since(cacheTime)
	return CacheInfo{
		HasCache:    true,
		IsStale:     age > SourceCacheTTL,
		LastUpdated: cacheTime,
		Age:         age,
		Total:       len(cached.Sources),
	}
}
