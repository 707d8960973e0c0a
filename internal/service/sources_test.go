package service

import (
	"context"
	"net/http"
	"testing"
)

func TestSourceCacheFetchesThenServesFromDisk(t *testing.T) {
	calls := 0
	c := testClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v1/sources" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		calls++
		return jsonResponse(`[{"source":"wowi","name":"WoWInterface"},{"source":"curse","name":"CurseForge"}]`), nil
	})

	first, err := c.Sources().Get(context.Background(), false)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(first))
	}

	// Sorted by source key.
	if first[0].Source != "curse" {
		t.Fatalf("expected sorted sources, got %q first", first[0].Source)
	}

	second, err := c.Sources().Get(context.Background(), false)
	if err != nil {
		t.Fatalf("second Get() returned error: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(second))
	}
	if calls != 1 {
		t.Fatalf("expected a single fetch, got %d", calls)
	}

	known := c.Sources().Known()
	if !known["curse"] || !known["wowi"] {
		t.Fatalf("unexpected known set: %v", known)
	}

	info := c.Sources().Info()
	if !info.HasCache || info.IsStale || info.Total != 2 {
		t.Fatalf("unexpected cache info: %+v", info)
	}
}

func TestSourceCacheFallsBackToStaleOnError(t *testing.T) {
	healthy := true
	c := testClient(t, func(req *http.Request) (*http.Response, error) {
		if !healthy {
			return &http.Response{StatusCode: http.StatusServiceUnavailable, Header: make(http.Header), Body: http.NoBody}, nil
		}
		return jsonResponse(`[{"source":"curse","name":"CurseForge"}]`), nil
	})

	if _, err := c.Sources().Get(context.Background(), false); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}

	healthy = false
	sources, err := c.Sources().Refresh(context.Background())
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if len(sources) != 1 || sources[0].Source != "curse" {
		t.Fatalf("unexpected fallback sources: %+v", sources)
	}
}
