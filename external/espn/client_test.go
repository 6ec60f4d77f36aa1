package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtvision/courtvision/internal/platform/cache"
	"github.com/courtvision/courtvision/internal/platform/resilience"
	"github.com/courtvision/courtvision/internal/usecase"
)

func TestClient_FetchScoreboard(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.URL.Query().Get("dates"); got != "20260105" {
			t.Errorf("dates param: got %q", got)
		}
		if got := r.URL.Query().Get("groups"); got != "50" {
			t.Errorf("groups param: got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "500" {
			t.Errorf("limit param: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scoreboardFixture))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:  server.URL,
		Cache:    cache.NewStore(),
		TodayTTL: time.Minute,
		PastTTL:  time.Hour,
	})

	games, err := client.FetchScoreboard(context.Background(), "20260105")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}

	// second call for the same date must be served from cache
	if _, err := client.FetchScoreboard(context.Background(), "20260105"); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("upstream hit %d times, want 1", got)
	}
}

func TestClient_FetchScoreboard_UpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.FetchScoreboard(context.Background(), "20260105")
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}

	var upstream *usecase.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("want UpstreamError, got %T", err)
	}
	if upstream.Source != "espn" || upstream.StatusCode != http.StatusBadGateway || upstream.BodyPreview != "upstream broke" {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
}

func TestClient_FetchScoreboard_MalformedPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.FetchScoreboard(context.Background(), "20260105")
	if !errors.Is(err, usecase.ErrUpstreamMalformed) {
		t.Fatalf("want ErrUpstreamMalformed, got %v", err)
	}
}

func TestClient_FetchScoreboard_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	client.breaker = resilience.NewCircuitBreaker(2, time.Minute, 1)

	for i := 0; i < 3; i++ {
		if _, err := client.FetchScoreboard(context.Background(), "20260105"); err == nil {
			t.Fatal("expected failure")
		}
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("upstream hit %d times, want 2 (third call rejected by breaker)", got)
	}
}
