package kenpom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/courtvision/courtvision/internal/platform/cache"
	"github.com/courtvision/courtvision/internal/usecase"
)

const fanMatchFixture = `[
  {
    "GameID": 5001,
    "Visitor": "Kansas",
    "Home": "UConn",
    "VisitorPred": 68.4,
    "HomePred": 71.2,
    "HomeWP": 0.61,
    "ThrillScore": 82.5,
    "PredTempo": 68.9,
    "VisitorRank": 8,
    "HomeRank": 3
  }
]`

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(ClientConfig{})
	if !errors.Is(err, usecase.ErrConfigurationMissing) {
		t.Fatalf("want ErrConfigurationMissing, got %v", err)
	}
}

func TestClient_FetchFanMatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-key" {
			t.Errorf("authorization header: got %q", got)
		}
		if got := r.URL.Query().Get("endpoint"); got != "fanmatch" {
			t.Errorf("endpoint param: got %q", got)
		}
		if got := r.URL.Query().Get("d"); got != "2026-01-05" {
			t.Errorf("date param: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fanMatchFixture))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		BaseURL:  server.URL,
		APIKey:   "secret-key",
		Cache:    cache.NewStore(),
		TodayTTL: time.Minute,
		PastTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	// compact input must be converted to the dashed form the API expects
	rows, err := client.FetchFanMatch(context.Background(), "20260105")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.GameID != 5001 || row.Visitor != "Kansas" || row.Home != "UConn" {
		t.Fatalf("row identity: %+v", row)
	}
	if row.Key != "kansas @ connecticut" {
		t.Fatalf("key: got %q", row.Key)
	}
	if row.HomeScore != 71.2 || row.VisitorScore != 68.4 || row.HomeWinProb != 0.61 {
		t.Fatalf("predictions: %+v", row)
	}
	if row.Thrill != 82.5 || row.PredictedTempo != 68.9 || row.HomeRank != 3 || row.VisitorRank != 8 {
		t.Fatalf("ratings: %+v", row)
	}
}

func TestClient_FetchFanMatch_NonListPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": "no games"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.FetchFanMatch(context.Background(), "2026-01-05")
	if !errors.Is(err, usecase.ErrUpstreamMalformed) {
		t.Fatalf("want ErrUpstreamMalformed, got %v", err)
	}
}

func TestClient_FetchFanMatch_RedactsKeyInErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid token secret-key"))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.FetchFanMatch(context.Background(), "2026-01-05")
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error text: %v", err)
	}

	var upstream *usecase.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("want UpstreamError, got %T", err)
	}
	if upstream.Source != "kenpom" || upstream.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
	if !strings.Contains(upstream.BodyPreview, "REDACTED") {
		t.Fatalf("body preview not sanitized: %q", upstream.BodyPreview)
	}
}
