// Package kenpom fetches FanMatch predictive ratings. Access requires an
// API key sent as a bearer token; the key must never leak into logs or
// error text.
package kenpom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/courtvision/courtvision/internal/domain/rating"
	"github.com/courtvision/courtvision/internal/domain/teamname"
	"github.com/courtvision/courtvision/internal/platform/cache"
	"github.com/courtvision/courtvision/internal/platform/dates"
	"github.com/courtvision/courtvision/internal/platform/logging"
	"github.com/courtvision/courtvision/internal/platform/resilience"
	"github.com/courtvision/courtvision/internal/usecase"
)

const (
	defaultBaseURL  = "https://kenpom.com"
	maxBodyBytes    = 6 << 20
	bodyPreviewSize = 800
)

var errKenPomTransient = crerr.New("kenpom transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Cache          cache.PayloadCache
	TodayTTL       time.Duration
	PastTTL        time.Duration
	Now            func() time.Time
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	cache          cache.PayloadCache
	todayTTL       time.Duration
	pastTTL        time.Duration
	now            func() time.Time
}

// NewClient builds the FanMatch client. The API key is checked up front so a
// misconfigured deployment fails at startup, not on the first request.
func NewClient(cfg ClientConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: KENPOM_API_KEY", usecase.ErrConfigurationMissing)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          cfg.Cache,
		todayTTL:       cfg.TodayTTL,
		pastTTL:        cfg.PastTTL,
		now:            now,
	}, nil
}

// FetchFanMatch returns the rating rows for a date. Accepts YYYYMMDD or
// YYYY-MM-DD; the endpoint itself wants the dashed form. Rows come back
// with join keys already computed.
func (c *Client) FetchFanMatch(ctx context.Context, date string) ([]rating.Row, error) {
	dashed := dates.ToDashed(date)

	values := url.Values{}
	values.Set("endpoint", "fanmatch")
	values.Set("d", dashed)
	fullURL := c.baseURL + "/api.php?" + values.Encode()

	raw, err := c.fetchPayload(ctx, fullURL, dates.TTLFor(dashed, c.now(), c.todayTTL, c.pastTTL))
	if err != nil {
		return nil, err
	}

	var rows []fanMatchRow
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, &usecase.UpstreamError{
			Source:       "kenpom",
			RequestedURL: fullURL,
			BodyPreview:  abbreviateBody(raw),
			Kind:         fmt.Errorf("%w: expected a JSON list of fanmatch rows: %v", usecase.ErrUpstreamMalformed, err),
		}
	}

	out := make([]rating.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, rating.Row{
			GameID:         r.GameID,
			Visitor:        r.Visitor,
			Home:           r.Home,
			VisitorScore:   r.VisitorPred,
			HomeScore:      r.HomePred,
			HomeWinProb:    r.HomeWP,
			Thrill:         r.ThrillScore,
			PredictedTempo: r.PredTempo,
			VisitorRank:    r.VisitorRank,
			HomeRank:       r.HomeRank,
			Key:            teamname.MatchupKey(r.Visitor, r.Home),
		})
	}
	return out, nil
}

func (c *Client) fetchPayload(ctx context.Context, fullURL string, ttl time.Duration) ([]byte, error) {
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if c.cache != nil {
			payload, fromCache, loadErr := c.cache.GetOrLoad(ctx, fullURL, ttl, func(ctx context.Context) ([]byte, error) {
				return c.executeRequest(ctx, fullURL)
			})
			if loadErr == nil && fromCache {
				c.logger.DebugContext(ctx, "fanmatch served from cache", "url", fullURL)
			}
			return payload, loadErr
		}
		return c.executeRequest(ctx, fullURL)
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "kenpom circuit breaker rejected request", "state", c.breaker.State())
			return nil, &usecase.UpstreamError{
				Source:       "kenpom",
				RequestedURL: fullURL,
				Kind:         fmt.Errorf("%w: ratings provider is temporarily unavailable", usecase.ErrUpstreamUnavailable),
			}
		}
	}

	raw, err := c.doRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errKenPomTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "kenpom request failed", "url", fullURL, "error", err)
	}
	return raw, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(&usecase.UpstreamError{
			Source:       "kenpom",
			RequestedURL: fullURL,
			Kind:         fmt.Errorf("%w: send request: %s", usecase.ErrUpstreamUnavailable, c.sanitize(err.Error())),
		}, errKenPomTransient)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, crerr.Mark(&usecase.UpstreamError{
			Source:       "kenpom",
			RequestedURL: fullURL,
			Kind:         fmt.Errorf("%w: read response body: %v", usecase.ErrUpstreamUnavailable, err),
		}, errKenPomTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := &usecase.UpstreamError{
			Source:       "kenpom",
			RequestedURL: fullURL,
			StatusCode:   resp.StatusCode,
			BodyPreview:  c.sanitize(abbreviateBody(raw)),
			Kind:         usecase.ErrUpstreamUnavailable,
		}
		if isTransientStatus(resp.StatusCode) {
			return nil, crerr.Mark(upstreamErr, errKenPomTransient)
		}
		return nil, upstreamErr
	}

	return raw, nil
}

func (c *Client) sanitize(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

func isTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > bodyPreviewSize {
		return s[:bodyPreviewSize]
	}
	return s
}
