// Package espn fetches and parses the men's college basketball scoreboard.
package espn

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

	"github.com/courtvision/courtvision/internal/domain/schedule"
	"github.com/courtvision/courtvision/internal/platform/cache"
	"github.com/courtvision/courtvision/internal/platform/dates"
	"github.com/courtvision/courtvision/internal/platform/logging"
	"github.com/courtvision/courtvision/internal/platform/resilience"
	"github.com/courtvision/courtvision/internal/usecase"
)

const (
	defaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball"
	gameURLFormat  = "https://www.espn.com/mens-college-basketball/game?gameId=%s"

	// The scoreboard restricted to Division I (group 50) fits well under
	// this limit even on the busiest tournament days.
	scoreboardGroups = "50"
	scoreboardLimit  = "500"

	maxBodyBytes    = 6 << 20
	bodyPreviewSize = 800
)

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
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
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	cache          cache.PayloadCache
	todayTTL       time.Duration
	pastTTL        time.Duration
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
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
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          cfg.Cache,
		todayTTL:       cfg.TodayTTL,
		pastTTL:        cfg.PastTTL,
		now:            now,
	}
}

// FetchScoreboard returns the parsed scoreboard for a compact YYYYMMDD date.
// Rows come back in feed order with join keys already computed.
func (c *Client) FetchScoreboard(ctx context.Context, dateCompact string) ([]schedule.Game, error) {
	values := url.Values{}
	values.Set("dates", dateCompact)
	values.Set("groups", scoreboardGroups)
	values.Set("limit", scoreboardLimit)
	fullURL := c.baseURL + "/scoreboard?" + values.Encode()

	raw, err := c.fetchPayload(ctx, fullURL, dates.TTLFor(dateCompact, c.now(), c.todayTTL, c.pastTTL))
	if err != nil {
		return nil, err
	}

	var envelope scoreboardEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, &usecase.UpstreamError{
			Source:       "espn",
			RequestedURL: fullURL,
			BodyPreview:  abbreviateBody(raw),
			Kind:         fmt.Errorf("%w: decode scoreboard: %v", usecase.ErrUpstreamMalformed, err),
		}
	}

	return ParseScoreboard(envelope), nil
}

// GameURL links an event to its public game page. Empty in, empty out.
func GameURL(eventID string) string {
	if strings.TrimSpace(eventID) == "" {
		return ""
	}
	return fmt.Sprintf(gameURLFormat, eventID)
}

func (c *Client) fetchPayload(ctx context.Context, fullURL string, ttl time.Duration) ([]byte, error) {
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if c.cache != nil {
			payload, fromCache, loadErr := c.cache.GetOrLoad(ctx, fullURL, ttl, func(ctx context.Context) ([]byte, error) {
				return c.executeRequest(ctx, fullURL)
			})
			if loadErr == nil && fromCache {
				c.logger.DebugContext(ctx, "espn scoreboard served from cache", "url", fullURL)
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
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return nil, &usecase.UpstreamError{
				Source:       "espn",
				RequestedURL: fullURL,
				Kind:         fmt.Errorf("%w: scoreboard provider is temporarily unavailable", usecase.ErrUpstreamUnavailable),
			}
		}
	}

	raw, err := c.doRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errESPNTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", err)
	}
	return raw, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(&usecase.UpstreamError{
			Source:       "espn",
			RequestedURL: fullURL,
			Kind:         fmt.Errorf("%w: send request: %v", usecase.ErrUpstreamUnavailable, err),
		}, errESPNTransient)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, crerr.Mark(&usecase.UpstreamError{
			Source:       "espn",
			RequestedURL: fullURL,
			Kind:         fmt.Errorf("%w: read response body: %v", usecase.ErrUpstreamUnavailable, err),
		}, errESPNTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := &usecase.UpstreamError{
			Source:       "espn",
			RequestedURL: fullURL,
			StatusCode:   resp.StatusCode,
			BodyPreview:  abbreviateBody(raw),
			Kind:         usecase.ErrUpstreamUnavailable,
		}
		if isTransientStatus(resp.StatusCode) {
			return nil, crerr.Mark(upstreamErr, errESPNTransient)
		}
		return nil, upstreamErr
	}

	return raw, nil
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
