package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/courtvision/courtvision/internal/platform/dates"
	"github.com/courtvision/courtvision/internal/platform/logging"
	"github.com/courtvision/courtvision/internal/usecase"
)

// GamesBuilder produces the merged game-day payload.
type GamesBuilder interface {
	BuildGamesForDate(ctx context.Context, dateESPN, dateKP string) (usecase.BuildResult, error)
}

// WarmRunner pre-builds game days on demand.
type WarmRunner interface {
	Warm(ctx context.Context, input usecase.WarmInput) (usecase.WarmResult, error)
}

// MatchReporter summarizes feed alignment for a date.
type MatchReporter interface {
	Report(ctx context.Context, dateESPN, dateKP string) (usecase.MatchReport, error)
}

type Handler struct {
	games     GamesBuilder
	warm      WarmRunner
	matches   MatchReporter
	schedules usecase.ScheduleSource
	ratings   usecase.RatingSource
	debugEnv  map[string]string
	logger    *logging.Logger
	validator *validator.Validate
	now       func() time.Time
}

func NewHandler(
	games GamesBuilder,
	warm WarmRunner,
	matches MatchReporter,
	schedules usecase.ScheduleSource,
	ratings usecase.RatingSource,
	debugEnv map[string]string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		games:     games,
		warm:      warm,
		matches:   matches,
		schedules: schedules,
		ratings:   ratings,
		debugEnv:  debugEnv,
		logger:    logger,
		validator: validator.New(),
		now:       time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type gamesParams struct {
	DateESPN string `validate:"required,len=8,numeric"`
	DateKP   string `validate:"required,datetime=2006-01-02"`
}

// Games serves the merged dashboard payload. The body is the build result
// itself rather than the usual envelope: the dashboard consumes it directly
// and its diagnostics fields (mode, warning, error) are part of the payload.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Games")
	defer span.End()

	params, err := h.resolveGamesParams(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.games.BuildGamesForDate(ctx, params.DateESPN, params.DateKP)
	if err != nil {
		h.logger.ErrorContext(ctx, "build games failed",
			"date_espn", params.DateESPN,
			"date_kp", params.DateKP,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) resolveGamesParams(ctx context.Context, r *http.Request) (gamesParams, error) {
	query := r.URL.Query()
	params := gamesParams{
		DateESPN: strings.TrimSpace(query.Get("date_espn")),
		DateKP:   strings.TrimSpace(query.Get("date_kp")),
	}
	if params.DateESPN == "" {
		params.DateESPN = dates.TodayEastern(h.now())
	}
	if params.DateKP == "" {
		params.DateKP = dates.ToDashed(params.DateESPN)
	}

	if err := h.validator.StructCtx(ctx, params); err != nil {
		return gamesParams{}, fmt.Errorf("%w: date_espn must be YYYYMMDD and date_kp must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}

	return params, nil
}
