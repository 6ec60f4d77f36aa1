package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtvision/courtvision/internal/domain/rating"
	"github.com/courtvision/courtvision/internal/domain/schedule"
	"github.com/courtvision/courtvision/internal/platform/dates"
	"github.com/courtvision/courtvision/internal/platform/logging"
)

const (
	missingSampleLimit = 10

	// BuildResult.Mode values. Absent on a clean full join.
	ModeFuture  = "future"
	ModePartial = "partial"

	warningFuture        = "Future date: ratings are not available until game day."
	warningPartial       = "Some scheduled games did not match a rating row for this date."
	warningLenientFailed = "Lenient merge failed; see error for details."
)

// ScheduleSource provides the scoreboard side of a game day.
type ScheduleSource interface {
	FetchScoreboard(ctx context.Context, dateCompact string) ([]schedule.Game, error)
}

// RatingSource provides the predictive side of a game day.
type RatingSource interface {
	FetchFanMatch(ctx context.Context, date string) ([]rating.Row, error)
}

// MergedGame is one schedule row with its rating columns joined in. The
// schedule half is always populated; the kp_* half is nil unless KPFound.
type MergedGame struct {
	Key          string `json:"key"`
	EventID      string `json:"event_id"`
	GameURL      string `json:"game_url,omitempty"`
	Away         string `json:"away"`
	Home         string `json:"home"`
	StartUTC     string `json:"start_utc"`
	Network      string `json:"network"`
	StatusState  string `json:"status_state"`
	StatusDetail string `json:"status_detail"`
	Clock        string `json:"clock"`
	Period       int    `json:"period"`
	AwayScore    *int   `json:"away_score"`
	HomeScore    *int   `json:"home_score"`

	KPFound     bool     `json:"kp_found"`
	KPGameID    *int64   `json:"kp_game_id"`
	KPHomePred  *float64 `json:"kp_home_pred"`
	KPAwayPred  *float64 `json:"kp_away_pred"`
	KPHomeWP    *float64 `json:"kp_home_wp"`
	KPThrill    *float64 `json:"kp_thrill"`
	KPPredTempo *float64 `json:"kp_pred_tempo"`
	KPHomeRank  *int     `json:"kp_home_rank"`
	KPAwayRank  *int     `json:"kp_away_rank"`
}

// ErrorDetail is the soft-failure payload attached to a BuildResult when the
// lenient retry itself fails.
type ErrorDetail struct {
	Source      string `json:"source,omitempty"`
	Message     string `json:"message"`
	StatusCode  int    `json:"status_code,omitempty"`
	BodyPreview string `json:"body_preview,omitempty"`
}

// BuildResult is the merged game list for one date plus join diagnostics.
type BuildResult struct {
	DateESPN      string       `json:"date_espn"`
	DateKP        string       `json:"date_kp"`
	Count         int          `json:"count"`
	Games         []MergedGame `json:"games"`
	Mode          string       `json:"mode,omitempty"`
	Warning       string       `json:"warning,omitempty"`
	MissingCount  int          `json:"missing_count,omitempty"`
	MissingSample []MergedGame `json:"missing_sample,omitempty"`
	Error         *ErrorDetail `json:"error,omitempty"`
}

// GamesService joins the schedule feed with the ratings feed for a date.
type GamesService struct {
	schedules ScheduleSource
	ratings   RatingSource
	logger    *logging.Logger
	now       func() time.Time
}

func NewGamesService(schedules ScheduleSource, ratings RatingSource, logger *logging.Logger, now func() time.Time) *GamesService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &GamesService{
		schedules: schedules,
		ratings:   ratings,
		logger:    logger,
		now:       now,
	}
}

// BuildGamesForDate assembles the dashboard payload for one date.
//
// Future dates skip the ratings fetch entirely: those rows are not published
// until game day, so asking would only produce a spurious failure. Otherwise
// a strict join runs first; if every schedule row matched, that is the
// result. Any unmatched row demotes the day to a lenient retry where
// unmatched rows pass through with empty rating columns and the response
// carries warning diagnostics. A fetch failure during the first attempt is
// the caller's error; a failure during the lenient retry degrades to an
// empty, annotated result instead, since at that point the day is already
// known to be partial.
func (s *GamesService) BuildGamesForDate(ctx context.Context, dateESPN, dateKP string) (BuildResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GamesService.BuildGamesForDate")
	defer span.End()

	if dates.IsFutureEastern(dateESPN, s.now()) {
		return s.buildFuture(ctx, dateESPN)
	}

	result, missing, err := s.merge(ctx, dateESPN, dateKP, true)
	if err != nil {
		return BuildResult{}, err
	}
	if len(missing) == 0 {
		return result, nil
	}

	missingCount := len(missing)
	missingSample := sampleGames(missing)
	s.logger.WarnContext(ctx, "strict merge incomplete, retrying leniently",
		"date_espn", dateESPN,
		"date_kp", dateKP,
		"missing_count", missingCount,
	)

	lenient, _, err := s.merge(ctx, dateESPN, dateKP, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "lenient merge failed",
			"date_espn", dateESPN,
			"date_kp", dateKP,
			"error", err,
		)
		return BuildResult{
			DateESPN:      dateESPN,
			DateKP:        dates.ToDashed(dateKP),
			Count:         0,
			Games:         []MergedGame{},
			Warning:       warningLenientFailed,
			Error:         newErrorDetail(err),
			MissingCount:  missingCount,
			MissingSample: missingSample,
		}, nil
	}

	lenient.Mode = ModePartial
	lenient.Warning = warningPartial
	lenient.MissingCount = missingCount
	lenient.MissingSample = missingSample
	return lenient, nil
}

func (s *GamesService) buildFuture(ctx context.Context, dateESPN string) (BuildResult, error) {
	games, err := s.schedules.FetchScoreboard(ctx, dateESPN)
	if err != nil {
		return BuildResult{}, fmt.Errorf("fetch scoreboard date=%s: %w", dateESPN, err)
	}

	merged := make([]MergedGame, 0, len(games))
	for _, g := range games {
		merged = append(merged, scheduleOnlyGame(g))
	}

	return BuildResult{
		DateESPN: dateESPN,
		DateKP:   dates.ToDashed(dateESPN),
		Count:    len(merged),
		Games:    merged,
		Mode:     ModeFuture,
		Warning:  warningFuture,
	}, nil
}

// merge runs one fetch+join pass. In strict mode unmatched schedule rows are
// collected and excluded from the result; in lenient mode they pass through
// with empty rating columns. Schedule order is preserved and no row is ever
// dropped beyond the strict-mode exclusion.
func (s *GamesService) merge(ctx context.Context, dateESPN, dateKP string, strict bool) (BuildResult, []schedule.Game, error) {
	games, err := s.schedules.FetchScoreboard(ctx, dateESPN)
	if err != nil {
		return BuildResult{}, nil, fmt.Errorf("fetch scoreboard date=%s: %w", dateESPN, err)
	}
	rows, err := s.ratings.FetchFanMatch(ctx, dateKP)
	if err != nil {
		return BuildResult{}, nil, fmt.Errorf("fetch fanmatch date=%s: %w", dateKP, err)
	}

	byKey := rating.IndexByKey(rows)

	merged := make([]MergedGame, 0, len(games))
	var missing []schedule.Game
	for _, g := range games {
		row, ok := byKey[g.Key]
		if !ok {
			if strict {
				missing = append(missing, g)
				continue
			}
			merged = append(merged, scheduleOnlyGame(g))
			continue
		}
		merged = append(merged, mergedGame(g, row))
	}

	return BuildResult{
		DateESPN: dateESPN,
		DateKP:   dates.ToDashed(dateKP),
		Count:    len(merged),
		Games:    merged,
	}, missing, nil
}

func mergedGame(g schedule.Game, row rating.Row) MergedGame {
	out := scheduleOnlyGame(g)
	out.KPFound = true
	out.KPGameID = &row.GameID
	out.KPHomePred = &row.HomeScore
	out.KPAwayPred = &row.VisitorScore
	out.KPHomeWP = &row.HomeWinProb
	out.KPThrill = &row.Thrill
	out.KPPredTempo = &row.PredictedTempo
	out.KPHomeRank = &row.HomeRank
	out.KPAwayRank = &row.VisitorRank
	return out
}

func scheduleOnlyGame(g schedule.Game) MergedGame {
	return MergedGame{
		Key:          g.Key,
		EventID:      g.EventID,
		GameURL:      g.GameURL,
		Away:         g.Away,
		Home:         g.Home,
		StartUTC:     g.StartUTC,
		Network:      g.Network,
		StatusState:  g.StatusState,
		StatusDetail: g.StatusDetail,
		Clock:        g.Clock,
		Period:       g.Period,
		AwayScore:    g.AwayScore,
		HomeScore:    g.HomeScore,
	}
}

func sampleGames(missing []schedule.Game) []MergedGame {
	limit := len(missing)
	if limit > missingSampleLimit {
		limit = missingSampleLimit
	}
	out := make([]MergedGame, 0, limit)
	for _, g := range missing[:limit] {
		out = append(out, scheduleOnlyGame(g))
	}
	return out
}

func newErrorDetail(err error) *ErrorDetail {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return &ErrorDetail{
			Source:      upstream.Source,
			Message:     upstream.Error(),
			StatusCode:  upstream.StatusCode,
			BodyPreview: upstream.BodyPreview,
		}
	}
	return &ErrorDetail{Message: err.Error()}
}
