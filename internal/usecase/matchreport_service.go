package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/courtvision/courtvision/internal/domain/rating"
	"github.com/courtvision/courtvision/internal/domain/schedule"
	"github.com/courtvision/courtvision/internal/platform/dates"
	"github.com/courtvision/courtvision/internal/platform/logging"
)

const matchSampleLimit = 10

// MatchSampleRow identifies one unmatched matchup for eyeballing alias
// table gaps.
type MatchSampleRow struct {
	Key  string `json:"key"`
	Away string `json:"away"`
	Home string `json:"home"`
}

// MatchReport summarizes how well the two feeds line up for a date without
// building the full merged payload.
type MatchReport struct {
	DateESPN         string           `json:"date_espn"`
	DateKP           string           `json:"date_kp"`
	ScheduleCount    int              `json:"espn"`
	RatingCount      int              `json:"kenpom"`
	MatchedCount     int              `json:"matched"`
	ScheduleOnly     int              `json:"espn_only"`
	RatingOnly       int              `json:"kenpom_only"`
	ScheduleOnlyRows []MatchSampleRow `json:"espn_only_sample"`
	RatingOnlyRows   []MatchSampleRow `json:"kenpom_only_sample"`
}

// MatchReportService answers "why didn't this date join cleanly". Both
// feeds are fetched concurrently since neither depends on the other.
type MatchReportService struct {
	schedules ScheduleSource
	ratings   RatingSource
	logger    *logging.Logger
}

func NewMatchReportService(schedules ScheduleSource, ratings RatingSource, logger *logging.Logger) *MatchReportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchReportService{
		schedules: schedules,
		ratings:   ratings,
		logger:    logger,
	}
}

func (s *MatchReportService) Report(ctx context.Context, dateESPN, dateKP string) (MatchReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchReportService.Report")
	defer span.End()

	var (
		games    []schedule.Game
		gamesErr error
		rows     []rating.Row
		rowsErr  error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		games, gamesErr = s.schedules.FetchScoreboard(ctx, dateESPN)
	})
	wg.Go(func() {
		rows, rowsErr = s.ratings.FetchFanMatch(ctx, dateKP)
	})
	wg.Wait()

	if gamesErr != nil {
		return MatchReport{}, fmt.Errorf("fetch scoreboard date=%s: %w", dateESPN, gamesErr)
	}
	if rowsErr != nil {
		return MatchReport{}, fmt.Errorf("fetch fanmatch date=%s: %w", dateKP, rowsErr)
	}

	ratingByKey := rating.IndexByKey(rows)

	report := MatchReport{
		DateESPN:      dateESPN,
		DateKP:        dates.ToDashed(dateKP),
		ScheduleCount: len(games),
		RatingCount:   len(rows),
	}

	matchedKeys := make(map[string]struct{}, len(games))
	for _, g := range games {
		if _, ok := ratingByKey[g.Key]; ok {
			report.MatchedCount++
			matchedKeys[g.Key] = struct{}{}
			continue
		}
		report.ScheduleOnly++
		if len(report.ScheduleOnlyRows) < matchSampleLimit {
			report.ScheduleOnlyRows = append(report.ScheduleOnlyRows, MatchSampleRow{
				Key:  g.Key,
				Away: g.Away,
				Home: g.Home,
			})
		}
	}

	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if _, ok := ratingByKey[r.Key]; !ok {
			// Unusable join key, never indexed. Each such row is its own
			// gap, so no dedupe.
			report.RatingOnly++
			if len(report.RatingOnlyRows) < matchSampleLimit {
				report.RatingOnlyRows = append(report.RatingOnlyRows, MatchSampleRow{
					Key:  r.Key,
					Away: r.Visitor,
					Home: r.Home,
				})
			}
			continue
		}
		if _, dup := seen[r.Key]; dup {
			continue
		}
		seen[r.Key] = struct{}{}
		if _, ok := matchedKeys[r.Key]; ok {
			continue
		}
		report.RatingOnly++
		if len(report.RatingOnlyRows) < matchSampleLimit {
			report.RatingOnlyRows = append(report.RatingOnlyRows, MatchSampleRow{
				Key:  r.Key,
				Away: r.Visitor,
				Home: r.Home,
			})
		}
	}

	return report, nil
}
