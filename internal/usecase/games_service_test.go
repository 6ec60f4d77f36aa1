package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtvision/courtvision/internal/domain/rating"
	"github.com/courtvision/courtvision/internal/domain/schedule"
	"github.com/courtvision/courtvision/internal/domain/teamname"
)

var testNow = func() time.Time { return time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC) }

type fakeScheduleSource struct {
	games []schedule.Game
	err   error
	calls int
}

func (f *fakeScheduleSource) FetchScoreboard(_ context.Context, _ string) ([]schedule.Game, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.games, nil
}

type fakeRatingSource struct {
	rows      []rating.Row
	err       error
	failAfter int // fail on calls beyond this count; 0 means never
	calls     int
}

func (f *fakeRatingSource) FetchFanMatch(_ context.Context, _ string) ([]rating.Row, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failAfter > 0 && f.calls > f.failAfter {
		return nil, &UpstreamError{Source: "kenpom", StatusCode: 502, BodyPreview: "bad gateway", Kind: ErrUpstreamUnavailable}
	}
	return f.rows, nil
}

func scheduleGame(away, home string) schedule.Game {
	return schedule.Game{
		EventID: "ev-" + away + "-" + home,
		GameURL: "https://www.espn.com/mens-college-basketball/game?gameId=ev-" + away + "-" + home,
		Away:    away,
		Home:    home,
		Key:     teamname.MatchupKey(away, home),
	}
}

func ratingRow(visitor, home string, gameID int64) rating.Row {
	return rating.Row{
		GameID:      gameID,
		Visitor:     visitor,
		Home:        home,
		HomeScore:   75.5,
		HomeWinProb: 0.62,
		Thrill:      55.1,
		Key:         teamname.MatchupKey(visitor, home),
	}
}

func TestBuildGamesForDate_FutureDateSkipsRatings(t *testing.T) {
	schedules := &fakeScheduleSource{games: []schedule.Game{
		scheduleGame("Kansas", "UConn"),
		scheduleGame("Duke", "St Johns"),
	}}
	ratings := &fakeRatingSource{}
	svc := NewGamesService(schedules, ratings, nil, testNow)

	result, err := svc.BuildGamesForDate(context.Background(), "20260106", "2026-01-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != ModeFuture {
		t.Fatalf("mode: got %q, want %q", result.Mode, ModeFuture)
	}
	if result.Warning == "" {
		t.Fatal("future result must carry a warning")
	}
	if result.Count != 2 || len(result.Games) != 2 {
		t.Fatalf("count: got %d games=%d", result.Count, len(result.Games))
	}
	for _, g := range result.Games {
		if g.KPFound || g.KPHomePred != nil || g.KPGameID != nil {
			t.Fatalf("future game must have empty rating columns: %+v", g)
		}
	}
	if ratings.calls != 0 {
		t.Fatalf("ratings fetched %d times for a future date, want 0", ratings.calls)
	}
	if result.DateKP != "2026-01-06" {
		t.Fatalf("date_kp: got %q", result.DateKP)
	}
}

func TestBuildGamesForDate_StrictSuccess(t *testing.T) {
	schedules := &fakeScheduleSource{games: []schedule.Game{
		scheduleGame("Kansas", "UConn"),
		scheduleGame("Duke", "North Carolina"),
	}}
	ratings := &fakeRatingSource{rows: []rating.Row{
		ratingRow("Kansas", "UConn", 101),
		ratingRow("Duke", "North Carolina", 102),
	}}
	svc := NewGamesService(schedules, ratings, nil, testNow)

	result, err := svc.BuildGamesForDate(context.Background(), "20260105", "20260105")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != "" || result.Warning != "" || result.MissingCount != 0 {
		t.Fatalf("clean join must carry no diagnostics: %+v", result)
	}
	if result.Count != 2 {
		t.Fatalf("count: got %d", result.Count)
	}
	first := result.Games[0]
	if !first.KPFound || first.KPGameID == nil || *first.KPGameID != 101 {
		t.Fatalf("rating columns not joined: %+v", first)
	}
	if first.GameURL != "https://www.espn.com/mens-college-basketball/game?gameId=ev-Kansas-UConn" {
		t.Fatalf("game url not carried through: %q", first.GameURL)
	}
	if first.KPHomePred == nil || *first.KPHomePred != 75.5 {
		t.Fatalf("home pred: %+v", first.KPHomePred)
	}
	if schedules.calls != 1 || ratings.calls != 1 {
		t.Fatalf("clean join must fetch each source once: schedules=%d ratings=%d", schedules.calls, ratings.calls)
	}
	if result.DateKP != "2026-01-05" {
		t.Fatalf("date_kp conversion: got %q", result.DateKP)
	}
}

func TestBuildGamesForDate_PartialFallsBackToLenient(t *testing.T) {
	schedules := &fakeScheduleSource{games: []schedule.Game{
		scheduleGame("Kansas", "UConn"),
		scheduleGame("Nobody", "Obscure Tech"),
		scheduleGame("Duke", "North Carolina"),
	}}
	ratings := &fakeRatingSource{rows: []rating.Row{
		ratingRow("Kansas", "UConn", 101),
		ratingRow("Duke", "North Carolina", 102),
	}}
	svc := NewGamesService(schedules, ratings, nil, testNow)

	result, err := svc.BuildGamesForDate(context.Background(), "20260105", "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != ModePartial {
		t.Fatalf("mode: got %q, want %q", result.Mode, ModePartial)
	}
	if result.Warning != warningPartial {
		t.Fatalf("warning: got %q", result.Warning)
	}
	if result.Count != 3 || len(result.Games) != 3 {
		t.Fatalf("lenient result must keep every schedule row: %+v", result)
	}
	if result.MissingCount != 1 || len(result.MissingSample) != 1 {
		t.Fatalf("missing diagnostics: count=%d sample=%d", result.MissingCount, len(result.MissingSample))
	}
	if result.MissingSample[0].Key != teamname.MatchupKey("Nobody", "Obscure Tech") {
		t.Fatalf("missing sample: %+v", result.MissingSample[0])
	}

	// schedule order preserved, unmatched row in place with empty columns
	middle := result.Games[1]
	if middle.KPFound || middle.KPGameID != nil {
		t.Fatalf("unmatched row must pass through empty: %+v", middle)
	}
	if !result.Games[0].KPFound || !result.Games[2].KPFound {
		t.Fatalf("matched rows must keep their ratings: %+v", result.Games)
	}

	// strict pass plus lenient retry
	if schedules.calls != 2 || ratings.calls != 2 {
		t.Fatalf("expected two passes: schedules=%d ratings=%d", schedules.calls, ratings.calls)
	}
}

func TestBuildGamesForDate_FirstFetchFailureIsHard(t *testing.T) {
	t.Run("schedule fetch fails", func(t *testing.T) {
		schedules := &fakeScheduleSource{err: &UpstreamError{Source: "espn", StatusCode: 503, Kind: ErrUpstreamUnavailable}}
		svc := NewGamesService(schedules, &fakeRatingSource{}, nil, testNow)

		_, err := svc.BuildGamesForDate(context.Background(), "20260105", "2026-01-05")
		if !errors.Is(err, ErrUpstreamUnavailable) {
			t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
		}
	})

	t.Run("rating fetch fails", func(t *testing.T) {
		schedules := &fakeScheduleSource{games: []schedule.Game{scheduleGame("Kansas", "UConn")}}
		ratings := &fakeRatingSource{err: &UpstreamError{Source: "kenpom", Kind: ErrUpstreamMalformed}}
		svc := NewGamesService(schedules, ratings, nil, testNow)

		_, err := svc.BuildGamesForDate(context.Background(), "20260105", "2026-01-05")
		if !errors.Is(err, ErrUpstreamMalformed) {
			t.Fatalf("want ErrUpstreamMalformed, got %v", err)
		}
	})
}

func TestBuildGamesForDate_LenientRetryFailureIsSoft(t *testing.T) {
	schedules := &fakeScheduleSource{games: []schedule.Game{
		scheduleGame("Kansas", "UConn"),
		scheduleGame("Nobody", "Obscure Tech"),
	}}
	// first call succeeds with a partial set, retry fails
	ratings := &fakeRatingSource{
		rows:      []rating.Row{ratingRow("Kansas", "UConn", 101)},
		failAfter: 1,
	}
	svc := NewGamesService(schedules, ratings, nil, testNow)

	result, err := svc.BuildGamesForDate(context.Background(), "20260105", "2026-01-05")
	if err != nil {
		t.Fatalf("lenient retry failure must not surface as an error: %v", err)
	}

	if result.Count != 0 || len(result.Games) != 0 {
		t.Fatalf("soft failure must return an empty game list: %+v", result)
	}
	if result.Games == nil {
		t.Fatal("games must be an empty list, not null")
	}
	if result.Warning != warningLenientFailed {
		t.Fatalf("warning: got %q", result.Warning)
	}
	if result.Error == nil || result.Error.Source != "kenpom" || result.Error.StatusCode != 502 {
		t.Fatalf("error detail: %+v", result.Error)
	}
	if result.MissingCount != 1 || len(result.MissingSample) != 1 {
		t.Fatalf("missing diagnostics preserved from strict pass: %+v", result)
	}
}

func TestBuildGamesForDate_MissingSampleCapped(t *testing.T) {
	games := make([]schedule.Game, 0, 15)
	for i := 0; i < 15; i++ {
		games = append(games, scheduleGame("Away"+string(rune('a'+i)), "Home"))
	}
	schedules := &fakeScheduleSource{games: games}
	ratings := &fakeRatingSource{}
	svc := NewGamesService(schedules, ratings, nil, testNow)

	result, err := svc.BuildGamesForDate(context.Background(), "20260105", "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MissingCount != 15 {
		t.Fatalf("missing count: got %d", result.MissingCount)
	}
	if len(result.MissingSample) != 10 {
		t.Fatalf("missing sample must be capped at 10, got %d", len(result.MissingSample))
	}
}
