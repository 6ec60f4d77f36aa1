package espn

import (
	"testing"

	sonic "github.com/bytedance/sonic"
)

const scoreboardFixture = `{
  "events": [
    {
      "id": "401700001",
      "date": "2026-01-05T00:00Z",
      "competitions": [
        {
          "startDate": "2026-01-05T00:00Z",
          "competitors": [
            {
              "homeAway": "home",
              "score": "71",
              "team": {
                "id": "41",
                "shortDisplayName": "UConn",
                "displayName": "UConn Huskies",
                "conferenceId": "7",
                "conference": {"name": "Big East", "shortName": "BE"}
              }
            },
            {
              "homeAway": "away",
              "score": "68",
              "team": {
                "id": "2305",
                "displayName": "Kansas Jayhawks",
                "name": "Jayhawks"
              }
            }
          ],
          "broadcasts": [{"names": ["FS1"]}],
          "status": {
            "displayClock": "2:41",
            "period": 2,
            "type": {"state": "in", "shortDetail": "2nd Half - 2:41"}
          }
        }
      ]
    },
    {
      "id": "401700002",
      "date": "2026-01-05T01:00Z",
      "competitions": [
        {
          "competitors": [
            {"homeAway": "home", "team": {"shortDisplayName": "Duke"}},
            {"homeAway": "away", "score": "", "team": {"shortDisplayName": "St. John's"}}
          ],
          "broadcast": "ESPN2",
          "status": {"type": {"state": "pre", "shortDetail": "1/5 - 8:00 PM EST"}}
        }
      ]
    },
    {"id": "401700003", "competitions": []}
  ]
}`

func TestParseScoreboard(t *testing.T) {
	t.Parallel()

	var envelope scoreboardEnvelope
	if err := sonic.Unmarshal([]byte(scoreboardFixture), &envelope); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	games := ParseScoreboard(envelope)
	if len(games) != 2 {
		t.Fatalf("expected 2 games (event without competitions skipped), got %d", len(games))
	}

	g := games[0]
	if g.EventID != "401700001" {
		t.Fatalf("event id: got %q", g.EventID)
	}
	if g.GameURL != "https://www.espn.com/mens-college-basketball/game?gameId=401700001" {
		t.Fatalf("game url: got %q", g.GameURL)
	}
	if g.Home != "UConn" || g.Away != "Kansas Jayhawks" {
		t.Fatalf("name fallback: home=%q away=%q", g.Home, g.Away)
	}
	if g.Key != "connecticut @ kansas jayhawks" {
		// away @ home order
		t.Fatalf("key: got %q", g.Key)
	}
	if g.HomeConf.ID != "7" || g.HomeConf.Name != "Big East" || g.HomeConf.Short != "BE" {
		t.Fatalf("home conference: %+v", g.HomeConf)
	}
	if g.AwayConf.ID != "" || g.AwayConf.Name != "" {
		t.Fatalf("missing conference should stay empty: %+v", g.AwayConf)
	}
	if g.Network != "FS1" {
		t.Fatalf("network: got %q", g.Network)
	}
	if g.HomeScore == nil || *g.HomeScore != 71 || g.AwayScore == nil || *g.AwayScore != 68 {
		t.Fatalf("scores: home=%v away=%v", g.HomeScore, g.AwayScore)
	}
	if g.StatusState != "in" || g.StatusDetail != "2nd Half - 2:41" || g.Clock != "2:41" || g.Period != 2 {
		t.Fatalf("status: %+v", g)
	}
	if g.StartUTC != "2026-01-05T00:00Z" {
		t.Fatalf("start: got %q", g.StartUTC)
	}

	g2 := games[1]
	if g2.HomeScore != nil || g2.AwayScore != nil {
		t.Fatalf("missing scores should be nil: home=%v away=%v", g2.HomeScore, g2.AwayScore)
	}
	if g2.Network != "ESPN2" {
		t.Fatalf("broadcast fallback: got %q", g2.Network)
	}
	if g2.StartUTC != "2026-01-05T01:00Z" {
		t.Fatalf("event date fallback: got %q", g2.StartUTC)
	}
	if g2.Key != "st johns @ duke" {
		t.Fatalf("key: got %q", g2.Key)
	}
}

func TestParseScoreboard_GeoBroadcastFallback(t *testing.T) {
	t.Parallel()

	envelope := scoreboardEnvelope{Events: []scoreboardEvent{{
		ID: "1",
		Competitions: []competition{{
			Competitors:   []competitor{{HomeAway: "home", Team: teamInfo{Name: "Home"}}},
			GeoBroadcasts: []geoBroadcast{{Media: broadcastMedia{ShortName: "ESPN+"}}},
		}},
	}}}

	games := ParseScoreboard(envelope)
	if len(games) != 1 || games[0].Network != "ESPN+" {
		t.Fatalf("geo broadcast fallback: %+v", games)
	}
}

func TestGameURL(t *testing.T) {
	t.Parallel()

	if got := GameURL("401700001"); got != "https://www.espn.com/mens-college-basketball/game?gameId=401700001" {
		t.Fatalf("got %q", got)
	}
	if got := GameURL(""); got != "" {
		t.Fatalf("empty event id: got %q", got)
	}
}
