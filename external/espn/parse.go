package espn

import (
	"strconv"
	"strings"

	"github.com/courtvision/courtvision/internal/domain/schedule"
	"github.com/courtvision/courtvision/internal/domain/teamname"
)

// ParseScoreboard flattens the scoreboard envelope into schedule rows. Every
// field is best effort: events without a competition are skipped, everything
// else degrades to empty values rather than failing the whole day.
func ParseScoreboard(envelope scoreboardEnvelope) []schedule.Game {
	games := make([]schedule.Game, 0, len(envelope.Events))

	for _, ev := range envelope.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]

		g := schedule.Game{
			EventID:      ev.ID,
			GameURL:      GameURL(ev.ID),
			Network:      extractNetwork(comp),
			StatusState:  comp.Status.Type.State,
			StatusDetail: comp.Status.Type.ShortDetail,
			Clock:        comp.Status.DisplayClock,
			Period:       comp.Status.Period,
		}

		g.StartUTC = firstNonEmpty(comp.StartDate, comp.Date, ev.Date)

		for _, c := range comp.Competitors {
			name := firstNonEmpty(c.Team.ShortDisplayName, c.Team.DisplayName, c.Team.Name)
			conf := extractConference(c.Team)
			score := parseScore(c.Score)

			switch c.HomeAway {
			case "home":
				g.Home = name
				g.HomeTeamID = c.Team.ID
				g.HomeConf = conf
				g.HomeScore = score
			case "away":
				g.Away = name
				g.AwayTeamID = c.Team.ID
				g.AwayConf = conf
				g.AwayScore = score
			}
		}

		g.Key = teamname.MatchupKey(g.Away, g.Home)
		games = append(games, g)
	}

	return games
}

func extractConference(team teamInfo) schedule.Conference {
	id := team.ConferenceID
	if id == "" {
		id = firstNonEmpty(team.Conference.ID, team.Conference.GroupID)
	}
	return schedule.Conference{
		ID:    id,
		Name:  firstNonEmpty(team.Conference.Name, team.Conference.DisplayName, team.Conference.ShortDisplayName),
		Short: firstNonEmpty(team.Conference.ShortName, team.Conference.Abbreviation),
	}
}

func extractNetwork(comp competition) string {
	if len(comp.Broadcasts) > 0 && len(comp.Broadcasts[0].Names) > 0 && comp.Broadcasts[0].Names[0] != "" {
		return comp.Broadcasts[0].Names[0]
	}
	if comp.Broadcast != "" {
		return comp.Broadcast
	}
	if len(comp.GeoBroadcasts) > 0 {
		return comp.GeoBroadcasts[0].Media.ShortName
	}
	return ""
}

func parseScore(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
