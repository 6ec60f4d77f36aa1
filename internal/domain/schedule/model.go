// Package schedule holds the scoreboard side of a game day: who plays whom,
// when, where to watch, and the live status if the game has started.
package schedule

// Conference is the grouping a team competes in, as reported by the
// scoreboard feed. Best effort; any field may be empty.
type Conference struct {
	ID    string
	Name  string
	Short string
}

// Game is one scheduled or in-progress matchup. Key is the canonical join
// key (away @ home) computed at parse time. Scores are nil until the feed
// reports numbers.
type Game struct {
	EventID      string
	GameURL      string
	Away         string
	Home         string
	AwayTeamID   string
	HomeTeamID   string
	AwayConf     Conference
	HomeConf     Conference
	StartUTC     string
	Network      string
	StatusState  string
	StatusDetail string
	Clock        string
	Period       int
	AwayScore    *int
	HomeScore    *int
	Key          string
}
