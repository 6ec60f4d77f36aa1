// Package rating holds the predictive side of a game day: projected scores,
// win probability, tempo and excitement ratings for each matchup.
package rating

// Row is one predictive rating line. Visitor and Home keep the provider's
// raw spelling; Key is the canonical join key computed on receipt.
type Row struct {
	GameID         int64
	Visitor        string
	Home           string
	VisitorScore   float64
	HomeScore      float64
	HomeWinProb    float64
	Thrill         float64
	PredictedTempo float64
	VisitorRank    int
	HomeRank       int
	Key            string
}

// IndexByKey maps rows by their join key. On a duplicate key (a
// double-header at the same venue) the later row wins; the feed lists at
// most a handful of those per season and callers accept the collision.
func IndexByKey(rows []Row) map[string]Row {
	idx := make(map[string]Row, len(rows))
	for _, r := range rows {
		if r.Key == "" || r.Key == " @ " {
			continue
		}
		idx[r.Key] = r
	}
	return idx
}
