package kenpom

// fanMatchRow mirrors one FanMatch entry. The endpoint returns a bare JSON
// array of these.
type fanMatchRow struct {
	GameID      int64   `json:"GameID"`
	Visitor     string  `json:"Visitor"`
	Home        string  `json:"Home"`
	VisitorPred float64 `json:"VisitorPred"`
	HomePred    float64 `json:"HomePred"`
	HomeWP      float64 `json:"HomeWP"`
	ThrillScore float64 `json:"ThrillScore"`
	PredTempo   float64 `json:"PredTempo"`
	VisitorRank int     `json:"VisitorRank"`
	HomeRank    int     `json:"HomeRank"`
}
