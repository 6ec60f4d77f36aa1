package espn

// Scoreboard payload shapes. Only the fields the parser reads are declared;
// the feed carries far more and all of it is optional in practice.

type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	StartDate     string         `json:"startDate"`
	Date          string         `json:"date"`
	Competitors   []competitor   `json:"competitors"`
	Broadcasts    []broadcast    `json:"broadcasts"`
	Broadcast     string         `json:"broadcast"`
	GeoBroadcasts []geoBroadcast `json:"geoBroadcasts"`
	Status        gameStatus     `json:"status"`
}

type competitor struct {
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     teamInfo `json:"team"`
}

type teamInfo struct {
	ID               string         `json:"id"`
	ShortDisplayName string         `json:"shortDisplayName"`
	DisplayName      string         `json:"displayName"`
	Name             string         `json:"name"`
	ConferenceID     string         `json:"conferenceId"`
	Conference       conferenceInfo `json:"conference"`
}

type conferenceInfo struct {
	ID               string `json:"id"`
	GroupID          string `json:"groupId"`
	Name             string `json:"name"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
	ShortName        string `json:"shortName"`
	Abbreviation     string `json:"abbreviation"`
}

type broadcast struct {
	Names []string `json:"names"`
}

type geoBroadcast struct {
	Media broadcastMedia `json:"media"`
}

type broadcastMedia struct {
	ShortName string `json:"shortName"`
}

type gameStatus struct {
	DisplayClock string     `json:"displayClock"`
	Period       int        `json:"period"`
	Type         statusType `json:"type"`
}

type statusType struct {
	State       string `json:"state"`
	ShortDetail string `json:"shortDetail"`
}
