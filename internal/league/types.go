package league

import (
	"encoding/json"

	"nba-season-engine/internal/domain"
)

type scheduleResponse struct {
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GameID     string `json:"game_id"`
	Date       string `json:"date"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeScore  *int   `json:"home_score"`
	AwayScore  *int   `json:"away_score"`
}

type advanceLeagueRequest struct {
	TargetDate string `json:"target_date"`
	UserTeamID string `json:"user_team_id"`
}

type advanceLeagueResponse struct {
	SimulatedGames []decidedGameDoc `json:"simulated_games"`
}

type decidedGameDoc struct {
	GameID     string `json:"game_id"`
	Date       string `json:"date"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeScore  int    `json:"home_score"`
	AwayScore  int    `json:"away_score"`
}

type simulateGameRequest struct {
	HomeTeamID  string                `json:"home_team_id"`
	AwayTeamID  string                `json:"away_team_id"`
	HomeTactics domain.TacticsPayload `json:"home_tactics"`
	AwayTactics domain.TacticsPayload `json:"away_tactics"`
	GameDate    string                `json:"game_date"`
}

type simulateGameResponse struct {
	FinalScore map[string]int `json:"final_score"`
	Commentary string         `json:"commentary,omitempty"`
}

// SimulationResult is the decoded outcome of one simulated game.
type SimulationResult struct {
	FinalScore map[string]int
	Commentary string
}

type seasonReportRequest struct {
	APIKey     string `json:"api_key"`
	UserTeamID string `json:"user_team_id"`
}

type seasonReportResponse struct {
	ReportMarkdown string `json:"report_markdown"`
	Report         string `json:"report"`
}

type postseasonSetupRequest struct {
	MyTeamID       string `json:"my_team_id"`
	UseRandomField bool   `json:"use_random_field"`
}

// TeamRef decodes a team reference that the authority serializes either as
// a bare team id or as a seed-entry object carrying team_id.
type TeamRef struct {
	TeamID string
}

func (r *TeamRef) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		r.TeamID = asString
		return nil
	}
	var asEntry struct {
		TeamID string `json:"team_id"`
	}
	if err := json.Unmarshal(data, &asEntry); err != nil {
		return err
	}
	r.TeamID = asEntry.TeamID
	return nil
}

// PlayInMatchupDoc is the wire shape of one play-in game.
type PlayInMatchupDoc struct {
	Home   TeamRef `json:"home"`
	Away   TeamRef `json:"away"`
	Result *struct {
		Winner TeamRef `json:"winner"`
	} `json:"result"`
}

// PlayInConferenceDoc is one conference's play-in matchups keyed by slot.
type PlayInConferenceDoc struct {
	Matchups map[string]PlayInMatchupDoc `json:"matchups"`
}

// SeriesDoc is the wire shape of one playoff series.
type SeriesDoc struct {
	Round     string         `json:"round"`
	Matchup   string         `json:"matchup"`
	HomeCourt TeamRef        `json:"home_court"`
	Road      TeamRef        `json:"road"`
	BestOf    int            `json:"best_of"`
	Wins      map[string]int `json:"wins"`
	Winner    *TeamRef       `json:"winner"`
}

// ConferenceBracketDoc is one conference's bracket rounds.
type ConferenceBracketDoc struct {
	Quarterfinals []SeriesDoc `json:"quarterfinals"`
	Semifinals    []SeriesDoc `json:"semifinals"`
	Finals        *SeriesDoc  `json:"finals"`
}

// PlayoffsDoc is the wire shape of the playoffs phase.
type PlayoffsDoc struct {
	CurrentRound string `json:"current_round"`
	Bracket      struct {
		East   ConferenceBracketDoc `json:"east"`
		West   ConferenceBracketDoc `json:"west"`
		Finals *SeriesDoc           `json:"finals"`
	} `json:"bracket"`
}

// PostseasonDoc is the full postseason snapshot as served by the authority.
// Stage is encoded by which fields are present; decoding into the explicit
// tagged union happens once, at the refresh boundary.
type PostseasonDoc struct {
	MyTeamID string `json:"my_team_id"`
	PlayIn   *struct {
		East PlayInConferenceDoc `json:"east"`
		West PlayInConferenceDoc `json:"west"`
	} `json:"play_in"`
	Playoffs *PlayoffsDoc `json:"playoffs"`
	Champion *TeamRef     `json:"champion"`
}
