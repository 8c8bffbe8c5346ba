package domain

// GameResult records the outcome of a played game from the user team's perspective.
type GameResult string

const (
	ResultWin  GameResult = "W"
	ResultLoss GameResult = "L"
	ResultNone GameResult = ""
)

// ScheduleEntry is one game on a team's season schedule. Scores are nil
// until the game has been played; Result is set only for played games
// involving the user's team.
type ScheduleEntry struct {
	GameID     string     `json:"gameId"`
	Date       string     `json:"date"`
	HomeTeamID string     `json:"homeTeamId"`
	AwayTeamID string     `json:"awayTeamId"`
	HomeScore  *int       `json:"homeScore,omitempty"`
	AwayScore  *int       `json:"awayScore,omitempty"`
	Result     GameResult `json:"result,omitempty"`
}

// Played reports whether the entry has final scores.
func (e ScheduleEntry) Played() bool {
	return e.HomeScore != nil && e.AwayScore != nil
}

// Involves reports whether the given team plays in this game.
func (e ScheduleEntry) Involves(teamID string) bool {
	return e.HomeTeamID == teamID || e.AwayTeamID == teamID
}

// Opponent returns the other side of the matchup for teamID.
func (e ScheduleEntry) Opponent(teamID string) string {
	if e.HomeTeamID == teamID {
		return e.AwayTeamID
	}
	return e.HomeTeamID
}

// Schedule is one team's ordered season schedule plus a cursor pointing at
// the earliest entry without scores. Cursor == len(Entries) means the
// regular season is exhausted.
type Schedule struct {
	TeamID  string          `json:"teamId"`
	Entries []ScheduleEntry `json:"entries"`
	Cursor  int             `json:"cursor"`
}

// Exhausted reports whether every entry has been played.
func (s Schedule) Exhausted() bool {
	return s.Cursor >= len(s.Entries)
}

// DecidedGame is a final result record as returned by the league authority
// when catching up the rest of the league, and as kept in the recent-scores
// view.
type DecidedGame struct {
	GameID     string `json:"gameId"`
	Date       string `json:"date"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
}
