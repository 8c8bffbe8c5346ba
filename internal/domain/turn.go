package domain

// Failure reasons carried on an unsuccessful TurnResult.
const (
	ReasonNoMoreRegularSeason = "no-more-regular-season"
	ReasonEmptySchedule       = "empty-schedule"
	ReasonScheduleLoadFailed  = "schedule-load-failed"
	ReasonSimulationFailed    = "simulation-failed"
	ReasonInvalidResult       = "invalid-result"
)

// TurnResult is the outcome of one advance operation. On failure only
// Success, Reason, and optionally Report are populated.
type TurnResult struct {
	Success    bool       `json:"success"`
	Reason     string     `json:"reason,omitempty"`
	Turn       int        `json:"turn,omitempty"`
	GameID     string     `json:"gameId,omitempty"`
	GameDate   string     `json:"gameDate,omitempty"`
	HomeTeamID string     `json:"homeTeamId,omitempty"`
	AwayTeamID string     `json:"awayTeamId,omitempty"`
	HomeScore  int        `json:"homeScore,omitempty"`
	AwayScore  int        `json:"awayScore,omitempty"`
	Result     GameResult `json:"result,omitempty"`
	LogEntry   string     `json:"logEntry,omitempty"`
	Report     string     `json:"report,omitempty"`
}

// NewsItem is a synthesized headline about a completed game.
type NewsItem struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
