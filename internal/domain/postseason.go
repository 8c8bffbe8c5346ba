package domain

// Stage identifies which postseason phase is active. Exactly one stage is
// active at a time; StageNone means the postseason has not been set up.
type Stage string

const (
	StageNone     Stage = "none"
	StagePlayIn   Stage = "play_in"
	StagePlayoffs Stage = "playoffs"
	StageChampion Stage = "champion"
)

// Playoff round names as used by the league authority, in progression order.
const (
	RoundConferenceQuarterfinals = "Conference Quarterfinals"
	RoundConferenceSemifinals    = "Conference Semifinals"
	RoundConferenceFinals        = "Conference Finals"
	RoundNBAFinals               = "NBA Finals"
)

// PlayInSlot names the three matchups of a conference's play-in tournament
// in resolution precedence order.
type PlayInSlot string

const (
	SlotSevenVsEight PlayInSlot = "seven_vs_eight"
	SlotNineVsTen    PlayInSlot = "nine_vs_ten"
	SlotFinal        PlayInSlot = "final"
)

// PlayInSlotOrder is the fixed precedence in which play-in matchups resolve.
var PlayInSlotOrder = []PlayInSlot{SlotSevenVsEight, SlotNineVsTen, SlotFinal}

// PlayInMatchup is a single play-in game. Winner is empty until resolved.
type PlayInMatchup struct {
	Home   string `json:"home"`
	Away   string `json:"away"`
	Winner string `json:"winner,omitempty"`
}

// Resolved reports whether the matchup has a winner.
func (m PlayInMatchup) Resolved() bool {
	return m.Winner != ""
}

// Involves reports whether teamID plays in this matchup.
func (m PlayInMatchup) Involves(teamID string) bool {
	return m.Home == teamID || m.Away == teamID
}

// PlayInConference holds one conference's three play-in matchups.
type PlayInConference struct {
	Matchups map[PlayInSlot]PlayInMatchup `json:"matchups"`
}

// PlayInState holds both conferences' play-in brackets.
type PlayInState struct {
	East PlayInConference `json:"east"`
	West PlayInConference `json:"west"`
}

// Series is a best-of playoff matchup tracked by per-team win counts.
type Series struct {
	Round     string         `json:"round"`
	Matchup   string         `json:"matchup"`
	HomeCourt string         `json:"homeCourt"`
	Road      string         `json:"road"`
	BestOf    int            `json:"bestOf"`
	Wins      map[string]int `json:"wins"`
	Winner    string         `json:"winner,omitempty"`
}

// Decided reports whether the series has a winner.
func (s Series) Decided() bool {
	return s.Winner != ""
}

// Involves reports whether teamID plays in this series.
func (s Series) Involves(teamID string) bool {
	return s.HomeCourt == teamID || s.Road == teamID
}

// ConferenceBracket is one conference's half of the playoff bracket.
type ConferenceBracket struct {
	Quarterfinals []Series `json:"quarterfinals"`
	Semifinals    []Series `json:"semifinals"`
	Finals        *Series  `json:"finals,omitempty"`
}

// Bracket is the full playoff bracket across both conferences.
type Bracket struct {
	East   ConferenceBracket `json:"east"`
	West   ConferenceBracket `json:"west"`
	Finals *Series           `json:"finals,omitempty"`
}

// PlayoffsState is the playoff phase: the active round plus the bracket.
type PlayoffsState struct {
	CurrentRound string  `json:"currentRound"`
	Bracket      Bracket `json:"bracket"`
}

// RoundSeries returns every series belonging to the named round.
func (p PlayoffsState) RoundSeries(round string) []Series {
	switch round {
	case RoundConferenceQuarterfinals:
		return append(append([]Series{}, p.Bracket.East.Quarterfinals...), p.Bracket.West.Quarterfinals...)
	case RoundConferenceSemifinals:
		return append(append([]Series{}, p.Bracket.East.Semifinals...), p.Bracket.West.Semifinals...)
	case RoundConferenceFinals:
		var out []Series
		if p.Bracket.East.Finals != nil {
			out = append(out, *p.Bracket.East.Finals)
		}
		if p.Bracket.West.Finals != nil {
			out = append(out, *p.Bracket.West.Finals)
		}
		return out
	case RoundNBAFinals:
		if p.Bracket.Finals != nil {
			return []Series{*p.Bracket.Finals}
		}
	}
	return nil
}

// PostseasonState is the decoded, authority-owned postseason snapshot. The
// Stage tag tells which of the optional fields is meaningful; the decoder
// guarantees exactly one active case.
type PostseasonState struct {
	Stage    Stage          `json:"stage"`
	MyTeamID string         `json:"myTeamId,omitempty"`
	PlayIn   *PlayInState   `json:"playIn,omitempty"`
	Playoffs *PlayoffsState `json:"playoffs,omitempty"`
	Champion string         `json:"champion,omitempty"`
}
