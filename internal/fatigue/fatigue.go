package fatigue

import (
	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/timeutil"
)

// AssumedFirstGameRest is the rest credited before a team's first game of
// the season.
const AssumedFirstGameRest = 3

// RestDays computes how many full rest days teamID has had before the game
// at the schedule cursor. Entries strictly before the cursor are scanned in
// reverse for the most recent game involving the team; the first game of a
// season gets the assumed default.
func RestDays(s domain.Schedule, teamID string) int {
	if s.Exhausted() {
		return AssumedFirstGameRest
	}

	current, err := timeutil.ParseDate(s.Entries[s.Cursor].Date)
	if err != nil {
		return AssumedFirstGameRest
	}

	for i := s.Cursor - 1; i >= 0; i-- {
		e := s.Entries[i]
		if !e.Involves(teamID) {
			continue
		}
		last, err := timeutil.ParseDate(e.Date)
		if err != nil {
			return AssumedFirstGameRest
		}
		days := timeutil.DaysBetween(last, current) - 1
		if days < 0 {
			days = 0
		}
		return days
	}

	return AssumedFirstGameRest
}

// Factor maps rest days to a performance multiplier. 2 rest days is the
// baseline; back-to-backs are penalized, long rest rewarded.
func Factor(restDays int) float64 {
	switch {
	case restDays <= 0:
		return 0.92
	case restDays == 1:
		return 0.97
	case restDays == 2:
		return domain.NeutralFactor
	case restDays == 3:
		return 1.03
	default:
		return 1.05
	}
}

// Reading derives the full fatigue reading for a team's next game.
func Reading(s domain.Schedule, teamID string) domain.FatigueReading {
	days := RestDays(s, teamID)
	return domain.FatigueReading{RestDays: days, Factor: Factor(days)}
}
