package testutil

import "nba-season-engine/internal/domain"

// SampleSeason returns a short regular-season schedule for the LAL
// franchise: two home games around one road game.
func SampleSeason() []domain.ScheduleEntry {
	return []domain.ScheduleEntry{
		{GameID: "g1", Date: "2025-10-21", HomeTeamID: "LAL", AwayTeamID: "BOS"},
		{GameID: "g2", Date: "2025-10-23", HomeTeamID: "DEN", AwayTeamID: "LAL"},
		{GameID: "g3", Date: "2025-10-26", HomeTeamID: "LAL", AwayTeamID: "GSW"},
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
