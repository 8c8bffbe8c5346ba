package domain

// FatigueReading is the derived rest state for a team heading into its next
// game. It is recomputed per game, never stored.
type FatigueReading struct {
	RestDays int     `json:"restDays"`
	Factor   float64 `json:"factor"`
}

// NeutralFactor is the baseline multiplier: a team at normal rest, or any
// team whose fatigue is not modeled (every team except the user's).
const NeutralFactor = 1.0
