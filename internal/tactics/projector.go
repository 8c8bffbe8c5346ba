package tactics

import "nba-season-engine/internal/domain"

// minInfluence floors every projected scheme influence so a zero weight
// never disables a scheme entirely on the simulator side.
const minInfluence = 0.2

// Project converts a stored profile into the simulator's payload shape for
// the user's team. Stored weights (0-10) become influences via
// max(0.2, weight/5); the fatigue factor is folded into the outcome
// strengths, which is the only place the engine models fatigue.
func Project(p domain.TacticsProfile, fatigueFactor float64) domain.TacticsPayload {
	lineup := &domain.Lineup{
		Starters: append([]string(nil), p.Starters...),
		Bench:    append([]string(nil), p.Bench...),
	}

	minutes := make(map[string]int, len(p.Minutes))
	for id, mins := range p.Minutes {
		minutes[id] = mins
	}

	return domain.TacticsPayload{
		Pace:                     p.Pace,
		OffenseScheme:            p.OffensePrimary,
		DefenseScheme:            p.DefensePrimary,
		SchemeWeightSharpness:    influence(p.OffensePrimaryWeight),
		SchemeOutcomeStrength:    influence(p.OffenseSecondaryWeight) * fatigueFactor,
		DefSchemeWeightSharpness: influence(p.DefensePrimaryWeight),
		DefSchemeOutcomeStrength: influence(p.DefenseSecondaryWeight) * fatigueFactor,
		RotationSize:             p.RotationSize,
		Lineup:                   lineup,
		Minutes:                  minutes,
	}
}

// Neutral is the payload for any team the user does not manage: neutral
// pace, no scheme detail. Opponent tactics are not modeled.
func Neutral() domain.TacticsPayload {
	return domain.TacticsPayload{Pace: 0}
}

func influence(weight int) float64 {
	v := float64(weight) / 5
	if v < minInfluence {
		return minInfluence
	}
	return v
}
