package domain

// Rotation bounds enforced by the tactics store.
const (
	MinRotationSize = 6
	MaxRotationSize = 10
	MaxStarters     = 5

	// Internal scheme weights live on a 0-10 scale and always sum to 10.
	SchemeWeightTotal = 10
	// MaxSecondaryShare caps the secondary scheme's share of the total.
	MaxSecondaryShare = 5
)

// TacticsProfile is the stored tactical configuration for one team. It is
// created lazily with defaults and persists across games until the user
// switches teams.
type TacticsProfile struct {
	TeamID                 string         `json:"teamId"`
	Pace                   int            `json:"pace"`
	OffensePrimary         string         `json:"offensePrimary"`
	OffenseSecondary       string         `json:"offenseSecondary"`
	OffensePrimaryWeight   int            `json:"offensePrimaryWeight"`
	OffenseSecondaryWeight int            `json:"offenseSecondaryWeight"`
	DefensePrimary         string         `json:"defensePrimary"`
	DefenseSecondary       string         `json:"defenseSecondary"`
	DefensePrimaryWeight   int            `json:"defensePrimaryWeight"`
	DefenseSecondaryWeight int            `json:"defenseSecondaryWeight"`
	RotationSize           int            `json:"rotationSize"`
	Starters               []string       `json:"starters"`
	Bench                  []string       `json:"bench"`
	Minutes                map[string]int `json:"minutes"`
}

// Lineup is the starters/bench split sent to the simulator.
type Lineup struct {
	Starters []string `json:"starters"`
	Bench    []string `json:"bench"`
}

// TacticsPayload is the wire shape the external match simulator expects.
// For non-user teams only Pace is populated (neutral).
type TacticsPayload struct {
	Pace                     int            `json:"pace"`
	OffenseScheme            string         `json:"offense_scheme,omitempty"`
	DefenseScheme            string         `json:"defense_scheme,omitempty"`
	SchemeWeightSharpness    float64        `json:"scheme_weight_sharpness,omitempty"`
	SchemeOutcomeStrength    float64        `json:"scheme_outcome_strength,omitempty"`
	DefSchemeWeightSharpness float64        `json:"def_scheme_weight_sharpness,omitempty"`
	DefSchemeOutcomeStrength float64        `json:"def_scheme_outcome_strength,omitempty"`
	RotationSize             int            `json:"rotation_size,omitempty"`
	Lineup                   *Lineup        `json:"lineup,omitempty"`
	Minutes                  map[string]int `json:"minutes,omitempty"`
}
