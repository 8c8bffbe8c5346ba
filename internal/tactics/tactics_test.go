package tactics

import (
	"errors"
	"testing"

	"nba-season-engine/internal/domain"
)

func intPtr(v int) *int            { return &v }
func idsPtr(ids ...string) *[]string { s := ids; return &s }

func TestProfileForCreatesDefaults(t *testing.T) {
	store := NewStore()

	p := store.ProfileFor("LAL")
	if p.TeamID != "LAL" {
		t.Fatalf("unexpected team id %s", p.TeamID)
	}
	if p.OffensePrimaryWeight+p.OffenseSecondaryWeight != domain.SchemeWeightTotal {
		t.Fatalf("expected weights summing to %d, got %d+%d", domain.SchemeWeightTotal, p.OffensePrimaryWeight, p.OffenseSecondaryWeight)
	}
	if p.OffensePrimaryWeight < p.OffenseSecondaryWeight {
		t.Fatal("expected primary weight >= secondary weight")
	}
	if p.RotationSize < domain.MinRotationSize || p.RotationSize > domain.MaxRotationSize {
		t.Fatalf("rotation size %d out of bounds", p.RotationSize)
	}
}

func TestApplyNormalizesWeightsFromShare(t *testing.T) {
	store := NewStore()

	p, err := store.Apply("LAL", Update{OffenseSecondaryShare: intPtr(5)})
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if p.OffensePrimaryWeight != 5 || p.OffenseSecondaryWeight != 5 {
		t.Fatalf("expected 5/5 split, got %d/%d", p.OffensePrimaryWeight, p.OffenseSecondaryWeight)
	}

	p, err = store.Apply("LAL", Update{OffenseSecondaryShare: intPtr(0)})
	if err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}
	if p.OffensePrimaryWeight != 10 || p.OffenseSecondaryWeight != 0 {
		t.Fatalf("expected 10/0 split, got %d/%d", p.OffensePrimaryWeight, p.OffenseSecondaryWeight)
	}
}

func TestApplyRejectsOutOfRangeShare(t *testing.T) {
	store := NewStore()

	if _, err := store.Apply("LAL", Update{OffenseSecondaryShare: intPtr(6)}); !errors.Is(err, ErrShareRange) {
		t.Fatalf("expected ErrShareRange, got %v", err)
	}
}

func TestApplyRejectsOutOfRangePace(t *testing.T) {
	store := NewStore()

	if _, err := store.Apply("LAL", Update{Pace: intPtr(3)}); !errors.Is(err, ErrPaceRange) {
		t.Fatalf("expected ErrPaceRange, got %v", err)
	}
}

func TestApplyRejectsTooManyStarters(t *testing.T) {
	store := NewStore()

	upd := Update{Starters: idsPtr("p1", "p2", "p3", "p4", "p5", "p6")}
	if _, err := store.Apply("LAL", upd); !errors.Is(err, ErrTooManyStarters) {
		t.Fatalf("expected ErrTooManyStarters, got %v", err)
	}
}

func TestApplyRejectsRotationOverflow(t *testing.T) {
	store := NewStore()

	upd := Update{
		RotationSize: intPtr(6),
		Starters:     idsPtr("p1", "p2", "p3", "p4", "p5"),
		Bench:        idsPtr("p6", "p7"),
	}
	if _, err := store.Apply("LAL", upd); !errors.Is(err, ErrRotationOverflow) {
		t.Fatalf("expected ErrRotationOverflow, got %v", err)
	}

	// Rejected update must leave the profile untouched.
	p := store.ProfileFor("LAL")
	if len(p.Starters) != 0 || p.RotationSize != defaultRotationSize {
		t.Fatalf("expected unchanged profile, got %+v", p)
	}
}

func TestApplyRejectsPlayersOffRoster(t *testing.T) {
	store := NewStore()
	store.SetRoster("LAL", []string{"p1", "p2", "p3", "p4", "p5"})

	if _, err := store.Apply("LAL", Update{Starters: idsPtr("p1", "ghost")}); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestSetRosterPrunesDepartedPlayers(t *testing.T) {
	store := NewStore()
	store.SetRoster("LAL", []string{"p1", "p2", "p3"})

	if _, err := store.Apply("LAL", Update{
		Starters: idsPtr("p1", "p2"),
		Bench:    idsPtr("p3"),
		Minutes:  map[string]int{"p1": 36, "p3": 18},
	}); err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}

	// p3 traded away.
	store.SetRoster("LAL", []string{"p1", "p2"})

	p := store.ProfileFor("LAL")
	if len(p.Bench) != 0 {
		t.Fatalf("expected pruned bench, got %v", p.Bench)
	}
	if _, ok := p.Minutes["p3"]; ok {
		t.Fatal("expected p3 minutes pruned")
	}
	if p.Minutes["p1"] != 36 {
		t.Fatalf("expected p1 minutes preserved, got %d", p.Minutes["p1"])
	}
}

func TestProjectConvertsWeightsToInfluence(t *testing.T) {
	p := domain.TacticsProfile{
		Pace:                   1,
		OffensePrimary:         "Spread_HeavyPnR",
		OffensePrimaryWeight:   7,
		OffenseSecondaryWeight: 3,
		DefensePrimary:         "Drop",
		DefensePrimaryWeight:   10,
		DefenseSecondaryWeight: 0,
		RotationSize:           9,
		Starters:               []string{"p1"},
		Minutes:                map[string]int{"p1": 34},
	}

	payload := Project(p, 1.0)

	if payload.SchemeWeightSharpness != 1.4 {
		t.Fatalf("expected sharpness 1.4, got %v", payload.SchemeWeightSharpness)
	}
	if payload.SchemeOutcomeStrength != 0.6 {
		t.Fatalf("expected strength 0.6, got %v", payload.SchemeOutcomeStrength)
	}
	if payload.DefSchemeWeightSharpness != 2.0 {
		t.Fatalf("expected def sharpness 2.0, got %v", payload.DefSchemeWeightSharpness)
	}
	// Zero weight floors at the minimum influence.
	if payload.DefSchemeOutcomeStrength != minInfluence {
		t.Fatalf("expected floored def strength %v, got %v", minInfluence, payload.DefSchemeOutcomeStrength)
	}
	if payload.Lineup == nil || len(payload.Lineup.Starters) != 1 {
		t.Fatalf("expected lineup passed through, got %+v", payload.Lineup)
	}
	if payload.Minutes["p1"] != 34 {
		t.Fatalf("expected minutes passed through, got %+v", payload.Minutes)
	}
}

func TestProjectFoldsFatigueIntoOutcomeStrengths(t *testing.T) {
	p := domain.TacticsProfile{
		OffensePrimaryWeight:   7,
		OffenseSecondaryWeight: 5,
		DefensePrimaryWeight:   7,
		DefenseSecondaryWeight: 5,
	}

	payload := Project(p, 0.92)

	if payload.SchemeOutcomeStrength != 0.92 {
		t.Fatalf("expected fatigued strength 0.92, got %v", payload.SchemeOutcomeStrength)
	}
	// Sharpness is unaffected by fatigue.
	if payload.SchemeWeightSharpness != 1.4 {
		t.Fatalf("expected sharpness 1.4, got %v", payload.SchemeWeightSharpness)
	}
}

func TestNeutralPayloadCarriesOnlyPace(t *testing.T) {
	payload := Neutral()
	if payload.Pace != 0 {
		t.Fatalf("expected neutral pace, got %d", payload.Pace)
	}
	if payload.OffenseScheme != "" || payload.Lineup != nil {
		t.Fatalf("expected minimal payload, got %+v", payload)
	}
}
