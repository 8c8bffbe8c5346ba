package tactics

import (
	"errors"
	"sync"

	"nba-season-engine/internal/domain"
)

var (
	// ErrPaceRange signals a pace outside [-2, 2].
	ErrPaceRange = errors.New("tactics: pace out of range")
	// ErrShareRange signals a secondary scheme share outside [0, 5].
	ErrShareRange = errors.New("tactics: secondary share out of range")
	// ErrRotationRange signals a rotation size outside [6, 10].
	ErrRotationRange = errors.New("tactics: rotation size out of range")
	// ErrTooManyStarters signals more than five starters.
	ErrTooManyStarters = errors.New("tactics: too many starters")
	// ErrRotationOverflow signals starters+bench exceeding the rotation
	// size. Rejected outright rather than silently truncated.
	ErrRotationOverflow = errors.New("tactics: lineup exceeds rotation size")
	// ErrUnknownPlayer signals a lineup id not on the team's roster.
	ErrUnknownPlayer = errors.New("tactics: player not on roster")
)

// Default scheme configuration for a freshly selected team.
const (
	defaultOffensePrimary   = "Spread_HeavyPnR"
	defaultOffenseSecondary = "Motion"
	defaultDefensePrimary   = "Drop"
	defaultDefenseSecondary = "Switch_Heavy"
	defaultSecondaryShare   = 3
	defaultRotationSize     = 9
)

// Update carries partial tactics changes; nil fields are left untouched.
// Scheme weights are driven by a single secondary-share input per side.
type Update struct {
	Pace                  *int
	OffensePrimary        *string
	OffenseSecondary      *string
	OffenseSecondaryShare *int
	DefensePrimary        *string
	DefenseSecondary      *string
	DefenseSecondaryShare *int
	RotationSize          *int
	Starters              *[]string
	Bench                 *[]string
	Minutes               map[string]int
}

// Store holds per-team tactics profiles, created lazily with defaults and
// discarded on team switch.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*domain.TacticsProfile
	rosters  map[string][]string
}

// NewStore constructs an empty tactics store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*domain.TacticsProfile),
		rosters:  make(map[string][]string),
	}
}

// ProfileFor returns a copy of the team's profile, creating defaults on
// first access.
func (s *Store) ProfileFor(teamID string) domain.TacticsProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(s.ensureProfile(teamID))
}

// Apply validates and applies a partial update to the team's profile. On
// any violation the profile is left unchanged.
func (s *Store) Apply(teamID string, upd Update) (domain.TacticsProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.ensureProfile(teamID)
	next := copyProfile(current)

	if upd.Pace != nil {
		if *upd.Pace < -2 || *upd.Pace > 2 {
			return domain.TacticsProfile{}, ErrPaceRange
		}
		next.Pace = *upd.Pace
	}
	if upd.OffensePrimary != nil {
		next.OffensePrimary = *upd.OffensePrimary
	}
	if upd.OffenseSecondary != nil {
		next.OffenseSecondary = *upd.OffenseSecondary
	}
	if upd.OffenseSecondaryShare != nil {
		primary, secondary, err := normalizeWeights(*upd.OffenseSecondaryShare)
		if err != nil {
			return domain.TacticsProfile{}, err
		}
		next.OffensePrimaryWeight, next.OffenseSecondaryWeight = primary, secondary
	}
	if upd.DefensePrimary != nil {
		next.DefensePrimary = *upd.DefensePrimary
	}
	if upd.DefenseSecondary != nil {
		next.DefenseSecondary = *upd.DefenseSecondary
	}
	if upd.DefenseSecondaryShare != nil {
		primary, secondary, err := normalizeWeights(*upd.DefenseSecondaryShare)
		if err != nil {
			return domain.TacticsProfile{}, err
		}
		next.DefensePrimaryWeight, next.DefenseSecondaryWeight = primary, secondary
	}
	if upd.RotationSize != nil {
		if *upd.RotationSize < domain.MinRotationSize || *upd.RotationSize > domain.MaxRotationSize {
			return domain.TacticsProfile{}, ErrRotationRange
		}
		next.RotationSize = *upd.RotationSize
	}
	if upd.Starters != nil {
		next.Starters = append([]string(nil), (*upd.Starters)...)
	}
	if upd.Bench != nil {
		next.Bench = append([]string(nil), (*upd.Bench)...)
	}
	for id, mins := range upd.Minutes {
		next.Minutes[id] = mins
	}

	if err := s.validateLineup(teamID, &next); err != nil {
		return domain.TacticsProfile{}, err
	}

	*current = next
	return copyProfile(current), nil
}

// SetRoster records the team's current roster and prunes lineup entries and
// minutes for players no longer on it.
func (s *Store) SetRoster(teamID string, playerIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rosters[teamID] = append([]string(nil), playerIDs...)

	profile, ok := s.profiles[teamID]
	if !ok {
		return
	}

	keep := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		keep[id] = true
	}

	profile.Starters = filterIDs(profile.Starters, keep)
	profile.Bench = filterIDs(profile.Bench, keep)
	for id := range profile.Minutes {
		if !keep[id] {
			delete(profile.Minutes, id)
		}
	}
}

// Reset discards every profile and roster, typically on team switch.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = make(map[string]*domain.TacticsProfile)
	s.rosters = make(map[string][]string)
}

func (s *Store) ensureProfile(teamID string) *domain.TacticsProfile {
	if profile, ok := s.profiles[teamID]; ok {
		return profile
	}
	profile := defaultProfile(teamID)
	s.profiles[teamID] = profile
	return profile
}

func (s *Store) validateLineup(teamID string, p *domain.TacticsProfile) error {
	if len(p.Starters) > domain.MaxStarters {
		return ErrTooManyStarters
	}
	if len(p.Starters)+len(p.Bench) > p.RotationSize {
		return ErrRotationOverflow
	}

	roster := s.rosters[teamID]
	if len(roster) == 0 {
		return nil
	}
	onRoster := make(map[string]bool, len(roster))
	for _, id := range roster {
		onRoster[id] = true
	}
	for _, id := range p.Starters {
		if !onRoster[id] {
			return ErrUnknownPlayer
		}
	}
	for _, id := range p.Bench {
		if !onRoster[id] {
			return ErrUnknownPlayer
		}
	}
	return nil
}

// normalizeWeights turns a secondary share in [0, 5] into a primary and
// secondary weight summing to the fixed total with primary >= secondary.
func normalizeWeights(secondaryShare int) (int, int, error) {
	if secondaryShare < 0 || secondaryShare > domain.MaxSecondaryShare {
		return 0, 0, ErrShareRange
	}
	return domain.SchemeWeightTotal - secondaryShare, secondaryShare, nil
}

func defaultProfile(teamID string) *domain.TacticsProfile {
	primary, secondary, _ := normalizeWeights(defaultSecondaryShare)
	return &domain.TacticsProfile{
		TeamID:                 teamID,
		Pace:                   0,
		OffensePrimary:         defaultOffensePrimary,
		OffenseSecondary:       defaultOffenseSecondary,
		OffensePrimaryWeight:   primary,
		OffenseSecondaryWeight: secondary,
		DefensePrimary:         defaultDefensePrimary,
		DefenseSecondary:       defaultDefenseSecondary,
		DefensePrimaryWeight:   primary,
		DefenseSecondaryWeight: secondary,
		RotationSize:           defaultRotationSize,
		Minutes:                make(map[string]int),
	}
}

func copyProfile(p *domain.TacticsProfile) domain.TacticsProfile {
	out := *p
	out.Starters = append([]string(nil), p.Starters...)
	out.Bench = append([]string(nil), p.Bench...)
	out.Minutes = make(map[string]int, len(p.Minutes))
	for id, mins := range p.Minutes {
		out.Minutes[id] = mins
	}
	return out
}

func filterIDs(ids []string, keep map[string]bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if keep[id] {
			out = append(out, id)
		}
	}
	return out
}
