package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/logging"
)

var (
	// ErrSeasonComplete signals that every scheduled game has been played.
	// Terminal by design, not a failure.
	ErrSeasonComplete = errors.New("schedule: regular season complete")
	// ErrEmptySchedule signals that the authority returned no games for the
	// team. Unrecoverable for the current session.
	ErrEmptySchedule = errors.New("schedule: no games for team")
	// ErrNotLoaded signals that no schedule has been loaded yet.
	ErrNotLoaded = errors.New("schedule: not loaded")
	// ErrUnknownGame signals an ApplyResult for a game id not on the schedule.
	ErrUnknownGame = errors.New("schedule: unknown game id")
	// ErrTiedResult signals equal final scores from the simulator. The
	// simulator's contract does not allow ties; surface rather than invent a
	// tie-break.
	ErrTiedResult = errors.New("schedule: tied final score")
)

// Fetcher retrieves a team's full season schedule from the league authority.
type Fetcher interface {
	FetchSchedule(ctx context.Context, teamID string) ([]domain.ScheduleEntry, error)
}

// Store owns one team's ordered season schedule and the cursor to its next
// unplayed game. It is replaced wholesale when the user switches teams.
type Store struct {
	mu      sync.RWMutex
	fetcher Fetcher
	logger  *slog.Logger

	teamID  string
	entries []domain.ScheduleEntry
	cursor  int
}

// NewStore constructs an empty schedule store.
func NewStore(fetcher Fetcher, logger *slog.Logger) *Store {
	return &Store{fetcher: fetcher, logger: logger}
}

// EnsureLoaded loads the season schedule for teamID if it is not already
// held. Idempotent: a second call for the same team performs no fetch.
// The returned bool reports whether a fetch actually happened, so callers
// can seed derived views exactly once per load.
func (s *Store) EnsureLoaded(ctx context.Context, teamID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.teamID == teamID && len(s.entries) > 0 {
		return false, nil
	}

	entries, err := s.fetcher.FetchSchedule(ctx, teamID)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, ErrEmptySchedule
	}

	for i := range entries {
		deriveResult(&entries[i], teamID)
	}

	s.teamID = teamID
	s.entries = entries
	s.cursor = firstUnplayed(entries)

	logging.Info(s.logger, "schedule loaded",
		slog.String("team_id", teamID),
		slog.Int("games", len(entries)),
		slog.Int("cursor", s.cursor),
	)
	return true, nil
}

// NextGame returns the entry at the cursor, or ErrSeasonComplete when every
// entry has been played.
func (s *Store) NextGame() (domain.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return domain.ScheduleEntry{}, ErrNotLoaded
	}
	if s.cursor >= len(s.entries) {
		return domain.ScheduleEntry{}, ErrSeasonComplete
	}
	return s.entries[s.cursor], nil
}

// ApplyResult records final scores for a game and advances the cursor to the
// next unplayed entry. Equal scores are rejected without mutation.
func (s *Store) ApplyResult(gameID string, homeScore, awayScore int) (domain.ScheduleEntry, error) {
	if homeScore == awayScore {
		return domain.ScheduleEntry{}, ErrTiedResult
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.entries {
		if s.entries[i].GameID == gameID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ScheduleEntry{}, ErrUnknownGame
	}

	home, away := homeScore, awayScore
	s.entries[idx].HomeScore = &home
	s.entries[idx].AwayScore = &away
	deriveResult(&s.entries[idx], s.teamID)

	s.cursor = firstUnplayed(s.entries)
	return s.entries[idx], nil
}

// Snapshot returns a copy of the current schedule.
func (s *Store) Snapshot() domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ScheduleEntry, len(s.entries))
	copy(entries, s.entries)
	return domain.Schedule{TeamID: s.teamID, Entries: entries, Cursor: s.cursor}
}

// RecentDecided returns the already-played entries sorted by date
// descending, used to seed the recent-scores view after a load.
func (s *Store) RecentDecided() []domain.ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decided := make([]domain.ScheduleEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Played() {
			decided = append(decided, e)
		}
	}
	sort.SliceStable(decided, func(i, j int) bool {
		return decided[i].Date > decided[j].Date
	})
	return decided
}

// TeamID returns the team whose schedule is currently held.
func (s *Store) TeamID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teamID
}

// Reset discards the held schedule, typically on team switch.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamID = ""
	s.entries = nil
	s.cursor = 0
}

func firstUnplayed(entries []domain.ScheduleEntry) int {
	for i, e := range entries {
		if !e.Played() {
			return i
		}
	}
	return len(entries)
}

// deriveResult sets the W/L marker for played entries involving teamID.
// Ties are left unmarked; ApplyResult rejects them before they reach here.
func deriveResult(e *domain.ScheduleEntry, teamID string) {
	if !e.Played() || !e.Involves(teamID) {
		return
	}
	teamScore, oppScore := *e.HomeScore, *e.AwayScore
	if e.AwayTeamID == teamID {
		teamScore, oppScore = oppScore, teamScore
	}
	switch {
	case teamScore > oppScore:
		e.Result = domain.ResultWin
	case teamScore < oppScore:
		e.Result = domain.ResultLoss
	}
}
