// Package postseason tracks the play-in and playoff progression for the
// user's franchise. The league authority owns all bracket math; this
// package issues commands, refreshes the snapshot afterwards, and gates
// which command is legal from the current stage.
package postseason

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/league"
	"nba-season-engine/internal/logging"
	"nba-season-engine/internal/views"
)

var (
	// ErrNotInPlayIn is returned when a play-in command arrives outside
	// the play-in stage.
	ErrNotInPlayIn = errors.New("postseason: play-in stage is not active")
	// ErrNoPendingPlayInGame is returned when the user's team has no
	// unresolved play-in matchup left.
	ErrNoPendingPlayInGame = errors.New("postseason: no pending play-in game for the user's team")
	// ErrNotInPlayoffs is returned when a playoff command arrives outside
	// the playoff stage.
	ErrNotInPlayoffs = errors.New("postseason: playoff stage is not active")
	// ErrNoActiveSeries is returned when the user's team has no undecided
	// series in the current round.
	ErrNoActiveSeries = errors.New("postseason: no active series for the user's team")
	// ErrUserSeriesPending is returned when auto-advance is requested while
	// the user's own series is still undecided.
	ErrUserSeriesPending = errors.New("postseason: the user's series must finish before auto-advancing the round")
)

// Authority is the subset of league commands the postseason machine issues.
type Authority interface {
	ResetPostseason(ctx context.Context) error
	SetupPostseason(ctx context.Context, myTeamID string, useRandomField bool) error
	FetchPostseasonState(ctx context.Context) (league.PostseasonDoc, error)
	PlayInMyTeamGame(ctx context.Context) error
	AdvanceMySeriesGame(ctx context.Context) error
	AutoAdvanceRound(ctx context.Context) error
}

// refreshInvalidated lists the views marked stale after every postseason
// command that changes bracket state.
var refreshInvalidated = []views.View{views.ViewPlayoffLeaders, views.ViewPlayoffNews}

// Machine holds the locally cached postseason snapshot and mediates
// commands against it.
type Machine struct {
	authority Authority
	cache     *views.Cache
	logger    *slog.Logger

	mu    sync.RWMutex
	state domain.PostseasonState
}

// NewMachine returns a machine in the StageNone state. cache may be nil.
func NewMachine(authority Authority, cache *views.Cache, logger *slog.Logger) *Machine {
	return &Machine{
		authority: authority,
		cache:     cache,
		logger:    logger,
		state:     domain.PostseasonState{Stage: domain.StageNone},
	}
}

// State returns the last refreshed snapshot.
func (m *Machine) State() domain.PostseasonState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Setup tears down any prior bracket on the authority, seeds a fresh one
// for myTeamID, and refreshes the local snapshot.
func (m *Machine) Setup(ctx context.Context, myTeamID string, useRandomField bool) (domain.PostseasonState, error) {
	if err := m.authority.ResetPostseason(ctx); err != nil {
		return domain.PostseasonState{}, err
	}
	if err := m.authority.SetupPostseason(ctx, myTeamID, useRandomField); err != nil {
		return domain.PostseasonState{}, err
	}
	logging.Info(m.logger, "postseason set up",
		slog.String("team_id", myTeamID),
		slog.Bool("random_field", useRandomField),
	)
	return m.Refresh(ctx)
}

// Reset tears down the postseason on the authority and clears local state.
func (m *Machine) Reset(ctx context.Context) error {
	if err := m.authority.ResetPostseason(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = domain.PostseasonState{Stage: domain.StageNone}
	m.mu.Unlock()
	m.invalidateViews()
	return nil
}

// Refresh fetches the authority's snapshot and replaces the local state.
// On fetch error the previous snapshot is kept.
func (m *Machine) Refresh(ctx context.Context) (domain.PostseasonState, error) {
	doc, err := m.authority.FetchPostseasonState(ctx)
	if err != nil {
		return m.State(), err
	}
	state := decodeState(doc)
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	return state, nil
}

// NextPlayInMatchup returns the user's next unresolved play-in matchup.
// Matchups resolve in fixed slot order; the final only becomes the user's
// next game once both qualifying matchups have winners and the user landed
// in it.
func (m *Machine) NextPlayInMatchup() (domain.PlayInSlot, domain.PlayInMatchup, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return nextPlayInMatchup(m.state)
}

func nextPlayInMatchup(state domain.PostseasonState) (domain.PlayInSlot, domain.PlayInMatchup, bool) {
	if state.Stage != domain.StagePlayIn || state.PlayIn == nil {
		return "", domain.PlayInMatchup{}, false
	}
	for _, conf := range []domain.PlayInConference{state.PlayIn.East, state.PlayIn.West} {
		for _, slot := range domain.PlayInSlotOrder {
			matchup, ok := conf.Matchups[slot]
			if !ok || matchup.Resolved() {
				continue
			}
			if matchup.Involves(state.MyTeamID) {
				return slot, matchup, true
			}
		}
	}
	return "", domain.PlayInMatchup{}, false
}

// PlayMyPlayInGame resolves the user's pending play-in matchup on the
// authority and refreshes. The command is rejected when no such matchup
// exists, so the authority is never asked for an impossible game.
func (m *Machine) PlayMyPlayInGame(ctx context.Context) (domain.PostseasonState, error) {
	m.mu.RLock()
	stage := m.state.Stage
	slot, _, ok := nextPlayInMatchup(m.state)
	m.mu.RUnlock()

	if stage != domain.StagePlayIn {
		return m.State(), ErrNotInPlayIn
	}
	if !ok {
		return m.State(), ErrNoPendingPlayInGame
	}
	if err := m.authority.PlayInMyTeamGame(ctx); err != nil {
		return m.State(), err
	}
	logging.Info(m.logger, "play-in game resolved", slog.String("slot", string(slot)))
	m.invalidateViews()
	return m.Refresh(ctx)
}

// MySeries returns the user's series in the current playoff round,
// decided or not.
func (m *Machine) MySeries() (domain.Series, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return mySeries(m.state)
}

func mySeries(state domain.PostseasonState) (domain.Series, bool) {
	if state.Stage != domain.StagePlayoffs || state.Playoffs == nil {
		return domain.Series{}, false
	}
	for _, series := range state.Playoffs.RoundSeries(state.Playoffs.CurrentRound) {
		if series.Involves(state.MyTeamID) {
			return series, true
		}
	}
	return domain.Series{}, false
}

// PlayMySeriesGame simulates the next game of the user's current series on
// the authority and refreshes.
func (m *Machine) PlayMySeriesGame(ctx context.Context) (domain.PostseasonState, error) {
	m.mu.RLock()
	stage := m.state.Stage
	series, ok := mySeries(m.state)
	m.mu.RUnlock()

	if stage != domain.StagePlayoffs {
		return m.State(), ErrNotInPlayoffs
	}
	if !ok || series.Decided() {
		return m.State(), ErrNoActiveSeries
	}
	if err := m.authority.AdvanceMySeriesGame(ctx); err != nil {
		return m.State(), err
	}
	logging.Info(m.logger, "series game played",
		slog.String("round", series.Round),
		slog.String("matchup", series.Matchup),
	)
	m.invalidateViews()
	return m.Refresh(ctx)
}

// CanAutoAdvance reports whether the rest of the current round may be
// simulated without the user. That is only the case while the playoffs are
// active and the user's own series, if any, is already decided.
func (m *Machine) CanAutoAdvance() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.Stage != domain.StagePlayoffs {
		return false
	}
	series, ok := mySeries(m.state)
	return !ok || series.Decided()
}

// AutoAdvanceRound simulates the remainder of the current round on the
// authority and refreshes.
func (m *Machine) AutoAdvanceRound(ctx context.Context) (domain.PostseasonState, error) {
	m.mu.RLock()
	stage := m.state.Stage
	series, ok := mySeries(m.state)
	m.mu.RUnlock()

	if stage != domain.StagePlayoffs {
		return m.State(), ErrNotInPlayoffs
	}
	if ok && !series.Decided() {
		return m.State(), ErrUserSeriesPending
	}
	if err := m.authority.AutoAdvanceRound(ctx); err != nil {
		return m.State(), err
	}
	logging.Info(m.logger, "round auto-advanced", slog.String("round", stageRound(m.State())))
	m.invalidateViews()
	return m.Refresh(ctx)
}

func stageRound(state domain.PostseasonState) string {
	if state.Playoffs == nil {
		return ""
	}
	return state.Playoffs.CurrentRound
}

func (m *Machine) invalidateViews() {
	if m.cache != nil {
		m.cache.Invalidate(refreshInvalidated...)
	}
}
