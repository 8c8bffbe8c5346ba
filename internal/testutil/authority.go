package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/league"
)

// StubAuthority is an in-memory stand-in for the league service. It covers
// every upstream surface the engine touches: schedule fetches, league
// catch-up, game simulation, season reports, postseason commands, and the
// cached view reads.
type StubAuthority struct {
	mu sync.Mutex

	ScheduleEntries []domain.ScheduleEntry
	ScheduleErr     error
	ScheduleCalls   int

	AdvanceGames []domain.DecidedGame
	AdvanceErr   error

	// Scores maps "HOME@AWAY" to a final score; unmapped games get a
	// deterministic home win.
	Scores      map[string]map[string]int
	SimulateErr error
	Simulated   []string

	Report     string
	ReportErr  error
	Credential bool

	PostseasonDoc league.PostseasonDoc
	PostseasonErr error
	Commands      []string

	// Views maps view names to canned payloads; unmapped views return {}.
	Views    map[string]json.RawMessage
	ViewsErr error
}

func (s *StubAuthority) FetchSchedule(_ context.Context, _ string) ([]domain.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScheduleCalls++
	if s.ScheduleErr != nil {
		return nil, s.ScheduleErr
	}
	out := make([]domain.ScheduleEntry, len(s.ScheduleEntries))
	copy(out, s.ScheduleEntries)
	return out, nil
}

func (s *StubAuthority) AdvanceLeague(_ context.Context, _, _ string) ([]domain.DecidedGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AdvanceErr != nil {
		return nil, s.AdvanceErr
	}
	return s.AdvanceGames, nil
}

func (s *StubAuthority) SimulateGame(_ context.Context, homeID, awayID string, _, _ domain.TacticsPayload, _ string) (league.SimulationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := homeID + "@" + awayID
	s.Simulated = append(s.Simulated, key)
	if s.SimulateErr != nil {
		return league.SimulationResult{}, s.SimulateErr
	}
	score, ok := s.Scores[key]
	if !ok {
		score = map[string]int{homeID: 108, awayID: 101}
	}
	return league.SimulationResult{FinalScore: score, Commentary: "stub game"}, nil
}

func (s *StubAuthority) SeasonReport(context.Context, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReportErr != nil {
		return "", s.ReportErr
	}
	return s.Report, nil
}

func (s *StubAuthority) HasReportCredential() bool { return s.Credential }

func (s *StubAuthority) command(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Commands = append(s.Commands, name)
	return s.PostseasonErr
}

func (s *StubAuthority) ResetPostseason(context.Context) error { return s.command("reset") }

func (s *StubAuthority) SetupPostseason(_ context.Context, _ string, _ bool) error {
	return s.command("setup")
}

func (s *StubAuthority) PlayInMyTeamGame(context.Context) error { return s.command("play-in") }

func (s *StubAuthority) AdvanceMySeriesGame(context.Context) error { return s.command("series") }

func (s *StubAuthority) AutoAdvanceRound(context.Context) error { return s.command("auto") }

func (s *StubAuthority) FetchPostseasonState(context.Context) (league.PostseasonDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PostseasonErr != nil {
		return league.PostseasonDoc{}, s.PostseasonErr
	}
	return s.PostseasonDoc, nil
}

func (s *StubAuthority) view(name string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ViewsErr != nil {
		return nil, s.ViewsErr
	}
	if payload, ok := s.Views[name]; ok {
		return payload, nil
	}
	return json.RawMessage(`{}`), nil
}

func (s *StubAuthority) FetchStandings(context.Context) (json.RawMessage, error) {
	return s.view("standings")
}

func (s *StubAuthority) FetchStatsLeaders(context.Context) (json.RawMessage, error) {
	return s.view("stats_leaders")
}

func (s *StubAuthority) FetchPlayoffLeaders(context.Context) (json.RawMessage, error) {
	return s.view("playoff_leaders")
}

func (s *StubAuthority) FetchTeams(context.Context) (json.RawMessage, error) {
	return s.view("teams")
}

func (s *StubAuthority) FetchTeamDetail(_ context.Context, teamID string) (json.RawMessage, error) {
	return s.view("team:" + teamID)
}

func (s *StubAuthority) FetchWeeklyNews(context.Context) (json.RawMessage, error) {
	return s.view("weekly_news")
}

func (s *StubAuthority) FetchPlayoffNews(context.Context) (json.RawMessage, error) {
	return s.view("playoff_news")
}
