package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/league"
	"nba-season-engine/internal/schedule"
	"nba-season-engine/internal/tactics"
	"nba-season-engine/internal/views"
)

type stubFetcher struct {
	entries []domain.ScheduleEntry
	err     error
	calls   int
}

func (f *stubFetcher) FetchSchedule(_ context.Context, _ string) ([]domain.ScheduleEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.ScheduleEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

type stubLeague struct {
	mu sync.Mutex

	scores        map[string]map[string]int
	simulateErr   error
	simulated     []string
	advanceGames  []domain.DecidedGame
	advanceErr    error
	advanceDates  []string
	homeTactics   []domain.TacticsPayload
	awayTactics   []domain.TacticsPayload
	report        string
	reportErr     error
	reportCalls   int
	hasCredential bool
}

func (s *stubLeague) AdvanceLeague(_ context.Context, targetDate, _ string) ([]domain.DecidedGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceDates = append(s.advanceDates, targetDate)
	if s.advanceErr != nil {
		return nil, s.advanceErr
	}
	return s.advanceGames, nil
}

func (s *stubLeague) SimulateGame(_ context.Context, homeID, awayID string, homeTactics, awayTactics domain.TacticsPayload, _ string) (league.SimulationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulated = append(s.simulated, homeID+"@"+awayID)
	s.homeTactics = append(s.homeTactics, homeTactics)
	s.awayTactics = append(s.awayTactics, awayTactics)
	if s.simulateErr != nil {
		return league.SimulationResult{}, s.simulateErr
	}
	key := homeID + "@" + awayID
	score, ok := s.scores[key]
	if !ok {
		score = map[string]int{homeID: 110, awayID: 102}
	}
	return league.SimulationResult{FinalScore: score, Commentary: "a hard-fought game"}, nil
}

func (s *stubLeague) SeasonReport(context.Context, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportCalls++
	if s.reportErr != nil {
		return "", s.reportErr
	}
	return s.report, nil
}

func (s *stubLeague) HasReportCredential() bool { return s.hasCredential }

func twoGameSeason() []domain.ScheduleEntry {
	return []domain.ScheduleEntry{
		{GameID: "g1", Date: "2025-10-21", HomeTeamID: "LAL", AwayTeamID: "BOS"},
		{GameID: "g2", Date: "2025-10-23", HomeTeamID: "DEN", AwayTeamID: "LAL"},
	}
}

func newTestEngine(authority *stubLeague, fetcher *stubFetcher) (*Engine, *views.Cache) {
	scheduleStore := schedule.NewStore(fetcher, nil)
	cache := views.NewCache(nil, 0, nil)
	eng := New(authority, scheduleStore, tactics.NewStore(), cache, nil, nil)
	return eng, cache
}

func TestAdvanceGameRequiresSelection(t *testing.T) {
	eng, _ := newTestEngine(&stubLeague{}, &stubFetcher{entries: twoGameSeason()})

	if _, err := eng.AdvanceGame(context.Background()); !errors.Is(err, ErrNoTeamSelected) {
		t.Fatalf("expected ErrNoTeamSelected, got %v", err)
	}
}

func TestAdvanceGameCompletesATurn(t *testing.T) {
	authority := &stubLeague{}
	eng, cache := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	result, err := eng.AdvanceGame(context.Background())
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got reason %q", result.Reason)
	}
	if result.Turn != 1 || result.GameID != "g1" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Result != domain.ResultWin {
		t.Fatalf("expected home win for LAL, got %q", result.Result)
	}
	if result.LogEntry != "a hard-fought game" {
		t.Fatalf("expected authority commentary, got %q", result.LogEntry)
	}

	status := eng.Status()
	if status.Turn != 1 || status.CurrentDate != "2025-10-21" || status.Busy {
		t.Fatalf("unexpected status %+v", status)
	}

	scores := cache.RecentScores()
	if len(scores) != 1 || scores[0].GameID != "g1" {
		t.Fatalf("expected the decided game in recent scores, got %+v", scores)
	}
	items := cache.News()
	if len(items) != 1 {
		t.Fatalf("expected one news item, got %d", len(items))
	}
	if items[0].Body != "Your LAL beat BOS 110-102 on 2025-10-21." {
		t.Fatalf("unexpected news body %q", items[0].Body)
	}
}

func TestAdvanceGameLeagueCatchUpIsBestEffort(t *testing.T) {
	authority := &stubLeague{advanceErr: errors.New("league down")}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	result, err := eng.AdvanceGame(context.Background())
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected turn to proceed past a failed catch-up, got %+v", result)
	}
	if len(authority.advanceDates) != 1 || authority.advanceDates[0] != "2025-10-21" {
		t.Fatalf("expected catch-up to the game date, got %v", authority.advanceDates)
	}
}

func TestAdvanceGameMergesCatchUpScores(t *testing.T) {
	authority := &stubLeague{advanceGames: []domain.DecidedGame{
		{GameID: "x1", Date: "2025-10-20", HomeTeamID: "NYK", AwayTeamID: "PHI", HomeScore: 99, AwayScore: 95},
	}}
	eng, cache := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	scores := cache.RecentScores()
	if len(scores) != 2 {
		t.Fatalf("expected catch-up game plus own game, got %+v", scores)
	}
	if scores[0].GameID != "g1" {
		t.Fatalf("expected own game first, got %+v", scores)
	}
}

func TestAdvanceGameFatigueOnlyAffectsUserSide(t *testing.T) {
	authority := &stubLeague{}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	// First game: LAL at home, assumed three rest days, factor 1.03.
	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("first advance failed: %v", err)
	}
	home, away := authority.homeTactics[0], authority.awayTactics[0]
	if home.OffenseScheme == "" || home.SchemeOutcomeStrength == 0 {
		t.Fatalf("expected a full projection for the user side, got %+v", home)
	}
	if away.OffenseScheme != "" || away.Pace != 0 {
		t.Fatalf("expected a neutral opponent payload, got %+v", away)
	}

	// Second game: LAL on the road after one rest day, factor 0.97.
	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("second advance failed: %v", err)
	}
	home, away = authority.homeTactics[1], authority.awayTactics[1]
	if home.OffenseScheme != "" {
		t.Fatalf("expected neutral home payload when the user is away, got %+v", home)
	}
	if away.SchemeWeightSharpness != 1.4 {
		t.Fatalf("expected sharpness untouched by fatigue, got %v", away.SchemeWeightSharpness)
	}
	want := 0.6 * 0.97
	if diff := away.SchemeOutcomeStrength - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected outcome strength %v, got %v", want, away.SchemeOutcomeStrength)
	}
}

func TestAdvanceGameSimulationFailure(t *testing.T) {
	authority := &stubLeague{simulateErr: errors.New("boom")}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	result, err := eng.AdvanceGame(context.Background())
	if err != nil {
		t.Fatalf("advance returned error: %v", err)
	}
	if result.Success || result.Reason != domain.ReasonSimulationFailed {
		t.Fatalf("expected simulation-failed, got %+v", result)
	}
	if eng.Status().Turn != 0 {
		t.Fatal("expected turn counter to stay put on failure")
	}
}

func TestAdvanceGameRejectsTiedResult(t *testing.T) {
	authority := &stubLeague{scores: map[string]map[string]int{
		"LAL@BOS": {"LAL": 100, "BOS": 100},
	}}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	result, err := eng.AdvanceGame(context.Background())
	if err != nil {
		t.Fatalf("advance returned error: %v", err)
	}
	if result.Success || result.Reason != domain.ReasonInvalidResult {
		t.Fatalf("expected invalid-result for a tie, got %+v", result)
	}
}

func TestSeasonCompleteTriggersReport(t *testing.T) {
	authority := &stubLeague{hasCredential: true, report: "## Season in Review"}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := eng.AdvanceGame(context.Background()); err != nil {
			t.Fatalf("advance %d failed: %v", i+1, err)
		}
	}
	result, err := eng.AdvanceGame(context.Background())
	if err != nil {
		t.Fatalf("final advance failed: %v", err)
	}
	if result.Success || result.Reason != domain.ReasonNoMoreRegularSeason {
		t.Fatalf("expected no-more-regular-season, got %+v", result)
	}
	if result.Report != "## Season in Review" {
		t.Fatalf("expected the season report, got %q", result.Report)
	}
	if !eng.Status().SeasonComplete {
		t.Fatal("expected season-complete status")
	}
}

func TestSeasonCompleteWithoutCredentialSkipsReport(t *testing.T) {
	authority := &stubLeague{}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()[:1]})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	result, err := eng.AdvanceGame(context.Background())
	if err != nil {
		t.Fatalf("final advance failed: %v", err)
	}
	if result.Reason != domain.ReasonNoMoreRegularSeason || result.Report != "" {
		t.Fatalf("expected season-complete result without a report, got %+v", result)
	}
	if result.LogEntry == "" {
		t.Fatalf("expected a note that the report is unavailable, got %+v", result)
	}
	if authority.reportCalls != 0 {
		t.Fatal("expected no report attempt without a credential")
	}
}

func TestAdvanceBatchStopsAtFirstFailure(t *testing.T) {
	authority := &stubLeague{}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	results, err := eng.AdvanceBatch(context.Background(), 5)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	// Two playable games, then the season-complete turn stops the batch.
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Success || !results[1].Success {
		t.Fatalf("expected the first two turns to succeed, got %+v", results)
	}
	if results[2].Success || results[2].Reason != domain.ReasonNoMoreRegularSeason {
		t.Fatalf("expected a season-complete tail, got %+v", results[2])
	}
}

func TestAdvanceRejectsConcurrentTurns(t *testing.T) {
	authority := &stubLeague{}
	eng, _ := newTestEngine(authority, &stubFetcher{entries: twoGameSeason()})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if !eng.acquire() {
		t.Fatal("expected to take the busy guard")
	}
	defer eng.release()

	if _, err := eng.AdvanceGame(context.Background()); !errors.Is(err, ErrAdvanceInProgress) {
		t.Fatalf("expected ErrAdvanceInProgress, got %v", err)
	}
	if _, err := eng.AdvanceBatch(context.Background(), 2); !errors.Is(err, ErrAdvanceInProgress) {
		t.Fatalf("expected batch to respect the busy guard, got %v", err)
	}
	if err := eng.SelectTeam("BOS"); !errors.Is(err, ErrAdvanceInProgress) {
		t.Fatalf("expected team switch to respect the busy guard, got %v", err)
	}
}

func TestSelectTeamResetsSeasonState(t *testing.T) {
	authority := &stubLeague{}
	fetcher := &stubFetcher{entries: twoGameSeason()}
	eng, cache := newTestEngine(authority, fetcher)
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	if err := eng.SelectTeam("BOS"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	status := eng.Status()
	if status.TeamID != "BOS" || status.Turn != 0 || status.CurrentDate != "" {
		t.Fatalf("expected a clean slate, got %+v", status)
	}
	if scores := cache.RecentScores(); len(scores) != 0 {
		t.Fatalf("expected recent scores cleared, got %+v", scores)
	}

	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("advance after switch failed: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected a fresh schedule fetch after switching, got %d", fetcher.calls)
	}
}

func TestAdvanceGameSeedsScoresFromPlayedEntries(t *testing.T) {
	entries := twoGameSeason()
	home, away := 112, 104
	entries[0].HomeScore = &home
	entries[0].AwayScore = &away
	authority := &stubLeague{}
	eng, cache := newTestEngine(authority, &stubFetcher{entries: entries})
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	scores := cache.RecentScores()
	if len(scores) != 2 {
		t.Fatalf("expected seeded game plus simulated game, got %+v", scores)
	}
	if scores[0].GameID != "g2" || scores[1].GameID != "g1" {
		t.Fatalf("expected newest first, got %+v", scores)
	}
}

func TestEnsureScheduleRequiresSelection(t *testing.T) {
	eng, _ := newTestEngine(&stubLeague{}, &stubFetcher{entries: twoGameSeason()})

	if _, err := eng.EnsureSchedule(context.Background()); !errors.Is(err, ErrNoTeamSelected) {
		t.Fatalf("expected ErrNoTeamSelected, got %v", err)
	}
}

func TestEnsureScheduleSeedsScoresBeforeFirstAdvance(t *testing.T) {
	entries := twoGameSeason()
	home, away := 112, 104
	entries[0].HomeScore = &home
	entries[0].AwayScore = &away
	fetcher := &stubFetcher{entries: entries}
	eng, cache := newTestEngine(&stubLeague{}, fetcher)
	if err := eng.SelectTeam("LAL"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	// The first load comes from a read path, not an advance.
	snapshot, err := eng.EnsureSchedule(context.Background())
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if len(snapshot.Entries) != 2 || snapshot.Cursor != 1 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	scores := cache.RecentScores()
	if len(scores) != 1 || scores[0].GameID != "g1" {
		t.Fatalf("expected the pre-decided game seeded on load, got %+v", scores)
	}

	if _, err := eng.AdvanceGame(context.Background()); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	scores = cache.RecentScores()
	if len(scores) != 2 || scores[0].GameID != "g2" || scores[1].GameID != "g1" {
		t.Fatalf("expected the seeded game kept across the advance, got %+v", scores)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected a single schedule fetch, got %d", fetcher.calls)
	}
}
