// Package engine drives the user's franchise through the regular season.
// Each advance is one full turn: catch the rest of the league up to the
// next game's date, project tactics with fatigue applied, ask the league
// authority to simulate, then commit the decided result to the schedule
// and the derived views.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/fatigue"
	"nba-season-engine/internal/league"
	"nba-season-engine/internal/logging"
	"nba-season-engine/internal/metrics"
	"nba-season-engine/internal/schedule"
	"nba-season-engine/internal/tactics"
	"nba-season-engine/internal/views"
)

var (
	// ErrAdvanceInProgress is returned when an advance is requested while
	// another one is still running. Turns never overlap.
	ErrAdvanceInProgress = errors.New("engine: an advance is already in progress")
	// ErrNoTeamSelected is returned when a turn is requested before a
	// franchise has been selected.
	ErrNoTeamSelected = errors.New("engine: no franchise selected")
)

// Authority is the subset of league commands a turn needs.
type Authority interface {
	AdvanceLeague(ctx context.Context, targetDate, userTeamID string) ([]domain.DecidedGame, error)
	SimulateGame(ctx context.Context, homeID, awayID string, homeTactics, awayTactics domain.TacticsPayload, gameDate string) (league.SimulationResult, error)
	SeasonReport(ctx context.Context, userTeamID string) (string, error)
	HasReportCredential() bool
}

// Status is a read-only snapshot of the engine for handlers.
type Status struct {
	TeamID         string `json:"teamId,omitempty"`
	Turn           int    `json:"turn"`
	CurrentDate    string `json:"currentDate,omitempty"`
	Busy           bool   `json:"busy"`
	SeasonComplete bool   `json:"seasonComplete"`
}

// Engine owns the per-franchise season state and serializes turns.
type Engine struct {
	authority Authority
	schedule  *schedule.Store
	tactics   *tactics.Store
	views     *views.Cache
	metrics   *metrics.Recorder
	logger    *slog.Logger

	mu          sync.RWMutex
	busy        bool
	userTeamID  string
	turn        int
	currentDate string
	seasonDone  bool
}

// New wires an engine around its collaborators. metrics and logger may be
// nil.
func New(authority Authority, scheduleStore *schedule.Store, tacticsStore *tactics.Store, cache *views.Cache, recorder *metrics.Recorder, logger *slog.Logger) *Engine {
	return &Engine{
		authority: authority,
		schedule:  scheduleStore,
		tactics:   tacticsStore,
		views:     cache,
		metrics:   recorder,
		logger:    logger,
	}
}

// SelectTeam switches the engine to a new franchise. Schedule, tactics,
// and incremental views from the previous franchise are discarded.
// Selecting the already active team is a no-op.
func (e *Engine) SelectTeam(teamID string) error {
	if !e.acquire() {
		return ErrAdvanceInProgress
	}
	defer e.release()

	e.mu.Lock()
	if e.userTeamID == teamID {
		e.mu.Unlock()
		return nil
	}
	e.userTeamID = teamID
	e.turn = 0
	e.currentDate = ""
	e.seasonDone = false
	e.mu.Unlock()

	e.schedule.Reset()
	e.tactics.Reset()
	e.views.Reset()

	logging.Info(e.logger, "franchise selected", slog.String("team_id", teamID))
	return nil
}

// UserTeamID returns the currently selected franchise, or "".
func (e *Engine) UserTeamID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.userTeamID
}

// Status returns the current engine snapshot.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Status{
		TeamID:         e.userTeamID,
		Turn:           e.turn,
		CurrentDate:    e.currentDate,
		Busy:           e.busy,
		SeasonComplete: e.seasonDone,
	}
}

// EnsureSchedule loads the selected franchise's schedule if needed and
// returns a snapshot. All schedule loads go through here so that games
// already decided at load time reach the recent-scores view no matter
// which caller triggered the load.
func (e *Engine) EnsureSchedule(ctx context.Context) (domain.Schedule, error) {
	teamID := e.UserTeamID()
	if teamID == "" {
		return domain.Schedule{}, ErrNoTeamSelected
	}
	if err := e.ensureSchedule(ctx, teamID); err != nil {
		return domain.Schedule{}, err
	}
	return e.schedule.Snapshot(), nil
}

func (e *Engine) ensureSchedule(ctx context.Context, teamID string) error {
	loaded, err := e.schedule.EnsureLoaded(ctx, teamID)
	if err != nil {
		return err
	}
	if loaded {
		e.seedScoreView()
	}
	return nil
}

// AdvanceGame runs a single turn. Only one turn may be in flight at a
// time; concurrent calls fail fast with ErrAdvanceInProgress.
func (e *Engine) AdvanceGame(ctx context.Context) (domain.TurnResult, error) {
	if !e.acquire() {
		return domain.TurnResult{}, ErrAdvanceInProgress
	}
	defer e.release()
	return e.runTurn(ctx)
}

// AdvanceBatch runs up to count turns back to back under a single busy
// guard, stopping at the first unsuccessful turn. count below 1 means one
// turn.
func (e *Engine) AdvanceBatch(ctx context.Context, count int) ([]domain.TurnResult, error) {
	if !e.acquire() {
		return nil, ErrAdvanceInProgress
	}
	defer e.release()

	if count < 1 {
		count = 1
	}
	results := make([]domain.TurnResult, 0, count)
	for i := 0; i < count; i++ {
		result, err := e.runTurn(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if !result.Success {
			break
		}
	}
	return results, nil
}

func (e *Engine) acquire() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return false
	}
	e.busy = true
	return true
}

func (e *Engine) release() {
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

// runTurn executes one turn with the busy guard already held.
func (e *Engine) runTurn(ctx context.Context) (domain.TurnResult, error) {
	start := time.Now()
	result, err := e.advance(ctx)

	turnErr := err
	if turnErr == nil && !result.Success {
		turnErr = errors.New(result.Reason)
	}
	e.metrics.RecordTurn(time.Since(start), turnErr)
	return result, err
}

func (e *Engine) advance(ctx context.Context) (domain.TurnResult, error) {
	teamID := e.UserTeamID()
	if teamID == "" {
		return domain.TurnResult{}, ErrNoTeamSelected
	}

	if err := e.ensureSchedule(ctx, teamID); err != nil {
		if errors.Is(err, schedule.ErrEmptySchedule) {
			return domain.TurnResult{Reason: domain.ReasonEmptySchedule}, nil
		}
		logging.Error(e.logger, "schedule load failed", err, slog.String("team_id", teamID))
		return domain.TurnResult{Reason: domain.ReasonScheduleLoadFailed}, nil
	}

	next, err := e.schedule.NextGame()
	if errors.Is(err, schedule.ErrSeasonComplete) {
		return e.finishSeason(ctx, teamID), nil
	}
	if err != nil {
		return domain.TurnResult{Reason: domain.ReasonScheduleLoadFailed}, nil
	}

	e.catchUpLeague(ctx, next.Date, teamID)

	reading := fatigue.Reading(e.schedule.Snapshot(), teamID)
	userPayload := tactics.Project(e.tactics.ProfileFor(teamID), reading.Factor)
	opponentPayload := tactics.Neutral()

	homePayload, awayPayload := opponentPayload, userPayload
	if next.HomeTeamID == teamID {
		homePayload, awayPayload = userPayload, opponentPayload
	}

	sim, err := e.authority.SimulateGame(ctx, next.HomeTeamID, next.AwayTeamID, homePayload, awayPayload, next.Date)
	if err != nil {
		logging.Error(e.logger, "simulation failed", err, slog.String("game_id", next.GameID))
		return domain.TurnResult{Reason: domain.ReasonSimulationFailed}, nil
	}

	homeScore, homeOK := sim.FinalScore[next.HomeTeamID]
	awayScore, awayOK := sim.FinalScore[next.AwayTeamID]
	if !homeOK || !awayOK {
		logging.Error(e.logger, "simulation result missing a team score", nil, slog.String("game_id", next.GameID))
		return domain.TurnResult{Reason: domain.ReasonInvalidResult}, nil
	}

	entry, err := e.schedule.ApplyResult(next.GameID, homeScore, awayScore)
	if err != nil {
		logging.Error(e.logger, "result rejected", err, slog.String("game_id", next.GameID))
		return domain.TurnResult{Reason: domain.ReasonInvalidResult}, nil
	}

	e.commitViews(entry, teamID)

	e.mu.Lock()
	e.turn++
	turn := e.turn
	e.currentDate = entry.Date
	e.mu.Unlock()

	logEntry := sim.Commentary
	if logEntry == "" {
		logEntry = gameSummary(entry)
	}

	logging.Info(e.logger, "turn complete",
		slog.Int("turn", turn),
		slog.String("game_id", entry.GameID),
		slog.String("date", entry.Date),
		slog.String("result", string(entry.Result)),
	)

	return domain.TurnResult{
		Success:    true,
		Turn:       turn,
		GameID:     entry.GameID,
		GameDate:   entry.Date,
		HomeTeamID: entry.HomeTeamID,
		AwayTeamID: entry.AwayTeamID,
		HomeScore:  *entry.HomeScore,
		AwayScore:  *entry.AwayScore,
		Result:     entry.Result,
		LogEntry:   logEntry,
	}, nil
}

// finishSeason marks the regular season exhausted and, when a report
// credential is configured, attaches a season report to the result. A
// failed or impossible report attempt surfaces a note on the result
// instead of blocking the turn.
func (e *Engine) finishSeason(ctx context.Context, teamID string) domain.TurnResult {
	e.mu.Lock()
	e.seasonDone = true
	e.mu.Unlock()

	result := domain.TurnResult{Reason: domain.ReasonNoMoreRegularSeason}
	if !e.authority.HasReportCredential() {
		logging.Warn(e.logger, "season report unavailable, no report credential configured",
			slog.String("team_id", teamID))
		result.LogEntry = "Season complete. Season report unavailable: no report credential configured."
		return result
	}
	report, err := e.authority.SeasonReport(ctx, teamID)
	if err != nil {
		logging.Warn(e.logger, "season report failed",
			slog.String("team_id", teamID),
			slog.String("error", err.Error()),
		)
		return result
	}
	result.Report = report
	return result
}

// catchUpLeague simulates the rest of the league up to targetDate. The
// catch-up is best effort: a failure is logged and the turn proceeds, so
// transient authority errors never block the user's own game.
func (e *Engine) catchUpLeague(ctx context.Context, targetDate, teamID string) {
	decided, err := e.authority.AdvanceLeague(ctx, targetDate, teamID)
	if err != nil {
		logging.Warn(e.logger, "league catch-up failed",
			slog.String("target_date", targetDate),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(decided) > 0 {
		e.views.MergeScores(decided)
	}
}

// seedScoreView primes the recent-scores view from games already decided
// when the schedule was first loaded.
func (e *Engine) seedScoreView() {
	played := e.schedule.RecentDecided()
	if len(played) == 0 {
		return
	}
	games := make([]domain.DecidedGame, 0, len(played))
	for _, entry := range played {
		games = append(games, decidedGame(entry))
	}
	e.views.SeedScores(games)
	e.views.SetLatestDate(played[0].Date)
}

// commitViews pushes the decided game into the incremental views,
// synthesizes a news item, and marks the refetchable views stale.
func (e *Engine) commitViews(entry domain.ScheduleEntry, teamID string) {
	e.views.PushScore(decidedGame(entry))
	e.views.SetLatestDate(entry.Date)
	e.views.PushNews(newsFor(entry, teamID))
	e.views.Invalidate(views.GameInvalidated...)
}

func decidedGame(entry domain.ScheduleEntry) domain.DecidedGame {
	return domain.DecidedGame{
		GameID:     entry.GameID,
		Date:       entry.Date,
		HomeTeamID: entry.HomeTeamID,
		AwayTeamID: entry.AwayTeamID,
		HomeScore:  *entry.HomeScore,
		AwayScore:  *entry.AwayScore,
	}
}

func newsFor(entry domain.ScheduleEntry, teamID string) domain.NewsItem {
	winner, loser := entry.HomeTeamID, entry.AwayTeamID
	winScore, loseScore := *entry.HomeScore, *entry.AwayScore
	if loseScore > winScore {
		winner, loser = loser, winner
		winScore, loseScore = loseScore, winScore
	}
	title := fmt.Sprintf("%s defeat %s %d-%d", winner, loser, winScore, loseScore)
	body := fmt.Sprintf("%s beat %s %d-%d on %s.", winner, loser, winScore, loseScore, entry.Date)
	if winner == teamID {
		body = fmt.Sprintf("Your %s beat %s %d-%d on %s.", teamID, entry.Opponent(teamID), winScore, loseScore, entry.Date)
	}
	return domain.NewsItem{
		ID:    uuid.NewString(),
		Date:  entry.Date,
		Title: title,
		Body:  body,
	}
}

func gameSummary(entry domain.ScheduleEntry) string {
	return fmt.Sprintf("Final: %s %d, %s %d", entry.HomeTeamID, *entry.HomeScore, entry.AwayTeamID, *entry.AwayScore)
}
