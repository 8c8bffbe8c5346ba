// Package handlers exposes the season engine over HTTP. Handlers stay
// thin: they decode requests, call into the engine or its stores, and map
// sentinel errors to status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nba-season-engine/internal/engine"
	"nba-season-engine/internal/league"
	"nba-season-engine/internal/logging"
	"nba-season-engine/internal/postseason"
	"nba-season-engine/internal/schedule"
	"nba-season-engine/internal/tactics"
	"nba-season-engine/internal/views"
)

// TeamDetailFetcher reads one team's detail payload from the authority.
// Team detail is served pass-through, never cached.
type TeamDetailFetcher interface {
	FetchTeamDetail(ctx context.Context, teamID string) (json.RawMessage, error)
}

// Handler wires HTTP routes to the engine and its stores.
type Handler struct {
	engine     *engine.Engine
	tactics    *tactics.Store
	views      *views.Cache
	postseason *postseason.Machine
	teamDetail TeamDetailFetcher
	logger     *slog.Logger
}

// NewHandler constructs a Handler. teamDetail may be nil, which disables
// the team-detail route.
func NewHandler(eng *engine.Engine, tacticsStore *tactics.Store, cache *views.Cache, machine *postseason.Machine, teamDetail TeamDetailFetcher, logger *slog.Logger) *Handler {
	return &Handler{
		engine:     eng,
		tactics:    tacticsStore,
		views:      cache,
		postseason: machine,
		teamDetail: teamDetail,
		logger:     logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

type selectTeamRequest struct {
	TeamID string `json:"team_id"`
}

// SelectTeam switches the active franchise and resets per-team state.
func (h *Handler) SelectTeam(w http.ResponseWriter, r *http.Request) {
	var req selectTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TeamID == "" {
		writeError(w, r, http.StatusBadRequest, "team_id is required", h.logger)
		return
	}
	if err := h.engine.SelectTeam(req.TeamID); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Status(), h.logger)
}

type advanceRequest struct {
	Games int `json:"games"`
}

// Advance runs one turn, or a batch when the body carries games > 1.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}
	}
	logger := loggerFromContext(r, h.logger)

	if req.Games > 1 {
		results, err := h.engine.AdvanceBatch(r.Context(), req.Games)
		if err != nil {
			h.writeEngineError(w, r, err)
			return
		}
		logging.Info(logger, "batch advanced", slog.Int("requested", req.Games), slog.Int("completed", len(results)))
		writeJSON(w, http.StatusOK, results, h.logger)
		return
	}

	result, err := h.engine.AdvanceGame(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result, h.logger)
}

// Status returns the engine snapshot.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Status(), h.logger)
}

// Schedule returns the loaded season schedule for the active franchise.
// Loading goes through the engine so a first load triggered here still
// primes the recent-scores view from already-decided games.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.engine.EnsureSchedule(r.Context())
	if err != nil {
		if errors.Is(err, engine.ErrNoTeamSelected) {
			writeError(w, r, http.StatusConflict, "no franchise selected", h.logger)
			return
		}
		h.writeScheduleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot, h.logger)
}

// RecentScores returns the incrementally maintained recent-scores list.
func (h *Handler) RecentScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.views.RecentScores(), h.logger)
}

// RecentNews returns the locally synthesized news items.
func (h *Handler) RecentNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.views.News(), h.logger)
}

// View handlers for the marker-gated caches. ?refresh=1 forces a refetch.

func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, views.ViewStandings)
}

func (h *Handler) StatsLeaders(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, views.ViewStatsLeaders)
}

func (h *Handler) PlayoffLeaders(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, views.ViewPlayoffLeaders)
}

func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, views.ViewTeams)
}

func (h *Handler) WeeklyNews(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, views.ViewWeeklyNews)
}

func (h *Handler) PlayoffNews(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, views.ViewPlayoffNews)
}

// TeamDetail proxies one team's detail payload from the authority.
func (h *Handler) TeamDetail(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	if teamID == "" || h.teamDetail == nil {
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
		return
	}
	payload, err := h.teamDetail.FetchTeamDetail(r.Context(), teamID)
	if err != nil {
		h.writeLeagueError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, payload, h.logger)
}

func (h *Handler) serveView(w http.ResponseWriter, r *http.Request, view views.View) {
	force := r.URL.Query().Get("refresh") == "1"
	payload, err := h.views.Get(r.Context(), view, force)
	if err != nil {
		h.writeLeagueError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, payload, h.logger)
}

// GetTactics returns the active franchise's tactics profile.
func (h *Handler) GetTactics(w http.ResponseWriter, r *http.Request) {
	teamID := h.engine.UserTeamID()
	if teamID == "" {
		writeError(w, r, http.StatusConflict, "no franchise selected", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.tactics.ProfileFor(teamID), h.logger)
}

type tacticsRequest struct {
	Pace                  *int           `json:"pace"`
	OffensePrimary        *string        `json:"offense_primary"`
	OffenseSecondary      *string        `json:"offense_secondary"`
	OffenseSecondaryShare *int           `json:"offense_secondary_share"`
	DefensePrimary        *string        `json:"defense_primary"`
	DefenseSecondary      *string        `json:"defense_secondary"`
	DefenseSecondaryShare *int           `json:"defense_secondary_share"`
	RotationSize          *int           `json:"rotation_size"`
	Starters              *[]string      `json:"starters"`
	Bench                 *[]string      `json:"bench"`
	Minutes               map[string]int `json:"minutes"`
}

// UpdateTactics applies a partial tactics update. Invalid updates are
// rejected whole; the stored profile is untouched on error.
func (h *Handler) UpdateTactics(w http.ResponseWriter, r *http.Request) {
	teamID := h.engine.UserTeamID()
	if teamID == "" {
		writeError(w, r, http.StatusConflict, "no franchise selected", h.logger)
		return
	}
	var req tacticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	profile, err := h.tactics.Apply(teamID, tactics.Update{
		Pace:                  req.Pace,
		OffensePrimary:        req.OffensePrimary,
		OffenseSecondary:      req.OffenseSecondary,
		OffenseSecondaryShare: req.OffenseSecondaryShare,
		DefensePrimary:        req.DefensePrimary,
		DefenseSecondary:      req.DefenseSecondary,
		DefenseSecondaryShare: req.DefenseSecondaryShare,
		RotationSize:          req.RotationSize,
		Starters:              req.Starters,
		Bench:                 req.Bench,
		Minutes:               req.Minutes,
	})
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, profile, h.logger)
}

type postseasonSetupRequest struct {
	MyTeamID       string `json:"my_team_id"`
	UseRandomField bool   `json:"use_random_field"`
}

// PostseasonSetup seeds a fresh bracket for the user's team.
func (h *Handler) PostseasonSetup(w http.ResponseWriter, r *http.Request) {
	var req postseasonSetupRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}
	}
	if req.MyTeamID == "" {
		req.MyTeamID = h.engine.UserTeamID()
	}
	if req.MyTeamID == "" {
		writeError(w, r, http.StatusBadRequest, "my_team_id is required", h.logger)
		return
	}
	state, err := h.postseason.Setup(r.Context(), req.MyTeamID, req.UseRandomField)
	if err != nil {
		h.writeLeagueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state, h.logger)
}

// PostseasonReset tears the bracket down.
func (h *Handler) PostseasonReset(w http.ResponseWriter, r *http.Request) {
	if err := h.postseason.Reset(r.Context()); err != nil {
		h.writeLeagueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"}, h.logger)
}

// PostseasonState returns the last refreshed snapshot without issuing
// commands. ?refresh=1 refetches from the authority first.
func (h *Handler) PostseasonState(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "1" {
		state, err := h.postseason.Refresh(r.Context())
		if err != nil {
			h.writeLeagueError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, state, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.postseason.State(), h.logger)
}

// PlayInGame resolves the user's pending play-in matchup.
func (h *Handler) PlayInGame(w http.ResponseWriter, r *http.Request) {
	state, err := h.postseason.PlayMyPlayInGame(r.Context())
	if err != nil {
		h.writePostseasonError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state, h.logger)
}

// SeriesGame plays the next game of the user's current series.
func (h *Handler) SeriesGame(w http.ResponseWriter, r *http.Request) {
	state, err := h.postseason.PlayMySeriesGame(r.Context())
	if err != nil {
		h.writePostseasonError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state, h.logger)
}

// AutoAdvanceRound simulates the remainder of the current round.
func (h *Handler) AutoAdvanceRound(w http.ResponseWriter, r *http.Request) {
	state, err := h.postseason.AutoAdvanceRound(r.Context())
	if err != nil {
		h.writePostseasonError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state, h.logger)
}

func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrAdvanceInProgress):
		writeError(w, r, http.StatusConflict, "an advance is already in progress", h.logger)
	case errors.Is(err, engine.ErrNoTeamSelected):
		writeError(w, r, http.StatusConflict, "no franchise selected", h.logger)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error", h.logger)
	}
}

func (h *Handler) writeScheduleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schedule.ErrEmptySchedule):
		writeError(w, r, http.StatusBadGateway, "the league returned an empty schedule", h.logger)
	default:
		h.writeLeagueError(w, r, err)
	}
}

func (h *Handler) writePostseasonError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, postseason.ErrNotInPlayIn),
		errors.Is(err, postseason.ErrNoPendingPlayInGame),
		errors.Is(err, postseason.ErrNotInPlayoffs),
		errors.Is(err, postseason.ErrNoActiveSeries),
		errors.Is(err, postseason.ErrUserSeriesPending):
		writeError(w, r, http.StatusConflict, err.Error(), h.logger)
	default:
		h.writeLeagueError(w, r, err)
	}
}

func (h *Handler) writeLeagueError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Error(loggerFromContext(r, h.logger), "league request failed", err)
	if statusErr, ok := league.AsStatusError(err); ok {
		writeError(w, r, http.StatusBadGateway, statusErr.Error(), h.logger)
		return
	}
	writeError(w, r, http.StatusBadGateway, "league unavailable", h.logger)
}
