package league

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/logging"
	"nba-season-engine/internal/metrics"
)

// Endpoint names used for metrics and logging.
const (
	EndpointSchedule         = "schedule"
	EndpointAdvanceLeague    = "advance-league"
	EndpointSimulateGame     = "simulate-game"
	EndpointSeasonReport     = "season-report"
	EndpointPostseasonReset  = "postseason-reset"
	EndpointPostseasonSetup  = "postseason-setup"
	EndpointPostseasonState  = "postseason-state"
	EndpointPlayInGame       = "play-in-my-team-game"
	EndpointSeriesGame       = "playoffs-advance-my-team-game"
	EndpointAutoAdvanceRound = "playoffs-auto-advance-round"
)

const defaultTimeout = 60 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the league authority.
type Config struct {
	BaseURL      string
	ReportAPIKey string
	HTTPClient   *http.Client
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// Client speaks to the external league authority over HTTP and maps its
// responses to domain models. Reads are retried; commands are not, since a
// command may have been applied even when the response was lost.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	logger     *slog.Logger
	metrics    *metrics.Recorder
	maxRetries int
	backoffFn  func(attempt int) time.Duration
}

// NewClient constructs a league client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.ReportAPIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		maxRetries: resolveRetries(cfg.MaxRetries),
		backoffFn:  resolveBackoff(cfg.RetryBackoff),
	}
}

// FetchSchedule retrieves a team's full season schedule.
func (c *Client) FetchSchedule(ctx context.Context, teamID string) ([]domain.ScheduleEntry, error) {
	var payload scheduleResponse
	if err := c.getJSONRetry(ctx, EndpointSchedule, "/api/schedule/"+teamID, &payload); err != nil {
		return nil, err
	}

	entries := make([]domain.ScheduleEntry, 0, len(payload.Games))
	for _, g := range payload.Games {
		entries = append(entries, domain.ScheduleEntry{
			GameID:     g.GameID,
			Date:       g.Date,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
			HomeScore:  g.HomeScore,
			AwayScore:  g.AwayScore,
		})
	}
	return entries, nil
}

// AdvanceLeague asks the authority to simulate every other league game up to
// and including targetDate, excluding the user team's own game.
func (c *Client) AdvanceLeague(ctx context.Context, targetDate, userTeamID string) ([]domain.DecidedGame, error) {
	req := advanceLeagueRequest{TargetDate: targetDate, UserTeamID: userTeamID}
	var payload advanceLeagueResponse
	if err := c.postJSON(ctx, EndpointAdvanceLeague, "/api/advance-league", req, &payload); err != nil {
		return nil, err
	}

	decided := make([]domain.DecidedGame, 0, len(payload.SimulatedGames))
	for _, g := range payload.SimulatedGames {
		decided = append(decided, domain.DecidedGame{
			GameID:     g.GameID,
			Date:       g.Date,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
			HomeScore:  g.HomeScore,
			AwayScore:  g.AwayScore,
		})
	}
	return decided, nil
}

// SimulateGame invokes the external match simulator for a single game.
func (c *Client) SimulateGame(ctx context.Context, homeID, awayID string, homeTactics, awayTactics domain.TacticsPayload, gameDate string) (SimulationResult, error) {
	req := simulateGameRequest{
		HomeTeamID:  homeID,
		AwayTeamID:  awayID,
		HomeTactics: homeTactics,
		AwayTactics: awayTactics,
		GameDate:    gameDate,
	}
	var payload simulateGameResponse
	if err := c.postJSON(ctx, EndpointSimulateGame, "/api/simulate-game", req, &payload); err != nil {
		return SimulationResult{}, err
	}
	if len(payload.FinalScore) == 0 {
		return SimulationResult{}, fmt.Errorf("league %s: response missing final_score", EndpointSimulateGame)
	}
	return SimulationResult{FinalScore: payload.FinalScore, Commentary: payload.Commentary}, nil
}

// SeasonReport requests a narrative season report for the user's team.
func (c *Client) SeasonReport(ctx context.Context, userTeamID string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoCredential
	}
	req := seasonReportRequest{APIKey: c.apiKey, UserTeamID: userTeamID}
	var payload seasonReportResponse
	if err := c.postJSON(ctx, EndpointSeasonReport, "/api/season-report", req, &payload); err != nil {
		return "", err
	}
	if payload.ReportMarkdown != "" {
		return payload.ReportMarkdown, nil
	}
	return payload.Report, nil
}

// HasReportCredential reports whether a season-report credential is configured.
func (c *Client) HasReportCredential() bool {
	return c.apiKey != ""
}

func (c *Client) getJSONRetry(ctx context.Context, endpoint, path string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		lastErr = c.getJSON(ctx, endpoint, path, out)
		if lastErr == nil {
			return nil
		}
		if attempt == c.maxRetries {
			break
		}
		logging.Warn(c.logger, "league fetch retry", "endpoint", endpoint, "attempt", attempt, "max_attempts", c.maxRetries, "err", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoffFn(attempt)):
		}
	}
	return lastErr
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(endpoint, req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint, path string, body, out any) error {
	buf := &bytes.Buffer{}
	if body == nil {
		body = struct{}{}
	}
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(endpoint, req, out)
}

func (c *Client) do(endpoint string, req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordUpstreamCall(endpoint, time.Since(start), err)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		return "http://localhost:8000"
	}
	return strings.TrimRight(raw, "/")
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultTimeout}
}

func resolveRetries(n int) int {
	if n <= 0 {
		return 3
	}
	return n
}

func resolveBackoff(backoff time.Duration) func(int) time.Duration {
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * backoff
	}
}
