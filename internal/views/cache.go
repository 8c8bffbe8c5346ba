package views

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/logging"
)

// View names the lazily-cached presentation payloads.
type View string

const (
	ViewStandings      View = "standings"
	ViewStatsLeaders   View = "stats_leaders"
	ViewPlayoffLeaders View = "playoff_leaders"
	ViewTeams          View = "teams"
	ViewWeeklyNews     View = "weekly_news"
	ViewPlayoffNews    View = "playoff_news"
)

// GameInvalidated lists the views marked stale after every applied game.
var GameInvalidated = []View{ViewStandings, ViewStatsLeaders, ViewTeams, ViewWeeklyNews}

// Source fetches view payloads from the league authority.
type Source interface {
	FetchStandings(ctx context.Context) (json.RawMessage, error)
	FetchStatsLeaders(ctx context.Context) (json.RawMessage, error)
	FetchPlayoffLeaders(ctx context.Context) (json.RawMessage, error)
	FetchTeams(ctx context.Context) (json.RawMessage, error)
	FetchWeeklyNews(ctx context.Context) (json.RawMessage, error)
	FetchPlayoffNews(ctx context.Context) (json.RawMessage, error)
}

type cacheEntry struct {
	payload  json.RawMessage
	loadedAt *time.Time
}

// Cache holds the engine's read-side state: marker-gated lazy views plus
// the incrementally maintained recent-scores and news lists, which are
// never refetched.
type Cache struct {
	mu     sync.Mutex
	source Source
	logger *slog.Logger
	now    func() time.Time

	entries    map[View]*cacheEntry
	scores     []domain.DecidedGame
	scoreLimit int
	news       []domain.NewsItem
	latestDate string
}

const defaultScoreLimit = 25
const newsLimit = 50

// NewCache constructs an empty view cache backed by the given source.
func NewCache(source Source, scoreLimit int, logger *slog.Logger) *Cache {
	if scoreLimit <= 0 {
		scoreLimit = defaultScoreLimit
	}
	return &Cache{
		source:     source,
		logger:     logger,
		now:        time.Now,
		entries:    make(map[View]*cacheEntry),
		scoreLimit: scoreLimit,
	}
}

// Get returns the cached payload for a view, fetching only when it has
// never been loaded, has been invalidated, or force is set.
func (c *Cache) Get(ctx context.Context, view View, force bool) (json.RawMessage, error) {
	c.mu.Lock()
	entry, ok := c.entries[view]
	if ok && entry.loadedAt != nil && !force {
		payload := entry.payload
		c.mu.Unlock()
		return payload, nil
	}
	c.mu.Unlock()

	payload, err := c.fetch(ctx, view)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	loaded := c.now()
	c.entries[view] = &cacheEntry{payload: payload, loadedAt: &loaded}
	c.mu.Unlock()

	logging.Info(c.logger, "view refreshed", slog.String("view", string(view)))
	return payload, nil
}

// Invalidate nulls the load markers for the given views so the next access
// refetches.
func (c *Cache) Invalidate(views ...View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, view := range views {
		if entry, ok := c.entries[view]; ok {
			entry.loadedAt = nil
		}
	}
}

// Loaded reports whether a view currently holds a fresh payload.
func (c *Cache) Loaded(view View) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[view]
	return ok && entry.loadedAt != nil
}

// SeedScores replaces the recent-scores list wholesale, typically from
// already-decided schedule entries after a load. Input order is preserved.
func (c *Cache) SeedScores(games []domain.DecidedGame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores = append([]domain.DecidedGame(nil), games...)
	c.trimScoresLocked()
}

// PushScore prepends one decided game to the recent-scores list.
func (c *Cache) PushScore(game domain.DecidedGame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores = append([]domain.DecidedGame{game}, c.scores...)
	c.trimScoresLocked()
}

// MergeScores prepends a batch of decided games, keeping most-recent-first
// order within the batch.
func (c *Cache) MergeScores(games []domain.DecidedGame) {
	if len(games) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := make([]domain.DecidedGame, 0, len(games)+len(c.scores))
	merged = append(merged, games...)
	merged = append(merged, c.scores...)
	c.scores = merged
	c.trimScoresLocked()

	for _, g := range games {
		if g.Date > c.latestDate {
			c.latestDate = g.Date
		}
	}
}

// RecentScores returns a copy of the recent-scores list, newest first.
func (c *Cache) RecentScores() []domain.DecidedGame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.DecidedGame(nil), c.scores...)
}

// PushNews prepends a synthesized news item.
func (c *Cache) PushNews(item domain.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.news = append([]domain.NewsItem{item}, c.news...)
	if len(c.news) > newsLimit {
		c.news = c.news[:newsLimit]
	}
}

// News returns a copy of the synthesized news items, newest first.
func (c *Cache) News() []domain.NewsItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.NewsItem(nil), c.news...)
}

// SetLatestDate advances the latest-date marker; earlier dates are ignored.
func (c *Cache) SetLatestDate(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if date > c.latestDate {
		c.latestDate = date
	}
}

// LatestDate returns the most recent game date observed in view state.
func (c *Cache) LatestDate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latestDate
}

// Reset drops all cached and incremental state, typically on team switch.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[View]*cacheEntry)
	c.scores = nil
	c.news = nil
	c.latestDate = ""
}

func (c *Cache) fetch(ctx context.Context, view View) (json.RawMessage, error) {
	switch view {
	case ViewStandings:
		return c.source.FetchStandings(ctx)
	case ViewStatsLeaders:
		return c.source.FetchStatsLeaders(ctx)
	case ViewPlayoffLeaders:
		return c.source.FetchPlayoffLeaders(ctx)
	case ViewTeams:
		return c.source.FetchTeams(ctx)
	case ViewWeeklyNews:
		return c.source.FetchWeeklyNews(ctx)
	case ViewPlayoffNews:
		return c.source.FetchPlayoffNews(ctx)
	default:
		return nil, fmt.Errorf("views: unknown view %q", view)
	}
}

func (c *Cache) trimScoresLocked() {
	if len(c.scores) > c.scoreLimit {
		c.scores = c.scores[:c.scoreLimit]
	}
}
