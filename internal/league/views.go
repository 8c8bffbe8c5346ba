package league

import (
	"context"
	"encoding/json"
)

// View endpoint names for the read-and-cache surfaces.
const (
	EndpointStandings      = "standings"
	EndpointStatsLeaders   = "stats-leaders"
	EndpointPlayoffLeaders = "playoff-leaders"
	EndpointTeams          = "teams"
	EndpointTeamDetail     = "team-detail"
	EndpointWeeklyNews     = "news-week"
	EndpointPlayoffNews    = "news-playoffs"
)

// FetchStandings returns the authority's standings payload verbatim. The
// engine caches these views without interpreting them.
func (c *Client) FetchStandings(ctx context.Context) (json.RawMessage, error) {
	return c.fetchRaw(ctx, EndpointStandings, "/api/standings")
}

// FetchStatsLeaders returns the regular-season stat leaderboards.
func (c *Client) FetchStatsLeaders(ctx context.Context) (json.RawMessage, error) {
	return c.fetchRaw(ctx, EndpointStatsLeaders, "/api/stats/leaders")
}

// FetchPlayoffLeaders returns the postseason stat leaderboards.
func (c *Client) FetchPlayoffLeaders(ctx context.Context) (json.RawMessage, error) {
	return c.fetchRaw(ctx, EndpointPlayoffLeaders, "/api/stats/playoffs/leaders")
}

// FetchTeams returns the league team list.
func (c *Client) FetchTeams(ctx context.Context) (json.RawMessage, error) {
	return c.fetchRaw(ctx, EndpointTeams, "/api/teams")
}

// FetchTeamDetail returns one team's detail payload.
func (c *Client) FetchTeamDetail(ctx context.Context, teamID string) (json.RawMessage, error) {
	return c.fetchRaw(ctx, EndpointTeamDetail, "/api/team-detail/"+teamID)
}

// FetchWeeklyNews asks the authority for the current week's generated news.
func (c *Client) FetchWeeklyNews(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, EndpointWeeklyNews, "/api/news/week", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchPlayoffNews asks the authority for generated playoff news.
func (c *Client) FetchPlayoffNews(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, EndpointPlayoffNews, "/api/news/playoffs", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) fetchRaw(ctx context.Context, endpoint, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSONRetry(ctx, endpoint, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
