package league

import "context"

// ResetPostseason tears down any prior postseason state on the authority.
func (c *Client) ResetPostseason(ctx context.Context) error {
	return c.postJSON(ctx, EndpointPostseasonReset, "/api/postseason/reset", nil, nil)
}

// SetupPostseason seeds the postseason bracket for the user's team. Seeding
// is computed by the authority, never locally.
func (c *Client) SetupPostseason(ctx context.Context, myTeamID string, useRandomField bool) error {
	req := postseasonSetupRequest{MyTeamID: myTeamID, UseRandomField: useRandomField}
	return c.postJSON(ctx, EndpointPostseasonSetup, "/api/postseason/setup", req, nil)
}

// FetchPostseasonState retrieves the full postseason snapshot.
func (c *Client) FetchPostseasonState(ctx context.Context) (PostseasonDoc, error) {
	var doc PostseasonDoc
	if err := c.getJSONRetry(ctx, EndpointPostseasonState, "/api/postseason/state", &doc); err != nil {
		return PostseasonDoc{}, err
	}
	return doc, nil
}

// PlayInMyTeamGame asks the authority to resolve the user team's pending
// play-in matchup.
func (c *Client) PlayInMyTeamGame(ctx context.Context) error {
	return c.postJSON(ctx, EndpointPlayInGame, "/api/postseason/play-in/my-team-game", nil, nil)
}

// AdvanceMySeriesGame asks the authority to simulate the next game of the
// user team's current playoff series.
func (c *Client) AdvanceMySeriesGame(ctx context.Context) error {
	return c.postJSON(ctx, EndpointSeriesGame, "/api/postseason/playoffs/advance-my-team-game", nil, nil)
}

// AutoAdvanceRound asks the authority to simulate the remainder of the
// current playoff round.
func (c *Client) AutoAdvanceRound(ctx context.Context) error {
	return c.postJSON(ctx, EndpointAutoAdvanceRound, "/api/postseason/playoffs/auto-advance-round", nil, nil)
}
