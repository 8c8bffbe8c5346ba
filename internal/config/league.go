package config

import "time"

// LeagueConfig controls how the engine reaches the external league authority.
type LeagueConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// ReportAPIKey, when set, is forwarded on season-report requests.
	ReportAPIKey string
}

func loadLeague() LeagueConfig {
	return LeagueConfig{
		BaseURL:      envOrDefault(envLeagueBaseURL, defaultLeagueBaseURL),
		Timeout:      durationEnvOrDefault(envLeagueTimeout, defaultLeagueTimeout),
		MaxRetries:   intEnvOrDefault(envLeagueRetries, defaultLeagueRetries),
		ReportAPIKey: envOrDefault(envReportKey, ""),
	}
}
