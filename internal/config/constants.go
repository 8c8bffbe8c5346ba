package config

import "time"

const (
	envPort           = "PORT"
	envLeagueBaseURL  = "LEAGUE_BASE_URL"
	envLeagueTimeout  = "LEAGUE_TIMEOUT"
	envLeagueRetries  = "LEAGUE_MAX_RETRIES"
	envReportKey      = "REPORT_API_KEY"
	envRecentScoreCap = "RECENT_SCORES_LIMIT"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort          = "4000"
	defaultLeagueBaseURL = "http://localhost:8000"
	// Upstream simulation of a full day of league games can take a while.
	defaultLeagueTimeout = 60 * Duration(time.Second)
	defaultLeagueRetries = 3
	// How many decided games the recent-scores view retains.
	defaultRecentScoreCap = 25
	defaultMetricsPort    = "9090"
)
