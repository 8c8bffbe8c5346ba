package config

// Config holds runtime configuration for the engine server.
type Config struct {
	Port             string
	RecentScoreLimit int
	League           LeagueConfig
	Metrics          MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:             envOrDefault(envPort, defaultPort),
		RecentScoreLimit: intEnvOrDefault(envRecentScoreCap, defaultRecentScoreCap),
		League:           loadLeague(),
		Metrics:          loadMetrics(),
	}
}
