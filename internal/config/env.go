package config

import (
	"os"
	"time"
)

const (
	envAPIKey    = "THE_SPORTSDB_KEY"
	envUIDDomain = "ICS_DOMAIN"
	envTimezone  = "DEFAULT_TZ"
	envAPIBase   = "SPORTSCAL_API_BASE"
	envTeams     = "SPORTSCAL_TEAMS"
	envOutput    = "SPORTSCAL_OUTPUT"
	envTimeout   = "SPORTSCAL_FETCH_TIMEOUT"
	envLogLevel  = "SPORTSCAL_LOG_LEVEL"
	envWatchCron = "SPORTSCAL_WATCH_CRON"
	envListen    = "SPORTSCAL_LISTEN"
)

// ApplyEnv overrides fields from the process environment. Unset or empty
// variables leave the current value alone.
func (c *Config) ApplyEnv() {
	c.APIKey = envOrDefault(envAPIKey, c.APIKey)
	c.UIDDomain = envOrDefault(envUIDDomain, c.UIDDomain)
	c.Timezone = envOrDefault(envTimezone, c.Timezone)
	c.APIBase = envOrDefault(envAPIBase, c.APIBase)
	c.Teams = envOrDefault(envTeams, c.Teams)
	c.Output = envOrDefault(envOutput, c.Output)
	c.FetchTimeout = durationEnvOrDefault(envTimeout, c.FetchTimeout)
	c.LogLevel = envOrDefault(envLogLevel, c.LogLevel)
	c.Watch.Cron = envOrDefault(envWatchCron, c.Watch.Cron)
	c.Watch.Listen = envOrDefault(envListen, c.Watch.Listen)
}

func envOrDefault(key, defaultValue string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}
	return defaultValue
}

func durationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
