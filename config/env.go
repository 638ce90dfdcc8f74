package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadEnv reads .env files (when present) and applies FXDASH_* overrides
// plus the provider keys on top of c.
func (c *Config) LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	c.Server.Addr = getEnvWithDefault("FXDASH_ADDR", c.Server.Addr)
	c.Server.RefreshSeconds = getEnvIntWithDefault("FXDASH_REFRESH_SECONDS", c.Server.RefreshSeconds)

	c.Sentiment.Method = getEnvWithDefault("FXDASH_SENTIMENT_METHOD", c.Sentiment.Method)

	c.Risk.AccountBalance = getEnvFloatWithDefault("FXDASH_ACCOUNT_BALANCE", c.Risk.AccountBalance)
	c.Risk.DefaultRiskPercent = getEnvFloatWithDefault("FXDASH_RISK_PERCENT", c.Risk.DefaultRiskPercent)

	c.Sources.Kind = getEnvWithDefault("FXDASH_SOURCES", c.Sources.Kind)
	c.Sources.CalendarURL = getEnvWithDefault("FXDASH_CALENDAR_URL", c.Sources.CalendarURL)
	if feeds := os.Getenv("FXDASH_RSS_FEEDS"); feeds != "" {
		c.Sources.RSSFeeds = splitList(feeds)
	}
	if pairs := os.Getenv("FXDASH_PAIRS"); pairs != "" {
		c.Sources.Pairs = splitList(pairs)
	}
	c.Sources.OandaToken = getEnvWithDefault("OANDA_TOKEN", c.Sources.OandaToken)
	c.Sources.OandaEnv = getEnvWithDefault("OANDA_ENV", c.Sources.OandaEnv)

	c.Monitor.Enabled = getEnvBoolWithDefault("FXDASH_MONITOR", c.Monitor.Enabled)
	c.Monitor.Interval = getEnvWithDefault("FXDASH_MONITOR_INTERVAL", c.Monitor.Interval)

	c.LLM.APIKey = getEnvWithDefault("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.Enabled = getEnvBoolWithDefault("FXDASH_LLM", c.LLM.Enabled || c.LLM.APIKey != "")
	c.LLM.Model = getEnvWithDefault("FXDASH_LLM_MODEL", c.LLM.Model)

	c.Journal.Driver = getEnvWithDefault("FXDASH_JOURNAL_DRIVER", c.Journal.Driver)
	c.Journal.DSN = getEnvWithDefault("FXDASH_JOURNAL_DSN", c.Journal.DSN)

	c.Log.Level = getEnvWithDefault("FXDASH_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvWithDefault("FXDASH_LOG_FORMAT", c.Log.Format)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
