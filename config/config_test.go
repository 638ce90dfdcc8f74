package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 50, cfg.Scoring.SafetyBase)
	assert.Equal(t, 10000.0, cfg.Risk.AccountBalance)
	assert.Equal(t, 2.0, cfg.Risk.DefaultRiskPercent)
	assert.Equal(t, "lexicon", cfg.Sentiment.Method)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name:    "safety base out of range",
			mutate:  func(c *Config) { c.Scoring.SafetyBase = 120 },
			wantErr: true,
			errMsg:  "scoring.safety_base must be between 0 and 100",
		},
		{
			name:    "signal threshold zero",
			mutate:  func(c *Config) { c.Scoring.SignalThreshold = 0 },
			wantErr: true,
			errMsg:  "scoring.signal_threshold",
		},
		{
			name:    "unknown sentiment method",
			mutate:  func(c *Config) { c.Sentiment.Method = "magic" },
			wantErr: true,
			errMsg:  "sentiment.method must be 'lexicon' or 'keyword'",
		},
		{
			name:    "negative balance",
			mutate:  func(c *Config) { c.Risk.AccountBalance = -1000 },
			wantErr: true,
			errMsg:  "risk.account_balance must be positive",
		},
		{
			name:    "default risk above max",
			mutate:  func(c *Config) { c.Risk.DefaultRiskPercent = 6 },
			wantErr: true,
			errMsg:  "risk.default_risk_percent",
		},
		{
			name:    "live without feeds",
			mutate:  func(c *Config) { c.Sources.Kind = "live" },
			wantErr: true,
			errMsg:  "live kind needs calendar_url or rss_feeds",
		},
		{
			name:    "bad pair",
			mutate:  func(c *Config) { c.Sources.Pairs = []string{"EURUSD", "EU"} },
			wantErr: true,
			errMsg:  "sources.pairs",
		},
		{
			name:    "bad interval",
			mutate:  func(c *Config) { c.Monitor.Interval = "soon" },
			wantErr: true,
			errMsg:  "monitor.interval",
		},
		{
			name:    "unknown journal driver",
			mutate:  func(c *Config) { c.Journal.Driver = "mysql" },
			wantErr: true,
			errMsg:  "journal.driver must be 'sqlite3' or 'postgres'",
		},
		{
			name:    "postgres driver",
			mutate:  func(c *Config) { c.Journal.Driver = "postgres"; c.Journal.DSN = "postgres://localhost/fx" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Risk.AccountBalance = 25000
			cfg.LLM.APIKey = "sk-secret"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "sk-secret")

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Risk.AccountBalance, loaded.Risk.AccountBalance)
			assert.Equal(t, cfg.Scoring, loaded.Scoring)
			assert.Equal(t, cfg.Sources.Pairs, loaded.Sources.Pairs)
			assert.Empty(t, loaded.LLM.APIKey)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("risk:\n  account_balance: 5000\n  default_risk_percent: 1\n  max_risk_percent: 5\n  max_lots: 50\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, cfg.Risk.AccountBalance)
	assert.Equal(t, 50.0, cfg.Risk.MaxLots)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.3, cfg.Scoring.SignalThreshold)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestDurations(t *testing.T) {
	tests := []struct {
		interval string
		expected time.Duration
	}{
		{"1h", time.Hour},
		{"30s", 30 * time.Second},
		{"", 5 * time.Minute},
		{"invalid", 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			m := MonitorConfig{Interval: tt.interval}
			assert.Equal(t, tt.expected, m.IntervalDuration())
		})
	}

	assert.Equal(t, 300*time.Second, MonitorConfig{}.CacheTTL())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FXDASH_ADDR=:9191\n"), 0644))

	t.Setenv("FXDASH_PAIRS", "EURUSD, GBPJPY")
	t.Setenv("FXDASH_ACCOUNT_BALANCE", "7500")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FXDASH_LLM", "")

	cfg := Default()
	require.NoError(t, cfg.LoadEnv(envFile))
	t.Cleanup(func() { os.Unsetenv("FXDASH_ADDR") })

	assert.Equal(t, ":9191", cfg.Server.Addr)
	assert.Equal(t, []string{"EURUSD", "GBPJPY"}, cfg.Sources.Pairs)
	assert.Equal(t, 7500.0, cfg.Risk.AccountBalance)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.True(t, cfg.LLM.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvMissingFile(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}
