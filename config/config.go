package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/fxdash/market"
	"gopkg.in/yaml.v3"
)

// Config represents the complete dashboard configuration
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Scoring   Scoring         `json:"scoring" yaml:"scoring"`
	Sentiment SentimentConfig `json:"sentiment" yaml:"sentiment"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Sources   SourcesConfig   `json:"sources" yaml:"sources"`
	Monitor   MonitorConfig   `json:"monitor" yaml:"monitor"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// ServerConfig contains the web dashboard parameters
type ServerConfig struct {
	Addr           string `json:"addr" yaml:"addr"`
	RefreshSeconds int    `json:"refresh_seconds" yaml:"refresh_seconds"`
}

// Scoring holds the weights and thresholds of the safety scorer and the
// signal generator. Scorers copy it at construction.
type Scoring struct {
	SafetyBase       int     `json:"safety_base" yaml:"safety_base"`
	EventWeight      float64 `json:"event_weight" yaml:"event_weight"`
	SentimentWeight  float64 `json:"sentiment_weight" yaml:"sentiment_weight"`
	SafetyWeight     float64 `json:"safety_weight" yaml:"safety_weight"`
	SignalThreshold  float64 `json:"signal_threshold" yaml:"signal_threshold"`
	MinSignalSafety  int     `json:"min_signal_safety" yaml:"min_signal_safety"`
	EventWindowHours float64 `json:"event_window_hours" yaml:"event_window_hours"`
	MaxConfidence    float64 `json:"max_confidence" yaml:"max_confidence"`
}

// SentimentConfig selects the sentiment scorer
type SentimentConfig struct {
	Method          string   `json:"method" yaml:"method"` // "lexicon" or "keyword"
	BullishKeywords []string `json:"bullish_keywords,omitempty" yaml:"bullish_keywords,omitempty"`
	BearishKeywords []string `json:"bearish_keywords,omitempty" yaml:"bearish_keywords,omitempty"`
}

// RiskConfig contains account and position sizing parameters
type RiskConfig struct {
	AccountBalance     float64 `json:"account_balance" yaml:"account_balance"`
	DefaultRiskPercent float64 `json:"default_risk_percent" yaml:"default_risk_percent"`
	MaxRiskPercent     float64 `json:"max_risk_percent" yaml:"max_risk_percent"`
	MinSafety          int     `json:"min_safety" yaml:"min_safety"`
	MaxLots            float64 `json:"max_lots" yaml:"max_lots"`
	MinRR              float64 `json:"min_rr" yaml:"min_rr"`
}

// SourcesConfig selects and configures the data sources
type SourcesConfig struct {
	Kind        string   `json:"kind" yaml:"kind"` // "mock" or "live"
	Pairs       []string `json:"pairs" yaml:"pairs"`
	CalendarURL string   `json:"calendar_url,omitempty" yaml:"calendar_url,omitempty"`
	RSSFeeds    []string `json:"rss_feeds,omitempty" yaml:"rss_feeds,omitempty"`
	OandaToken  string   `json:"-" yaml:"-"`
	OandaEnv    string   `json:"oanda_env,omitempty" yaml:"oanda_env,omitempty"` // "practice" or "live"
	RateLimit   float64  `json:"rate_limit" yaml:"rate_limit"`                   // requests per second
	Burst       int      `json:"burst" yaml:"burst"`
	Timeout     string   `json:"timeout" yaml:"timeout"`
	MaxNews     int      `json:"max_news" yaml:"max_news"`
	MaxEvents   int      `json:"max_events" yaml:"max_events"`
	Seed        int64    `json:"seed" yaml:"seed"`
}

// MonitorConfig contains the background news poller parameters
type MonitorConfig struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	Interval      string `json:"interval" yaml:"interval"`             // e.g. "5m"
	CacheDuration string `json:"cache_duration" yaml:"cache_duration"` // e.g. "300s"
	QueueSize     int    `json:"queue_size" yaml:"queue_size"`
}

// LLMConfig contains the optional market analyst parameters
type LLMConfig struct {
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	APIKey      string  `json:"-" yaml:"-"`
	Model       string  `json:"model" yaml:"model"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature float32 `json:"temperature" yaml:"temperature"`
	Timeout     string  `json:"timeout" yaml:"timeout"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Driver string `json:"driver" yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `json:"dsn" yaml:"dsn"`
}

// LogConfig contains logger parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// IntervalDuration returns the poll interval, 5m when unset.
func (m MonitorConfig) IntervalDuration() time.Duration {
	return parseDuration(m.Interval, 5*time.Minute)
}

// CacheTTL returns how long fetched news is reused, 300s when unset.
func (m MonitorConfig) CacheTTL() time.Duration {
	return parseDuration(m.CacheDuration, 300*time.Second)
}

func (s SourcesConfig) TimeoutDuration() time.Duration {
	return parseDuration(s.Timeout, 10*time.Second)
}

func (l LLMConfig) TimeoutDuration() time.Duration {
	return parseDuration(l.Timeout, 30*time.Second)
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Missing keys keep their defaults
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RefreshSeconds < 0 {
		return fmt.Errorf("server.refresh_seconds must not be negative")
	}

	s := c.Scoring
	if s.SafetyBase < 0 || s.SafetyBase > 100 {
		return fmt.Errorf("scoring.safety_base must be between 0 and 100")
	}
	if s.EventWeight < 0 || s.SentimentWeight < 0 || s.SafetyWeight < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}
	if s.SignalThreshold <= 0 || s.SignalThreshold >= 1 {
		return fmt.Errorf("scoring.signal_threshold must be between 0 and 1")
	}
	if s.MinSignalSafety < 0 || s.MinSignalSafety > 100 {
		return fmt.Errorf("scoring.min_signal_safety must be between 0 and 100")
	}
	if s.EventWindowHours <= 0 {
		return fmt.Errorf("scoring.event_window_hours must be positive")
	}
	if s.MaxConfidence <= 0 || s.MaxConfidence > 100 {
		return fmt.Errorf("scoring.max_confidence must be between 0 and 100")
	}

	switch c.Sentiment.Method {
	case "lexicon", "keyword":
	default:
		return fmt.Errorf("sentiment.method must be 'lexicon' or 'keyword'")
	}

	r := c.Risk
	if r.AccountBalance <= 0 {
		return fmt.Errorf("risk.account_balance must be positive")
	}
	if r.MaxRiskPercent <= 0 || r.MaxRiskPercent > 100 {
		return fmt.Errorf("risk.max_risk_percent must be between 0 and 100")
	}
	if r.DefaultRiskPercent <= 0 || r.DefaultRiskPercent > r.MaxRiskPercent {
		return fmt.Errorf("risk.default_risk_percent must be positive and at most max_risk_percent")
	}
	if r.MaxLots <= 0 {
		return fmt.Errorf("risk.max_lots must be positive")
	}
	if r.MinRR < 0 {
		return fmt.Errorf("risk.min_rr must not be negative")
	}

	switch c.Sources.Kind {
	case "mock":
	case "live":
		if c.Sources.CalendarURL == "" && len(c.Sources.RSSFeeds) == 0 {
			return fmt.Errorf("sources: live kind needs calendar_url or rss_feeds")
		}
	default:
		return fmt.Errorf("sources.kind must be 'mock' or 'live'")
	}
	if len(c.Sources.Pairs) == 0 {
		return fmt.Errorf("sources.pairs is required")
	}
	for _, p := range c.Sources.Pairs {
		if _, err := market.ParsePair(p); err != nil {
			return fmt.Errorf("sources.pairs: %w", err)
		}
	}
	if c.Sources.RateLimit < 0 {
		return fmt.Errorf("sources.rate_limit must not be negative")
	}

	if c.Monitor.Enabled && c.Monitor.QueueSize <= 0 {
		return fmt.Errorf("monitor.queue_size must be positive")
	}
	for name, v := range map[string]string{
		"monitor.interval":       c.Monitor.Interval,
		"monitor.cache_duration": c.Monitor.CacheDuration,
		"sources.timeout":        c.Sources.Timeout,
		"llm.timeout":            c.LLM.Timeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must not be negative")
	}

	if c.Journal.Driver != "sqlite3" && c.Journal.Driver != "postgres" {
		return fmt.Errorf("journal.driver must be 'sqlite3' or 'postgres'")
	}
	if c.Journal.DSN == "" {
		return fmt.Errorf("journal.dsn is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			RefreshSeconds: 30,
		},
		Scoring: DefaultScoring(),
		Sentiment: SentimentConfig{
			Method: "lexicon",
		},
		Risk: RiskConfig{
			AccountBalance:     10000,
			DefaultRiskPercent: 2,
			MaxRiskPercent:     5,
			MinSafety:          30,
			MaxLots:            100,
			MinRR:              1.5,
		},
		Sources: SourcesConfig{
			Kind:      "mock",
			Pairs:     []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD", "USDCHF", "NZDUSD"},
			OandaEnv:  "practice",
			RateLimit: 2,
			Burst:     4,
			Timeout:   "10s",
			MaxNews:   20,
			MaxEvents: 10,
			Seed:      42,
		},
		Monitor: MonitorConfig{
			Interval:      "5m",
			CacheDuration: "300s",
			QueueSize:     100,
		},
		LLM: LLMConfig{
			Model:       "gpt-3.5-turbo",
			MaxTokens:   500,
			Temperature: 0.3,
			Timeout:     "30s",
		},
		Journal: JournalConfig{
			Driver: "sqlite3",
			DSN:    "trading_data.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultScoring returns the canonical weights and thresholds.
func DefaultScoring() Scoring {
	return Scoring{
		SafetyBase:       50,
		EventWeight:      0.5,
		SentimentWeight:  0.3,
		SafetyWeight:     0.2,
		SignalThreshold:  0.3,
		MinSignalSafety:  40,
		EventWindowHours: 24,
		MaxConfidence:    95,
	}
}
