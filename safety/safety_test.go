package safety

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
)

func vol(v float64) *float64 { return &v }

func TestScore(t *testing.T) {
	t.Parallel()

	s := NewScorer(config.DefaultScoring())
	tests := []struct {
		name       string
		impact     market.Impact
		hours      float64
		volatility *float64
		want       int
	}{
		{"worst case clamps at zero", market.High, 0.5, vol(1.0), 0},
		{"calm low impact", market.Low, 48, vol(0), 45},
		{"high impact two hours out", market.High, 2, nil, 10},
		{"medium impact far out", market.Medium, 10, nil, 35},
		{"unknown impact treated as low", market.Impact("?"), 10, nil, 45},
		{"exactly one hour", market.Low, 1, nil, 35},
		{"just under one hour", market.Low, 0.999, nil, 25},
		{"exactly four hours", market.Low, 4, nil, 45},
		{"past event", market.Low, -3, nil, 25},
		{"volatility rounds", market.Low, 48, vol(0.33), 38},
		{"volatility rounds half up", market.Low, 48, vol(0.125), 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.impact, tt.hours, tt.volatility))
		})
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultScoring()
	cfg.SafetyBase = 100
	s := NewScorer(cfg)
	assert.Equal(t, 100, s.Score(market.Low, 48, vol(-1)))
	assert.Equal(t, 95, s.Score(market.Low, 48, nil))

	worst := NewScorer(config.DefaultScoring()).Score(market.High, 0.5, vol(1.0))
	best := NewScorer(config.DefaultScoring()).Score(market.Low, 48, vol(0))
	assert.LessOrEqual(t, worst, best)

	for _, impact := range []market.Impact{market.High, market.Medium, market.Low} {
		for _, h := range []float64{-10, 0, 0.5, 1, 3.9, 4, 100} {
			for _, v := range []float64{0, 0.5, 1, 5} {
				got := s.Score(impact, h, vol(v))
				assert.GreaterOrEqual(t, got, 0)
				assert.LessOrEqual(t, got, 100)
			}
		}
	}
}

func TestScoreEventAndApply(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []market.EconomicEvent{
		{Name: "NFP", Currency: "USD", Impact: market.High, Time: now.Add(30 * time.Minute), SafetyScore: 99},
		{Name: "PMI", Currency: "EUR", Impact: market.Medium, Time: now.Add(6 * time.Hour)},
	}
	s := NewScorer(config.DefaultScoring())

	assert.Equal(t, 0, s.ScoreEvent(events[0], now, nil))

	scored := s.Apply(events, now, vol(0.25))
	require.Len(t, scored, 2)
	assert.Equal(t, 0, scored[0].SafetyScore)
	assert.Equal(t, 30, scored[1].SafetyScore)
	assert.Equal(t, 99, events[0].SafetyScore, "input slice untouched")
}

func TestRiskLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score    int
		level    Level
		color    string
		modifier float64
		safe     bool
	}{
		{100, LowRisk, "green", 1.0, true},
		{70, LowRisk, "green", 1.0, true},
		{69, MediumRisk, "orange", 0.7, true},
		{60, MediumRisk, "orange", 0.7, true},
		{59, MediumRisk, "orange", 0.7, false},
		{40, MediumRisk, "orange", 0.7, false},
		{39, HighRisk, "red", 0.3, false},
		{0, HighRisk, "red", 0.3, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, RiskLevel(tt.score), "score %d", tt.score)
		assert.Equal(t, tt.color, RiskLevel(tt.score).Color())
		assert.Equal(t, tt.modifier, PositionModifier(tt.score))
		assert.Equal(t, tt.safe, SafeToTrade(tt.score))
	}
}

func TestAverage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50.0, Average(nil))
	assert.Equal(t, 30.0, Average([]market.EconomicEvent{{SafetyScore: 20}, {SafetyScore: 40}}))
}

func TestMarketRisk(t *testing.T) {
	t.Parallel()

	high := market.EconomicEvent{Impact: market.High}
	medium := market.EconomicEvent{Impact: market.Medium}

	assert.Equal(t, 50, MarketRisk(nil, nil))
	assert.Equal(t, 85, MarketRisk([]market.EconomicEvent{medium}, nil))

	quotes := map[string]market.MarketData{
		"EURUSD": {ChangePercent: 0.5},
		"USDJPY": {ChangePercent: -1.5},
	}
	assert.Equal(t, 40, MarketRisk([]market.EconomicEvent{high, high}, quotes))

	wild := map[string]market.MarketData{"GBPUSD": {ChangePercent: 5}}
	assert.Equal(t, 55, MarketRisk([]market.EconomicEvent{medium}, wild))
}
