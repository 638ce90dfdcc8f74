// Package analysis builds the market overview shown beside the signals:
// context, insights, correlations and a few technical levels.
package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/llm"
	"github.com/rustyeddy/fxdash/market"
	"github.com/rustyeddy/fxdash/safety"
	"github.com/rustyeddy/fxdash/sentiment"
)

// MarketContext summarises the calendar and the news for one refresh.
type MarketContext struct {
	HighImpactEvents      int               `json:"high_impact_events"`
	AvgSafetyScore        float64           `json:"avg_safety_score"`
	NewsSentiment         sentiment.Summary `json:"news_sentiment"`
	MarketBias            string            `json:"market_bias"`
	VolatilityExpectation string            `json:"volatility_expectation"`
	TradingRecommendation string            `json:"trading_recommendation"`
	KeyRisks              []string          `json:"key_risks,omitempty"`
	Opportunities         []string          `json:"opportunities,omitempty"`
	ConfidenceLevel       float64           `json:"confidence_level,omitempty"`
	Enhanced              bool              `json:"enhanced"`
}

// Baseline is the context without a model: neutral bias, medium
// volatility, cautious trading.
func Baseline(events []market.EconomicEvent, summary sentiment.Summary) MarketContext {
	high := 0
	for _, e := range events {
		if e.IsHighImpact() {
			high++
		}
	}
	return MarketContext{
		HighImpactEvents:      high,
		AvgSafetyScore:        safety.Average(events),
		NewsSentiment:         summary,
		MarketBias:            "neutral",
		VolatilityExpectation: "medium",
		TradingRecommendation: "cautious",
	}
}

// Contextualizer builds MarketContext values, asking the analyst when
// one is configured.
type Contextualizer struct {
	analyst llm.Analyst
	log     zerolog.Logger
	now     func() time.Time
}

// NewContextualizer accepts a nil analyst.
func NewContextualizer(analyst llm.Analyst, log zerolog.Logger) *Contextualizer {
	return &Contextualizer{
		analyst: analyst,
		log:     log.With().Str("component", "context").Logger(),
		now:     time.Now,
	}
}

// Context returns the baseline overlaid with the analyst's answer. An
// analyst failure is logged and the baseline returned unchanged.
func (c *Contextualizer) Context(ctx context.Context, events []market.EconomicEvent, news []market.NewsItem, summary sentiment.Summary) MarketContext {
	mc := Baseline(events, summary)
	if c.analyst == nil {
		return mc
	}

	a, err := c.analyst.Analyze(ctx, llm.NewBrief(events, news, c.now()))
	if err != nil {
		c.log.Warn().Err(err).Msg("analysis failed, using basic analysis")
		return mc
	}
	mc.overlay(a)
	return mc
}

func (mc *MarketContext) overlay(a llm.Analysis) {
	if a.MarketBias != "" {
		mc.MarketBias = a.MarketBias
	}
	if a.VolatilityExpectation != "" {
		mc.VolatilityExpectation = a.VolatilityExpectation
	}
	if a.TradingRecommendation != "" {
		mc.TradingRecommendation = a.TradingRecommendation
	}
	mc.KeyRisks = a.KeyRisks
	mc.Opportunities = a.Opportunities
	mc.ConfidenceLevel = a.ConfidenceLevel
	mc.Enhanced = true
}
