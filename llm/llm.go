// Package llm asks a language model for a market read on upcoming events
// and recent headlines.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/fxdash/market"
)

// briefSize caps how many events and headlines go into a prompt.
const briefSize = 5

// Analyst produces an Analysis from a Brief.
type Analyst interface {
	Analyze(ctx context.Context, b Brief) (Analysis, error)
}

type EventBrief struct {
	Event       string  `json:"event"`
	Currency    string  `json:"currency"`
	Impact      string  `json:"impact"`
	HoursUntil  float64 `json:"time_until"`
	SafetyScore int     `json:"safety_score"`
}

type NewsBrief struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	Relevance string `json:"relevance"`
}

// Brief is the market summary sent to the analyst.
type Brief struct {
	Events []EventBrief `json:"events"`
	News   []NewsBrief  `json:"news"`
}

// NewBrief keeps the first five events and headlines.
func NewBrief(events []market.EconomicEvent, news []market.NewsItem, now time.Time) Brief {
	var b Brief
	for i, e := range events {
		if i == briefSize {
			break
		}
		b.Events = append(b.Events, EventBrief{
			Event:       e.Name,
			Currency:    e.Currency,
			Impact:      string(e.Impact),
			HoursUntil:  e.HoursUntil(now),
			SafetyScore: e.SafetyScore,
		})
	}
	for i, n := range news {
		if i == briefSize {
			break
		}
		b.News = append(b.News, NewsBrief{Title: n.Title, Source: n.Source, Relevance: n.Relevance})
	}
	return b
}

// Analysis is the analyst's answer. Empty fields mean the model did not
// say.
type Analysis struct {
	MarketBias            string   `json:"market_bias"`
	VolatilityExpectation string   `json:"volatility_expectation"`
	TradingRecommendation string   `json:"trading_recommendation"`
	KeyRisks              []string `json:"key_risks,omitempty"`
	Opportunities         []string `json:"opportunities,omitempty"`
	ConfidenceLevel       float64  `json:"confidence_level"`
}

const systemPrompt = "You are an expert forex market analyst."

// Prompt renders the user message for b.
func Prompt(b Brief) (string, error) {
	events, err := json.MarshalIndent(b.Events, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode events: %w", err)
	}
	news, err := json.MarshalIndent(b.News, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode news: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("As an expert forex analyst, analyze the current market conditions based on:\n\n")
	sb.WriteString("Upcoming Economic Events:\n")
	sb.Write(events)
	sb.WriteString("\n\nRecent Financial News:\n")
	sb.Write(news)
	sb.WriteString(`

Provide analysis in JSON format with:
- market_bias: "bullish", "bearish", or "neutral"
- volatility_expectation: "low", "medium", or "high"
- trading_recommendation: "aggressive", "normal", "cautious", or "avoid"
- key_risks: list of main risks
- opportunities: list of potential opportunities
- confidence_level: 0-100

Focus on practical trading insights.
`)
	return sb.String(), nil
}

// ParseResponse reads a model reply. JSON replies, optionally inside a
// code fence, are decoded; anything else goes through ParseFreeText.
func ParseResponse(text string) Analysis {
	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")

	var a Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &a); err != nil {
		return ParseFreeText(text)
	}
	a.MarketBias = strings.ToLower(strings.TrimSpace(a.MarketBias))
	a.VolatilityExpectation = strings.ToLower(strings.TrimSpace(a.VolatilityExpectation))
	a.TradingRecommendation = strings.ToLower(strings.TrimSpace(a.TradingRecommendation))
	if a.ConfidenceLevel < 0 {
		a.ConfidenceLevel = 0
	}
	if a.ConfidenceLevel > 100 {
		a.ConfidenceLevel = 100
	}
	return a
}

// ParseFreeText extracts bias, volatility and recommendation keywords
// from a prose reply.
func ParseFreeText(text string) Analysis {
	lower := strings.ToLower(text)
	var a Analysis

	switch {
	case strings.Contains(lower, "bullish"):
		a.MarketBias = "bullish"
	case strings.Contains(lower, "bearish"):
		a.MarketBias = "bearish"
	default:
		a.MarketBias = "neutral"
	}

	switch {
	case strings.Contains(lower, "high volatility"), strings.Contains(lower, "volatile"):
		a.VolatilityExpectation = "high"
	case strings.Contains(lower, "low volatility"):
		a.VolatilityExpectation = "low"
	default:
		a.VolatilityExpectation = "medium"
	}

	switch {
	case strings.Contains(lower, "avoid"):
		a.TradingRecommendation = "avoid"
	case strings.Contains(lower, "cautious"):
		a.TradingRecommendation = "cautious"
	case strings.Contains(lower, "aggressive"):
		a.TradingRecommendation = "aggressive"
	default:
		a.TradingRecommendation = "normal"
	}
	return a
}
