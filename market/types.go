package market

import (
	"fmt"
	"strings"
	"time"
)

// Impact is the market-moving significance of a calendar event.
type Impact string

const (
	High   Impact = "High"
	Medium Impact = "Medium"
	Low    Impact = "Low"
)

// ParseImpact is case-insensitive.
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, nil
	case "medium", "med":
		return Medium, nil
	case "low":
		return Low, nil
	default:
		return "", fmt.Errorf("unknown impact %q", s)
	}
}

// EconomicEvent is one economic-calendar entry. Only SafetyScore is
// recomputed after construction.
type EconomicEvent struct {
	Time               time.Time `json:"time" yaml:"time" validate:"required"`
	Currency           string    `json:"currency" yaml:"currency" validate:"required,len=3,uppercase"`
	Name               string    `json:"event" yaml:"event" validate:"required"`
	Impact             Impact    `json:"impact" yaml:"impact" validate:"required,oneof=High Medium Low"`
	Forecast           string    `json:"forecast,omitempty" yaml:"forecast,omitempty"`
	Previous           string    `json:"previous,omitempty" yaml:"previous,omitempty"`
	Actual             string    `json:"actual,omitempty" yaml:"actual,omitempty"`
	SafetyScore        int       `json:"safety_score" yaml:"safety_score" validate:"gte=0,lte=100"`
	VolatilityExpected float64   `json:"volatility_expected" yaml:"volatility_expected" validate:"gte=0,lte=1"`
}

// HoursUntil is negative for events in the past.
func (e EconomicEvent) HoursUntil(now time.Time) float64 {
	return e.Time.Sub(now).Hours()
}

func (e EconomicEvent) IsHighImpact() bool {
	return e.Impact == High
}

// NewsItem is one financial headline.
type NewsItem struct {
	Title     string    `json:"title" validate:"required"`
	Summary   string    `json:"summary" validate:"required"`
	Source    string    `json:"source" validate:"required"`
	URL       string    `json:"url" validate:"required,url"`
	Published time.Time `json:"published" validate:"required"`
	Relevance string    `json:"relevance" validate:"omitempty,oneof=High Medium Low"`
	// Sentiment is set when the feed already scored the item.
	Sentiment *float64 `json:"sentiment,omitempty" validate:"omitempty,gte=-1,lte=1"`
	Keywords  []string `json:"keywords,omitempty"`
}

func (n NewsItem) AgeHours(now time.Time) float64 {
	return now.Sub(n.Published).Hours()
}

// Text is the string handed to sentiment scorers.
func (n NewsItem) Text() string {
	return strings.TrimSpace(n.Title + " " + n.Summary)
}

// MarketData is a quote snapshot for one pair.
type MarketData struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Time          time.Time `json:"time"`
	Bid           float64   `json:"bid,omitempty"`
	Ask           float64   `json:"ask,omitempty"`
	Spread        float64   `json:"spread,omitempty"`
}

func (m MarketData) IsBullish() bool {
	return m.Change > 0
}

// SpreadPercent returns false when bid, ask or price are missing.
func (m MarketData) SpreadPercent() (float64, bool) {
	if m.Bid <= 0 || m.Ask <= 0 || m.Price <= 0 {
		return 0, false
	}
	return (m.Ask - m.Bid) / m.Price * 100, true
}
