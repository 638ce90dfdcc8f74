// Package safety rates how safe it is to trade around economic events.
package safety

import (
	"math"
	"time"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
)

// Scorer computes 0-100 safety scores. Higher is safer.
type Scorer struct {
	base int
}

func NewScorer(cfg config.Scoring) *Scorer {
	return &Scorer{base: cfg.SafetyBase}
}

func impactPenalty(impact market.Impact) int {
	switch impact {
	case market.High:
		return 30
	case market.Medium:
		return 15
	default:
		return 5
	}
}

func timePenalty(hoursUntil float64) int {
	switch {
	case hoursUntil < 1:
		return 20
	case hoursUntil < 4:
		return 10
	default:
		return 0
	}
}

// Score rates an event of the given impact hoursUntil hours away. A nil
// volatility skips the volatility penalty.
func (s *Scorer) Score(impact market.Impact, hoursUntil float64, volatility *float64) int {
	score := s.base - impactPenalty(impact) - timePenalty(hoursUntil)
	if volatility != nil {
		score -= int(math.Round(*volatility * 20))
	}
	return clamp(score)
}

// ScoreEvent scores e as seen at now.
func (s *Scorer) ScoreEvent(e market.EconomicEvent, now time.Time, volatility *float64) int {
	return s.Score(e.Impact, e.HoursUntil(now), volatility)
}

// Apply returns a copy of events with SafetyScore recomputed.
func (s *Scorer) Apply(events []market.EconomicEvent, now time.Time, volatility *float64) []market.EconomicEvent {
	out := make([]market.EconomicEvent, len(events))
	for i, e := range events {
		e.SafetyScore = s.ScoreEvent(e, now, volatility)
		out[i] = e
	}
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

type Level string

const (
	LowRisk    Level = "Low Risk"
	MediumRisk Level = "Medium Risk"
	HighRisk   Level = "High Risk"
)

// Color is the dashboard colour of the level.
func (l Level) Color() string {
	switch l {
	case LowRisk:
		return "green"
	case MediumRisk:
		return "orange"
	default:
		return "red"
	}
}

func RiskLevel(score int) Level {
	switch {
	case score >= 70:
		return LowRisk
	case score >= 40:
		return MediumRisk
	default:
		return HighRisk
	}
}

// PositionModifier scales position size by safety.
func PositionModifier(score int) float64 {
	switch {
	case score >= 70:
		return 1.0
	case score >= 40:
		return 0.7
	default:
		return 0.3
	}
}

func SafeToTrade(score int) bool {
	return score >= 60
}

// Average returns the mean SafetyScore of events, 50 when there are none.
func Average(events []market.EconomicEvent) float64 {
	if len(events) == 0 {
		return 50
	}
	sum := 0
	for _, e := range events {
		sum += e.SafetyScore
	}
	return float64(sum) / float64(len(events))
}

// MarketRisk is an overall 0-100 market safety figure. Each event adds
// 30/15/5 risk points by impact (capped at 50) and the mean absolute
// change percent of the quotes adds up to 30 more.
func MarketRisk(events []market.EconomicEvent, quotes map[string]market.MarketData) int {
	if len(events) == 0 {
		return 50
	}

	eventRisk := 0
	for _, e := range events {
		eventRisk += impactPenalty(e.Impact)
	}
	if eventRisk > 50 {
		eventRisk = 50
	}

	volRisk := 0.0
	if len(quotes) > 0 {
		total := 0.0
		for _, q := range quotes {
			total += math.Abs(q.ChangePercent)
		}
		volRisk = math.Min(30, total/float64(len(quotes))*10)
	}

	return clamp(100 - eventRisk - int(volRisk))
}
