// Package signal turns events, sentiment and safety into BUY/SELL/HOLD
// recommendations per currency pair.
package signal

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
)

type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

type Signal struct {
	Pair         string    `json:"pair"`
	Action       Action    `json:"action"`
	Confidence   float64   `json:"confidence"`
	SafetyScore  int       `json:"safety_score"`
	Reason       string    `json:"reason"`
	EntryPrice   float64   `json:"entry_price"`
	StopLoss     *float64  `json:"stop_loss,omitempty"`
	TakeProfit   *float64  `json:"take_profit,omitempty"`
	PositionSize *float64  `json:"position_size,omitempty"`
	Timestamp    time.Time `json:"timestamp"`

	EventScore     float64 `json:"event_score"`
	SentimentScore float64 `json:"sentiment_score"`
	Combined       float64 `json:"combined"`
}

// IsActionable reports whether the signal is strong and safe enough to
// act on.
func (s Signal) IsActionable() bool {
	return s.Confidence >= 70 && s.SafetyScore >= 40
}

// RiskReward returns reward/risk when both levels are set.
func (s Signal) RiskReward() (float64, bool) {
	if s.StopLoss == nil || s.TakeProfit == nil {
		return 0, false
	}
	risk := math.Abs(s.EntryPrice - *s.StopLoss)
	if risk == 0 {
		return 0, false
	}
	return math.Abs(*s.TakeProfit-s.EntryPrice) / risk, true
}

// WithStops places a stop stopPips away from entry and a target at rr
// times that distance on the trade's side. HOLD signals are returned
// unchanged.
func (s Signal) WithStops(stopPips, rr float64) Signal {
	if s.Action == Hold || stopPips <= 0 {
		return s
	}
	pip := 0.0001
	if meta, ok := market.Instruments[s.Pair]; ok {
		pip = math.Pow10(meta.PipLocation)
	}
	dist := stopPips * pip
	var sl, tp float64
	if s.Action == Buy {
		sl, tp = s.EntryPrice-dist, s.EntryPrice+dist*rr
	} else {
		sl, tp = s.EntryPrice+dist, s.EntryPrice-dist*rr
	}
	s.StopLoss, s.TakeProfit = &sl, &tp
	return s
}

// Generator holds the immutable weights and thresholds it was built with.
type Generator struct {
	cfg config.Scoring
	log zerolog.Logger
}

func NewGenerator(cfg config.Scoring, log zerolog.Logger) *Generator {
	return &Generator{cfg: cfg, log: log.With().Str("component", "signal").Logger()}
}

// Relevant returns the events within the window that touch either leg of
// pair.
func (g *Generator) Relevant(pair market.Pair, events []market.EconomicEvent, now time.Time) []market.EconomicEvent {
	var out []market.EconomicEvent
	for _, e := range events {
		if pair.Touches(e.Currency) && e.HoursUntil(now) <= g.cfg.EventWindowHours {
			out = append(out, e)
		}
	}
	return out
}

// Generate builds the signal for one pair. It returns false when no
// relevant event exists; that is not the same as a HOLD.
func (g *Generator) Generate(pair market.Pair, events []market.EconomicEvent, sentimentScore float64, quote market.MarketData, now time.Time) (Signal, bool) {
	relevant := g.Relevant(pair, events, now)
	if len(relevant) == 0 {
		return Signal{}, false
	}

	eventScore := EventScore(relevant, pair)
	meanSafety := averageSafety(relevant)
	safetyScore := roundSafety(meanSafety)
	combined := g.Combine(eventScore, sentimentScore, meanSafety)
	action, confidence := g.Decide(combined, safetyScore)

	return Signal{
		Pair:           pair.String(),
		Action:         action,
		Confidence:     confidence,
		SafetyScore:    safetyScore,
		Reason:         Reason(relevant, sentimentScore, eventScore),
		EntryPrice:     quote.Price,
		Timestamp:      now,
		EventScore:     eventScore,
		SentimentScore: sentimentScore,
		Combined:       combined,
	}, true
}

// GenerateAll runs Generate for each pair with a quote. Pairs are visited
// in the given order.
func (g *Generator) GenerateAll(pairs []string, events []market.EconomicEvent, sentimentScore float64, quotes map[string]market.MarketData, now time.Time) []Signal {
	var out []Signal
	for _, name := range pairs {
		pair, err := market.ParsePair(name)
		if err != nil {
			g.log.Warn().Err(err).Msg("skipping pair")
			continue
		}
		quote, ok := quotes[pair.String()]
		if !ok {
			g.log.Debug().Str("pair", pair.String()).Msg("no quote")
			continue
		}
		if sig, ok := g.Generate(pair, events, sentimentScore, quote, now); ok {
			out = append(out, sig)
		}
	}
	return out
}

// Combine blends the three inputs with the configured weights. Safety is
// centred on 50 and scaled to [-1, 1] first.
func (g *Generator) Combine(eventScore, sentimentScore, safetyScore float64) float64 {
	return g.cfg.EventWeight*eventScore +
		g.cfg.SentimentWeight*sentimentScore +
		g.cfg.SafetyWeight*((safetyScore-50)/50)
}

// Decide thresholds the combined score. Nothing but HOLD is produced at
// or below the minimum safety.
func (g *Generator) Decide(combined float64, safetyScore int) (Action, float64) {
	safe := safetyScore > g.cfg.MinSignalSafety
	switch {
	case combined > g.cfg.SignalThreshold && safe:
		return Buy, g.confidence(combined)
	case combined < -g.cfg.SignalThreshold && safe:
		return Sell, g.confidence(combined)
	default:
		return Hold, 50
	}
}

func (g *Generator) confidence(combined float64) float64 {
	return math.Min(g.cfg.MaxConfidence, 50+math.Abs(combined)*100)
}

// averageSafety is the unrounded mean, clamped to [0, 100]. The combined
// score uses it as is; the signal carries the rounded value.
func averageSafety(events []market.EconomicEvent) float64 {
	sum := 0
	for _, e := range events {
		sum += e.SafetyScore
	}
	return math.Min(100, math.Max(0, float64(sum)/float64(len(events))))
}

func roundSafety(v float64) int {
	return int(math.Round(v))
}

func topicWeight(name string) float64 {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "rate") || strings.Contains(n, "interest"):
		return 0.8
	case strings.Contains(n, "gdp"):
		return 0.7
	case strings.Contains(n, "employment") || strings.Contains(n, "payroll"):
		return 0.9
	case strings.Contains(n, "inflation") || strings.Contains(n, "cpi"):
		return 0.6
	default:
		return 0.4
	}
}

func impactMultiplier(impact market.Impact) float64 {
	switch impact {
	case market.High:
		return 1.0
	case market.Medium:
		return 0.6
	case market.Low:
		return 0.3
	default:
		return 0.5
	}
}

// EventScore sums topic weight times impact multiplier, positive for the
// base currency and negative for the quote currency.
func EventScore(events []market.EconomicEvent, pair market.Pair) float64 {
	score := 0.0
	for _, e := range events {
		v := topicWeight(e.Name) * impactMultiplier(e.Impact)
		switch e.Currency {
		case pair.Base:
			score += v
		case pair.Quote:
			score -= v
		}
	}
	return score
}

const mixedSignals = "Mixed signals - holding position recommended"

// Reason explains a signal in one line.
func Reason(events []market.EconomicEvent, sentimentScore, eventScore float64) string {
	var reasons []string

	var names []string
	for _, e := range events {
		if e.IsHighImpact() {
			names = append(names, e.Name)
			if len(names) == 2 {
				break
			}
		}
	}
	if len(names) > 0 {
		reasons = append(reasons, "High-impact events: "+strings.Join(names, ", "))
	}

	if math.Abs(sentimentScore) > 0.2 {
		desc := "negative"
		if sentimentScore > 0 {
			desc = "positive"
		}
		reasons = append(reasons, fmt.Sprintf("Strong %s news sentiment", desc))
	}

	if math.Abs(eventScore) > 0.3 {
		desc := "negative"
		if eventScore > 0 {
			desc = "supportive"
		}
		reasons = append(reasons, fmt.Sprintf("Economic events are %s", desc))
	}

	if len(reasons) == 0 {
		return mixedSignals
	}
	return strings.Join(reasons, "; ")
}

// SortByConfidence orders signals strongest first, pair name breaking ties.
func SortByConfidence(signals []Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		if signals[i].Confidence != signals[j].Confidence {
			return signals[i].Confidence > signals[j].Confidence
		}
		return signals[i].Pair < signals[j].Pair
	})
}
