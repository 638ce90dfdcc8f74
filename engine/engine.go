// Package engine runs one dashboard refresh: fetch, score, signal and
// summarise. Every refresh produces a new Snapshot; old snapshots are
// never modified.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/analysis"
	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/feeds"
	"github.com/rustyeddy/fxdash/llm"
	"github.com/rustyeddy/fxdash/market"
	"github.com/rustyeddy/fxdash/risk"
	"github.com/rustyeddy/fxdash/safety"
	"github.com/rustyeddy/fxdash/sentiment"
	"github.com/rustyeddy/fxdash/signal"
)

const (
	historyDays      = 30
	volatilityPeriod = 20

	// Default stop distance and reward multiple for suggested levels.
	defaultStopPips = 20
	defaultRR       = 2
)

// ScoredNews is a headline with its sentiment.
type ScoredNews struct {
	market.NewsItem
	Score float64         `json:"score"`
	Label sentiment.Label `json:"label"`
}

// Snapshot is the result of one refresh.
type Snapshot struct {
	Time         time.Time                      `json:"time"`
	Events       []market.EconomicEvent         `json:"events"`
	News         []ScoredNews                   `json:"news"`
	Quotes       map[string]market.MarketData   `json:"quotes"`
	Volatility   map[string]float64             `json:"volatility"`
	Sentiment    sentiment.Summary              `json:"sentiment"`
	Signals      []signal.Signal                `json:"signals"`
	Context      analysis.MarketContext         `json:"context"`
	Insights     []string                       `json:"insights"`
	Correlation  analysis.Matrix                `json:"correlation"`
	Levels       map[string]analysis.Levels     `json:"levels"`
	Technicals   map[string]analysis.Technicals `json:"technicals"`
	Alerts       []safety.Alert                 `json:"alerts"`
	AvgSafety    int                            `json:"avg_safety"`
	MarketRisk   int                            `json:"market_risk"`
	RiskLevel    safety.Level                   `json:"risk_level"`
	OpenSessions []string                       `json:"open_sessions"`
	DefaultSize  risk.SizeResult                `json:"default_size"`
}

// Engine holds the collaborators for a refresh. The quote source may be
// nil, in which case no signals are produced.
type Engine struct {
	cfg     *config.Config
	source  feeds.Source
	quotes  feeds.QuoteSource
	scorer  sentiment.Scorer
	safety  *safety.Scorer
	signals *signal.Generator
	context *analysis.Contextualizer
	log     zerolog.Logger
	now     func() time.Time

	mu   sync.RWMutex
	last *Snapshot
}

func New(cfg *config.Config, source feeds.Source, quotes feeds.QuoteSource, scorer sentiment.Scorer, analyst llm.Analyst, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		source:  source,
		quotes:  quotes,
		scorer:  scorer,
		safety:  safety.NewScorer(cfg.Scoring),
		signals: signal.NewGenerator(cfg.Scoring, log),
		context: analysis.NewContextualizer(analyst, log),
		log:     log.With().Str("component", "engine").Logger(),
		now:     time.Now,
	}
}

// WithClock replaces the engine's clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) Config() *config.Config { return e.cfg }

func (e *Engine) Scorer() sentiment.Scorer { return e.scorer }

// Last returns the most recent snapshot, nil before the first refresh.
func (e *Engine) Last() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// Current returns the last snapshot, refreshing first when there is none.
func (e *Engine) Current(ctx context.Context) *Snapshot {
	if s := e.Last(); s != nil {
		return s
	}
	return e.Refresh(ctx)
}

// Refresh runs a full cycle. Source failures are logged and treated as
// empty data.
func (e *Engine) Refresh(ctx context.Context) *Snapshot {
	now := e.now()
	pairs := e.cfg.Sources.Pairs

	events := e.fetchEvents(ctx)
	newsItems := e.fetchNews(ctx)
	quotes, history := e.fetchQuotes(ctx, pairs)

	volatility := make(map[string]float64, len(history))
	levels := make(map[string]analysis.Levels, len(history))
	technicals := make(map[string]analysis.Technicals, len(history))
	for pair, prices := range history {
		volatility[pair] = analysis.Volatility(prices, volatilityPeriod)
		levels[pair] = analysis.SupportResistance(prices)
		technicals[pair] = analysis.Technical(prices, volatilityPeriod)
	}

	scored := make([]market.EconomicEvent, len(events))
	for i, ev := range events {
		scored[i] = ev
		scored[i].SafetyScore = e.safety.ScoreEvent(ev, now, currencyVolatility(ev.Currency, volatility))
	}

	summary := sentiment.Aggregate(e.scorer, newsItems)
	news := make([]ScoredNews, len(newsItems))
	for i, n := range newsItems {
		score := sentiment.ScoreNews(e.scorer, n)
		news[i] = ScoredNews{NewsItem: n, Score: score, Label: sentiment.Classify(score)}
	}

	signals := e.signals.GenerateAll(pairs, scored, summary.Overall, quotes, now)
	for i, s := range signals {
		signals[i] = e.withLevels(s, scored, now)
	}

	mc := e.context.Context(ctx, scored, newsItems, summary)
	avg := int(safety.Average(scored) + 0.5)

	snap := &Snapshot{
		Time:         now,
		Events:       scored,
		News:         news,
		Quotes:       quotes,
		Volatility:   volatility,
		Sentiment:    summary,
		Signals:      signals,
		Context:      mc,
		Insights:     analysis.Insights(mc),
		Correlation:  analysis.Correlation(pairs, history),
		Levels:       levels,
		Technicals:   technicals,
		AvgSafety:    avg,
		MarketRisk:   safety.MarketRisk(scored, quotes),
		RiskLevel:    safety.RiskLevel(avg),
		OpenSessions: market.OpenSessions(now),
		DefaultSize:  e.defaultSize(scored, quotes, avg),
	}

	e.mu.Lock()
	snap.Alerts = alerts(e.last, snap)
	e.last = snap
	e.mu.Unlock()

	e.log.Info().
		Int("events", len(scored)).
		Int("news", len(news)).
		Int("signals", len(signals)).
		Int("avg_safety", avg).
		Msg("refresh complete")
	return snap
}

func (e *Engine) fetchEvents(ctx context.Context) []market.EconomicEvent {
	events, err := e.source.FetchEvents(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("events unavailable")
		return nil
	}
	valid, rejected := market.FilterEvents(events)
	for _, err := range rejected {
		e.log.Debug().Err(err).Msg("invalid event dropped")
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Time.Before(valid[j].Time) })
	return valid
}

func (e *Engine) fetchNews(ctx context.Context) []market.NewsItem {
	news, err := e.source.FetchNews(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("news unavailable")
		return nil
	}
	valid, rejected := market.FilterNews(news)
	for _, err := range rejected {
		e.log.Debug().Err(err).Msg("invalid news item dropped")
	}
	return valid
}

func (e *Engine) fetchQuotes(ctx context.Context, pairs []string) (map[string]market.MarketData, map[string][]float64) {
	history := map[string][]float64{}
	if e.quotes == nil {
		return map[string]market.MarketData{}, history
	}

	quotes, err := e.quotes.Quotes(ctx, pairs)
	if err != nil {
		e.log.Warn().Err(err).Msg("quotes unavailable")
		quotes = map[string]market.MarketData{}
	}
	for _, p := range pairs {
		pair, err := market.ParsePair(p)
		if err != nil {
			continue
		}
		prices, err := e.quotes.History(ctx, pair.String(), historyDays)
		if err != nil {
			e.log.Debug().Err(err).Str("pair", pair.String()).Msg("history unavailable")
			continue
		}
		if len(prices) > 0 {
			history[pair.String()] = prices
		}
	}
	return quotes, history
}

// currencyVolatility averages the volatility of pairs quoting ccy, nil
// when none has history.
func currencyVolatility(ccy string, volatility map[string]float64) *float64 {
	sum, n := 0.0, 0
	for name, v := range volatility {
		pair, err := market.ParsePair(name)
		if err != nil || !pair.Touches(ccy) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// withLevels adds suggested stops and a size to BUY and SELL signals.
func (e *Engine) withLevels(s signal.Signal, events []market.EconomicEvent, now time.Time) signal.Signal {
	if s.Action == signal.Hold || s.EntryPrice <= 0 {
		return s
	}
	s = s.WithStops(defaultStopPips, defaultRR)

	impact := market.Low
	pair := market.MustPair(s.Pair)
	for _, ev := range e.signals.Relevant(pair, events, now) {
		if ev.IsHighImpact() {
			impact = market.High
			break
		}
	}
	res := risk.SizeForPair(s.Pair, risk.SizeInputs{
		Balance:     e.cfg.Risk.AccountBalance,
		RiskPercent: e.cfg.Risk.DefaultRiskPercent,
		Entry:       s.EntryPrice,
		Stop:        *s.StopLoss,
		SafetyScore: s.SafetyScore,
		Impact:      impact,
		MaxLots:     e.cfg.Risk.MaxLots,
	})
	size := res.Size
	s.PositionSize = &size
	return s
}

// defaultSize pre-fills the calculator with a 50 pip EURUSD long.
func (e *Engine) defaultSize(events []market.EconomicEvent, quotes map[string]market.MarketData, avgSafety int) risk.SizeResult {
	entry := 1.0850
	if q, ok := quotes["EURUSD"]; ok && q.Price > 0 {
		entry = q.Price
	}
	impact := market.Low
	for _, ev := range events {
		if ev.IsHighImpact() {
			impact = market.High
			break
		}
	}
	return risk.SizeForPair("EURUSD", risk.SizeInputs{
		Balance:     e.cfg.Risk.AccountBalance,
		RiskPercent: e.cfg.Risk.DefaultRiskPercent,
		Entry:       entry,
		Stop:        entry - 0.0050,
		SafetyScore: avgSafety,
		Impact:      impact,
		MaxLots:     e.cfg.Risk.MaxLots,
	})
}

// alerts compares cur with the previous snapshot. Upcoming event alerts
// do not need a previous snapshot.
func alerts(prev, cur *Snapshot) []safety.Alert {
	var out []safety.Alert
	if prev != nil {
		if a, ok := safety.SafetyDrop(prev.AvgSafety, cur.AvgSafety); ok {
			out = append(out, a)
		}
		if a, ok := safety.SentimentShift(prev.Sentiment.Overall, cur.Sentiment.Overall); ok {
			out = append(out, a)
		}
	}
	return append(out, safety.UpcomingEvents(cur.Events, cur.Time)...)
}
