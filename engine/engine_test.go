package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/feeds"
	"github.com/rustyeddy/fxdash/market"
	"github.com/rustyeddy/fxdash/safety"
	"github.com/rustyeddy/fxdash/sentiment"
	"github.com/rustyeddy/fxdash/signal"
)

var start = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type stubSource struct {
	events []market.EconomicEvent
	news   []market.NewsItem
	err    error
}

func (s stubSource) FetchEvents(ctx context.Context) ([]market.EconomicEvent, error) {
	return s.events, s.err
}

func (s stubSource) FetchNews(ctx context.Context) ([]market.NewsItem, error) {
	return s.news, s.err
}

type stubQuotes map[string]market.MarketData

func (q stubQuotes) Quotes(ctx context.Context, pairs []string) (map[string]market.MarketData, error) {
	return q, nil
}

func (q stubQuotes) History(ctx context.Context, pair string, days int) ([]float64, error) {
	return nil, nil
}

func mockEngine(t *testing.T, clock *time.Time) *Engine {
	t.Helper()
	cfg := config.Default()
	now := func() time.Time { return *clock }
	mock := feeds.NewMock(42, now)
	return New(cfg, mock, mock, sentiment.NewLexiconScorer(), nil, zerolog.Nop()).WithClock(now)
}

func TestRefreshWithMock(t *testing.T) {
	t.Parallel()

	clock := start
	e := mockEngine(t, &clock)
	assert.Nil(t, e.Last())

	snap := e.Refresh(context.Background())
	require.NotNil(t, snap)
	assert.Same(t, snap, e.Last())
	assert.Equal(t, start, snap.Time)

	require.Len(t, snap.Events, 4)
	unscored := safety.NewScorer(config.DefaultScoring())
	for _, ev := range snap.Events {
		assert.GreaterOrEqual(t, ev.SafetyScore, 0)
		assert.LessOrEqual(t, ev.SafetyScore, unscored.ScoreEvent(ev, start, nil), "volatility only lowers safety")
	}
	assert.Equal(t, "Non-Farm Payrolls", snap.Events[0].Name)

	assert.Len(t, snap.News, 3)
	assert.Equal(t, 3, snap.Sentiment.Total())
	assert.Len(t, snap.Quotes, 7)
	assert.Len(t, snap.Volatility, 7)
	assert.Len(t, snap.Levels, 7)
	assert.Len(t, snap.Technicals, 7)
	assert.Len(t, snap.Correlation.Pairs, 7)

	require.Len(t, snap.Signals, 7, "every default pair touches USD")
	for _, s := range snap.Signals {
		assert.Equal(t, signal.Hold, s.Action, "a high-impact release two hours out is never safe")
		assert.LessOrEqual(t, s.SafetyScore, 40)
		assert.Nil(t, s.StopLoss)
		assert.Nil(t, s.PositionSize)
	}

	assert.False(t, snap.Context.Enhanced)
	assert.Contains(t, snap.Insights, "Market conditions are risky - consider reducing position sizes")
	assert.Equal(t, safety.HighRisk, snap.RiskLevel)
	assert.Empty(t, snap.Alerts)
	assert.Contains(t, snap.OpenSessions, "London")
}

func TestRefreshAlerts(t *testing.T) {
	t.Parallel()

	clock := start
	cfg := config.Default()
	src := stubSource{events: []market.EconomicEvent{
		{Name: "Retail Sales", Currency: "USD", Impact: market.High, Time: start.Add(90 * time.Minute)},
	}}
	e := New(cfg, src, nil, sentiment.NewKeywordScorer(nil, nil), nil, zerolog.Nop()).
		WithClock(func() time.Time { return clock })

	first := e.Refresh(context.Background())
	assert.Empty(t, first.Alerts)

	clock = start.Add(time.Hour)
	second := e.Refresh(context.Background())
	require.NotEmpty(t, second.Alerts)
	last := second.Alerts[len(second.Alerts)-1]
	assert.Equal(t, safety.AlertUpcomingEvent, last.Kind)
	assert.Equal(t, "High-impact event in 30 minutes: Retail Sales", last.Message)

	assert.Empty(t, first.Alerts, "earlier snapshots are not modified")
}

func TestRefreshSourceFailure(t *testing.T) {
	t.Parallel()

	e := New(config.Default(), stubSource{err: errors.New("down")}, nil, sentiment.NewLexiconScorer(), nil, zerolog.Nop())
	snap := e.Refresh(context.Background())

	assert.Empty(t, snap.Events)
	assert.Empty(t, snap.News)
	assert.Empty(t, snap.Signals)
	assert.Equal(t, 50, snap.AvgSafety)
	assert.Equal(t, sentiment.Summary{Label: sentiment.Neutral}, snap.Sentiment)
	assert.Equal(t, []string{"Market conditions are mixed - maintain standard risk management"}, snap.Insights)
}

func TestRefreshDropsInvalidRecords(t *testing.T) {
	t.Parallel()

	src := stubSource{
		events: []market.EconomicEvent{
			{Name: "ok", Currency: "EUR", Impact: market.Low, Time: start.Add(5 * time.Hour)},
			{Name: "bad currency", Currency: "euro", Impact: market.Low, Time: start},
		},
		news: []market.NewsItem{
			{Title: "no url", Summary: "x", Source: "y", Published: start},
		},
	}
	e := New(config.Default(), src, nil, sentiment.NewLexiconScorer(), nil, zerolog.Nop()).
		WithClock(func() time.Time { return start })

	snap := e.Refresh(context.Background())
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "ok", snap.Events[0].Name)
	assert.Empty(t, snap.News)
}

func TestRefreshActionableSignal(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Scoring.SafetyBase = 100
	cfg.Sources.Pairs = []string{"EURUSD", "USDJPY"}

	src := stubSource{events: []market.EconomicEvent{
		{Name: "ECB Interest Rate Decision", Currency: "EUR", Impact: market.High, Time: start.Add(10 * time.Hour)},
	}}
	quotes := stubQuotes{"EURUSD": {Symbol: "EURUSD", Price: 1.1}}
	e := New(cfg, src, quotes, sentiment.NewKeywordScorer(nil, nil), nil, zerolog.Nop()).
		WithClock(func() time.Time { return start })

	snap := e.Refresh(context.Background())
	require.Len(t, snap.Signals, 1, "USDJPY has no quote")

	s := snap.Signals[0]
	assert.Equal(t, signal.Buy, s.Action)
	assert.Equal(t, 70, s.SafetyScore)
	require.NotNil(t, s.StopLoss)
	require.NotNil(t, s.TakeProfit)
	require.NotNil(t, s.PositionSize)
	assert.InDelta(t, 1.098, *s.StopLoss, 1e-9)
	assert.InDelta(t, 1.104, *s.TakeProfit, 1e-9)
	assert.InDelta(t, 5000, *s.PositionSize, 0.01)

	assert.Equal(t, 70, snap.AvgSafety)
	assert.InDelta(t, 2000, snap.DefaultSize.Size, 0.01)
	assert.Equal(t, 0.5, snap.DefaultSize.ImpactModifier)
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	clock := start
	e := mockEngine(t, &clock)
	first := e.Current(context.Background())
	assert.Same(t, first, e.Current(context.Background()))
}
