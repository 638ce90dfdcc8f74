package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePair(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"EURUSD", "eur/usd", " EUR_USD ", "Eur-Usd"} {
		p, err := ParsePair(in)
		require.NoError(t, err, in)
		assert.Equal(t, Pair{Base: "EUR", Quote: "USD"}, p)
		assert.Equal(t, "EURUSD", p.String())
	}

	for _, in := range []string{"", "EURO", "EURUSDX", "EUR1SD"} {
		_, err := ParsePair(in)
		assert.Error(t, err, in)
	}

	assert.Panics(t, func() { MustPair("nope") })
}

func TestPairTouches(t *testing.T) {
	t.Parallel()

	p := MustPair("USDJPY")
	assert.True(t, p.Touches("USD"))
	assert.True(t, p.Touches("JPY"))
	assert.False(t, p.Touches("EUR"))
}

func TestPipValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10.0, PipValue("EURUSD", 1))
	assert.Equal(t, 25.0, PipValue("gbpusd", 2.5))
	assert.InDelta(t, 7.35, PipValue("USDCAD", 1), 1e-12)
	assert.Equal(t, 10.0, PipValue("XAUUSD", 1), "unknown pairs fall back to 10")
}

func TestPairsIn(t *testing.T) {
	t.Parallel()

	majors := PairsIn(Major)
	assert.Equal(t, []string{"AUDUSD", "EURUSD", "GBPUSD", "NZDUSD", "USDCAD", "USDCHF", "USDJPY"}, majors)
	assert.Contains(t, PairsIn(Minor), "EURGBP")
	assert.Len(t, PairsIn(Exotic), 6)
}

func TestSessions(t *testing.T) {
	t.Parallel()

	at := func(h int) time.Time { return time.Date(2024, 3, 4, h, 30, 0, 0, time.UTC) }

	assert.Equal(t, []string{"Sydney", "Tokyo"}, OpenSessions(at(2)))
	assert.Equal(t, []string{"London"}, OpenSessions(at(10)))
	assert.Equal(t, []string{"London", "New York"}, OpenSessions(at(14)))
	assert.Equal(t, []string{"Sydney"}, OpenSessions(at(23)))
	assert.Equal(t, []string{"Tokyo", "London"}, OpenSessions(at(8)))

	assert.True(t, IsSessionOpen("Tokyo", at(0)))
	assert.False(t, IsSessionOpen("Tokyo", at(9)))
	assert.True(t, IsSessionOpen("Atlantis", at(12)))

	ny := time.FixedZone("EST", -5*3600)
	assert.True(t, IsSessionOpen("London", time.Date(2024, 3, 4, 5, 0, 0, 0, ny)), "evaluated in UTC")
}

func TestParseImpact(t *testing.T) {
	t.Parallel()

	tests := map[string]Impact{"High": High, "high": High, " MEDIUM ": Medium, "med": Medium, "low": Low}
	for in, want := range tests {
		got, err := ParseImpact(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseImpact("Holiday")
	assert.Error(t, err)
}

func TestEventAndNewsHelpers(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	ev := EconomicEvent{Time: now.Add(90 * time.Minute), Impact: High}
	assert.Equal(t, 1.5, ev.HoursUntil(now))
	assert.Equal(t, -0.5, EconomicEvent{Time: now.Add(-30 * time.Minute)}.HoursUntil(now))
	assert.True(t, ev.IsHighImpact())

	n := NewsItem{Title: "Fed holds", Summary: "Rates unchanged ", Published: now.Add(-2 * time.Hour)}
	assert.Equal(t, 2.0, n.AgeHours(now))
	assert.Equal(t, "Fed holds Rates unchanged", n.Text())

	q := MarketData{Price: 1.1, Bid: 1.0999, Ask: 1.1001, Change: -0.001}
	assert.False(t, q.IsBullish())
	spread, ok := q.SpreadPercent()
	require.True(t, ok)
	assert.InDelta(t, 0.0181818, spread, 1e-6)
	_, ok = MarketData{Price: 1.1}.SpreadPercent()
	assert.False(t, ok)
}

func TestFilterEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	good := EconomicEvent{Time: now, Currency: "USD", Name: "CPI", Impact: High, SafetyScore: 40, VolatilityExpected: 0.8}
	events := []EconomicEvent{
		good,
		{Time: now, Currency: "usd", Name: "CPI", Impact: High},
		{Time: now, Currency: "USD", Name: "CPI", Impact: "Extreme"},
		{Time: now, Currency: "USD", Impact: Low},
		{Time: now, Currency: "USD", Name: "CPI", Impact: Low, SafetyScore: 101},
		{Currency: "USD", Name: "CPI", Impact: Low},
	}
	valid, errs := FilterEvents(events)
	assert.Equal(t, []EconomicEvent{good}, valid)
	assert.Len(t, errs, 5)
}

func TestFilterNews(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	good := NewsItem{Title: "t", Summary: "s", Source: "Reuters", URL: "https://example.com/a", Published: now, Relevance: "High"}
	bad := 1.5

	valid, errs := FilterNews([]NewsItem{
		good,
		{Title: "t", Summary: "s", Source: "Reuters", URL: "not a url", Published: now},
		{Title: "t", Summary: "s", Source: "Reuters", URL: "https://example.com/b", Published: now, Relevance: "Huge"},
		{Title: "t", Summary: "s", Source: "Reuters", URL: "https://example.com/c", Published: now, Sentiment: &bad},
		{Summary: "s", Source: "Reuters", URL: "https://example.com/d", Published: now},
	})
	assert.Equal(t, []NewsItem{good}, valid)
	assert.Len(t, errs, 4)
}
