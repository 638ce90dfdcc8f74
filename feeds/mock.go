package feeds

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/fxdash/market"
)

var mockPrices = map[string]float64{
	"EURUSD": 1.0850,
	"GBPUSD": 1.2650,
	"USDJPY": 149.50,
	"AUDUSD": 0.6750,
	"USDCAD": 1.3580,
	"USDCHF": 0.8920,
	"NZDUSD": 0.6150,
}

// Mock is a deterministic Source and QuoteSource. Event and news times
// are relative to Now; quote noise comes from a seeded generator.
type Mock struct {
	Now  func() time.Time
	seed int64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMock(seed int64, now func() time.Time) *Mock {
	if now == nil {
		now = time.Now
	}
	return &Mock{Now: now, seed: seed, rng: rand.New(rand.NewSource(seed))}
}

func (m *Mock) FetchEvents(ctx context.Context) ([]market.EconomicEvent, error) {
	now := m.Now()
	return []market.EconomicEvent{
		{
			Time:               now.Add(2 * time.Hour),
			Currency:           "USD",
			Name:               "Non-Farm Payrolls",
			Impact:             market.High,
			Forecast:           "200K",
			Previous:           "180K",
			SafetyScore:        25,
			VolatilityExpected: 0.8,
		},
		{
			Time:               now.Add(6 * time.Hour),
			Currency:           "EUR",
			Name:               "ECB Interest Rate Decision",
			Impact:             market.High,
			Forecast:           "4.50%",
			Previous:           "4.50%",
			SafetyScore:        15,
			VolatilityExpected: 0.7,
		},
		{
			Time:               now.Add(24 * time.Hour),
			Currency:           "GBP",
			Name:               "GDP Growth Rate",
			Impact:             market.Medium,
			Forecast:           "0.2%",
			Previous:           "0.1%",
			SafetyScore:        60,
			VolatilityExpected: 0.5,
		},
		{
			Time:               now.Add(48 * time.Hour),
			Currency:           "JPY",
			Name:               "Core CPI",
			Impact:             market.Medium,
			Forecast:           "2.8%",
			Previous:           "2.7%",
			SafetyScore:        45,
			VolatilityExpected: 0.4,
		},
	}, nil
}

func (m *Mock) FetchNews(ctx context.Context) ([]market.NewsItem, error) {
	now := m.Now()
	return []market.NewsItem{
		{
			Title:     "Federal Reserve Signals Potential Rate Cuts Amid Economic Uncertainty",
			Summary:   "The Federal Reserve indicated possible interest rate reductions in response to slowing economic indicators and inflation concerns.",
			Source:    "Reuters",
			URL:       "https://reuters.com/example",
			Published: now.Add(-1 * time.Hour),
			Relevance: "High",
		},
		{
			Title:     "European Central Bank Maintains Hawkish Stance on Inflation",
			Summary:   "ECB officials continue to emphasize the need for restrictive monetary policy to combat persistent inflation pressures.",
			Source:    "Bloomberg",
			URL:       "https://bloomberg.com/example",
			Published: now.Add(-3 * time.Hour),
			Relevance: "High",
		},
		{
			Title:     "UK GDP Growth Exceeds Expectations in Latest Quarter",
			Summary:   "British economy shows resilience with stronger than anticipated growth figures, boosting GBP outlook.",
			Source:    "Financial Times",
			URL:       "https://ft.com/example",
			Published: now.Add(-5 * time.Hour),
			Relevance: "Medium",
		},
	}, nil
}

// Quotes prices the requested pairs around their reference price. Pairs
// without a reference price are left out.
func (m *Mock) Quotes(ctx context.Context, pairs []string) (map[string]market.MarketData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	out := make(map[string]market.MarketData, len(pairs))
	for _, name := range pairs {
		pair, err := market.ParsePair(name)
		if err != nil {
			continue
		}
		ref, ok := mockPrices[pair.String()]
		if !ok {
			continue
		}
		changePct := (m.rng.Float64() - 0.5) // within +/-0.5%
		change := ref * changePct / 100
		price := ref + change
		spread := ref * 0.00002
		out[pair.String()] = market.MarketData{
			Symbol:        pair.String(),
			Price:         price,
			Change:        change,
			ChangePercent: changePct,
			Volume:        100000 + m.rng.Int63n(900000),
			Time:          now,
			Bid:           price - spread/2,
			Ask:           price + spread/2,
			Spread:        spread,
		}
	}
	return out, nil
}

// History is a seeded random walk of daily closes ending near the
// reference price. The same pair and days always give the same series.
func (m *Mock) History(ctx context.Context, pair string, days int) ([]float64, error) {
	p, err := market.ParsePair(pair)
	if err != nil {
		return nil, err
	}
	ref, ok := mockPrices[p.String()]
	if !ok || days <= 0 {
		return nil, nil
	}

	var h int64
	for _, r := range p.String() {
		h = h*31 + int64(r)
	}
	rng := rand.New(rand.NewSource(m.seed ^ h))

	out := make([]float64, days)
	price := ref
	for i := days - 1; i >= 0; i-- {
		out[i] = price
		price *= math.Exp(rng.NormFloat64() * 0.005)
	}
	return out, nil
}
