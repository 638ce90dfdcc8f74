package analysis

import (
	"fmt"
	"math"
)

const tradingDays = 252

// Volatility is the annualised standard deviation of log returns,
// clamped to [0.1, 1]. Histories shorter than period give 0.5.
func Volatility(prices []float64, period int) float64 {
	if len(prices) < period || len(prices) < 2 {
		return 0.5
	}
	r := logReturns(prices)
	m := mean(r)
	ss := 0.0
	for _, x := range r {
		ss += (x - m) * (x - m)
	}
	vol := math.Sqrt(ss/float64(len(r))) * math.Sqrt(tradingDays)
	return math.Min(1, math.Max(0.1, vol))
}

// Levels are classic pivot points over a price window.
type Levels struct {
	Pivot      float64 `json:"pivot"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	Range      float64 `json:"range"`
}

// SupportResistance computes pivot levels from the window's high, low and
// last price. With fewer than ten prices the raw low and high are used.
func SupportResistance(prices []float64) Levels {
	if len(prices) == 0 {
		return Levels{}
	}
	high, low := prices[0], prices[0]
	for _, p := range prices {
		high = math.Max(high, p)
		low = math.Min(low, p)
	}
	last := prices[len(prices)-1]
	pivot := (high + low + last) / 3

	if len(prices) < 10 {
		return Levels{Pivot: pivot, Support: low, Resistance: high, Range: high - low}
	}
	return Levels{
		Pivot:      pivot,
		Support:    2*pivot - high,
		Resistance: 2*pivot - low,
		Range:      high - low,
	}
}

// RSI averages the last period gains and losses. It is 50 when there is
// not enough data and 100 when there were no losses.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}
	var gain, loss float64
	for i := len(prices) - period; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// MA calculates the Simple Moving Average of the last period prices.
func MA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average, seeded with the SMA of
// the first period prices.
func EMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	multiplier := 2.0 / float64(period+1)
	ema := 0.0
	for _, p := range prices[:period] {
		ema += p
	}
	ema /= float64(period)

	for _, p := range prices[period:] {
		ema = (p-ema)*multiplier + ema
	}
	return ema, nil
}

const rsiPeriod = 14

// Technicals summarises one pair's recent closes.
type Technicals struct {
	RSI   float64 `json:"rsi"`
	MA    float64 `json:"ma,omitempty"`
	EMA   float64 `json:"ema,omitempty"`
	Trend string  `json:"trend"` // up, down or flat
}

// Technical computes RSI(14) and both averages over period. The trend is
// up when the last price is above both averages, down when below both.
func Technical(prices []float64, period int) Technicals {
	t := Technicals{RSI: RSI(prices, rsiPeriod), Trend: "flat"}
	ma, err := MA(prices, period)
	if err != nil {
		return t
	}
	ema, err := EMA(prices, period)
	if err != nil {
		return t
	}
	t.MA, t.EMA = ma, ema

	last := prices[len(prices)-1]
	switch {
	case last > ma && last > ema:
		t.Trend = "up"
	case last < ma && last < ema:
		t.Trend = "down"
	}
	return t
}
