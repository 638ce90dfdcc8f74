package risk

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxdash/market"
)

const (
	lowSafetyThreshold = 40
	lowSafetyModifier  = 0.3
	highImpactModifier = 0.5
)

type SizeInputs struct {
	Balance     float64
	RiskPercent float64 // 2 means 2%
	Entry       float64
	Stop        float64
	PipValue    float64
	SafetyScore int
	Impact      market.Impact
	// MaxLots only sets SizeResult.ExceedsMaxLots; 0 disables the check.
	MaxLots float64
}

type SizeResult struct {
	Size           float64 `json:"position_size"`
	BaseRisk       float64 `json:"base_risk"`
	RiskAmount     float64 `json:"risk_amount"`
	SafetyModifier float64 `json:"safety_modifier"`
	ImpactModifier float64 `json:"impact_modifier"`
	StopDistance   float64 `json:"stop_distance"`
	ExceedsMaxLots bool    `json:"exceeds_max_lots"`
}

// Size recommends a position size. Risk is cut to 30% below safety 40
// and halved for high-impact events. A zero stop distance yields size 0.
// The size is rounded to two decimals and never clamped.
func Size(in SizeInputs) SizeResult {
	res := SizeResult{
		BaseRisk:       in.Balance * in.RiskPercent / 100,
		SafetyModifier: 1.0,
		ImpactModifier: 1.0,
		StopDistance:   abs(in.Entry - in.Stop),
	}
	if in.SafetyScore < lowSafetyThreshold {
		res.SafetyModifier = lowSafetyModifier
	}
	if in.Impact == market.High {
		res.ImpactModifier = highImpactModifier
	}
	res.RiskAmount = res.BaseRisk * res.SafetyModifier * res.ImpactModifier

	if res.StopDistance > 0 && in.PipValue > 0 {
		raw := res.RiskAmount / (res.StopDistance * in.PipValue)
		res.Size, _ = decimal.NewFromFloat(raw).Round(2).Float64()
	}
	res.ExceedsMaxLots = in.MaxLots > 0 && res.Size > in.MaxLots
	return res
}

// SizeForPair is Size with the pip value looked up for one lot of pair.
func SizeForPair(pair string, in SizeInputs) SizeResult {
	in.PipValue = market.PipValue(pair, 1)
	return Size(in)
}

func instrument(pair string) (market.InstrumentMeta, bool) {
	p, err := market.ParsePair(pair)
	if err != nil {
		return market.InstrumentMeta{}, false
	}
	meta, ok := market.Instruments[strings.ToUpper(p.String())]
	return meta, ok
}
