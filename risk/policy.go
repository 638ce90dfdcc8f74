package risk

import (
	"fmt"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
)

type Policy struct {
	DefaultRiskPct float64 // 2 means 2%
	MaxRiskPct     float64
	MinSafety      int
	MaxLots        float64
	MinRR          float64
}

func NewPolicy(cfg config.RiskConfig) Policy {
	return Policy{
		DefaultRiskPct: cfg.DefaultRiskPercent,
		MaxRiskPct:     cfg.MaxRiskPercent,
		MinSafety:      cfg.MinSafety,
		MaxLots:        cfg.MaxLots,
		MinRR:          cfg.MinRR,
	}
}

type TradeIntent struct {
	Pair        string
	Action      string
	Entry       float64
	Stop        float64
	TakeProfit  float64
	Balance     float64
	RiskPercent float64
	SafetyScore int
	Impact      market.Impact
	PipValue    float64 // per lot; 0 looks it up from the instrument table
}

// Evaluate runs CheckSetup with the policy's minimum RR and adds the
// account level limits.
func (p Policy) Evaluate(in TradeIntent) Decision {
	d := CheckSetup(in.Entry, in.Stop, in.TakeProfit, in.Action, p.MinRR)

	if in.RiskPercent > p.MaxRiskPct {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("risk %.2f%% exceeds max %.2f%%", in.RiskPercent, p.MaxRiskPct))
	}
	if in.SafetyScore < p.MinSafety {
		d.add("SAFETY_TOO_LOW",
			fmt.Sprintf("safety score %d below minimum %d", in.SafetyScore, p.MinSafety))
	}
	return d
}

// Inputs fills SizeInputs for the intent. The intent's pip value wins
// over the pair's table value.
func (p Policy) Inputs(in TradeIntent) SizeInputs {
	riskPct := in.RiskPercent
	if riskPct <= 0 {
		riskPct = p.DefaultRiskPct
	}
	pipValue := in.PipValue
	if pipValue <= 0 {
		pipValue = 10.0
		if meta, ok := instrument(in.Pair); ok {
			pipValue = meta.PipValue
		}
	}
	return SizeInputs{
		Balance:     in.Balance,
		RiskPercent: riskPct,
		Entry:       in.Entry,
		Stop:        in.Stop,
		PipValue:    pipValue,
		SafetyScore: in.SafetyScore,
		Impact:      in.Impact,
		MaxLots:     p.MaxLots,
	}
}
