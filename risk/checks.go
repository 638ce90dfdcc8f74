package risk

import (
	"fmt"
	"strings"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	RiskAmount   float64 `json:"risk"`
	RewardAmount float64 `json:"reward"`
	PlannedRR    float64 `json:"risk_reward"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Has reports whether a violation with code was recorded.
func (d Decision) Has(code string) bool {
	for _, v := range d.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// CheckSetup validates the geometry of a trade: positive prices, stop and
// target on the correct side of entry for action ("BUY" or "SELL") and a
// reward/risk of at least minRR.
func CheckSetup(entry, stop, takeProfit float64, action string, minRR float64) Decision {
	d := Decision{Allowed: true}

	if entry <= 0 {
		d.add("NON_POSITIVE_PRICE", "entry price must be positive")
	}
	if stop <= 0 {
		d.add("NON_POSITIVE_PRICE", "stop loss must be positive")
	}
	if takeProfit <= 0 {
		d.add("NON_POSITIVE_PRICE", "take profit must be positive")
	}

	switch strings.ToUpper(action) {
	case "BUY":
		if stop >= entry {
			d.add("STOP_WRONG_SIDE", "stop loss must be below entry price for BUY trades")
		}
		if takeProfit <= entry {
			d.add("TARGET_WRONG_SIDE", "take profit must be above entry price for BUY trades")
		}
	case "SELL":
		if stop <= entry {
			d.add("STOP_WRONG_SIDE", "stop loss must be above entry price for SELL trades")
		}
		if takeProfit >= entry {
			d.add("TARGET_WRONG_SIDE", "take profit must be below entry price for SELL trades")
		}
	}

	d.RiskAmount = abs(entry - stop)
	d.RewardAmount = abs(takeProfit - entry)
	d.PlannedRR = RR(entry, stop, takeProfit)

	if d.PlannedRR < minRR {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %.2f below minimum %.2f", d.PlannedRR, minRR))
	}
	return d
}
