package risk

import "math"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// RR is reward over risk in price terms; 0 when the stop sits on entry.
func RR(entry, stop, takeProfit float64) float64 {
	risk := abs(entry - stop)
	reward := abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RiskPct returns risk as a percentage of equity.
func RiskPct(riskAmount, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return riskAmount / equity * 100
}

// PipSize returns the pip size for a given pip location.
func PipSize(loc int) float64 {
	return math.Pow(10, float64(loc))
}

// Pips converts a price distance on pair into pips.
func Pips(pair string, distance float64) float64 {
	loc := -4
	if meta, ok := instrument(pair); ok {
		loc = meta.PipLocation
	}
	return abs(distance) / PipSize(loc)
}
