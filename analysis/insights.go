package analysis

// Insights turns a context into short advice lines. There is always at
// least one line.
func Insights(mc MarketContext) []string {
	var out []string

	switch {
	case mc.AvgSafetyScore < 40:
		out = append(out, "Market conditions are risky - consider reducing position sizes")
	case mc.AvgSafetyScore > 70:
		out = append(out, "Market conditions are favorable for trading")
	}

	if mc.HighImpactEvents > 2 {
		out = append(out, "Multiple high-impact events ahead - expect increased volatility")
	}

	switch {
	case mc.NewsSentiment.Overall > 0.3:
		out = append(out, "Strong bullish sentiment detected across financial news")
	case mc.NewsSentiment.Overall < -0.3:
		out = append(out, "Strong bearish sentiment detected across financial news")
	}

	if mc.VolatilityExpectation == "high" {
		out = append(out, "High volatility expected - use wider stops and smaller positions")
	}

	switch mc.TradingRecommendation {
	case "avoid":
		out = append(out, "Current conditions suggest avoiding new trades")
	case "aggressive":
		out = append(out, "Market conditions favor more aggressive trading strategies")
	}

	if len(out) == 0 {
		out = append(out, "Market conditions are mixed - maintain standard risk management")
	}
	return out
}
