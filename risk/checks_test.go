package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
)

func TestCheckSetup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   float64
		stop    float64
		tp      float64
		action  string
		allowed bool
		codes   []string
	}{
		{"valid buy", 1.10, 1.09, 1.12, "BUY", true, nil},
		{"valid sell lower case", 1.10, 1.11, 1.08, "sell", true, nil},
		{"buy stop above", 1.10, 1.11, 1.12, "BUY", false, []string{"STOP_WRONG_SIDE"}},
		{"buy target below", 1.10, 1.09, 1.05, "BUY", false, []string{"TARGET_WRONG_SIDE"}},
		{"sell both wrong", 1.10, 1.09, 1.12, "SELL", false, []string{"STOP_WRONG_SIDE", "TARGET_WRONG_SIDE"}},
		{"rr too low", 1.10, 1.09, 1.105, "BUY", false, []string{"RR_TOO_LOW"}},
		{"non positive", 0, 1.09, 1.12, "BUY", false, []string{"NON_POSITIVE_PRICE"}},
		{"stop on entry", 1.10, 1.10, 1.12, "BUY", false, []string{"STOP_WRONG_SIDE", "RR_TOO_LOW"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := CheckSetup(tt.entry, tt.stop, tt.tp, tt.action, 1.0)
			assert.Equal(t, tt.allowed, d.Allowed)
			for _, code := range tt.codes {
				assert.True(t, d.Has(code), "missing %s in %+v", code, d.Violations)
			}
			if tt.allowed {
				assert.Empty(t, d.Violations)
			}
		})
	}
}

func TestCheckSetupAmounts(t *testing.T) {
	t.Parallel()

	d := CheckSetup(1.10, 1.09, 1.13, "BUY", 1.5)
	require.True(t, d.Allowed)
	assert.InDelta(t, 0.01, d.RiskAmount, 1e-9)
	assert.InDelta(t, 0.03, d.RewardAmount, 1e-9)
	assert.InDelta(t, 3.0, d.PlannedRR, 1e-6)
}

func TestPolicyEvaluate(t *testing.T) {
	t.Parallel()

	p := NewPolicy(config.Default().Risk)

	ok := p.Evaluate(TradeIntent{Action: "BUY", Entry: 1.10, Stop: 1.09, TakeProfit: 1.12, RiskPercent: 2, SafetyScore: 60})
	assert.True(t, ok.Allowed)

	bad := p.Evaluate(TradeIntent{Action: "BUY", Entry: 1.10, Stop: 1.09, TakeProfit: 1.12, RiskPercent: 6, SafetyScore: 20})
	assert.False(t, bad.Allowed)
	assert.True(t, bad.Has("RISK_TOO_HIGH"))
	assert.True(t, bad.Has("SAFETY_TOO_LOW"))

	lowRR := p.Evaluate(TradeIntent{Action: "BUY", Entry: 1.10, Stop: 1.09, TakeProfit: 1.111, RiskPercent: 1, SafetyScore: 60})
	assert.True(t, lowRR.Has("RR_TOO_LOW"), "default policy requires 1.5")
}

func TestPolicyInputs(t *testing.T) {
	t.Parallel()

	p := NewPolicy(config.Default().Risk)
	in := p.Inputs(TradeIntent{Pair: "USD/CAD", Balance: 5000, Entry: 1.36, Stop: 1.35, SafetyScore: 70, Impact: market.High})
	assert.Equal(t, 2.0, in.RiskPercent)
	assert.Equal(t, 7.35, in.PipValue)
	assert.Equal(t, 100.0, in.MaxLots)
	assert.Equal(t, market.High, in.Impact)

	in = p.Inputs(TradeIntent{Pair: "???", RiskPercent: 1})
	assert.Equal(t, 10.0, in.PipValue)
	assert.Equal(t, 1.0, in.RiskPercent)

	in = p.Inputs(TradeIntent{Pair: "USD/CAD", PipValue: 1})
	assert.Equal(t, 1.0, in.PipValue, "explicit pip value overrides the table")
}

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234.5, "USD", "$1,234.50"},
		{0, "USD", "$0.00"},
		{999.999, "", "$1,000.00"},
		{-1234567.891, "USD", "-$1,234,567.89"},
		{42, "EUR", "42.00 EUR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.currency))
	}
}
