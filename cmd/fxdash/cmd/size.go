package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxdash/market"
	"github.com/rustyeddy/fxdash/risk"
	"github.com/rustyeddy/fxdash/safety"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Recommend a position size",
	Long: `Size a position from the account balance, risk percent and stop distance.
Risk is cut to 30% below safety 40 and halved for high-impact events.

Example:
  fxdash size --pair EURUSD --entry 1.0850 --stop 1.0800 --safety 80`,
	Args: cobra.NoArgs,
	RunE: runSize,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Check a trade setup against the risk rules",
	Long: `Validate stop and target placement, reward/risk, risk percent and safety.

Example:
  fxdash setup --pair EURUSD --action BUY --entry 1.0850 --stop 1.0800 --target 1.0950`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

var tradeFlags struct {
	pair    string
	action  string
	balance float64
	riskPct float64
	entry   float64
	stop    float64
	target  float64
	safety  int
	impact  string
	pipVal  float64
}

func init() {
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(setupCmd)

	for _, c := range []*cobra.Command{sizeCmd, setupCmd} {
		c.Flags().StringVarP(&tradeFlags.pair, "pair", "p", "EURUSD", "currency pair")
		c.Flags().Float64Var(&tradeFlags.balance, "balance", 0, "account balance (default risk.account_balance)")
		c.Flags().Float64Var(&tradeFlags.riskPct, "risk", 0, "risk percent (default risk.default_risk_percent)")
		c.Flags().Float64Var(&tradeFlags.entry, "entry", 0, "entry price")
		c.Flags().Float64Var(&tradeFlags.stop, "stop", 0, "stop loss price")
		c.Flags().IntVar(&tradeFlags.safety, "safety", 50, "safety score 0-100")
		c.Flags().StringVar(&tradeFlags.impact, "impact", "Low", "impact of the event being traded")
		c.Flags().Float64Var(&tradeFlags.pipVal, "pip-value", 0, "pip value of one lot in USD (default from the instrument table)")
		_ = c.MarkFlagRequired("entry")
		_ = c.MarkFlagRequired("stop")
	}
	setupCmd.Flags().StringVarP(&tradeFlags.action, "action", "a", "BUY", "BUY or SELL")
	setupCmd.Flags().Float64Var(&tradeFlags.target, "target", 0, "take profit price")
	_ = setupCmd.MarkFlagRequired("target")
}

func tradeIntent() (risk.TradeIntent, error) {
	pair, err := market.ParsePair(tradeFlags.pair)
	if err != nil {
		return risk.TradeIntent{}, err
	}
	impact, err := market.ParseImpact(tradeFlags.impact)
	if err != nil {
		return risk.TradeIntent{}, err
	}
	if tradeFlags.safety < 0 || tradeFlags.safety > 100 {
		return risk.TradeIntent{}, fmt.Errorf("safety must be between 0 and 100")
	}
	if tradeFlags.pipVal < 0 {
		return risk.TradeIntent{}, fmt.Errorf("pip-value must be positive")
	}
	balance := tradeFlags.balance
	if balance <= 0 {
		balance = cfg.Risk.AccountBalance
	}
	riskPct := tradeFlags.riskPct
	if riskPct <= 0 {
		riskPct = cfg.Risk.DefaultRiskPercent
	}
	return risk.TradeIntent{
		Pair:        pair.String(),
		Action:      strings.ToUpper(tradeFlags.action),
		Entry:       tradeFlags.entry,
		Stop:        tradeFlags.stop,
		TakeProfit:  tradeFlags.target,
		Balance:     balance,
		RiskPercent: riskPct,
		SafetyScore: tradeFlags.safety,
		Impact:      impact,
		PipValue:    tradeFlags.pipVal,
	}, nil
}

func runSize(cmd *cobra.Command, args []string) error {
	in, err := tradeIntent()
	if err != nil {
		return err
	}
	policy := risk.NewPolicy(cfg.Risk)
	res := risk.Size(policy.Inputs(in))
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("Position size for "+in.Pair))
	fmt.Fprintf(out, "  Balance:       %s\n", risk.FormatCurrency(in.Balance, "USD"))
	fmt.Fprintf(out, "  Base risk:     %s (%.2f%%)\n", risk.FormatCurrency(res.BaseRisk, "USD"), in.RiskPercent)
	fmt.Fprintf(out, "  Safety:        %s x%.1f\n", safetyText(in.SafetyScore, fmt.Sprintf("%d (%s)", in.SafetyScore, safety.RiskLevel(in.SafetyScore))), res.SafetyModifier)
	fmt.Fprintf(out, "  Impact:        %s x%.1f\n", in.Impact, res.ImpactModifier)
	fmt.Fprintf(out, "  Risk amount:   %s\n", risk.FormatCurrency(res.RiskAmount, "USD"))
	fmt.Fprintf(out, "  Stop distance: %.5f (%.1f pips)\n", res.StopDistance, risk.Pips(in.Pair, res.StopDistance))
	fmt.Fprintf(out, "  Position size: %s\n", greenStyle.Render(fmt.Sprintf("%.2f", res.Size)))
	if res.ExceedsMaxLots {
		fmt.Fprintln(out, orangeStyle.Render(fmt.Sprintf("  Size exceeds the %.0f lot limit", cfg.Risk.MaxLots)))
	}
	return nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	in, err := tradeIntent()
	if err != nil {
		return err
	}
	policy := risk.NewPolicy(cfg.Risk)
	d := policy.Evaluate(in)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s %s setup", in.Action, in.Pair)))
	fmt.Fprintf(out, "  Risk:   %.5f (%.1f pips)\n", d.RiskAmount, risk.Pips(in.Pair, d.RiskAmount))
	fmt.Fprintf(out, "  Reward: %.5f (%.1f pips)\n", d.RewardAmount, risk.Pips(in.Pair, d.RewardAmount))
	fmt.Fprintf(out, "  R:R     %.2f\n", d.PlannedRR)
	if d.Allowed {
		fmt.Fprintln(out, greenStyle.Render("  Setup passes all checks"))
		return nil
	}
	for _, v := range d.Violations {
		fmt.Fprintln(out, redStyle.Render("  "+v.Code+": "+v.Msg))
	}
	return fmt.Errorf("setup rejected with %d violation(s)", len(d.Violations))
}
