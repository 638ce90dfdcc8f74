package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxdash/engine"
	"github.com/rustyeddy/fxdash/risk"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Print trading signals for the configured pairs",
	Long: `Run one refresh and print a signal per pair, with the market summary,
alerts and insights.

Examples:
  fxdash signals
  fxdash signals --actionable`,
	Args: cobra.NoArgs,
	RunE: runSignals,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print upcoming economic events with safety scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot(cmd)
		if err != nil {
			return err
		}
		printEvents(cmd.OutOrStdout(), snap)
		return nil
	},
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print headlines with their sentiment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot(cmd)
		if err != nil {
			return err
		}
		printNews(cmd.OutOrStdout(), snap)
		return nil
	},
}

var signalsActionable bool

func init() {
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(newsCmd)

	signalsCmd.Flags().BoolVar(&signalsActionable, "actionable", false, "only show signals worth acting on")
}

func snapshot(cmd *cobra.Command) (*engine.Snapshot, error) {
	eng, _, _, err := newEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	return eng.Refresh(cmd.Context()), nil
}

func runSignals(cmd *cobra.Command, args []string) error {
	snap, err := snapshot(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	printSummary(out, snap)

	t := newTable("Pair", "Action", "Conf", "Safety", "Entry", "Stop", "Target", "Reason")
	for _, s := range snap.Signals {
		if signalsActionable && !s.IsActionable() {
			continue
		}
		t.Row(s.Pair, actionText(s.Action), fmt.Sprintf("%.0f%%", s.Confidence),
			safetyText(s.SafetyScore, strconv.Itoa(s.SafetyScore)),
			fmt.Sprintf("%.5f", s.EntryPrice), level(s.StopLoss), level(s.TakeProfit), s.Reason)
	}
	fmt.Fprintln(out, t.Render())

	if len(snap.Insights) > 0 {
		fmt.Fprintln(out, headerStyle.Render("Insights"))
		for _, line := range snap.Insights {
			fmt.Fprintln(out, "  "+line)
		}
	}
	return nil
}

func printSummary(out io.Writer, snap *engine.Snapshot) {
	fmt.Fprintln(out, titleStyle.Render("FX Fundamental Dashboard  "+snap.Time.Format("2006-01-02 15:04 MST")))

	lines := []string{
		fmt.Sprintf("Safety      %s", safetyText(snap.AvgSafety, fmt.Sprintf("%d/100 (%s)", snap.AvgSafety, snap.RiskLevel))),
		fmt.Sprintf("Market risk %d", snap.MarketRisk),
		fmt.Sprintf("Sentiment   %s", scoreText(snap.Sentiment.Overall, fmt.Sprintf("%+.3f %s", snap.Sentiment.Overall, snap.Sentiment.Label))),
		fmt.Sprintf("Context     %s bias, %s volatility, %s", snap.Context.MarketBias, snap.Context.VolatilityExpectation, snap.Context.TradingRecommendation),
		fmt.Sprintf("Default     %.2f units risking %s", snap.DefaultSize.Size, risk.FormatCurrency(snap.DefaultSize.RiskAmount, "USD")),
	}
	for _, a := range snap.Alerts {
		lines = append(lines, orangeStyle.Render("! "+a.Message))
	}
	fmt.Fprintln(out, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func printEvents(out io.Writer, snap *engine.Snapshot) {
	t := newTable("Time", "Ccy", "Event", "Impact", "Forecast", "Previous", "Safety")
	for _, ev := range snap.Events {
		t.Row(ev.Time.Local().Format("Mon 15:04"), ev.Currency, ev.Name, string(ev.Impact),
			ev.Forecast, ev.Previous, safetyText(ev.SafetyScore, strconv.Itoa(ev.SafetyScore)))
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Average safety %s\n", safetyText(snap.AvgSafety, strconv.Itoa(snap.AvgSafety)))
}

func printNews(out io.Writer, snap *engine.Snapshot) {
	t := newTable("Published", "Source", "Headline", "Sentiment")
	for _, n := range snap.News {
		t.Row(n.Published.Local().Format("Jan 02 15:04"), n.Source, n.Title,
			scoreText(n.Score, fmt.Sprintf("%s %+.3f", n.Label, n.Score)))
	}
	fmt.Fprintln(out, t.Render())
	s := snap.Sentiment
	fmt.Fprintf(out, "Overall %s  bullish %d  neutral %d  bearish %d\n",
		scoreText(s.Overall, fmt.Sprintf("%+.3f", s.Overall)), s.Bullish, s.Neutral, s.Bearish)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func level(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f", *p)
}
