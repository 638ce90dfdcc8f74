package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxdash/journal"
	"github.com/rustyeddy/fxdash/risk"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and query the trade journal",
	Long: `Record trades and query the journal database.

Subcommands:
  add    - Record a completed trade
  list   - List the most recent trades
  stats  - Show performance statistics
  trade  - Get details of a specific trade by ID
  today  - List trades closed today
  day    - List trades closed on a specific day
  export - Write trades as CSV or org-mode

Examples:
  fxdash journal add --pair EURUSD --type BUY --entry 1.0850 --exit 1.0875 --pnl 25
  fxdash journal trade <trade-id>
  fxdash journal day 2024-01-15
  fxdash journal export --format csv -o trades.csv`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a completed trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance statistics",
	Args:  cobra.NoArgs,
	RunE:  runJournalStats,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJournalDay(cmd, []string{time.Now().Format("2006-01-02")})
	},
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write trades as CSV or org-mode",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var (
	journalDSN   string
	journalLimit int

	journalRec journal.TradeRecord

	exportFormat string
	exportOutput string
	exportLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd, journalListCmd, journalStatsCmd,
		journalTradeCmd, journalTodayCmd, journalDayCmd, journalExportCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDSN, "db", "d", "", "journal DSN (default journal.dsn)")

	f := journalAddCmd.Flags()
	f.StringVar(&journalRec.EventName, "event", "", "event the trade was based on")
	f.StringVarP(&journalRec.Pair, "pair", "p", "", "currency pair")
	f.StringVarP(&journalRec.TradeType, "type", "t", "", "BUY or SELL")
	f.Float64Var(&journalRec.EntryPrice, "entry", 0, "entry price")
	f.Float64Var(&journalRec.ExitPrice, "exit", 0, "exit price")
	f.Float64Var(&journalRec.ProfitLoss, "pnl", 0, "profit or loss in account currency")
	f.IntVar(&journalRec.SafetyScore, "safety", 0, "safety score when the trade was opened")
	f.Float64Var(&journalRec.SentimentScore, "sentiment", 0, "news sentiment when the trade was opened")
	f.Float64Var(&journalRec.PositionSize, "size", 0, "position size")
	f.IntVar(&journalRec.DurationMinutes, "minutes", 0, "trade duration in minutes")
	_ = journalAddCmd.MarkFlagRequired("pair")
	_ = journalAddCmd.MarkFlagRequired("type")

	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of trades")
	journalExportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 1000, "number of trades")
	journalExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or org")
	journalExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cfg, journalDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec := journalRec
	rec.TradeType = strings.ToUpper(rec.TradeType)
	id, err := j.Save(cmd.Context(), rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded trade %s\n", id)
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cfg, journalDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.List(cmd.Context(), journalLimit)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	t := newTable("Closed", "Pair", "Type", "Entry", "Exit", "P/L", "Safety", "ID")
	for _, tr := range trades {
		pnl := risk.FormatCurrency(tr.ProfitLoss, "USD")
		if tr.IsProfitable() {
			pnl = greenStyle.Render(pnl)
		} else {
			pnl = redStyle.Render(pnl)
		}
		t.Row(tr.Timestamp.Local().Format("2006-01-02 15:04"), tr.Pair, tr.TradeType,
			fmt.Sprintf("%.5f", tr.EntryPrice), fmt.Sprintf("%.5f", tr.ExitPrice), pnl,
			fmt.Sprint(tr.SafetyScore), tr.ID)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func runJournalStats(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cfg, journalDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	st, err := j.Stats(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Trading performance"))
	fmt.Fprintf(out, "  Trades:    %d\n", st.TotalTrades)
	fmt.Fprintf(out, "  Win rate:  %.1f%%\n", st.WinRate)
	fmt.Fprintf(out, "  Total P/L: %s\n", scoreText(st.TotalPnL, risk.FormatCurrency(st.TotalPnL, "USD")))
	fmt.Fprintf(out, "  Average:   %s\n", risk.FormatCurrency(st.AvgTrade, "USD"))
	fmt.Fprintf(out, "  Best:      %s\n", risk.FormatCurrency(st.BestTrade, "USD"))
	fmt.Fprintf(out, "  Worst:     %s\n", risk.FormatCurrency(st.WorstTrade, "USD"))
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cfg, journalDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cfg, journalDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	recs, err := j.ListClosedBetween(cmd.Context(), start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cfg, journalDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.List(cmd.Context(), exportLimit)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch exportFormat {
	case "csv":
		return journal.WriteCSV(out, trades)
	case "org":
		_, err := fmt.Fprintln(out, journal.FormatTradesOrg(trades))
		return err
	default:
		return fmt.Errorf("unknown format %q (want csv or org)", exportFormat)
	}
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
