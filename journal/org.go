package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block. Facts go in
// the PROPERTIES drawer; Thesis/Execution/Review are left for notes.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.TradeType, t.Pair, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":PAIR: %s\n", t.Pair))
	b.WriteString(fmt.Sprintf(":TRADE_TYPE: %s\n", t.TradeType))
	b.WriteString(fmt.Sprintf(":EVENT: %s\n", t.EventName))
	b.WriteString(fmt.Sprintf(":CLOSED: %s\n", t.Timestamp.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.5f\n", t.ExitPrice))
	b.WriteString(fmt.Sprintf(":POSITION_SIZE: %.2f\n", t.PositionSize))
	b.WriteString(fmt.Sprintf(":PROFIT_LOSS: %.2f\n", t.ProfitLoss))
	b.WriteString(fmt.Sprintf(":SAFETY_SCORE: %d\n", t.SafetyScore))
	b.WriteString(fmt.Sprintf(":SENTIMENT: %.2f\n", t.SentimentScore))
	b.WriteString(fmt.Sprintf(":DURATION_MIN: %d\n", t.DurationMinutes))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
