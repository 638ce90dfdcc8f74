package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"id", "timestamp", "event_name", "pair", "trade_type", "entry_price", "exit_price",
	"profit_loss", "safety_score", "sentiment_score", "position_size", "duration_minutes",
}

// WriteCSV writes a header row and one row per trade.
func WriteCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.Timestamp.UTC().Format(time.RFC3339),
			t.EventName,
			t.Pair,
			t.TradeType,
			f(t.EntryPrice),
			f(t.ExitPrice),
			f(t.ProfitLoss),
			strconv.Itoa(t.SafetyScore),
			f(t.SentimentScore),
			f(t.PositionSize),
			strconv.Itoa(t.DurationMinutes),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
