// journal/journal.go
package journal

import (
	"context"
	"time"
)

// TradeRecord is one completed trade. Timestamp is the close time.
type TradeRecord struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	EventName       string    `json:"event_name"`
	Pair            string    `json:"pair"`
	TradeType       string    `json:"trade_type"` // BUY or SELL
	EntryPrice      float64   `json:"entry_price"`
	ExitPrice       float64   `json:"exit_price"`
	ProfitLoss      float64   `json:"profit_loss"`
	SafetyScore     int       `json:"safety_score"`
	SentimentScore  float64   `json:"sentiment_score"`
	PositionSize    float64   `json:"position_size"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (t TradeRecord) IsProfitable() bool {
	return t.ProfitLoss > 0
}

// ReturnPercent is the price move in the trade's favour relative to entry.
func (t TradeRecord) ReturnPercent() float64 {
	if t.EntryPrice == 0 {
		return 0
	}
	r := (t.ExitPrice - t.EntryPrice) / t.EntryPrice * 100
	if t.TradeType == "SELL" {
		return -r
	}
	return r
}

// Stats summarises the journal. WinRate is a percentage.
type Stats struct {
	TotalTrades int     `json:"total_trades"`
	WinRate     float64 `json:"win_rate"`
	TotalPnL    float64 `json:"total_pnl"`
	AvgTrade    float64 `json:"avg_trade"`
	BestTrade   float64 `json:"best_trade"`
	WorstTrade  float64 `json:"worst_trade"`
}

type Store interface {
	Save(ctx context.Context, rec TradeRecord) (string, error)
	List(ctx context.Context, limit int) ([]TradeRecord, error)
	Get(ctx context.Context, id string) (TradeRecord, error)
	ListClosedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}
