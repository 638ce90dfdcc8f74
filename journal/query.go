package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("trade not found")

// Get returns a single trade record by ID.
func (s *SQLStore) Get(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = ?`), tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListClosedBetween returns trades whose timestamp is within [start, end),
// oldest first.
func (s *SQLStore) ListClosedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC`), start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("list trades between: %w", err)
	}
	return scanTrades(rows)
}
