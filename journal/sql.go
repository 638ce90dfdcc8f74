package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/fxdash/pkg/id"
)

const defaultListLimit = 50

// SQLStore keeps trades in SQLite ("sqlite3") or PostgreSQL ("postgres").
type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects with driver and dsn and creates the schema.
func Open(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("journal: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s journal: %w", driver, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &SQLStore{db: db, driver: driver, now: time.Now}, nil
}

// NewSQLite opens a SQLite journal at path.
func NewSQLite(path string) (*SQLStore, error) {
	return Open("sqlite3", path)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ErrInvalidTrade wraps every validation failure from Save.
var ErrInvalidTrade = errors.New("invalid trade record")

func validateRecord(rec TradeRecord) error {
	if rec.Pair == "" {
		return fmt.Errorf("%w: pair is required", ErrInvalidTrade)
	}
	if rec.TradeType != "BUY" && rec.TradeType != "SELL" {
		return fmt.Errorf("%w: trade_type must be BUY or SELL, got %q", ErrInvalidTrade, rec.TradeType)
	}
	if rec.EntryPrice <= 0 || rec.ExitPrice <= 0 {
		return fmt.Errorf("%w: prices must be positive", ErrInvalidTrade)
	}
	return nil
}

// Save stores rec and returns its ID. A missing ID is generated and a
// zero Timestamp is set to now.
func (s *SQLStore) Save(ctx context.Context, rec TradeRecord) (string, error) {
	if err := validateRecord(rec); err != nil {
		return "", err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	if rec.ID == "" {
		rec.ID = id.NewAt(rec.Timestamp)
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Timestamp.UTC(), rec.EventName, rec.Pair, rec.TradeType,
		rec.EntryPrice, rec.ExitPrice, rec.ProfitLoss, rec.SafetyScore,
		rec.SentimentScore, rec.PositionSize, rec.DurationMinutes,
	)
	if err != nil {
		return "", fmt.Errorf("save trade: %w", err)
	}
	return rec.ID, nil
}

// List returns the most recent trades first. limit <= 0 means 50.
func (s *SQLStore) List(ctx context.Context, limit int) ([]TradeRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+tradeColumns+`
		FROM trades
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return scanTrades(rows)
}

// Stats aggregates every stored trade.
func (s *SQLStore) Stats(ctx context.Context) (Stats, error) {
	var (
		st    Stats
		wins  int
		total sql.NullFloat64
		avg   sql.NullFloat64
		best  sql.NullFloat64
		worst sql.NullFloat64
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN profit_loss > 0 THEN 1 ELSE 0 END), 0),
			SUM(profit_loss), AVG(profit_loss), MAX(profit_loss), MIN(profit_loss)
		FROM trades`)
	if err := row.Scan(&st.TotalTrades, &wins, &total, &avg, &best, &worst); err != nil {
		return Stats{}, fmt.Errorf("trade stats: %w", err)
	}
	if st.TotalTrades == 0 {
		return Stats{}, nil
	}
	st.WinRate = float64(wins) / float64(st.TotalTrades) * 100
	st.TotalPnL = total.Float64
	st.AvgTrade = avg.Float64
	st.BestTrade = best.Float64
	st.WorstTrade = worst.Float64
	return st, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func scanTrades(rows *sql.Rows) ([]TradeRecord, error) {
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(sc scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := sc.Scan(
		&rec.ID,
		&rec.Timestamp,
		&rec.EventName,
		&rec.Pair,
		&rec.TradeType,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.ProfitLoss,
		&rec.SafetyScore,
		&rec.SentimentScore,
		&rec.PositionSize,
		&rec.DurationMinutes,
	)
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, err
}
