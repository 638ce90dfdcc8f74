// journal/schema.go
package journal

// Schema is accepted by both SQLite and PostgreSQL.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	timestamp TIMESTAMP NOT NULL,
	event_name TEXT NOT NULL,
	pair TEXT NOT NULL,
	trade_type TEXT NOT NULL,
	entry_price DOUBLE PRECISION NOT NULL,
	exit_price DOUBLE PRECISION NOT NULL,
	profit_loss DOUBLE PRECISION NOT NULL,
	safety_score INTEGER NOT NULL,
	sentiment_score DOUBLE PRECISION NOT NULL,
	position_size DOUBLE PRECISION NOT NULL,
	duration_minutes INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
`

const tradeColumns = `id, timestamp, event_name, pair, trade_type, entry_price, exit_price,
	profit_loss, safety_score, sentiment_score, position_size, duration_minutes`
