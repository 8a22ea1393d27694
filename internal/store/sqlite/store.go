package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"signal-enginev1/internal/model"
)

// Config configures the SQLite store.
type Config struct {
	DBPath string // path to SQLite database file, e.g. "data/signals.db"
}

// Store persists generated signals and the trades opened from them.
// All writes go through a single connection.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// New opens the database with WAL mode and initializes the schema.
func New(cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Set connection pool for single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS signals (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol       TEXT    NOT NULL,
			timeframe    TEXT    NOT NULL,
			direction    TEXT    NOT NULL,
			entry        REAL    NOT NULL,
			stop_loss    REAL    NOT NULL,
			take_profit  REAL    NOT NULL,
			position_size REAL   NOT NULL,
			risk_percent REAL    NOT NULL,
			rsi          REAL    NOT NULL,
			volume_ratio REAL    NOT NULL,
			trend        TEXT    NOT NULL,
			ts           INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals (ts);
		CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts ON signals (symbol, ts);

		CREATE TABLE IF NOT EXISTS trades (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol          TEXT    NOT NULL,
			timeframe       TEXT    NOT NULL,
			direction       TEXT    NOT NULL,
			entry           REAL    NOT NULL,
			stop_loss       REAL    NOT NULL,
			take_profit     REAL    NOT NULL,
			position_size   REAL    NOT NULL,
			risk_amount     REAL    NOT NULL,
			profit_potential REAL   NOT NULL,
			capital_before  REAL    NOT NULL,
			capital_after   REAL,
			status          TEXT    NOT NULL DEFAULT 'open',
			realized_pnl    REAL,
			ts              INTEGER NOT NULL,
			closed_ts       INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_trades_status ON trades (status);
	`)
	return err
}

// SaveSignal inserts an evaluated signal row.
func (s *Store) SaveSignal(sized *model.SizedSignal) error {
	sig := sized.Signal
	_, err := s.db.Exec(`
		INSERT INTO signals (symbol, timeframe, direction, entry, stop_loss, take_profit,
			position_size, risk_percent, rsi, volume_ratio, trend, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sig.Symbol, sig.Timeframe, string(sig.Direction),
		sig.EntryPrice, sig.StopLoss, sig.TakeProfit,
		sized.PositionSize, sized.RiskPercent,
		sig.RSI, sig.VolumeRatio, string(sig.Trend),
		sig.GeneratedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlite insert signal: %w", err)
	}
	return nil
}

// OpenTrade inserts an open trade row and returns its id.
func (s *Store) OpenTrade(sized *model.SizedSignal) (int64, error) {
	sig := sized.Signal
	res, err := s.db.Exec(`
		INSERT INTO trades (symbol, timeframe, direction, entry, stop_loss, take_profit,
			position_size, risk_amount, profit_potential, capital_before, status, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'open', ?)`,
		sig.Symbol, sig.Timeframe, string(sig.Direction),
		sig.EntryPrice, sig.StopLoss, sig.TakeProfit,
		sized.PositionSize, sized.RiskAmount, sized.ProfitPotential,
		sized.CapitalSnapshot, sig.GeneratedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite insert trade: %w", err)
	}
	return res.LastInsertId()
}

// CloseTrade finalizes a trade with its realized pnl and resulting capital.
func (s *Store) CloseTrade(id int64, status string, realizedPnL, capitalAfter float64, closedAt time.Time) error {
	res, err := s.db.Exec(`
		UPDATE trades
		SET status = ?, realized_pnl = ?, capital_after = ?, closed_ts = ?
		WHERE id = ? AND status = 'open'`,
		status, realizedPnL, capitalAfter, closedAt.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite close trade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sqlite close trade: no open trade with id %d", id)
	}
	return nil
}

// SignalsSince counts signals generated at or after the given time.
func (s *Store) SignalsSince(since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM signals WHERE ts >= ?`, since.Unix()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite count signals: %w", err)
	}
	return n, nil
}

// OpenTrades returns the ids of trades still marked open, oldest first.
func (s *Store) OpenTrades() ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM trades WHERE status = 'open' ORDER BY ts ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite open trades: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
