package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, date, direction, step, quantity, entry_price, exit_price,
		 entry_time, exit_time, realized_pnl, status, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Date, t.Direction, t.Step, t.Quantity,
		t.EntryPrice, t.ExitPrice, t.EntryTime, t.ExitTime, t.RealizedPnL,
		t.Status, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordDay(d DayRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO day_results
		(date, symbol, trend, direction, leverage, trades, wins, losses, pnl,
		 range_high, range_low, range_width, breakouts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Date, d.Symbol, d.Trend, d.Direction, d.Leverage, d.Trades,
		d.Wins, d.Losses, d.PnL, d.RangeHigh, d.RangeLow, d.RangeWidth, d.Breakouts,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
