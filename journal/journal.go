// Package journal persists backtest output: one row per trade and one row
// per simulated day. Sinks are pluggable (SQLite or CSV).
package journal

import "time"

type TradeRecord struct {
	TradeID     string
	Symbol      string
	Date        string // trading date, YYYY-MM-DD
	Direction   string
	Step        int
	Quantity    float64
	EntryPrice  float64
	ExitPrice   float64
	EntryTime   time.Time
	ExitTime    time.Time
	RealizedPnL float64
	Status      string // OPEN or CLOSED
	Reason      string // exit reason, empty while open
}

type DayRecord struct {
	Date       string
	Symbol     string
	Trend      string
	Direction  string
	Leverage   float64
	Trades     int
	Wins       int
	Losses     int
	PnL        float64
	RangeHigh  float64
	RangeLow   float64
	RangeWidth float64
	Breakouts  int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordDay(DayRecord) error
	Close() error
}
