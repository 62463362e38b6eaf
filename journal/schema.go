package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	date TEXT NOT NULL,
	direction TEXT NOT NULL,
	step INTEGER NOT NULL,
	quantity REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME,
	realized_pnl REAL NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);

CREATE TABLE IF NOT EXISTS day_results (
	date TEXT NOT NULL,
	symbol TEXT NOT NULL,
	trend TEXT NOT NULL,
	direction TEXT NOT NULL,
	leverage REAL NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	pnl REAL NOT NULL,
	range_high REAL NOT NULL,
	range_low REAL NOT NULL,
	range_width REAL NOT NULL,
	breakouts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_day_results_date ON day_results(date);
`
