package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	lookback INTEGER NOT NULL,
	signal_symbol TEXT NOT NULL,
	bull_symbol TEXT NOT NULL,
	bear_symbol TEXT NOT NULL,
	shorts_enabled INTEGER NOT NULL,
	initial_capital REAL NOT NULL,
	cost_fraction REAL NOT NULL,
	risk_free_rate REAL NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	final_value REAL NOT NULL,
	total_return REAL NOT NULL,
	cagr REAL,
	max_drawdown REAL NOT NULL,
	sharpe REAL,
	annual_vol REAL,
	win_rate REAL,
	trades INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	from_position TEXT NOT NULL,
	to_position TEXT NOT NULL,
	cost REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, date);
`
