package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	trade_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	units REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	bars_held INTEGER NOT NULL,
	realized_pl REAL NOT NULL,
	reason TEXT NOT NULL,
	law TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_trades_close ON trades(close_time);

CREATE TABLE IF NOT EXISTS rejections (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	law TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL,
	tag TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_rejections_run ON rejections(run_id);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	equity REAL NOT NULL,
	drawdown REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`
