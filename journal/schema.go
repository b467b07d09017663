package journal

// Schema is applied on open; CREATE IF NOT EXISTS keeps it idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS risk_results (
	result_id    TEXT PRIMARY KEY,
	method       TEXT NOT NULL,
	confidence   REAL NOT NULL,
	horizon_days INTEGER NOT NULL,
	var          REAL NOT NULL,
	cvar         REAL NOT NULL,
	value        REAL NOT NULL,
	currency     TEXT NOT NULL,
	mean         REAL NOT NULL,
	stdev        REAL NOT NULL,
	paths        INTEGER NOT NULL DEFAULT 0,
	seed         INTEGER NOT NULL DEFAULT 0,
	computed_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_risk_results_method
	ON risk_results(method, computed_at);

CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id     TEXT PRIMARY KEY,
	strategy   TEXT NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time   TIMESTAMP NOT NULL,
	metrics    TEXT NOT NULL -- JSON map name -> value
);

CREATE TABLE IF NOT EXISTS equity_points (
	run_id TEXT NOT NULL REFERENCES backtest_runs(run_id),
	time   TIMESTAMP NOT NULL,
	value  REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_points_run
	ON equity_points(run_id, time);

CREATE TABLE IF NOT EXISTS trades (
	run_id       TEXT NOT NULL REFERENCES backtest_runs(run_id),
	time         TIMESTAMP NOT NULL,
	symbol       TEXT NOT NULL,
	weight_delta REAL NOT NULL,
	value        REAL NOT NULL,
	cost         REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run
	ON trades(run_id, time);
`
