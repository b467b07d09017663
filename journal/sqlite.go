// Package journal persists risk results and backtest runs to SQLite so
// research sessions can be compared after the fact. The analytics packages
// never write here themselves; persisting is a caller decision.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/quantlab/backtest"
	"github.com/rustyeddy/quantlab/risk"
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
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRiskResult(r risk.Result) error {
	_, err := j.db.Exec(`
		INSERT INTO risk_results
		(result_id, method, confidence, horizon_days, var, cvar, value, currency, mean, stdev, paths, seed, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Method), r.Confidence, r.HorizonDays, r.VaR, r.CVaR,
		r.PortfolioValue, r.Currency, r.Mean, r.Stdev, r.Paths, r.Seed, r.ComputedAt,
	)
	return err
}

// ListRiskResults returns results for a method since the given time, newest
// first. An empty method matches all methods.
func (j *SQLiteJournal) ListRiskResults(method risk.Method, since time.Time) ([]risk.Result, error) {
	rows, err := j.db.Query(`
		SELECT result_id, method, confidence, horizon_days, var, cvar, value, currency, mean, stdev, paths, seed, computed_at
		FROM risk_results
		WHERE (? = '' OR method = ?) AND computed_at >= ?
		ORDER BY computed_at DESC`,
		string(method), string(method), since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []risk.Result
	for rows.Next() {
		var r risk.Result
		var m string
		if err := rows.Scan(&r.ID, &m, &r.Confidence, &r.HorizonDays, &r.VaR, &r.CVaR,
			&r.PortfolioValue, &r.Currency, &r.Mean, &r.Stdev, &r.Paths, &r.Seed, &r.ComputedAt); err != nil {
			return nil, err
		}
		r.Method = risk.Method(m)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordBacktest stores a run, its equity curve, and its trades in one
// transaction so a crash never leaves a run half-written.
func (j *SQLiteJournal) RecordBacktest(res *backtest.Result) error {
	metrics, err := json.Marshal(res.Metrics)
	if err != nil {
		return fmt.Errorf("journal: marshal metrics: %w", err)
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO backtest_runs (run_id, strategy, start_time, end_time, metrics)
		VALUES (?, ?, ?, ?, ?)`,
		res.RunID, res.Strategy, res.Start, res.End, string(metrics),
	); err != nil {
		return err
	}
	for _, p := range res.EquityCurve {
		if _, err := tx.Exec(`INSERT INTO equity_points (run_id, time, value) VALUES (?, ?, ?)`,
			res.RunID, p.Time, p.Value); err != nil {
			return err
		}
	}
	for _, t := range res.Trades {
		if _, err := tx.Exec(`
			INSERT INTO trades (run_id, time, symbol, weight_delta, value, cost)
			VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, t.Time, t.Symbol, t.WeightDelta, t.Value, t.Cost); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetBacktestRun reloads a run by ID, including curve and trades.
func (j *SQLiteJournal) GetBacktestRun(runID string) (*backtest.Result, error) {
	res := &backtest.Result{RunID: runID}

	var metrics string
	err := j.db.QueryRow(`
		SELECT strategy, start_time, end_time, metrics FROM backtest_runs WHERE run_id = ?`,
		runID,
	).Scan(&res.Strategy, &res.Start, &res.End, &metrics)
	if err != nil {
		return nil, fmt.Errorf("journal: run %s: %w", runID, err)
	}
	if err := json.Unmarshal([]byte(metrics), &res.Metrics); err != nil {
		return nil, fmt.Errorf("journal: run %s metrics: %w", runID, err)
	}

	res.EquityCurve, err = j.ListEquity(runID)
	if err != nil {
		return nil, err
	}
	res.Trades, err = j.ListTrades(runID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (j *SQLiteJournal) ListEquity(runID string) ([]backtest.EquityPoint, error) {
	rows, err := j.db.Query(`SELECT time, value FROM equity_points WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.EquityPoint
	for rows.Next() {
		var p backtest.EquityPoint
		if err := rows.Scan(&p.Time, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) ListTrades(runID string) ([]backtest.Trade, error) {
	rows, err := j.db.Query(`
		SELECT time, symbol, weight_delta, value, cost FROM trades WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.Trade
	for rows.Next() {
		var t backtest.Trade
		if err := rows.Scan(&t.Time, &t.Symbol, &t.WeightDelta, &t.Value, &t.Cost); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error { return j.db.Close() }
