package journal

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/trendtrader/backtest"
	"github.com/rustyeddy/trendtrader/position"
)

// SQLiteJournal stores runs, trades, and equity curves in one SQLite file,
// all keyed by run ID.
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
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

// RecordResult implements backtest.Journal. The run row, trades, and
// equity points land in one transaction: a journaled run is always
// complete or absent.
func (j *SQLiteJournal) RecordResult(runID string, opts backtest.Options, res *backtest.Result) error {
	run := NewRun(runID, opts, res.Report)

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created, lookback, signal_symbol, bull_symbol, bear_symbol,
		 shorts_enabled, initial_capital, cost_fraction, risk_free_rate,
		 start_date, end_date, final_value, total_return, cagr, max_drawdown,
		 sharpe, annual_vol, win_rate, trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created, run.Lookback, run.SignalSymbol, run.BullSymbol,
		run.BearSymbol, run.ShortsEnabled, run.InitialCapital, run.CostFraction,
		run.RiskFreeRate, run.Start, run.End, run.FinalValue, run.TotalReturn,
		nullable(run.CAGR), run.MaxDrawdown, nullable(run.Sharpe), nullable(run.AnnualVol),
		nullable(run.WinRate), run.Trades,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, tr := range res.Trades {
		_, err = tx.Exec(`
			INSERT INTO trades (run_id, date, from_position, to_position, cost)
			VALUES (?, ?, ?, ?, ?)`,
			runID, tr.Date, tr.From.String(), tr.To.String(), tr.Cost,
		)
		if err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}

	for _, p := range res.Equity {
		_, err = tx.Exec(`
			INSERT INTO equity (run_id, date, value) VALUES (?, ?, ?)`,
			runID, p.Date, p.Value,
		)
		if err != nil {
			return fmt.Errorf("insert equity: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun loads one run row.
func (j *SQLiteJournal) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created, lookback, signal_symbol, bull_symbol, bear_symbol,
		       shorts_enabled, initial_capital, cost_fraction, risk_free_rate,
		       start_date, end_date, final_value, total_return, cagr, max_drawdown,
		       sharpe, annual_vol, win_rate, trades
		FROM runs WHERE run_id = ?`, runID)

	var r Run
	var cagr, sharpe, vol, wr sql.NullFloat64
	err := row.Scan(
		&r.RunID, &r.Created, &r.Lookback, &r.SignalSymbol, &r.BullSymbol,
		&r.BearSymbol, &r.ShortsEnabled, &r.InitialCapital, &r.CostFraction,
		&r.RiskFreeRate, &r.Start, &r.End, &r.FinalValue, &r.TotalReturn,
		&cagr, &r.MaxDrawdown, &sharpe, &vol, &wr, &r.Trades,
	)
	if err != nil {
		return Run{}, err
	}
	r.CAGR = fromReal(cagr)
	r.Sharpe = fromReal(sharpe)
	r.AnnualVol = fromReal(vol)
	r.WinRate = fromReal(wr)
	return r, nil
}

// ListRuns returns run IDs, newest first. ULIDs sort by creation time, so
// ordering by the key is ordering by time.
func (j *SQLiteJournal) ListRuns() ([]string, error) {
	rows, err := j.db.Query(`SELECT run_id FROM runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListTrades loads the trade log for one run, in date order.
func (j *SQLiteJournal) ListTrades(runID string) ([]position.Trade, error) {
	rows, err := j.db.Query(`
		SELECT date, from_position, to_position, cost
		FROM trades WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []position.Trade
	for rows.Next() {
		var d time.Time
		var from, to string
		var cost float64
		if err := rows.Scan(&d, &from, &to, &cost); err != nil {
			return nil, err
		}
		out = append(out, position.Trade{
			Date: d.UTC(),
			From: position.ParsePosition(from),
			To:   position.ParsePosition(to),
			Cost: cost,
		})
	}
	return out, rows.Err()
}

// ListEquity loads the equity curve for one run, in date order.
func (j *SQLiteJournal) ListEquity(runID string) ([]backtest.EquityPoint, error) {
	rows, err := j.db.Query(`
		SELECT date, value FROM equity WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.EquityPoint
	for rows.Next() {
		var d time.Time
		var v float64
		if err := rows.Scan(&d, &v); err != nil {
			return nil, err
		}
		out = append(out, backtest.EquityPoint{Date: d.UTC(), Value: v})
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// nullable maps NaN metrics onto NULL so degenerate reports store cleanly.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func fromReal(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
