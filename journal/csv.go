package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/trendtrader/backtest"
	"github.com/rustyeddy/trendtrader/position"
)

// CSVJournal appends trades and equity points to two CSV files, one row
// per record, run_id first so several runs can share the files.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

var (
	tradeHeader  = []string{"run_id", "date", "from", "to", "cost"}
	equityHeader = []string{"run_id", "date", "value"}
)

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := writeHeaders(tw, ew); err != nil {
		tf.Close()
		ef.Close()
		return nil, err
	}

	return &CSVJournal{trades: tw, equity: ew, tf: tf, ef: ef}, nil
}

func writeHeaders(tw, ew *csv.Writer) error {
	if err := tw.Write(tradeHeader); err != nil {
		return err
	}
	if err := ew.Write(equityHeader); err != nil {
		return err
	}
	tw.Flush()
	ew.Flush()
	if err := tw.Error(); err != nil {
		return err
	}
	return ew.Error()
}

// RecordResult implements backtest.Journal.
func (j *CSVJournal) RecordResult(runID string, opts backtest.Options, res *backtest.Result) error {
	for _, tr := range res.Trades {
		err := j.trades.Write([]string{
			runID,
			tr.Date.Format(time.RFC3339),
			tr.From.String(),
			tr.To.String(),
			f(tr.Cost),
		})
		if err != nil {
			return err
		}
	}
	for _, p := range res.Equity {
		err := j.equity.Write([]string{
			runID,
			p.Date.Format(time.RFC3339),
			f(p.Value),
		})
		if err != nil {
			return err
		}
	}

	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

// ReadTradesCSV loads a trade log written by CSVJournal, filtered to runID
// when non-empty.
func ReadTradesCSV(r io.Reader, runID string) ([]position.Trade, error) {
	rows, err := readAll(r, len(tradeHeader))
	if err != nil {
		return nil, err
	}

	var out []position.Trade
	for _, row := range rows {
		if runID != "" && row[0] != runID {
			continue
		}
		d, err := time.Parse(time.RFC3339, row[1])
		if err != nil {
			return nil, fmt.Errorf("trades csv: bad date %q: %w", row[1], err)
		}
		cost, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("trades csv: bad cost %q: %w", row[4], err)
		}
		out = append(out, position.Trade{
			Date: d,
			From: position.ParsePosition(row[2]),
			To:   position.ParsePosition(row[3]),
			Cost: cost,
		})
	}
	return out, nil
}

// ReadEquityCSV loads an equity curve written by CSVJournal, filtered to
// runID when non-empty.
func ReadEquityCSV(r io.Reader, runID string) ([]backtest.EquityPoint, error) {
	rows, err := readAll(r, len(equityHeader))
	if err != nil {
		return nil, err
	}

	var out []backtest.EquityPoint
	for _, row := range rows {
		if runID != "" && row[0] != runID {
			continue
		}
		d, err := time.Parse(time.RFC3339, row[1])
		if err != nil {
			return nil, fmt.Errorf("equity csv: bad date %q: %w", row[1], err)
		}
		v, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("equity csv: bad value %q: %w", row[2], err)
		}
		out = append(out, backtest.EquityPoint{Date: d, Value: v})
	}
	return out, nil
}

func readAll(r io.Reader, cols int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = cols

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && rows[0][0] == "run_id" {
		rows = rows[1:]
	}
	return rows, nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
