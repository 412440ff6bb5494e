package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/trendtrader/backtest"
	"github.com/rustyeddy/trendtrader/market"
)

func testResult(t *testing.T) (*backtest.Result, backtest.Options) {
	t.Helper()

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := market.Series{Symbol: "IDX"}
	bull := market.Series{Symbol: "BULL"}
	idxCloses := []float64{100, 100, 200, 200, 90, 90, 300, 300}
	bullCloses := []float64{10, 10, 20, 22, 11, 12, 24, 30}
	for i := range idxCloses {
		d := market.Day(start.AddDate(0, 0, i))
		idx.Points = append(idx.Points, market.PricePoint{Date: d, Close: idxCloses[i]})
		bull.Points = append(bull.Points, market.PricePoint{Date: d, Close: bullCloses[i]})
	}

	tbl, err := market.Align(idx, bull)
	require.NoError(t, err)

	opts := backtest.Options{
		Lookback:       2,
		SignalSymbol:   "IDX",
		BullSymbol:     "BULL",
		InitialCapital: 1000,
		CostFraction:   0.001,
	}
	engine, err := backtest.NewEngine(tbl, opts)
	require.NoError(t, err)
	res, err := engine.Run()
	require.NoError(t, err)
	require.NotEmpty(t, res.Trades)
	return res, opts
}

func TestCSVRoundTrip(t *testing.T) {
	res, opts := testResult(t)

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.RecordResult("RUN1", opts, res))
	require.NoError(t, j.Close())

	tf, err := os.Open(tradesPath)
	require.NoError(t, err)
	defer tf.Close()
	trades, err := ReadTradesCSV(tf, "RUN1")
	require.NoError(t, err)
	assert.Equal(t, res.Trades, trades)

	ef, err := os.Open(equityPath)
	require.NoError(t, err)
	defer ef.Close()
	equity, err := ReadEquityCSV(ef, "RUN1")
	require.NoError(t, err)
	assert.Equal(t, res.Equity, equity)

	// The reloaded curve and log must re-score to an identical report.
	report, err := backtest.ComputeReport(equity, trades, opts.InitialCapital, opts.RiskFreeRate)
	require.NoError(t, err)
	assert.Equal(t, res.Report, report)
}

func TestNewCSVClosesFilesOnError(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")

	// The equity path is a directory, so its create fails after the
	// trades file is already open; the trades handle must not leak.
	_, err := NewCSV(tradesPath, dir)
	require.Error(t, err)

	// The same trades path is immediately reusable.
	j, err := NewCSV(tradesPath, filepath.Join(dir, "equity.csv"))
	require.NoError(t, err)
	require.NoError(t, j.Close())
}

func TestReadCSVFiltersRunID(t *testing.T) {
	res, opts := testResult(t)

	dir := t.TempDir()
	j, err := NewCSV(filepath.Join(dir, "t.csv"), filepath.Join(dir, "e.csv"))
	require.NoError(t, err)
	require.NoError(t, j.RecordResult("A", opts, res))
	require.NoError(t, j.RecordResult("B", opts, res))
	require.NoError(t, j.Close())

	ef, err := os.Open(filepath.Join(dir, "e.csv"))
	require.NoError(t, err)
	defer ef.Close()
	equity, err := ReadEquityCSV(ef, "B")
	require.NoError(t, err)
	assert.Len(t, equity, len(res.Equity))
}
