package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	err = j.RecordTrade(TradeRecord{
		TradeID:    "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Instrument: "EUR_USD",
		Units:      -1000,
		EntryPrice: 1.1660,
		ExitPrice:  1.1650,
		OpenTime:   time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC),
		CloseTime:  time.Date(2025, 10, 2, 9, 1, 0, 0, time.UTC),
		RealizedPL: 1.0,
		Reason:     "end_of_session",
	})
	assert.NoError(t, err)

	err = j.RecordEquity(EquitySnapshot{
		Time:    time.Date(2025, 10, 2, 9, 1, 0, 0, time.UTC),
		Balance: 10001,
		Equity:  10001,
	})
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	tf, err := os.Open(tradesPath)
	require.NoError(t, err)
	defer tf.Close()

	rows, err := csv.NewReader(tf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", rows[1][0])
	assert.Equal(t, "-1000", rows[1][2])
	assert.Equal(t, "end_of_session", rows[1][9])

	ef, err := os.Open(equityPath)
	require.NoError(t, err)
	defer ef.Close()

	rows, err = csv.NewReader(ef).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "balance", "equity"}, rows[0])
	assert.Equal(t, "10001", rows[1][1])
}

func TestCSVJournalCreateError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")

	// Equity file creation fails after the trades file already opened; the
	// trades handle must not be left dangling.
	j, err := NewCSV(tradesPath, filepath.Join(dir, "missing", "equity.csv"))
	assert.Error(t, err)
	assert.Nil(t, j)

	// The released trades file can be recreated cleanly.
	j2, err := NewCSV(tradesPath, filepath.Join(dir, "equity.csv"))
	require.NoError(t, err)
	assert.NoError(t, j2.Close())
}
