package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCSV(t *testing.T) (*CSVJournal, string, string) {
	t.Helper()

	dir := t.TempDir()
	tp := filepath.Join(dir, "trades.csv")
	dp := filepath.Join(dir, "days.csv")

	j, err := NewCSV(tp, dp)
	assert.NoError(t, err)

	return j, tp, dp
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestCSVJournalWritesHeaders(t *testing.T) {
	t.Parallel()

	j, tp, dp := newTestCSV(t)
	assert.NoError(t, j.Close())

	trades := readCSV(t, tp)
	assert.Len(t, trades, 1)
	assert.Equal(t, "trade_id", trades[0][0])
	assert.Equal(t, "reason", trades[0][len(trades[0])-1])

	days := readCSV(t, dp)
	assert.Len(t, days, 1)
	assert.Equal(t, "date", days[0][0])
	assert.Equal(t, "breakouts", days[0][len(days[0])-1])
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	j, tp, _ := newTestCSV(t)

	entry := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	assert.NoError(t, j.RecordTrade(TradeRecord{
		TradeID:     "01J0000000000000000000001A",
		Symbol:      "BTCUSDT",
		Date:        "2025-06-10",
		Direction:   "LONG",
		Step:        1,
		Quantity:    98.04,
		EntryPrice:  102,
		ExitPrice:   100,
		EntryTime:   entry,
		ExitTime:    entry.Add(10 * time.Minute),
		RealizedPnL: -196.08,
		Status:      "CLOSED",
		Reason:      "STOP_LOSS",
	}))
	assert.NoError(t, j.Close())

	rows := readCSV(t, tp)
	assert.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "01J0000000000000000000001A", row[0])
	assert.Equal(t, "LONG", row[3])
	assert.Equal(t, "1", row[4])
	assert.Equal(t, "102.000000", row[6])
	assert.Equal(t, "2025-06-10T09:00:00Z", row[8])
	assert.Equal(t, "STOP_LOSS", row[12])
}

func TestCSVJournalOpenTradeHasEmptyExitTime(t *testing.T) {
	t.Parallel()

	j, tp, _ := newTestCSV(t)

	assert.NoError(t, j.RecordTrade(TradeRecord{
		TradeID:    "01J0000000000000000000001A",
		Symbol:     "BTCUSDT",
		Date:       "2025-06-10",
		Direction:  "SHORT",
		Step:       1,
		EntryPrice: 98,
		EntryTime:  time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
		Status:     "OPEN",
	}))
	assert.NoError(t, j.Close())

	rows := readCSV(t, tp)
	assert.Equal(t, "", rows[1][9])
	assert.Equal(t, "OPEN", rows[1][11])
}

func TestCSVJournalRecordDay(t *testing.T) {
	t.Parallel()

	j, _, dp := newTestCSV(t)

	assert.NoError(t, j.RecordDay(DayRecord{
		Date: "2025-06-10", Symbol: "BTCUSDT", Trend: "UP",
		Direction: "LONG", Leverage: 10, Trades: 2, Wins: 1, Losses: 1,
		PnL: -10.5, RangeHigh: 101, RangeLow: 99, RangeWidth: 2, Breakouts: 1,
	}))
	assert.NoError(t, j.Close())

	rows := readCSV(t, dp)
	assert.Len(t, rows, 2)
	assert.Equal(t, "2025-06-10", rows[1][0])
	assert.Equal(t, "UP", rows[1][2])
	assert.Equal(t, "-10.500000", rows[1][8])
	assert.Equal(t, "1", rows[1][12])
}
