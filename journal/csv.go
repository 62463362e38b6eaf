package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	days   *csv.Writer
	tf, df *os.File
}

func NewCSV(tradesPath, daysPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	df, err := os.Create(daysPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	dw := csv.NewWriter(df)

	if err := tw.Write([]string{"trade_id", "symbol", "date", "direction", "step", "quantity", "entry_price", "exit_price", "entry_time", "exit_time", "realized_pnl", "status", "reason"}); err != nil {
		return nil, err
	}
	if err := dw.Write([]string{"date", "symbol", "trend", "direction", "leverage", "trades", "wins", "losses", "pnl", "range_high", "range_low", "range_width", "breakouts"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	dw.Flush()
	if err := dw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, dw, tf, df}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	exitTime := ""
	if !t.ExitTime.IsZero() {
		exitTime = t.ExitTime.Format(time.RFC3339)
	}
	err := j.trades.Write([]string{
		t.TradeID,
		t.Symbol,
		t.Date,
		t.Direction,
		strconv.Itoa(t.Step),
		f(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.EntryTime.Format(time.RFC3339),
		exitTime,
		f(t.RealizedPnL),
		t.Status,
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordDay(d DayRecord) error {
	err := j.days.Write([]string{
		d.Date,
		d.Symbol,
		d.Trend,
		d.Direction,
		f(d.Leverage),
		strconv.Itoa(d.Trades),
		strconv.Itoa(d.Wins),
		strconv.Itoa(d.Losses),
		f(d.PnL),
		f(d.RangeHigh),
		f(d.RangeLow),
		f(d.RangeWidth),
		strconv.Itoa(d.Breakouts),
	})
	if err != nil {
		return err
	}
	j.days.Flush()
	return j.days.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.days.Flush()
	if err := j.days.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.df.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
