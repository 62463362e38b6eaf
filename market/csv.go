package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Canonical candle CSV: time,open,high,low,close,volume with RFC3339 times.

var csvHeader = []string{"time", "open", "high", "low", "close", "volume"}

// ReadCandlesCSV loads candles from a canonical candle CSV file. A header
// row is optional and detected by the first column being "time".
func ReadCandlesCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCandles(f)
}

func ReadCandles(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []Candle
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		c, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
}

func parseRow(row []string) (Candle, error) {
	if len(row) < 5 {
		return Candle{}, fmt.Errorf("bad row (need at least time,open,high,low,close): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Candle{}, fmt.Errorf("bad time %q: %w", row[0], err)
		}
		t = t2
	}

	vals := make([]float64, 0, 5)
	for i := 1; i < len(row) && i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad value %q: %w", row[i], err)
		}
		vals = append(vals, v)
	}

	c := Candle{
		Time:  t,
		Open:  vals[0],
		High:  vals[1],
		Low:   vals[2],
		Close: vals[3],
	}
	if len(vals) > 4 {
		c.Volume = vals[4]
	}
	return c, nil
}

// WriteCandlesCSV writes candles in the canonical CSV format and returns the
// number of rows written.
func WriteCandlesCSV(w io.Writer, candles []Candle) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	written := 0
	for _, c := range candles {
		row := []string{
			c.Time.UTC().Format(time.RFC3339),
			fp(c.Open),
			fp(c.High),
			fp(c.Low),
			fp(c.Close),
			fp(c.Volume),
		}
		if err := cw.Write(row); err != nil {
			return written, err
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, err
	}
	return written, nil
}

func fp(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
