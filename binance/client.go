// Package binance downloads historical klines from the Binance USD-M
// futures REST API. Retrieval happens once, up front; the simulator never
// touches the network.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rustyeddy/orb/market"
)

const (
	DefaultBaseURL = "https://fapi.binance.com"

	// API cap per klines request.
	maxKlinesPerRequest = 1500
)

type Client struct {
	BaseURL string
	APIKey  string // optional, raises rate limits
	HTTP    *http.Client
}

type KlinesOptions struct {
	Symbol   string
	Interval string // e.g. 5m
	From     time.Time
	To       time.Time
}

// FetchCandles downloads the klines covering [From, To) in chunks of 1500
// and returns them in chronological order.
func (c *Client) FetchCandles(ctx context.Context, opts KlinesOptions) ([]market.Candle, error) {
	if opts.Symbol == "" {
		return nil, fmt.Errorf("binance: missing symbol")
	}
	if opts.Interval == "" {
		return nil, fmt.Errorf("binance: missing interval")
	}
	if !opts.From.Before(opts.To) {
		return nil, fmt.Errorf("binance: from must be before to")
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	var out []market.Candle
	start := opts.From.UnixMilli()
	end := opts.To.UnixMilli()

	for start < end {
		rows, err := c.fetchChunk(ctx, base, opts.Symbol, opts.Interval, start, end)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			candle, err := parseKline(row)
			if err != nil {
				return nil, err
			}
			out = append(out, candle)
		}

		// Resume just past the last candle's open time.
		last, err := rows[len(rows)-1].openTime()
		if err != nil {
			return nil, err
		}
		start = last + 1
	}

	return out, nil
}

// kline is the raw Binance row: [openTime, open, high, low, close, volume, ...].
type kline []any

func (k kline) openTime() (int64, error) {
	if len(k) == 0 {
		return 0, fmt.Errorf("binance: empty kline row")
	}
	ms, ok := k[0].(float64)
	if !ok {
		return 0, fmt.Errorf("binance: bad open time %v", k[0])
	}
	return int64(ms), nil
}

func (c *Client) fetchChunk(ctx context.Context, base, symbol, interval string, start, end int64) ([]kline, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u.Path = "/fapi/v1/klines"

	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("startTime", strconv.FormatInt(start, 10))
	q.Set("endTime", strconv.FormatInt(end, 10))
	q.Set("limit", strconv.Itoa(maxKlinesPerRequest))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("X-MBX-APIKEY", c.APIKey)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("binance klines http %d: %s", resp.StatusCode, string(b))
	}

	var rows []kline
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func parseKline(row kline) (market.Candle, error) {
	if len(row) < 6 {
		return market.Candle{}, fmt.Errorf("binance: short kline row (%d fields)", len(row))
	}

	ms, err := row.openTime()
	if err != nil {
		return market.Candle{}, err
	}

	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := row[i].(string)
		if !ok {
			return market.Candle{}, fmt.Errorf("binance: bad kline field %v", row[i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("binance: bad kline value %q: %w", s, err)
		}
		vals[i-1] = v
	}

	return market.Candle{
		Time:   time.UnixMilli(ms).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
