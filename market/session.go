package market

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Session describes the fixed trading-day layout in the exchange time zone:
// an opening-range window [RangeStart, RangeEnd) measured in minutes of day,
// a trading window starting at TradingStartHour, and an end-of-day exit hour
// on the following calendar date.
type Session struct {
	Location         *time.Location
	RangeStart       int // minutes of day, inclusive
	RangeEnd         int // minutes of day, exclusive
	TradingStartHour int
	EndOfDayHour     int
}

// ParseClock converts "HH:MM" to minutes of day.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("bad clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad clock %q: hour out of range", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock %q: minute out of range", s)
	}
	return h*60 + m, nil
}

func (s *Session) minuteOfDay(t time.Time) int {
	lt := t.In(s.Location)
	return lt.Hour()*60 + lt.Minute()
}

// Hour returns the candle's hour in the session time zone.
func (s *Session) Hour(c Candle) int {
	return c.Time.In(s.Location).Hour()
}

// Dates returns the sorted unique calendar dates covered by the candles.
func (s *Session) Dates(candles []Candle) []Date {
	seen := make(map[Date]struct{})
	var out []Date
	for _, c := range candles {
		d := DateOf(c.Time, s.Location)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// RangeCandles returns the candles of date d that fall inside the
// opening-range window.
func (s *Session) RangeCandles(candles []Candle, d Date) []Candle {
	var out []Candle
	for _, c := range candles {
		if DateOf(c.Time, s.Location) != d {
			continue
		}
		m := s.minuteOfDay(c.Time)
		if m >= s.RangeStart && m < s.RangeEnd {
			out = append(out, c)
		}
	}
	return out
}

// TradingCandles returns the trading-window candles for date d: candles on d
// from TradingStartHour onward, plus candles on the next date up to and
// including EndOfDayHour so the simulator can perform its end-of-day exit.
func (s *Session) TradingCandles(candles []Candle, d Date) []Candle {
	next := d.Next()
	var out []Candle
	for _, c := range candles {
		cd := DateOf(c.Time, s.Location)
		switch {
		case cd == d && s.Hour(c) >= s.TradingStartHour:
			out = append(out, c)
		case cd == next && s.Hour(c) <= s.EndOfDayHour:
			out = append(out, c)
		}
	}
	return out
}
