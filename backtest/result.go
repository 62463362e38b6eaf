package backtest

import (
	"github.com/rustyeddy/orb/sim"
)

// Result is the accumulated output of one backtest run: one DayResult per
// traded date in chronological order, plus skip and leverage bookkeeping.
type Result struct {
	Days     []sim.DayResult
	Skips    []Skip
	Leverage []LeverageChoice
}

// AllTrades flattens the per-day ledgers in chronological order.
func (r Result) AllTrades() []*sim.Trade {
	var out []*sim.Trade
	for _, d := range r.Days {
		out = append(out, d.Trades...)
	}
	return out
}

// Summary holds the aggregate statistics the report renders.
type Summary struct {
	TradingDays int
	TotalTrades int
	Wins        int
	Losses      int
	WinningDays int
	LosingDays  int

	TotalPnL     float64
	GrossProfit  float64
	GrossLoss    float64
	ProfitFactor float64 // 0 when no losses
	MaxWin       float64
	MaxLoss      float64
	MaxDrawdown  float64

	StopExits    int
	TargetExits  int
	EODExits     int
	SessionExits int

	AlignedDays int
	OpposedDays int
}

// Summarize reduces a run to its aggregate statistics. The drawdown is the
// largest peak-to-trough fall of the cumulative daily PnL curve.
func Summarize(r Result) Summary {
	var s Summary

	var cumulative, peak float64
	for _, d := range r.Days {
		if len(d.Trades) > 0 {
			s.TradingDays++
		}
		s.TotalTrades += len(d.Trades)
		s.Wins += d.Wins
		s.Losses += d.Losses
		s.TotalPnL += d.PnL

		if d.PnL > 0 {
			s.WinningDays++
		} else if d.PnL < 0 {
			s.LosingDays++
		}

		cumulative += d.PnL
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}

		switch {
		case d.Direction == "LONG" && d.Trend == "UP",
			d.Direction == "SHORT" && d.Trend == "DOWN":
			s.AlignedDays++
		case d.Direction == "LONG" && d.Trend == "DOWN",
			d.Direction == "SHORT" && d.Trend == "UP":
			s.OpposedDays++
		}
	}

	for _, t := range r.AllTrades() {
		pnl := t.RealizedPnL
		if pnl > 0 {
			s.GrossProfit += pnl
		} else {
			s.GrossLoss += -pnl
		}
		if pnl > s.MaxWin {
			s.MaxWin = pnl
		}
		if pnl < s.MaxLoss {
			s.MaxLoss = pnl
		}

		switch t.ExitReason {
		case sim.ExitStopLoss:
			s.StopExits++
		case sim.ExitTakeProfit:
			s.TargetExits++
		case sim.ExitEndOfDay:
			s.EODExits++
		case sim.ExitSessionEnd:
			s.SessionExits++
		}
	}

	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}

	return s
}
