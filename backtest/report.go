package backtest

import (
	"fmt"
	"io"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/risk"
)

// PrintReport renders the daily table and the run summary.
func PrintReport(w io.Writer, res Result, p risk.Policy) {
	fmt.Fprintln(w, "====================================================================================================")
	fmt.Fprintln(w, " DAILY RESULTS")
	fmt.Fprintln(w, "====================================================================================================")

	if p.Adaptive {
		fmt.Fprintf(w, "%-12s %-5s %-8s %-9s %-7s %-7s %12s %12s\n",
			"Date", "Lev", "Trend", "Dir", "Trades", "W/L", "PnL", "Range")
	} else {
		fmt.Fprintf(w, "%-12s %-8s %-9s %-7s %-7s %12s %12s\n",
			"Date", "Trend", "Dir", "Trades", "W/L", "PnL", "Range")
	}
	fmt.Fprintln(w, "----------------------------------------------------------------------------------------------------")

	for _, d := range res.Days {
		wl := fmt.Sprintf("%d/%d", d.Wins, d.Losses)
		pnl := fmt.Sprintf("$%.2f", d.PnL)
		width := fmt.Sprintf("$%.2f", d.Range.Width)

		if p.Adaptive {
			lev := fmt.Sprintf("%.0fx", d.Leverage)
			fmt.Fprintf(w, "%-12s %-5s %-8s %-9s %-7d %-7s %12s %12s\n",
				d.Date, lev, d.Trend, d.Direction, len(d.Trades), wl, pnl, width)
		} else {
			fmt.Fprintf(w, "%-12s %-8s %-9s %-7d %-7s %12s %12s\n",
				d.Date, d.Trend, d.Direction, len(d.Trades), wl, pnl, width)
		}
	}

	s := Summarize(res)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " SUMMARY")
	fmt.Fprintln(w, "==================================================")
	if len(res.Days) > 0 {
		fmt.Fprintf(w, "Period:        %s to %s\n",
			res.Days[0].Date, res.Days[len(res.Days)-1].Date)
	}
	fmt.Fprintf(w, "Trading Days:  %d\n", s.TradingDays)
	fmt.Fprintf(w, "Total Trades:  %d\n", s.TotalTrades)
	if n := s.Wins + s.Losses; n > 0 {
		fmt.Fprintf(w, "Win Rate (trades): %d/%d (%.1f%%)\n", s.Wins, n, 100*float64(s.Wins)/float64(n))
	}
	if s.TradingDays > 0 {
		fmt.Fprintf(w, "Win Rate (days):   %d/%d (%.1f%%)\n", s.WinningDays, s.TradingDays,
			100*float64(s.WinningDays)/float64(s.TradingDays))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total PnL:     $%.2f\n", s.TotalPnL)
	fmt.Fprintf(w, "Gross Profit:  $%.2f\n", s.GrossProfit)
	fmt.Fprintf(w, "Gross Loss:    $%.2f\n", s.GrossLoss)
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}
	fmt.Fprintf(w, "Max Win:       $%.2f\n", s.MaxWin)
	fmt.Fprintf(w, "Max Loss:      $%.2f\n", s.MaxLoss)
	fmt.Fprintf(w, "Max Drawdown:  $%.2f\n", s.MaxDrawdown)
	if p.BaseCapital > 0 {
		fmt.Fprintf(w, "Return on Capital: %.2f%%\n", 100*s.TotalPnL/p.BaseCapital)
	}
	if len(res.Days) > 0 {
		fmt.Fprintf(w, "Avg Daily PnL: $%.2f\n", s.TotalPnL/float64(len(res.Days)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit Reasons")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Stop Loss:     %d\n", s.StopExits)
	fmt.Fprintf(w, "Take Profit:   %d\n", s.TargetExits)
	fmt.Fprintf(w, "End of Day:    %d\n", s.EODExits)
	if s.SessionExits > 0 {
		fmt.Fprintf(w, "Session End:   %d\n", s.SessionExits)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trend Alignment")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Aligned days:  %d\n", s.AlignedDays)
	fmt.Fprintf(w, "Opposed days:  %d\n", s.OpposedDays)

	printSkips(w, res.Skips)
	printRanges(w, res)
	printLeverage(w, res, p)
}

func printSkips(w io.Writer, skips []Skip) {
	if len(skips) == 0 {
		return
	}

	filtered := 0
	minW, maxW := 0.0, 0.0
	for _, sk := range skips {
		if sk.Reason != SkipRangeFilter {
			continue
		}
		if filtered == 0 || sk.RangeWidth < minW {
			minW = sk.RangeWidth
		}
		if sk.RangeWidth > maxW {
			maxW = sk.RangeWidth
		}
		filtered++
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Skipped Days")
	fmt.Fprintln(w, "--------------------------------------------------")
	for _, sk := range skips {
		if sk.Reason == SkipRangeFilter {
			fmt.Fprintf(w, "%s  %s (width $%.2f)\n", sk.Date, sk.Reason, sk.RangeWidth)
		} else {
			fmt.Fprintf(w, "%s  %s\n", sk.Date, sk.Reason)
		}
	}
	if filtered > 0 {
		fmt.Fprintf(w, "Filtered by range: %d (width $%.2f - $%.2f)\n", filtered, minW, maxW)
	}
}

func printRanges(w io.Writer, res Result) {
	if len(res.Days) == 0 {
		return
	}

	minW := res.Days[0].Range.Width
	maxW := minW
	sum := 0.0
	for _, d := range res.Days {
		if d.Range.Width < minW {
			minW = d.Range.Width
		}
		if d.Range.Width > maxW {
			maxW = d.Range.Width
		}
		sum += d.Range.Width
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Traded Range Stats")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Min: $%.2f  Max: $%.2f  Avg: $%.2f\n", minW, maxW, sum/float64(len(res.Days)))
}

func printLeverage(w io.Writer, res Result, p risk.Policy) {
	if !p.Adaptive || len(res.Leverage) == 0 {
		return
	}

	defensive, standard := 0, 0
	for _, lc := range res.Leverage {
		if lc.Leverage == p.DefensiveLeverage {
			defensive++
		} else {
			standard++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Adaptive Leverage")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Days at %.0fx (after loss): %d\n", p.DefensiveLeverage, defensive)
	fmt.Fprintf(w, "Days at %.0fx:             %d\n", p.StandardLeverage, standard)
}

// PrintTrace renders the detailed trade list for one date.
func PrintTrace(w io.Writer, res Result, date market.Date) {
	fmt.Fprintln(w, "====================================================================================================")
	fmt.Fprintf(w, " TRADE TRACE FOR %s\n", date)
	fmt.Fprintln(w, "====================================================================================================")

	var found bool
	for _, d := range res.Days {
		if d.Date != date {
			continue
		}
		found = true

		fmt.Fprintln(w)
		fmt.Fprintf(w, "Range High:  $%.2f\n", d.Range.High)
		fmt.Fprintf(w, "Range Low:   $%.2f\n", d.Range.Low)
		fmt.Fprintf(w, "Range Width: $%.2f\n", d.Range.Width)
		fmt.Fprintf(w, "Trend:       %s\n", d.Trend)
		fmt.Fprintf(w, "Direction:   %s\n", d.Direction)
		fmt.Fprintf(w, "Breakouts:   %d\n", d.Breakouts)

		if len(d.Trades) == 0 {
			fmt.Fprintf(w, "\nNo trades for %s\n", date)
			return
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-5s %-6s %-10s %-10s %12s %12s %10s %12s %-12s\n",
			"Step", "Dir", "Entry", "Exit", "Entry $", "Exit $", "Qty", "PnL", "Reason")
		fmt.Fprintln(w, "----------------------------------------------------------------------------------------------------")

		total := 0.0
		for _, t := range d.Trades {
			exitTime := "open"
			exitPrice := "-"
			reason := "open"
			if !t.Open {
				exitTime = t.ExitTime.Format("15:04:05")
				exitPrice = fmt.Sprintf("$%.2f", t.ExitPrice)
				reason = string(t.ExitReason)
			}
			fmt.Fprintf(w, "%-5d %-6s %-10s %-10s %12s %12s %10.4f %12s %-12s\n",
				t.Step, t.Direction, t.EntryTime.Format("15:04:05"), exitTime,
				fmt.Sprintf("$%.2f", t.EntryPrice), exitPrice, t.Quantity,
				fmt.Sprintf("$%.2f", t.RealizedPnL), reason)
			total += t.RealizedPnL
		}
		fmt.Fprintln(w, "----------------------------------------------------------------------------------------------------")
		fmt.Fprintf(w, "TOTAL %89s\n", fmt.Sprintf("$%.2f", total))
	}

	if !found {
		fmt.Fprintf(w, "\nNo results for %s\n", date)
	}
}
