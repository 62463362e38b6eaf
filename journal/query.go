package journal

// ListTradesByDate returns the trade rows for one trading date, in entry
// order (trade ids are ULIDs, so id order is insertion order).
func (j *SQLiteJournal) ListTradesByDate(date string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, date, direction, step, quantity, entry_price,
		       exit_price, entry_time, exit_time, realized_pnl, status, reason
		FROM trades
		WHERE date = ?
		ORDER BY trade_id ASC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.Symbol,
			&rec.Date,
			&rec.Direction,
			&rec.Step,
			&rec.Quantity,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.EntryTime,
			&rec.ExitTime,
			&rec.RealizedPnL,
			&rec.Status,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDays returns day results ordered by date.
func (j *SQLiteJournal) ListDays() ([]DayRecord, error) {
	rows, err := j.db.Query(`
		SELECT date, symbol, trend, direction, leverage, trades, wins, losses,
		       pnl, range_high, range_low, range_width, breakouts
		FROM day_results
		ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayRecord
	for rows.Next() {
		var rec DayRecord
		if err := rows.Scan(
			&rec.Date,
			&rec.Symbol,
			&rec.Trend,
			&rec.Direction,
			&rec.Leverage,
			&rec.Trades,
			&rec.Wins,
			&rec.Losses,
			&rec.PnL,
			&rec.RangeHigh,
			&rec.RangeLow,
			&rec.RangeWidth,
			&rec.Breakouts,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
