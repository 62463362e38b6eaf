package sim

import "time"

// Direction: +1 long, -1 short
type Direction int8

const (
	None  Direction = 0
	Long  Direction = +1
	Short Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	}
	return "NONE"
}

type ExitReason string

const (
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
	ExitEndOfDay   ExitReason = "END_OF_DAY"
	ExitSessionEnd ExitReason = "SESSION_END"
)

// Trade is the ledger record of one position from entry to close. StopLoss
// and TakeProfit are fixed at creation and never change.
type Trade struct {
	Direction  Direction
	Step       int // 1..3 pyramid step
	EntryPrice float64
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
	EntryTime  time.Time

	// Realized
	ExitPrice   float64
	ExitTime    time.Time
	ExitReason  ExitReason
	RealizedPnL float64
	Open        bool
}

// Close performs the single OPEN→CLOSED transition, fixing the exit fields
// and computing realized PnL. Closing an already-closed trade is a no-op.
func (t *Trade) Close(price float64, at time.Time, reason ExitReason) {
	if !t.Open {
		return
	}
	t.Open = false
	t.ExitPrice = price
	t.ExitTime = at
	t.ExitReason = reason
	t.RealizedPnL = float64(t.Direction) * (price - t.EntryPrice) * t.Quantity
}

// PendingEntry is an armed pyramid step waiting for its trigger price.
// It exists only while a breakout direction is active.
type PendingEntry struct {
	Step       int
	Trigger    float64
	StopLoss   float64
	TakeProfit float64
	Quantity   float64
}
