// Package risk computes position quantities and the day's leverage tier.
package risk

// Policy enumerates the sizing tunables. Trend-aligned breakouts split the
// base quantity via AlignedProportions; trend-opposing breakouts are scaled
// by OpposingMultiplier and split via OpposedProportions.
type Policy struct {
	BaseCapital        float64
	StandardLeverage   float64
	DefensiveLeverage  float64
	OpposingMultiplier float64
	Adaptive           bool

	AlignedProportions [3]float64
	OpposedProportions [3]float64
}

func DefaultPolicy() Policy {
	return Policy{
		BaseCapital:        1000,
		StandardLeverage:   10,
		DefensiveLeverage:  5,
		OpposingMultiplier: 1.5,
		AlignedProportions: [3]float64{1, 0, 0},
		OpposedProportions: [3]float64{1, 0, 0},
	}
}

// LeverageFor picks the leverage tier for a date from the previous date's
// realized PnL. Only the sign is consulted: any losing day drops to the
// defensive tier, win or break-even stays on the standard tier. Without
// adaptive mode, or with no previous date, the standard tier applies.
func (p Policy) LeverageFor(prevDayPnL float64, hasPrev bool) float64 {
	if !p.Adaptive || !hasPrev {
		return p.StandardLeverage
	}
	if prevDayPnL < 0 {
		return p.DefensiveLeverage
	}
	return p.StandardLeverage
}
