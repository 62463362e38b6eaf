package orb

// Trend labels a date by comparing its range midpoint to the previous date's.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendNeutral Trend = "NEUTRAL"
)

// ClassifyTrend compares the current midpoint to the previous date's.
// A strictly higher midpoint is UP; ties and lower are DOWN. NEUTRAL only
// when no previous value exists (first processed date).
func ClassifyTrend(mid float64, prevMid float64, hasPrev bool) Trend {
	if !hasPrev {
		return TrendNeutral
	}
	if mid > prevMid {
		return TrendUp
	}
	return TrendDown
}
