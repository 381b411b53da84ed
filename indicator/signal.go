package indicator

import "github.com/raykavin/candlescope/core"

// Score thresholds for signal detection. The comparison is inclusive on
// the previous value and strict on the current one, so touching a
// threshold without crossing it is not a signal.
const (
	BullishThreshold = 5.0
	BearishThreshold = -5.0
)

// Bullish reports an upward crossing of the +5 threshold between two
// consecutive scores.
func Bullish(prev, cur float64) bool {
	return core.Series[float64]{prev, cur}.CrossedAbove(BullishThreshold)
}

// Bearish reports a downward crossing of the -5 threshold between two
// consecutive scores.
func Bearish(prev, cur float64) bool {
	return core.Series[float64]{prev, cur}.CrossedBelow(BearishThreshold)
}
