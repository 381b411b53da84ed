package indicator

import (
	"github.com/raykavin/candlescope/core"
)

// Enrich recomputes every derived field from scratch for one render cycle.
// The input is assumed ordered ascending by date with unique days; the
// output carries one MA value per period (NaN during warmup) and the two
// signal flags. The first record never signals.
func Enrich(records []core.Record, periods []int) []core.Derived {
	if len(records) == 0 {
		return nil
	}

	averages := make(map[int]*SMA, len(periods))
	for _, p := range periods {
		averages[p] = NewSMA(p)
	}

	derived := make([]core.Derived, len(records))
	for i, rec := range records {
		d := core.Derived{
			Record: rec,
			MA:     make(map[int]float64, len(periods)),
		}

		for p, sma := range averages {
			d.MA[p] = sma.Update(rec.Close)
		}

		if i > 0 {
			prev := records[i-1].Score
			d.BullishSignal = Bullish(prev, rec.Score)
			d.BearishSignal = Bearish(prev, rec.Score)
		}

		derived[i] = d
	}

	return derived
}
