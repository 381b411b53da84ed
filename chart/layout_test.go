package chart

import (
	"math"
	"testing"
	"time"

	"github.com/raykavin/candlescope/core"
	"github.com/stretchr/testify/require"
)

func dailyRecords(n int) []core.Derived {
	derived := make([]core.Derived, n)
	for i := range derived {
		derived[i] = core.Derived{
			Record: core.Record{
				Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
				Open:  100,
				High:  110,
				Low:   90,
				Close: 105,
				Score: 0,
			},
			MA: map[int]float64{},
		}
	}
	return derived
}

func TestPlan_PriceScaleIsInverted(t *testing.T) {
	layout, err := Plan(dailyRecords(10), DefaultStyle(), 960, 540)
	require.NoError(t, err)

	require.Less(t, layout.PriceAt(110), layout.PriceAt(90),
		"larger price must map to smaller pixel y")
}

func TestPlan_ScoreDomainIsFixed(t *testing.T) {
	layout, err := Plan(dailyRecords(10), DefaultStyle(), 960, 540)
	require.NoError(t, err)

	require.Equal(t, layout.Box.Top, layout.ScoreAt(scoreMax))
	require.Equal(t, layout.Box.Bottom, layout.ScoreAt(scoreMin))

	// out-of-range scores translate outside the plot box and clip
	require.Less(t, layout.ScoreAt(15), layout.Box.Top)
}

func TestPlan_PriceDomainPadding(t *testing.T) {
	layout, err := Plan(dailyRecords(10), DefaultStyle(), 960, 540)
	require.NoError(t, err)

	require.InDelta(t, 90*(1-pricePadding), layout.Price.Min, 1e-9)
	require.InDelta(t, 110*(1+pricePadding), layout.Price.Max, 1e-9)
}

func TestPlan_DomainIncludesEnabledMovingAverages(t *testing.T) {
	records := dailyRecords(10)
	records[5].MA[200] = 250 // far above every high

	enabled, err := Plan(records, DefaultStyle(), 960, 540)
	require.NoError(t, err)
	require.GreaterOrEqual(t, enabled.Price.Max, 250.0)

	disabled, err := Plan(records, DefaultStyle().Toggle(200, false), 960, 540)
	require.NoError(t, err)
	require.Less(t, disabled.Price.Max, 250.0)
}

func TestPlan_CandleWidthClampsDense(t *testing.T) {
	// two years of daily candles in a narrow container
	layout, err := Plan(dailyRecords(730), DefaultStyle(), 300, 200)
	require.NoError(t, err)

	require.Equal(t, minCandleWidth, layout.CandleWidth)
}

func TestPlan_CandleWidthClampsSparse(t *testing.T) {
	layout, err := Plan(dailyRecords(3), DefaultStyle(), 1600, 540)
	require.NoError(t, err)

	require.Equal(t, maxCandleWidth, layout.CandleWidth)
}

func TestPlan_SingleRecord(t *testing.T) {
	layout, err := Plan(dailyRecords(1), DefaultStyle(), 960, 540)
	require.NoError(t, err)

	require.Greater(t, layout.X.Max, layout.X.Min)
	require.GreaterOrEqual(t, layout.CandleWidth, minCandleWidth)
}

func TestPlan_RejectsDegenerateContainer(t *testing.T) {
	_, err := Plan(dailyRecords(5), DefaultStyle(), 40, 20)
	require.ErrorIs(t, err, core.ErrEmptyDimensions)
}

func TestPlan_AllNaNExtentFallsBack(t *testing.T) {
	records := dailyRecords(3)
	for i := range records {
		records[i].Low = math.NaN()
		records[i].High = math.NaN()
	}

	layout, err := Plan(records, DefaultStyle(), 960, 540)
	require.NoError(t, err)
	require.Less(t, layout.Price.Min, layout.Price.Max)
}

func TestTimeTicks_AdaptToWidth(t *testing.T) {
	require.Equal(t, 2, timeTicks(150))
	require.Equal(t, 4, timeTicks(480))
	require.Equal(t, 10, timeTicks(5000))
}
