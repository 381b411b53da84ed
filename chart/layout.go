package chart

import (
	"math"
	"time"

	"github.com/raykavin/candlescope/core"
	gochart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
)

// Fixed plot margins in pixels.
const (
	marginLeft   = 56
	marginRight  = 48
	marginTop    = 30
	marginBottom = 36
)

const (
	pricePadding = 0.005 // multiplicative domain margin against clipping
	scoreMin     = -10.0
	scoreMax     = 10.0

	candlePadding  = 0.65
	minCandleWidth = 2.0
	maxCandleWidth = 30.0
)

// Layout is the pixel-space plan for one render: the plot box, the three
// coordinate scales and the derived candle geometry. It is recomputed on
// every data, resize or style event.
type Layout struct {
	Width, Height int
	Box           gochart.Box

	X     *gochart.ContinuousRange // unix seconds → plot width
	Price *gochart.ContinuousRange // price → plot height, inverted
	Score *gochart.ContinuousRange // fixed [-10,10] → plot height, inverted

	CandleWidth float64
	TimeTicks   int
}

// Plan derives the layout from the record extent, the enabled style flags
// and the container dimensions.
func Plan(records []core.Derived, style Style, width, height int) (Layout, error) {
	box := gochart.Box{
		Top:    marginTop,
		Left:   marginLeft,
		Right:  width - marginRight,
		Bottom: height - marginBottom,
	}
	if box.Width() <= 0 || box.Height() <= 0 {
		return Layout{}, core.ErrEmptyDimensions
	}

	tMin := float64(records[0].Date.Unix())
	tMax := float64(records[len(records)-1].Date.Unix())
	if tMax <= tMin {
		// single record: widen the domain by half a day on each side
		tMin -= 12 * 3600
		tMax += 12 * 3600
	}

	x := &gochart.ContinuousRange{Min: tMin, Max: tMax, Domain: box.Width()}

	lo, hi := priceExtent(records, style)
	price := &gochart.ContinuousRange{
		Min:        lo * (1 - pricePadding),
		Max:        hi * (1 + pricePadding),
		Domain:     box.Height(),
		Descending: true,
	}

	score := &gochart.ContinuousRange{
		Min:        scoreMin,
		Max:        scoreMax,
		Domain:     box.Height(),
		Descending: true,
	}

	layout := Layout{
		Width:       width,
		Height:      height,
		Box:         box,
		X:           x,
		Price:       price,
		Score:       score,
		CandleWidth: candleWidth(records, x),
		TimeTicks:   timeTicks(width),
	}

	return layout, nil
}

// XAt maps a date to a horizontal pixel position.
func (l Layout) XAt(t time.Time) int {
	return l.Box.Left + l.X.Translate(float64(t.Unix()))
}

// PriceAt maps a price to a vertical pixel position.
func (l Layout) PriceAt(v float64) int {
	return l.Box.Top + l.Price.Translate(v)
}

// ScoreAt maps a score to a vertical pixel position on the secondary scale.
// Scores outside [-10,10] translate outside the box and visually clip.
func (l Layout) ScoreAt(v float64) int {
	return l.Box.Top + l.Score.Translate(v)
}

// priceExtent collects the low/high extremes plus every currently enabled
// moving-average value, ignoring NaN cells.
func priceExtent(records []core.Derived, style Style) (float64, float64) {
	values := make([]float64, 0, len(records)*2)
	for _, r := range records {
		if !math.IsNaN(r.Low) {
			values = append(values, r.Low)
		}
		if !math.IsNaN(r.High) {
			values = append(values, r.High)
		}
		for period, v := range r.MA {
			if style.IsEnabled(period) && !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}

	if len(values) == 0 {
		// every cell was NaN; keep a degenerate but valid domain
		return 0, 1
	}

	return floats.Min(values), floats.Max(values)
}

// candleWidth converts the minimum gap between consecutive records into
// pixels, applies the padding factor and clamps to legible bounds.
func candleWidth(records []core.Derived, x *gochart.ContinuousRange) float64 {
	minGap := math.MaxFloat64
	for i := 1; i < len(records); i++ {
		gap := records[i].Date.Sub(records[i-1].Date).Seconds()
		if gap > 0 && gap < minGap {
			minGap = gap
		}
	}
	if minGap == math.MaxFloat64 {
		minGap = 24 * 3600
	}

	px := float64(x.Translate(x.Min+minGap)) * candlePadding
	return math.Min(math.Max(px, minCandleWidth), maxCandleWidth)
}

// timeTicks adapts the bottom axis tick count to the container width.
func timeTicks(width int) int {
	n := width / 100
	if n < 2 {
		return 2
	}
	if n > 10 {
		return 10
	}
	return n
}
