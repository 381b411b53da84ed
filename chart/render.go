package chart

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/raykavin/candlescope/core"
	"github.com/raykavin/candlescope/dataset"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Context is the full input of one render: everything the pipeline derived
// plus the active theme and style. It is rebuilt per event and owns no
// state between redraws, so identical contexts produce identical output.
type Context struct {
	Ticker  string
	Records []core.Derived
	Periods []int
	Theme   Theme
	Style   Style
	Width   int
	Height  int
}

const (
	priceTickCount = 5
	signalOffset   = 6
	signalSize     = 5
)

// Render draws the chart as SVG into w, replacing nothing by itself; the
// surface owns the swap. An empty record sequence produces the "no data"
// placeholder instead of a chart.
func Render(ctx Context, w io.Writer) error {
	r, err := gochart.SVG(ctx.Width, ctx.Height)
	if err != nil {
		return err
	}

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetDPI(gochart.DefaultDPI)
	r.SetFont(font)

	drawBackground(r, ctx.Theme, ctx.Width, ctx.Height)

	if len(ctx.Records) == 0 {
		drawPlaceholder(r, ctx.Theme, ctx.Width, ctx.Height)
		return r.Save(w)
	}

	layout, err := Plan(ctx.Records, ctx.Style, ctx.Width, ctx.Height)
	if err != nil {
		return err
	}

	drawPriceAxis(r, ctx.Theme, layout)
	drawTimeAxis(r, ctx.Theme, layout)
	drawScoreAxis(r, ctx.Theme, layout)
	drawCandles(r, ctx.Theme, layout, ctx.Records)
	drawMovingAverages(r, ctx, layout)
	drawScoreLine(r, ctx.Theme, layout, ctx.Records)
	drawSignals(r, ctx.Theme, layout, ctx.Records)
	drawLegend(r, ctx)

	return r.Save(w)
}

// RenderError draws an in-container error panel. It is the boundary output
// for render-time failures: the surface stays valid and the next event can
// still redraw.
func RenderError(theme Theme, width, height int, msg string, w io.Writer) error {
	r, err := gochart.SVG(width, height)
	if err != nil {
		return err
	}

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetDPI(gochart.DefaultDPI)
	r.SetFont(font)

	drawBackground(r, theme, width, height)
	drawCenteredLines(r, theme, width, height, []string{"chart error", msg})

	return r.Save(w)
}

type point struct {
	x, y int
}

func drawBackground(r gochart.Renderer, theme Theme, width, height int) {
	r.SetFillColor(theme.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()
}

func drawPlaceholder(r gochart.Renderer, theme Theme, width, height int) {
	drawCenteredLines(r, theme, width, height, []string{
		"no data to display",
		"required fields: " + strings.Join(dataset.RequiredColumns, ", "),
	})
}

func drawCenteredLines(r gochart.Renderer, theme Theme, width, height int, lines []string) {
	r.SetFontColor(theme.Text)
	r.SetFontSize(12)

	const lineHeight = 20
	y := height/2 - (len(lines)-1)*lineHeight/2
	for _, line := range lines {
		tb := r.MeasureText(line)
		r.Text(line, (width-tb.Width())/2, y)
		y += lineHeight
	}
}

// drawPriceAxis draws the horizontal gridlines and the left axis labels.
// Gridlines exist only for the price scale.
func drawPriceAxis(r gochart.Renderer, theme Theme, l Layout) {
	r.SetFontColor(theme.Text)
	r.SetFontSize(10)

	step := (l.Price.Max - l.Price.Min) / float64(priceTickCount)
	for i := 0; i <= priceTickCount; i++ {
		v := l.Price.Min + step*float64(i)
		y := l.PriceAt(v)

		r.SetStrokeColor(theme.Grid)
		r.SetStrokeWidth(1)
		r.MoveTo(l.Box.Left, y)
		r.LineTo(l.Box.Right, y)
		r.Stroke()

		label := formatPrice(v)
		tb := r.MeasureText(label)
		r.Text(label, l.Box.Left-6-tb.Width(), y+4)
	}

	r.SetStrokeColor(theme.Axis)
	r.SetStrokeWidth(1)
	r.MoveTo(l.Box.Left, l.Box.Top)
	r.LineTo(l.Box.Left, l.Box.Bottom)
	r.Stroke()
}

func drawTimeAxis(r gochart.Renderer, theme Theme, l Layout) {
	r.SetStrokeColor(theme.Axis)
	r.SetStrokeWidth(1)
	r.MoveTo(l.Box.Left, l.Box.Bottom)
	r.LineTo(l.Box.Right, l.Box.Bottom)
	r.Stroke()

	r.SetFontColor(theme.Text)
	r.SetFontSize(10)

	span := l.X.Max - l.X.Min
	format := "Jan 02"
	if span > 300*24*3600 {
		format = "Jan 2006"
	}

	for i := 0; i < l.TimeTicks; i++ {
		t := l.X.Min + span*float64(i)/float64(l.TimeTicks-1)
		x := l.Box.Left + l.X.Translate(t)

		r.SetStrokeColor(theme.Axis)
		r.MoveTo(x, l.Box.Bottom)
		r.LineTo(x, l.Box.Bottom+4)
		r.Stroke()

		label := time.Unix(int64(t), 0).UTC().Format(format)
		tb := r.MeasureText(label)
		r.Text(label, x-tb.Width()/2, l.Box.Bottom+18)
	}
}

// drawScoreAxis draws the right-hand axis with fixed ticks.
func drawScoreAxis(r gochart.Renderer, theme Theme, l Layout) {
	r.SetStrokeColor(theme.Axis)
	r.SetStrokeWidth(1)
	r.MoveTo(l.Box.Right, l.Box.Top)
	r.LineTo(l.Box.Right, l.Box.Bottom)
	r.Stroke()

	r.SetFontColor(theme.Text)
	r.SetFontSize(10)

	for v := scoreMin; v <= scoreMax; v += 5 {
		y := l.ScoreAt(v)
		r.Text(fmt.Sprintf("%.0f", v), l.Box.Right+6, y+4)
	}
}

func drawCandles(r gochart.Renderer, theme Theme, l Layout, records []core.Derived) {
	half := int(l.CandleWidth / 2)
	if half < 1 {
		half = 1
	}

	for _, rec := range records {
		if hasNaN(rec.Open, rec.High, rec.Low, rec.Close) {
			// degraded row: absent mark, not a crash
			continue
		}

		color := theme.CandleUp
		if rec.Close < rec.Open {
			color = theme.CandleDown
		}

		x := l.XAt(rec.Date)

		// wick from high to low
		r.SetStrokeColor(color)
		r.SetStrokeWidth(1)
		r.MoveTo(x, l.PriceAt(rec.High))
		r.LineTo(x, l.PriceAt(rec.Low))
		r.Stroke()

		// body from open to close
		top := l.PriceAt(math.Max(rec.Open, rec.Close))
		bottom := l.PriceAt(math.Min(rec.Open, rec.Close))
		if bottom <= top {
			bottom = top + 1 // doji stays visible
		}

		r.SetFillColor(color)
		r.MoveTo(x-half, top)
		r.LineTo(x+half, top)
		r.LineTo(x+half, bottom)
		r.LineTo(x-half, bottom)
		r.Close()
		r.Fill()
	}
}

func drawMovingAverages(r gochart.Renderer, ctx Context, l Layout) {
	for _, period := range ctx.Periods {
		if !ctx.Style.IsEnabled(period) {
			continue
		}

		color, ok := ctx.Theme.MA[period]
		if !ok {
			color = ctx.Theme.Text
		}

		r.SetStrokeColor(color)
		r.SetStrokeWidth(1.5)
		r.SetStrokeDashArray(nil)

		// undefined stretches break the line instead of interpolating
		var run []point
		for _, rec := range ctx.Records {
			v := rec.MA[period]
			if math.IsNaN(v) {
				strokeSmooth(r, run)
				run = run[:0]
				continue
			}
			run = append(run, point{l.XAt(rec.Date), l.PriceAt(v)})
		}
		strokeSmooth(r, run)
	}
}

func drawScoreLine(r gochart.Renderer, theme Theme, l Layout, records []core.Derived) {
	r.SetStrokeColor(theme.ScoreLine)
	r.SetStrokeWidth(1.5)
	r.SetStrokeDashArray([]float64{5, 3})

	var run []point
	for _, rec := range records {
		if math.IsNaN(rec.Score) {
			strokeSmooth(r, run)
			run = run[:0]
			continue
		}
		run = append(run, point{l.XAt(rec.Date), l.ScoreAt(rec.Score)})
	}
	strokeSmooth(r, run)

	r.SetStrokeDashArray(nil)
}

func drawSignals(r gochart.Renderer, theme Theme, l Layout, records []core.Derived) {
	for _, rec := range records {
		switch {
		case rec.BullishSignal && !math.IsNaN(rec.Low):
			x, y := l.XAt(rec.Date), l.PriceAt(rec.Low)+signalOffset
			triangle(r, point{x, y}, point{x - signalSize, y + signalSize + 4}, point{x + signalSize, y + signalSize + 4}, theme.Bullish)
		case rec.BearishSignal && !math.IsNaN(rec.High):
			x, y := l.XAt(rec.Date), l.PriceAt(rec.High)-signalOffset
			triangle(r, point{x, y}, point{x - signalSize, y - signalSize - 4}, point{x + signalSize, y - signalSize - 4}, theme.Bearish)
		}
	}
}

func drawLegend(r gochart.Renderer, ctx Context) {
	r.SetFontSize(11)

	ticker := ctx.Ticker
	if ticker == "" {
		ticker = ctx.Records[0].Ticker
	}

	const baseline = 18
	x := marginLeft

	r.SetFontColor(ctx.Theme.Text)
	r.Text(ticker, x, baseline)
	x += r.MeasureText(ticker).Width() + 16

	for _, period := range ctx.Periods {
		if !ctx.Style.IsEnabled(period) {
			continue
		}
		label := fmt.Sprintf("MA%d", period)
		color, ok := ctx.Theme.MA[period]
		if !ok {
			color = ctx.Theme.Text
		}
		r.SetFontColor(color)
		r.Text(label, x, baseline)
		x += r.MeasureText(label).Width() + 10
	}

	r.SetFontColor(ctx.Theme.ScoreLine)
	r.Text("score", x, baseline)
}

// strokeSmooth draws a run of points as a quadratic curve through segment
// midpoints, falling back to a straight segment for short runs.
func strokeSmooth(r gochart.Renderer, pts []point) {
	if len(pts) < 2 {
		return
	}

	r.MoveTo(pts[0].x, pts[0].y)
	if len(pts) == 2 {
		r.LineTo(pts[1].x, pts[1].y)
		r.Stroke()
		return
	}

	for i := 1; i < len(pts)-1; i++ {
		mx := (pts[i].x + pts[i+1].x) / 2
		my := (pts[i].y + pts[i+1].y) / 2
		r.QuadCurveTo(pts[i].x, pts[i].y, mx, my)
	}
	r.LineTo(pts[len(pts)-1].x, pts[len(pts)-1].y)
	r.Stroke()
}

func triangle(r gochart.Renderer, a, b, c point, color drawing.Color) {
	r.SetFillColor(color)
	r.MoveTo(a.x, a.y)
	r.LineTo(b.x, b.y)
	r.LineTo(c.x, c.y)
	r.Close()
	r.Fill()
}

func hasNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func formatPrice(v float64) string {
	switch {
	case math.Abs(v) >= 1000:
		return fmt.Sprintf("%.0f", v)
	case math.Abs(v) >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
