package candlescope

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/raykavin/candlescope/chart"
	"github.com/raykavin/candlescope/core"
	"github.com/raykavin/candlescope/dataset"
	"github.com/raykavin/candlescope/indicator"
)

const (
	defaultWidth  = 960
	defaultHeight = 540
)

// View is the top-level controller. It owns the render context (records,
// theme, style, container dimensions) and rebuilds the derived dataset and
// the drawn SVG from scratch on every host event. Events are synchronous
// and unqueued; a later call fully supersedes the output of an earlier one.
type View struct {
	sync.Mutex

	log     core.Logger
	surface core.Surface

	ticker  string
	records []core.Record
	theme   chart.Theme
	style   chart.Style
	periods []int
	width   int
	height  int

	lastUpdate time.Time
}

// New creates a View with the provided options. Without WithSurface the
// View computes but draws nowhere, which is only useful in tests.
func New(log core.Logger, options ...Option) *View {
	view := &View{
		log:     log,
		theme:   chart.Light(),
		style:   chart.DefaultStyle(),
		periods: indicator.DefaultPeriods,
		width:   defaultWidth,
		height:  defaultHeight,
	}

	for _, option := range options {
		option(view)
	}

	return view
}

// OnData replaces the whole dataset from a host payload and redraws.
// Normalization failures degrade to the "no data" placeholder.
func (v *View) OnData(payload dataset.Payload) {
	records := dataset.Normalize(payload, v.log)

	v.Lock()
	v.records = records
	if len(records) > 0 {
		v.ticker = records[len(records)-1].Ticker
	}
	v.lastUpdate = time.Now()
	v.Unlock()

	v.log.WithField("records", len(records)).Debug("data event")
	v.redraw()
}

// OnResize updates the container dimensions and redraws. Repeating the same
// dimensions reproduces the same geometry.
func (v *View) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		v.log.Warnf("ignoring resize to %dx%d", width, height)
		return
	}

	v.Lock()
	v.width, v.height = width, height
	v.lastUpdate = time.Now()
	v.Unlock()

	v.redraw()
}

// OnStyle applies a host style notification (either accepted shape) and
// redraws. Unknown themes keep the current palette.
func (v *View) OnStyle(raw []byte) {
	event, err := chart.ParseStyleEvent(raw)
	if err != nil {
		v.log.WithError(err).Warn("discarding malformed style event")
		return
	}

	v.Lock()
	if event.Theme != "" {
		theme, err := chart.ThemeByName(event.Theme)
		if err != nil {
			v.log.WithField("theme", event.Theme).Warn("unknown theme, keeping current")
		} else {
			v.theme = theme
		}
	}
	for period, enabled := range event.Toggles {
		v.style = v.style.Toggle(period, enabled)
	}
	v.lastUpdate = time.Now()
	v.Unlock()

	v.redraw()
}

// LastUpdate returns when the View last processed a host event.
func (v *View) LastUpdate() time.Time {
	v.Lock()
	defer v.Unlock()
	return v.lastUpdate
}

// Theme returns the active palette.
func (v *View) Theme() chart.Theme {
	v.Lock()
	defer v.Unlock()
	return v.theme
}

func (v *View) context() chart.Context {
	v.Lock()
	defer v.Unlock()

	return chart.Context{
		Ticker:  v.ticker,
		Records: indicator.Enrich(v.records, v.periods),
		Periods: v.periods,
		Theme:   v.theme,
		Style:   v.style,
		Width:   v.width,
		Height:  v.height,
	}
}

// redraw recomputes the derived dataset, renders and swaps the surface.
// Render failures are confined here: the surface receives an error panel
// and the View stays responsive to the next event.
func (v *View) redraw() {
	if v.surface == nil {
		return
	}

	ctx := v.context()

	svg, err := renderSafely(ctx)
	if err != nil {
		v.log.WithError(err).Error("render failed")

		var buf bytes.Buffer
		if rerr := chart.RenderError(ctx.Theme, ctx.Width, ctx.Height, err.Error(), &buf); rerr != nil {
			v.log.WithError(rerr).Error("error panel render failed")
			return
		}
		svg = buf.Bytes()
	}

	if err := v.surface.Replace(svg); err != nil {
		v.log.WithError(err).Error("surface replace failed")
	}
}

func renderSafely(ctx chart.Context) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	var buf bytes.Buffer
	if err := chart.Render(ctx, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
