package candlescope

import (
	"github.com/raykavin/candlescope/chart"
	"github.com/raykavin/candlescope/core"
)

// Option is a functional option for configuring a View instance
type Option func(*View)

// WithSurface sets the drawable surface the View renders into
func WithSurface(surface core.Surface) Option {
	return func(view *View) {
		view.surface = surface
	}
}

// WithTheme sets the initial palette, overriding the light default
func WithTheme(theme chart.Theme) Option {
	return func(view *View) {
		view.theme = theme
	}
}

// WithStyle sets the initial indicator toggles
func WithStyle(style chart.Style) Option {
	return func(view *View) {
		view.style = style
	}
}

// WithSize sets the initial container dimensions in pixels
func WithSize(width, height int) Option {
	return func(view *View) {
		if width > 0 && height > 0 {
			view.width, view.height = width, height
		}
	}
}

// WithTicker sets the display label used when the payload carries none
func WithTicker(ticker string) Option {
	return func(view *View) {
		view.ticker = ticker
	}
}

// WithPeriods overrides the default moving-average windows
func WithPeriods(periods ...int) Option {
	return func(view *View) {
		if len(periods) > 0 {
			view.periods = periods
		}
	}
}
