// Package candlescope renders an OHLC candlestick chart with moving-average
// overlays, a score oscillator and buy/sell signal markers as SVG. A host
// dashboard drives a View through three entry points (OnData, OnResize,
// OnStyle); without a host, the plot package serves the chart locally from
// an embedded sample dataset.
package candlescope

import "github.com/raykavin/candlescope/core"

// DefaultLog is the logger used when no explicit one is provided.
// It is configured from CANDLESCOPE_LOG_* environment variables in init.
var DefaultLog core.Logger
