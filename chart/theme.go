// Package chart plans pixel-space layout and renders the candlestick SVG.
package chart

import (
	"strings"

	"github.com/raykavin/candlescope/core"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Theme maps semantic roles to colors. The current theme is part of the
// render context and persists across redraws until the host changes it.
type Theme struct {
	Name string

	Background drawing.Color
	Text       drawing.Color
	Grid       drawing.Color
	Axis       drawing.Color

	CandleUp   drawing.Color
	CandleDown drawing.Color
	ScoreLine  drawing.Color
	Bullish    drawing.Color
	Bearish    drawing.Color

	// MA assigns one line color per moving-average period.
	MA map[int]drawing.Color
}

// Light is the default palette.
func Light() Theme {
	return Theme{
		Name:       "light",
		Background: drawing.ColorFromHex("ffffff"),
		Text:       drawing.ColorFromHex("333333"),
		Grid:       drawing.ColorFromHex("e6e6e6"),
		Axis:       drawing.ColorFromHex("999999"),
		CandleUp:   drawing.ColorFromHex("26a69a"),
		CandleDown: drawing.ColorFromHex("ef5350"),
		ScoreLine:  drawing.ColorFromHex("7e57c2"),
		Bullish:    drawing.ColorFromHex("2e7d32"),
		Bearish:    drawing.ColorFromHex("c62828"),
		MA: map[int]drawing.Color{
			3:   drawing.ColorFromHex("f9a825"),
			14:  drawing.ColorFromHex("fb8c00"),
			20:  drawing.ColorFromHex("1e88e5"),
			50:  drawing.ColorFromHex("8e24aa"),
			100: drawing.ColorFromHex("00897b"),
			200: drawing.ColorFromHex("6d4c41"),
		},
	}
}

// Dark mirrors the light palette on a dark background.
func Dark() Theme {
	return Theme{
		Name:       "dark",
		Background: drawing.ColorFromHex("1e1e1e"),
		Text:       drawing.ColorFromHex("d4d4d4"),
		Grid:       drawing.ColorFromHex("333333"),
		Axis:       drawing.ColorFromHex("666666"),
		CandleUp:   drawing.ColorFromHex("26a69a"),
		CandleDown: drawing.ColorFromHex("ef5350"),
		ScoreLine:  drawing.ColorFromHex("b39ddb"),
		Bullish:    drawing.ColorFromHex("66bb6a"),
		Bearish:    drawing.ColorFromHex("e57373"),
		MA: map[int]drawing.Color{
			3:   drawing.ColorFromHex("fdd835"),
			14:  drawing.ColorFromHex("ffb74d"),
			20:  drawing.ColorFromHex("64b5f6"),
			50:  drawing.ColorFromHex("ba68c8"),
			100: drawing.ColorFromHex("4db6ac"),
			200: drawing.ColorFromHex("a1887f"),
		},
	}
}

// ThemeByName resolves a palette from its host-facing name.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "light":
		return Light(), nil
	case "dark":
		return Dark(), nil
	default:
		return Theme{}, core.ErrInvalidTheme
	}
}
