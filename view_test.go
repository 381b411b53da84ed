package candlescope

import (
	"sync"
	"testing"

	"github.com/raykavin/candlescope/chart"
	"github.com/raykavin/candlescope/core"
	"github.com/raykavin/candlescope/dataset"
	logadapter "github.com/raykavin/candlescope/logger/zerolog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSurface records every swap for assertion.
type captureSurface struct {
	sync.Mutex
	frames [][]byte
}

func (s *captureSurface) Replace(svg []byte) error {
	s.Lock()
	defer s.Unlock()
	s.frames = append(s.frames, append([]byte(nil), svg...))
	return nil
}

func (s *captureSurface) last() []byte {
	s.Lock()
	defer s.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func testLogger() core.Logger {
	nop := zerolog.Nop()
	return logadapter.NewAdapter(&nop)
}

func testTable() dataset.Table {
	return dataset.Table{
		Columns: []string{"date", "open", "high", "low", "close", "score", "ticker"},
		Rows: [][]any{
			{"2024-01-02", 100.0, 110.0, 95.0, 105.0, 2.0, "ACME"},
			{"2024-01-03", 105.0, 112.0, 101.0, 108.0, 6.0, "ACME"},
			{"2024-01-04", 108.0, 109.0, 98.0, 99.0, -6.0, "ACME"},
		},
	}
}

func TestView_OnDataDrawsChart(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface))

	view.OnData(testTable())

	require.Len(t, surface.frames, 1)
	out := string(surface.last())
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "ACME")
}

func TestView_EmptyDataShowsPlaceholder(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface))

	view.OnData(dataset.Table{Columns: []string{"date"}, Rows: nil})

	require.Len(t, surface.frames, 1)
	assert.Contains(t, string(surface.last()), "no data to display")
}

func TestView_ResizeIsIdempotent(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface))
	view.OnData(testTable())

	view.OnResize(800, 400)
	view.OnResize(800, 400)

	require.Len(t, surface.frames, 3)
	assert.Equal(t, surface.frames[1], surface.frames[2],
		"repeating the same dimensions must reproduce the same output")
	assert.NotEqual(t, surface.frames[0], surface.frames[1])
}

func TestView_ResizeIgnoresNonPositiveDimensions(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface))
	view.OnData(testTable())

	view.OnResize(0, 400)
	view.OnResize(800, -1)

	assert.Len(t, surface.frames, 1, "invalid resize must not trigger a redraw")
}

func TestView_OnStyleSwitchesTheme(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface))
	view.OnData(testTable())

	view.OnStyle([]byte(`{"theme":"dark"}`))

	assert.Equal(t, "dark", view.Theme().Name)
	require.Len(t, surface.frames, 2)
	assert.NotEqual(t, surface.frames[0], surface.frames[1])
}

func TestView_OnStyleWrappedToggle(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface))
	view.OnData(testTable())

	view.OnStyle([]byte(`{"options":{"ma3_enabled":{"value":false}}}`))

	require.Len(t, surface.frames, 2)
	assert.NotContains(t, string(surface.last()), "MA3")
}

func TestView_OnStyleUnknownThemeKeepsCurrent(t *testing.T) {
	view := New(testLogger(), WithTheme(chart.Dark()))

	view.OnStyle([]byte(`{"theme":"solarized"}`))

	assert.Equal(t, "dark", view.Theme().Name)
}

func TestView_MalformedStyleEventIsDiscarded(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface))
	view.OnData(testTable())

	view.OnStyle([]byte(`{"theme":`))

	assert.Len(t, surface.frames, 1, "malformed style event must not redraw")
}

func TestView_LaterDataSupersedesEarlier(t *testing.T) {
	surface := &captureSurface{}
	view := New(testLogger(), WithSurface(surface), WithTicker(""))

	view.OnData(testTable())

	replacement := testTable()
	for i := range replacement.Rows {
		replacement.Rows[i][6] = "ZETA"
	}
	view.OnData(replacement)

	assert.Contains(t, string(surface.last()), "ZETA")
	assert.NotContains(t, string(surface.last()), "ACME")
}

func TestView_NoSurfaceIsSafe(t *testing.T) {
	view := New(testLogger())

	assert.NotPanics(t, func() {
		view.OnData(testTable())
		view.OnResize(640, 360)
	})
}

func TestView_LastUpdateAdvances(t *testing.T) {
	view := New(testLogger())
	require.True(t, view.LastUpdate().IsZero())

	view.OnData(testTable())
	assert.False(t, view.LastUpdate().IsZero())
}
