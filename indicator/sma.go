// Package indicator computes the derived series drawn on the chart:
// simple moving averages of the close and score threshold signals.
package indicator

import (
	"fmt"
	"math"

	"github.com/raykavin/candlescope/core"
)

// DefaultPeriods are the moving-average windows drawn on the price panel.
var DefaultPeriods = []int{3, 14, 20, 50, 100, 200}

// SMA computes a simple moving average over a rolling window.
// A preallocated circular buffer and a running sum keep Update at O(1),
// so a full series costs O(n) per period. NaN inputs never enter the sum;
// they are counted while resident so the average stays undefined exactly as
// long as the window contains one, and recovers once it slides out.
type SMA struct {
	period int
	buf    []float64
	idx    int
	count  int
	sum    float64
	nans   int
}

// NewSMA creates an SMA indicator with the given period.
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		buf:    make([]float64, period),
	}
}

// Name returns a stable identifier like "SMA(20)".
func (s *SMA) Name() string { return fmt.Sprintf("SMA(%d)", s.period) }

// Warmup returns how many updates are needed before Ready can be true.
func (s *SMA) Warmup() int { return s.period }

// Ready reports whether Value is meaningful.
func (s *SMA) Ready() bool { return s.count >= s.period }

// Update consumes the next close and returns the current average, or NaN
// while the window is not yet full or still holds a non-numeric value.
func (s *SMA) Update(close float64) float64 {
	if s.count >= s.period {
		if evicted := s.buf[s.idx]; math.IsNaN(evicted) {
			s.nans--
		} else {
			s.sum -= evicted
		}
	}

	s.buf[s.idx] = close
	if math.IsNaN(close) {
		s.nans++
	} else {
		s.sum += close
	}
	s.idx = (s.idx + 1) % s.period
	s.count++

	return s.Value()
}

// Value returns the current average, or NaN while warming up or while any
// value in the window is NaN.
func (s *SMA) Value() float64 {
	if !s.Ready() || s.nans > 0 {
		return math.NaN()
	}
	return s.sum / float64(s.period)
}

// Reset clears all internal state.
func (s *SMA) Reset() {
	s.idx = 0
	s.count = 0
	s.sum = 0
	s.nans = 0
	for i := range s.buf {
		s.buf[i] = 0
	}
}

// Sma computes the full moving-average series for a close series.
// Warmup positions carry NaN, not zero.
func Sma(closes core.Series[float64], period int) core.Series[float64] {
	sma := NewSMA(period)
	out := make(core.Series[float64], len(closes))
	for i, c := range closes {
		out[i] = sma.Update(c)
	}
	return out
}
