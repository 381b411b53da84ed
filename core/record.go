package core

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultTicker is used when the payload does not carry an instrument label.
const DefaultTicker = "TICKER"

// Record represents one trading day of OHLC data plus the externally
// computed score. Records are rebuilt from the raw payload on every data
// event and never mutated afterwards.
type Record struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Score  float64
	Ticker string
}

// GetDate returns the calendar date of the record
func (r Record) GetDate() time.Time { return r.Date }

// GetOpen returns the opening price of the record
func (r Record) GetOpen() float64 { return r.Open }

// GetHigh returns the highest price of the record
func (r Record) GetHigh() float64 { return r.High }

// GetLow returns the lowest price of the record
func (r Record) GetLow() float64 { return r.Low }

// GetClose returns the closing price of the record
func (r Record) GetClose() float64 { return r.Close }

// GetScore returns the oscillator score of the record
func (r Record) GetScore() float64 { return r.Score }

// Day returns the date truncated to the calendar day in UTC.
// It is the deduplication and sort key.
func (r Record) Day() time.Time {
	y, m, d := r.Date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToSlice converts a record to a string slice for CSV serialization
// with the specified decimal precision
func (r Record) ToSlice(precision int) []string {
	return []string{
		r.Date.Format("2006-01-02"),
		strconv.FormatFloat(r.Open, 'f', precision, 64),
		strconv.FormatFloat(r.High, 'f', precision, 64),
		strconv.FormatFloat(r.Low, 'f', precision, 64),
		strconv.FormatFloat(r.Close, 'f', precision, 64),
		strconv.FormatFloat(r.Score, 'f', precision, 64),
	}
}

func (r Record) String() string {
	return fmt.Sprintf("%s o=%.2f h=%.2f l=%.2f c=%.2f s=%.2f",
		r.Date.Format("2006-01-02"), r.Open, r.High, r.Low, r.Close, r.Score)
}

// Derived is a Record enriched with computed fields. MA holds one simple
// moving average per configured period; values are NaN until the trailing
// window is full.
type Derived struct {
	Record

	MA            map[int]float64
	BullishSignal bool
	BearishSignal bool
}
