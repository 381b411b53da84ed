package plot

import (
	"math/rand"
	"time"

	"github.com/raykavin/candlescope/core"
	"github.com/raykavin/candlescope/dataset"
	"github.com/samber/lo"
)

// StartSimulation appends one random-walk trading day per interval and
// resubmits the whole dataset through OnData, the same way a host replaces
// its payload wholesale. Useful for watching live updates without a host.
func (s *Server) StartSimulation(seed dataset.Table, interval time.Duration) {
	if interval <= 0 {
		return
	}

	records := dataset.Normalize(seed, s.log)

	// rebuild a canonical table so appended rows are shape-independent of
	// the seed's column order
	table := dataset.Table{
		Columns: append(append([]string{}, dataset.RequiredColumns...), "ticker"),
		Rows: lo.Map(records, func(rec core.Record, _ int) []any {
			return recordRow(rec)
		}),
	}

	last := core.Record{
		Date:   time.Now(),
		Open:   100,
		High:   105,
		Low:    95,
		Close:  100,
		Score:  0,
		Ticker: core.DefaultTicker,
	}
	if len(records) > 0 {
		last = records[len(records)-1]
	}

	s.log.Infof("starting candle simulation with interval %s", interval)

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			last = nextRecord(last)
			table.Rows = append(table.Rows, recordRow(last))

			s.Lock()
			view := s.view
			s.Unlock()
			if view != nil {
				view.OnData(table)
			}
		}
	}()
}

// nextRecord advances the random walk by one trading day.
func nextRecord(prev core.Record) core.Record {
	open := prev.Close
	newClose := open + (rand.Float64()-0.5)*2.0

	score := prev.Score + (rand.Float64()-0.5)*4.0
	if score > 10 {
		score = 10
	}
	if score < -10 {
		score = -10
	}

	high := newClose
	if open > high {
		high = open
	}
	low := newClose
	if open < low {
		low = open
	}

	return core.Record{
		Date:   prev.Date.AddDate(0, 0, 1),
		Open:   open,
		High:   high + rand.Float64(),
		Low:    low - rand.Float64(),
		Close:  newClose,
		Score:  score,
		Ticker: prev.Ticker,
	}
}

func recordRow(rec core.Record) []any {
	row := lo.Map(rec.ToSlice(2), func(cell string, _ int) any { return any(cell) })
	return append(row, rec.Ticker)
}
