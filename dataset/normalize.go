package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/candlescope/core"
	"github.com/samber/lo"
)

// RequiredColumns are the fields a payload must expose to produce records.
// Ticker is optional and defaults to core.DefaultTicker.
var RequiredColumns = []string{"date", "open", "high", "low", "close", "score"}

const tickerColumn = "ticker"

// dateLayouts are tried in order after the compact YYYYMMDD form.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Normalize maps a detected payload into an ordered, day-deduplicated
// record sequence. Failures that invalidate the whole batch (no rows,
// missing required column) are logged and yield an empty result; a single
// bad date only drops its row.
func Normalize(p Payload, log core.Logger) []core.Record {
	switch t := p.(type) {
	case Table:
		return normalizeRows(t.Columns, t.Rows, log)
	case Matrix:
		columns, rows := matrixToRows(t)
		return normalizeRows(columns, rows, log)
	default:
		if log != nil {
			log.Warn("unknown payload shape, nothing to normalize")
		}
		return nil
	}
}

// matrixToRows flattens the positional shape into the columns+rows form so
// both payloads share one normalization path.
func matrixToRows(m Matrix) ([]string, [][]any) {
	fields := append(m.Dimensions, m.Metrics...)

	columns := lo.Map(fields, func(f Field, _ int) string { return f.ID })

	height := 0
	for _, f := range fields {
		if len(f.Values) > height {
			height = len(f.Values)
		}
	}

	rows := make([][]any, height)
	for i := range rows {
		row := make([]any, len(fields))
		for j, f := range fields {
			if i < len(f.Values) {
				row[j] = f.Values[i]
			}
		}
		rows[i] = row
	}

	return columns, rows
}

func normalizeRows(columns []string, rows [][]any, log core.Logger) []core.Record {
	if len(rows) == 0 {
		if log != nil {
			log.Warn("payload has no rows")
		}
		return nil
	}

	idx, ok := resolveColumns(columns)
	if !ok {
		if log != nil {
			missing := lo.Filter(RequiredColumns, func(name string, _ int) bool {
				_, found := idx[name]
				return !found
			})
			log.WithField("missing", strings.Join(missing, ", ")).
				Warn("payload is missing required columns")
		}
		return nil
	}

	byDay := make(map[time.Time]core.Record, len(rows))
	for _, row := range rows {
		rec, ok := parseRow(row, idx)
		if !ok {
			continue
		}
		// last row for a calendar day wins
		byDay[rec.Day()] = rec
	}

	records := lo.Values(byDay)
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records
}

// resolveColumns maps semantic names to column positions. Matching is
// case-insensitive, exact name first, then substring ("Close Price" still
// resolves to close).
func resolveColumns(columns []string) (map[string]int, bool) {
	lowered := lo.Map(columns, func(c string, _ int) string {
		return strings.ToLower(strings.TrimSpace(c))
	})

	idx := make(map[string]int, len(RequiredColumns)+1)
	for _, name := range append(RequiredColumns, tickerColumn) {
		if pos, found := findColumn(lowered, name); found {
			idx[name] = pos
		}
	}

	for _, name := range RequiredColumns {
		if _, found := idx[name]; !found {
			return idx, false
		}
	}

	return idx, true
}

func findColumn(lowered []string, name string) (int, bool) {
	for i, c := range lowered {
		if c == name {
			return i, true
		}
	}
	for i, c := range lowered {
		if strings.Contains(c, name) {
			return i, true
		}
	}
	return 0, false
}

func parseRow(row []any, idx map[string]int) (core.Record, bool) {
	date, ok := parseDate(cell(row, idx["date"]))
	if !ok {
		return core.Record{}, false
	}

	rec := core.Record{
		Date:   date,
		Open:   coerce(cell(row, idx["open"])),
		High:   coerce(cell(row, idx["high"])),
		Low:    coerce(cell(row, idx["low"])),
		Close:  coerce(cell(row, idx["close"])),
		Score:  coerce(cell(row, idx["score"])),
		Ticker: core.DefaultTicker,
	}

	if pos, found := idx[tickerColumn]; found {
		if s, isString := cell(row, pos).(string); isString && s != "" {
			rec.Ticker = s
		}
	}

	return rec, true
}

func cell(row []any, pos int) any {
	if pos < 0 || pos >= len(row) {
		return nil
	}
	return row[pos]
}

// parseDate accepts the compact 8-digit YYYYMMDD form, a closed list of
// textual layouts, unix epoch seconds carried as numbers, and time.Time
// passed through programmatic payloads.
func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case float64:
		if d <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(d), 0).UTC(), true
	case string:
		s := strings.TrimSpace(d)
		if isCompactDate(s) {
			if t, err := time.Parse("20060102", s); err == nil {
				return t, true
			}
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func isCompactDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// coerce converts a cell to float64. Non-numeric values become NaN and
// propagate; the renderer treats NaN as an absent mark.
func coerce(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
