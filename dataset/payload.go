// Package dataset turns host payloads into ordered, deduplicated OHLC records.
package dataset

import (
	"encoding/json"

	"github.com/raykavin/candlescope/core"
)

// Payload is the tagged union over the two table shapes the host is known
// to deliver. Detect resolves the shape once; the normalizer never probes
// fields after that.
type Payload interface {
	shape() string
}

// Table is the named-columns shape: a header list plus row tuples.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (Table) shape() string { return "table" }

// Field is one dimension or metric array keyed by its manifest id.
type Field struct {
	ID     string `json:"id"`
	Values []any  `json:"values"`
}

// Matrix is the positional shape: parallel dimension/metric arrays.
type Matrix struct {
	Dimensions []Field `json:"dimensions"`
	Metrics    []Field `json:"metrics"`
}

func (Matrix) shape() string { return "matrix" }

// Detect inspects a raw JSON payload and returns the concrete shape.
// A payload exposing named columns wins over the positional shape when a
// document carries both.
func Detect(raw []byte) (Payload, error) {
	var probe struct {
		Columns    []string `json:"columns"`
		Dimensions []Field  `json:"dimensions"`
		Metrics    []Field  `json:"metrics"`
	}

	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	switch {
	case len(probe.Columns) > 0:
		var t Table
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		return t, nil
	case len(probe.Dimensions) > 0 || len(probe.Metrics) > 0:
		var m Matrix
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, core.ErrUnknownPayload
	}
}
