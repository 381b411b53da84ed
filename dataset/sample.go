package dataset

import (
	"bytes"
	_ "embed"
)

// Embedded dataset for the host-less development mode: 64 trading days of
// a random walk with score crossings in both directions.
//
//go:embed sample.csv
var sampleCSV []byte

// Sample returns the bundled development dataset as a Table payload.
func Sample() Table {
	table, err := parseCSV(bytes.NewReader(sampleCSV))
	if err != nil {
		// the asset is compiled in; a parse failure is a build defect
		panic(err)
	}
	return table
}
