package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
)

// ReadCSV loads a CSV file with a header row into the Table shape, so file
// input follows the same normalization path as host payloads.
func ReadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return parseCSV(f)
}

func parseCSV(r io.Reader) (Table, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(lines) == 0 {
		return Table{}, nil
	}

	table := Table{
		Columns: lines[0],
		Rows: lo.Map(lines[1:], func(line []string, _ int) []any {
			return lo.Map(line, func(cell string, _ int) any { return cell })
		}),
	}

	return table, nil
}
