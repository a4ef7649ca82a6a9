package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"statfit/domain/core"
	"statfit/domain/table"
)

// parseCSV reads a delimited file with a header row into an observation
// table. Column typing is header-driven from the data: a column is numeric
// iff every non-empty cell parses as a float, otherwise it stays
// categorical. Empty cells in a numeric column become NaN so the missing
// rate is visible downstream; model building refuses NaN, so a blank cell
// can surface in a profile but never enter a fit. Ragged rows and empty
// files are malformed-table errors.
func parseCSV(r io.Reader, source string) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewIngestError(source, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s has no data rows", core.ErrMalformedTable, source)
	}

	header := records[0]
	rows := records[1:]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == "" {
			return nil, fmt.Errorf("%w: %s has an empty header at column %d", core.ErrMalformedTable, source, i)
		}
	}

	t := table.New(source)
	for j, name := range header {
		raw := make([]string, len(rows))
		numeric := true
		nums := make([]float64, len(rows))
		for i, row := range rows {
			if len(row) != len(header) {
				return nil, fmt.Errorf("%w: %s row %d has %d cells, header has %d",
					core.ErrMalformedTable, source, i+1, len(row), len(header))
			}
			cell := strings.TrimSpace(row[j])
			raw[i] = cell
			if numeric {
				if cell == "" {
					nums[i] = math.NaN()
					continue
				}
				v, convErr := strconv.ParseFloat(cell, 64)
				if convErr != nil {
					numeric = false
				} else {
					nums[i] = v
				}
			}
		}

		if numeric {
			err = t.AddNumeric(name, nums)
		} else {
			err = t.AddCategorical(name, raw)
		}
		if err != nil {
			return nil, core.NewIngestError(source, err)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, core.NewIngestError(source, err)
	}
	return t, nil
}
