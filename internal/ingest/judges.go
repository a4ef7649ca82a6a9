// Package ingest loads the two observation tables the analysis runs on: the
// bundled judge-ratings dataset and a remote election-survey CSV.
package ingest

import (
	"bytes"
	_ "embed"

	"statfit/domain/table"
)

// judgesCSV is the bundled 43-judge ratings table: lawyer ratings of state
// judges on twelve 1-10 scales, keyed by judge name.
//
//go:embed judges.csv
var judgesCSV []byte

// JudgesSource names the bundled dataset in table metadata and errors
const JudgesSource = "bundled:judges.csv"

// LoadJudges parses the embedded judge-ratings dataset. The first column is
// the judge name; all rating columns are numeric.
func LoadJudges() (*table.Table, error) {
	return parseCSV(bytes.NewReader(judgesCSV), JudgesSource)
}
