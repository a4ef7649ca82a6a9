// Package report turns fitted models and inference summaries into the
// analysis outputs: text coefficient tables, a Markdown/HTML narrative, and
// an Excel workbook with plot-ready fitted-value and residual sheets.
package report

import (
	"fmt"
	"strings"

	"statfit/domain/model"
)

// RenderSummary formats an inference summary as an aligned text table. OLS
// summaries show estimate/SE/statistic/p/CI columns; logistic summaries add
// the exponentiated odds-ratio columns.
func RenderSummary(title string, s *model.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "n=%d, df=%d, covariance=%s, confidence=%.0f%%\n",
		s.SampleSize, s.ResidualDF, s.Covariance, s.Confidence*100)

	statName := "t"
	if s.ModelKind == model.KindLogistic {
		statName = "z"
	}

	if s.ModelKind == model.KindLogistic {
		fmt.Fprintf(&b, "%-22s %12s %12s %8s %10s %10s %10s %10s %10s %10s\n",
			"coefficient", "estimate", "std.err", statName, "p-value", "lower", "upper", "OR", "OR lower", "OR upper")
		for _, c := range s.Coefficients {
			fmt.Fprintf(&b, "%-22s %12.6f %12.6f %8.3f %10.2g %10.4f %10.4f %10.4f %10.4f %10.4f\n",
				c.Label, c.Estimate, c.StdErr, c.Statistic, c.PValue, c.Lower, c.Upper,
				c.OddsRatio, c.ORLower, c.ORUpper)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%-22s %12s %12s %8s %10s %10s %10s\n",
		"coefficient", "estimate", "std.err", statName, "p-value", "lower", "upper")
	for _, c := range s.Coefficients {
		fmt.Fprintf(&b, "%-22s %12.6f %12.6f %8.3f %10.2g %10.4f %10.4f\n",
			c.Label, c.Estimate, c.StdErr, c.Statistic, c.PValue, c.Lower, c.Upper)
	}
	return b.String()
}

// RenderPredictions formats scenario predictions as labelled lines
func RenderPredictions(scenarios []Scenario) string {
	var b strings.Builder
	for _, sc := range scenarios {
		fmt.Fprintf(&b, "%-40s %.6f\n", sc.Label, sc.Value)
	}
	return b.String()
}

// Scenario is one labelled prediction for the report
type Scenario struct {
	Label string
	Value float64
}
