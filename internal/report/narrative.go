package report

import (
	"fmt"
	"strings"

	"statfit/domain/model"

	"github.com/gomarkdown/markdown"
)

// Narrative builds the prose interpretation of the fitted models as Markdown.
// The wording follows the conventional reading of each model family: unit
// changes for OLS coefficients, multiplicative odds changes for logistic.
func Narrative(judgesUni, judgesMulti, survey *model.Summary) string {
	var b strings.Builder

	b.WriteString("# Regression analysis report\n\n")

	b.WriteString("## Judge ratings: univariate fit\n\n")
	writeOLSReading(&b, judgesUni)

	b.WriteString("\n## Judge ratings: two-predictor fit\n\n")
	writeOLSReading(&b, judgesMulti)

	b.WriteString("\n## Survey: abortion attitude (logistic, HC3 errors)\n\n")
	writeLogisticReading(&b, survey)

	return b.String()
}

func writeOLSReading(b *strings.Builder, s *model.Summary) {
	for _, c := range s.Coefficients {
		if c.Label == model.InterceptLabel {
			continue
		}
		direction := "increases"
		if c.Estimate < 0 {
			direction = "decreases"
		}
		fmt.Fprintf(b, "- A one-unit increase in **%s** %s the expected outcome by %.3f "+
			"(robust SE %.3f, p %s).\n",
			c.Label, direction, absOf(c.Estimate), c.StdErr, formatP(c.PValue))
	}
}

func writeLogisticReading(b *strings.Builder, s *model.Summary) {
	for _, c := range s.Coefficients {
		if c.Label == model.InterceptLabel {
			continue
		}
		fmt.Fprintf(b, "- **%s**: odds ratio %.3f (%.0f%% CI %.3f to %.3f, p %s). "+
			"Each unit multiplies the odds of the outcome by %.3f.\n",
			c.Label, c.OddsRatio, s.Confidence*100, c.ORLower, c.ORUpper,
			formatP(c.PValue), c.OddsRatio)
	}
}

// RenderHTML converts the Markdown narrative into HTML for the report bundle
func RenderHTML(md string) []byte {
	return markdown.ToHTML([]byte(md), nil, nil)
}

func formatP(p float64) string {
	if p < 0.001 {
		return "< 0.001"
	}
	return fmt.Sprintf("= %.3f", p)
}

func absOf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
