package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"statfit/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"
)

func summaryFixture(kind model.Kind) *model.Summary {
	coefs := []model.Coefficient{
		{Label: model.InterceptLabel, Estimate: -0.5, StdErr: 0.2, Statistic: -2.5, PValue: 0.013, Lower: -0.9, Upper: -0.1},
		{Label: "importance_code", Estimate: 0.4, StdErr: 0.1, Statistic: 4.0, PValue: 0.0001, Lower: 0.2, Upper: 0.6},
	}
	if kind == model.KindLogistic {
		for i := range coefs {
			coefs[i].OddsRatio = 1.5
			coefs[i].ORLower = 1.2
			coefs[i].ORUpper = 1.8
		}
	}
	return &model.Summary{
		ModelKind:    kind,
		Covariance:   model.CovHC3,
		Confidence:   0.95,
		SampleSize:   100,
		ResidualDF:   98,
		Coefficients: coefs,
	}
}

func fitFixture() *model.Fitted {
	x := mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3})
	return &model.Fitted{
		Kind:         model.KindOLS,
		Design:       &model.Design{X: x, Y: []float64{1, 2, 3}, Labels: []string{model.InterceptLabel, "x"}},
		Coef:         []float64{0, 1},
		Labels:       []string{model.InterceptLabel, "x"},
		FittedValues: []float64{1, 2, 3},
		Residuals:    []float64{0, 0, 0},
		ResidualDF:   1,
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("OLS fit", summaryFixture(model.KindOLS))
	assert.Contains(t, out, "OLS fit")
	assert.Contains(t, out, "importance_code")
	assert.Contains(t, out, "HC3")
	assert.NotContains(t, out, "OR lower")

	logit := RenderSummary("logistic fit", summaryFixture(model.KindLogistic))
	assert.Contains(t, logit, "OR lower")
	assert.Contains(t, logit, "1.5000")
}

func TestNarrativeAndHTML(t *testing.T) {
	md := Narrative(summaryFixture(model.KindOLS), summaryFixture(model.KindOLS), summaryFixture(model.KindLogistic))
	assert.Contains(t, md, "# Regression analysis report")
	assert.Contains(t, md, "odds ratio 1.500")
	// Intercept rows are plumbing, not interpretation.
	assert.NotContains(t, md, model.InterceptLabel)

	html := string(RenderHTML(md))
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<li>")
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.xlsx")
	err := WriteWorkbook(path, []WorkbookEntry{
		{Sheet: "univariate OLS", Summary: summaryFixture(model.KindOLS), Fit: fitFixture()},
		{Sheet: "survey logistic", Summary: summaryFixture(model.KindLogistic), Fit: fitFixture()},
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderPredictions(t *testing.T) {
	out := RenderPredictions([]Scenario{
		{Label: "base voter", Value: 0.42},
		{Label: "bumped importance", Value: 0.55},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "base voter")
	assert.Contains(t, lines[0], "0.420000")
}
