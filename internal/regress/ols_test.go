package regress

import (
	"errors"
	"math"
	"testing"

	"statfit/domain/core"
	"statfit/domain/model"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// newDesign builds a design directly from columns; col 0 is the intercept
func newDesign(labels []string, cols [][]float64, y []float64) *model.Design {
	n := len(y)
	x := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		x.SetCol(j, col)
	}
	return &model.Design{X: x, Y: y, Labels: labels}
}

func ones(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = 1
	}
	return col
}

func TestFitOLS_MatchesClosedFormUnivariate(t *testing.T) {
	x := []float64{5.7, 6.8, 7.2, 8.8, 6.4, 8.9, 9.0, 5.9, 8.2, 7.5, 6.6, 7.9}
	y := []float64{7.8, 8.7, 7.8, 8.7, 4.8, 8.6, 9.0, 5.0, 8.0, 7.6, 6.2, 7.9}

	d := newDesign([]string{model.InterceptLabel, "x"}, [][]float64{ones(len(y)), x}, y)
	fit, err := FitOLS(d)
	if err != nil {
		t.Fatalf("FitOLS failed: %v", err)
	}

	if fit.NumCoef() != 2 {
		t.Fatalf("coefficient count %d, want 2", fit.NumCoef())
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.Abs(fit.Coef[0]-alpha) > 1e-10 {
		t.Errorf("intercept %v, closed form %v", fit.Coef[0], alpha)
	}
	if math.Abs(fit.Coef[1]-beta) > 1e-10 {
		t.Errorf("slope %v, closed form %v", fit.Coef[1], beta)
	}
}

func TestFitOLS_ResidualProperties(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2.1, 3.9, 6.2, 7.8, 10.1, 11.8, 14.2, 15.9}

	d := newDesign([]string{model.InterceptLabel, "x"}, [][]float64{ones(len(y)), x}, y)
	fit, err := FitOLS(d)
	if err != nil {
		t.Fatalf("FitOLS failed: %v", err)
	}

	// Residuals sum to zero and are orthogonal to the predictor.
	sum := 0.0
	dot := 0.0
	for i, e := range fit.Residuals {
		sum += e
		dot += e * x[i]
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("residuals sum to %v, want ~0", sum)
	}
	if math.Abs(dot) > 1e-9 {
		t.Errorf("residuals not orthogonal to predictor: dot %v", dot)
	}

	if fit.ResidualDF != len(y)-2 {
		t.Errorf("residual df %d, want %d", fit.ResidualDF, len(y)-2)
	}
}

func TestFitOLS_FittedValuesAreRowDotProducts(t *testing.T) {
	x1 := []float64{1, 2, 3, 4, 5, 6, 7}
	x2 := []float64{2, 1, 4, 3, 6, 5, 8}
	y := []float64{3.2, 4.1, 8.9, 9.4, 14.8, 15.1, 20.3}

	d := newDesign([]string{model.InterceptLabel, "x1", "x2"},
		[][]float64{ones(len(y)), x1, x2}, y)
	fit, err := FitOLS(d)
	if err != nil {
		t.Fatalf("FitOLS failed: %v", err)
	}

	for i := range y {
		want := fit.Coef[0] + fit.Coef[1]*x1[i] + fit.Coef[2]*x2[i]
		if math.Abs(fit.FittedValues[i]-want) > 1e-10 {
			t.Errorf("row %d fitted %v, want dot product %v", i, fit.FittedValues[i], want)
		}
	}
}

func TestFitOLS_RankDeficiencyDetected(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	double := []float64{2, 4, 6, 8, 10, 12} // exactly 2*x
	y := []float64{1, 2, 2, 3, 4, 4}

	d := newDesign([]string{model.InterceptLabel, "x", "double"},
		[][]float64{ones(len(y)), x, double}, y)
	_, err := FitOLS(d)
	if err == nil {
		t.Fatal("expected rank-deficiency error for collinear design")
	}
	if !errors.Is(err, core.ErrRankDeficient) {
		t.Errorf("error %v, want ErrRankDeficient", err)
	}
}

func TestFitOLS_InsufficientData(t *testing.T) {
	d := newDesign([]string{model.InterceptLabel, "x"},
		[][]float64{{1, 1}, {1, 2}}, []float64{3, 5})
	_, err := FitOLS(d)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("error %v, want ErrInsufficientData", err)
	}
}
