// Package regress implements the estimators behind the analysis pipeline:
// ordinary least squares, logistic regression via IRLS, heteroskedasticity-
// consistent (HC3) covariance, Wald inference, and prediction.
package regress

import (
	"fmt"
	"math"

	"statfit/domain/core"
	"statfit/domain/model"

	"gonum.org/v1/gonum/mat"
)

// rankTol is the relative tolerance on the R diagonal below which a design
// column is treated as collinear with earlier columns
const rankTol = 1e-8

// FitOLS fits a linear model by least squares on the design matrix. Works for
// one predictor or many; the intercept column is already part of the design.
func FitOLS(d *model.Design) (*model.Fitted, error) {
	n, p := d.X.Dims()
	if n <= p {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients", core.ErrInsufficientData, n, p)
	}

	coef, err := solveLeastSquares(d.X, d.Y, d.Labels)
	if err != nil {
		return nil, err
	}

	fitted := make([]float64, n)
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		fitted[i] = dotRow(d.X, i, coef)
		residuals[i] = d.Y[i] - fitted[i]
	}

	return &model.Fitted{
		Kind:         model.KindOLS,
		Design:       d,
		Coef:         coef,
		Labels:       append([]string(nil), d.Labels...),
		FittedValues: fitted,
		Residuals:    residuals,
		ResidualDF:   n - p,
	}, nil
}

// solveLeastSquares solves min ||Xb - y|| by QR, refusing rank-deficient
// designs rather than returning a numerically unstable solution. The label of
// the first collinear column is named in the error.
func solveLeastSquares(x *mat.Dense, y []float64, labels []string) ([]float64, error) {
	n, p := x.Dims()

	qr := new(mat.QR)
	qr.Factorize(x)

	var r mat.Dense
	qr.RTo(&r)
	maxDiag := 0.0
	for j := 0; j < p; j++ {
		if a := math.Abs(r.At(j, j)); a > maxDiag {
			maxDiag = a
		}
	}
	for j := 0; j < p; j++ {
		if math.Abs(r.At(j, j)) <= rankTol*maxDiag {
			return nil, core.NewRankDeficientError(labels[j])
		}
	}

	b := mat.NewDense(n, 1, append([]float64(nil), y...))
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRankDeficient, err)
	}

	coef := make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = sol.At(j, 0)
	}
	return coef, nil
}

func dotRow(x *mat.Dense, i int, coef []float64) float64 {
	sum := 0.0
	for j, c := range coef {
		sum += x.At(i, j) * c
	}
	return sum
}
