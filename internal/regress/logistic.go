package regress

import (
	"fmt"
	"math"

	"statfit/domain/core"
	"statfit/domain/model"

	"gonum.org/v1/gonum/mat"
)

const (
	// maxIterations matches the conventional IRLS iteration cap for GLM fits
	maxIterations = 25
	// convergenceTol is the max absolute coefficient change accepted as converged
	convergenceTol = 1e-8
	// probEps keeps fitted probabilities strictly inside (0,1) so the working
	// weights never collapse to zero mid-iteration
	probEps = 1e-10
)

// FitLogistic fits a binary-outcome logistic regression by iteratively
// reweighted least squares on the logit link. The outcome column must be
// coded {0,1}. A fit that does not reach a stable coefficient vector within
// the iteration cap is an error, never a silently returned last iterate.
func FitLogistic(d *model.Design) (*model.Fitted, error) {
	n, p := d.X.Dims()
	if n <= p {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients", core.ErrInsufficientData, n, p)
	}
	for i, y := range d.Y {
		if y != 0 && y != 1 {
			return nil, core.NewValidationError(d.Spec.Outcome,
				fmt.Sprintf("logistic outcome must be 0 or 1, got %g at row %d", y, i))
		}
	}

	coef := make([]float64, p)
	eta := make([]float64, n)
	mu := make([]float64, n)
	w := make([]float64, n)
	z := make([]float64, n)

	xw := mat.NewDense(n, p, nil)

	converged := false
	lastDelta := math.Inf(1)
	iterations := 0

	for iter := 1; iter <= maxIterations; iter++ {
		iterations = iter

		for i := 0; i < n; i++ {
			eta[i] = dotRow(d.X, i, coef)
			mu[i] = clampProb(invLogit(eta[i]))
			w[i] = mu[i] * (1 - mu[i])
			z[i] = eta[i] + (d.Y[i]-mu[i])/w[i]
		}

		// Weighted least squares step: scale rows by sqrt(w) and reuse the
		// ordinary QR solver.
		zw := make([]float64, n)
		for i := 0; i < n; i++ {
			s := math.Sqrt(w[i])
			for j := 0; j < p; j++ {
				xw.Set(i, j, s*d.X.At(i, j))
			}
			zw[i] = s * z[i]
		}

		next, err := solveLeastSquares(xw, zw, d.Labels)
		if err != nil {
			return nil, err
		}

		lastDelta = 0
		for j := range next {
			if c := math.Abs(next[j] - coef[j]); c > lastDelta {
				lastDelta = c
			}
		}
		coef = next

		if lastDelta < convergenceTol {
			converged = true
			break
		}
	}

	if !converged {
		return nil, core.NewNonConvergenceError(iterations, lastDelta)
	}

	fitted := make([]float64, n)
	residuals := make([]float64, n)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		fitted[i] = clampProb(invLogit(dotRow(d.X, i, coef)))
		residuals[i] = d.Y[i] - fitted[i]
		weights[i] = fitted[i] * (1 - fitted[i])
	}

	return &model.Fitted{
		Kind:         model.KindLogistic,
		Design:       d,
		Coef:         coef,
		Labels:       append([]string(nil), d.Labels...),
		FittedValues: fitted,
		Residuals:    residuals,
		IRLSWeights:  weights,
		ResidualDF:   n - p,
		Iterations:   iterations,
	}, nil
}

// invLogit is the inverse link: eta -> probability in (0,1)
func invLogit(eta float64) float64 {
	// Guard both tails against overflow in exp.
	if eta > 0 {
		return 1 / (1 + math.Exp(-eta))
	}
	e := math.Exp(eta)
	return e / (1 + e)
}

func clampProb(p float64) float64 {
	if p < probEps {
		return probEps
	}
	if p > 1-probEps {
		return 1 - probEps
	}
	return p
}
