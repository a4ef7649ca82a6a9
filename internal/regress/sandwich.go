package regress

import (
	"fmt"
	"math"

	"statfit/domain/core"
	"statfit/domain/model"

	"gonum.org/v1/gonum/mat"
)

// CovarianceHC3 computes the HC3 heteroskedasticity-consistent covariance of
// the coefficient estimates: the sandwich B * M * B with bread
// B = (X'WX)^-1 and meat M = sum_i x_i x_i' e_i^2 / (1-h_i)^2, where h_i is
// the observation's leverage from the weighted hat matrix. For OLS the
// working weights are all one and this reduces to the standard HC3 estimator.
func CovarianceHC3(fit *model.Fitted) (*mat.Dense, error) {
	x := fit.Design.X
	n, p := x.Dims()

	bread, err := breadMatrix(fit)
	if err != nil {
		return nil, err
	}

	// d_i = e_i^2 / (1-h_i)^2 with h_i = w_i x_i' B x_i
	d := make([]float64, n)
	xi := make([]float64, p)
	bxi := make([]float64, p)
	for i := 0; i < n; i++ {
		mat.Row(xi, i, x)
		mulVec(bread, xi, bxi)
		h := fit.WorkingWeight(i) * dot(xi, bxi)
		denom := 1 - h
		if denom < 1e-12 {
			denom = 1e-12
		}
		e := fit.Residuals[i]
		d[i] = e * e / (denom * denom)
	}

	// meat = X' diag(d) X
	meat := mat.NewDense(p, p, nil)
	for i := 0; i < n; i++ {
		mat.Row(xi, i, x)
		for a := 0; a < p; a++ {
			for b := 0; b < p; b++ {
				meat.Set(a, b, meat.At(a, b)+d[i]*xi[a]*xi[b])
			}
		}
	}

	var bm, cov mat.Dense
	bm.Mul(bread, meat)
	cov.Mul(&bm, bread)
	return &cov, nil
}

// CovarianceClassical computes the model-based covariance: sigma^2 (X'X)^-1
// for OLS, (X'WX)^-1 for logistic fits.
func CovarianceClassical(fit *model.Fitted) (*mat.Dense, error) {
	bread, err := breadMatrix(fit)
	if err != nil {
		return nil, err
	}
	if fit.Kind != model.KindOLS {
		return bread, nil
	}

	rss := 0.0
	for _, e := range fit.Residuals {
		rss += e * e
	}
	sigma2 := rss / float64(fit.ResidualDF)

	var cov mat.Dense
	cov.Scale(sigma2, bread)
	return &cov, nil
}

// breadMatrix inverts X'WX, surfacing singularity as a domain error rather
// than NaN-filled output
func breadMatrix(fit *model.Fitted) (*mat.Dense, error) {
	x := fit.Design.X
	n, p := x.Dims()

	xtwx := mat.NewDense(p, p, nil)
	xi := make([]float64, p)
	for i := 0; i < n; i++ {
		mat.Row(xi, i, x)
		w := fit.WorkingWeight(i)
		for a := 0; a < p; a++ {
			for b := 0; b < p; b++ {
				xtwx.Set(a, b, xtwx.At(a, b)+w*xi[a]*xi[b])
			}
		}
	}

	var bread mat.Dense
	if err := bread.Inverse(xtwx); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSingularMatrix, err)
	}
	return &bread, nil
}

func mulVec(m *mat.Dense, v, dst []float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			sum += m.At(i, j) * v[j]
		}
		dst[i] = sum
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// StdErrors extracts standard errors as square roots of the covariance
// diagonal
func StdErrors(cov *mat.Dense) ([]float64, error) {
	p, _ := cov.Dims()
	se := make([]float64, p)
	for j := 0; j < p; j++ {
		v := cov.At(j, j)
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: non-positive variance at coefficient %d", core.ErrSingularMatrix, j)
		}
		se[j] = math.Sqrt(v)
	}
	return se, nil
}
