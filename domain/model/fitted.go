package model

// Kind distinguishes the fitted model families
type Kind string

const (
	KindOLS      Kind = "ols"
	KindLogistic Kind = "logistic"
)

// Fitted is the result of a regression fit: coefficient estimates with their
// design-column labels, the design that produced them, and the residual
// structure needed for covariance estimation. Fitted values are on the
// response scale (probabilities for logistic models).
type Fitted struct {
	Kind   Kind
	Design *Design

	Coef   []float64
	Labels []string

	FittedValues []float64
	Residuals    []float64 // response-scale residuals y - fitted

	// IRLSWeights holds mu*(1-mu) at convergence for logistic fits; nil for
	// OLS, where all working weights are one.
	IRLSWeights []float64

	// ResidualDF is n - p, the degrees of freedom of the residuals
	ResidualDF int

	// Iterations is the IRLS iteration count (zero for closed-form OLS)
	Iterations int
}

// WorkingWeight returns the working weight of observation i: mu*(1-mu) for
// logistic fits, one for OLS
func (f *Fitted) WorkingWeight(i int) float64 {
	if f.IRLSWeights == nil {
		return 1
	}
	return f.IRLSWeights[i]
}

// CoefByLabel returns the estimate for a design column label
func (f *Fitted) CoefByLabel(label string) (float64, bool) {
	for i, l := range f.Labels {
		if l == label {
			return f.Coef[i], true
		}
	}
	return 0, false
}

// NumCoef returns the number of estimated coefficients
func (f *Fitted) NumCoef() int {
	return len(f.Coef)
}
