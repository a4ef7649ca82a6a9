package model

// CovarianceKind names the covariance estimator behind an inference summary
type CovarianceKind string

const (
	CovClassical CovarianceKind = "classical"
	CovHC3       CovarianceKind = "HC3"
)

// Coefficient is one row of an inference summary: point estimate, standard
// error, Wald statistic, two-sided p-value, and confidence bounds. For
// logistic models the odds-ratio fields carry the exponentiated estimate and
// bounds; for OLS they are zero.
type Coefficient struct {
	Label     string
	Estimate  float64
	StdErr    float64
	Statistic float64
	PValue    float64
	Lower     float64
	Upper     float64

	OddsRatio float64
	ORLower   float64
	ORUpper   float64
}

// Summary is the per-coefficient inference table for one fitted model
type Summary struct {
	ModelKind    Kind
	Covariance   CovarianceKind
	Confidence   float64 // e.g. 0.95
	SampleSize   int
	ResidualDF   int
	Coefficients []Coefficient
}

// Coefficient returns the summary row for a design column label
func (s *Summary) Coefficient(label string) (Coefficient, bool) {
	for _, c := range s.Coefficients {
		if c.Label == label {
			return c, true
		}
	}
	return Coefficient{}, false
}
