package regress

import (
	"math"

	"statfit/domain/core"
	"statfit/domain/model"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summarize derives the per-coefficient inference table from a fitted model
// under the requested covariance estimator. OLS statistics use a Student-t
// reference with residual degrees of freedom; logistic statistics use the
// normal approximation, and estimates and interval bounds are additionally
// exponentiated into odds ratios.
func Summarize(fit *model.Fitted, covKind model.CovarianceKind, confidence float64) (*model.Summary, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, core.NewValidationError("confidence",
			"confidence level must be strictly between 0 and 1")
	}

	cov, err := covariance(fit, covKind)
	if err != nil {
		return nil, err
	}
	se, err := StdErrors(cov)
	if err != nil {
		return nil, err
	}

	alpha := 1 - confidence
	var quantile float64
	var pValue func(stat float64) float64

	if fit.Kind == model.KindOLS {
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(fit.ResidualDF)}
		quantile = dist.Quantile(1 - alpha/2)
		pValue = func(stat float64) float64 { return 2 * (1 - dist.CDF(math.Abs(stat))) }
	} else {
		dist := distuv.UnitNormal
		quantile = dist.Quantile(1 - alpha/2)
		pValue = func(stat float64) float64 { return 2 * (1 - dist.CDF(math.Abs(stat))) }
	}

	coefs := make([]model.Coefficient, len(fit.Coef))
	for j, est := range fit.Coef {
		stat := est / se[j]
		c := model.Coefficient{
			Label:     fit.Labels[j],
			Estimate:  est,
			StdErr:    se[j],
			Statistic: stat,
			PValue:    pValue(stat),
			Lower:     est - quantile*se[j],
			Upper:     est + quantile*se[j],
		}
		if fit.Kind == model.KindLogistic {
			c.OddsRatio = math.Exp(est)
			c.ORLower = math.Exp(c.Lower)
			c.ORUpper = math.Exp(c.Upper)
		}
		coefs[j] = c
	}

	return &model.Summary{
		ModelKind:    fit.Kind,
		Covariance:   covKind,
		Confidence:   confidence,
		SampleSize:   fit.Design.Rows(),
		ResidualDF:   fit.ResidualDF,
		Coefficients: coefs,
	}, nil
}

func covariance(fit *model.Fitted, kind model.CovarianceKind) (*mat.Dense, error) {
	switch kind {
	case model.CovHC3:
		return CovarianceHC3(fit)
	case model.CovClassical:
		return CovarianceClassical(fit)
	}
	return nil, core.NewValidationError("covariance", "unknown covariance kind "+string(kind))
}
