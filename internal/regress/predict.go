package regress

import (
	"statfit/domain/model"
	"statfit/domain/table"
)

// Predict evaluates a fitted model on a single query record. The record must
// supply every predictor field of the model's spec using levels seen at fit
// time. OLS models return the linear predictor; logistic models return the
// inverse-logit probability in (0,1).
func Predict(fit *model.Fitted, rec table.Record) (float64, error) {
	row, err := model.EncodeRecord(fit.Design.Spec, rec)
	if err != nil {
		return 0, err
	}

	eta := 0.0
	for j, c := range fit.Coef {
		eta += row[j] * c
	}

	if fit.Kind == model.KindLogistic {
		return invLogit(eta), nil
	}
	return eta, nil
}

// PredictBatch evaluates a fitted model over several query records, failing
// on the first invalid record
func PredictBatch(fit *model.Fitted, recs []table.Record) ([]float64, error) {
	out := make([]float64, len(recs))
	for i, rec := range recs {
		p, err := Predict(fit, rec)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
