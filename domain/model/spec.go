package model

import (
	"fmt"

	"statfit/domain/core"
)

// Encoding describes how a predictor field enters the design matrix
type Encoding string

const (
	// EncodingNumeric uses a numeric column as-is (one design column)
	EncodingNumeric Encoding = "numeric"
	// EncodingBinary maps a two-level categorical field to a {0,1} indicator:
	// Levels[0] -> 0, Levels[1] -> 1
	EncodingBinary Encoding = "binary"
	// EncodingOrdinal maps an ordered categorical field to consecutive
	// integer codes 0..k-1 in Levels order (one design column)
	EncodingOrdinal Encoding = "ordinal"
	// EncodingFactor expands a leveled categorical field to k-1 indicator
	// columns; Levels[0] is the reference level absorbed into the intercept
	EncodingFactor Encoding = "factor"
)

// Predictor names one predictor field and its encoding. Levels is required
// for every non-numeric encoding and fixes both the admissible value set and
// the level ordering (reference level first for factors).
type Predictor struct {
	Field    string
	Encoding Encoding
	Levels   []string
}

// Spec is the explicit model specification: an outcome column plus an ordered
// list of encoded predictors. It replaces a string formula grammar with plain
// configuration so the modeling contract is inspectable and validated.
type Spec struct {
	Outcome    string
	Predictors []Predictor
}

// Numeric declares a numeric predictor
func Numeric(field string) Predictor {
	return Predictor{Field: field, Encoding: EncodingNumeric}
}

// Binary declares a two-level categorical predictor with an explicit
// reference (zero) level
func Binary(field, zeroLevel, oneLevel string) Predictor {
	return Predictor{Field: field, Encoding: EncodingBinary, Levels: []string{zeroLevel, oneLevel}}
}

// Ordinal declares an ordered categorical predictor coded 0..k-1
func Ordinal(field string, levels ...string) Predictor {
	return Predictor{Field: field, Encoding: EncodingOrdinal, Levels: levels}
}

// Factor declares a leveled categorical predictor; the first level is the
// reference absorbed into the intercept
func Factor(field string, levels ...string) Predictor {
	return Predictor{Field: field, Encoding: EncodingFactor, Levels: levels}
}

// Validate checks the spec is internally coherent before any data is touched
func (s Spec) Validate() error {
	if s.Outcome == "" {
		return core.NewValidationError("outcome", "outcome field is required")
	}
	if len(s.Predictors) == 0 {
		return core.NewValidationError("predictors", "at least one predictor is required")
	}
	seen := map[string]bool{s.Outcome: true}
	for _, p := range s.Predictors {
		if p.Field == "" {
			return core.NewValidationError("predictors", "predictor field name is empty")
		}
		if seen[p.Field] {
			return core.NewValidationError(p.Field, "field appears more than once in the model")
		}
		seen[p.Field] = true

		switch p.Encoding {
		case EncodingNumeric:
			if len(p.Levels) != 0 {
				return core.NewValidationError(p.Field, "numeric predictors do not take levels")
			}
		case EncodingBinary:
			if len(p.Levels) != 2 {
				return core.NewValidationError(p.Field,
					fmt.Sprintf("binary encoding needs exactly 2 levels, got %d", len(p.Levels)))
			}
		case EncodingOrdinal:
			if len(p.Levels) < 2 {
				return core.NewValidationError(p.Field, "ordinal encoding needs at least 2 levels")
			}
		case EncodingFactor:
			if len(p.Levels) < 2 {
				return core.NewValidationError(p.Field, "factor encoding needs at least 2 levels")
			}
		default:
			return core.NewValidationError(p.Field, fmt.Sprintf("unknown encoding %q", p.Encoding))
		}

		if p.Encoding != EncodingNumeric {
			if err := checkDistinct(p.Field, p.Levels); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkDistinct(field string, levels []string) error {
	seen := make(map[string]bool, len(levels))
	for _, lv := range levels {
		if seen[lv] {
			return fmt.Errorf("%w: field %q level %q", core.ErrDuplicateLevel, field, lv)
		}
		seen[lv] = true
	}
	return nil
}
