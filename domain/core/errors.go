package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrIngest          = errors.New("dataset ingestion failed")
	ErrFetchFailed     = fmt.Errorf("%w: remote fetch", ErrIngest)
	ErrMalformedTable  = fmt.Errorf("%w: malformed table", ErrIngest)
	ErrColumnNotFound  = errors.New("column not found")
	ErrColumnWrongKind = errors.New("column has wrong kind for operation")

	// Recoding and validation errors
	ErrUnmappedCategory = errors.New("category value outside declared level set")
	ErrMissingValue     = errors.New("missing value in modeled column")
	ErrDuplicateLevel   = errors.New("duplicate level in recoding map")
	ErrEmptyLevels      = errors.New("recoding requires at least one level")

	// Model-fitting errors
	ErrRankDeficient    = errors.New("design matrix is rank deficient")
	ErrNonConvergence   = errors.New("iterative fit did not converge")
	ErrInsufficientData = errors.New("insufficient data for model fit")
	ErrSingularMatrix   = errors.New("singular matrix in covariance computation")

	// Prediction errors
	ErrUnseenLevel    = errors.New("query record uses level unseen at fit time")
	ErrMissingField   = errors.New("query record missing required predictor field")
	ErrValueWrongKind = errors.New("query value kind does not match predictor encoding")
)

// Error constructors with context

// NewUnmappedCategoryError identifies the field, raw value, and row of a
// category that falls outside the declared level set. Unmapped values must
// fail loudly: silently coercing to NA would drop observations from the fit.
func NewUnmappedCategoryError(field, value string, row int) error {
	return fmt.Errorf("%w: field %q value %q at row %d", ErrUnmappedCategory, field, value, row)
}

// NewMissingValueError identifies the field and row of a missing (NaN) cell
// in a column entering a model. Fits never see missing values: a blank cell
// is visible in the profile but refused at design-matrix time.
func NewMissingValueError(field string, row int) error {
	return fmt.Errorf("%w: field %q at row %d", ErrMissingValue, field, row)
}

func NewRankDeficientError(label string) error {
	return fmt.Errorf("%w: column %q is collinear with earlier columns", ErrRankDeficient, label)
}

func NewNonConvergenceError(iterations int, delta float64) error {
	return fmt.Errorf("%w: after %d iterations (max coefficient change %.3e)", ErrNonConvergence, iterations, delta)
}

func NewUnseenLevelError(field, value string) error {
	return fmt.Errorf("%w: field %q value %q", ErrUnseenLevel, field, value)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewIngestError(source string, err error) error {
	return fmt.Errorf("%w: source %s: %v", ErrIngest, source, err)
}

// Error checking helpers
func IsIngestError(err error) bool {
	return errors.Is(err, ErrIngest)
}

func IsRecodingError(err error) bool {
	return errors.Is(err, ErrUnmappedCategory) ||
		errors.Is(err, ErrMissingValue) ||
		errors.Is(err, ErrDuplicateLevel) ||
		errors.Is(err, ErrEmptyLevels)
}

func IsFitError(err error) bool {
	return errors.Is(err, ErrRankDeficient) ||
		errors.Is(err, ErrNonConvergence) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrSingularMatrix)
}

func IsPredictionError(err error) bool {
	return errors.Is(err, ErrUnseenLevel) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrValueWrongKind)
}
