package model

import (
	"fmt"
	"math"

	"statfit/domain/core"
	"statfit/domain/table"

	"gonum.org/v1/gonum/mat"
)

// InterceptLabel is the label of the leading constant design column
const InterceptLabel = "(Intercept)"

// Design is the numeric matrix a model is fitted against: an intercept column
// plus one column per encoded predictor term, with categorical factors
// expanded to k-1 indicators relative to their reference level.
type Design struct {
	X      *mat.Dense
	Y      []float64
	Labels []string
	Spec   Spec
}

// Rows returns the number of observations
func (d *Design) Rows() int {
	r, _ := d.X.Dims()
	return r
}

// Cols returns the number of design columns including the intercept
func (d *Design) Cols() int {
	_, c := d.X.Dims()
	return c
}

// Build materializes the design matrix and outcome vector for a spec against
// an observation table. Every categorical value must be inside the declared
// level set; an unmapped value aborts the build.
func Build(t *table.Table, spec Spec) (*Design, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	y, err := t.Numeric(spec.Outcome)
	if err != nil {
		return nil, fmt.Errorf("outcome %q: %w", spec.Outcome, err)
	}
	if err := rejectMissing(spec.Outcome, y); err != nil {
		return nil, err
	}

	n := t.RowCount()
	labels := []string{InterceptLabel}
	cols := [][]float64{constant(n, 1)}

	for _, p := range spec.Predictors {
		expanded, termLabels, err := expandPredictor(t, p)
		if err != nil {
			return nil, err
		}
		cols = append(cols, expanded...)
		labels = append(labels, termLabels...)
	}

	x := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		x.SetCol(j, col)
	}

	outcome := make([]float64, n)
	copy(outcome, y)

	d := &Design{X: x, Y: outcome, Labels: labels, Spec: spec}
	for j := 1; j < d.Cols(); j++ {
		if !d.HasVariation(j) {
			return nil, core.NewRankDeficientError(labels[j])
		}
	}
	return d, nil
}

// rejectMissing refuses NaN cells in a column entering the design. A blank
// survey cell stays visible in the profile but must never reach a fit.
func rejectMissing(field string, vals []float64) error {
	for i, v := range vals {
		if math.IsNaN(v) {
			return core.NewMissingValueError(field, i)
		}
	}
	return nil
}

// expandPredictor turns one predictor term into its design columns
func expandPredictor(t *table.Table, p Predictor) ([][]float64, []string, error) {
	switch p.Encoding {
	case EncodingNumeric:
		vals, err := t.Numeric(p.Field)
		if err != nil {
			return nil, nil, err
		}
		if err := rejectMissing(p.Field, vals); err != nil {
			return nil, nil, err
		}
		col := make([]float64, len(vals))
		copy(col, vals)
		return [][]float64{col}, []string{p.Field}, nil

	case EncodingBinary:
		raw, err := t.Categorical(p.Field)
		if err != nil {
			return nil, nil, err
		}
		col := make([]float64, len(raw))
		for i, v := range raw {
			switch v {
			case p.Levels[0]:
				col[i] = 0
			case p.Levels[1]:
				col[i] = 1
			default:
				return nil, nil, core.NewUnmappedCategoryError(p.Field, v, i)
			}
		}
		return [][]float64{col}, []string{p.Field + p.Levels[1]}, nil

	case EncodingOrdinal:
		raw, err := t.Categorical(p.Field)
		if err != nil {
			return nil, nil, err
		}
		index := levelIndex(p.Levels)
		col := make([]float64, len(raw))
		for i, v := range raw {
			code, ok := index[v]
			if !ok {
				return nil, nil, core.NewUnmappedCategoryError(p.Field, v, i)
			}
			col[i] = float64(code)
		}
		return [][]float64{col}, []string{p.Field}, nil

	case EncodingFactor:
		raw, err := t.Categorical(p.Field)
		if err != nil {
			return nil, nil, err
		}
		index := levelIndex(p.Levels)
		k := len(p.Levels)
		indicators := make([][]float64, k-1)
		labels := make([]string, k-1)
		for j := 1; j < k; j++ {
			indicators[j-1] = make([]float64, len(raw))
			labels[j-1] = p.Field + p.Levels[j]
		}
		for i, v := range raw {
			code, ok := index[v]
			if !ok {
				return nil, nil, core.NewUnmappedCategoryError(p.Field, v, i)
			}
			// reference level (code 0) leaves all indicators at zero
			if code > 0 {
				indicators[code-1][i] = 1
			}
		}
		return indicators, labels, nil
	}
	return nil, nil, core.NewValidationError(p.Field, fmt.Sprintf("unknown encoding %q", p.Encoding))
}

// EncodeRecord builds a single design row (intercept included) for a query
// record against the spec. Categorical predictors accept either the raw level
// string or an exact numeric code already on the encoded scale; anything else
// is a validation error, never a silent default.
func EncodeRecord(spec Spec, rec table.Record) ([]float64, error) {
	row := []float64{1}
	for _, p := range spec.Predictors {
		v, ok := rec[p.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrMissingField, p.Field)
		}
		cols, err := encodeValue(p, v)
		if err != nil {
			return nil, err
		}
		row = append(row, cols...)
	}
	return row, nil
}

func encodeValue(p Predictor, v table.Value) ([]float64, error) {
	switch p.Encoding {
	case EncodingNumeric:
		if v.Kind != table.ValueNumeric {
			return nil, fmt.Errorf("%w: field %q expects numeric", core.ErrValueWrongKind, p.Field)
		}
		return []float64{v.Num}, nil

	case EncodingBinary:
		code, err := resolveCode(p, v)
		if err != nil {
			return nil, err
		}
		return []float64{float64(code)}, nil

	case EncodingOrdinal:
		code, err := resolveCode(p, v)
		if err != nil {
			return nil, err
		}
		return []float64{float64(code)}, nil

	case EncodingFactor:
		code, err := resolveCode(p, v)
		if err != nil {
			return nil, err
		}
		cols := make([]float64, len(p.Levels)-1)
		if code > 0 {
			cols[code-1] = 1
		}
		return cols, nil
	}
	return nil, core.NewValidationError(p.Field, fmt.Sprintf("unknown encoding %q", p.Encoding))
}

// resolveCode maps a query value to a level code, by label or by exact
// integer code on the encoded scale
func resolveCode(p Predictor, v table.Value) (int, error) {
	if v.Kind == table.ValueCategorical {
		for i, lv := range p.Levels {
			if lv == v.Str {
				return i, nil
			}
		}
		return 0, core.NewUnseenLevelError(p.Field, v.Str)
	}
	code := int(v.Num)
	if float64(code) != v.Num || code < 0 || code >= len(p.Levels) {
		return 0, core.NewUnseenLevelError(p.Field, fmt.Sprintf("%g", v.Num))
	}
	return code, nil
}

func levelIndex(levels []string) map[string]int {
	index := make(map[string]int, len(levels))
	for i, lv := range levels {
		index[lv] = i
	}
	return index
}

func constant(n int, v float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = v
	}
	return col
}

// HasVariation reports whether a design column is non-constant; a constant
// non-intercept column is the degenerate case behind most rank deficiencies.
func (d *Design) HasVariation(col int) bool {
	n := d.Rows()
	first := d.X.At(0, col)
	for i := 1; i < n; i++ {
		if math.Abs(d.X.At(i, col)-first) > 1e-12 {
			return true
		}
	}
	return false
}
