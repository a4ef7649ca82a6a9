package table

import (
	"fmt"
	"sort"

	"statfit/domain/core"
)

// Recoding operations. Each is a deterministic total function over the
// declared level set of a categorical column: every observed raw value must
// appear in the declared levels, and an unmapped value aborts the recode with
// an error naming the field, value, and row.

// checkLevels validates a declared level ordering
func checkLevels(field string, levels []string) (map[string]int, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: field %q", core.ErrEmptyLevels, field)
	}
	index := make(map[string]int, len(levels))
	for i, lv := range levels {
		if _, dup := index[lv]; dup {
			return nil, fmt.Errorf("%w: field %q level %q", core.ErrDuplicateLevel, field, lv)
		}
		index[lv] = i
	}
	return index, nil
}

// RecodeBinary derives a {0,1} indicator column from a two-level categorical
// field: zeroLevel maps to 0, oneLevel maps to 1, anything else is an error.
func (t *Table) RecodeBinary(field, derived, zeroLevel, oneLevel string) error {
	raw, err := t.Categorical(field)
	if err != nil {
		return err
	}
	codes := make([]float64, len(raw))
	for i, v := range raw {
		switch v {
		case zeroLevel:
			codes[i] = 0
		case oneLevel:
			codes[i] = 1
		default:
			return core.NewUnmappedCategoryError(field, v, i)
		}
	}
	return t.AddNumeric(derived, codes)
}

// RecodeOrdinal derives a numeric column coding an ordered categorical field
// as consecutive integers 0..k-1 in the caller-specified level order.
func (t *Table) RecodeOrdinal(field, derived string, levels []string) error {
	index, err := checkLevels(field, levels)
	if err != nil {
		return err
	}
	raw, err := t.Categorical(field)
	if err != nil {
		return err
	}
	codes := make([]float64, len(raw))
	for i, v := range raw {
		code, ok := index[v]
		if !ok {
			return core.NewUnmappedCategoryError(field, v, i)
		}
		codes[i] = float64(code)
	}
	return t.AddNumeric(derived, codes)
}

// CheckLevels verifies that every observed value of a categorical field is in
// the declared level set. This is the validation step behind ordered-factor
// predictors, which stay categorical in the table and expand to indicator
// columns at design-matrix time.
func (t *Table) CheckLevels(field string, levels []string) error {
	index, err := checkLevels(field, levels)
	if err != nil {
		return err
	}
	raw, err := t.Categorical(field)
	if err != nil {
		return err
	}
	for i, v := range raw {
		if _, ok := index[v]; !ok {
			return core.NewUnmappedCategoryError(field, v, i)
		}
	}
	return nil
}

// CrossTabRow is one line of a raw-vs-recoded audit table
type CrossTabRow struct {
	Raw   string
	Code  float64
	Count int
}

// CrossTab tabulates a raw categorical column against a derived numeric
// column so a recode can be audited: each raw level must map to exactly one
// code. Rows come back sorted by code then raw label.
func (t *Table) CrossTab(field, derived string) ([]CrossTabRow, error) {
	raw, err := t.Categorical(field)
	if err != nil {
		return nil, err
	}
	codes, err := t.Numeric(derived)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]float64)
	counts := make(map[string]int)
	for i, v := range raw {
		if prev, ok := seen[v]; ok && prev != codes[i] {
			return nil, core.NewValidationError(field,
				fmt.Sprintf("raw value %q maps to both %g and %g", v, prev, codes[i]))
		}
		seen[v] = codes[i]
		counts[v]++
	}

	rows := make([]CrossTabRow, 0, len(seen))
	for v, code := range seen {
		rows = append(rows, CrossTabRow{Raw: v, Code: code, Count: counts[v]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Code != rows[j].Code {
			return rows[i].Code < rows[j].Code
		}
		return rows[i].Raw < rows[j].Raw
	})
	return rows, nil
}
