package table

import (
	"fmt"

	"statfit/domain/core"
)

// ColumnKind distinguishes numeric from categorical storage
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is a single named column of an observation table. Exactly one of
// Nums/Cats is populated, according to Kind.
type Column struct {
	Name string
	Kind ColumnKind
	Nums []float64
	Cats []string
}

// Len returns the number of observations in the column
func (c Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Nums)
	}
	return len(c.Cats)
}

// Table is the canonical in-memory observation table: an ordered set of
// equal-length columns. Tables are loaded once and only ever extended with
// derived columns; existing columns are never mutated.
type Table struct {
	Source  string
	Columns []Column
}

// New creates an empty table tagged with its source description
func New(source string) *Table {
	return &Table{Source: source}
}

// RowCount returns the number of observations (rows)
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// ColumnNames returns column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name
func (t *Table) Column(name string) (Column, error) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %q", core.ErrColumnNotFound, name)
}

// Numeric returns the float64 data of a numeric column
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindNumeric {
		return nil, fmt.Errorf("%w: %q is %s, want numeric", core.ErrColumnWrongKind, name, c.Kind)
	}
	return c.Nums, nil
}

// Categorical returns the string data of a categorical column
func (t *Table) Categorical(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindCategorical {
		return nil, fmt.Errorf("%w: %q is %s, want categorical", core.ErrColumnWrongKind, name, c.Kind)
	}
	return c.Cats, nil
}

// AddNumeric appends a numeric column. Length must match existing rows.
func (t *Table) AddNumeric(name string, values []float64) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.Columns = append(t.Columns, Column{Name: name, Kind: KindNumeric, Nums: values})
	return nil
}

// AddCategorical appends a categorical column. Length must match existing rows.
func (t *Table) AddCategorical(name string, values []string) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.Columns = append(t.Columns, Column{Name: name, Kind: KindCategorical, Cats: values})
	return nil
}

func (t *Table) checkAdd(name string, n int) error {
	if _, err := t.Column(name); err == nil {
		return core.NewValidationError(name, "column already exists")
	}
	if len(t.Columns) > 0 && n != t.RowCount() {
		return fmt.Errorf("%w: column %q has %d rows, table has %d",
			core.ErrMalformedTable, name, n, t.RowCount())
	}
	return nil
}

// Validate ensures the table is internally consistent
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return core.ErrInsufficientData
	}
	rows := t.RowCount()
	for _, c := range t.Columns {
		if c.Len() != rows {
			return fmt.Errorf("%w: column %q has %d rows, expected %d",
				core.ErrMalformedTable, c.Name, c.Len(), rows)
		}
		if c.Kind != KindNumeric && c.Kind != KindCategorical {
			return core.NewValidationError(c.Name, fmt.Sprintf("unknown column kind %q", c.Kind))
		}
	}
	return nil
}
