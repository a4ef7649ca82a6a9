package table

// ValueKind mirrors ColumnKind for single values in a query record
type ValueKind string

const (
	ValueNumeric     ValueKind = "numeric"
	ValueCategorical ValueKind = "categorical"
)

// Value is a single typed cell used in query records
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// Num constructs a numeric value
func Num(v float64) Value {
	return Value{Kind: ValueNumeric, Num: v}
}

// Cat constructs a categorical value
func Cat(s string) Value {
	return Value{Kind: ValueCategorical, Str: s}
}

// Record is a single synthetic observation, keyed by field name. Records are
// the input to prediction queries against a fitted model.
type Record map[string]Value
