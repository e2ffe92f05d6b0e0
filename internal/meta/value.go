// Package meta computes meta-properties: named, side-effect-free
// scalar attributes of single glycans (antenna count, fucosylation
// status, glycan type, ...). The fixed property catalogue lives in a
// static registry; a table builder evaluates every applicable property
// over a glycan set into a meta-property table, the input trait
// formulas are initialized against.
package meta

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface over the scalar types a meta-property
// may produce. Only Bool, Int, and Str implement it.
type Value interface {
	metaValue() // Sealed - only Bool, Int, Str implement it
}

// Bool is a boolean meta-property value. It contributes 0 or 1 when
// used numerically.
type Bool bool

func (Bool) metaValue() {}

// Int is a non-negative integer meta-property value.
type Int int

func (Int) metaValue() {}

// Str is a small string category value (e.g. a glycan type).
type Str string

func (Str) metaValue() {}

// Float converts a numeric-like value to float64. Bool maps to 0/1.
// Str values are not numeric-like and return an error.
func Float(v Value) (float64, error) {
	switch x := v.(type) {
	case Bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case Int:
		return float64(x), nil
	case Str:
		return 0, fmt.Errorf("string value %q is not numeric", string(x))
	default:
		return 0, fmt.Errorf("unknown value type %T", v)
	}
}

// Render formats a value for display and error messages.
func Render(v Value) string {
	switch x := v.(type) {
	case Bool:
		return strconv.FormatBool(bool(x))
	case Int:
		return strconv.Itoa(int(x))
	case Str:
		return strconv.Quote(string(x))
	default:
		return fmt.Sprintf("%v", v)
	}
}
