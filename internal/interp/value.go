package interp

import (
	"strconv"

	"toyc/internal/ast"
	"toyc/internal/symbols"
)

// Value is one runtime number, tagged int or float.
type Value struct {
	Type symbols.Type
	I    int64
	F    float64
}

// IntValue builds an int-typed value.
func IntValue(v int64) Value { return Value{Type: symbols.TypeInt, I: v} }

// FloatValue builds a float-typed value.
func FloatValue(v float64) Value { return Value{Type: symbols.TypeFloat, F: v} }

// ParseValue reads a textual number the way declarations are inferred: a
// decimal point makes it a float, otherwise it is an int.
func ParseValue(text string) (Value, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return IntValue(i), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(f), nil
}

// Float64 widens to float regardless of tag.
func (v Value) Float64() float64 {
	if v.Type == symbols.TypeFloat {
		return v.F
	}
	return float64(v.I)
}

// Truthy reports whether the value is nonzero.
func (v Value) Truthy() bool {
	if v.Type == symbols.TypeFloat {
		return v.F != 0
	}
	return v.I != 0
}

// IsFloat reports whether the value carries the float tag.
func (v Value) IsFloat() bool { return v.Type == symbols.TypeFloat }

func (v Value) String() string {
	if v.Type == symbols.TypeFloat {
		return ast.FormatFloat(v.F)
	}
	return strconv.FormatInt(v.I, 10)
}

func boolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}
