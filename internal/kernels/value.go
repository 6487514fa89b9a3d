package kernels

import (
	"math"
	"strconv"
)

// Kind tags the primitive type carried by a Value.
type Kind uint8

const (
	KindUint Kind = iota + 1
	KindFloat
)

// FloatTolerance is the relative tolerance used by Value.Matches for float
// results computed with a different summation order.
const FloatTolerance = 1e-9

// Value is the primitive result of a kernel call: an unsigned integer for the
// Fibonacci and prime kernels, a float64 for the matrix kernel.
type Value struct {
	Op    Op
	Kind  Kind
	Uint  uint64
	Float float64
}

func uintValue(op Op, v uint64) Value   { return Value{Op: op, Kind: KindUint, Uint: v} }
func floatValue(op Op, v float64) Value { return Value{Op: op, Kind: KindFloat, Float: v} }

// UintValue builds an integer result for op.
func UintValue(op Op, v uint64) Value { return uintValue(op, v) }

// FloatValue builds a float result for op.
func FloatValue(op Op, v float64) Value { return floatValue(op, v) }

// String formats the value in base 10; floats use the shortest exact form.
func (v Value) String() string {
	if v.Kind == KindFloat {
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	}
	return strconv.FormatUint(v.Uint, 10)
}

// Interface returns the underlying primitive (uint64 or float64).
func (v Value) Interface() any {
	if v.Kind == KindFloat {
		return v.Float
	}
	return v.Uint
}

// Matches compares two values: integers exactly, floats within
// FloatTolerance relative error.
func (v Value) Matches(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind != KindFloat {
		return v.Uint == o.Uint
	}
	if v.Float == o.Float {
		return true
	}
	diff := math.Abs(v.Float - o.Float)
	scale := math.Max(math.Abs(v.Float), math.Abs(o.Float))
	return diff <= FloatTolerance*scale
}
