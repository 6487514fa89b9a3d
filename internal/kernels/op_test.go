package kernels

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/agbru/numkernels/internal/errors"
)

func TestParseOp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Op
	}{
		{"fibonacci", OpFibonacci},
		{"FIB", OpFibonacci},
		{" fibsum ", OpFibonacciSum},
		{"fibonacci-sum", OpFibonacciSum},
		{"prime_count", OpPrimeCount},
		{"primes", OpPrimeCount},
		{"Matrix", OpMatrixSum},
		{"matrix_multiply_sum", OpMatrixSum},
	}
	for _, tt := range tests {
		got, err := ParseOp(tt.in)
		if err != nil {
			t.Errorf("ParseOp(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	_, err := ParseOp("sqrt")
	var verr apperrors.ValidationError
	if !errors.As(err, &verr) || verr.Field != "op" {
		t.Errorf("ParseOp(sqrt) error = %v, want ValidationError on op", err)
	}
}

func TestParseArgs(t *testing.T) {
	t.Parallel()
	args, err := ParseArgs(OpFibonacciSum, []string{"10", " 4294967295"})
	if err != nil {
		t.Fatalf("ParseArgs error: %v", err)
	}
	if args[0] != 10 || args[1] != math.MaxUint32 {
		t.Errorf("ParseArgs = %v", args)
	}

	badInputs := []struct {
		name  string
		op    Op
		raw   []string
		field string
	}{
		{"negative", OpFibonacci, []string{"-1"}, "n"},
		{"overflow", OpPrimeCount, []string{"4294967296"}, "limit"},
		{"not a number", OpMatrixSum, []string{"ten"}, "size"},
		{"float", OpFibonacci, []string{"1.5"}, "n"},
		{"too few", OpFibonacciSum, []string{"1"}, "args"},
		{"too many", OpFibonacci, []string{"1", "2"}, "args"},
	}
	for _, tc := range badInputs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseArgs(tc.op, tc.raw)
			var verr apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("Field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestOpCatalogue(t *testing.T) {
	t.Parallel()
	wantArity := map[Op]int{OpFibonacci: 1, OpFibonacciSum: 2, OpPrimeCount: 1, OpMatrixSum: 1}
	for _, op := range Ops() {
		if !op.Valid() {
			t.Errorf("%s should be valid", op)
		}
		if op.Arity() != wantArity[op] {
			t.Errorf("%s arity = %d, want %d", op, op.Arity(), wantArity[op])
		}
		if op.Summary() == "" {
			t.Errorf("%s has no summary", op)
		}
	}
	if Op("nope").Valid() || Op("nope").Arity() != 0 {
		t.Error("unknown op should be invalid with arity 0")
	}
}

func TestRequestString(t *testing.T) {
	t.Parallel()
	req, err := NewRequest(OpFibonacciSum, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := req.String(); got != "fibonacci_sum(5, 5)" {
		t.Errorf("String() = %q", got)
	}
	if _, err := NewRequest(OpPrimeCount); err == nil {
		t.Error("NewRequest with no args should fail")
	}
}

func TestValueMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal uints", UintValue(OpFibonacci, 55), UintValue(OpFibonacci, 55), true},
		{"different uints", UintValue(OpFibonacci, 55), UintValue(OpFibonacci, 56), false},
		{"kind mismatch", UintValue(OpMatrixSum, 11), FloatValue(OpMatrixSum, 11), false},
		{"float within tolerance", FloatValue(OpMatrixSum, 1e12), FloatValue(OpMatrixSum, 1e12+1), true},
		{"float outside tolerance", FloatValue(OpMatrixSum, 100), FloatValue(OpMatrixSum, 100.01), false},
		{"zero floats", FloatValue(OpMatrixSum, 0), FloatValue(OpMatrixSum, 0), true},
	}
	for _, tt := range tests {
		if got := tt.a.Matches(tt.b); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValueString(t *testing.T) {
	t.Parallel()
	if s := UintValue(OpFibonacci, 18446744073709551615).String(); s != "18446744073709551615" {
		t.Errorf("uint String = %q", s)
	}
	if s := FloatValue(OpMatrixSum, 126).String(); s != "126" {
		t.Errorf("float String = %q", s)
	}
	if v := FloatValue(OpMatrixSum, 2.5).Interface(); v != 2.5 {
		t.Errorf("Interface = %v", v)
	}
}

func TestLimitsCheck(t *testing.T) {
	t.Parallel()
	l := Limits{MaxMatrixSize: 50, MaxPrimeLimit: 1000}
	tests := []struct {
		req     Request
		wantErr bool
	}{
		{Request{OpMatrixSum, []uint32{50}}, false},
		{Request{OpMatrixSum, []uint32{51}}, true},
		{Request{OpPrimeCount, []uint32{1000}}, false},
		{Request{OpPrimeCount, []uint32{1001}}, true},
		{Request{OpFibonacci, []uint32{math.MaxUint32}}, false},
	}
	for _, tt := range tests {
		err := l.Check(tt.req)
		if (err != nil) != tt.wantErr {
			t.Errorf("Check(%s) error = %v, wantErr %v", tt.req, err, tt.wantErr)
		}
		var le apperrors.LimitError
		if tt.wantErr && !errors.As(err, &le) {
			t.Errorf("Check(%s) error = %T, want LimitError", tt.req, err)
		}
	}
	if err := (Limits{}).Check(Request{OpMatrixSum, []uint32{math.MaxUint32}}); err != nil {
		t.Errorf("zero Limits should not reject: %v", err)
	}
}
