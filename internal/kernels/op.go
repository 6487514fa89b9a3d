package kernels

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/agbru/numkernels/internal/errors"
)

// Op names a host-callable kernel. The values are the export names used at
// every boundary (wasm, Lua, HTTP, manifests).
type Op string

const (
	OpFibonacci    Op = "fibonacci"
	OpFibonacciSum Op = "fibonacci_sum"
	OpPrimeCount   Op = "prime_count"
	OpMatrixSum    Op = "matrix_multiply_sum"
)

type opSpec struct {
	args    []string
	aliases []string
	summary string
}

var catalogue = map[Op]opSpec{
	OpFibonacci:    {args: []string{"n"}, aliases: []string{"fib"}, summary: "n-th Fibonacci number, wrapping mod 2^64"},
	OpFibonacciSum: {args: []string{"a", "b"}, aliases: []string{"fibsum", "fibonacci-sum"}, summary: "F(a) + F(b), wrapping mod 2^64"},
	OpPrimeCount:   {args: []string{"limit"}, aliases: []string{"primes", "prime-count"}, summary: "number of primes <= limit"},
	OpMatrixSum:    {args: []string{"size"}, aliases: []string{"matrix", "matrix-sum"}, summary: "sum of entries of the size x size product"},
}

// Ops lists every operation in catalogue order.
func Ops() []Op {
	return []Op{OpFibonacci, OpFibonacciSum, OpPrimeCount, OpMatrixSum}
}

// Arity returns the number of uint32 arguments op takes, or 0 if unknown.
func (op Op) Arity() int { return len(catalogue[op].args) }

// ArgNames returns the argument names of op in positional order.
func (op Op) ArgNames() []string { return catalogue[op].args }

// Summary is a one-line description of op.
func (op Op) Summary() string { return catalogue[op].summary }

// Valid reports whether op is in the catalogue.
func (op Op) Valid() bool {
	_, ok := catalogue[op]
	return ok
}

// ParseOp resolves an export name or alias, case-insensitively.
func ParseOp(name string) (Op, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, op := range Ops() {
		if string(op) == key {
			return op, nil
		}
		for _, alias := range catalogue[op].aliases {
			if alias == key {
				return op, nil
			}
		}
	}
	return "", apperrors.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", name)}
}

// ParseArgs converts textual host arguments to uint32 values for op. Each
// value must be a base-10 integer in [0, 2^32-1].
func ParseArgs(op Op, raw []string) ([]uint32, error) {
	names := op.ArgNames()
	if len(raw) != len(names) {
		return nil, arityError(op, len(raw))
	}
	args := make([]uint32, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return nil, apperrors.ValidationError{
				Field:   names[i],
				Message: fmt.Sprintf("%q is not an integer in [0, %d]", s, uint32(math.MaxUint32)),
			}
		}
		args[i] = uint32(v)
	}
	return args, nil
}

// Request is a single kernel invocation.
type Request struct {
	Op   Op
	Args []uint32
}

// NewRequest builds a validated Request.
func NewRequest(op Op, args ...uint32) (Request, error) {
	req := Request{Op: op, Args: args}
	return req, req.Validate()
}

// Validate checks the operation name and arity.
func (r Request) Validate() error {
	if !r.Op.Valid() {
		return apperrors.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", r.Op)}
	}
	if len(r.Args) != r.Op.Arity() {
		return arityError(r.Op, len(r.Args))
	}
	return nil
}

// String renders the request as a call expression, e.g. fibonacci_sum(5, 5).
func (r Request) String() string {
	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return fmt.Sprintf("%s(%s)", r.Op, strings.Join(parts, ", "))
}

func arityError(op Op, got int) error {
	return apperrors.ValidationError{
		Field:   "args",
		Message: fmt.Sprintf("%s takes %d argument(s) (%s), got %d", op, op.Arity(), strings.Join(op.ArgNames(), ", "), got),
	}
}
