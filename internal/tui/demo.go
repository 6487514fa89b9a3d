package tui

import (
	"fmt"

	"github.com/agbru/numkernels/internal/kernels"
)

// Demo is one of the console's computation types.
type Demo int

const (
	DemoFibonacci Demo = iota
	DemoPrimes
	DemoMatrix
)

// MaxMatrixSize caps the matrix demo. Larger inputs are clamped, not
// rejected.
const MaxMatrixSize = 50

var demos = []Demo{DemoFibonacci, DemoPrimes, DemoMatrix}

// String is the selector label.
func (d Demo) String() string {
	switch d {
	case DemoFibonacci:
		return "Fibonacci Sum"
	case DemoPrimes:
		return "Prime Count"
	case DemoMatrix:
		return "Matrix Multiplication"
	}
	return "Unknown"
}

// InputLabels returns the labels of the two inputs.
func (d Demo) InputLabels() (string, string) {
	switch d {
	case DemoPrimes:
		return "Number 1", "Number 2"
	case DemoMatrix:
		return fmt.Sprintf("Matrix Size (max %d)", MaxMatrixSize), "Unused"
	}
	return "First Number", "Second Number"
}

// UsesSecondInput reports whether the second input takes part in the request.
func (d Demo) UsesSecondInput() bool { return d != DemoMatrix }

// Next returns the following demo, wrapping around.
func (d Demo) Next() Demo { return demos[(int(d)+1)%len(demos)] }

// Prev returns the preceding demo, wrapping around.
func (d Demo) Prev() Demo { return demos[(int(d)+len(demos)-1)%len(demos)] }

// BuildRequest maps the two raw inputs to a kernel request:
// Fibonacci Sum is fibonacci_sum(n1, n2), Prime Count is
// prime_count(max(n1, n2)) and Matrix Multiplication is
// matrix_multiply_sum(min(n1, 50)). The second input is not parsed for the
// matrix demo.
func BuildRequest(d Demo, first, second string) (kernels.Request, error) {
	if !d.UsesSecondInput() {
		second = "0"
	}
	// Both inputs get fibonacci_sum's validation, whatever the demo.
	args, err := kernels.ParseArgs(kernels.OpFibonacciSum, []string{first, second})
	if err != nil {
		return kernels.Request{}, err
	}
	n1, n2 := args[0], args[1]

	switch d {
	case DemoPrimes:
		return kernels.NewRequest(kernels.OpPrimeCount, max(n1, n2))
	case DemoMatrix:
		return kernels.NewRequest(kernels.OpMatrixSum, min(n1, MaxMatrixSize))
	default:
		return kernels.NewRequest(kernels.OpFibonacciSum, n1, n2)
	}
}

// FormatOutcome renders a successful result line.
func FormatOutcome(req kernels.Request, v kernels.Value) string {
	switch req.Op {
	case kernels.OpFibonacciSum:
		return fmt.Sprintf("fibonacci(%d) + fibonacci(%d) = %s", req.Args[0], req.Args[1], v)
	case kernels.OpPrimeCount:
		return fmt.Sprintf("Prime count up to %d: %s", req.Args[0], v)
	case kernels.OpMatrixSum:
		return fmt.Sprintf("%d×%d matrix multiplication sum: %.2f", req.Args[0], req.Args[0], v.Float)
	}
	return fmt.Sprintf("%s = %s", req, v)
}
