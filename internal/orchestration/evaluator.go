package orchestration

import (
	"context"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/reference"
)

// KernelEvaluator evaluates requests with the core kernels module.
type KernelEvaluator struct {
	module *kernels.Module
}

// NewKernelEvaluator wraps m. A nil module uses a silent default.
func NewKernelEvaluator(m *kernels.Module) *KernelEvaluator {
	if m == nil {
		m = kernels.New()
	}
	return &KernelEvaluator{module: m}
}

// Name returns "kernel".
func (e *KernelEvaluator) Name() string { return "kernel" }

// Evaluate dispatches req to the kernels module.
func (e *KernelEvaluator) Evaluate(ctx context.Context, req kernels.Request) (kernels.Value, error) {
	if err := ctx.Err(); err != nil {
		return kernels.Value{}, err
	}
	v, err := e.module.Invoke(req)
	if err != nil {
		return kernels.Value{}, apperrors.EvaluationError{Op: string(req.Op), Cause: err}
	}
	return v, nil
}

// ReferenceEvaluator evaluates requests with the independent oracles of the
// reference package.
type ReferenceEvaluator struct{}

// Name returns "reference".
func (ReferenceEvaluator) Name() string { return "reference" }

// Evaluate dispatches req to the matching oracle.
func (ReferenceEvaluator) Evaluate(ctx context.Context, req kernels.Request) (kernels.Value, error) {
	if err := ctx.Err(); err != nil {
		return kernels.Value{}, err
	}
	if err := req.Validate(); err != nil {
		return kernels.Value{}, apperrors.EvaluationError{Op: string(req.Op), Cause: err}
	}
	switch req.Op {
	case kernels.OpFibonacci:
		return kernels.UintValue(req.Op, reference.FibonacciMod64(req.Args[0])), nil
	case kernels.OpFibonacciSum:
		return kernels.UintValue(req.Op, reference.FibonacciSumMod64(req.Args[0], req.Args[1])), nil
	case kernels.OpPrimeCount:
		return kernels.UintValue(req.Op, uint64(reference.PrimeCountTrialDivision(req.Args[0]))), nil
	default:
		return kernels.FloatValue(req.Op, reference.MatrixProduct(req.Args[0])), nil
	}
}

// EvaluatorsToRun returns the kernel evaluator, followed by the reference
// evaluator when verify is set.
func EvaluatorsToRun(m *kernels.Module, verify bool) []Evaluator {
	evaluators := []Evaluator{NewKernelEvaluator(m)}
	if verify {
		evaluators = append(evaluators, ReferenceEvaluator{})
	}
	return evaluators
}
