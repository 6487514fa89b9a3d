package kernels

import apperrors "github.com/agbru/numkernels/internal/errors"

// Limits caps the arguments a host accepts for the allocating kernels. The
// kernels themselves accept any uint32; hosts exposed to untrusted callers
// apply Limits first. A zero field disables that guard.
type Limits struct {
	MaxMatrixSize uint64
	MaxPrimeLimit uint64
}

// Check returns an apperrors.LimitError if req exceeds l.
func (l Limits) Check(req Request) error {
	if len(req.Args) == 0 {
		return nil
	}
	v := uint64(req.Args[0])
	switch req.Op {
	case OpMatrixSum:
		if l.MaxMatrixSize > 0 && v > l.MaxMatrixSize {
			return apperrors.LimitError{Op: string(req.Op), Value: v, Max: l.MaxMatrixSize}
		}
	case OpPrimeCount:
		if l.MaxPrimeLimit > 0 && v > l.MaxPrimeLimit {
			return apperrors.LimitError{Op: string(req.Op), Value: v, Max: l.MaxPrimeLimit}
		}
	}
	return nil
}
