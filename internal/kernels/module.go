package kernels

import (
	"sync"

	"github.com/agbru/numkernels/internal/logging"
)

// Module binds the kernels to a logging side-channel. The zero value is not
// usable; build one with New. A Module holds no mutable state and is safe for
// concurrent use.
type Module struct {
	logger logging.Logger
}

// Option configures a Module during construction.
type Option func(*Module)

// WithLogger sets the logger that receives one line per kernel call.
// A nil logger keeps the no-op default.
func WithLogger(l logging.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Module. Without options every call is silent.
func New(opts ...Option) *Module {
	m := &Module{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FibonacciSequence logs n and returns F(n).
func (m *Module) FibonacciSequence(n uint32) uint64 {
	m.logger.Info("computing fibonacci", logging.Uint64("n", uint64(n)))
	return FibonacciSequence(n)
}

// FibonacciSum logs both indices and returns F(a) + F(b), delegating to
// FibonacciSequence so each term is logged as well.
func (m *Module) FibonacciSum(a, b uint32) uint64 {
	m.logger.Info("computing fibonacci sum",
		logging.Uint64("a", uint64(a)), logging.Uint64("b", uint64(b)))
	return m.FibonacciSequence(a) + m.FibonacciSequence(b)
}

// PrimeCounter logs the limit and returns the number of primes ≤ limit.
func (m *Module) PrimeCounter(limit uint32) uint32 {
	m.logger.Info("counting primes", logging.Uint64("limit", uint64(limit)))
	return PrimeCounter(limit)
}

// MatrixProduct logs the square dimensions and returns the product sum.
func (m *Module) MatrixProduct(size uint32) float64 {
	m.logger.Info("computing matrix product",
		logging.Uint64("width", uint64(size)), logging.Uint64("height", uint64(size)))
	return MatrixProduct(size)
}

// Invoke validates req and dispatches it to the matching kernel.
func (m *Module) Invoke(req Request) (Value, error) {
	if err := req.Validate(); err != nil {
		return Value{}, err
	}
	switch req.Op {
	case OpFibonacci:
		return uintValue(req.Op, m.FibonacciSequence(req.Args[0])), nil
	case OpFibonacciSum:
		return uintValue(req.Op, m.FibonacciSum(req.Args[0], req.Args[1])), nil
	case OpPrimeCount:
		return uintValue(req.Op, uint64(m.PrimeCounter(req.Args[0]))), nil
	default:
		return floatValue(req.Op, m.MatrixProduct(req.Args[0])), nil
	}
}

// Loader runs the module-load hook exactly once.
type Loader struct {
	once sync.Once
}

// Load emits the "module loaded" message on the first call and reports
// whether this call was the one that ran the hook.
func (l *Loader) Load(logger logging.Logger) bool {
	ran := false
	l.once.Do(func() {
		if logger == nil {
			logger = logging.NopLogger{}
		}
		logger.Info("module loaded")
		ran = true
	})
	return ran
}

var processLoader Loader

// OnLoad runs the process-wide load hook. Embedding layers call it once
// before exposing the kernels; later calls are no-ops.
func OnLoad(logger logging.Logger) bool {
	return processLoader.Load(logger)
}
