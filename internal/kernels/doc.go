// Package kernels implements the numeric computations exposed to hosts:
// iterative Fibonacci evaluation, prime counting with a sieve of Eratosthenes,
// and dense matrix multiplication over a deterministic pattern.
//
// Every kernel is pure, synchronous and allocation-local. Calls share no
// mutable state and may run concurrently without synchronization. The only
// side effect is a single log line per call, sent to an injected
// logging.Logger that defaults to a no-op.
//
// Package-level functions (FibonacciSequence, PrimeCounter, ...) never log.
// Hosts that want the observability side-channel build a Module with
// WithLogger and call its methods, or dispatch a Request through
// Module.Invoke.
package kernels
