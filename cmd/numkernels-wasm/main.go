//go:build wasip1

// Command numkernels-wasm exports the kernels from a WebAssembly module.
//
// Build as a reactor so the host can call the exports after instantiation:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o numkernels.wasm ./cmd/numkernels-wasm
package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/logging"
)

var module *kernels.Module

func init() {
	logger := logging.NewZerologAdapter(zerolog.New(os.Stderr).With().Timestamp().Logger())
	module = kernels.New(kernels.WithLogger(logger))
	kernels.OnLoad(logger)
}

//go:wasmexport fibonacci
func fibonacci(n uint32) uint64 {
	return module.FibonacciSequence(n)
}

//go:wasmexport fibonacci_sum
func fibonacciSum(a, b uint32) uint64 {
	return module.FibonacciSum(a, b)
}

//go:wasmexport prime_count
func primeCount(limit uint32) uint32 {
	return module.PrimeCounter(limit)
}

//go:wasmexport matrix_multiply_sum
func matrixMultiplySum(size uint32) float64 {
	return module.MatrixProduct(size)
}

func main() {}
