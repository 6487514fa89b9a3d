// Command generate-golden writes the kernel golden file used by the kernels
// tests. Expected values come from the reference oracles and from an exact
// math/big Fibonacci, never from the kernels under test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/reference"
)

// GoldenFile is the on-disk layout of the golden data.
type GoldenFile struct {
	Cases []GoldenCase `json:"cases"`
}

// GoldenCase is one request with its expected value. Exact carries the
// unreduced Fibonacci value when it differs in meaning from Value.
type GoldenCase struct {
	Op    kernels.Op `json:"op"`
	Args  []uint32   `json:"args"`
	Value string     `json:"value"`
	Exact string     `json:"exact,omitempty"`
}

var mod64 = new(big.Int).Lsh(big.NewInt(1), 64)

// fibBig computes F(n) exactly by iteration.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint64(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

func fibCase(n uint32) GoldenCase {
	exact := fibBig(uint64(n))
	return GoldenCase{
		Op:    kernels.OpFibonacci,
		Args:  []uint32{n},
		Value: new(big.Int).Mod(exact, mod64).String(),
		Exact: exact.String(),
	}
}

func fibSumCase(a, b uint32) GoldenCase {
	exact := new(big.Int).Add(fibBig(uint64(a)), fibBig(uint64(b)))
	return GoldenCase{
		Op:    kernels.OpFibonacciSum,
		Args:  []uint32{a, b},
		Value: new(big.Int).Mod(exact, mod64).String(),
		Exact: exact.String(),
	}
}

// buildCases returns the golden cases in file order.
func buildCases() []GoldenCase {
	var cases []GoldenCase
	for _, n := range []uint32{0, 1, 2, 10, 50, 92, 93, 94, 100, 1000} {
		cases = append(cases, fibCase(n))
	}
	for _, p := range [][2]uint32{{0, 0}, {10, 20}, {5, 5}, {93, 94}, {100, 1000}} {
		cases = append(cases, fibSumCase(p[0], p[1]))
	}
	for _, limit := range []uint32{0, 1, 2, 10, 100, 1000, 10000, 100000, 1000000} {
		cases = append(cases, GoldenCase{
			Op:    kernels.OpPrimeCount,
			Args:  []uint32{limit},
			Value: strconv.FormatUint(uint64(reference.PrimeCountTrialDivision(limit)), 10),
		})
	}
	for _, size := range []uint32{0, 1, 2, 3, 10, 50} {
		cases = append(cases, GoldenCase{
			Op:    kernels.OpMatrixSum,
			Args:  []uint32{size},
			Value: strconv.FormatFloat(reference.MatrixProduct(size), 'f', -1, 64),
		})
	}
	return cases
}

func write(path string, golden GoldenFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(golden, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func main() {
	out := flag.String("o", "internal/kernels/testdata/golden.json", "Output path of the golden file.")
	flag.Parse()

	golden := GoldenFile{Cases: buildCases()}
	if err := write(*out, golden); err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d cases to %s\n", len(golden.Cases), *out)
}
