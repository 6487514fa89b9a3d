package main

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/agbru/numkernels/internal/kernels"
)

// TestFibBig tests the oracle Fibonacci function with known values.
func TestFibBig(t *testing.T) {
	tests := []struct {
		name     string
		n        uint64
		expected string
	}{
		{"F(0) base case", 0, "0"},
		{"F(1) base case", 1, "1"},
		{"F(2) first non-trivial", 2, "1"},
		{"F(3)", 3, "2"},
		{"F(4)", 4, "3"},
		{"F(5)", 5, "5"},
		{"F(10)", 10, "55"},
		{"F(20)", 20, "6765"},
		{"F(50)", 50, "12586269025"},
		{"F(92)", 92, "7540113804746346429"},
		{"F(93) largest in uint64", 93, "12200160415121876738"},
		{"F(94) exceeds uint64", 94, "19740274219868223167"},
		{"F(100)", 100, "354224848179261915075"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := fibBig(tt.n)
			if result.String() != tt.expected {
				t.Errorf("fibBig(%d) = %s, want %s", tt.n, result.String(), tt.expected)
			}
		})
	}
}

// TestFibBig_Properties tests mathematical properties of Fibonacci numbers.
func TestFibBig_Properties(t *testing.T) {
	t.Run("F(n) + F(n+1) = F(n+2)", func(t *testing.T) {
		for n := uint64(0); n < 50; n++ {
			fn := fibBig(n)
			fn1 := fibBig(n + 1)
			fn2 := fibBig(n + 2)

			sum := new(big.Int).Add(fn, fn1)
			if sum.Cmp(fn2) != 0 {
				t.Errorf("F(%d) + F(%d) = %s, but F(%d) = %s",
					n, n+1, sum.String(), n+2, fn2.String())
			}
		}
	})

	t.Run("F(n) is monotonically increasing for n >= 1", func(t *testing.T) {
		prev := fibBig(1)
		for n := uint64(2); n <= 100; n++ {
			curr := fibBig(n)
			if curr.Cmp(prev) < 0 {
				t.Errorf("F(%d) = %s < F(%d) = %s, should be increasing",
					n, curr.String(), n-1, prev.String())
			}
			prev = curr
		}
	})
}

// TestFibBig_LargeValues tests larger Fibonacci numbers.
func TestFibBig_LargeValues(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large value tests in short mode")
	}

	tests := []struct {
		name     string
		n        uint64
		expected string
	}{
		{
			"F(1000)",
			1000,
			"43466557686937456435688527675040625802564660517371780402481729089536555417949051890403879840079255169295922593080322634775209689623239873322471161642996440906533187938298969649928516003704476137795166849228875",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := fibBig(tt.n)
			if result.String() != tt.expected {
				t.Errorf("fibBig(%d) result mismatch\ngot:  %s\nwant: %s",
					tt.n, result.String(), tt.expected)
			}
		})
	}
}

// TestBuildCases checks the reduced and exact forms agree and every op is
// covered.
func TestBuildCases(t *testing.T) {
	seen := make(map[kernels.Op]int)
	for _, c := range buildCases() {
		seen[c.Op]++
		if len(c.Args) != c.Op.Arity() {
			t.Errorf("%s has %d args, want %d", c.Op, len(c.Args), c.Op.Arity())
		}
		if c.Exact == "" {
			continue
		}
		exact, ok := new(big.Int).SetString(c.Exact, 10)
		if !ok {
			t.Fatalf("%s%v: bad exact value %q", c.Op, c.Args, c.Exact)
		}
		if got := exact.Mod(exact, mod64).String(); got != c.Value {
			t.Errorf("%s%v: exact mod 2^64 = %s, value = %s", c.Op, c.Args, got, c.Value)
		}
	}
	for _, op := range kernels.Ops() {
		if seen[op] == 0 {
			t.Errorf("no golden cases for %s", op)
		}
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "golden.json")
	want := GoldenFile{Cases: []GoldenCase{fibCase(94)}}
	if err := write(path, want); err != nil {
		t.Fatalf("write error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got GoldenFile
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Cases) != 1 || got.Cases[0].Value != "1293530146158671551" {
		t.Errorf("round trip = %+v", got)
	}
}
