package reference

import (
	"fmt"
	"math/big"
	"math/bits"
)

var mod64 = new(big.Int).Lsh(big.NewInt(1), 64)

// FastDoublingMod computes F(n) mod m using the fast doubling identities:
//
//	F(2k)   = F(k) * (2*F(k+1) - F(k))  mod m
//	F(2k+1) = F(k+1)² + F(k)²            mod m
//
// Memory usage is O(log m) regardless of n.
func FastDoublingMod(n uint64, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, fmt.Errorf("modulus must be positive")
	}
	if n == 0 {
		return big.NewInt(0), nil
	}

	fk := big.NewInt(0)
	fk1 := big.NewInt(1)
	t1 := new(big.Int)
	t2 := new(big.Int)

	for i := bits.Len64(n) - 1; i >= 0; i-- {
		// Mod on big.Int is Euclidean, so t1 is never negative here.
		t1.Lsh(fk1, 1)
		t1.Sub(t1, fk)
		t1.Mod(t1, m)
		t1.Mul(t1, fk)
		t1.Mod(t1, m)

		t2.Mul(fk1, fk1)
		fk.Mul(fk, fk)
		t2.Add(t2, fk)
		t2.Mod(t2, m)

		fk.Set(t1)
		fk1.Set(t2)

		if (n>>uint(i))&1 == 1 {
			t1.Add(fk, fk1)
			t1.Mod(t1, m)
			fk.Set(fk1)
			fk1.Set(t1)
		}
	}
	return fk, nil
}

// FibonacciMod64 returns F(n) mod 2^64, the value the wrapping kernel is
// expected to produce.
func FibonacciMod64(n uint32) uint64 {
	r, _ := FastDoublingMod(uint64(n), mod64)
	return r.Uint64()
}

// FibonacciSumMod64 returns (F(a) + F(b)) mod 2^64.
func FibonacciSumMod64(a, b uint32) uint64 {
	return FibonacciMod64(a) + FibonacciMod64(b)
}
