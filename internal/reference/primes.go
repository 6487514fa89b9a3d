package reference

// isPrime tests primality by trial division over 6k±1 candidates.
func isPrime(n uint64) bool {
	switch {
	case n < 2:
		return false
	case n < 4:
		return true
	case n%2 == 0 || n%3 == 0:
		return false
	}
	for d := uint64(5); d*d <= n; d += 6 {
		if n%d == 0 || n%(d+2) == 0 {
			return false
		}
	}
	return true
}

// PrimeCountTrialDivision counts primes ≤ limit one candidate at a time.
// It runs in O(limit·√limit) and is only meant for cross-checking.
func PrimeCountTrialDivision(limit uint32) uint32 {
	var count uint32
	for n := uint64(2); n <= uint64(limit); n++ {
		if isPrime(n) {
			count++
		}
	}
	return count
}
