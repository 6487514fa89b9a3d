package kernels

// PrimeCounter returns the number of primes in [2, limit] using a sieve of
// Eratosthenes. Limits below 2 return 0 without allocating.
//
// The candidate square and the strike counter are kept in uint64 so that
// limits close to MaxUint32 cannot overflow the loop bounds.
func PrimeCounter(limit uint32) uint32 {
	if limit < 2 {
		return 0
	}

	sieve := newSieve(limit)
	lim := uint64(limit)
	for p := uint64(2); p*p <= lim; p++ {
		if !sieve[p] {
			continue
		}
		for m := p * p; m <= lim; m += p {
			sieve[m] = false
		}
	}

	var count uint32
	for _, isPrime := range sieve {
		if isPrime {
			count++
		}
	}
	return count
}

// newSieve allocates limit+1 flags, all true except 0 and 1.
func newSieve(limit uint32) []bool {
	sieve := make([]bool, uint64(limit)+1)
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	return sieve
}
