package kernels

// FibonacciSequence returns F(n) with F(0)=0 and F(1)=1, computed
// iteratively in uint64. Results beyond F(93) wrap modulo 2^64.
func FibonacciSequence(n uint32) uint64 {
	if n <= 1 {
		return uint64(n)
	}

	a, b := uint64(0), uint64(1)
	// uint64 counter: a uint32 one never exceeds n = MaxUint32.
	for i := uint64(2); i <= uint64(n); i++ {
		a, b = b, a+b
	}
	return b
}

// FibonacciSum returns F(a) + F(b) with the same wraparound as
// FibonacciSequence.
func FibonacciSum(a, b uint32) uint64 {
	return FibonacciSequence(a) + FibonacciSequence(b)
}
