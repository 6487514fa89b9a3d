package kernels

import (
	"math"
	"sync"
	"testing"
)

func TestFibonacciSequence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    uint32
		want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{10, 55},
		{20, 6765},
		{50, 12586269025},
		{93, 12200160415121876738},
		// F(94) = 19740274219868223167 wraps past 2^64.
		{94, 1293530146158671551},
	}
	for _, tt := range tests {
		if got := FibonacciSequence(tt.n); got != tt.want {
			t.Errorf("FibonacciSequence(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestFibonacciSum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b uint32
		want uint64
	}{
		{5, 5, 10},
		{0, 0, 0},
		{10, 20, 55 + 6765},
		{93, 93, 5953576756534201860}, // 2*F(93) wraps past 2^64
	}
	for _, tt := range tests {
		if got := FibonacciSum(tt.a, tt.b); got != tt.want {
			t.Errorf("FibonacciSum(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPrimeCounter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		limit uint32
		want  uint32
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{10, 4},
		{49, 15}, // limit is a perfect square
		{100, 25},
		{1000, 168},
		{10000, 1229},
		{100000, 9592},
		{1000000, 78498},
	}
	for _, tt := range tests {
		if got := PrimeCounter(tt.limit); got != tt.want {
			t.Errorf("PrimeCounter(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestMatrixProduct(t *testing.T) {
	t.Parallel()
	tests := []struct {
		size uint32
		want float64
	}{
		{0, 0},
		{1, 0},  // A=[[0]], B=[[1]]
		{2, 11}, // C=[[1,2],[3,5]]
		{3, 126},
	}
	for _, tt := range tests {
		if got := MatrixProduct(tt.size); got != tt.want {
			t.Errorf("MatrixProduct(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

// matrixSumClosedForm evaluates sum_k colsum(A,k) * rowsum(B,k), which equals
// the sum of all entries of A·B.
func matrixSumClosedForm(n uint32) float64 {
	nf := float64(n)
	s := nf * (nf - 1) / 2
	var total float64
	for k := 0.0; k < nf; k++ {
		total += (s + nf*k) * (k*s + nf)
	}
	return total
}

func TestMatrixProduct_ClosedForm(t *testing.T) {
	t.Parallel()
	for _, n := range []uint32{4, 7, 16, 33, 64} {
		got := MatrixProduct(n)
		want := matrixSumClosedForm(n)
		if math.Abs(got-want) > 1e-9*want {
			t.Errorf("MatrixProduct(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestKernels_Idempotent(t *testing.T) {
	t.Parallel()
	for i := 0; i < 3; i++ {
		if FibonacciSequence(40) != 102334155 {
			t.Fatal("FibonacciSequence drifted across calls")
		}
		if PrimeCounter(500) != 95 {
			t.Fatal("PrimeCounter drifted across calls")
		}
		if MatrixProduct(2) != 11 {
			t.Fatal("MatrixProduct drifted across calls")
		}
	}
}

func TestKernels_ConcurrentCallers(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if PrimeCounter(10000) != 1229 {
				errs <- "PrimeCounter"
			}
			if MatrixProduct(8) != matrixSumClosedForm(8) {
				errs <- "MatrixProduct"
			}
			if FibonacciSum(30, 31) != 832040+1346269 {
				errs <- "FibonacciSum"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for name := range errs {
		t.Errorf("%s returned a wrong result under concurrency", name)
	}
}

func BenchmarkPrimeCounter(b *testing.B) {
	for i := 0; i < b.N; i++ {
		PrimeCounter(1_000_000)
	}
}

func BenchmarkMatrixProduct(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MatrixProduct(64)
	}
}
