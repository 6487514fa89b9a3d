package kernels

// MatrixProduct builds the size×size matrices A[i][j] = i+j and
// B[i][j] = i*j+1, multiplies them with the textbook triple loop and returns
// the sum of every entry of C = A·B. A size of 0 yields 0.
//
// Cost is O(size³) time and O(size²) memory; callers facing untrusted input
// must bound size themselves.
func MatrixProduct(size uint32) float64 {
	n := int(size)
	a := newGrid(n)
	b := newGrid(n)
	c := newGrid(n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a[i][j] = float64(i + j)
			b[i][j] = float64(i*j + 1)
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				c[i][j] += a[i][k] * b[k][j]
			}
		}
	}

	var sum float64
	for _, row := range c {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// newGrid returns an n×n zero matrix backed by a single allocation.
func newGrid(n int) [][]float64 {
	backing := make([]float64, n*n)
	grid := make([][]float64, n)
	for i := range grid {
		grid[i] = backing[i*n : (i+1)*n : (i+1)*n]
	}
	return grid
}
