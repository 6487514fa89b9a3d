package reference

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MatrixProduct builds A[i][j] = i+j and B[i][j] = i·j+1 as gonum dense
// matrices, multiplies them and returns the sum of every entry of A·B.
func MatrixProduct(size uint32) float64 {
	if size == 0 {
		return 0
	}
	n := int(size)
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, float64(i+j))
			b.Set(i, j, float64(i*j+1))
		}
	}
	var c mat.Dense
	c.Mul(a, b)
	return floats.Sum(c.RawMatrix().Data)
}
