package element

import "gonum.org/v1/gonum/mat"

// scatterVector writes src into dst at the index-set positions; all other
// entries are zero.
func scatterVector(dst *mat.VecDense, src []float64, idx []int) {
	dst.Zero()
	for k, p := range idx {
		dst.SetVec(p, src[k])
	}
}

// scatterMatrix writes src into dst at the index-set positions, row and
// column; all other entries are zero.
func scatterMatrix(dst *mat.Dense, src mat.Matrix, idx []int) {
	dst.Zero()
	for i, p := range idx {
		for j, q := range idx {
			dst.Set(p, q, src.At(i, j))
		}
	}
}
