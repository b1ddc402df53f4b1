package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearSpecimenForce(t *testing.T) {
	k := mat.NewDense(2, 2, []float64{10, 1, 1, 20})
	m := mat.NewDense(2, 2, []float64{2, 0, 0, 3})
	c := mat.NewDense(2, 2, []float64{0.1, 0, 0, 0.2})

	spec, err := NewLinearSpecimen(k, m, c)
	require.NoError(t, err)
	require.Equal(t, 2, spec.BasicDOF())

	spec.SetTrial([]float64{1, 2}, []float64{3, 4}, []float64{5, 6}, 0.5)

	f := make([]float64, 2)
	spec.Force(f)

	// F = K d + C v + M a
	assert.InDelta(t, 10*1+1*2+0.1*3+2*5, f[0], 1e-12)
	assert.InDelta(t, 1*1+20*2+0.2*4+3*6, f[1], 1e-12)
}

func TestLinearSpecimenMatrices(t *testing.T) {
	spec, err := NewDiagonalSpecimen([]float64{100, 200}, []float64{1, 2}, []float64{0.5, 0.6})
	require.NoError(t, err)

	dst := make([]float64, 4)

	spec.TangentStiff(dst)
	assert.Equal(t, []float64{100, 0, 0, 200}, dst)

	spec.InitialStiff(dst)
	assert.Equal(t, []float64{100, 0, 0, 200}, dst)

	spec.Mass(dst)
	assert.Equal(t, []float64{1, 0, 0, 2}, dst)

	spec.Damp(dst)
	assert.Equal(t, []float64{0.5, 0, 0, 0.6}, dst)
}

func TestLinearSpecimenDimensionChecks(t *testing.T) {
	k := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	sq := mat.NewDense(2, 2, nil)
	_, err := NewLinearSpecimen(k, sq, sq)
	assert.Error(t, err)

	k2 := mat.NewDense(2, 2, nil)
	m3 := mat.NewDense(3, 3, nil)
	_, err = NewLinearSpecimen(k2, m3, sq)
	assert.Error(t, err)

	_, err = NewDiagonalSpecimen([]float64{1, 2}, []float64{1}, []float64{1, 2})
	assert.Error(t, err)
}
