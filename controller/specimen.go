package controller

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Specimen is the mechanical model a controller serves to a proxy element.
// All vectors and matrices are in the specimen's basic space; matrices are
// written row-major.
type Specimen interface {
	// BasicDOF returns the basic-space size.
	BasicDOF() int

	// SetTrial stores the prescribed trial state.
	SetTrial(disp, vel, accel []float64, t float64)

	// Commit freezes the trial state as the new reference state.
	Commit()

	// Force writes the resisting force into dst, length BasicDOF.
	Force(dst []float64)

	// TangentStiff writes the tangent stiffness into dst, row-major,
	// length BasicDOF².
	TangentStiff(dst []float64)

	// InitialStiff writes the initial stiffness into dst.
	InitialStiff(dst []float64)

	// Damp writes the damping matrix into dst.
	Damp(dst []float64)

	// Mass writes the mass matrix into dst.
	Mass(dst []float64)
}

// LinearSpecimen is a linear elastic specimen: F = K·d + C·v + M·a with
// constant matrices. Its tangent and initial stiffness coincide.
type LinearSpecimen struct {
	n       int
	k, m, c *mat.Dense

	d, v, a []float64
	t       float64

	cd, cv, ca []float64
}

// NewLinearSpecimen creates a specimen from square stiffness, mass and
// damping matrices of equal size.
func NewLinearSpecimen(k, m, c *mat.Dense) (*LinearSpecimen, error) {
	n, cols := k.Dims()
	if n != cols {
		return nil, errors.Errorf("stiffness matrix is %dx%d, want square", n, cols)
	}
	for _, mtx := range []*mat.Dense{m, c} {
		r, cc := mtx.Dims()
		if r != n || cc != n {
			return nil, errors.Errorf("matrix is %dx%d, want %dx%d", r, cc, n, n)
		}
	}
	return &LinearSpecimen{
		n:  n,
		k:  k,
		m:  m,
		c:  c,
		d:  make([]float64, n),
		v:  make([]float64, n),
		a:  make([]float64, n),
		cd: make([]float64, n),
		cv: make([]float64, n),
		ca: make([]float64, n),
	}, nil
}

// NewDiagonalSpecimen builds a LinearSpecimen with diagonal stiffness,
// mass and damping, one entry per basic DOF.
func NewDiagonalSpecimen(stiff, massv, dampv []float64) (*LinearSpecimen, error) {
	n := len(stiff)
	if len(massv) != n || len(dampv) != n {
		return nil, errors.New("diagonal specimen needs equal-length stiffness, mass and damping")
	}
	k := mat.NewDense(n, n, nil)
	m := mat.NewDense(n, n, nil)
	c := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		k.Set(i, i, stiff[i])
		m.Set(i, i, massv[i])
		c.Set(i, i, dampv[i])
	}
	return NewLinearSpecimen(k, m, c)
}

func (s *LinearSpecimen) BasicDOF() int { return s.n }

func (s *LinearSpecimen) SetTrial(disp, vel, accel []float64, t float64) {
	copy(s.d, disp)
	copy(s.v, vel)
	copy(s.a, accel)
	s.t = t
}

func (s *LinearSpecimen) Commit() {
	copy(s.cd, s.d)
	copy(s.cv, s.v)
	copy(s.ca, s.a)
}

func (s *LinearSpecimen) Force(dst []float64) {
	var f, tmp mat.VecDense
	f.MulVec(s.k, mat.NewVecDense(s.n, s.d))
	tmp.MulVec(s.c, mat.NewVecDense(s.n, s.v))
	f.AddVec(&f, &tmp)
	tmp.MulVec(s.m, mat.NewVecDense(s.n, s.a))
	f.AddVec(&f, &tmp)
	for i := 0; i < s.n; i++ {
		dst[i] = f.AtVec(i)
	}
}

func (s *LinearSpecimen) writeMatrix(dst []float64, m *mat.Dense) {
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			dst[i*s.n+j] = m.At(i, j)
		}
	}
}

func (s *LinearSpecimen) TangentStiff(dst []float64) { s.writeMatrix(dst, s.k) }

func (s *LinearSpecimen) InitialStiff(dst []float64) { s.writeMatrix(dst, s.k) }

func (s *LinearSpecimen) Damp(dst []float64) { s.writeMatrix(dst, s.c) }

func (s *LinearSpecimen) Mass(dst []float64) { s.writeMatrix(dst, s.m) }
