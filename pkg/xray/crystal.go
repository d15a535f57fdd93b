// Package xray provides the crystal diffraction relations used by the
// monochromator: lattice spacing, wavelength/energy conversion and Bragg
// geometry.
package xray

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Material identifies a crystal material by its chemical symbol.
type Material string

const (
	MaterialDiamond Material = "C"
	MaterialSilicon Material = "Si"
	MaterialUnknown Material = "Unknown"
)

// String returns the material symbol.
func (m Material) String() string {
	return string(m)
}

// Valid reports whether the material has lattice parameters.
func (m Material) Valid() bool {
	_, ok := lattices[m]
	return ok
}

// Crystal errors.
var (
	ErrUnknownMaterial   = errors.New("unknown crystal material")
	ErrInvalidReflection = errors.New("invalid reflection")
	ErrInvalidLattice    = errors.New("degenerate lattice parameters")
)

// Reflection is a set of Miller indices (h, k, l).
type Reflection [3]int

// Tuple returns the indices as a plain array.
func (r Reflection) Tuple() [3]int {
	return r
}

// IsZero reports whether all indices are zero.
func (r Reflection) IsZero() bool {
	return r == Reflection{}
}

// String formats the reflection as "(h, k, l)".
func (r Reflection) String() string {
	return fmt.Sprintf("(%d, %d, %d)", r[0], r[1], r[2])
}

// Lattice holds unit cell lengths in angstrom and angles in degrees.
type Lattice struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// Cubic returns a cubic lattice with cell length a.
func Cubic(a float64) Lattice {
	return Lattice{A: a, B: a, C: a, Alpha: 90, Beta: 90, Gamma: 90}
}

var lattices = map[Material]Lattice{
	MaterialDiamond: Cubic(3.567),
	MaterialSilicon: Cubic(5.4310205),
}

// LatticeOf returns the lattice parameters of a material.
func LatticeOf(m Material) (Lattice, error) {
	l, ok := lattices[m]
	if !ok {
		return Lattice{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, string(m))
	}
	return l, nil
}

// metricTensor returns the direct-space metric tensor of the cell.
func (l Lattice) metricTensor() *mat.SymDense {
	ca, cb, cg := cosDeg(l.Alpha), cosDeg(l.Beta), cosDeg(l.Gamma)
	return mat.NewSymDense(3, []float64{
		l.A * l.A, l.A * l.B * cg, l.A * l.C * cb,
		l.A * l.B * cg, l.B * l.B, l.B * l.C * ca,
		l.A * l.C * cb, l.B * l.C * ca, l.C * l.C,
	})
}

// DSpacing returns the interplanar spacing in angstrom for reflection r:
// 1/d² = hᵀ G⁻¹ h, with G the metric tensor.
func (l Lattice) DSpacing(r Reflection) (float64, error) {
	if r.IsZero() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidReflection, r)
	}

	var reciprocal mat.Dense
	if err := reciprocal.Inverse(l.metricTensor()); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLattice, err)
	}

	h := mat.NewVecDense(3, []float64{float64(r[0]), float64(r[1]), float64(r[2])})
	inv := mat.Inner(h, &reciprocal, h)
	if inv <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidLattice, r)
	}
	return 1 / math.Sqrt(inv), nil
}

// DSpace returns the interplanar spacing in angstrom of material m for
// reflection r.
func DSpace(m Material, r Reflection) (float64, error) {
	l, err := LatticeOf(m)
	if err != nil {
		return 0, err
	}
	return l.DSpacing(r)
}

// cosDeg is cos of an angle in degrees, exact for right angles.
func cosDeg(deg float64) float64 {
	if deg == 90 {
		return 0
	}
	return math.Cos(deg * math.Pi / 180)
}
