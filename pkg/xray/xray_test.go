package xray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func TestDSpaceCubic(t *testing.T) {
	tests := []struct {
		name string
		m    Material
		r    Reflection
		want float64
	}{
		{"C111", MaterialDiamond, Reflection{1, 1, 1}, 3.567 / math.Sqrt(3)},
		{"C220", MaterialDiamond, Reflection{2, 2, 0}, 3.567 / math.Sqrt(8)},
		{"Si111", MaterialSilicon, Reflection{1, 1, 1}, 5.4310205 / math.Sqrt(3)},
		{"Si400", MaterialSilicon, Reflection{4, 0, 0}, 5.4310205 / 4},
		{"NegativeIndices", MaterialSilicon, Reflection{-1, 1, -1}, 5.4310205 / math.Sqrt(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DSpace(tt.m, tt.r)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tol)
		})
	}
}

func TestDSpaceHexagonal(t *testing.T) {
	// For a hexagonal cell 1/d² = 4/3 (h²+hk+k²)/a² + l²/c².
	l := Lattice{A: 2.46, B: 2.46, C: 6.71, Alpha: 90, Beta: 90, Gamma: 120}
	r := Reflection{1, 0, 2}
	want := 1 / math.Sqrt(4.0/3.0*1/(2.46*2.46)+4/(6.71*6.71))

	got, err := l.DSpacing(r)
	require.NoError(t, err)
	assert.InDelta(t, want, got, tol)
}

func TestDSpaceErrors(t *testing.T) {
	_, err := DSpace(MaterialUnknown, Reflection{1, 1, 1})
	assert.ErrorIs(t, err, ErrUnknownMaterial)

	_, err = DSpace(MaterialSilicon, Reflection{})
	assert.ErrorIs(t, err, ErrInvalidReflection)

	_, err = Lattice{}.DSpacing(Reflection{1, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidLattice)
}

func TestWavelengthEnergy(t *testing.T) {
	assert.InDelta(t, 1.23984, EnergyToWavelength(10e3), tol)
	assert.InDelta(t, 10e3, WavelengthToEnergy(1.23984), 1e-6)
}

func TestGeometryReferenceValues(t *testing.T) {
	th, z, err := Geometry(MaterialDiamond, Reflection{1, 1, 1}, 10e3)
	require.NoError(t, err)
	assert.True(t, scalar.EqualWithinAbsOrRel(th, 17.51878596767417, tol, tol), "th=%v", th)
	assert.True(t, scalar.EqualWithinAbsOrRel(z, 427.8469911590626, tol, tol), "z=%v", z)

	th, z, err = Geometry(MaterialSilicon, Reflection{1, 1, 1}, 10e3)
	require.NoError(t, err)
	assert.InDelta(t, 11.402710639982848, th, tol)
	assert.InDelta(t, 713.4828146545175, z, tol)
}

func TestBraggEnergyInvertsBraggAngle(t *testing.T) {
	for _, m := range []Material{MaterialDiamond, MaterialSilicon} {
		for _, e := range []float64{4e3, 8.333e3, 10e3, 17.5e3} {
			th, err := BraggAngle(m, Reflection{1, 1, 1}, e)
			require.NoError(t, err)
			got, err := BraggEnergy(m, Reflection{1, 1, 1}, th)
			require.NoError(t, err)
			assert.InDelta(t, e, got, 1e-6, "%s at %v eV", m, e)
		}
	}
}

func TestBraggEnergyReferenceValues(t *testing.T) {
	e, err := BraggEnergy(MaterialDiamond, Reflection{1, 1, 1}, 77)
	require.NoError(t, err)
	assert.InDelta(t, 3.089365078593997, e/1000, tol)

	e, err = BraggEnergy(MaterialSilicon, Reflection{1, 1, 1}, 77)
	require.NoError(t, err)
	assert.InDelta(t, 2.029041362547755, e/1000, tol)
}

func TestBraggAngleErrors(t *testing.T) {
	_, err := BraggAngle(MaterialSilicon, Reflection{1, 1, 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidEnergy)

	_, err = BraggAngle(MaterialSilicon, Reflection{1, 1, 1}, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidEnergy)

	// 1 keV needs d > 6.2 Å, well beyond Si(111).
	_, err = BraggAngle(MaterialSilicon, Reflection{1, 1, 1}, 1e3)
	assert.ErrorIs(t, err, ErrNoDiffraction)
}

func TestBraggEnergyDegenerateAngles(t *testing.T) {
	for _, theta := range []float64{0, -5, 180, math.NaN()} {
		e, err := BraggEnergy(MaterialDiamond, Reflection{1, 1, 1}, theta)
		assert.ErrorIs(t, err, ErrNoDiffraction, "theta %v", theta)
		assert.Zero(t, e, "theta %v", theta)
	}
}

func TestReflectionFormatting(t *testing.T) {
	r := Reflection{2, 2, 0}
	assert.Equal(t, "(2, 2, 0)", r.String())
	assert.Equal(t, [3]int{2, 2, 0}, r.Tuple())
	assert.False(t, r.IsZero())
	assert.True(t, Reflection{}.IsZero())
}
