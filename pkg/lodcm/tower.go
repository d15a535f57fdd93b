package lodcm

import (
	"github.com/jortiz-slac/pcdsdevices/pkg/model"
	"github.com/jortiz-slac/pcdsdevices/pkg/positioner"
	"github.com/jortiz-slac/pcdsdevices/pkg/xray"
)

// Tower is a crystal tower of the monochromator.
type Tower interface {
	model.Component

	// IsDiamond reports whether every crystal stage selects diamond.
	IsDiamond() bool

	// IsSilicon reports whether every crystal stage selects silicon.
	IsSilicon() bool

	// Material returns the selected material, or MaterialUnknown.
	Material() xray.Material

	// ReflectionFor returns the configured reflection of material m.
	ReflectionFor(m xray.Material) xray.Reflection

	// Reflection returns the reflection of the selected material.
	Reflection() xray.Reflection
}

// crystals holds the two reflection signals every tower carries.
type crystals struct {
	DiamondReflection *model.Signal
	SiliconReflection *model.Signal
}

func newCrystals(d *model.Device, prefix string) crystals {
	c := crystals{
		DiamondReflection: model.NewSignal(&model.SignalMetadata{
			Name:        "diamond_reflection",
			PV:          prefix + ":C:REF",
			Type:        model.DataTypeArray,
			Access:      model.AccessReadWrite,
			Default:     xray.Reflection{},
			Description: "Miller indices of the diamond crystal",
		}),
		SiliconReflection: model.NewSignal(&model.SignalMetadata{
			Name:        "silicon_reflection",
			PV:          prefix + ":SI:REF",
			Type:        model.DataTypeArray,
			Access:      model.AccessReadWrite,
			Default:     xray.Reflection{},
			Description: "Miller indices of the silicon crystal",
		}),
	}
	d.MustAdd("diamond_reflection", c.DiamondReflection)
	d.MustAdd("silicon_reflection", c.SiliconReflection)
	return c
}

// ReflectionFor returns the configured reflection of material m. Unknown
// materials and unset signals give the zero reflection.
func (c crystals) ReflectionFor(m xray.Material) xray.Reflection {
	var sig *model.Signal
	switch m {
	case xray.MaterialDiamond:
		sig = c.DiamondReflection
	case xray.MaterialSilicon:
		sig = c.SiliconReflection
	default:
		return xray.Reflection{}
	}
	r, _ := sig.Get().(xray.Reflection)
	return r
}

// FirstTower is crystal tower 1. Its horizontal stage h1n decides whether
// the first crystal intercepts the beam at all.
type FirstTower struct {
	*model.Device
	crystals

	H1N  *positioner.StatePositioner
	Y1   *positioner.StatePositioner
	Chi1 *positioner.StatePositioner
}

// NewFirstTower creates tower 1.
func NewFirstTower(prefix, name string) *FirstTower {
	t := &FirstTower{
		Device: model.NewDevice(prefix, name),
		H1N:    positioner.New(prefix+":H1N", name+"_h1n_state", H1N),
		Y1:     positioner.New(prefix+":Y1", name+"_y1_state", Y1),
		Chi1:   positioner.New(prefix+":CHI1", name+"_chi1_state", CHI1),
	}
	t.MustAdd("h1n_state", t.H1N)
	t.MustAdd("y1_state", t.Y1)
	t.MustAdd("chi1_state", t.Chi1)
	t.crystals = newCrystals(t.Device, prefix+":T1")
	return t
}

// IsDiamond reports y1=C, chi1=C and h1n in {C, OUT}.
func (t *FirstTower) IsDiamond() bool {
	return t.is(xray.MaterialDiamond)
}

// IsSilicon reports y1=Si, chi1=Si and h1n in {Si, OUT}.
func (t *FirstTower) IsSilicon() bool {
	return t.is(xray.MaterialSilicon)
}

func (t *FirstTower) is(m xray.Material) bool {
	want := m.String()
	h1n := t.H1N.Position()
	return t.Y1.Position() == want &&
		t.Chi1.Position() == want &&
		(h1n == want || h1n == "OUT")
}

// Material returns the material tower 1 is set up for.
func (t *FirstTower) Material() xray.Material {
	return material(t)
}

// Reflection returns the reflection of the selected material.
func (t *FirstTower) Reflection() xray.Reflection {
	return t.ReflectionFor(t.Material())
}

// SecondTower is crystal tower 2.
type SecondTower struct {
	*model.Device
	crystals

	Y2   *positioner.StatePositioner
	Chi2 *positioner.StatePositioner
	H2N  *positioner.StatePositioner
}

// NewSecondTower creates tower 2.
func NewSecondTower(prefix, name string) *SecondTower {
	t := &SecondTower{
		Device: model.NewDevice(prefix, name),
		Y2:     positioner.New(prefix+":Y2", name+"_y2_state", Y2),
		Chi2:   positioner.New(prefix+":CHI2", name+"_chi2_state", CHI2),
		H2N:    positioner.New(prefix+":H2N", name+"_h2n_state", H2N),
	}
	t.MustAdd("y2_state", t.Y2)
	t.MustAdd("chi2_state", t.Chi2)
	t.MustAdd("h2n_state", t.H2N)
	t.crystals = newCrystals(t.Device, prefix+":T2")
	return t
}

// IsDiamond reports y2, chi2 and h2n all at C.
func (t *SecondTower) IsDiamond() bool {
	return t.is(xray.MaterialDiamond)
}

// IsSilicon reports y2, chi2 and h2n all at Si.
func (t *SecondTower) IsSilicon() bool {
	return t.is(xray.MaterialSilicon)
}

func (t *SecondTower) is(m xray.Material) bool {
	want := m.String()
	return t.Y2.Position() == want &&
		t.Chi2.Position() == want &&
		t.H2N.Position() == want
}

// Material returns the material tower 2 is set up for.
func (t *SecondTower) Material() xray.Material {
	return material(t)
}

// Reflection returns the reflection of the selected material.
func (t *SecondTower) Reflection() xray.Reflection {
	return t.ReflectionFor(t.Material())
}

func material(t interface {
	IsDiamond() bool
	IsSilicon() bool
}) xray.Material {
	switch {
	case t.IsDiamond():
		return xray.MaterialDiamond
	case t.IsSilicon():
		return xray.MaterialSilicon
	default:
		return xray.MaterialUnknown
	}
}

var (
	_ Tower = (*FirstTower)(nil)
	_ Tower = (*SecondTower)(nil)
)
