package lodcm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
	"github.com/jortiz-slac/pcdsdevices/pkg/motor"
	"github.com/jortiz-slac/pcdsdevices/pkg/xray"
)

// Energy errors.
var (
	// ErrReflectionMismatch is returned when a checked reflection differs
	// between the two towers.
	ErrReflectionMismatch = errors.New("tower reflections do not match")

	// ErrIndeterminateMaterial is returned by moves that need a material
	// while the towers disagree or sit in Unknown states.
	ErrIndeterminateMaterial = errors.New("crystal material is indeterminate")
)

// Offsets holds the calibration offsets of the Bragg angle pseudo motors,
// keyed by motor attribute name (th1_c, th2_c, th1_si, th2_si).
type Offsets map[string]float64

// Energy is the energy calculation assembly of the two towers.
type Energy struct {
	*model.Device

	Tower1 *FirstTower
	Tower2 *SecondTower

	Th1C  *motor.OffsetMotor
	Th2C  *motor.OffsetMotor
	Z1C   *motor.Motor
	Z2C   *motor.Motor
	Th1Si *motor.OffsetMotor
	Th2Si *motor.OffsetMotor
	Z1Si  *motor.Motor
	Z2Si  *motor.Motor

	energy *model.Signal
}

// NewEnergy creates a standalone energy assembly with its own towers.
func NewEnergy(prefix, name string, offsets Offsets, opts ...motor.Option) *Energy {
	t1 := NewFirstTower(prefix, name+"_tower1")
	t2 := NewSecondTower(prefix, name+"_tower2")
	e := newEnergy(prefix, name, t1, t2, offsets, opts...)
	e.MustAdd("tower1", t1)
	e.MustAdd("tower2", t2)
	return e
}

// newEnergy builds the assembly around existing towers without taking
// ownership of them.
func newEnergy(prefix, name string, t1 *FirstTower, t2 *SecondTower, offsets Offsets, opts ...motor.Option) *Energy {
	e := &Energy{
		Device: model.NewDevice(prefix, name),
		Tower1: t1,
		Tower2: t2,
	}

	degrees := append([]motor.Option{motor.WithUnits("deg")}, opts...)
	mm := append([]motor.Option{motor.WithUnits("mm")}, opts...)

	e.Th1C = motor.NewOffsetMotor(prefix+":TH1C", name+"_th1_c", offsets["th1_c"], degrees...)
	e.Th2C = motor.NewOffsetMotor(prefix+":TH2C", name+"_th2_c", offsets["th2_c"], degrees...)
	e.Z1C = motor.New(prefix+":Z1C", name+"_z1_c", mm...)
	e.Z2C = motor.New(prefix+":Z2C", name+"_z2_c", mm...)
	e.Th1Si = motor.NewOffsetMotor(prefix+":TH1SI", name+"_th1_si", offsets["th1_si"], degrees...)
	e.Th2Si = motor.NewOffsetMotor(prefix+":TH2SI", name+"_th2_si", offsets["th2_si"], degrees...)
	e.Z1Si = motor.New(prefix+":Z1SI", name+"_z1_si", mm...)
	e.Z2Si = motor.New(prefix+":Z2SI", name+"_z2_si", mm...)

	e.energy = model.NewSignal(&model.SignalMetadata{
		Name:        "energy",
		PV:          prefix + ":ENERGY",
		Type:        model.DataTypeFloat,
		Access:      model.AccessReadOnly,
		Default:     0.0,
		Units:       "keV",
		Description: "Photon energy selected by the th1 angle",
	})
	e.energy.SetReadHook(func() (any, bool) { return e.GetEnergy(), true })

	// Keep the stored value current so subscribers see th1 changes.
	refresh := model.SubscriberFunc(func(*model.Signal, any, any) {
		_ = e.energy.SimPut(e.GetEnergy())
	})
	e.Th1C.Motor().Readback().Subscribe(refresh)
	e.Th1Si.Motor().Readback().Subscribe(refresh)

	e.MustAdd("th1_c", e.Th1C)
	e.MustAdd("th2_c", e.Th2C)
	e.MustAdd("z1_c", e.Z1C)
	e.MustAdd("z2_c", e.Z2C)
	e.MustAdd("th1_si", e.Th1Si)
	e.MustAdd("th2_si", e.Th2Si)
	e.MustAdd("z1_si", e.Z1Si)
	e.MustAdd("z2_si", e.Z2Si)
	e.MustAdd("energy", e.energy)
	return e
}

// Material returns the material both towers agree on, or MaterialUnknown.
func (e *Energy) Material() xray.Material {
	m1 := e.Tower1.Material()
	if m1 == xray.MaterialUnknown || m1 != e.Tower2.Material() {
		return xray.MaterialUnknown
	}
	return m1
}

// Reflection returns tower 1's reflection for the assembly material. With
// check set, tower 2 must carry the same reflection.
func (e *Energy) Reflection(check bool) (xray.Reflection, error) {
	m := e.Material()
	r1 := e.Tower1.ReflectionFor(m)
	if check {
		if r2 := e.Tower2.ReflectionFor(m); r1 != r2 {
			err := fmt.Errorf("%w: %s tower1 %s, tower2 %s", ErrReflectionMismatch, m, r1, r2)
			e.LogError(err, "reflection")
			return xray.Reflection{}, err
		}
	}
	return r1, nil
}

// CalcEnergy returns the Bragg angle th in degrees and the crystal
// separation z in mm for photon energy in eV. Indeterminate material or
// energies the reflection cannot reach give zeros.
func (e *Energy) CalcEnergy(energy float64) (th, z float64, err error) {
	ref, err := e.Reflection(true)
	if err != nil {
		return 0, 0, err
	}
	th, z, err = xray.Geometry(e.Material(), ref, energy)
	if err != nil {
		e.Logger().Debug("energy out of reach", "energy", energy, "err", err)
		return 0, 0, nil
	}
	return th, z, nil
}

// GetEnergy returns the photon energy in keV selected by the current th1
// pseudo motor position, or 0 when the material is indeterminate.
func (e *Energy) GetEnergy() float64 {
	m := e.Material()
	th1 := e.th1(m)
	if th1 == nil {
		return 0
	}
	ref, _ := e.Reflection(false)
	ev, err := xray.BraggEnergy(m, ref, th1.Position())
	if err != nil {
		return 0
	}
	return ev / 1000
}

// Position returns the energy signal value in keV.
func (e *Energy) Position() float64 {
	v, _ := e.energy.Float()
	return v
}

// EnergyPosition returns the read-only energy pseudo signal in keV.
func (e *Energy) EnergyPosition() *model.Signal {
	return e.energy
}

// MoveEnergy moves the angle and separation motors of the active material
// to select photon energy in eV.
func (e *Energy) MoveEnergy(ctx context.Context, energy float64, opts model.MoveOptions) (*model.Status, error) {
	m := e.Material()
	if m == xray.MaterialUnknown {
		e.LogError(ErrIndeterminateMaterial, "move energy")
		return nil, ErrIndeterminateMaterial
	}
	ref, err := e.Reflection(true)
	if err != nil {
		return nil, err
	}
	th, z, err := xray.Geometry(m, ref, energy)
	if err != nil {
		e.LogError(err, "move energy")
		return nil, err
	}

	th1, th2 := e.th1(m), e.th2(m)
	z1, z2 := e.z(m)
	e.Logger().Info("moving energy", "energy", energy, "material", m, "th", th, "z", z)

	// Reject the whole move before any motor starts.
	for _, err := range []error{
		th1.CheckValue(th),
		th2.CheckValue(th),
		z1.CheckValue(-z),
		z2.CheckValue(z),
	} {
		if err != nil {
			e.LogError(err, "move energy")
			return nil, err
		}
	}

	var statuses []*model.Status
	for _, mv := range []func() (*model.Status, error){
		func() (*model.Status, error) { return th1.Move(ctx, th, model.MoveOptions{}) },
		func() (*model.Status, error) { return th2.Move(ctx, th, model.MoveOptions{}) },
		func() (*model.Status, error) { return z1.Move(ctx, -z, model.MoveOptions{}) },
		func() (*model.Status, error) { return z2.Move(ctx, z, model.MoveOptions{}) },
	} {
		st, err := mv()
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return model.Complete(ctx, model.AndStatus(e, statuses...), opts)
}

func (e *Energy) th1(m xray.Material) *motor.OffsetMotor {
	switch m {
	case xray.MaterialDiamond:
		return e.Th1C
	case xray.MaterialSilicon:
		return e.Th1Si
	}
	return nil
}

func (e *Energy) th2(m xray.Material) *motor.OffsetMotor {
	switch m {
	case xray.MaterialDiamond:
		return e.Th2C
	case xray.MaterialSilicon:
		return e.Th2Si
	}
	return nil
}

func (e *Energy) z(m xray.Material) (z1, z2 *motor.Motor) {
	switch m {
	case xray.MaterialDiamond:
		return e.Z1C, e.Z2C
	case xray.MaterialSilicon:
		return e.Z1Si, e.Z2Si
	}
	return nil, nil
}
