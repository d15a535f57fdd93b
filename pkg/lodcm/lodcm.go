package lodcm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
	"github.com/jortiz-slac/pcdsdevices/pkg/motor"
	"github.com/jortiz-slac/pcdsdevices/pkg/positioner"
	"github.com/jortiz-slac/pcdsdevices/pkg/xray"
)

// Default destination names.
const (
	DefaultMainLine = "MAIN"
	DefaultMonoLine = "MONO"
)

// Options configures a LODCM.
type Options struct {
	// MainLine and MonoLine name the two downstream destinations.
	MainLine string
	MonoLine string

	// Offsets are the Bragg angle calibration offsets.
	Offsets Offsets

	// MotorOptions apply to every motor of the energy assembly.
	MotorOptions []motor.Option
}

// LODCM is the Large Offset Dual Crystal Monochromator.
type LODCM struct {
	*model.Device

	Tower1 *FirstTower
	Tower2 *SecondTower
	Energy *Energy

	Yag     *positioner.StatePositioner
	Dectris *positioner.StatePositioner
	Diode   *positioner.StatePositioner
	Foil    *positioner.StatePositioner

	mainLine string
	monoLine string
}

// New creates a LODCM at prefix. Every state element starts Unknown.
func New(prefix, name string, opts Options) *LODCM {
	if opts.MainLine == "" {
		opts.MainLine = DefaultMainLine
	}
	if opts.MonoLine == "" {
		opts.MonoLine = DefaultMonoLine
	}

	l := &LODCM{
		Device:   model.NewDevice(prefix, name),
		Tower1:   NewFirstTower(prefix, name+"_tower1"),
		Tower2:   NewSecondTower(prefix, name+"_tower2"),
		Yag:      positioner.New(prefix+":DIA:YAG", name+"_yag", YagLom),
		Dectris:  positioner.New(prefix+":DIA:DECTRIS", name+"_dectris", Dectris),
		Diode:    positioner.New(prefix+":DIA:DIODE", name+"_diode", Diode),
		Foil:     NewFoil(prefix+":DIA:FOIL", name+"_foil"),
		mainLine: opts.MainLine,
		monoLine: opts.MonoLine,
	}
	l.Energy = newEnergy(prefix+":E", name+"_calc", l.Tower1, l.Tower2, opts.Offsets, opts.MotorOptions...)

	l.MustAdd("tower1", l.Tower1)
	l.MustAdd("tower2", l.Tower2)
	l.MustAdd("calc", l.Energy)
	l.MustAdd("yag", l.Yag)
	l.MustAdd("dectris", l.Dectris)
	l.MustAdd("diode", l.Diode)
	l.MustAdd("foil", l.Foil)
	return l
}

// H1N returns the tower 1 horizontal stage, which routes the beam.
func (l *LODCM) H1N() *positioner.StatePositioner {
	return l.Tower1.H1N
}

// Branches returns every destination the LODCM can deliver to.
func (l *LODCM) Branches() []string {
	return []string{l.mainLine, l.monoLine}
}

// Destination returns the lines currently receiving beam. The result is
// empty, never nil, when nothing gets through or a state is Unknown.
func (l *LODCM) Destination() []string {
	dest := []string{}

	h1n := l.H1N().Position()
	switch h1n {
	case "OUT":
		return append(dest, l.mainLine)
	case "C":
		// Diamond transmits the main line regardless of the diagnostics.
		dest = append(dest, l.mainLine)
	case "Si":
	default:
		return dest
	}

	blocked, known := l.monoBlocked()
	if !known {
		return []string{}
	}
	if !blocked {
		dest = append(dest, l.monoLine)
	}
	return dest
}

// monoBlocked reports whether a diagnostic blocks the mono line. known is
// false if any of them is in the Unknown state.
func (l *LODCM) monoBlocked() (blocked, known bool) {
	for _, dia := range l.blocking() {
		state := dia.Position()
		if state == positioner.UnknownState {
			return false, false
		}
		if !dia.Removed() {
			blocked = true
		}
	}
	return blocked, true
}

func (l *LODCM) blocking() []*positioner.StatePositioner {
	return []*positioner.StatePositioner{l.Yag, l.Dectris, l.Diode}
}

func (l *LODCM) diagnostics() []*positioner.StatePositioner {
	return append(l.blocking(), l.Foil)
}

// RemoveDia moves every diagnostic out of the mono line. MovedCB runs with
// the LODCM once all of them are out.
func (l *LODCM) RemoveDia(ctx context.Context, opts model.MoveOptions) (*model.Status, error) {
	l.Logger().Info("removing diagnostics")

	var statuses []*model.Status
	for _, dia := range l.diagnostics() {
		st, err := dia.Remove(ctx, model.MoveOptions{})
		if err != nil {
			return nil, fmt.Errorf("remove %s: %w", dia.Name(), err)
		}
		statuses = append(statuses, st)
	}
	return model.Complete(ctx, model.AndStatus(l, statuses...), opts)
}

// Status returns a human readable summary of the device.
func (l *LODCM) Status() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", l.Name(), l.Prefix())
	fmt.Fprintf(&b, "  destination: %s\n", formatList(l.Destination()))
	fmt.Fprintf(&b, "  branches:    %s\n", formatList(l.Branches()))

	fmt.Fprintf(&b, "Tower 1: %s\n", l.Tower1.Material())
	writeStates(&b, l.Tower1.H1N, l.Tower1.Y1, l.Tower1.Chi1)
	fmt.Fprintf(&b, "Tower 2: %s\n", l.Tower2.Material())
	writeStates(&b, l.Tower2.Y2, l.Tower2.Chi2, l.Tower2.H2N)

	m := l.Energy.Material()
	fmt.Fprintf(&b, "Energy: %s\n", m)
	if ref, err := l.Energy.Reflection(true); err != nil {
		fmt.Fprintf(&b, "  reflection:  %v\n", err)
	} else {
		fmt.Fprintf(&b, "  reflection:  %s\n", ref)
	}
	if m != xray.MaterialUnknown {
		th1, th2 := l.Energy.th1(m), l.Energy.th2(m)
		z1, z2 := l.Energy.z(m)
		fmt.Fprintf(&b, "  th1: %.4f  th2: %.4f  z1: %.4f  z2: %.4f\n",
			th1.Position(), th2.Position(), z1.Position(), z2.Position())
	}
	fmt.Fprintf(&b, "  energy:      %.4f keV\n", l.Energy.Position())

	b.WriteString("Diagnostics:\n")
	writeStates(&b, l.diagnostics()...)
	return b.String()
}

func writeStates(b *strings.Builder, ps ...*positioner.StatePositioner) {
	for _, p := range ps {
		fmt.Fprintf(b, "  %-12s %s\n", stateLabel(p)+":", p.Position())
	}
}

// stateLabel strips the owning device name from a positioner name.
func stateLabel(p *positioner.StatePositioner) string {
	name := strings.TrimSuffix(p.Name(), "_state")
	return name[strings.LastIndex(name, "_")+1:]
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
