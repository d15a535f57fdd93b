package lodcm

import (
	"fmt"

	"github.com/jortiz-slac/pcdsdevices/pkg/positioner"
	"github.com/jortiz-slac/pcdsdevices/pkg/xray"
)

// Positioners returns every state element by attribute path.
func (l *LODCM) Positioners() map[string]*positioner.StatePositioner {
	return map[string]*positioner.StatePositioner{
		"tower1.h1n_state":  l.Tower1.H1N,
		"tower1.y1_state":   l.Tower1.Y1,
		"tower1.chi1_state": l.Tower1.Chi1,
		"tower2.y2_state":   l.Tower2.Y2,
		"tower2.chi2_state": l.Tower2.Chi2,
		"tower2.h2n_state":  l.Tower2.H2N,
		"yag":               l.Yag,
		"dectris":           l.Dectris,
		"diode":             l.Diode,
		"foil":              l.Foil,
	}
}

// SimSetFirstStates puts every state element into the first state of its
// states list, bypassing moves.
func (l *LODCM) SimSetFirstStates() {
	for _, p := range l.Positioners() {
		_ = p.State().SimPut(1)
	}
}

// SimSetStates puts state elements into named states, bypassing moves.
// Keys are the attribute paths returned by Positioners.
func (l *LODCM) SimSetStates(states map[string]string) error {
	all := l.Positioners()
	for path, state := range states {
		p, ok := all[path]
		if !ok {
			return fmt.Errorf("sim state %s: not a state element", path)
		}
		if err := p.State().SimPut(state); err != nil {
			return fmt.Errorf("sim state %s: %w", path, err)
		}
	}
	return nil
}

// SimSetMaterial puts all crystal stages of both towers to material m.
func (l *LODCM) SimSetMaterial(m xray.Material) error {
	states := map[string]string{}
	for _, path := range []string{
		"tower1.h1n_state", "tower1.y1_state", "tower1.chi1_state",
		"tower2.y2_state", "tower2.chi2_state", "tower2.h2n_state",
	} {
		states[path] = m.String()
	}
	return l.SimSetStates(states)
}

// SimSetReflections sets the diamond and silicon reflections of a tower.
func SimSetReflections(t Tower, diamond, silicon xray.Reflection) {
	var c *crystals
	switch v := t.(type) {
	case *FirstTower:
		c = &v.crystals
	case *SecondTower:
		c = &v.crystals
	default:
		return
	}
	_ = c.DiamondReflection.SimPut(diamond)
	_ = c.SiliconReflection.SimPut(silicon)
}
