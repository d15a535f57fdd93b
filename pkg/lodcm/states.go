package lodcm

import (
	"strings"

	"github.com/jortiz-slac/pcdsdevices/pkg/positioner"
)

// Tower state elements. Every crystal stage switches between the two
// materials; the tower 1 horizontal stage can also leave the beam.
var (
	H1N = positioner.Definition{
		StatesList: []string{"C", "Si", "OUT"},
		InStates:   []string{"C", "Si"},
		OutStates:  []string{"OUT"},
	}
	Y1   = crystalStage
	CHI1 = crystalStage
	Y2   = crystalStage
	CHI2 = crystalStage
	H2N  = crystalStage
)

var crystalStage = positioner.Definition{
	StatesList: []string{"C", "Si"},
	InStates:   []string{"C", "Si"},
}

// Mono line diagnostics.
var (
	YagLom = positioner.Definition{
		StatesList: []string{"OUT", "YAG", "SLIT1", "SLIT2", "SLIT3"},
		InStates:   []string{"YAG", "SLIT1", "SLIT2", "SLIT3"},
		OutStates:  []string{"OUT"},
		Aliases:    map[string]string{"IN": "YAG"},
	}
	Dectris = positioner.Definition{
		StatesList: []string{"OUT", "DECTRIS", "SLIT1", "SLIT2", "SLIT3", "OUTLOW"},
		InStates:   []string{"DECTRIS", "SLIT1", "SLIT2", "SLIT3"},
		OutStates:  []string{"OUT", "OUTLOW"},
		Aliases:    map[string]string{"IN": "DECTRIS"},
	}
	Diode = positioner.Definition{
		StatesList: []string{"OUT", "IN"},
		InStates:   []string{"IN"},
		OutStates:  []string{"OUT"},
	}
)

// Filter foils installed per hutch, in match order.
var foilInStates = []struct {
	hutch  string
	states []string
}{
	{"XPP", []string{"Zn", "Ge", "Cu", "Ni", "Fe", "Ti"}},
	{"XCS", []string{"Mo", "Zr", "Ge", "Cu", "Ni", "Fe", "Ti"}},
}

// FoilDefinition returns the foil states for the hutch named in prefix.
// The first matching hutch wins. Unrecognised hutches get a foil that can
// only be OUT.
func FoilDefinition(prefix string) positioner.Definition {
	var in []string
	upper := strings.ToUpper(prefix)
	for _, f := range foilInStates {
		if strings.Contains(upper, f.hutch) {
			in = append([]string(nil), f.states...)
			break
		}
	}
	def := positioner.Definition{
		StatesList: append([]string{"OUT"}, in...),
		InStates:   in,
		OutStates:  []string{"OUT"},
	}
	if len(in) > 0 {
		def.Aliases = map[string]string{"IN": in[0]}
	}
	return def
}

// NewFoil creates the foil positioner for the hutch named in prefix.
func NewFoil(prefix, name string) *positioner.StatePositioner {
	return positioner.New(prefix, name, FoilDefinition(prefix))
}
