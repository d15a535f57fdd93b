// Package positioner implements state positioners: devices that move
// between a fixed list of named states through a single enum signal.
package positioner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

// UnknownState is the state reported when the hardware is between states
// or the enum value is not recognised.
const UnknownState = "Unknown"

// Positioner errors.
var (
	ErrInvalidState = errors.New("invalid state")
	ErrNoInStates   = errors.New("positioner has no in states")
	ErrNoOutStates  = errors.New("positioner has no out states")
)

// Definition describes the states of a positioner type.
type Definition struct {
	// StatesList is the ordered list of valid states, without Unknown.
	StatesList []string

	// InStates are the states that put the device in the beam.
	InStates []string

	// OutStates are the states that take the device out of the beam.
	OutStates []string

	// Aliases map extra names onto states (e.g. "IN" onto "YAG").
	Aliases map[string]string
}

// EnumStrs returns the enum strings of the state signal: Unknown followed
// by the states list.
func (d Definition) EnumStrs() []string {
	return append([]string{UnknownState}, d.StatesList...)
}

// StatePositioner moves a device between named states.
type StatePositioner struct {
	*model.Device

	def   Definition
	state *model.EnumSignal
}

// New creates a state positioner. The state signal starts at Unknown.
func New(prefix, name string, def Definition) *StatePositioner {
	p := &StatePositioner{
		Device: model.NewDevice(prefix, name),
		def:    def,
		state: model.NewEnumSignal(&model.SignalMetadata{
			Name:        "state",
			PV:          prefix + ":GET_RBV",
			Access:      model.AccessReadWrite,
			Description: "Current named state",
		}, def.EnumStrs()),
	}
	p.MustAdd("state", p.state)
	return p
}

// State returns the enum signal holding the current state.
func (p *StatePositioner) State() *model.EnumSignal {
	return p.state
}

// StatesList returns the valid states.
func (p *StatePositioner) StatesList() []string {
	return slices.Clone(p.def.StatesList)
}

// InStates returns the in-beam states.
func (p *StatePositioner) InStates() []string {
	return slices.Clone(p.def.InStates)
}

// OutStates returns the out-of-beam states.
func (p *StatePositioner) OutStates() []string {
	return slices.Clone(p.def.OutStates)
}

// Position returns the current state name. Values outside the enum strings
// report Unknown.
func (p *StatePositioner) Position() string {
	s := p.state.String()
	if s == "" {
		return UnknownState
	}
	return s
}

// Inserted reports whether the current state is an in state.
func (p *StatePositioner) Inserted() bool {
	return slices.Contains(p.def.InStates, p.Position())
}

// Removed reports whether the current state is an out state.
func (p *StatePositioner) Removed() bool {
	return slices.Contains(p.def.OutStates, p.Position())
}

// Move requests a state by name or alias. Unknown is never a valid target.
func (p *StatePositioner) Move(ctx context.Context, state string, opts model.MoveOptions) (*model.Status, error) {
	target, err := p.resolve(state)
	if err != nil {
		p.LogError(err, "move "+state)
		return nil, err
	}

	from := p.Position()
	p.Logger().Debug("moving state positioner", "from", from, "to", target)
	p.LogMove(from, target)

	if err := p.state.Put(target); err != nil {
		p.LogError(err, "move "+target)
		return nil, err
	}
	// Simulated hardware arrives as soon as the request is written.
	return model.Complete(ctx, model.FinishedStatus(p), opts)
}

// Insert moves to the first in state.
func (p *StatePositioner) Insert(ctx context.Context, opts model.MoveOptions) (*model.Status, error) {
	if len(p.def.InStates) == 0 {
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrNoInStates)
	}
	return p.Move(ctx, p.def.InStates[0], opts)
}

// Remove moves to the first out state.
func (p *StatePositioner) Remove(ctx context.Context, opts model.MoveOptions) (*model.Status, error) {
	if len(p.def.OutStates) == 0 {
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrNoOutStates)
	}
	return p.Move(ctx, p.def.OutStates[0], opts)
}

// resolve maps a requested name onto one of the current enum strings.
func (p *StatePositioner) resolve(state string) (string, error) {
	if alias, ok := p.def.Aliases[state]; ok {
		state = alias
	}
	if strings.EqualFold(state, UnknownState) {
		return "", fmt.Errorf("%s: %w: %s", p.Name(), ErrInvalidState, state)
	}
	idx, ok := p.state.Lookup(state)
	if !ok {
		return "", fmt.Errorf("%s: %w: %s", p.Name(), ErrInvalidState, state)
	}
	return p.state.EnumStrs()[idx], nil
}
