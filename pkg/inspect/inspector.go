package inspect

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

// Inspector errors.
var (
	ErrNotReadable = errors.New("component has no readable value")
	ErrNotMovable  = errors.New("component cannot be moved")
	ErrBadValue    = errors.New("cannot convert value")
)

// StateMover is a positioner moved between named states.
type StateMover interface {
	Position() string
	Move(ctx context.Context, state string, opts model.MoveOptions) (*model.Status, error)
}

// PositionMover is a positioner moved to numeric positions.
type PositionMover interface {
	Position() float64
	Move(ctx context.Context, pos float64, opts model.MoveOptions) (*model.Status, error)
}

// Inspector provides inspection and mutation capabilities for a device.
type Inspector struct {
	device *model.Device
}

// NewInspector creates a new Inspector for the given device.
func NewInspector(device *model.Device) *Inspector {
	return &Inspector{device: device}
}

// Device returns the underlying device.
func (i *Inspector) Device() *model.Device {
	return i.device
}

// DeviceTree represents the complete device structure for display.
type DeviceTree struct {
	Name    string
	Prefix  string
	Signals []SignalInfo
}

// SignalInfo represents signal information for display.
type SignalInfo struct {
	Path   string
	PV     string
	Value  any
	Type   model.DataType
	Access model.Access
	Units  string
}

// InspectDevice returns every signal below the device.
func (i *Inspector) InspectDevice() *DeviceTree {
	tree := &DeviceTree{
		Name:   i.device.Name(),
		Prefix: i.device.Prefix(),
	}
	i.device.Walk(func(path string, sig *model.Signal) {
		tree.Signals = append(tree.Signals, signalInfo(path, sig))
	})
	return tree
}

// Inspect returns the signals below the component at path. A signal path
// returns just that signal.
func (i *Inspector) Inspect(path *Path) ([]SignalInfo, error) {
	c, err := i.device.Lookup(path.String())
	if err != nil {
		return nil, err
	}

	switch v := c.(type) {
	case *model.Signal:
		return []SignalInfo{signalInfo(path.String(), v)}, nil
	case *model.EnumSignal:
		info := signalInfo(path.String(), v.Signal)
		info.Value = v.String()
		return []SignalInfo{info}, nil
	case interface{ Base() *model.Device }:
		var infos []SignalInfo
		v.Base().Walk(func(sub string, sig *model.Signal) {
			infos = append(infos, signalInfo(path.String()+"."+sub, sig))
		})
		return infos, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotReadable, path)
}

func signalInfo(path string, sig *model.Signal) SignalInfo {
	meta := sig.Metadata()
	return SignalInfo{
		Path:   path,
		PV:     meta.PV,
		Value:  sig.Get(),
		Type:   meta.Type,
		Access: meta.Access,
		Units:  meta.Units,
	}
}

// Read returns the value of the component at path. Signals return their
// value, enum signals and state positioners their state name, motors
// their position.
func (i *Inspector) Read(path *Path) (any, error) {
	c, err := i.device.Lookup(path.String())
	if err != nil {
		return nil, err
	}

	switch v := c.(type) {
	case *model.EnumSignal:
		return v.String(), nil
	case *model.Signal:
		return v.Get(), nil
	case interface{ Position() string }:
		return v.Position(), nil
	case interface{ Position() float64 }:
		return v.Position(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotReadable, path)
}

// Move moves the positioner at path. target is a state name for state
// positioners and a number for motors.
func (i *Inspector) Move(ctx context.Context, path *Path, target string, opts model.MoveOptions) (*model.Status, error) {
	c, err := i.device.Lookup(path.String())
	if err != nil {
		return nil, err
	}

	switch v := c.(type) {
	case StateMover:
		return v.Move(ctx, target, opts)
	case PositionMover:
		pos, err := strconv.ParseFloat(strings.TrimSpace(target), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadValue, target, err)
		}
		return v.Move(ctx, pos, opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotMovable, path)
}

// Write puts a value to the signal at path, converting it from text
// according to the signal's data type. Access control is enforced by the
// signal.
func (i *Inspector) Write(path *Path, value string) error {
	c, err := i.device.Lookup(path.String())
	if err != nil {
		return err
	}

	switch v := c.(type) {
	case *model.EnumSignal:
		return v.Put(value)
	case *model.Signal:
		parsed, err := ParseValue(v.Metadata().Type, value)
		if err != nil {
			return err
		}
		return v.Put(parsed)
	}
	return fmt.Errorf("%w: %s is not a signal", ErrNotMovable, path)
}

// ParseValue converts text into a value of the given data type.
func ParseValue(dt model.DataType, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch dt {
	case model.DataTypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as bool", ErrBadValue, s)
		}
		return b, nil
	case model.DataTypeInt:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as int", ErrBadValue, s)
		}
		return n, nil
	case model.DataTypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as float", ErrBadValue, s)
		}
		return f, nil
	case model.DataTypeString:
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s values cannot be written as text", ErrBadValue, dt)
}

// FormatDeviceTree formats the device tree for display.
func (i *Inspector) FormatDeviceTree(tree *DeviceTree, formatter *Formatter) string {
	if formatter == nil {
		formatter = NewFormatter()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Device: %s\n", tree.Name)
	fmt.Fprintf(&sb, "Prefix: %s\n", tree.Prefix)
	sb.WriteString("---\n")
	sb.WriteString(formatter.FormatSignalTable(tree.Signals))
	return sb.String()
}
