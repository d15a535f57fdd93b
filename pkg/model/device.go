package model

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jortiz-slac/pcdsdevices/pkg/log"
)

// Device errors.
var (
	ErrComponentNotFound  = errors.New("component not found")
	ErrDuplicateComponent = errors.New("duplicate component")
)

// Component is anything that can be attached to a device: a Signal, an
// EnumSignal or another device.
type Component interface {
	Name() string
}

// Container is a component that holds other components.
// Any type embedding *Device satisfies it.
type Container interface {
	Name() string
	Component(attr string) (Component, error)
	ComponentNames() []string
}

// Device is a named tree of components.
type Device struct {
	mu sync.RWMutex

	// name is the fully-qualified device name (e.g. "xpp_lom_tower1").
	name string

	// prefix is the PV prefix of the device.
	prefix string

	// components indexed by attribute name, in insertion order.
	components map[string]Component
	order      []string

	logger *slog.Logger
	events log.Logger
}

// NewDevice creates an empty device.
func NewDevice(prefix, name string) *Device {
	return &Device{
		name:       name,
		prefix:     prefix,
		components: make(map[string]Component),
		logger:     slog.Default(),
		events:     log.NoopLogger{},
	}
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.name
}

// Prefix returns the PV prefix.
func (d *Device) Prefix() string {
	return d.prefix
}

// Logger returns the operational logger.
func (d *Device) Logger() *slog.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.logger
}

// Events returns the device event logger.
func (d *Device) Events() log.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.events
}

// Add attaches a component under the given attribute name.
func (d *Device) Add(attr string, c Component) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.components[attr]; exists {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateComponent, d.name, attr)
	}
	d.components[attr] = c
	d.order = append(d.order, attr)
	return nil
}

// MustAdd is Add for device constructors, where a duplicate is a programming error.
func (d *Device) MustAdd(attr string, c Component) {
	if err := d.Add(attr, c); err != nil {
		panic(err)
	}
}

// Component returns a direct component by attribute name.
func (d *Device) Component(attr string) (Component, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, exists := d.components[attr]
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrComponentNotFound, d.name, attr)
	}
	return c, nil
}

// ComponentNames returns the attribute names in the order they were added.
func (d *Device) ComponentNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...)
}

// Lookup resolves a dotted attribute path (e.g. "tower1.h1n_state.state").
func (d *Device) Lookup(path string) (Component, error) {
	var current Component = d
	for _, part := range strings.Split(path, ".") {
		container, ok := current.(Container)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no component %q", ErrComponentNotFound, current.Name(), part)
		}
		next, err := container.Component(part)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// Walk calls fn for every signal below the device with its dotted path.
func (d *Device) Walk(fn func(path string, sig *Signal)) {
	d.walk("", fn)
}

func (d *Device) walk(base string, fn func(path string, sig *Signal)) {
	for _, attr := range d.ComponentNames() {
		c, err := d.Component(attr)
		if err != nil {
			continue
		}
		path := attr
		if base != "" {
			path = base + "." + attr
		}
		switch v := c.(type) {
		case *Signal:
			fn(path, v)
		case *EnumSignal:
			fn(path, v.Signal)
		case interface{ Base() *Device }:
			v.Base().walk(path, fn)
		}
	}
}

// Base returns the device itself. Types embedding *Device expose their
// underlying tree through it.
func (d *Device) Base() *Device {
	return d
}

// SetLogger sets the operational logger on the device and all sub-devices.
func (d *Device) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	d.mu.Lock()
	d.logger = logger.With("device", d.name)
	d.mu.Unlock()

	d.eachSubDevice(func(sub *Device) { sub.SetLogger(logger) })
}

// SetEventLogger sets the event logger on the device and all sub-devices.
func (d *Device) SetEventLogger(events log.Logger) {
	if events == nil {
		events = log.NoopLogger{}
	}
	d.mu.Lock()
	d.events = events
	d.mu.Unlock()

	d.eachSubDevice(func(sub *Device) { sub.SetEventLogger(events) })
}

// RecordSignalChanges subscribes to every signal below the device and
// reports value changes to the event logger.
func (d *Device) RecordSignalChanges() {
	d.Walk(func(path string, sig *Signal) {
		sig.Subscribe(SubscriberFunc(func(_ *Signal, old, value any) {
			d.Events().Log(log.Event{
				Timestamp: time.Now(),
				Device:    d.name,
				Category:  log.CategorySignal,
				Signal: &log.SignalEvent{
					Path: path,
					PV:   sig.Metadata().PV,
					Old:  fmt.Sprint(old),
					New:  fmt.Sprint(value),
				},
			})
		}))
	})
}

// LogMove reports a move request to the event logger.
func (d *Device) LogMove(from, to string) {
	d.Events().Log(log.Event{
		Timestamp: time.Now(),
		Device:    d.name,
		Category:  log.CategoryMove,
		Move:      &log.MoveEvent{From: from, To: to},
	})
}

// LogError reports an error to the event logger.
func (d *Device) LogError(err error, context string) {
	d.Events().Log(log.Event{
		Timestamp: time.Now(),
		Device:    d.name,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Message: err.Error(), Context: context},
	})
}

func (d *Device) eachSubDevice(fn func(*Device)) {
	for _, attr := range d.ComponentNames() {
		c, err := d.Component(attr)
		if err != nil {
			continue
		}
		if sub, ok := c.(interface{ Base() *Device }); ok {
			fn(sub.Base())
		}
	}
}
