package model

import (
	"errors"
	"fmt"
	"sync"
)

// Access flags for signals.
type Access uint8

const (
	// AccessRead allows reading the signal.
	AccessRead Access = 1 << iota

	// AccessWrite allows writing the signal.
	AccessWrite

	// AccessSubscribe allows subscribing to changes.
	AccessSubscribe

	// Common access combinations.

	// AccessReadOnly is read and subscribe.
	AccessReadOnly = AccessRead | AccessSubscribe

	// AccessReadWrite is read, write, and subscribe.
	AccessReadWrite = AccessRead | AccessWrite | AccessSubscribe
)

// CanRead returns true if reading is allowed.
func (a Access) CanRead() bool { return a&AccessRead != 0 }

// CanWrite returns true if writing is allowed.
func (a Access) CanWrite() bool { return a&AccessWrite != 0 }

// CanSubscribe returns true if subscribing is allowed.
func (a Access) CanSubscribe() bool { return a&AccessSubscribe != 0 }

// String returns the access flags as a string.
func (a Access) String() string {
	var s string
	if a.CanRead() {
		s += "R"
	}
	if a.CanWrite() {
		s += "W"
	}
	if a.CanSubscribe() {
		s += "S"
	}
	if s == "" {
		return "-"
	}
	return s
}

// DataType represents the type of a signal value.
type DataType uint8

const (
	DataTypeUnknown DataType = iota
	DataTypeBool
	DataTypeInt
	DataTypeFloat
	DataTypeString
	DataTypeEnum
	DataTypeArray
)

// String returns the data type name.
func (d DataType) String() string {
	names := []string{
		"unknown", "bool", "int", "float", "string", "enum", "array",
	}
	if int(d) < len(names) {
		return names[d]
	}
	return "unknown"
}

// SignalMetadata describes a signal's properties.
type SignalMetadata struct {
	// Name is the attribute name of the signal within its device.
	Name string

	// PV is the process variable the signal is bound to.
	PV string

	// Type is the data type of the signal value.
	Type DataType

	// Access defines the allowed operations.
	Access Access

	// MinValue is the minimum allowed value (for numeric types).
	MinValue any

	// MaxValue is the maximum allowed value (for numeric types).
	MaxValue any

	// Default is the initial value.
	Default any

	// Units is the engineering unit (e.g., "mm", "deg", "keV").
	Units string

	// Description is a human-readable description.
	Description string
}

// SignalSubscriber is notified when a signal value changes.
type SignalSubscriber interface {
	// OnSignalChanged is called after the value changed from old to value.
	OnSignalChanged(sig *Signal, old, value any)
}

// SubscriberFunc adapts a function to the SignalSubscriber interface.
type SubscriberFunc func(sig *Signal, old, value any)

// OnSignalChanged calls f.
func (f SubscriberFunc) OnSignalChanged(sig *Signal, old, value any) { f(sig, old, value) }

// ReadHook computes a signal value on read. Returning false falls through
// to the stored value.
type ReadHook func() (any, bool)

// Signal is a single named value of a device.
type Signal struct {
	mu          sync.RWMutex
	metadata    *SignalMetadata
	value       any
	readHook    ReadHook
	subscribers []SignalSubscriber
}

// Signal errors.
var (
	ErrSignalNotWritable = errors.New("signal is not writable")
	ErrSignalValueType   = errors.New("invalid value type for signal")
	ErrSignalOutOfRange  = errors.New("value out of range")
)

// NewSignal creates a new signal with the given metadata.
func NewSignal(meta *SignalMetadata) *Signal {
	return &Signal{
		metadata: meta,
		value:    meta.Default,
	}
}

// Name returns the signal attribute name.
func (s *Signal) Name() string {
	return s.metadata.Name
}

// Metadata returns the signal metadata.
func (s *Signal) Metadata() *SignalMetadata {
	return s.metadata
}

// Get returns the current signal value.
func (s *Signal) Get() any {
	s.mu.RLock()
	hook := s.readHook
	value := s.value
	s.mu.RUnlock()

	if hook != nil {
		if v, ok := hook(); ok {
			return v
		}
	}
	return value
}

// Float returns the current value as float64.
func (s *Signal) Float() (float64, bool) {
	return toFloat64(s.Get())
}

// Put writes the signal value.
// Returns an error if the signal is not writable or the value is invalid.
func (s *Signal) Put(value any) error {
	if !s.metadata.Access.CanWrite() {
		return ErrSignalNotWritable
	}
	return s.put(value)
}

// SimPut sets the value without checking write access.
// Used by simulations and device implementations to update read-only signals.
func (s *Signal) SimPut(value any) error {
	return s.put(value)
}

// SetReadHook installs a hook that computes the value on read.
func (s *Signal) SetReadHook(hook ReadHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readHook = hook
}

func (s *Signal) put(value any) error {
	if err := s.validateValue(value); err != nil {
		return fmt.Errorf("%s: %w", s.metadata.Name, err)
	}

	s.mu.Lock()
	old := s.value
	changed := !equalValues(old, value)
	s.value = value
	subs := make([]SignalSubscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	if changed {
		for _, sub := range subs {
			sub.OnSignalChanged(s, old, value)
		}
	}
	return nil
}

// validateValue checks if the value matches the expected type and range.
func (s *Signal) validateValue(value any) error {
	switch s.metadata.Type {
	case DataTypeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: expected bool", ErrSignalValueType)
		}
	case DataTypeInt:
		if !isIntegerType(value) {
			return fmt.Errorf("%w: expected integer", ErrSignalValueType)
		}
	case DataTypeFloat:
		if !isNumericType(value) {
			return fmt.Errorf("%w: expected float", ErrSignalValueType)
		}
	case DataTypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: expected string", ErrSignalValueType)
		}
	}

	if s.metadata.MinValue != nil || s.metadata.MaxValue != nil {
		if err := s.checkRange(value); err != nil {
			return err
		}
	}

	return nil
}

// checkRange validates numeric range constraints.
func (s *Signal) checkRange(value any) error {
	v, ok := toFloat64(value)
	if !ok {
		return nil // Not a numeric type
	}

	if s.metadata.MinValue != nil {
		min, _ := toFloat64(s.metadata.MinValue)
		if v < min {
			return fmt.Errorf("%w: %v < %v", ErrSignalOutOfRange, value, s.metadata.MinValue)
		}
	}

	if s.metadata.MaxValue != nil {
		max, _ := toFloat64(s.metadata.MaxValue)
		if v > max {
			return fmt.Errorf("%w: %v > %v", ErrSignalOutOfRange, value, s.metadata.MaxValue)
		}
	}

	return nil
}

// Subscribe adds a subscriber for change notifications.
func (s *Signal) Subscribe(sub SignalSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// Unsubscribe removes a subscriber. SubscriberFunc values cannot be removed.
func (s *Signal) Unsubscribe(sub SignalSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.subscribers {
		if equalValues(existing, sub) {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Helper functions for type checking.

func equalValues(a, b any) (eq bool) {
	// Uncomparable values (slices) always count as a change.
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func isIntegerType(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func isNumericType(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
