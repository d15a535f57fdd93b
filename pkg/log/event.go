package log

import (
	"time"
)

// Event represents a device event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the control session (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Device is the name of the device the event belongs to.
	Device string `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Move   *MoveEvent      `cbor:"10,keyasint,omitempty"`
	Signal *SignalEvent    `cbor:"11,keyasint,omitempty"`
	Error  *ErrorEventData `cbor:"12,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMove indicates a move request.
	CategoryMove Category = 0
	// CategorySignal indicates a signal value change.
	CategorySignal Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMove:
		return "MOVE"
	case CategorySignal:
		return "SIGNAL"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category for a name as printed by String.
func ParseCategory(name string) (Category, bool) {
	for _, c := range []Category{CategoryMove, CategorySignal, CategoryError} {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// MoveEvent captures a move request.
type MoveEvent struct {
	// From is the position or state before the move.
	From string `cbor:"1,keyasint"`

	// To is the requested position or state.
	To string `cbor:"2,keyasint"`
}

// SignalEvent captures a signal value change.
type SignalEvent struct {
	// Path is the dotted attribute path relative to the recording device.
	Path string `cbor:"1,keyasint"`

	// PV is the process variable name.
	PV string `cbor:"2,keyasint,omitempty"`

	// Old is the previous value, formatted.
	Old string `cbor:"3,keyasint"`

	// New is the new value, formatted.
	New string `cbor:"4,keyasint"`
}

// ErrorEventData captures an error.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Context describes the operation that failed.
	Context string `cbor:"2,keyasint,omitempty"`
}
