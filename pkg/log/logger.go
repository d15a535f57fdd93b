package log

import (
	"github.com/google/uuid"
)

// Logger is the interface applications implement to receive device events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe.
	Log(event Event)
}

// NoopLogger discards all events.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// SessionLogger stamps every event with a session id and hands it to each
// of its sinks in order.
type SessionLogger struct {
	id    string
	sinks []Logger
}

// NewSessionLogger returns a SessionLogger with a freshly generated session
// id that forwards to sinks.
func NewSessionLogger(sinks ...Logger) *SessionLogger {
	return &SessionLogger{id: uuid.NewString(), sinks: sinks}
}

// ID returns the session id.
func (s *SessionLogger) ID() string {
	return s.id
}

// Log stamps the event unless it already carries a session id, then
// forwards it.
func (s *SessionLogger) Log(event Event) {
	if event.SessionID == "" {
		event.SessionID = s.id
	}
	for _, sink := range s.sinks {
		sink.Log(event)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*SessionLogger)(nil)
)
