package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes device events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter logging at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("device", event.Device),
		slog.String("category", event.Category.String()),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}

	level := a.level
	switch {
	case event.Move != nil:
		attrs = append(attrs,
			slog.String("from", event.Move.From),
			slog.String("to", event.Move.To),
		)
	case event.Signal != nil:
		attrs = append(attrs,
			slog.String("path", event.Signal.Path),
			slog.String("old", event.Signal.Old),
			slog.String("new", event.Signal.New),
		)
		if event.Signal.PV != "" {
			attrs = append(attrs, slog.String("pv", event.Signal.PV))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "device event", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
