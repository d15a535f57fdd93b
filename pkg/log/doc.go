// Package log provides structured device event capture.
//
// This package defines the Logger interface and Event types for capturing
// what happens to a device during a session: move requests, signal value
// changes and errors. It is separate from operational logging (slog) -
// event capture provides a complete machine-readable trace for debugging
// and replay.
//
// # Basic Usage
//
// Applications configure event capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	lom.SetEventLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/lodcm/xpp_lom.dlog")
//	lom.SetEventLogger(fl)
//
//	// Both, stamped with a session id
//	lom.SetEventLogger(log.NewSessionLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	))
//
// # Event Types
//
// Events are classified by category:
//   - Move: a positioner or motor was asked to move (MoveEvent)
//   - Signal: a signal value changed (SignalEvent)
//   - Error: an operation failed (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with .dlog extension. "lodcm log view"
// prints them.
package log
