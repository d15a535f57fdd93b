// Package model implements the hardware-abstraction layer the beamline
// devices are built on.
//
// # Device Model Hierarchy
//
// Devices are trees of named components:
//
//	Device > Component (sub-device or signal)
//
// A Device represents a physical or logical assembly (e.g., a crystal
// tower). Its components are either nested devices (a state positioner, a
// motor) or Signals, the leaves that hold values.
//
//	LODCM (XPP:LOM)
//	├── tower1
//	│   ├── h1n_state
//	│   │   └── state            (enum signal)
//	│   ├── y1_state
//	│   ├── chi1_state
//	│   ├── diamond_reflection   (signal)
//	│   └── silicon_reflection   (signal)
//	├── tower2
//	└── ...
//
// # Signals
//
// Each signal has:
//   - Metadata: name, PV, data type, access, limits, units
//   - A current value, read with Get and written with Put
//   - Subscribers notified on every value change
//
// All signals are simulated. SimPut bypasses access checks the way a
// control system IOC would update a read-only PV, and enum signals accept
// SimSetEnumStrs to redefine their state strings.
//
// # Moves
//
// Moves return a *Status, a completion object that runs callbacks once
// finished and can be waited on with a context.
//
// # Addressing
//
// Components are addressed by dotted attribute paths relative to a device:
//
//	tower1.h1n_state.state
package model
