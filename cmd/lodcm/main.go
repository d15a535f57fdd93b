// Command lodcm controls a simulated Large Offset Dual Crystal Monochromator.
//
// The device is described by a YAML configuration file. Without one the XPP
// LODCM with diamond crystals and all diagnostics out is used.
//
// Usage:
//
//	lodcm [--config file.yaml] [--log-level level] [--event-log file.dlog] <command>
//
// Commands:
//
//	status        Show states, material, reflection and energy
//	destination   Show which lines receive beam
//	energy calc   Compute Bragg angle and crystal separation for an energy
//	energy get    Show the energy selected by th1
//	energy move   Move the crystals to an energy
//	move          Move a positioner by dotted path
//	remove-dia    Move every diagnostic out of the mono line
//	inspect       List signals below a component
//	shell         Interactive shell
//	log view      View a device event log
//
// Examples:
//
//	# Bragg geometry for 10 keV
//	lodcm energy calc 10000
//
//	# Insert the yag and check the destination
//	lodcm shell
//	lodcm> move yag IN
//	lodcm> destination
//
//	# View only move events of a session log
//	lodcm log view --category MOVE session.dlog
package main

import (
	"github.com/jortiz-slac/pcdsdevices/cmd/lodcm/commands"
)

func main() {
	commands.Execute()
}
