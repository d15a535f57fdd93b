// Package interactive provides the interactive command-line interface
// for the LODCM.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/jortiz-slac/pcdsdevices/pkg/inspect"
	"github.com/jortiz-slac/pcdsdevices/pkg/lodcm"
	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

// Shell handles interactive mode for lodcm.
type Shell struct {
	lom       *lodcm.LODCM
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
}

// New creates a new interactive shell for the device.
func New(lom *lodcm.LODCM) (*Shell, error) {
	s := newShell(lom)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lodcm> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    s.completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s.rl = rl
	return s, nil
}

func newShell(lom *lodcm.LODCM) *Shell {
	return &Shell{
		lom:       lom,
		inspector: inspect.NewInspector(lom.Device),
		formatter: inspect.NewFormatter(),
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop. It returns when the user quits
// or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	out := s.rl.Stdout()
	s.printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			return nil
		}

		if quit := s.Execute(ctx, line, out); quit {
			fmt.Fprintln(out, "Exiting...")
			return nil
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string, out io.Writer) (quit bool) {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp(out)

	case "status", "s":
		fmt.Fprint(out, s.lom.Status())

	case "destination", "dest", "d":
		fmt.Fprintln(out, inspect.FormatDestination(s.lom.Destination()))

	case "inspect", "i":
		s.cmdInspect(args, out)

	case "read", "r":
		s.cmdRead(args, out)

	case "move", "m":
		s.cmdMove(ctx, args, out)

	case "write", "w":
		s.cmdWrite(args, out)

	case "energy", "e":
		s.cmdEnergy(ctx, args, out)

	case "remove-dia", "rd":
		s.cmdRemoveDia(ctx, out)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp(out io.Writer) {
	fmt.Fprintln(out, `
LODCM Commands:
  Beam:
    status             - Show states, material, reflection and energy
    destination        - Show which lines receive beam
    remove-dia         - Move every diagnostic out of the mono line

  Components:
    inspect [path]     - List signals (of the whole device or below path)
    read <path>        - Read a signal, state or position
    move <path> <to>   - Move a positioner to a state or position
    write <path> <val> - Write a signal value

  Energy:
    energy calc <eV>   - Bragg angle and crystal separation for an energy
    energy get         - Energy selected by the th1 angle
    energy move <eV>   - Move the crystals to an energy

  General:
    help               - Show this help
    quit               - Exit shell

  Path Format:
    dotted attribute names - e.g., tower1.h1n_state, calc.th1_c, yag.state`)
}

func (s *Shell) cmdInspect(args []string, out io.Writer) {
	if len(args) == 0 {
		tree := s.inspector.InspectDevice()
		fmt.Fprint(out, s.inspector.FormatDeviceTree(tree, s.formatter))
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(out, "Invalid path: %v\n", err)
		return
	}
	infos, err := s.inspector.Inspect(path)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(out, s.formatter.FormatSignalTable(infos))
}

func (s *Shell) cmdRead(args []string, out io.Writer) {
	if len(args) < 1 {
		fmt.Fprintln(out, "Usage: read <path>")
		fmt.Fprintln(out, "  Example: read tower1.h1n_state")
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(out, "Invalid path: %v\n", err)
		return
	}
	value, err := s.inspector.Read(path)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "%s = %s\n", path, s.formatter.FormatValue(value, ""))
}

func (s *Shell) cmdMove(ctx context.Context, args []string, out io.Writer) {
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: move <path> <state|position>")
		fmt.Fprintln(out, "  Example: move yag IN")
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(out, "Invalid path: %v\n", err)
		return
	}
	if _, err := s.inspector.Move(ctx, path, args[1], model.MoveOptions{Wait: true}); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	s.cmdRead(args[:1], out)
}

func (s *Shell) cmdWrite(args []string, out io.Writer) {
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: write <path> <value>")
		fmt.Fprintln(out, "  Example: write calc.z1_c.high_limit 800")
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(out, "Invalid path: %v\n", err)
		return
	}
	if err := s.inspector.Write(path, strings.Join(args[1:], " ")); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(out, "OK")
}

func (s *Shell) cmdEnergy(ctx context.Context, args []string, out io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(out, "Usage: energy calc <eV> | energy get | energy move <eV>")
		return
	}

	switch strings.ToLower(args[0]) {
	case "get":
		fmt.Fprintf(out, "%.6f keV\n", s.lom.Energy.GetEnergy())

	case "calc", "move":
		if len(args) < 2 {
			fmt.Fprintf(out, "Usage: energy %s <eV>\n", args[0])
			return
		}
		ev, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintf(out, "Invalid energy: %s\n", args[1])
			return
		}
		if strings.EqualFold(args[0], "calc") {
			th, z, err := s.lom.Energy.CalcEnergy(ev)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				return
			}
			fmt.Fprintf(out, "th = %.6f deg, z = %.6f mm\n", th, z)
			return
		}
		if _, err := s.lom.Energy.MoveEnergy(ctx, ev, model.MoveOptions{Wait: true}); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "%.6f keV\n", s.lom.Energy.GetEnergy())

	default:
		fmt.Fprintf(out, "Unknown energy command: %s\n", args[0])
	}
}

func (s *Shell) cmdRemoveDia(ctx context.Context, out io.Writer) {
	_, err := s.lom.RemoveDia(ctx, model.MoveOptions{
		Wait:    true,
		MovedCB: func(any) { fmt.Fprintln(out, "Diagnostics removed") },
	})
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func (s *Shell) completer() *readline.PrefixCompleter {
	paths := readline.PcItemDynamic(func(line string) []string {
		fields := strings.Fields(line)
		prefix := ""
		if len(fields) > 1 && !strings.HasSuffix(line, " ") {
			prefix = fields[len(fields)-1]
		}
		return inspect.CompletePath(s.lom.Device, prefix)
	})

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("status"),
		readline.PcItem("destination"),
		readline.PcItem("remove-dia"),
		readline.PcItem("inspect", paths),
		readline.PcItem("read", paths),
		readline.PcItem("move", paths),
		readline.PcItem("write", paths),
		readline.PcItem("energy",
			readline.PcItem("calc"),
			readline.PcItem("get"),
			readline.PcItem("move"),
		),
		readline.PcItem("quit"),
	)
}
