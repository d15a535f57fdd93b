package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jortiz-slac/pcdsdevices/cmd/lodcm/interactive"
	"github.com/jortiz-slac/pcdsdevices/pkg/inspect"
	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show states, material, reflection and energy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lom, err := a.device()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), lom.Status())
			return nil
		},
	}
}

func (a *app) destinationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destination",
		Short: "Show which lines receive beam.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lom, err := a.device()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), inspect.FormatDestination(lom.Destination()))
			return nil
		},
	}
}

func (a *app) energyCmd() *cobra.Command {
	energy := &cobra.Command{
		Use:   "energy",
		Short: "Convert between photon energy and Bragg geometry.",
	}

	energy.AddCommand(&cobra.Command{
		Use:   "calc <eV>",
		Short: "Compute the Bragg angle and crystal separation for an energy.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := parseEnergy(args[0])
			if err != nil {
				return err
			}
			lom, err := a.device()
			if err != nil {
				return err
			}
			th, z, err := lom.Energy.CalcEnergy(ev)
			if err != nil {
				return err
			}
			ref, _ := lom.Energy.Reflection(true)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "material:   %s\n", lom.Energy.Material())
			fmt.Fprintf(out, "reflection: %s\n", ref)
			fmt.Fprintf(out, "th:         %.6f deg\n", th)
			fmt.Fprintf(out, "z:          %.6f mm\n", z)
			return nil
		},
	})

	energy.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the energy selected by the th1 angle.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lom, err := a.device()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f keV\n", lom.Energy.GetEnergy())
			return nil
		},
	})

	var timeout time.Duration
	move := &cobra.Command{
		Use:   "move <eV>",
		Short: "Move the crystal angles and separations to an energy.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := parseEnergy(args[0])
			if err != nil {
				return err
			}
			lom, err := a.device()
			if err != nil {
				return err
			}
			_, err = lom.Energy.MoveEnergy(cmd.Context(), ev, model.MoveOptions{Wait: true, Timeout: timeout})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f keV\n", lom.Energy.GetEnergy())
			return nil
		},
	}
	move.Flags().DurationVar(&timeout, "timeout", 0, "give up waiting after this long (0 waits forever)")
	energy.AddCommand(move)

	return energy
}

func parseEnergy(s string) (float64, error) {
	ev, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid energy %q: %w", s, err)
	}
	return ev, nil
}

func (a *app) moveCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "move <path> <state|position>",
		Short: "Move a positioner, e.g. 'move yag IN' or 'move calc.th1_c 12.5'.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lom, err := a.device()
			if err != nil {
				return err
			}
			path, err := inspect.ParsePath(args[0])
			if err != nil {
				return err
			}
			insp := inspect.NewInspector(lom.Device)
			if _, err := insp.Move(cmd.Context(), path, args[1], model.MoveOptions{Wait: true, Timeout: timeout}); err != nil {
				return err
			}
			value, err := insp.Read(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", path, inspect.NewFormatter().FormatValue(value, ""))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up waiting after this long (0 waits forever)")
	return cmd
}

func (a *app) removeDiaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-dia",
		Short: "Move every diagnostic out of the mono line.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lom, err := a.device()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, err = lom.RemoveDia(cmd.Context(), model.MoveOptions{
				Wait:    true,
				MovedCB: func(any) { fmt.Fprintln(out, "diagnostics removed") },
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, inspect.FormatDestination(lom.Destination()))
			return nil
		},
	}
}

func (a *app) inspectCmd() *cobra.Command {
	var showPV bool
	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "List the signals below a component.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lom, err := a.device()
			if err != nil {
				return err
			}
			insp := inspect.NewInspector(lom.Device)
			f := inspect.NewFormatter()
			f.ShowPV = showPV

			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), insp.FormatDeviceTree(insp.InspectDevice(), f))
				return nil
			}
			path, err := inspect.ParsePath(args[0])
			if err != nil {
				return err
			}
			infos, err := insp.Inspect(path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), f.FormatSignalTable(infos))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPV, "pv", false, "show process variable names")
	return cmd
}

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lom, err := a.device()
			if err != nil {
				return err
			}
			sh, err := interactive.New(lom)
			if err != nil {
				return err
			}
			return sh.Run(cmd.Context())
		},
	}
}
