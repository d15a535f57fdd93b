// Package commands implements the lodcm CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jortiz-slac/pcdsdevices/pkg/config"
	"github.com/jortiz-slac/pcdsdevices/pkg/lodcm"
	"github.com/jortiz-slac/pcdsdevices/pkg/log"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	logLevel   string
	eventLog   string

	cfg     *config.Config
	logger  *slog.Logger
	session *log.SessionLogger
	file    *log.FileLogger
	lom     *lodcm.LODCM
}

// newRootCmd returns the lodcm command tree and the state its commands share.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "lodcm",
		Short: "Control a simulated Large Offset Dual Crystal Monochromator.",
		Long: `lodcm drives a simulated LODCM: it reports beam destinations, ` +
			`converts between photon energy and Bragg geometry, and moves ` +
			`crystal stages and diagnostics.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file (default: built-in XPP LODCM)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.StringVar(&a.eventLog, "event-log", "", "write device events to this CBOR file (overrides config)")

	root.AddCommand(
		a.statusCmd(),
		a.destinationCmd(),
		a.energyCmd(),
		a.moveCmd(),
		a.removeDiaCmd(),
		a.inspectCmd(),
		a.shellCmd(),
		logCmd(),
	)
	return root, a
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, a := newRootCmd()
	if err := a.execute(ctx, root); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs root and closes the event log whether or not the command
// failed. Cobra skips post-run hooks after a RunE error.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := a.closeEventLog(); cerr != nil {
		root.PrintErrln("Error:", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

// setup loads the configuration and the loggers.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.eventLog != "" {
		cfg.EventLog = a.eventLog
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// closeEventLog flushes and closes the event log, if one was opened.
func (a *app) closeEventLog() error {
	if a.file != nil {
		if err := a.file.Close(); err != nil {
			return fmt.Errorf("close event log: %w", err)
		}
		a.file = nil
	}
	return nil
}

// device builds the LODCM on first use and wires its loggers.
func (a *app) device() (*lodcm.LODCM, error) {
	if a.lom != nil {
		return a.lom, nil
	}

	lom, err := a.cfg.Build()
	if err != nil {
		return nil, err
	}

	sinks := []log.Logger{log.NewSlogAdapter(a.logger)}
	if a.cfg.EventLog != "" {
		file, err := log.NewFileLogger(a.cfg.EventLog)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		a.file = file
		sinks = append(sinks, file)
	}
	a.session = log.NewSessionLogger(sinks...)

	lom.SetLogger(a.logger)
	lom.SetEventLogger(a.session)
	lom.RecordSignalChanges()

	a.logger.Debug("device ready",
		"name", lom.Name(),
		"prefix", lom.Prefix(),
		"session_id", a.session.ID(),
	)
	a.lom = lom
	return lom, nil
}
