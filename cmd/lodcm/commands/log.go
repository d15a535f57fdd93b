package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jortiz-slac/pcdsdevices/pkg/log"
)

// ViewOptions specifies criteria for filtering events in the view command.
type ViewOptions struct {
	Device    string
	SessionID string
	Category  string
	TimeStart string
	TimeEnd   string
}

// Filter converts the options into a log filter.
func (o ViewOptions) Filter() (log.Filter, error) {
	f := log.Filter{
		Device:    o.Device,
		SessionID: o.SessionID,
	}
	if o.Category != "" {
		c, ok := log.ParseCategory(strings.ToUpper(o.Category))
		if !ok {
			return f, fmt.Errorf("invalid category %q (valid: MOVE, SIGNAL, ERROR)", o.Category)
		}
		f.Category = &c
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return f, fmt.Errorf("invalid time-start: %w", err)
		}
		f.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return f, fmt.Errorf("invalid time-end: %w", err)
		}
		f.TimeEnd = &t
	}
	return f, nil
}

func logCmd() *cobra.Command {
	logs := &cobra.Command{
		Use:   "log",
		Short: "Work with device event logs.",
	}

	var opts ViewOptions
	view := &cobra.Command{
		Use:   "view <file.dlog>",
		Short: "View a device event log in human-readable format.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := opts.Filter()
			if err != nil {
				return err
			}
			return RunView(args[0], filter, cmd.OutOrStdout())
		},
	}
	flags := view.Flags()
	flags.StringVar(&opts.Device, "device", "", "filter by device name")
	flags.StringVar(&opts.SessionID, "session", "", "filter by session id")
	flags.StringVar(&opts.Category, "category", "", "filter by category (MOVE, SIGNAL, ERROR)")
	flags.StringVar(&opts.TimeStart, "time-start", "", "filter by start time (RFC3339)")
	flags.StringVar(&opts.TimeEnd, "time-end", "", "filter by end time (RFC3339)")

	logs.AddCommand(view)
	return logs
}

// RunView reads the log file at path and writes matching events to output.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [session:%s] %-6s %s\n", ts, shortenID(event.SessionID), event.Category, event.Device)

	switch {
	case event.Move != nil:
		fmt.Fprintf(w, "  %s -> %s\n", event.Move.From, event.Move.To)
	case event.Signal != nil:
		fmt.Fprintf(w, "  %s: %s -> %s\n", event.Signal.Path, event.Signal.Old, event.Signal.New)
		if event.Signal.PV != "" {
			fmt.Fprintf(w, "  PV: %s\n", event.Signal.PV)
		}
	case event.Error != nil:
		fmt.Fprintf(w, "  Error: %s\n", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a session id.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
