package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dschmit00/sports-calendar/internal/ics"
)

func newCheckCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check <file.ics>",
		Short: "Parse a calendar file and report its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			body, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			report, err := ics.Verify(body)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d events\n", path, len(report.Events))
			if verbose {
				for _, ev := range report.Events {
					fmt.Fprintf(out, "  %s  %s  %s\n", ics.FormatTime(ev.Start), ev.UID, ev.Summary)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every event")
	return cmd
}
