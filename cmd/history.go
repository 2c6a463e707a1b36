package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	var (
		asJSON     bool
		withEvents bool
	)

	cmd := &cobra.Command{
		Use:   "history <kind>",
		Short: "Show recent samples and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			view, err := app.service.History(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			out := cmd.OutOrStdout()
			for _, p := range view.Snapshot.Points {
				_, _ = fmt.Fprintf(out, "%s\t%.0f\n", formatTS(p.TS), p.Value)
			}

			if !withEvents {
				return nil
			}

			for _, e := range view.Snapshot.Events {
				line := fmt.Sprintf("%s\t%s\t%.0f", formatTS(e.TS), e.Type, e.Value)
				if e.Delta != 0 {
					line += fmt.Sprintf("\t%+.0f", e.Delta)
				}
				if e.Note != "" {
					line += "\t" + e.Note
				}
				_, _ = fmt.Fprintln(out, line)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&withEvents, "events", false, "include discrete events")

	return cmd
}

func formatTS(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}
