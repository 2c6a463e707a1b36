package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <kind>",
		Short: "Reset the wasted-at-cap window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			if err := app.service.ResetWindow(cmd.Context(), kind); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: wasted-at-cap window reset\n", kind.Label())
			return err
		},
	}
}
