package cmd

import (
	"fmt"
	"strconv"

	"github.com/TwilightLilyy/umatrack/internal/application"
	"github.com/spf13/cobra"
)

func newSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <kind> <value>",
		Short: "Overwrite the current value with a manual reading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			value, err := strconv.Atoi(args[1])
			if err != nil || value < 0 {
				return fmt.Errorf("value must be a non-negative integer, got %q", args[1])
			}

			status, err := app.service.SetValue(cmd.Context(), application.SetValueCommand{
				Kind:  kind,
				Value: value,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d\n", status.Label, status.Value, status.Cap)
			return err
		},
	}
}
