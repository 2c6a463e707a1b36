package cmd

import (
	"fmt"
	"strconv"

	"github.com/TwilightLilyy/umatrack/internal/application"
	"github.com/spf13/cobra"
)

func newSpendCmd(app *app) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "spend <kind> <amount>",
		Short: "Record a resource spend",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			amount, err := strconv.Atoi(args[1])
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive integer, got %q", args[1])
			}

			status, err := app.service.Spend(cmd.Context(), application.SpendCommand{
				Kind:   kind,
				Amount: amount,
				Note:   note,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d\n", status.Label, status.Value, status.Cap)
			return err
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "optional note recorded with the spend")

	return cmd
}
