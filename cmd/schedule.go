package cmd

import (
	"fmt"
	"time"

	"github.com/TwilightLilyy/umatrack/internal/application"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *app) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "schedule <kind> [duration]",
		Short: "Anchor the regen grid so the next tick lands after a duration",
		Long:  "Anchor the regen grid so the next tick lands the given duration from now (accepted forms: \"10m\", \"1:30\", \"45\"). Use --clear to remove the anchor and return to spend-relative ticking.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			scheduleCmd := application.ScheduleCommand{Kind: kind, Clear: clear}
			if !clear {
				if len(args) < 2 {
					return fmt.Errorf("a duration is required unless --clear is set")
				}
				scheduleCmd.In = args[1]
			}

			status, err := app.service.ScheduleNext(cmd.Context(), scheduleCmd)
			if err != nil {
				return err
			}

			if clear {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: anchor cleared\n", status.Label)
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: next tick at %s\n",
				status.Label, time.UnixMilli(status.NextPoint).Format("15:04:05"))
			return err
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove the regen anchor")

	return cmd
}
