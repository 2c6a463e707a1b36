package cmd

import (
	"encoding/json"
	"fmt"

	statusadapter "github.com/TwilightLilyy/umatrack/internal/adapters/render/status"
	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current resource values and analytics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.service.Status(cmd.Context())
			if err != nil {
				return err
			}

			return writeStatusesOutput(cmd, app, statuses, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func writeStatusesOutput(cmd *cobra.Command, app *app, statuses []domain.ResourceStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	rendered, err := app.statusRenderer(statuses, statusadapter.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
