package cmd

import (
	"fmt"
	"strings"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "umatrack",
		Short:         "umatrack: track regenerating game resources from the terminal",
		Long:          "umatrack tracks regenerating game resources (TP and RP), keeps a sampled history, computes time-to-full and wasted-at-cap analytics, and republishes live snapshots to a streaming overlay.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(app),
		newWatchCmd(app),
		newSpendCmd(app),
		newSetCmd(app),
		newScheduleCmd(app),
		newResetCmd(app),
		newHistoryCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}

func parseKind(arg string) (domain.Kind, error) {
	kind := domain.Kind(strings.ToLower(strings.TrimSpace(arg)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q (known kinds: tp, rp)", domain.ErrUnknownKind, arg)
	}

	return kind, nil
}
