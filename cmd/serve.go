package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TwilightLilyy/umatrack/internal/adapters/notify"
	"github.com/TwilightLilyy/umatrack/internal/adapters/overlay"
	"github.com/TwilightLilyy/umatrack/internal/application"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/spf13/cobra"
)

func newServeCmd(app *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the poller and overlay server until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.cfg.GetString("overlay.addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			metrics := overlay.NewMetrics()
			hub := overlay.NewHub(app.log, metrics)
			server := overlay.NewServer(addr, hub, metrics, app.log)
			notifier := notify.NewLogNotifier(app.log)
			poller := application.NewPoller(app.service, ports.SystemClock{}, app.log, notifier, time.Second, hub, metrics)

			go hub.Run(ctx)
			go poller.Run(ctx)

			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "overlay listen address (default from config overlay.addr)")

	return cmd
}
