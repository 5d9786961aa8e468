package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bher20/locadora/internal/alerting"
	"github.com/bher20/locadora/internal/cron"
)

func newWorkerCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Refresh the listings snapshot on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sched, err := cron.ParseSchedule(a.cfg.RefreshSchedule)
			if err != nil {
				return err
			}
			alerter := alerting.NewAlerter(alerting.NewAlertConfig(
				a.cfg.AlertWebhookURL, a.cfg.AlertWebhookType, a.cfg.AlertMinFailures))

			w := cron.NewWorker(a.listings, a.store, sched, alerter)
			if once {
				return w.RunOnce(ctx)
			}
			a.log.Info("locadora: worker started", "schedule", a.cfg.RefreshSchedule, "alerts", a.cfg.AlertWebhookURL != "")
			return w.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "refresh once and exit")
	return cmd
}
