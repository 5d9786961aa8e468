package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bher20/locadora/internal/api"
	"github.com/bher20/locadora/internal/notification"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web form",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			mailer, err := notification.NewService(notification.Config{
				Provider:       a.cfg.EmailProvider,
				FromAddress:    a.cfg.EmailFromAddress,
				FromName:       a.cfg.EmailFromName,
				SendgridAPIKey: a.cfg.SendgridAPIKey,
				SMTPHost:       a.cfg.SMTPHost,
				SMTPPort:       a.cfg.SMTPPort,
				SMTPUsername:   a.cfg.SMTPUsername,
				SMTPPassword:   a.cfg.SMTPPassword,
			})
			if err != nil {
				return err
			}

			handler := api.NewRouter(api.Deps{
				Listings:           a.listings,
				Quotes:             a.quotes,
				Mailer:             mailer,
				Store:              a.store,
				LeadCeiling:        a.ceiling,
				RateLimitPerMinute: a.cfg.RateLimitPerMinute,
				Production:         a.cfg.IsProduction(),
			})

			if addr == "" {
				addr = a.cfg.Addr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("locadora: listening", "addr", addr, "email", mailer.Provider())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info("locadora: shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to LOCADORA_ADDR)")
	return cmd
}
