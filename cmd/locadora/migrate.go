package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bher20/locadora/internal/config"
	"github.com/bher20/locadora/internal/logger"
	"github.com/bher20/locadora/internal/migrate"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL schema for the sqlite and postgres backends",
	}
	run := func(name string, fn func(cmd *cobra.Command, cfg *config.Config) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: name + " migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				logger.Initialize(cfg.LogLevel, cfg.LogFormat)
				if !isSQLDriver(cfg.DBDriver) {
					return fmt.Errorf("migrate: driver %q has no SQL schema", cfg.DBDriver)
				}
				return fn(cmd, cfg)
			},
		}
	}
	cmd.AddCommand(
		run("up", func(cmd *cobra.Command, cfg *config.Config) error {
			if err := migrate.Up(cmd.Context(), cfg.DBDriver, cfg.DBDSN); err != nil {
				return err
			}
			v, err := migrate.Version(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", v)
			return nil
		}),
		run("down", func(cmd *cobra.Command, cfg *config.Config) error {
			return migrate.Down(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
		}),
		run("status", func(cmd *cobra.Command, cfg *config.Config) error {
			return migrate.Status(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
		}),
	)
	return cmd
}
