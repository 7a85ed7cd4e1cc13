package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/spec-kit/complaint-desk/internal/persistence"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded SQL migrations",
		RunE:  runMigrate,
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()
	if !pg.Enabled() {
		return errors.New("POSTGRES_DSN is required to run migrations")
	}
	return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger, migrateRollback)
}
