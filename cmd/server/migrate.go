package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/yourname/devtrack/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres schema",
	Long: `Create the Postgres tables and indexes if they do not exist yet.

The file backend has no schema and needs no migration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.DBType != storage.BackendPostgres {
			return errors.New("migrate requires STORAGE_BACKEND=postgres")
		}
		pg, err := storage.NewPostgresStorage(cmd.Context(), cfg.DBDSN, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Schema is up to date")
		return nil
	},
}
