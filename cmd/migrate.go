package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rtchat/internal/app/db"
	"rtchat/internal/pkg/logx"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [command] [args...]",
		Short: "Run database migrations (up, down, status, version, redo, reset, up-to, down-to)",
		Long: "Run goose migrations embedded in the binary against DATABASE_URL.\n" +
			"The command defaults to \"up\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command, args = args[0], args[1:]
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			pool, err := db.NewPool(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(cmd.Context(), pool, command, args...); err != nil {
				return fmt.Errorf("migrate %s: %w", command, err)
			}

			logx.Info("Migration command finished", "command", command)
			return nil
		},
	}
}
