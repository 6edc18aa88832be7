package main

import (
	"github.com/spf13/cobra"

	"rtchat/internal/configs"
	"rtchat/internal/pkg/logx"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rtchat",
		Short:         "Real-time chat and call signaling server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd())
	return rootCmd
}

// loadConfig reads the configuration and initializes the global logger from it.
func loadConfig() (*configs.AppConfig, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}

	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
	return cfg, nil
}
