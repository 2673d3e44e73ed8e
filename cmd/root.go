package cmd

import (
	"fmt"
	"os"

	"Tunebox/config"
	"Tunebox/logger"
	"Tunebox/server"

	"github.com/spf13/cobra"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tunebox",
	Short: "Tunebox is a personal music sharing service.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			configFile = os.Getenv("CONFIG_FILE")
		}
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.InitLogger(logger.DefaultConfig(cfg.LogLevel, cfg.LogFile))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cmd.Context(), cfg)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a TOML config file (default $CONFIG_FILE)")
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
