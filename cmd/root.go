package main

import (
	"fmt"

	"agrovision/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.AgroVisionConfig
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agrovision",
		Short: "AgroVision farmer dashboard API",
		Long: `AgroVision serves the farmer dashboard: profiles, crop photo diagnosis,
weather and disease alerts, agricultural stores and the voice assistant.

Running without a subcommand is the same as "agrovision serve".

Configuration precedence (highest to lowest):
  1. Environment variables (PORT, DATABASE_URL, GEMINI_API_KEY, ...)
  2. Config file (--config)
  3. Built-in defaults`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.New(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = loaded
			return nil
		},
		RunE: runServe,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"YAML config file; environment variables take precedence over it")

	rootCmd.AddCommand(getServeCmd())
	rootCmd.AddCommand(getSeedCmd())

	return rootCmd
}

func getConfig() *config.AgroVisionConfig {
	return cfg
}
