package main

import (
	"fmt"

	"agrovision/internal/logger"
	"agrovision/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func getSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample dataset into an empty store",
		Long: `Connect to the configured storage backend and insert the sample farmer,
weather reading, disease alerts and agricultural stores. Nothing is written
when agricultural stores already exist.`,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	ctx := cmd.Context()

	log, syncLog, err := logger.New(cfg.LogCfg.Mode, cfg.LogCfg.Dir)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer syncLog()

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	seeded, err := repository.SeedIfEmpty(ctx, storage)
	if err != nil {
		return err
	}
	if seeded {
		log.Info("sample dataset inserted", zap.String("backend", cfg.StorageBackend))
		fmt.Fprintln(cmd.OutOrStdout(), "Sample dataset inserted")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Store already has data, nothing to seed")
	return nil
}
