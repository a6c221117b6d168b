package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kalender/config"
	"kalender/connection"
	"kalender/logging"
	"kalender/services"
	"kalender/store"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "kalender",
	Short:         "Task lists, calendar and notifications API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(remindCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds what every command needs.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	store store.Store
	svc   *services.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.Missing() {
		log.Warn("config file not found, using environment", zap.String("path", path))
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	st, err := connection.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	svc := services.New(st, services.NewTokenIssuer(cfg.JWT), log, services.WithLocation(loc))
	return &app{cfg: cfg, log: log, store: st, svc: svc}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close store", zap.Error(err))
	}
	_ = a.log.Sync()
}
