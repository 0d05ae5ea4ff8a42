package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/ecco/internal/config"
	"github.com/agenthands/ecco/internal/core"
	"github.com/agenthands/ecco/internal/logging"
	"github.com/agenthands/ecco/internal/metrics"
	"github.com/agenthands/ecco/internal/reasoner"
	"github.com/agenthands/ecco/internal/store"
)

const defaultConfigPath = "ecco.toml"

type app struct {
	cfgPath string
	cfg     *config.Config
	logger  *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "ecco",
		Short:        "Compare ontology versions and reasoner outputs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ecco.toml if present)")

	rootCmd.AddCommand(diffCmd(a))
	rootCmd.AddCommand(compareCmd(a))
	rootCmd.AddCommand(verifyCmd(a))
	rootCmd.AddCommand(sampleCmd(a))
	rootCmd.AddCommand(harvestCmd(a))
	rootCmd.AddCommand(runsCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}

func (a *app) init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := config.Default()
	path := a.cfgPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

// engine wires the reasoner, run history and metrics. Callers must Close it.
func (a *app) engine(ctx context.Context) (*core.Ecco, error) {
	factory, err := reasoner.NewFactory(a.cfg.Reasoner)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, a.cfg.Storage, a.logger)
	if err != nil {
		return nil, err
	}
	return core.NewEcco(a.cfg, factory, st, metrics.New(), a.logger), nil
}
