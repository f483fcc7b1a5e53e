package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xavierca1/rog-store/internal/config"
	"github.com/xavierca1/rog-store/internal/logger"
	"go.uber.org/zap"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rog-store",
	Short: "Loja e back-office da ROG Membranas",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		var err error
		log, err = logger.New(cfg.Env, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("falha ao iniciar logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, quoteCmd, flowsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
