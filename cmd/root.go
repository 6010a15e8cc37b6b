package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtsource/hooprank/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hooprank",
	Short: "Season-adjusted NBA player ratings",
	Long:  "Scrapes basketball-reference season tables, normalizes stats against position peers, and folds them into a single cross-era rating per player season.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
