package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abarbosa-dev/vinexport/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vinexport",
	Short: "Brazilian wine export statistics pipeline",
	Long:  "Fetches Vitibrasil wine export tables per year, joins USD/BRL exchange rates and continent data, derives financial and volume metrics, writes CSV artifacts.",
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
