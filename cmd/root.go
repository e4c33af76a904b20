package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/moodmap/internal/config"
	"github.com/sells-group/moodmap/internal/metrics"
)

var (
	cfg         *config.Config
	showMetrics bool
)

var rootCmd = &cobra.Command{
	Use:   "moodmap",
	Short: "Find nearby places that fit a mood",
	Long:  "Resolves a free-text mood into place categories and keywords, searches Google Places around you, and ranks the results by relevance, rating, and distance.",
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
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer func() { _ = zap.L().Sync() }()
		if !showMetrics {
			return nil
		}
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		return metrics.WriteText(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print engine metrics in Prometheus text format after the command")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
