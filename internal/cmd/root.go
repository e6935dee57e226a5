package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/cartstats/internal/config"
	"github.com/matthieukhl/cartstats/internal/database"
	"github.com/matthieukhl/cartstats/internal/logging"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cartstats",
	Short: "cartstats - customer purchasing analytics",
	Long: `cartstats computes purchasing analytics over a Customers, Orders and
OrderDetails dataset: average order value per customer, the general
average order value, above-average customers, each customer's top
product and the average number of days between orders.

It can run as an HTTP server, print a one-off report, or seed a
database with sample data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search ./deploy, ., $HOME/.cartstats, /etc/cartstats)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect() (*database.DB, error) {
	logging.Debug().Str("driver", cfg.DB.Driver).Msg("connecting to database")

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
