package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/cartstats/internal/analytics"
	"github.com/matthieukhl/cartstats/internal/logging"
	"github.com/matthieukhl/cartstats/internal/metrics"
	"github.com/matthieukhl/cartstats/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the cartstats HTTP server",
	Long: `Start the cartstats HTTP server which provides:
- REST API for the five analytics under /api/analytics
- A combined report at /api/analytics/report
- Prometheus metrics at /metrics`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 cartstats starting...")

	fmt.Println("🔌 Connecting to database...")
	db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("✅ Database connected successfully")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := analytics.NewEngine(ctx, cfg.Analytics.Engine, db)
	if err != nil {
		return err
	}

	fmt.Println("⚙️  Setting up server...")
	reg := metrics.NewRegistry()
	srv := server.NewServer(db, analytics.NewInstrumented(engine, reg), reg)

	logging.Info().Str("addr", cfg.Server.Addr).Str("engine", cfg.Analytics.Engine).Msg("serving analytics")
	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	fmt.Println("👋 Server stopped")
	return nil
}
