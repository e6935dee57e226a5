package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/cartstats/internal/analytics"
)

var (
	reportJSON   bool
	reportEngine string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every analytics query and print the results",
	Long: `Run the five analytics against the configured database and print
them. The sql engine runs each query in the database; the memory engine
loads the tables once and aggregates in process.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
	reportCmd.Flags().StringVar(&reportEngine, "engine", "", "Analytics engine: sql or memory (default from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	kind := reportEngine
	if kind == "" {
		kind = cfg.Analytics.Engine
	}

	engine, err := analytics.NewEngine(cmd.Context(), kind, db)
	if err != nil {
		return err
	}

	r, err := analytics.RunReport(cmd.Context(), analytics.NewInstrumented(engine, nil))
	if err != nil {
		return fmt.Errorf("failed to run report: %w", err)
	}

	if reportJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	printReport(cmd.OutOrStdout(), r)
	return nil
}

func printReport(w io.Writer, r *analytics.Report) {
	fmt.Fprintf(w, "\n💰 Average purchase per customer (%d)\n", len(r.AveragePurchase))
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, a := range r.AveragePurchase {
		fmt.Fprintf(w, "   %-12s %12s\n", a.CustomerID, a.Average.StringFixed(2))
	}

	fmt.Fprintf(w, "\n📊 General average order value: ")
	if r.GeneralAverage != nil {
		fmt.Fprintln(w, r.GeneralAverage.StringFixed(2))
	} else {
		fmt.Fprintln(w, "n/a")
	}

	fmt.Fprintf(w, "\n🏆 Best customers (%d)\n", len(r.BestCustomers))
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for i, a := range r.BestCustomers {
		fmt.Fprintf(w, "   %2d. %-12s %12s\n", i+1, a.CustomerID, a.Average.StringFixed(2))
	}

	fmt.Fprintf(w, "\n📦 Top product per customer (%d)\n", len(r.TopProducts))
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, p := range r.TopProducts {
		fmt.Fprintf(w, "   %-12s product %-6d %12s\n", p.CustomerID, p.ProductID, p.ProductValue.StringFixed(2))
	}

	fmt.Fprintf(w, "\n📅 Average days between orders: ")
	if r.AverageDaysBetweenOrders != nil {
		fmt.Fprintln(w, *r.AverageDaysBetweenOrders)
	} else {
		fmt.Fprintln(w, "n/a")
	}
}
