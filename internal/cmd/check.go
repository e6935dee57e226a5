package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the source tables",
	Long: `Count the rows of Customers, Orders and OrderDetails, plus the orders
that have no line items (they carry no order value and are left out of
every average) and orders whose customer is missing from Customers.`,
	RunE: checkTables,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkTables(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Checking source tables...")

	db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to check tables: %w", err)
	}

	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("   👥 Customers:     %d\n", stats.Customers)
	fmt.Printf("   🛒 Orders:        %d\n", stats.Orders)
	fmt.Printf("   📋 Order details: %d\n", stats.OrderDetails)
	fmt.Println(strings.Repeat("─", 40))

	if stats.OrdersWithoutItems > 0 {
		fmt.Printf("⚠️  %d order%s without line items (excluded from averages)\n",
			stats.OrdersWithoutItems, plural(stats.OrdersWithoutItems))
	}
	if stats.OrphanOrders > 0 {
		fmt.Printf("⚠️  %d order%s of unknown customers (excluded from per-customer averages)\n",
			stats.OrphanOrders, plural(stats.OrphanOrders))
	}

	if stats.Orders == 0 {
		fmt.Printf("💡 Try running: cartstats setup-sample-data\n")
		return nil
	}

	fmt.Println("✅ Tables look usable")
	return nil
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}
