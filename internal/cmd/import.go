package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/cartstats/internal/ingest"
	"github.com/matthieukhl/cartstats/internal/logging"
)

var importDir string

var importCmd = &cobra.Command{
	Use:   "import-csv",
	Short: "Import customers, orders and order details from CSV files",
	Long: `Import customers.csv, orders.csv and order_details.csv from a
directory into the configured database. Each file needs a header row
with Northwind-style column names (CustomerID, OrderID, OrderDate,
ProductID, Quantity, UnitPrice). The schema is created if missing.`,
	RunE: importCSV,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDir, "dir", ".", "Directory containing the CSV files")
}

func importCSV(cmd *cobra.Command, args []string) error {
	fmt.Printf("🔄 Importing CSV files from %s...\n", importDir)
	ctx := cmd.Context()

	ds, err := ingest.ReadCSVDir(importDir)
	if err != nil {
		return fmt.Errorf("failed to read CSV files: %w", err)
	}
	logging.Debug().
		Int("customers", len(ds.Customers)).
		Int("orders", len(ds.Orders)).
		Int("order_details", len(ds.OrderDetails)).
		Msg("parsed CSV files")

	db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetupSchema(ctx); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	if err := ingest.NewWriter(db).Write(ctx, ds); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	fmt.Printf("\n📋 Imported %d customers, %d orders, %d order details\n",
		len(ds.Customers), len(ds.Orders), len(ds.OrderDetails))
	fmt.Printf("💡 Use 'cartstats report' to see the analytics\n")
	return nil
}
