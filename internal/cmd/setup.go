package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/cartstats/internal/ingest"
)

var (
	dropFirst     bool
	skipData      bool
	seedCustomers int
	seedOrders    int
	seedProducts  int
	seedValue     int64
)

var setupCmd = &cobra.Command{
	Use:   "setup-sample-data",
	Short: "Set up database schema and sample data",
	Long: `Creates the Customers, Orders and OrderDetails tables and populates
them with a generated sample dataset.

The data is deterministic for a given --seed. Every tenth order is left
without line items so the "no order value" path is exercised.`,
	RunE: setupSampleData,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	defaults := ingest.DefaultGenerateOptions()
	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing tables before creating")
	setupCmd.Flags().BoolVar(&skipData, "schema-only", false, "Create schema only, skip sample data")
	setupCmd.Flags().IntVar(&seedCustomers, "customers", defaults.Customers, "Number of customers to generate")
	setupCmd.Flags().IntVar(&seedOrders, "orders", defaults.Orders, "Number of orders to generate")
	setupCmd.Flags().IntVar(&seedProducts, "products", defaults.Products, "Number of distinct products")
	setupCmd.Flags().Int64Var(&seedValue, "seed", defaults.Seed, "Random seed")
}

func setupSampleData(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up database...")
	ctx := cmd.Context()

	db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	// Drop tables if requested
	if dropFirst {
		fmt.Println("🗑️  Dropping existing tables...")
		if err := db.DropSchema(ctx); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	// Create schema
	fmt.Println("📋 Creating schema...")
	if err := db.SetupSchema(ctx); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	if !skipData {
		opts := ingest.DefaultGenerateOptions()
		opts.Seed = seedValue
		opts.Customers = seedCustomers
		opts.Orders = seedOrders
		opts.Products = seedProducts

		ds := ingest.Generate(opts)
		fmt.Printf("📊 Populating with %d customers, %d orders, %d order details...\n",
			len(ds.Customers), len(ds.Orders), len(ds.OrderDetails))

		if err := ingest.NewWriter(db).Write(ctx, ds); err != nil {
			return fmt.Errorf("failed to populate sample data: %w", err)
		}
	}

	fmt.Println("✅ Database setup complete!")
	return nil
}
