package ingest_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/database"
	"github.com/matthieukhl/cartstats/internal/ingest"
	"github.com/matthieukhl/cartstats/internal/models"
	"github.com/matthieukhl/cartstats/internal/testinfra"
)

func TestWriter(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip through sqlite", func(t *testing.T) {
		db := testinfra.NewSQLiteDB(t)
		ds := ingest.Generate(ingest.DefaultGenerateOptions())

		if err := ingest.NewWriter(db).Write(ctx, ds); err != nil {
			t.Fatalf("Write error: %v", err)
		}

		stats, err := db.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats error: %v", err)
		}
		if stats.Customers != int64(len(ds.Customers)) || stats.Orders != int64(len(ds.Orders)) ||
			stats.OrderDetails != int64(len(ds.OrderDetails)) {
			t.Errorf("Row counts %+v do not match dataset", stats)
		}
		if stats.OrdersWithoutItems != int64(len(ds.Orders)/10) {
			t.Errorf("Expected %d orders without items, got %d", len(ds.Orders)/10, stats.OrdersWithoutItems)
		}
	})

	t.Run("prices survive the money column", func(t *testing.T) {
		for _, open := range []struct {
			name string
			fn   func(t *testing.T) *database.DB
		}{
			{"sqlite", testinfra.NewSQLiteDB},
			{"duckdb", testinfra.NewDuckDB},
		} {
			t.Run(open.name, func(t *testing.T) {
				db := open.fn(t)
				prices := []string{"0.10", "0.20", "19.99", "1234.56"}
				ds := &models.Dataset{}
				for i, p := range prices {
					ds.OrderDetails = append(ds.OrderDetails, models.OrderDetail{
						OrderID: 1, ProductID: int64(i + 1), Quantity: 1, UnitPrice: decimal.RequireFromString(p),
					})
				}

				if err := ingest.NewWriter(db).Write(ctx, ds); err != nil {
					t.Fatalf("Write error: %v", err)
				}
				loaded, err := db.LoadDataset(ctx)
				if err != nil {
					t.Fatalf("LoadDataset error: %v", err)
				}
				for i, p := range prices {
					if got := loaded.OrderDetails[i].UnitPrice; !got.Equal(decimal.RequireFromString(p)) {
						t.Errorf("Product %d: expected price %s, got %s", i+1, p, got)
					}
				}
			})
		}
	})

	t.Run("failure rolls back", func(t *testing.T) {
		db := testinfra.NewSQLiteDB(t)
		ds := &models.Dataset{
			Customers: []models.Customer{{CustomerID: "C1"}, {CustomerID: "C1"}},
		}

		if err := ingest.NewWriter(db).Write(ctx, ds); err == nil {
			t.Fatal("Expected duplicate key error")
		}

		stats, err := db.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats error: %v", err)
		}
		if stats.Customers != 0 {
			t.Errorf("Expected rollback to leave no customers, got %d", stats.Customers)
		}
	})
}
