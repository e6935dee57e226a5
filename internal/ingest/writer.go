package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matthieukhl/cartstats/internal/database"
	"github.com/matthieukhl/cartstats/internal/models"
)

// Writer loads datasets into the source tables. It is seeding tooling; the
// analytics layer itself never writes.
type Writer struct {
	db *database.DB
}

func NewWriter(db *database.DB) *Writer {
	return &Writer{db: db}
}

// Write inserts every row of ds in a single transaction
func (w *Writer) Write(ctx context.Context, ds *models.Dataset) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAll(ctx, tx, "INSERT INTO Customers (CustomerID) VALUES (?)", len(ds.Customers), func(i int) []any {
		return []any{ds.Customers[i].CustomerID}
	}); err != nil {
		return fmt.Errorf("failed to insert customers: %w", err)
	}

	if err := insertAll(ctx, tx, "INSERT INTO Orders (OrderID, CustomerID, OrderDate) VALUES (?, ?, ?)", len(ds.Orders), func(i int) []any {
		o := ds.Orders[i]
		return []any{o.OrderID, o.CustomerID, o.OrderDate.UTC()}
	}); err != nil {
		return fmt.Errorf("failed to insert orders: %w", err)
	}

	if err := insertAll(ctx, tx, "INSERT INTO OrderDetails (OrderID, ProductID, Quantity, UnitPrice) VALUES (?, ?, ?, ?)", len(ds.OrderDetails), func(i int) []any {
		d := ds.OrderDetails[i]
		return []any{d.OrderID, d.ProductID, d.Quantity, w.db.Dialect.MoneyValue(d.UnitPrice)}
	}); err != nil {
		return fmt.Errorf("failed to insert order details: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}
