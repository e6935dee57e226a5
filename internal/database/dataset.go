package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matthieukhl/cartstats/internal/models"
)

// LoadDataset reads the three source tables into memory
func (db *DB) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	var ds models.Dataset

	rows, err := db.QueryContext(ctx, "SELECT CustomerID FROM Customers ORDER BY CustomerID")
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.CustomerID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		ds.Customers = append(ds.Customers, c)
	}
	if err := closeRows(rows, "customers"); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, "SELECT OrderID, CustomerID, OrderDate FROM Orders ORDER BY OrderID")
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.OrderDate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		ds.Orders = append(ds.Orders, o)
	}
	if err := closeRows(rows, "orders"); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, "SELECT OrderID, ProductID, Quantity, UnitPrice FROM OrderDetails ORDER BY OrderID, ProductID")
	if err != nil {
		return nil, fmt.Errorf("failed to query order details: %w", err)
	}
	for rows.Next() {
		var d models.OrderDetail
		if err := rows.Scan(&d.OrderID, &d.ProductID, &d.Quantity, &d.UnitPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order detail: %w", err)
		}
		ds.OrderDetails = append(ds.OrderDetails, d)
	}
	if err := closeRows(rows, "order details"); err != nil {
		return nil, err
	}

	return &ds, nil
}

// Stats counts rows per table plus the orders that cannot contribute an
// order value (no line items) and orders of unknown customers
func (db *DB) Stats(ctx context.Context) (*models.TableStats, error) {
	var stats models.TableStats

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM Customers", &stats.Customers},
		{"SELECT COUNT(*) FROM Orders", &stats.Orders},
		{"SELECT COUNT(*) FROM OrderDetails", &stats.OrderDetails},
		{`SELECT COUNT(*) FROM Orders o
		  WHERE NOT EXISTS (SELECT 1 FROM OrderDetails od WHERE od.OrderID = o.OrderID)`, &stats.OrdersWithoutItems},
		{`SELECT COUNT(*) FROM Orders o
		  WHERE NOT EXISTS (SELECT 1 FROM Customers c WHERE c.CustomerID = o.CustomerID)`, &stats.OrphanOrders},
	}

	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	return &stats, nil
}

func closeRows(rows *sql.Rows, what string) error {
	defer rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s: %w", what, err)
	}
	return nil
}
