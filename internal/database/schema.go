package database

import (
	"context"
	"fmt"
)

// schemaStatements renders the three source tables for a dialect. The
// analytics layer never writes; this exists for seeding and tests.
func schemaStatements(d Dialect) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Customers (
		    CustomerID %s NOT NULL PRIMARY KEY
		)`, d.customerIDType),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Orders (
		    OrderID BIGINT NOT NULL PRIMARY KEY,
		    CustomerID %s NOT NULL,
		    OrderDate %s NOT NULL
		)`, d.customerIDType, d.timestampType),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS OrderDetails (
		    OrderID BIGINT NOT NULL,
		    ProductID BIGINT NOT NULL,
		    Quantity INTEGER NOT NULL,
		    UnitPrice %s NOT NULL
		)`, d.moneyType),
	}
}

// SetupSchema creates the Customers, Orders and OrderDetails tables
func (db *DB) SetupSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements(db.Dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// CleanupData removes all rows (but keeps schema)
func (db *DB) CleanupData(ctx context.Context) error {
	queries := []string{
		"DELETE FROM OrderDetails",
		"DELETE FROM Orders",
		"DELETE FROM Customers",
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to clean up data: %w", err)
		}
	}

	return nil
}

// DropSchema removes the three tables
func (db *DB) DropSchema(ctx context.Context) error {
	queries := []string{
		"DROP TABLE IF EXISTS OrderDetails",
		"DROP TABLE IF EXISTS Orders",
		"DROP TABLE IF EXISTS Customers",
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	return nil
}
