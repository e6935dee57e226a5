// Package analytics computes customer purchasing analytics over the
// Customers, Orders and OrderDetails tables.
//
// Two engines implement the same contracts: SQLEngine runs one aggregate
// query per operation against a database, Pipeline aggregates an in-memory
// Dataset snapshot. Every operation is read-only and independent of the
// others.
package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/database"
	"github.com/matthieukhl/cartstats/internal/models"
)

// ErrNoData is returned by the scalar operations when the dataset holds
// nothing to average (no order with line items, or no customer with two
// orders).
var ErrNoData = errors.New("analytics: no data to aggregate")

// Engine is the analytics query layer
type Engine interface {
	// AveragePurchase returns each customer's mean order value, rounded to
	// 2 decimals, ascending by CustomerID
	AveragePurchase(ctx context.Context) ([]models.CustomerAverage, error)
	// GeneralAvgOrder returns the unrounded mean order value over all orders
	GeneralAvgOrder(ctx context.Context) (decimal.Decimal, error)
	// BestCustomers returns customers whose mean order value is strictly
	// above the rounded general average, descending by average
	BestCustomers(ctx context.Context) ([]models.CustomerAverage, error)
	// TopOrderedProductPerCustomer returns every product tied for first
	// place per customer, descending by ProductValue
	TopOrderedProductPerCustomer(ctx context.Context) ([]models.TopProduct, error)
	// AverageDaysBetweenOrders returns the rounded mean gap in days between
	// consecutive orders of the same customer, across all customers
	AverageDaysBetweenOrders(ctx context.Context) (int, error)
}

// Querier is the dataset access capability the SQL engine needs.
// *sql.DB, *sql.Conn and *database.DB all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLEngine runs the analytics as aggregate queries
type SQLEngine struct {
	q       Querier
	dialect database.Dialect
}

func NewSQLEngine(q Querier, dialect database.Dialect) *SQLEngine {
	return &SQLEngine{q: q, dialect: dialect}
}

func (e *SQLEngine) AveragePurchase(ctx context.Context) ([]models.CustomerAverage, error) {
	return e.customerAverages(ctx, averagePurchaseQuery(e.dialect), "average purchase")
}

func (e *SQLEngine) GeneralAvgOrder(ctx context.Context) (decimal.Decimal, error) {
	var total sql.NullInt64
	var orders int64
	if err := e.q.QueryRowContext(ctx, generalAvgOrderQuery(e.dialect)).Scan(&total, &orders); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to query general average: %w", err)
	}
	if !total.Valid || orders == 0 {
		return decimal.Decimal{}, ErrNoData
	}
	return fromCents(total.Int64).Div(decimal.NewFromInt(orders)), nil
}

func (e *SQLEngine) BestCustomers(ctx context.Context) ([]models.CustomerAverage, error) {
	return e.customerAverages(ctx, bestCustomersQuery(e.dialect), "best customers")
}

func (e *SQLEngine) TopOrderedProductPerCustomer(ctx context.Context) ([]models.TopProduct, error) {
	rows, err := e.q.QueryContext(ctx, topOrderedProductQuery(e.dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	products := []models.TopProduct{}
	for rows.Next() {
		var p models.TopProduct
		var cents int64
		if err := rows.Scan(&p.CustomerID, &p.ProductID, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		p.ProductValue = fromCents(cents)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return products, nil
}

func (e *SQLEngine) AverageDaysBetweenOrders(ctx context.Context) (int, error) {
	var days sql.NullFloat64
	if err := e.q.QueryRowContext(ctx, averageDaysBetweenOrdersQuery(e.dialect)).Scan(&days); err != nil {
		return 0, fmt.Errorf("failed to query days between orders: %w", err)
	}
	if !days.Valid {
		return 0, ErrNoData
	}
	// already rounded by the query
	return int(math.Round(days.Float64)), nil
}

func (e *SQLEngine) customerAverages(ctx context.Context, query, what string) ([]models.CustomerAverage, error) {
	rows, err := e.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	averages := []models.CustomerAverage{}
	for rows.Next() {
		var a models.CustomerAverage
		var cents int64
		if err := rows.Scan(&a.CustomerID, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		a.Average = fromCents(cents)
		averages = append(averages, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}

	return averages, nil
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -models.MoneyScale)
}

// Engine kinds accepted by NewEngine
const (
	EngineSQL    = "sql"
	EngineMemory = "memory"
)

// NewEngine builds the engine named by kind on top of db. The memory engine
// snapshots the tables once; later writes to db are not visible to it.
func NewEngine(ctx context.Context, kind string, db *database.DB) (Engine, error) {
	switch kind {
	case EngineSQL, "":
		return NewSQLEngine(db, db.Dialect), nil
	case EngineMemory:
		ds, err := db.LoadDataset(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		return NewPipeline(ds), nil
	default:
		return nil, fmt.Errorf("unknown analytics engine: %s", kind)
	}
}
