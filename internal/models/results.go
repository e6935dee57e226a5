package models

import "github.com/shopspring/decimal"

// CustomerAverage is the average order value of one customer, rounded to 2 decimals
type CustomerAverage struct {
	CustomerID string          `json:"customer_id"`
	Average    decimal.Decimal `json:"average"`
}

// TopProduct is a rank-1 product of one customer by total ordered amount
type TopProduct struct {
	CustomerID   string          `json:"customer_id"`
	ProductID    int64           `json:"product_id"`
	ProductValue decimal.Decimal `json:"product_value"`
}

// TableStats summarizes the row counts of the source tables
type TableStats struct {
	Customers          int64 `json:"customers"`
	Orders             int64 `json:"orders"`
	OrderDetails       int64 `json:"order_details"`
	OrdersWithoutItems int64 `json:"orders_without_items"`
	OrphanOrders       int64 `json:"orphan_orders"`
}
