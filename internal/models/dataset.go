package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a row of the Customers table
type Customer struct {
	CustomerID string `json:"customer_id" db:"CustomerID"`
}

// Order represents a row of the Orders table
type Order struct {
	OrderID    int64     `json:"order_id" db:"OrderID"`
	CustomerID string    `json:"customer_id" db:"CustomerID"`
	OrderDate  time.Time `json:"order_date" db:"OrderDate"`
}

// OrderDetail is one line item of an order
type OrderDetail struct {
	OrderID   int64           `json:"order_id" db:"OrderID"`
	ProductID int64           `json:"product_id" db:"ProductID"`
	Quantity  int64           `json:"quantity" db:"Quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"UnitPrice"`
}

// MoneyScale is the number of decimal places money is kept at. Prices with
// more places are rounded to it.
const MoneyScale = 2

// Value returns Quantity × UnitPrice, with UnitPrice rounded to MoneyScale
func (d OrderDetail) Value() decimal.Decimal {
	return d.UnitPrice.Round(MoneyScale).Mul(decimal.NewFromInt(d.Quantity))
}

// Dataset is a read snapshot of the three source tables
type Dataset struct {
	Customers    []Customer    `json:"customers"`
	Orders       []Order       `json:"orders"`
	OrderDetails []OrderDetail `json:"order_details"`
}
