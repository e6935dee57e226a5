package ingest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/models"
)

// GenerateOptions sizes a generated sample dataset
type GenerateOptions struct {
	Seed      int64
	Customers int
	Orders    int
	Products  int
	// Start is the earliest order date; orders spread over the following year
	Start time.Time
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Seed:      1,
		Customers: 10,
		Orders:    50,
		Products:  15,
		Start:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate builds a deterministic sample dataset: the same options always
// produce the same rows. Every tenth order has no line items, which
// exercises the "no order value" path of the analytics.
func Generate(opts GenerateOptions) *models.Dataset {
	rnd := rand.New(rand.NewSource(opts.Seed))
	ds := &models.Dataset{}

	for i := 0; i < opts.Customers; i++ {
		ds.Customers = append(ds.Customers, models.Customer{CustomerID: fmt.Sprintf("C%03d", i+1)})
	}
	if opts.Customers == 0 || opts.Products == 0 {
		return ds
	}

	// Prices are whole cents between 0.10 and 199.99
	prices := make([]decimal.Decimal, opts.Products)
	for p := range prices {
		prices[p] = decimal.New(int64(10+rnd.Intn(19990)), -models.MoneyScale)
	}

	for i := 0; i < opts.Orders; i++ {
		orderID := int64(10248 + i)
		customer := ds.Customers[rnd.Intn(len(ds.Customers))]
		date := opts.Start.Add(time.Duration(rnd.Intn(365*24)) * time.Hour)

		ds.Orders = append(ds.Orders, models.Order{OrderID: orderID, CustomerID: customer.CustomerID, OrderDate: date})

		if i%10 == 9 {
			continue
		}

		itemCount := 1 + rnd.Intn(4)
		used := make(map[int]bool, itemCount)
		for item := 0; item < itemCount; item++ {
			product := rnd.Intn(opts.Products)
			if used[product] {
				continue
			}
			used[product] = true

			ds.OrderDetails = append(ds.OrderDetails, models.OrderDetail{
				OrderID:   orderID,
				ProductID: int64(product + 1),
				Quantity:  int64(1 + rnd.Intn(5)),
				UnitPrice: prices[product],
			})
		}
	}

	return ds
}
