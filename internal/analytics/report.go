package analytics

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/matthieukhl/cartstats/internal/models"
)

// Report holds the result of all five operations. The scalar fields are nil
// when the dataset has nothing to average.
type Report struct {
	AveragePurchase          []models.CustomerAverage `json:"average_purchase"`
	GeneralAverage           *decimal.Decimal         `json:"general_average"`
	BestCustomers            []models.CustomerAverage `json:"best_customers"`
	TopProducts              []models.TopProduct      `json:"top_products"`
	AverageDaysBetweenOrders *int                     `json:"average_days_between_orders"`
}

// RunReport runs every operation concurrently. The operations share no
// state, so the only coordination is waiting for all of them; any failure
// fails the report.
func RunReport(ctx context.Context, e Engine) (*Report, error) {
	var r Report
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		r.AveragePurchase, err = e.AveragePurchase(ctx)
		return err
	})
	g.Go(func() error {
		avg, err := e.GeneralAvgOrder(ctx)
		if errors.Is(err, ErrNoData) {
			return nil
		}
		if err != nil {
			return err
		}
		r.GeneralAverage = &avg
		return nil
	})
	g.Go(func() (err error) {
		r.BestCustomers, err = e.BestCustomers(ctx)
		return err
	})
	g.Go(func() (err error) {
		r.TopProducts, err = e.TopOrderedProductPerCustomer(ctx)
		return err
	})
	g.Go(func() error {
		days, err := e.AverageDaysBetweenOrders(ctx)
		if errors.Is(err, ErrNoData) {
			return nil
		}
		if err != nil {
			return err
		}
		r.AverageDaysBetweenOrders = &days
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &r, nil
}
