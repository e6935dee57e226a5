package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/logging"
	"github.com/matthieukhl/cartstats/internal/metrics"
	"github.com/matthieukhl/cartstats/internal/models"
)

// Operation names used as metric labels and log fields
const (
	OpAveragePurchase   = "average_purchase"
	OpGeneralAvgOrder   = "general_avg_order"
	OpBestCustomers     = "best_customers"
	OpTopProducts       = "top_products"
	OpDaysBetweenOrders = "days_between_orders"
)

// Instrumented wraps an Engine with logging and prometheus metrics
type Instrumented struct {
	next    Engine
	metrics *metrics.Registry
	log     zerolog.Logger
}

// NewInstrumented decorates next. reg may be nil to log only.
func NewInstrumented(next Engine, reg *metrics.Registry) *Instrumented {
	return &Instrumented{
		next:    next,
		metrics: reg,
		log:     logging.With().Str("component", "analytics").Logger(),
	}
}

func (e *Instrumented) observe(op string, start time.Time, rows int, err error) {
	elapsed := time.Since(start)

	if e.metrics != nil {
		e.metrics.QueryDuration.WithLabelValues(op).Observe(elapsed.Seconds())
		if err != nil && !errors.Is(err, ErrNoData) {
			e.metrics.QueryErrors.WithLabelValues(op).Inc()
		}
	}

	switch {
	case errors.Is(err, ErrNoData):
		e.log.Debug().Str("operation", op).Dur("elapsed", elapsed).Msg("no data to aggregate")
	case err != nil:
		e.log.Error().Err(err).Str("operation", op).Dur("elapsed", elapsed).Msg("analytics query failed")
	default:
		e.log.Debug().Str("operation", op).Int("rows", rows).Dur("elapsed", elapsed).Msg("analytics query finished")
	}
}

func (e *Instrumented) AveragePurchase(ctx context.Context) ([]models.CustomerAverage, error) {
	start := time.Now()
	res, err := e.next.AveragePurchase(ctx)
	e.observe(OpAveragePurchase, start, len(res), err)
	return res, err
}

func (e *Instrumented) GeneralAvgOrder(ctx context.Context) (decimal.Decimal, error) {
	start := time.Now()
	res, err := e.next.GeneralAvgOrder(ctx)
	e.observe(OpGeneralAvgOrder, start, 1, err)
	return res, err
}

func (e *Instrumented) BestCustomers(ctx context.Context) ([]models.CustomerAverage, error) {
	start := time.Now()
	res, err := e.next.BestCustomers(ctx)
	e.observe(OpBestCustomers, start, len(res), err)
	return res, err
}

func (e *Instrumented) TopOrderedProductPerCustomer(ctx context.Context) ([]models.TopProduct, error) {
	start := time.Now()
	res, err := e.next.TopOrderedProductPerCustomer(ctx)
	e.observe(OpTopProducts, start, len(res), err)
	return res, err
}

func (e *Instrumented) AverageDaysBetweenOrders(ctx context.Context) (int, error) {
	start := time.Now()
	res, err := e.next.AverageDaysBetweenOrders(ctx)
	e.observe(OpDaysBetweenOrders, start, 1, err)
	return res, err
}
