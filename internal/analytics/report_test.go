package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/models"
)

// stubEngine returns canned results, or err for every operation when set
type stubEngine struct {
	err     error
	general decimal.Decimal
	days    int
	noData  bool
}

func (s *stubEngine) AveragePurchase(context.Context) ([]models.CustomerAverage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.CustomerAverage{{CustomerID: "C1", Average: decimal.NewFromInt(10)}}, nil
}

func (s *stubEngine) GeneralAvgOrder(context.Context) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Decimal{}, s.err
	}
	if s.noData {
		return decimal.Decimal{}, ErrNoData
	}
	return s.general, nil
}

func (s *stubEngine) BestCustomers(context.Context) ([]models.CustomerAverage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.CustomerAverage{}, nil
}

func (s *stubEngine) TopOrderedProductPerCustomer(context.Context) ([]models.TopProduct, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.TopProduct{{CustomerID: "C1", ProductID: 1, ProductValue: decimal.NewFromInt(10)}}, nil
}

func (s *stubEngine) AverageDaysBetweenOrders(context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.noData {
		return 0, ErrNoData
	}
	return s.days, nil
}

func TestRunReport(t *testing.T) {
	ctx := context.Background()

	t.Run("collects every operation", func(t *testing.T) {
		r, err := RunReport(ctx, &stubEngine{general: decimal.NewFromInt(42), days: 7})
		if err != nil {
			t.Fatalf("RunReport error: %v", err)
		}
		if len(r.AveragePurchase) != 1 || len(r.TopProducts) != 1 {
			t.Errorf("Unexpected rows: %+v", r)
		}
		if r.BestCustomers == nil {
			t.Error("Expected empty, non-nil best customers")
		}
		if r.GeneralAverage == nil || !r.GeneralAverage.Equal(decimal.NewFromInt(42)) {
			t.Errorf("Expected general average 42, got %v", r.GeneralAverage)
		}
		if r.AverageDaysBetweenOrders == nil || *r.AverageDaysBetweenOrders != 7 {
			t.Errorf("Expected 7 days, got %v", r.AverageDaysBetweenOrders)
		}
	})

	t.Run("no data leaves scalars nil", func(t *testing.T) {
		r, err := RunReport(ctx, &stubEngine{noData: true})
		if err != nil {
			t.Fatalf("RunReport error: %v", err)
		}
		if r.GeneralAverage != nil {
			t.Errorf("Expected nil general average, got %v", r.GeneralAverage)
		}
		if r.AverageDaysBetweenOrders != nil {
			t.Errorf("Expected nil days, got %v", *r.AverageDaysBetweenOrders)
		}
	})

	t.Run("any failure fails the report", func(t *testing.T) {
		boom := errors.New("connection reset")
		if _, err := RunReport(ctx, &stubEngine{err: boom}); !errors.Is(err, boom) {
			t.Errorf("Expected %v, got %v", boom, err)
		}
	})

	t.Run("sqlite scenario", func(t *testing.T) {
		d := newDataset("C1").
			order(1, "C1", "2024-01-01").item(1, 1, 1, "100.00").
			order(2, "C1", "2024-01-11").item(2, 2, 2, "100.00")

		forEachEngine(t, d, func(t *testing.T, e Engine) {
			r, err := RunReport(ctx, e)
			if err != nil {
				t.Fatalf("RunReport error: %v", err)
			}
			assertAverages(t, r.AveragePurchase, []models.CustomerAverage{{CustomerID: "C1", Average: dec("150")}})
			if r.GeneralAverage == nil || !r.GeneralAverage.Equal(dec("150")) {
				t.Errorf("Expected general average 150, got %v", r.GeneralAverage)
			}
			if len(r.BestCustomers) != 0 {
				t.Errorf("Expected no best customers, got %+v", r.BestCustomers)
			}
			if len(r.TopProducts) != 1 || r.TopProducts[0].ProductID != 2 {
				t.Errorf("Expected product 2 on top, got %+v", r.TopProducts)
			}
			if r.AverageDaysBetweenOrders == nil || *r.AverageDaysBetweenOrders != 10 {
				t.Errorf("Expected 10 days, got %v", r.AverageDaysBetweenOrders)
			}
		})
	})
}
