package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/models"
)

// Pipeline computes the analytics in process over a Dataset snapshot. It
// follows the join semantics of the SQL engine exactly: line items of
// unknown orders still count towards the best-customers threshold, and
// orders of unknown customers still count towards top products and gaps.
type Pipeline struct {
	ds *models.Dataset
}

func NewPipeline(ds *models.Dataset) *Pipeline {
	if ds == nil {
		ds = &models.Dataset{}
	}
	return &Pipeline{ds: ds}
}

// summary accumulates a mean without rounding
type summary struct {
	sum   decimal.Decimal
	count int64
}

func (s *summary) add(v decimal.Decimal) {
	s.sum = s.sum.Add(v)
	s.count++
}

func (s summary) mean() decimal.Decimal {
	return s.sum.Div(decimal.NewFromInt(s.count))
}

// orderValues totals line items per OrderID, in first-seen order
func (p *Pipeline) orderValues() (map[int64]decimal.Decimal, []int64) {
	values := make(map[int64]decimal.Decimal)
	var order []int64
	for _, d := range p.ds.OrderDetails {
		v, seen := values[d.OrderID]
		if !seen {
			order = append(order, d.OrderID)
		}
		values[d.OrderID] = v.Add(d.Value())
	}
	return values, order
}

// customerSummaries averages order values per known customer
func (p *Pipeline) customerSummaries() map[string]*summary {
	values, _ := p.orderValues()

	summaries := make(map[string]*summary, len(p.ds.Customers))
	for _, c := range p.ds.Customers {
		summaries[c.CustomerID] = nil
	}

	for _, o := range p.ds.Orders {
		v, ok := values[o.OrderID]
		if !ok {
			continue
		}
		s, known := summaries[o.CustomerID]
		if !known {
			continue
		}
		if s == nil {
			s = &summary{}
			summaries[o.CustomerID] = s
		}
		s.add(v)
	}

	for id, s := range summaries {
		if s == nil {
			delete(summaries, id)
		}
	}
	return summaries
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Pipeline) AveragePurchase(ctx context.Context) ([]models.CustomerAverage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summaries := p.customerSummaries()
	averages := make([]models.CustomerAverage, 0, len(summaries))
	for _, id := range sortedKeys(summaries) {
		averages = append(averages, models.CustomerAverage{
			CustomerID: id,
			Average:    summaries[id].mean().Round(2),
		})
	}
	return averages, nil
}

func (p *Pipeline) GeneralAvgOrder(ctx context.Context) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, err
	}

	known := make(map[int64]bool, len(p.ds.Orders))
	for _, o := range p.ds.Orders {
		known[o.OrderID] = true
	}

	values, order := p.orderValues()
	var s summary
	for _, id := range order {
		if known[id] {
			s.add(values[id])
		}
	}
	if s.count == 0 {
		return decimal.Decimal{}, ErrNoData
	}
	return s.mean(), nil
}

func (p *Pipeline) BestCustomers(ctx context.Context) ([]models.CustomerAverage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// threshold over every order value, orphans included
	values, order := p.orderValues()
	var all summary
	for _, id := range order {
		all.add(values[id])
	}
	best := []models.CustomerAverage{}
	if all.count == 0 {
		return best, nil
	}
	threshold := all.mean().Round(2)

	summaries := p.customerSummaries()
	for _, id := range sortedKeys(summaries) {
		mean := summaries[id].mean()
		if mean.GreaterThan(threshold) {
			best = append(best, models.CustomerAverage{CustomerID: id, Average: mean.Round(2)})
		}
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Average.GreaterThan(best[j].Average)
	})
	return best, nil
}

func (p *Pipeline) TopOrderedProductPerCustomer(ctx context.Context) ([]models.TopProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	owner := make(map[int64]string, len(p.ds.Orders))
	for _, o := range p.ds.Orders {
		owner[o.OrderID] = o.CustomerID
	}

	// customer -> product -> value
	perCustomer := make(map[string]map[int64]decimal.Decimal)
	for _, d := range p.ds.OrderDetails {
		customerID, ok := owner[d.OrderID]
		if !ok {
			continue
		}
		products := perCustomer[customerID]
		if products == nil {
			products = make(map[int64]decimal.Decimal)
			perCustomer[customerID] = products
		}
		products[d.ProductID] = products[d.ProductID].Add(d.Value())
	}

	top := []models.TopProduct{}
	for _, customerID := range sortedKeys(perCustomer) {
		products := perCustomer[customerID]

		ids := make([]int64, 0, len(products))
		for id := range products {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		var first decimal.Decimal
		for i, id := range ids {
			if i == 0 || products[id].GreaterThan(first) {
				first = products[id]
			}
		}
		// rank 1 shared by every product equal to the max
		for _, id := range ids {
			if products[id].Equal(first) {
				top = append(top, models.TopProduct{CustomerID: customerID, ProductID: id, ProductValue: products[id]})
			}
		}
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].ProductValue.GreaterThan(top[j].ProductValue)
	})
	return top, nil
}

func (p *Pipeline) AverageDaysBetweenOrders(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dates := make(map[string][]time.Time)
	for _, o := range p.ds.Orders {
		dates[o.CustomerID] = append(dates[o.CustomerID], o.OrderDate)
	}

	var total float64
	var gaps int
	for _, ts := range dates {
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
		for i := 1; i < len(ts); i++ {
			total += ts[i].Sub(ts[i-1]).Hours() / 24
			gaps++
		}
	}

	if gaps == 0 {
		return 0, ErrNoData
	}
	return int(math.Round(total / float64(gaps))), nil
}
