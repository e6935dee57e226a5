package analytics

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/models"
	"github.com/matthieukhl/cartstats/internal/testinfra"
)

// dataset is a small builder for hand-written fixtures
type dataset struct {
	models.Dataset
}

func newDataset(customers ...string) *dataset {
	d := &dataset{}
	for _, c := range customers {
		d.Customers = append(d.Customers, models.Customer{CustomerID: c})
	}
	return d
}

func (d *dataset) order(id int64, customer, date string) *dataset {
	t, err := time.Parse("2006-01-02 15:04", date)
	if err != nil {
		t, err = time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
	}
	d.Orders = append(d.Orders, models.Order{OrderID: id, CustomerID: customer, OrderDate: t})
	return d
}

func (d *dataset) item(orderID, productID, qty int64, price string) *dataset {
	d.OrderDetails = append(d.OrderDetails, models.OrderDetail{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	})
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type engineFactory struct {
	name  string
	build func(t *testing.T, ds *models.Dataset) Engine
}

var engineFactories = []engineFactory{
	{"sqlite", func(t *testing.T, ds *models.Dataset) Engine {
		db := testinfra.NewSQLiteDB(t)
		testinfra.Seed(t, db, ds)
		return NewSQLEngine(db, db.Dialect)
	}},
	{"duckdb", func(t *testing.T, ds *models.Dataset) Engine {
		db := testinfra.NewDuckDB(t)
		testinfra.Seed(t, db, ds)
		return NewSQLEngine(db, db.Dialect)
	}},
	{"pipeline", func(t *testing.T, ds *models.Dataset) Engine {
		return NewPipeline(ds)
	}},
	// snapshot loaded back from SQLite, exercising LoadDataset
	{"sqlite-snapshot", func(t *testing.T, ds *models.Dataset) Engine {
		db := testinfra.NewSQLiteDB(t)
		testinfra.Seed(t, db, ds)
		e, err := NewEngine(context.Background(), EngineMemory, db)
		if err != nil {
			t.Fatalf("NewEngine error: %v", err)
		}
		return e
	}},
}

// forEachEngine runs fn once per engine, each over its own copy of ds
func forEachEngine(t *testing.T, d *dataset, fn func(t *testing.T, e Engine)) {
	t.Helper()
	for _, f := range engineFactories {
		t.Run(f.name, func(t *testing.T) {
			ds := d.Dataset
			fn(t, f.build(t, &ds))
		})
	}
}

func assertAverages(t *testing.T, got []models.CustomerAverage, want []models.CustomerAverage) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d rows, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].CustomerID != want[i].CustomerID || !got[i].Average.Equal(want[i].Average) {
			t.Errorf("Row %d: got (%s, %s), want (%s, %s)", i,
				got[i].CustomerID, got[i].Average, want[i].CustomerID, want[i].Average)
		}
	}
}

// sortTopProducts orders rows by customer then product so tests do not
// depend on the implementation-defined order of ties
func sortTopProducts(rows []models.TopProduct) []models.TopProduct {
	out := append([]models.TopProduct(nil), rows...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CustomerID != out[j].CustomerID {
			return out[i].CustomerID < out[j].CustomerID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

func assertDescendingValues(t *testing.T, rows []models.TopProduct) {
	t.Helper()
	for i := 1; i < len(rows); i++ {
		if rows[i].ProductValue.GreaterThan(rows[i-1].ProductValue) {
			t.Errorf("Rows not descending at %d: %s after %s", i, rows[i].ProductValue, rows[i-1].ProductValue)
		}
	}
}
