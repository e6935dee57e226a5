package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/cartstats/internal/models"
)

// File names expected by ReadCSVDir
const (
	CustomersFile    = "customers.csv"
	OrdersFile       = "orders.csv"
	OrderDetailsFile = "order_details.csv"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadCSVDir reads customers.csv, orders.csv and order_details.csv from dir.
// Each file needs a header row; columns are matched by name
// (CustomerID, OrderID, OrderDate, ProductID, Quantity, UnitPrice),
// case-insensitively, and extra columns are ignored.
func ReadCSVDir(dir string) (*models.Dataset, error) {
	var ds models.Dataset

	err := readCSVFile(filepath.Join(dir, CustomersFile), []string{"customerid"}, func(rec map[string]string) error {
		ds.Customers = append(ds.Customers, models.Customer{CustomerID: rec["customerid"]})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readCSVFile(filepath.Join(dir, OrdersFile), []string{"orderid", "customerid", "orderdate"}, func(rec map[string]string) error {
		id, err := strconv.ParseInt(rec["orderid"], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid OrderID %q: %w", rec["orderid"], err)
		}
		date, err := parseDate(rec["orderdate"])
		if err != nil {
			return err
		}
		ds.Orders = append(ds.Orders, models.Order{OrderID: id, CustomerID: rec["customerid"], OrderDate: date})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readCSVFile(filepath.Join(dir, OrderDetailsFile), []string{"orderid", "productid", "quantity", "unitprice"}, func(rec map[string]string) error {
		d, err := parseOrderDetail(rec)
		if err != nil {
			return err
		}
		ds.OrderDetails = append(ds.OrderDetails, d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ds, nil
}

func parseOrderDetail(rec map[string]string) (models.OrderDetail, error) {
	var d models.OrderDetail
	var err error

	if d.OrderID, err = strconv.ParseInt(rec["orderid"], 10, 64); err != nil {
		return d, fmt.Errorf("invalid OrderID %q: %w", rec["orderid"], err)
	}
	if d.ProductID, err = strconv.ParseInt(rec["productid"], 10, 64); err != nil {
		return d, fmt.Errorf("invalid ProductID %q: %w", rec["productid"], err)
	}
	if d.Quantity, err = strconv.ParseInt(rec["quantity"], 10, 64); err != nil {
		return d, fmt.Errorf("invalid Quantity %q: %w", rec["quantity"], err)
	}
	if d.Quantity <= 0 {
		return d, fmt.Errorf("invalid Quantity %d: must be positive", d.Quantity)
	}
	if d.UnitPrice, err = decimal.NewFromString(rec["unitprice"]); err != nil {
		return d, fmt.Errorf("invalid UnitPrice %q: %w", rec["unitprice"], err)
	}
	if d.UnitPrice.IsNegative() {
		return d, fmt.Errorf("invalid UnitPrice %s: must not be negative", d.UnitPrice)
	}
	if !d.UnitPrice.Equal(d.UnitPrice.Round(models.MoneyScale)) {
		return d, fmt.Errorf("invalid UnitPrice %s: more than %d decimal places", d.UnitPrice, models.MoneyScale)
	}

	return d, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid OrderDate %q", s)
}

// readCSVFile calls fn once per data row with values keyed by lowercased
// header name
func readCSVFile(path string, required []string, fn func(map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := readCSV(f, required, fn); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func readCSV(r io.Reader, required []string, fn func(map[string]string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, col := range required {
		if !contains(headers, col) {
			return fmt.Errorf("missing column %s", col)
		}
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
