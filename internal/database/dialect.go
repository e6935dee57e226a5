package database

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Dialect captures what differs between the supported engines. Everything
// else in the analytics queries (CTEs, RANK, LAG, ROUND) is shared SQL.
type Dialect struct {
	Name   string
	Driver string

	// DaysBetween renders a fractional day difference between two
	// timestamp expressions, later minus earlier
	DaysBetween func(later, earlier string) string

	customerIDType string
	timestampType  string
	moneyType      string
	integerType    string
	// exactMoney is set when moneyType is a fixed-point column
	exactMoney bool
}

var (
	SQLite = Dialect{
		Name:   "sqlite",
		Driver: "sqlite3",
		DaysBetween: func(later, earlier string) string {
			return fmt.Sprintf("JULIANDAY(%s) - JULIANDAY(%s)", later, earlier)
		},
		customerIDType: "TEXT",
		timestampType:  "TIMESTAMP",
		moneyType:      "REAL",
		integerType:    "INTEGER",
	}

	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		DaysBetween: func(later, earlier string) string {
			return fmt.Sprintf("TIMESTAMPDIFF(SECOND, %s, %s) / 86400.0", earlier, later)
		},
		customerIDType: "VARCHAR(32)",
		timestampType:  "DATETIME",
		moneyType:      "DECIMAL(10,2)",
		integerType:    "SIGNED",
		exactMoney:     true,
	}

	// DuckDB keeps money as DOUBLE; its DECIMAL values scan into a
	// driver-specific type instead of float64/string
	DuckDB = Dialect{
		Name:   "duckdb",
		Driver: "duckdb",
		DaysBetween: func(later, earlier string) string {
			return fmt.Sprintf("date_diff('second', %s, %s) / 86400.0", earlier, later)
		},
		customerIDType: "VARCHAR",
		timestampType:  "TIMESTAMP",
		moneyType:      "DOUBLE",
		integerType:    "BIGINT",
	}
)

// Integer casts expr to a 64-bit integer
func (d Dialect) Integer(expr string) string {
	return fmt.Sprintf("CAST(%s AS %s)", expr, d.integerType)
}

// Cents converts a money expression to whole cents. Money columns may be
// floating point, so sums and comparisons are done on cents, never on the
// column itself.
func (d Dialect) Cents(expr string) string {
	return d.Integer(fmt.Sprintf("ROUND(%s * 100)", expr))
}

// MoneyValue is the bind argument for a money column: the exact decimal
// text for fixed-point columns, the nearest float64 otherwise.
func (d Dialect) MoneyValue(v decimal.Decimal) any {
	if d.exactMoney {
		return v.StringFixed(2)
	}
	f, _ := v.Round(2).Float64()
	return f
}

// DialectFor resolves a config driver name
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
