package analytics

import (
	"fmt"

	"github.com/matthieukhl/cartstats/internal/database"
)

// Every money value leaves the database as integer cents. Averages are
// rounded to whole cents, which is rounding the amount to 2 decimals.

// orderValuesCTE totals each order's line items. Orders without line items
// produce no row.
func orderValuesCTE(d database.Dialect) string {
	return fmt.Sprintf(`
	OrderValues AS (
		SELECT
			od.OrderID,
			%s AS cents
		FROM OrderDetails od
		GROUP BY od.OrderID
	)`, lineTotal(d))
}

// lineTotal sums Quantity × UnitPrice in cents over the grouped rows of od
func lineTotal(d database.Dialect) string {
	return d.Integer(fmt.Sprintf("SUM(%s * od.Quantity)", d.Cents("od.UnitPrice")))
}

func averagePurchaseQuery(d database.Dialect) string {
	return fmt.Sprintf(`
	WITH%s
	SELECT
		c.CustomerID,
		%s AS average_cents
	FROM Customers c
	JOIN Orders o ON c.CustomerID = o.CustomerID
	JOIN OrderValues ov ON ov.OrderID = o.OrderID
	GROUP BY c.CustomerID
	ORDER BY c.CustomerID`, orderValuesCTE(d), d.Integer("ROUND(AVG(ov.cents))"))
}

// The mean is left to the caller so it can be divided exactly
func generalAvgOrderQuery(d database.Dialect) string {
	return fmt.Sprintf(`
	SELECT %s AS TotalCents, COUNT(*) AS Orders
	FROM (
		SELECT o.OrderID, %s AS cents
		FROM OrderDetails od
		JOIN Orders o ON o.OrderID = od.OrderID
		GROUP BY o.OrderID
	) order_totals`, d.Integer("SUM(order_totals.cents)"), lineTotal(d))
}

// The threshold is the rounded general average over every OrderValues row.
// A customer's unrounded mean exceeds it exactly when its total exceeds
// threshold × order count, which keeps the comparison in integers.
func bestCustomersQuery(d database.Dialect) string {
	return fmt.Sprintf(`
	WITH%s,
	GeneralOrderValue AS (
		SELECT ROUND(AVG(ov.cents)) AS cents
		FROM OrderValues ov
	)
	SELECT
		c.CustomerID,
		%s AS average_cents
	FROM Customers c
	JOIN Orders o ON o.CustomerID = c.CustomerID
	JOIN OrderValues ov ON ov.OrderID = o.OrderID
	GROUP BY c.CustomerID
	HAVING SUM(ov.cents) > (SELECT cents FROM GeneralOrderValue) * COUNT(*)
	ORDER BY average_cents DESC`, orderValuesCTE(d), d.Integer("ROUND(AVG(ov.cents))"))
}

// RANK, not ROW_NUMBER: every product tied for first place is returned.
func topOrderedProductQuery(d database.Dialect) string {
	return fmt.Sprintf(`
	WITH OrderedProducts AS (
		SELECT
			o.CustomerID,
			od.ProductID,
			%s AS cents
		FROM OrderDetails od
		JOIN Orders o ON od.OrderID = o.OrderID
		GROUP BY o.CustomerID, od.ProductID
	),
	Ranks AS (
		SELECT
			op.CustomerID,
			op.ProductID,
			op.cents,
			RANK() OVER (PARTITION BY op.CustomerID ORDER BY op.cents DESC) AS order_rank
		FROM OrderedProducts op
	)
	SELECT r.CustomerID, r.ProductID, r.cents
	FROM Ranks r
	WHERE r.order_rank = 1
	ORDER BY r.cents DESC`, lineTotal(d))
}

func averageDaysBetweenOrdersQuery(d database.Dialect) string {
	return fmt.Sprintf(`
	WITH CustomerOrders AS (
		SELECT
			o.CustomerID,
			o.OrderDate,
			LAG(o.OrderDate) OVER (PARTITION BY o.CustomerID ORDER BY o.OrderDate) AS PrevOrderDate
		FROM Orders o
	)
	SELECT
		ROUND(AVG(%s)) AS AverageDaysBetween
	FROM CustomerOrders
	WHERE PrevOrderDate IS NOT NULL`, d.DaysBetween("OrderDate", "PrevOrderDate"))
}
