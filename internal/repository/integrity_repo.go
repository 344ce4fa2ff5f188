package repository

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/abhinavparupati/skillrank-hackathon/internal/pipeline"
)

// IntegrityRepository runs the post-load read-back checks: per-table row
// counts, left-anti-join orphan detection, and aggregate sanity reads. It
// satisfies pipeline.IntegrityChecker. Findings go into the report; the only
// errors returned are query failures.
type IntegrityRepository interface {
	Check(report *pipeline.Report) error
}

type integrityRepo struct {
	db *gorm.DB
}

func NewIntegrityRepo(db *gorm.DB) IntegrityRepository {
	return &integrityRepo{db: db}
}

func (r *integrityRepo) Check(report *pipeline.Report) error {
	if err := r.checkCounts(report); err != nil {
		return err
	}
	if err := r.checkReferences(report); err != nil {
		return err
	}
	if err := r.checkBounds(report); err != nil {
		return err
	}
	return r.readAggregates(report)
}

func (r *integrityRepo) count(query string) (int64, error) {
	var n int64
	if err := r.db.Raw(query).Scan(&n).Error; err != nil {
		return 0, fmt.Errorf("integrity: %q: %w", query, err)
	}
	return n, nil
}

// checkCounts fills per-table counts and flags conservation violations:
// orders must match the cleaned record count and sales must match orders.
func (r *integrityRepo) checkCounts(report *pipeline.Report) error {
	report.TableCounts = make(map[string]int64, 4)
	for _, table := range []string{"customers", "products", "orders", "sales"} {
		n, err := r.count("SELECT COUNT(*) FROM " + table)
		if err != nil {
			return err
		}
		report.TableCounts[table] = n
	}

	expected := int64(report.CleanStats.Output)
	if got := report.TableCounts["orders"]; got != expected {
		report.AddDiscrepancy(pipeline.Discrepancy{
			Check:    "row_count",
			Table:    "orders",
			Expected: expected,
			Actual:   got,
			Detail:   "order count does not match cleaned record count",
		})
	}
	if got, want := report.TableCounts["sales"], report.TableCounts["orders"]; got != want {
		report.AddDiscrepancy(pipeline.Discrepancy{
			Check:    "row_count",
			Table:    "sales",
			Expected: want,
			Actual:   got,
			Detail:   "sale count does not match order count",
		})
	}
	return nil
}

// checkReferences detects orphaned foreign keys with left anti-joins.
func (r *integrityRepo) checkReferences(report *pipeline.Report) error {
	checks := []struct {
		query  string
		table  string
		detail string
		dst    *int64
	}{
		{
			query:  "SELECT COUNT(*) FROM orders o LEFT JOIN customers c ON o.customer_id = c.id WHERE c.id IS NULL",
			table:  "orders",
			detail: "orders referencing a missing customer",
			dst:    &report.OrphanOrderCustomers,
		},
		{
			query:  "SELECT COUNT(*) FROM orders o LEFT JOIN products p ON o.product_id = p.id WHERE p.id IS NULL",
			table:  "orders",
			detail: "orders referencing a missing product",
			dst:    &report.OrphanOrderProducts,
		},
		{
			query:  "SELECT COUNT(*) FROM sales s LEFT JOIN orders o ON s.order_id = o.id WHERE o.id IS NULL",
			table:  "sales",
			detail: "sales referencing a missing order",
			dst:    &report.OrphanSales,
		},
	}

	for _, c := range checks {
		n, err := r.count(c.query)
		if err != nil {
			return err
		}
		*c.dst = n
		if n > 0 {
			report.AddDiscrepancy(pipeline.Discrepancy{
				Check:  "orphan_reference",
				Table:  c.table,
				Actual: n,
				Detail: c.detail,
			})
		}
	}
	return nil
}

// checkBounds confirms the value invariants the writer's schema cannot
// express: unique emails, non-negative totals, margin range.
func (r *integrityRepo) checkBounds(report *pipeline.Report) error {
	bounds := []struct {
		query  string
		table  string
		detail string
	}{
		{
			query:  "SELECT COUNT(*) FROM (SELECT email FROM customers GROUP BY email HAVING COUNT(*) > 1) d",
			table:  "customers",
			detail: "duplicate customer emails",
		},
		{
			query:  "SELECT COUNT(*) FROM orders WHERE total < 0",
			table:  "orders",
			detail: "orders with negative total",
		},
		{
			query:  "SELECT COUNT(*) FROM sales WHERE profit_margin < 0.15 OR profit_margin > 0.45",
			table:  "sales",
			detail: "sales with profit margin outside [0.15, 0.45]",
		},
	}

	for _, b := range bounds {
		n, err := r.count(b.query)
		if err != nil {
			return err
		}
		if n > 0 {
			report.AddDiscrepancy(pipeline.Discrepancy{
				Check:  "value_bounds",
				Table:  b.table,
				Actual: n,
				Detail: b.detail,
			})
		}
	}
	return nil
}

// readAggregates fills the sanity section: order date range, total revenue,
// distinct category count.
func (r *integrityRepo) readAggregates(report *pipeline.Report) error {
	var dates struct {
		First sql.NullString
		Last  sql.NullString
	}
	if err := r.db.Raw("SELECT MIN(order_date) AS first, MAX(order_date) AS last FROM orders").Scan(&dates).Error; err != nil {
		return fmt.Errorf("integrity: order date range: %w", err)
	}
	report.FirstOrderDate = dates.First.String
	report.LastOrderDate = dates.Last.String

	var revenue sql.NullFloat64
	if err := r.db.Raw("SELECT SUM(total) FROM orders").Scan(&revenue).Error; err != nil {
		return fmt.Errorf("integrity: total revenue: %w", err)
	}
	report.TotalRevenue = revenue.Float64

	categories, err := r.count("SELECT COUNT(DISTINCT category) FROM products")
	if err != nil {
		return err
	}
	report.CategoryCount = categories
	return nil
}
