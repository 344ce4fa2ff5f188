package service

import (
	"fmt"
	"math"

	"github.com/abhinavparupati/skillrank-hackathon/internal/repository"
)

// DashboardService serves the aggregate read endpoints: store statistics,
// business KPIs and predefined chart datasets.
type DashboardService interface {
	Stats() (map[string]any, error)
	KPIs() (map[string]any, error)
	ChartData(chartType string) ([]map[string]any, error)
}

type dashboardService struct {
	queries repository.QueryRepository
}

func NewDashboardService(queries repository.QueryRepository) DashboardService {
	return &dashboardService{queries: queries}
}

// Stats returns per-table row counts plus the headline business metrics.
func (s *dashboardService) Stats() (map[string]any, error) {
	stats := make(map[string]any)

	for _, table := range []string{"customers", "products", "orders", "sales"} {
		n, err := s.scalar("SELECT COUNT(*) FROM " + table)
		if err != nil {
			return nil, err
		}
		stats[table+"_count"] = n
	}

	metrics := []struct {
		key string
		sql string
	}{
		{"total_revenue", "SELECT COALESCE(SUM(total), 0) FROM orders"},
		{"total_orders", "SELECT COUNT(*) FROM orders"},
		{"active_customers", "SELECT COUNT(DISTINCT customer_id) FROM orders"},
		{"total_products", "SELECT COUNT(*) FROM products"},
		{"avg_order_value", "SELECT COALESCE(AVG(total), 0) FROM orders"},
	}
	for _, m := range metrics {
		v, err := s.scalar(m.sql)
		if err != nil {
			return nil, err
		}
		stats[m.key] = v
	}

	return stats, nil
}

// KPIs extends Stats with month-over-month growth and the top category.
func (s *dashboardService) KPIs() (map[string]any, error) {
	kpis, err := s.Stats()
	if err != nil {
		return nil, err
	}

	growth, err := s.queries.Execute(`SELECT strftime('%Y-%m', order_date) AS month, SUM(total) AS revenue
FROM orders
GROUP BY strftime('%Y-%m', order_date)
ORDER BY month DESC
LIMIT 2`)
	if err != nil {
		return nil, err
	}
	if len(growth.Rows) >= 2 {
		current := toFloat(growth.Rows[0]["revenue"])
		previous := toFloat(growth.Rows[1]["revenue"])
		if previous > 0 {
			kpis["monthly_growth_rate"] = round2((current - previous) / previous * 100)
		}
	}

	top, err := s.queries.Execute(`SELECT p.category, SUM(o.total) AS revenue
FROM products p
JOIN orders o ON p.id = o.product_id
GROUP BY p.category
ORDER BY revenue DESC
LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(top.Rows) > 0 {
		kpis["top_category"] = top.Rows[0]["category"]
		kpis["top_category_revenue"] = top.Rows[0]["revenue"]
	}

	return kpis, nil
}

// chartQueries are the predefined dashboard datasets.
var chartQueries = map[string]string{
	"sales_trend": `SELECT strftime('%Y-%m', order_date) AS month,
       SUM(total) AS revenue,
       COUNT(*) AS orders
FROM orders
GROUP BY strftime('%Y-%m', order_date)
ORDER BY month`,
	"category_sales": `SELECT p.category, SUM(o.total) AS revenue
FROM products p
JOIN orders o ON p.id = o.product_id
GROUP BY p.category
ORDER BY revenue DESC
LIMIT 10`,
	"top_products": `SELECT p.name, SUM(o.quantity) AS quantity_sold, SUM(o.total) AS revenue
FROM products p
JOIN orders o ON p.id = o.product_id
GROUP BY p.id, p.name
ORDER BY revenue DESC
LIMIT 10`,
	"customer_distribution": `SELECT c.city, COUNT(*) AS customer_count
FROM customers c
GROUP BY c.city
ORDER BY customer_count DESC
LIMIT 10`,
}

func (s *dashboardService) ChartData(chartType string) ([]map[string]any, error) {
	sql, ok := chartQueries[chartType]
	if !ok {
		return nil, fmt.Errorf("unknown chart type %q", chartType)
	}
	result, err := s.queries.Execute(sql)
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

func (s *dashboardService) scalar(sql string) (any, error) {
	result, err := s.queries.Execute(sql)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 || len(result.Columns) == 0 {
		return nil, nil
	}
	return result.Rows[0][result.Columns[0]], nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case string:
		var f float64
		fmt.Sscanf(n, "%g", &f)
		return f
	default:
		return 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
