package pipeline

import "time"

// Discrepancy is one advisory finding from the post-load validation pass.
type Discrepancy struct {
	Check    string `json:"check"`
	Table    string `json:"table,omitempty"`
	Expected int64  `json:"expected,omitempty"`
	Actual   int64  `json:"actual,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Report is the structured result of a pipeline run: row counts, referential
// checks and aggregate sanity reads, plus any discrepancies found. It is a
// value tests can assert on directly, not a stream of log lines.
type Report struct {
	RunID      string    `json:"run_id"`
	SourcePath string    `json:"source_path"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	RawCount   int        `json:"raw_count"`
	CleanStats CleanStats `json:"clean_stats"`

	TableCounts map[string]int64 `json:"table_counts"`

	OrphanOrderCustomers int64 `json:"orphan_order_customers"`
	OrphanOrderProducts  int64 `json:"orphan_order_products"`
	OrphanSales          int64 `json:"orphan_sales"`

	FirstOrderDate string  `json:"first_order_date"`
	LastOrderDate  string  `json:"last_order_date"`
	TotalRevenue   float64 `json:"total_revenue"`
	CategoryCount  int64   `json:"category_count"`

	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Ok reports whether the validation pass found no discrepancies.
func (r *Report) Ok() bool {
	return len(r.Discrepancies) == 0
}

// AddDiscrepancy appends a finding to the report.
func (r *Report) AddDiscrepancy(d Discrepancy) {
	r.Discrepancies = append(r.Discrepancies, d)
}
