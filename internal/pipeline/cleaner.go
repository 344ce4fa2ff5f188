package pipeline

import (
	"strings"
	"time"
)

// PlaceholderDescription replaces missing description text.
const PlaceholderDescription = "Unknown Product"

// creditMarkerPrefix flags credit notes / cancellations in the invoice id.
const creditMarkerPrefix = "C"

// CleanRecord is a raw record that survived the exclusion rules. CustomerID
// is guaranteed present and quantity/price are guaranteed positive.
type CleanRecord struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int
	UnitPrice   float64
	InvoiceDate time.Time
	CustomerID  int
	Country     string
}

// CleanStats records how many rows each exclusion rule removed.
type CleanStats struct {
	Input             int `json:"input"`
	DroppedNoCustomer int `json:"dropped_no_customer"`
	DroppedQuantity   int `json:"dropped_quantity"`
	DroppedPrice      int `json:"dropped_price"`
	DroppedCredit     int `json:"dropped_credit"`
	Output            int `json:"output"`
}

// exclusionRules run in order; the first matching rule drops the record.
// Keeping them in a table means a new rule is a new entry, not new control
// flow.
var exclusionRules = []struct {
	name string
	drop func(r RawRecord) bool
	tick func(s *CleanStats)
}{
	{
		name: "missing customer key",
		drop: func(r RawRecord) bool { return r.CustomerID == nil },
		tick: func(s *CleanStats) { s.DroppedNoCustomer++ },
	},
	{
		name: "non-positive quantity",
		drop: func(r RawRecord) bool { return r.Quantity <= 0 },
		tick: func(s *CleanStats) { s.DroppedQuantity++ },
	},
	{
		name: "non-positive unit price",
		drop: func(r RawRecord) bool { return r.UnitPrice <= 0 },
		tick: func(s *CleanStats) { s.DroppedPrice++ },
	},
	{
		name: "credit note invoice",
		drop: func(r RawRecord) bool { return strings.HasPrefix(r.InvoiceNo, creditMarkerPrefix) },
		tick: func(s *CleanStats) { s.DroppedCredit++ },
	},
}

// Clean applies the exclusion and normalization rules over the raw sequence.
// The filter is stable: surviving records keep their input order. The result
// is the sole input to every later stage.
func Clean(raw []RawRecord) ([]CleanRecord, CleanStats) {
	stats := CleanStats{Input: len(raw)}
	cleaned := make([]CleanRecord, 0, len(raw))

next:
	for _, r := range raw {
		for _, rule := range exclusionRules {
			if rule.drop(r) {
				rule.tick(&stats)
				continue next
			}
		}

		desc := strings.TrimSpace(r.Description)
		if desc == "" {
			desc = PlaceholderDescription
		}

		cleaned = append(cleaned, CleanRecord{
			InvoiceNo:   r.InvoiceNo,
			StockCode:   r.StockCode,
			Description: desc,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			InvoiceDate: r.InvoiceDate,
			CustomerID:  *r.CustomerID,
			Country:     r.Country,
		})
	}

	stats.Output = len(cleaned)
	return cleaned, stats
}
