package pipeline

import (
	"math/rand"

	"github.com/abhinavparupati/skillrank-hackathon/internal/model"
)

// Profit margin bounds for synthetic sales.
const (
	MarginMin = 0.15
	MarginMax = 0.45
)

// SynthesizeOrders maps each cleaned record 1:1 to an order. Identifiers are
// sequential starting at 1 in cleaned-record order; no deduplication happens
// here, each record is one line-item.
func SynthesizeOrders(records []CleanRecord) []model.Order {
	orders := make([]model.Order, 0, len(records))
	for i, r := range records {
		orders = append(orders, model.Order{
			ID:         i + 1,
			CustomerID: r.CustomerID,
			ProductID:  r.StockCode,
			Quantity:   r.Quantity,
			OrderDate:  truncateToDate(r.InvoiceDate),
			Total:      round2(float64(r.Quantity) * r.UnitPrice),
		})
	}
	return orders
}

// SynthesizeSales derives exactly one sale per order. The profit margin is an
// independent uniform draw in [MarginMin, MarginMax] per order; unlike the
// customer and product synthesis it is not a function of the order, so
// different runs produce different margins.
func SynthesizeSales(orders []model.Order) []model.Sale {
	sales := make([]model.Sale, 0, len(orders))
	for i, o := range orders {
		sales = append(sales, model.Sale{
			ID:           i + 1,
			OrderID:      o.ID,
			Revenue:      o.Total,
			ProfitMargin: round3(MarginMin + rand.Float64()*(MarginMax-MarginMin)),
			SalesDate:    o.OrderDate,
		})
	}
	return sales
}
