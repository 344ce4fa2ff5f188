package pipeline

import "github.com/abhinavparupati/skillrank-hackathon/internal/model"

// Store is the persistence boundary the pipeline writes through. Reset must
// discard any pre-existing tables before recreating the schema so re-running
// against the same source always yields an equivalent store.
type Store interface {
	Reset() error
	WriteCustomers(customers []model.Customer) error
	WriteProducts(products []model.Product) error
	WriteOrders(orders []model.Order) error
	WriteSales(sales []model.Sale) error
}

// IntegrityChecker runs the advisory read-back validation after the writer
// completes and fills the table-count, orphan and aggregate sections of the
// report.
type IntegrityChecker interface {
	Check(report *Report) error
}
