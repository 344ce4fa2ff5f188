package repository

import (
	"gorm.io/gorm"

	"github.com/abhinavparupati/skillrank-hackathon/internal/model"
)

const writeBatchSize = 500

// StoreRepository rebuilds the four-table schema and bulk-persists derived
// entities. It satisfies pipeline.Store.
type StoreRepository interface {
	Reset() error
	WriteCustomers(customers []model.Customer) error
	WriteProducts(products []model.Product) error
	WriteOrders(orders []model.Order) error
	WriteSales(sales []model.Sale) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

// Reset drops any pre-existing tables in reverse dependency order, then
// recreates the schema with primary keys, foreign keys and indexes from the
// model tags.
func (r *storeRepo) Reset() error {
	migrator := r.db.Migrator()
	for _, table := range []interface{}{&model.Sale{}, &model.Order{}, &model.Product{}, &model.Customer{}} {
		if migrator.HasTable(table) {
			if err := migrator.DropTable(table); err != nil {
				return err
			}
		}
	}
	return r.db.AutoMigrate(&model.Customer{}, &model.Product{}, &model.Order{}, &model.Sale{})
}

func (r *storeRepo) WriteCustomers(customers []model.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	return r.db.CreateInBatches(customers, writeBatchSize).Error
}

func (r *storeRepo) WriteProducts(products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.CreateInBatches(products, writeBatchSize).Error
}

func (r *storeRepo) WriteOrders(orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.Omit("Customer", "Product").CreateInBatches(orders, writeBatchSize).Error
}

func (r *storeRepo) WriteSales(sales []model.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	return r.db.Omit("Order").CreateInBatches(sales, writeBatchSize).Error
}
