package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/abhinavparupati/skillrank-hackathon/internal/logger"
	"github.com/abhinavparupati/skillrank-hackathon/internal/model"
	"github.com/abhinavparupati/skillrank-hackathon/internal/pipeline"
	"github.com/abhinavparupati/skillrank-hackathon/internal/repository"
)

const scenarioCSV = `InvoiceNo,StockCode,Description,Quantity,UnitPrice,InvoiceDate,CustomerID,Country
536365,X1,STAR CANDLE MUG,3,2.50,2023-01-05 10:15:00,17,UK
536366,Y2,NO CUSTOMER ROW,1,1.00,2023-01-06 09:00:00,,UK
`

func openTestStore(t *testing.T, dir string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "retail.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	return db
}

func runPipeline(t *testing.T, db *gorm.DB, csvPath string) *pipeline.Report {
	t.Helper()
	p := pipeline.New(csvPath, repository.NewStoreRepo(db), repository.NewIntegrityRepo(db), logger.NewWithWriter(os.Stderr))
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}
	return report
}

func TestPipelineScenario(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(csvPath, []byte(scenarioCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	db := openTestStore(t, dir)
	report := runPipeline(t, db, csvPath)

	// The null-customer record contributes nothing.
	wantCounts := map[string]int64{"customers": 1, "products": 1, "orders": 1, "sales": 1}
	for table, want := range wantCounts {
		if got := report.TableCounts[table]; got != want {
			t.Errorf("%s count = %d, want %d", table, got, want)
		}
	}
	if !report.Ok() {
		t.Errorf("unexpected discrepancies: %+v", report.Discrepancies)
	}
	if report.RawCount != 2 || report.CleanStats.Output != 1 || report.CleanStats.DroppedNoCustomer != 1 {
		t.Errorf("unexpected clean stats: raw=%d %+v", report.RawCount, report.CleanStats)
	}

	var customer model.Customer
	if err := db.First(&customer).Error; err != nil {
		t.Fatalf("reading customer: %v", err)
	}
	if customer.ID != 17 {
		t.Errorf("customer id = %d, want 17", customer.ID)
	}
	if customer.Name != pipeline.CustomerName(17) {
		t.Errorf("customer name = %q, want deterministic synthesis", customer.Name)
	}
	if customer.City != "UK" {
		t.Errorf("customer city = %q, want UK", customer.City)
	}

	var product model.Product
	if err := db.First(&product).Error; err != nil {
		t.Fatalf("reading product: %v", err)
	}
	if product.ID != "X1" || product.Price != 2.50 {
		t.Errorf("product = %+v, want id X1 price 2.50", product)
	}
	if product.Category != "Lighting & Candles" {
		t.Errorf("category = %q, candle keyword must win over mug", product.Category)
	}

	var order model.Order
	if err := db.First(&order).Error; err != nil {
		t.Fatalf("reading order: %v", err)
	}
	if order.ID != 1 || order.CustomerID != 17 || order.ProductID != "X1" {
		t.Errorf("order references wrong: %+v", order)
	}
	if order.Total != 7.50 {
		t.Errorf("order total = %v, want 7.50", order.Total)
	}
	if got := order.OrderDate.Format("2006-01-02"); got != "2023-01-05" {
		t.Errorf("order date = %s, want 2023-01-05", got)
	}

	var sale model.Sale
	if err := db.First(&sale).Error; err != nil {
		t.Fatalf("reading sale: %v", err)
	}
	if sale.OrderID != order.ID || sale.Revenue != 7.50 {
		t.Errorf("sale = %+v, want order_id %d revenue 7.50", sale, order.ID)
	}
	if sale.ProfitMargin < pipeline.MarginMin || sale.ProfitMargin > pipeline.MarginMax {
		t.Errorf("profit margin %v outside bounds", sale.ProfitMargin)
	}

	// Aggregate sanity section.
	if report.TotalRevenue != 7.50 {
		t.Errorf("total revenue = %v, want 7.50", report.TotalRevenue)
	}
	if report.CategoryCount != 1 {
		t.Errorf("category count = %d, want 1", report.CategoryCount)
	}
}

func TestPipelineIdempotentRebuild(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(csvPath, []byte(scenarioCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	db := openTestStore(t, dir)

	first := runPipeline(t, db, csvPath)
	var customer1 model.Customer
	var product1 model.Product
	if err := db.First(&customer1).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.First(&product1).Error; err != nil {
		t.Fatal(err)
	}

	second := runPipeline(t, db, csvPath)
	var customer2 model.Customer
	var product2 model.Product
	if err := db.First(&customer2).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.First(&product2).Error; err != nil {
		t.Fatal(err)
	}

	for table, count := range first.TableCounts {
		if second.TableCounts[table] != count {
			t.Errorf("%s count changed across rebuilds: %d vs %d", table, count, second.TableCounts[table])
		}
	}
	if customer1.Name != customer2.Name || customer1.Email != customer2.Email {
		t.Errorf("customer synthesis changed across rebuilds: %+v vs %+v", customer1, customer2)
	}
	if product1.Stock != product2.Stock || product1.Price != product2.Price || product1.Category != product2.Category {
		t.Errorf("product derivation changed across rebuilds: %+v vs %+v", product1, product2)
	}
}

func TestPipelineMissingSourceFails(t *testing.T) {
	dir := t.TempDir()
	db := openTestStore(t, dir)

	p := pipeline.New(filepath.Join(dir, "absent.csv"), repository.NewStoreRepo(db), repository.NewIntegrityRepo(db), logger.NewWithWriter(os.Stderr))
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected SourceReadError for missing source")
	}
}
