package pipeline

import (
	"strings"
	"testing"
	"time"
)

func cleanRecord(customerID int, mutate func(*CleanRecord)) CleanRecord {
	r := CleanRecord{
		InvoiceNo:   "536365",
		StockCode:   "85123A",
		Description: "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:    6,
		UnitPrice:   2.55,
		InvoiceDate: time.Date(2011, 6, 15, 13, 45, 0, 0, time.UTC),
		CustomerID:  customerID,
		Country:     "United Kingdom",
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestCustomerSynthesisIsDeterministic(t *testing.T) {
	for _, key := range []int{1, 17, 12583, 17850} {
		name1, name2 := CustomerName(key), CustomerName(key)
		if name1 != name2 {
			t.Errorf("key %d: name not stable: %q vs %q", key, name1, name2)
		}
		if CustomerEmail(name1, key) != CustomerEmail(name2, key) {
			t.Errorf("key %d: email not stable", key)
		}
	}
}

func TestCustomerEmailShape(t *testing.T) {
	name := CustomerName(17)
	email := CustomerEmail(name, 17)

	if email != strings.ToLower(email) {
		t.Errorf("email not lowercase: %q", email)
	}
	if !strings.Contains(email, ".17@") {
		t.Errorf("email must embed the customer key: %q", email)
	}
	wantLocal := strings.ReplaceAll(strings.ToLower(name), " ", ".")
	if !strings.HasPrefix(email, wantLocal+".") {
		t.Errorf("email %q does not start with %q", email, wantLocal)
	}
}

func TestExtractCustomersIndependentOfOrder(t *testing.T) {
	forward := []CleanRecord{
		cleanRecord(17, nil),
		cleanRecord(42, func(r *CleanRecord) { r.Country = "France" }),
		cleanRecord(99, func(r *CleanRecord) { r.Country = "Germany" }),
	}
	reversed := []CleanRecord{forward[2], forward[1], forward[0]}

	a := ExtractCustomers(forward)
	b := ExtractCustomers(reversed)

	if len(a) != len(b) {
		t.Fatalf("count mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name || a[i].Email != b[i].Email {
			t.Errorf("derivation depends on processing order: %+v vs %+v", a[i], b[i])
		}
	}
}

func TestExtractCustomersGrouping(t *testing.T) {
	records := []CleanRecord{
		cleanRecord(17, func(r *CleanRecord) {
			r.InvoiceDate = time.Date(2011, 3, 10, 9, 0, 0, 0, time.UTC)
			r.Country = "United Kingdom"
		}),
		cleanRecord(17, func(r *CleanRecord) {
			r.InvoiceDate = time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
		}),
		cleanRecord(42, func(r *CleanRecord) { r.Country = "France" }),
	}

	customers := ExtractCustomers(records)
	if len(customers) != 2 {
		t.Fatalf("got %d customers, want 2", len(customers))
	}

	first := customers[0]
	if first.ID != 17 {
		t.Fatalf("output must be sorted by id, first = %d", first.ID)
	}
	if got := first.SignupDate.Format("2006-01-02"); got != "2010-12-01" {
		t.Errorf("signup date = %s, want earliest transaction date 2010-12-01", got)
	}
	if h, m, s := first.SignupDate.Clock(); h+m+s != 0 {
		t.Errorf("signup date must be date-truncated, got %v", first.SignupDate)
	}
	if first.City != "United Kingdom" {
		t.Errorf("city = %q, want value from first record in group", first.City)
	}
	if customers[1].City != "France" {
		t.Errorf("second customer city = %q", customers[1].City)
	}
}

func TestExtractCustomersUniqueEmails(t *testing.T) {
	records := make([]CleanRecord, 0, 200)
	for key := 1; key <= 200; key++ {
		records = append(records, cleanRecord(key, nil))
	}

	seen := make(map[string]int)
	for _, c := range ExtractCustomers(records) {
		if prev, dup := seen[c.Email]; dup {
			t.Fatalf("email %q assigned to both %d and %d", c.Email, prev, c.ID)
		}
		seen[c.Email] = c.ID
	}
}
