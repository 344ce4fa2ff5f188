package pipeline

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func rawRecord(mutate func(*RawRecord)) RawRecord {
	r := RawRecord{
		InvoiceNo:   "536365",
		StockCode:   "85123A",
		Description: "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:    6,
		UnitPrice:   2.55,
		InvoiceDate: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		CustomerID:  intPtr(17850),
		Country:     "United Kingdom",
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestCleanExclusionRules(t *testing.T) {
	tests := []struct {
		name string
		rec  RawRecord
		kept bool
	}{
		{"valid record", rawRecord(nil), true},
		{"missing customer key", rawRecord(func(r *RawRecord) { r.CustomerID = nil }), false},
		{"negative quantity", rawRecord(func(r *RawRecord) { r.Quantity = -3 }), false},
		{"zero quantity", rawRecord(func(r *RawRecord) { r.Quantity = 0 }), false},
		{"zero unit price", rawRecord(func(r *RawRecord) { r.UnitPrice = 0 }), false},
		{"negative unit price", rawRecord(func(r *RawRecord) { r.UnitPrice = -1.5 }), false},
		{"credit note invoice", rawRecord(func(r *RawRecord) { r.InvoiceNo = "C536365" }), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, stats := Clean([]RawRecord{tt.rec})
			if kept := len(cleaned) == 1; kept != tt.kept {
				t.Errorf("kept = %v, want %v", kept, tt.kept)
			}
			if stats.Input != 1 || stats.Output != len(cleaned) {
				t.Errorf("stats inconsistent: %+v", stats)
			}
		})
	}
}

func TestCleanNormalizesDescriptions(t *testing.T) {
	cleaned, _ := Clean([]RawRecord{
		rawRecord(func(r *RawRecord) { r.Description = "  RED TOWEL  " }),
		rawRecord(func(r *RawRecord) { r.Description = "" }),
		rawRecord(func(r *RawRecord) { r.Description = "   " }),
	})

	if len(cleaned) != 3 {
		t.Fatalf("got %d records, want 3", len(cleaned))
	}
	if cleaned[0].Description != "RED TOWEL" {
		t.Errorf("description not trimmed: %q", cleaned[0].Description)
	}
	for _, i := range []int{1, 2} {
		if cleaned[i].Description != PlaceholderDescription {
			t.Errorf("record %d: description = %q, want placeholder", i, cleaned[i].Description)
		}
	}
}

func TestCleanIsStable(t *testing.T) {
	raw := []RawRecord{
		rawRecord(func(r *RawRecord) { r.InvoiceNo = "1" }),
		rawRecord(func(r *RawRecord) { r.InvoiceNo = "C2" }), // dropped
		rawRecord(func(r *RawRecord) { r.InvoiceNo = "3" }),
		rawRecord(func(r *RawRecord) { r.Quantity = -1 }), // dropped
		rawRecord(func(r *RawRecord) { r.InvoiceNo = "5" }),
	}

	cleaned, stats := Clean(raw)
	if len(cleaned) != 3 {
		t.Fatalf("got %d records, want 3", len(cleaned))
	}
	for i, want := range []string{"1", "3", "5"} {
		if cleaned[i].InvoiceNo != want {
			t.Errorf("position %d: invoice %q, want %q", i, cleaned[i].InvoiceNo, want)
		}
	}
	if stats.DroppedCredit != 1 || stats.DroppedQuantity != 1 {
		t.Errorf("drop counters wrong: %+v", stats)
	}
}
