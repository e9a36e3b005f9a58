package seed

import (
	"testing"
	"time"
)

func TestGenerateSalesShape(t *testing.T) {
	records := GenerateSales(30)
	if len(records) != 30 {
		t.Fatalf("expected 30 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Quantity < 1 || rec.Quantity > 50 {
			t.Fatalf("record %d quantity out of range: %v", i, rec.Quantity)
		}
		if rec.Revenue < rec.Quantity*2 {
			t.Fatalf("record %d revenue below minimum unit price: %v", i, rec.Revenue)
		}
		if rec.ProductID == nil || *rec.ProductID == "" {
			t.Fatalf("record %d missing product id", i)
		}
		if rec.Date.After(time.Now()) {
			t.Fatalf("record %d dated in the future: %v", i, rec.Date)
		}
	}

	// Dates walk forward day by day.
	for i := 1; i < len(records); i++ {
		if !records[i].Date.After(records[i-1].Date) {
			t.Fatalf("dates not increasing at index %d", i)
		}
	}
}

func TestGenerateInventoryShape(t *testing.T) {
	records := GenerateInventory(10)
	if len(records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.ReorderLevel < 20 {
			t.Fatalf("record %d reorder level too small: %v", i, rec.ReorderLevel)
		}
		if rec.Category == nil {
			t.Fatalf("record %d missing category", i)
		}
	}
}

func TestGenerateDeliveriesShape(t *testing.T) {
	valid := map[string]bool{"pending": true, "in_transit": true, "delivered": true}
	for i, rec := range GenerateDeliveries(10) {
		if !valid[rec.Status] {
			t.Fatalf("record %d has unknown status %q", i, rec.Status)
		}
		if rec.Quantity < 10 {
			t.Fatalf("record %d quantity too small: %v", i, rec.Quantity)
		}
	}
}
