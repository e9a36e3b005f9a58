// Package seed generates synthetic sales, inventory and delivery records
// for demo environments, either on demand or on a cron schedule.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/Manav108-hub/backend-hackathon/models"
	"github.com/Manav108-hub/backend-hackathon/store"
)

var categories = []string{"beverages", "snacks", "dairy", "produce", "household"}

// GenerateSales produces one random sales record per day for the past days.
func GenerateSales(days int) []models.SalesRecord {
	records := make([]models.SalesRecord, 0, days)
	now := time.Now()
	for i := days; i > 0; i-- {
		productID := uuid.NewString()
		category := categories[rand.Intn(len(categories))]
		quantity := float64(rand.Intn(50) + 1)
		records = append(records, models.SalesRecord{
			Date:      now.AddDate(0, 0, -i),
			ProductID: &productID,
			Quantity:  quantity,
			Revenue:   quantity * (2 + rand.Float64()*18),
			Category:  &category,
		})
	}
	return records
}

// GenerateInventory produces n random inventory snapshots.
func GenerateInventory(n int) []models.InventoryRecord {
	records := make([]models.InventoryRecord, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		productID := uuid.NewString()
		category := categories[rand.Intn(len(categories))]
		records = append(records, models.InventoryRecord{
			ProductID:    &productID,
			CurrentStock: float64(rand.Intn(500)),
			ReorderLevel: float64(rand.Intn(100) + 20),
			Category:     &category,
			Timestamp:    &now,
		})
	}
	return records
}

// GenerateDeliveries produces n random pending or in-transit deliveries.
func GenerateDeliveries(n int) []models.DeliveryRecord {
	statuses := []string{"pending", "in_transit", "delivered"}
	records := make([]models.DeliveryRecord, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		productID := uuid.NewString()
		records = append(records, models.DeliveryRecord{
			ProductID:    &productID,
			Quantity:     float64(rand.Intn(200) + 10),
			Status:       statuses[rand.Intn(len(statuses))],
			ExpectedDate: now.AddDate(0, 0, rand.Intn(14)),
		})
	}
	return records
}

// Run writes one batch of synthetic data through the store.
func Run(ctx context.Context, s *store.Store, days int) error {
	for _, rec := range GenerateSales(days) {
		if _, err := s.AppendSale(ctx, rec); err != nil {
			return fmt.Errorf("seed sales: %w", err)
		}
	}
	for _, rec := range GenerateInventory(days / 2) {
		if _, err := s.AppendInventory(ctx, rec); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
	}
	for _, rec := range GenerateDeliveries(days / 4) {
		if _, err := s.AppendDelivery(ctx, rec); err != nil {
			return fmt.Errorf("seed deliveries: %w", err)
		}
	}
	return nil
}

// Schedule starts a cron job that refreshes demo data on the given spec
// (standard cron format). The returned cron is already started.
func Schedule(spec string, s *store.Store) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := Run(context.Background(), s, 30); err != nil {
			log.Printf("Scheduled demo seed failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid seed schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
