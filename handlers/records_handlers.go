package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Manav108-hub/backend-hackathon/database"
	"github.com/Manav108-hub/backend-hackathon/models"
	"github.com/Manav108-hub/backend-hackathon/seed"
	"github.com/Manav108-hub/backend-hackathon/store"
	"github.com/Manav108-hub/backend-hackathon/utils"
)

// paginate slices records for the requested page and builds the pagination
// envelope.
func paginate[T any](c *fiber.Ctx, records []T) ([]T, *utils.Pagination) {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	p := utils.CreatePagination(len(records), page, pageSize)

	start := (p.CurrentPage - 1) * p.PageSize
	if start >= len(records) {
		return []T{}, p
	}
	end := start + p.PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], p
}

// HandleListSales lists sales records in chronological order.
// GET /api/v1/records/sales
func HandleListSales(c *fiber.Ctx) error {
	records, err := store.New(database.GetDB()).ListSales(c.Context(), 0)
	if err != nil {
		log.Printf("Error listing sales records: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list sales records"})
	}

	page, pagination := paginate(c, records)
	return c.JSON(fiber.Map{"status": "success", "data": page, "pagination": pagination})
}

// HandleGetSale fetches a single sales record.
// GET /api/v1/records/sales/:id
func HandleGetSale(c *fiber.Ctx) error {
	record, err := store.New(database.GetDB()).GetSale(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Sales record not found"})
		}
		log.Printf("Error getting sales record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to get sales record"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": record})
}

// HandleCreateSale appends a sales record.
// POST /api/v1/records/sales
func HandleCreateSale(c *fiber.Ctx) error {
	var record models.SalesRecord
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if record.Quantity < 0 || record.Revenue < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "quantity and revenue must be non-negative"})
	}

	id, err := store.New(database.GetDB()).AppendSale(c.Context(), record)
	if err != nil {
		log.Printf("Error creating sales record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sales record"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "id": id})
}

// HandleListInventory lists inventory records.
// GET /api/v1/records/inventory
func HandleListInventory(c *fiber.Ctx) error {
	records, err := store.New(database.GetDB()).ListInventory(c.Context(), 0)
	if err != nil {
		log.Printf("Error listing inventory records: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list inventory records"})
	}

	page, pagination := paginate(c, records)
	return c.JSON(fiber.Map{"status": "success", "data": page, "pagination": pagination})
}

// HandleGetInventory fetches a single inventory record.
// GET /api/v1/records/inventory/:id
func HandleGetInventory(c *fiber.Ctx) error {
	record, err := store.New(database.GetDB()).GetInventory(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Inventory record not found"})
		}
		log.Printf("Error getting inventory record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to get inventory record"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": record})
}

// HandleCreateInventory appends an inventory record.
// POST /api/v1/records/inventory
func HandleCreateInventory(c *fiber.Ctx) error {
	var record models.InventoryRecord
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if record.CurrentStock < 0 || record.ReorderLevel < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "stock levels must be non-negative"})
	}

	id, err := store.New(database.GetDB()).AppendInventory(c.Context(), record)
	if err != nil {
		log.Printf("Error creating inventory record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create inventory record"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "id": id})
}

// HandleUpdateInventoryStock updates the stock level on a record.
// PUT /api/v1/records/inventory/:id/stock
func HandleUpdateInventoryStock(c *fiber.Ctx) error {
	var body struct {
		CurrentStock float64 `json:"current_stock"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if body.CurrentStock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "current_stock must be non-negative"})
	}

	err := store.New(database.GetDB()).UpdateInventoryStock(c.Context(), c.Params("id"), body.CurrentStock)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Inventory record not found"})
		}
		log.Printf("Error updating inventory record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update inventory record"})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleListDeliveries lists delivery records.
// GET /api/v1/records/deliveries
func HandleListDeliveries(c *fiber.Ctx) error {
	records, err := store.New(database.GetDB()).ListDeliveries(c.Context(), 0)
	if err != nil {
		log.Printf("Error listing delivery records: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list delivery records"})
	}

	page, pagination := paginate(c, records)
	return c.JSON(fiber.Map{"status": "success", "data": page, "pagination": pagination})
}

// HandleGetDelivery fetches a single delivery record.
// GET /api/v1/records/deliveries/:id
func HandleGetDelivery(c *fiber.Ctx) error {
	record, err := store.New(database.GetDB()).GetDelivery(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Delivery record not found"})
		}
		log.Printf("Error getting delivery record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to get delivery record"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": record})
}

// HandleCreateDelivery appends a delivery record.
// POST /api/v1/records/deliveries
func HandleCreateDelivery(c *fiber.Ctx) error {
	var record models.DeliveryRecord
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	id, err := store.New(database.GetDB()).AppendDelivery(c.Context(), record)
	if err != nil {
		log.Printf("Error creating delivery record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create delivery record"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "id": id})
}

// HandleUpdateDeliveryStatus moves a delivery through its lifecycle.
// PUT /api/v1/records/deliveries/:id/status
func HandleUpdateDeliveryStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if body.Status != "pending" && body.Status != "in_transit" && body.Status != "delivered" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "status must be pending, in_transit or delivered"})
	}

	err := store.New(database.GetDB()).UpdateDeliveryStatus(c.Context(), c.Params("id"), body.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Delivery record not found"})
		}
		log.Printf("Error updating delivery record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update delivery record"})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleGetDashboardSummary aggregates headline numbers.
// GET /api/v1/admin/dashboard/summary
func HandleGetDashboardSummary(c *fiber.Ctx) error {
	summary, err := store.New(database.GetDB()).DashboardSummary(c.Context())
	if err != nil {
		log.Printf("Error building dashboard summary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build dashboard summary"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": summary})
}

// HandleSeedDemoData generates one batch of synthetic records.
// POST /api/v1/admin/seed
func HandleSeedDemoData(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 || days > 365 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "days must be between 1 and 365"})
	}

	if err := seed.Run(c.Context(), store.New(database.GetDB()), days); err != nil {
		log.Printf("Error seeding demo data: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to seed demo data"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "days": days})
}
