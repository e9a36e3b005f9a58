package handlers

import (
	"encoding/base64"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Manav108-hub/backend-hackathon/analytics"
	"github.com/Manav108-hub/backend-hackathon/store"
)

// AnalyticsHandler serves the AI analytics endpoints. The engine owns the
// cache and rate-limit state, so it is constructed once at startup and
// injected here rather than living in package globals.
type AnalyticsHandler struct {
	Store  *store.Store
	Engine *analytics.Engine
}

func NewAnalyticsHandler(s *store.Store, e *analytics.Engine) *AnalyticsHandler {
	return &AnalyticsHandler{Store: s, Engine: e}
}

// HandleSalesForecast predicts near-term sales volume.
// GET /api/v1/analytics/sales-forecast
func (h *AnalyticsHandler) HandleSalesForecast(c *fiber.Ctx) error {
	sales, err := h.Store.ListSales(c.Context(), 0)
	if err != nil {
		log.Printf("Error loading sales history for forecast: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load sales history"})
	}

	forecast, err := h.Engine.SalesForecast(c.Context(), sales)
	if err != nil {
		log.Printf("Sales forecast failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to compute sales forecast"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": forecast})
}

// HandleStockLevels assesses the current stock position.
// GET /api/v1/analytics/stock-levels
func (h *AnalyticsHandler) HandleStockLevels(c *fiber.Ctx) error {
	inventory, err := h.Store.ListInventory(c.Context(), 0)
	if err != nil {
		log.Printf("Error loading inventory for stock assessment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load inventory"})
	}

	assessment, err := h.Engine.StockAssessment(c.Context(), inventory)
	if err != nil {
		log.Printf("Stock assessment failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to compute stock assessment"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": assessment})
}

// HandleStockoutRisk estimates days to stockout and expected volume.
// GET /api/v1/analytics/stockout-risk
func (h *AnalyticsHandler) HandleStockoutRisk(c *fiber.Ctx) error {
	sales, err := h.Store.ListSales(c.Context(), 0)
	if err != nil {
		log.Printf("Error loading sales history for stockout risk: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load sales history"})
	}
	inventory, err := h.Store.ListInventory(c.Context(), 0)
	if err != nil {
		log.Printf("Error loading inventory for stockout risk: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load inventory"})
	}

	risk, err := h.Engine.StockoutRisk(c.Context(), sales, inventory)
	if err != nil {
		log.Printf("Stockout risk analysis failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to compute stockout risk"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": risk})
}

// HandleComprehensive runs the four sub-analyses concurrently.
// GET /api/v1/analytics/comprehensive
func (h *AnalyticsHandler) HandleComprehensive(c *fiber.Ctx) error {
	sales, err := h.Store.ListSales(c.Context(), 0)
	if err != nil {
		log.Printf("Error loading sales history for comprehensive analytics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load sales history"})
	}
	inventory, err := h.Store.ListInventory(c.Context(), 0)
	if err != nil {
		log.Printf("Error loading inventory for comprehensive analytics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load inventory"})
	}

	result, err := h.Engine.Comprehensive(c.Context(), sales, inventory)
	if err != nil {
		log.Printf("Comprehensive analytics failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to compute comprehensive analytics"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": result})
}

// HandleShelfImage analyzes a shelf photo through the vision service.
// POST /api/v1/analytics/shelf-image
// The body carries a base64 data URL, e.g. "data:image/png;base64,...", the
// same shape the multimodal text endpoint accepts.
func (h *AnalyticsHandler) HandleShelfImage(c *fiber.Ctx) error {
	var body struct {
		ImageData string `json:"image_data"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	encoded := body.ImageData
	if parts := strings.Split(encoded, ";base64,"); len(parts) == 2 {
		encoded = parts[1]
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(image) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Failed to decode image data"})
	}

	result, err := h.Engine.AnalyzeShelfImage(c.Context(), image)
	if err != nil {
		if errors.Is(err, analytics.ErrVisionUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "Vision service is not configured"})
		}
		log.Printf("Shelf image analysis failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to analyze shelf image"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": result})
}
