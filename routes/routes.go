package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Manav108-hub/backend-hackathon/handlers"
	"github.com/Manav108-hub/backend-hackathon/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, ah *handlers.AnalyticsHandler) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/register", handlers.HandleRegister)
	auth.Post("/login", handlers.HandleLogin)

	// --- Record Routes ---
	records := api.Group("/records", middleware.JWTMiddleware)

	sales := records.Group("/sales")
	sales.Get("/", handlers.HandleListSales)
	sales.Get("/:id", handlers.HandleGetSale)
	sales.Post("/", handlers.HandleCreateSale)

	inventory := records.Group("/inventory")
	inventory.Get("/", handlers.HandleListInventory)
	inventory.Get("/:id", handlers.HandleGetInventory)
	inventory.Post("/", handlers.HandleCreateInventory)
	inventory.Put("/:id/stock", handlers.HandleUpdateInventoryStock)

	deliveries := records.Group("/deliveries")
	deliveries.Get("/", handlers.HandleListDeliveries)
	deliveries.Get("/:id", handlers.HandleGetDelivery)
	deliveries.Post("/", handlers.HandleCreateDelivery)
	deliveries.Put("/:id/status", handlers.HandleUpdateDeliveryStatus)

	// --- Analytics Routes ---
	analyticsGroup := api.Group("/analytics", middleware.JWTMiddleware)
	analyticsGroup.Get("/sales-forecast", ah.HandleSalesForecast)
	analyticsGroup.Get("/stock-levels", ah.HandleStockLevels)
	analyticsGroup.Get("/stockout-risk", ah.HandleStockoutRisk)
	analyticsGroup.Get("/comprehensive", ah.HandleComprehensive)
	analyticsGroup.Post("/shelf-image", ah.HandleShelfImage)

	// --- Admin Routes ---
	admin := api.Group("/admin", middleware.JWTMiddleware, middleware.AdminRequired)
	admin.Get("/dashboard/summary", handlers.HandleGetDashboardSummary)
	admin.Post("/seed", handlers.HandleSeedDemoData)
}
