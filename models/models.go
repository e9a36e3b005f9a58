package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// User represents an administrator or viewer of the dashboard.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Supply-chain records ---

// SalesRecord is one day's sales figure for a product.
type SalesRecord struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	ProductID *string   `json:"product_id,omitempty"`
	Quantity  float64   `json:"quantity"`
	Revenue   float64   `json:"revenue"`
	Category  *string   `json:"category,omitempty"`
}

// InventoryRecord is a point-in-time stock level for a product.
type InventoryRecord struct {
	ID           string     `json:"id"`
	ProductID    *string    `json:"product_id,omitempty"`
	CurrentStock float64    `json:"current_stock"`
	ReorderLevel float64    `json:"reorder_level"`
	Category     *string    `json:"category,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// DeliveryRecord tracks an inbound shipment from a supplier.
type DeliveryRecord struct {
	ID           string     `json:"id"`
	ProductID    *string    `json:"product_id,omitempty"`
	Quantity     float64    `json:"quantity"`
	Status       string     `json:"status"` // pending | in_transit | delivered
	ExpectedDate time.Time  `json:"expected_date"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DashboardSummary aggregates headline numbers for the admin dashboard.
type DashboardSummary struct {
	TotalSalesRecords     int     `json:"total_sales_records"`
	TotalRevenue          float64 `json:"total_revenue"`
	TotalInventoryRecords int     `json:"total_inventory_records"`
	LowStockItems         int     `json:"low_stock_items"`
	PendingDeliveries     int     `json:"pending_deliveries"`
}
