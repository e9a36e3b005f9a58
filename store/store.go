// Package store maps the named record collections (sales, inventory,
// deliveries) onto PostgreSQL. Handlers and the analytics engine treat it as
// a typed query/get/append API; store errors are always propagated, never
// swallowed.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Manav108-hub/backend-hackathon/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// --- Sales records ---

// ListSales returns sales records in chronological order. limit 0 means all.
func (s *Store) ListSales(ctx context.Context, limit int) ([]models.SalesRecord, error) {
	query := `
		SELECT id, date, product_id, quantity, revenue, category
		FROM sales_records
		ORDER BY date ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales records: %w", err)
	}
	defer rows.Close()

	records := []models.SalesRecord{}
	for rows.Next() {
		var rec models.SalesRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.ProductID, &rec.Quantity, &rec.Revenue, &rec.Category); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetSale fetches one sales record by id.
func (s *Store) GetSale(ctx context.Context, id string) (models.SalesRecord, error) {
	var rec models.SalesRecord
	err := s.db.QueryRow(ctx, `
		SELECT id, date, product_id, quantity, revenue, category
		FROM sales_records WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Date, &rec.ProductID, &rec.Quantity, &rec.Revenue, &rec.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, ErrNotFound
		}
		return rec, fmt.Errorf("failed to get sales record %s: %w", id, err)
	}
	return rec, nil
}

// AppendSale inserts a sales record and returns its generated id.
func (s *Store) AppendSale(ctx context.Context, rec models.SalesRecord) (string, error) {
	id := uuid.NewString()
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO sales_records (id, date, product_id, quantity, revenue, category)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, rec.Date, rec.ProductID, rec.Quantity, rec.Revenue, rec.Category)
	if err != nil {
		return "", fmt.Errorf("failed to insert sales record: %w", err)
	}
	return id, nil
}

// --- Inventory records ---

// ListInventory returns inventory records, newest snapshot last. limit 0
// means all.
func (s *Store) ListInventory(ctx context.Context, limit int) ([]models.InventoryRecord, error) {
	query := `
		SELECT id, product_id, current_stock, reorder_level, category, recorded_at
		FROM inventory_records
		ORDER BY recorded_at ASC NULLS FIRST`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory records: %w", err)
	}
	defer rows.Close()

	records := []models.InventoryRecord{}
	for rows.Next() {
		var rec models.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.CurrentStock, &rec.ReorderLevel, &rec.Category, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetInventory fetches one inventory record by id.
func (s *Store) GetInventory(ctx context.Context, id string) (models.InventoryRecord, error) {
	var rec models.InventoryRecord
	err := s.db.QueryRow(ctx, `
		SELECT id, product_id, current_stock, reorder_level, category, recorded_at
		FROM inventory_records WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.ProductID, &rec.CurrentStock, &rec.ReorderLevel, &rec.Category, &rec.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, ErrNotFound
		}
		return rec, fmt.Errorf("failed to get inventory record %s: %w", id, err)
	}
	return rec, nil
}

// AppendInventory inserts an inventory record and returns its generated id.
func (s *Store) AppendInventory(ctx context.Context, rec models.InventoryRecord) (string, error) {
	id := uuid.NewString()
	if rec.Timestamp == nil {
		now := time.Now()
		rec.Timestamp = &now
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO inventory_records (id, product_id, current_stock, reorder_level, category, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, rec.ProductID, rec.CurrentStock, rec.ReorderLevel, rec.Category, rec.Timestamp)
	if err != nil {
		return "", fmt.Errorf("failed to insert inventory record: %w", err)
	}
	return id, nil
}

// UpdateInventoryStock sets the stock level on an existing record.
func (s *Store) UpdateInventoryStock(ctx context.Context, id string, currentStock float64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE inventory_records SET current_stock = $2, recorded_at = $3 WHERE id = $1`,
		id, currentStock, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update inventory record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Delivery records ---

// ListDeliveries returns delivery records ordered by expected date. limit 0
// means all.
func (s *Store) ListDeliveries(ctx context.Context, limit int) ([]models.DeliveryRecord, error) {
	query := `
		SELECT id, product_id, quantity, status, expected_date, delivered_at, created_at
		FROM delivery_records
		ORDER BY expected_date ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery records: %w", err)
	}
	defer rows.Close()

	records := []models.DeliveryRecord{}
	for rows.Next() {
		var rec models.DeliveryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.Status, &rec.ExpectedDate, &rec.DeliveredAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan delivery record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetDelivery fetches one delivery record by id.
func (s *Store) GetDelivery(ctx context.Context, id string) (models.DeliveryRecord, error) {
	var rec models.DeliveryRecord
	err := s.db.QueryRow(ctx, `
		SELECT id, product_id, quantity, status, expected_date, delivered_at, created_at
		FROM delivery_records WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.Status, &rec.ExpectedDate, &rec.DeliveredAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, ErrNotFound
		}
		return rec, fmt.Errorf("failed to get delivery record %s: %w", id, err)
	}
	return rec, nil
}

// AppendDelivery inserts a delivery record and returns its generated id.
func (s *Store) AppendDelivery(ctx context.Context, rec models.DeliveryRecord) (string, error) {
	id := uuid.NewString()
	if rec.Status == "" {
		rec.Status = "pending"
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO delivery_records (id, product_id, quantity, status, expected_date, delivered_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, rec.ProductID, rec.Quantity, rec.Status, rec.ExpectedDate, rec.DeliveredAt, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to insert delivery record: %w", err)
	}
	return id, nil
}

// UpdateDeliveryStatus moves a delivery through its lifecycle; a delivered
// status stamps the delivery time.
func (s *Store) UpdateDeliveryStatus(ctx context.Context, id, status string) error {
	var deliveredAt *time.Time
	if status == "delivered" {
		now := time.Now()
		deliveredAt = &now
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE delivery_records SET status = $2, delivered_at = COALESCE($3, delivered_at) WHERE id = $1`,
		id, status, deliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update delivery record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Dashboard ---

// DashboardSummary aggregates headline counts across all collections.
func (s *Store) DashboardSummary(ctx context.Context) (models.DashboardSummary, error) {
	var summary models.DashboardSummary
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sales_records),
			(SELECT COALESCE(SUM(revenue), 0) FROM sales_records),
			(SELECT COUNT(*) FROM inventory_records),
			(SELECT COUNT(*) FROM inventory_records WHERE current_stock < reorder_level),
			(SELECT COUNT(*) FROM delivery_records WHERE status != 'delivered')`,
	).Scan(
		&summary.TotalSalesRecords,
		&summary.TotalRevenue,
		&summary.TotalInventoryRecords,
		&summary.LowStockItems,
		&summary.PendingDeliveries,
	)
	if err != nil {
		return summary, fmt.Errorf("failed to query dashboard summary: %w", err)
	}
	return summary, nil
}

// --- Users ---

// CreateUser inserts a user with a pre-hashed password and returns it.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash, role string) (models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
		RETURNING id, name, email, role, is_active, created_at, updated_at`,
		uuid.NewString(), name, email, passwordHash, role,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return user, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches a user and their password hash for login.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, string, error) {
	var user models.User
	var passwordHash string
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, is_active, created_at, updated_at
		FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.Name, &user.Email, &passwordHash, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, "", ErrNotFound
		}
		return user, "", fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, passwordHash, nil
}
